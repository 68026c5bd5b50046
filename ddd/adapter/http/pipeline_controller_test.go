package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/application/dto"
	"clipflow-service/pkg/errno"
)

type stubPipelineApp struct {
	stats     *dto.PipelineStatsResponse
	status    *dto.VideoStatusResponse
	retry     *dto.RetryVideoResponse
	statusErr error
	retryErr  error
}

func (a *stubPipelineApp) GetStats(context.Context) (*dto.PipelineStatsResponse, error) {
	return a.stats, nil
}

func (a *stubPipelineApp) GetVideoStatus(context.Context, uint64) (*dto.VideoStatusResponse, error) {
	if a.statusErr != nil {
		return nil, a.statusErr
	}
	return a.status, nil
}

func (a *stubPipelineApp) RetryVideo(context.Context, uint64) (*dto.RetryVideoResponse, error) {
	if a.retryErr != nil {
		return nil, a.retryErr
	}
	return a.retry, nil
}

func newTestRouter(app *stubPipelineApp) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewPipelineController(app)
	router.GET("/api/v1/pipeline/stats", controller.GetStats)
	router.GET("/api/v1/pipeline/videos/:video_id", controller.GetVideoStatus)
	router.POST("/api/v1/pipeline/videos/:video_id/retry", controller.RetryVideo)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetVideoStatus_OK(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{status: &dto.VideoStatusResponse{
		VideoID: 101,
		Stage:   "transcribing",
	}})

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/pipeline/videos/101")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, errno.OK.Code, body["code"])

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 101, data["video_id"])
	assert.Equal(t, "transcribing", data["stage"])
}

func TestGetVideoStatus_NotFound(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{
		statusErr: errno.NewBizError(errno.ErrVideoNotFound, nil),
	})

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/pipeline/videos/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, errno.ErrVideoNotFound.Code, body["code"])
}

func TestGetVideoStatus_BadVideoID(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{})

	// 非法路径参数是请求问题，返回400而不是业务冲突
	w, body := doRequest(t, router, http.MethodGet, "/api/v1/pipeline/videos/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, errno.ErrVideoIDRequired.Code, body["code"])
}

func TestRetryVideo_OK(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{retry: &dto.RetryVideoResponse{
		VideoID: 101,
		Stage:   "cutting",
		JobType: "cut_video",
		Message: "retry job enqueued",
	}})

	w, body := doRequest(t, router, http.MethodPost, "/api/v1/pipeline/videos/101/retry")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "cut_video", data["job_type"])
}

func TestRetryVideo_NotInError(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{
		retryErr: errno.NewBizError(errno.ErrVideoNotInError, nil),
	})

	w, body := doRequest(t, router, http.MethodPost, "/api/v1/pipeline/videos/101/retry")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, errno.ErrVideoNotInError.Code, body["code"])
}

func TestGetStats_OK(t *testing.T) {
	router := newTestRouter(&stubPipelineApp{stats: &dto.PipelineStatsResponse{
		WorkerID: "pipeline-worker",
	}})

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/pipeline/stats")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pipeline-worker", data["worker_id"])
}
