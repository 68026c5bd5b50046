package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clipflow-service/ddd/application/app"
	"clipflow-service/pkg/errno"
	"clipflow-service/pkg/restapi"
)

// PipelineController 管道运维控制器
type PipelineController struct {
	pipelineApp app.PipelineApp
}

// NewPipelineController 创建管道运维控制器
func NewPipelineController(pipelineApp app.PipelineApp) *PipelineController {
	return &PipelineController{
		pipelineApp: pipelineApp,
	}
}

// GetStats 获取管道运行指标
func (c *PipelineController) GetStats(ctx *gin.Context) {
	resp, err := c.pipelineApp.GetStats(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetVideoStatus 查询视频管道状态
func (c *PipelineController) GetVideoStatus(ctx *gin.Context) {
	videoID, err := strconv.ParseUint(ctx.Param("video_id"), 10, 64)
	if err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrVideoIDRequired, err))
		return
	}

	resp, err := c.pipelineApp.GetVideoStatus(ctx.Request.Context(), videoID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// RetryVideo 运维重试出错的视频
func (c *PipelineController) RetryVideo(ctx *gin.Context) {
	videoID, err := strconv.ParseUint(ctx.Param("video_id"), 10, 64)
	if err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrVideoIDRequired, err))
		return
	}

	resp, err := c.pipelineApp.RetryVideo(ctx.Request.Context(), videoID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
