package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/queue"
	"clipflow-service/ddd/infrastructure/worker"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/errno"
)

type stubVideoRepo struct {
	videos  map[uint64]*entity.VideoEntity
	cleared []uint64
}

func (r *stubVideoRepo) GetVideo(_ context.Context, videoID uint64) (*entity.VideoEntity, error) {
	return r.videos[videoID], nil
}

func (r *stubVideoRepo) AdvanceStage(context.Context, *entity.VideoEntity, vo.Stage) error {
	return nil
}

func (r *stubVideoRepo) MarkVideoError(context.Context, uint64, vo.Stage, string) error { return nil }

func (r *stubVideoRepo) ClearVideoError(_ context.Context, videoID uint64) error {
	r.cleared = append(r.cleared, videoID)
	return nil
}

func (r *stubVideoRepo) SetPublished(context.Context, *entity.VideoEntity, string) error {
	return nil
}

func (r *stubVideoRepo) CountPendingCut(context.Context, uint64) (int64, error) { return 0, nil }

type stubOriginalRepo struct {
	originals map[uint64]*entity.OriginalVideoEntity
}

func (r *stubOriginalRepo) GetOriginalVideo(_ context.Context, id uint64) (*entity.OriginalVideoEntity, error) {
	return r.originals[id], nil
}

func (r *stubOriginalRepo) UpdateLocalPath(context.Context, uint64, string) error { return nil }
func (r *stubOriginalRepo) UpdateDuration(context.Context, uint64, float64) error { return nil }

type stubBroker struct {
	sent    []vo.Job
	sendErr error
}

func (b *stubBroker) Receive(context.Context) ([]gateway.Message, error) { return nil, nil }

func (b *stubBroker) Send(_ context.Context, job vo.Job) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, job)
	return nil
}

func (b *stubBroker) Delete(context.Context, gateway.Message) error { return nil }

func (b *stubBroker) ExtendVisibility(context.Context, gateway.Message, time.Duration) error {
	return nil
}

func videoInError(id uint64, stage vo.Stage) *entity.VideoEntity {
	now := time.Now()
	end := 42.5
	return entity.NewVideoEntity(id, "title", "", 1, 7, "en", stage, true,
		10, &end, 11, "", "", now, now)
}

func newTestApp(videoRepo *stubVideoRepo, originalRepo *stubOriginalRepo, broker *stubBroker) PipelineApp {
	light := queue.NewMemoryJobQueue(4)
	heavy := queue.NewMemoryJobQueue(4)
	w := worker.NewPipelineWorker("app-test", broker, nil, light, heavy, config.WorkerConfig{})
	return NewPipelineApp("app-test", w, light, heavy, videoRepo, originalRepo, broker)
}

func TestRetryVideo_RebuildsJobPerStage(t *testing.T) {
	cases := []struct {
		stage   vo.Stage
		jobType vo.JobType
	}{
		{vo.StageDownloading, vo.JobTypeDownloadVideo},
		{vo.StageCutting, vo.JobTypeCutVideo},
		{vo.StageRawUploading, vo.JobTypeCutVideo},
		{vo.StageTranscribing, vo.JobTypeRawUploaded},
		{vo.StageTranslating, vo.JobTypeTranslationReady},
		{vo.StageSubtitling, vo.JobTypeTranslationReady},
		{vo.StageUploading, vo.JobTypeProcessedUploaded},
	}

	for _, tc := range cases {
		t.Run(tc.stage.String(), func(t *testing.T) {
			now := time.Now()
			videoRepo := &stubVideoRepo{videos: map[uint64]*entity.VideoEntity{
				101: videoInError(101, tc.stage),
			}}
			originalRepo := &stubOriginalRepo{originals: map[uint64]*entity.OriginalVideoEntity{
				11: entity.NewOriginalVideoEntity(11, "https://videos.example/watch?v=abc", 120, "/tmp/original_11.mp4", now, now),
			}}
			broker := &stubBroker{}
			a := newTestApp(videoRepo, originalRepo, broker)

			resp, err := a.RetryVideo(context.Background(), 101)
			require.NoError(t, err)
			assert.Equal(t, string(tc.jobType), resp.JobType)
			assert.Equal(t, tc.stage.String(), resp.Stage)

			// 先清错误标记，再投触发作业
			assert.Equal(t, []uint64{101}, videoRepo.cleared)
			require.Len(t, broker.sent, 1)
			assert.Equal(t, tc.jobType, broker.sent[0].Type())
		})
	}
}

func TestRetryVideo_CuttingStage_CarriesLocalSourcePath(t *testing.T) {
	now := time.Now()
	videoRepo := &stubVideoRepo{videos: map[uint64]*entity.VideoEntity{
		101: videoInError(101, vo.StageCutting),
	}}
	originalRepo := &stubOriginalRepo{originals: map[uint64]*entity.OriginalVideoEntity{
		11: entity.NewOriginalVideoEntity(11, "https://videos.example/watch?v=abc", 120, "/tmp/original_11.mp4", now, now),
	}}
	broker := &stubBroker{}
	a := newTestApp(videoRepo, originalRepo, broker)

	_, err := a.RetryVideo(context.Background(), 101)
	require.NoError(t, err)

	cut, ok := broker.sent[0].(*vo.CutVideoJob)
	require.True(t, ok)
	assert.Equal(t, "/tmp/original_11.mp4", cut.RawFilePath)
}

func TestRetryVideo_Guards(t *testing.T) {
	now := time.Now()
	end := 42.5
	healthy := entity.NewVideoEntity(102, "title", "", 1, 7, "en", vo.StageCutting, false,
		10, &end, 11, "", "", now, now)

	videoRepo := &stubVideoRepo{videos: map[uint64]*entity.VideoEntity{
		102: healthy,
		103: videoInError(103, vo.StageDone),
		104: videoInError(104, vo.StageCutting),
	}}
	a := newTestApp(videoRepo, &stubOriginalRepo{}, &stubBroker{})

	_, err := a.RetryVideo(context.Background(), 999)
	assertBizError(t, err, errno.ErrVideoNotFound)

	_, err = a.RetryVideo(context.Background(), 102)
	assertBizError(t, err, errno.ErrVideoNotInError)

	_, err = a.RetryVideo(context.Background(), 103)
	assertBizError(t, err, errno.ErrStageNotRetriable)

	// 剪切阶段重试依赖源视频记录
	_, err = a.RetryVideo(context.Background(), 104)
	assertBizError(t, err, errno.ErrOriginalNotFound)
}

func TestRetryVideo_EnqueueFailure_KeepsBizCode(t *testing.T) {
	videoRepo := &stubVideoRepo{videos: map[uint64]*entity.VideoEntity{
		101: videoInError(101, vo.StageUploading),
	}}
	broker := &stubBroker{sendErr: errors.New("broker unavailable")}
	a := newTestApp(videoRepo, &stubOriginalRepo{}, broker)

	_, err := a.RetryVideo(context.Background(), 101)
	assertBizError(t, err, errno.ErrEnqueueFailed)
}

func TestGetVideoStatus(t *testing.T) {
	videoRepo := &stubVideoRepo{videos: map[uint64]*entity.VideoEntity{
		101: videoInError(101, vo.StageTranscribing),
	}}
	a := newTestApp(videoRepo, &stubOriginalRepo{}, &stubBroker{})

	resp, err := a.GetVideoStatus(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), resp.VideoID)
	assert.Equal(t, "transcribing", resp.Stage)
	assert.True(t, resp.Error)

	_, err = a.GetVideoStatus(context.Background(), 999)
	assertBizError(t, err, errno.ErrVideoNotFound)
}

func TestGetStats_ReflectsQueueMetrics(t *testing.T) {
	a := newTestApp(&stubVideoRepo{}, &stubOriginalRepo{}, &stubBroker{})

	resp, err := a.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app-test", resp.WorkerID)
	assert.False(t, resp.Worker.Running)
	assert.Equal(t, 4, resp.LightQueue.MaxSize)
	assert.Equal(t, 4, resp.HeavyQueue.MaxSize)
}

func assertBizError(t *testing.T, err error, want *errno.Errno) {
	t.Helper()
	require.Error(t, err)
	var biz *errno.BizError
	require.ErrorAs(t, err, &biz)
	assert.Equal(t, want.Code, biz.Errno().Code)
}
