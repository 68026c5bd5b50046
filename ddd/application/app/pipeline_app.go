package app

import (
	"context"
	"fmt"

	"clipflow-service/ddd/application/dto"
	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/queue"
	"clipflow-service/ddd/infrastructure/worker"
	"clipflow-service/pkg/errno"
	"clipflow-service/pkg/logger"
)

// PipelineApp 管道运维应用服务
type PipelineApp interface {
	// GetStats 获取工作器与进程内队列指标
	GetStats(ctx context.Context) (*dto.PipelineStatsResponse, error)

	// GetVideoStatus 查询视频的管道状态
	GetVideoStatus(ctx context.Context, videoID uint64) (*dto.VideoStatusResponse, error)

	// RetryVideo 运维重试：清除错误标记并按当前阶段重新触发作业
	RetryVideo(ctx context.Context, videoID uint64) (*dto.RetryVideoResponse, error)
}

type pipelineAppImpl struct {
	workerID     string
	worker       worker.PipelineWorker
	lightQueue   *queue.MemoryJobQueue
	heavyQueue   *queue.MemoryJobQueue
	videoRepo    repo.VideoRepository
	originalRepo repo.OriginalVideoRepository
	broker       gateway.QueueGateway
}

// NewPipelineApp 创建管道运维应用服务
func NewPipelineApp(
	workerID string,
	pipelineWorker worker.PipelineWorker,
	lightQueue, heavyQueue *queue.MemoryJobQueue,
	videoRepo repo.VideoRepository,
	originalRepo repo.OriginalVideoRepository,
	broker gateway.QueueGateway,
) PipelineApp {
	return &pipelineAppImpl{
		workerID:     workerID,
		worker:       pipelineWorker,
		lightQueue:   lightQueue,
		heavyQueue:   heavyQueue,
		videoRepo:    videoRepo,
		originalRepo: originalRepo,
		broker:       broker,
	}
}

// GetStats 获取工作器与进程内队列指标
func (a *pipelineAppImpl) GetStats(ctx context.Context) (*dto.PipelineStatsResponse, error) {
	stats := a.worker.GetStats()
	return &dto.PipelineStatsResponse{
		WorkerID: a.workerID,
		Worker: dto.WorkerStatsDTO{
			Running:          a.worker.IsRunning(),
			ProcessedJobs:    stats.ProcessedJobs,
			SuccessfulJobs:   stats.SuccessfulJobs,
			FinalFailedJobs:  stats.FinalFailedJobs,
			RetriedJobs:      stats.RetriedJobs,
			MalformedJobs:    stats.MalformedJobs,
			CurrentlyRunning: stats.CurrentlyRunning,
			StartTime:        dto.FormatTime(stats.StartTime),
			LastJobTime:      dto.FormatTime(stats.LastJobTime),
		},
		LightQueue: queueStats(a.lightQueue),
		HeavyQueue: queueStats(a.heavyQueue),
	}, nil
}

func queueStats(q *queue.MemoryJobQueue) dto.QueueStatsDTO {
	m := q.GetMetrics()
	return dto.QueueStatsDTO{
		EnqueueCount: m.EnqueueCount,
		DequeueCount: m.DequeueCount,
		MaxSize:      m.MaxSize,
		CurrentSize:  m.CurrentSize,
	}
}

// GetVideoStatus 查询视频的管道状态
func (a *pipelineAppImpl) GetVideoStatus(ctx context.Context, videoID uint64) (*dto.VideoStatusResponse, error) {
	video, err := a.videoRepo.GetVideo(ctx, videoID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if video == nil {
		return nil, errno.NewBizError(errno.ErrVideoNotFound, nil)
	}
	return &dto.VideoStatusResponse{
		VideoID:   video.ID(),
		Stage:     video.Stage().String(),
		Error:     video.HasError(),
		PublicURL: video.PublicURL(),
		CreatedAt: dto.FormatTime(video.CreatedAt()),
		UpdatedAt: dto.FormatTime(video.UpdatedAt()),
	}, nil
}

// RetryVideo 清除错误标记并按持久化阶段重建触发作业。
// 阶段本身不回退，重试只是再给一次触发。
func (a *pipelineAppImpl) RetryVideo(ctx context.Context, videoID uint64) (*dto.RetryVideoResponse, error) {
	video, err := a.videoRepo.GetVideo(ctx, videoID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if video == nil {
		return nil, errno.NewBizError(errno.ErrVideoNotFound, nil)
	}
	if !video.HasError() {
		return nil, errno.NewBizError(errno.ErrVideoNotInError, nil)
	}
	if video.Stage().IsTerminal() {
		return nil, errno.NewBizError(errno.ErrStageNotRetriable, fmt.Errorf("stage %s", video.Stage()))
	}

	job, err := a.jobForStage(ctx, video)
	if err != nil {
		return nil, err
	}

	if err := a.videoRepo.ClearVideoError(ctx, videoID); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if err := a.broker.Send(ctx, job); err != nil {
		return nil, errno.NewBizError(errno.ErrEnqueueFailed, err)
	}

	logger.Infof("Video retry enqueued video_id=%d stage=%s job_type=%s", videoID, video.Stage(), job.Type())
	return &dto.RetryVideoResponse{
		VideoID: videoID,
		Stage:   video.Stage().String(),
		JobType: string(job.Type()),
		Message: "retry job enqueued",
	}, nil
}

// jobForStage 按持久化阶段重建对应的触发作业
func (a *pipelineAppImpl) jobForStage(ctx context.Context, video *entity.VideoEntity) (vo.Job, error) {
	switch video.Stage() {
	case vo.StageDownloading:
		return &vo.DownloadVideoJob{
			OriginalVideoID: video.OriginalVideoID(),
			VideoIDs:        []uint64{video.ID()},
		}, nil
	case vo.StageCutting, vo.StageRawUploading:
		original, err := a.originalRepo.GetOriginalVideo(ctx, video.OriginalVideoID())
		if err != nil {
			return nil, errno.NewBizError(errno.ErrDatabase, err)
		}
		if original == nil {
			return nil, errno.NewBizError(errno.ErrOriginalNotFound, nil)
		}
		return &vo.CutVideoJob{
			VideoID:     video.ID(),
			RawFilePath: original.LocalPath(),
		}, nil
	case vo.StageTranscribing:
		return &vo.RawUploadedJob{VideoID: video.ID()}, nil
	case vo.StageTranslating, vo.StageSubtitling:
		return &vo.TranslationReadyJob{VideoID: video.ID()}, nil
	case vo.StageUploading:
		return &vo.ProcessedUploadedJob{VideoID: video.ID()}, nil
	default:
		return nil, errno.NewBizError(errno.ErrStageNotRetriable, fmt.Errorf("stage %s", video.Stage()))
	}
}
