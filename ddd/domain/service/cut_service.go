package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// CutHandler 消费cut_video作业：用本地ffmpeg从共享源文件剪出切片，
// 上传原始制品并在同一事务中推进阶段。
type CutHandler struct {
	handlerBase
	originalRepo repo.OriginalVideoRepository
	artifactRepo repo.StorageArtifactRepository
	bucket       gateway.BucketGateway
	cutter       gateway.CutterGateway
	provider     string
	cfg          *config.Config
}

// NewCutHandler 创建剪切处理器
func NewCutHandler(
	videoRepo repo.VideoRepository,
	originalRepo repo.OriginalVideoRepository,
	artifactRepo repo.StorageArtifactRepository,
	bucket gateway.BucketGateway,
	cutter gateway.CutterGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
	provider string,
	cfg *config.Config,
) *CutHandler {
	return &CutHandler{
		handlerBase:  handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		originalRepo: originalRepo,
		artifactRepo: artifactRepo,
		bucket:       bucket,
		cutter:       cutter,
		provider:     provider,
		cfg:          cfg,
	}
}

func (h *CutHandler) JobType() vo.JobType { return vo.JobTypeCutVideo }

func (h *CutHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	cj, ok := job.(*vo.CutVideoJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	video, err := h.loadVideo(ctx, cj.VideoID)
	if err != nil {
		return err
	}
	if video == nil {
		return h.staleJob(cj.VideoID, h.JobType(), vo.Stage(""))
	}

	// 持久化阶段是唯一真相：已推进过的重投直接跳过，不产生重复制品
	if video.Stage() != vo.StageCutting && video.Stage() != vo.StageRawUploading {
		return h.staleJob(video.ID(), h.JobType(), video.Stage())
	}

	if existing, err := h.artifactRepo.GetByVideoAndStage(ctx, video.ID(), vo.ArtifactStageRaw); err != nil {
		return fmt.Errorf("check raw artifact video_id=%d: %w", video.ID(), err)
	} else if existing != nil {
		// 上一次处理在事务提交后、消息删除前中断：补齐触发即可
		if err := h.queue.Send(ctx, &vo.RawUploadedJob{VideoID: video.ID(), VideoURI: existing.ObjectKey()}); err != nil {
			return fmt.Errorf("re-enqueue raw_uploaded video_id=%d: %w", video.ID(), err)
		}
		return nil
	}

	if !video.HasEndTime() {
		final := h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("video %d has no end_time, cannot cut", video.ID()))
		releaseOriginalIfUnreferenced(ctx, h.videoRepo, h.originalRepo, video.OriginalVideoID())
		return final
	}

	if _, err := os.Stat(cj.RawFilePath); err != nil {
		// 源文件随前一个Worker丢失，重试无法恢复
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("raw source file missing: %s", cj.RawFilePath))
	}

	h.extendVisibility(ctx, msg, h.cfg.Pipeline.FFmpegTimeout)

	format := cj.Format
	if format == "" {
		format = h.cfg.Pipeline.DefaultFormat
	}
	outputPath := filepath.Join(h.cfg.Pipeline.TempDir, fmt.Sprintf("cut_%d.%s", video.ID(), format))
	defer removeLocalFile(outputPath)

	start, end := video.CutBounds()
	if err := h.cutter.Cut(ctx, cj.RawFilePath, gateway.CutBounds{Start: start, End: end}, outputPath); err != nil {
		return fmt.Errorf("cut video_id=%d: %w", video.ID(), err)
	}

	if video.Stage() == vo.StageCutting {
		if err := h.videoRepo.AdvanceStage(ctx, video, vo.StageRawUploading); err != nil {
			return fmt.Errorf("advance video %d to raw_uploading: %w", video.ID(), err)
		}
	}

	objectKey := rawObjectKey(video.ID(), format)
	size, err := h.bucket.UploadFromLocalPath(ctx, objectKey, outputPath)
	if err != nil {
		return fmt.Errorf("upload raw video_id=%d: %w", video.ID(), err)
	}

	artifact := entity.NewStorageArtifactEntity(video.ID(), vo.ArtifactStageRaw, format, objectKey, size, h.provider)
	if err := h.artifactRepo.CreateWithStageAdvance(ctx, artifact, video, vo.StageTranscribing); err != nil {
		return fmt.Errorf("persist raw artifact video_id=%d: %w", video.ID(), err)
	}

	// 最后一个离开剪切阶段的子视频负责释放共享源文件
	releaseOriginalIfUnreferenced(ctx, h.videoRepo, h.originalRepo, video.OriginalVideoID())

	if err := h.queue.Send(ctx, &vo.RawUploadedJob{VideoID: video.ID(), VideoURI: objectKey}); err != nil {
		return fmt.Errorf("enqueue raw_uploaded video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageTranscribing)
	logger.Infof("Video cut and raw artifact stored video_id=%d object_key=%s size=%d", video.ID(), objectKey, size)
	return nil
}
