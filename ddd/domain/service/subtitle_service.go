package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// SubtitleBurnHandler 消费translation_ready作业：下载原始切片与
// 翻译字幕，压制后上传成品制品。整条管道里唯一的重负载阶段。
type SubtitleBurnHandler struct {
	handlerBase
	artifactRepo    repo.StorageArtifactRepository
	translationRepo repo.TranslationRepository
	bucket          gateway.BucketGateway
	subtitler       gateway.SubtitlerGateway
	provider        string
	cfg             *config.Config
}

// NewSubtitleBurnHandler 创建字幕压制处理器
func NewSubtitleBurnHandler(
	videoRepo repo.VideoRepository,
	artifactRepo repo.StorageArtifactRepository,
	translationRepo repo.TranslationRepository,
	bucket gateway.BucketGateway,
	subtitler gateway.SubtitlerGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
	provider string,
	cfg *config.Config,
) *SubtitleBurnHandler {
	return &SubtitleBurnHandler{
		handlerBase:     handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		artifactRepo:    artifactRepo,
		translationRepo: translationRepo,
		bucket:          bucket,
		subtitler:       subtitler,
		provider:        provider,
		cfg:             cfg,
	}
}

func (h *SubtitleBurnHandler) JobType() vo.JobType { return vo.JobTypeTranslationReady }

func (h *SubtitleBurnHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	tj, ok := job.(*vo.TranslationReadyJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	video, err := h.loadVideo(ctx, tj.VideoID)
	if err != nil {
		return err
	}
	// 压制途中被重投时阶段已是subtitling，同样接受
	if video == nil || (video.Stage() != vo.StageTranslating && video.Stage() != vo.StageSubtitling) {
		return h.staleJob(tj.VideoID, h.JobType(), stageOrUnknown(video))
	}

	if existing, err := h.artifactRepo.GetByVideoAndStage(ctx, video.ID(), vo.ArtifactStageProcessed); err != nil {
		return fmt.Errorf("check processed artifact video_id=%d: %w", video.ID(), err)
	} else if existing != nil {
		// 事务已提交但消息未删除：补齐触发即可
		if err := h.queue.Send(ctx, &vo.ProcessedUploadedJob{VideoID: video.ID()}); err != nil {
			return fmt.Errorf("re-enqueue processed_uploaded video_id=%d: %w", video.ID(), err)
		}
		return nil
	}

	raw, err := h.artifactRepo.GetByVideoAndStage(ctx, video.ID(), vo.ArtifactStageRaw)
	if err != nil {
		return fmt.Errorf("load raw artifact video_id=%d: %w", video.ID(), err)
	}
	if raw == nil {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("no raw artifact for video %d", video.ID()))
	}

	translation, err := h.translationRepo.GetTranslationByVideo(ctx, video.ID())
	if err != nil {
		return fmt.Errorf("load translation video_id=%d: %w", video.ID(), err)
	}
	if translation == nil {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("translation_ready without translation record for video %d", video.ID()))
	}

	// 压制可能耗时数分钟，先按估算延长消息可见性
	estimate, err := h.subtitler.EstimateTime(ctx, raw)
	if err != nil || estimate <= 0 {
		estimate = int64(h.cfg.Pipeline.FFmpegTimeout.Seconds())
	}
	h.extendVisibility(ctx, msg, time.Duration(estimate)*time.Second+time.Minute)

	if video.Stage() == vo.StageTranslating {
		if err := h.videoRepo.AdvanceStage(ctx, video, vo.StageSubtitling); err != nil {
			return fmt.Errorf("advance video %d to subtitling: %w", video.ID(), err)
		}
	}

	tempDir := h.cfg.Pipeline.TempDir
	videoPath := filepath.Join(tempDir, fmt.Sprintf("burn_in_%d.%s", video.ID(), raw.Format()))
	subtitlePath := filepath.Join(tempDir, fmt.Sprintf("burn_in_%d.srt", video.ID()))
	outputPath := filepath.Join(tempDir, fmt.Sprintf("burn_out_%d.%s", video.ID(), raw.Format()))
	defer removeLocalFile(videoPath)
	defer removeLocalFile(subtitlePath)
	defer removeLocalFile(outputPath)

	if err := h.bucket.DownloadToLocalPath(ctx, raw.ObjectKey(), videoPath); err != nil {
		return fmt.Errorf("download raw video_id=%d: %w", video.ID(), err)
	}
	if err := h.bucket.DownloadToLocalPath(ctx, translation.SubtitleKey(), subtitlePath); err != nil {
		return fmt.Errorf("download subtitles video_id=%d: %w", video.ID(), err)
	}

	externalJobID, err := h.subtitler.Subtitle(ctx, videoPath, subtitlePath, outputPath)
	if err != nil {
		return fmt.Errorf("burn subtitles video_id=%d: %w", video.ID(), err)
	}
	if externalJobID != "" {
		// 异步压制服务：登记外部作业ID，完成回调会重新投递本作业
		if err := h.translationRepo.SetExternalJobID(ctx, video.ID(), externalJobID); err != nil {
			return fmt.Errorf("record external subtitle job video_id=%d: %w", video.ID(), err)
		}
		logger.Infof("Subtitle burn delegated video_id=%d external_job_id=%s", video.ID(), externalJobID)
		return nil
	}

	objectKey := processedObjectKey(video.ID(), raw.Format())
	size, err := h.bucket.UploadFromLocalPath(ctx, objectKey, outputPath)
	if err != nil {
		return fmt.Errorf("upload processed video_id=%d: %w", video.ID(), err)
	}

	artifact := entity.NewStorageArtifactEntity(video.ID(), vo.ArtifactStageProcessed, raw.Format(), objectKey, size, h.provider)
	if err := h.artifactRepo.CreateWithStageAdvance(ctx, artifact, video, vo.StageUploading); err != nil {
		return fmt.Errorf("persist processed artifact video_id=%d: %w", video.ID(), err)
	}

	if err := h.queue.Send(ctx, &vo.ProcessedUploadedJob{VideoID: video.ID()}); err != nil {
		return fmt.Errorf("enqueue processed_uploaded video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageUploading)
	logger.Infof("Subtitles burned in video_id=%d object_key=%s size=%d", video.ID(), objectKey, size)
	return nil
}
