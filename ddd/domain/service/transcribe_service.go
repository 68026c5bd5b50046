package service

import (
	"context"
	"fmt"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// TranscribeKickoffHandler 消费raw_uploaded作业：为转写服务签发
// 限时下载地址并发起转写。转写完成由外部webhook投递
// transcription_ready作业，此处只做登记。
type TranscribeKickoffHandler struct {
	handlerBase
	transcriptionRepo repo.TranscriptionRepository
	artifactRepo      repo.StorageArtifactRepository
	bucket            gateway.BucketGateway
	transcriber       gateway.TranscriberGateway
	cfg               *config.Config
}

// NewTranscribeKickoffHandler 创建转写发起处理器
func NewTranscribeKickoffHandler(
	videoRepo repo.VideoRepository,
	transcriptionRepo repo.TranscriptionRepository,
	artifactRepo repo.StorageArtifactRepository,
	bucket gateway.BucketGateway,
	transcriber gateway.TranscriberGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
	cfg *config.Config,
) *TranscribeKickoffHandler {
	return &TranscribeKickoffHandler{
		handlerBase:       handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		transcriptionRepo: transcriptionRepo,
		artifactRepo:      artifactRepo,
		bucket:            bucket,
		transcriber:       transcriber,
		cfg:               cfg,
	}
}

func (h *TranscribeKickoffHandler) JobType() vo.JobType { return vo.JobTypeRawUploaded }

func (h *TranscribeKickoffHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	rj, ok := job.(*vo.RawUploadedJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	video, err := h.loadVideo(ctx, rj.VideoID)
	if err != nil {
		return err
	}
	if video == nil || video.Stage() != vo.StageTranscribing {
		return h.staleJob(rj.VideoID, h.JobType(), stageOrUnknown(video))
	}

	// 重投保护：转写作业已登记则不再发起
	existing, err := h.transcriptionRepo.GetTranscriptionByVideo(ctx, video.ID())
	if err != nil {
		return fmt.Errorf("check transcription video_id=%d: %w", video.ID(), err)
	}
	if existing != nil {
		return nil
	}

	objectKey := rj.VideoURI
	artifact, err := h.artifactRepo.GetByVideoAndStage(ctx, video.ID(), vo.ArtifactStageRaw)
	if err != nil {
		return fmt.Errorf("load raw artifact video_id=%d: %w", video.ID(), err)
	}
	if artifact != nil {
		objectKey = artifact.ObjectKey()
	}
	if objectKey == "" {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("no raw artifact for video %d", video.ID()))
	}

	mediaURL, err := h.bucket.PresignDownload(ctx, objectKey, h.cfg.Pipeline.PresignTTL)
	if err != nil {
		return fmt.Errorf("presign raw download video_id=%d: %w", video.ID(), err)
	}

	jobID, err := h.transcriber.Transcribe(ctx, mediaURL, video.Language())
	if err != nil {
		return fmt.Errorf("kickoff transcription video_id=%d: %w", video.ID(), err)
	}

	if err := h.transcriptionRepo.CreateTranscription(ctx, entity.NewTranscriptionEntity(video.ID(), jobID)); err != nil {
		return fmt.Errorf("persist transcription video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageTranscribing)
	logger.Infof("Transcription kicked off video_id=%d provider_job_id=%s", video.ID(), jobID)
	return nil
}
