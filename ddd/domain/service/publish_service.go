package service

import (
	"context"
	"fmt"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/logger"
)

// PublishHandler 消费processed_uploaded作业：检查发布频道健康后
// 将成品发布到托管平台，写回公开地址并收尾。
type PublishHandler struct {
	handlerBase
	channelRepo  repo.ChannelRepository
	artifactRepo repo.StorageArtifactRepository
	publisher    gateway.PublisherGateway
}

// NewPublishHandler 创建发布处理器
func NewPublishHandler(
	videoRepo repo.VideoRepository,
	channelRepo repo.ChannelRepository,
	artifactRepo repo.StorageArtifactRepository,
	publisher gateway.PublisherGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
) *PublishHandler {
	return &PublishHandler{
		handlerBase:  handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		channelRepo:  channelRepo,
		artifactRepo: artifactRepo,
		publisher:    publisher,
	}
}

func (h *PublishHandler) JobType() vo.JobType { return vo.JobTypeProcessedUploaded }

func (h *PublishHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	pj, ok := job.(*vo.ProcessedUploadedJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	video, err := h.loadVideo(ctx, pj.VideoID)
	if err != nil {
		return err
	}
	if video == nil || video.Stage() != vo.StageUploading {
		return h.staleJob(pj.VideoID, h.JobType(), stageOrUnknown(video))
	}

	channel, err := h.channelRepo.GetChannel(ctx, video.ChannelID())
	if err != nil {
		return fmt.Errorf("load channel %d: %w", video.ChannelID(), err)
	}
	if channel == nil {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("channel %d not found", video.ChannelID()))
	}
	if channel.HasError() {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("channel %d is flagged, publishing suspended", channel.ID()))
	}

	// 健康检查失败是业务规则：冻结频道并停止，而不是重试
	if err := h.publisher.HealthCheck(ctx, channel); err != nil {
		if markErr := h.channelRepo.MarkChannelError(ctx, channel.ID()); markErr != nil {
			return fmt.Errorf("mark channel %d error: %w", channel.ID(), markErr)
		}
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("channel %d health check failed: %w", channel.ID(), err))
	}

	artifact, err := h.artifactRepo.GetByVideoAndStage(ctx, video.ID(), vo.ArtifactStageProcessed)
	if err != nil {
		return fmt.Errorf("load processed artifact video_id=%d: %w", video.ID(), err)
	}
	if artifact == nil {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("no processed artifact for video %d", video.ID()))
	}

	publicID, err := h.publisher.Upload(ctx, video, artifact, channel)
	if err != nil {
		return fmt.Errorf("publish video_id=%d: %w", video.ID(), err)
	}

	if err := h.videoRepo.SetPublished(ctx, video, publicID); err != nil {
		return fmt.Errorf("record publication video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageDone)
	logger.Infof("Video published video_id=%d channel_id=%d public_id=%s", video.ID(), channel.ID(), publicID)
	return nil
}
