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

// DownloadHandler 消费download_video作业。
// 单个子视频时由下载器远程应用剪切边界，直接产出原始切片；
// 多个子视频时整段下载一次，再为每个子视频派发cut_video作业。
type DownloadHandler struct {
	handlerBase
	originalRepo repo.OriginalVideoRepository
	artifactRepo repo.StorageArtifactRepository
	bucket       gateway.BucketGateway
	downloader   gateway.DownloaderGateway
	provider     string
	cfg          *config.Config
}

// NewDownloadHandler 创建下载处理器
func NewDownloadHandler(
	videoRepo repo.VideoRepository,
	originalRepo repo.OriginalVideoRepository,
	artifactRepo repo.StorageArtifactRepository,
	bucket gateway.BucketGateway,
	downloader gateway.DownloaderGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
	provider string,
	cfg *config.Config,
) *DownloadHandler {
	return &DownloadHandler{
		handlerBase:  handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		originalRepo: originalRepo,
		artifactRepo: artifactRepo,
		bucket:       bucket,
		downloader:   downloader,
		provider:     provider,
		cfg:          cfg,
	}
}

func (h *DownloadHandler) JobType() vo.JobType { return vo.JobTypeDownloadVideo }

func (h *DownloadHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	dj, ok := job.(*vo.DownloadVideoJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	orig, err := h.originalRepo.GetOriginalVideo(ctx, dj.OriginalVideoID)
	if err != nil {
		return fmt.Errorf("load original video %d: %w", dj.OriginalVideoID, err)
	}
	if orig == nil {
		return h.failAll(ctx, dj.VideoIDs, fmt.Errorf("original video %d not found", dj.OriginalVideoID))
	}

	// 只处理仍在下载阶段的子视频，其余视为重投后的陈旧触发
	pending := make([]*entity.VideoEntity, 0, len(dj.VideoIDs))
	for _, id := range dj.VideoIDs {
		video, err := h.loadVideo(ctx, id)
		if err != nil {
			return err
		}
		if video == nil || video.Stage() != vo.StageDownloading {
			_ = h.staleJob(id, h.JobType(), stageOrUnknown(video))
			continue
		}
		pending = append(pending, video)
	}
	if len(pending) == 0 {
		return nil
	}

	h.extendVisibility(ctx, msg, h.cfg.Pipeline.DownloadTimeout)

	if len(pending) == 1 {
		return h.downloadSection(ctx, orig, pending[0])
	}
	return h.downloadFull(ctx, orig, pending)
}

// downloadSection 远程剪切下载：切片越过本地剪切阶段
func (h *DownloadHandler) downloadSection(ctx context.Context, orig *entity.OriginalVideoEntity, video *entity.VideoEntity) error {
	if !video.HasEndTime() {
		final := h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("video %d has no end_time, cannot cut", video.ID()))
		releaseOriginalIfUnreferenced(ctx, h.videoRepo, h.originalRepo, orig.ID())
		return final
	}

	start, end := video.CutBounds()
	format := h.cfg.Pipeline.DefaultFormat
	localPath, err := h.downloader.DownloadSection(ctx, orig.SourceURL(), gateway.CutBounds{Start: start, End: end}, format)
	if err != nil {
		return fmt.Errorf("download section video_id=%d: %w", video.ID(), err)
	}
	defer removeLocalFile(localPath)

	objectKey := rawObjectKey(video.ID(), format)
	size, err := h.bucket.UploadFromLocalPath(ctx, objectKey, localPath)
	if err != nil {
		return fmt.Errorf("upload raw video_id=%d: %w", video.ID(), err)
	}

	artifact := entity.NewStorageArtifactEntity(video.ID(), vo.ArtifactStageRaw, format, objectKey, size, h.provider)
	if err := h.artifactRepo.CreateWithStageAdvance(ctx, artifact, video, vo.StageTranscribing); err != nil {
		return fmt.Errorf("persist raw artifact video_id=%d: %w", video.ID(), err)
	}

	if err := h.queue.Send(ctx, &vo.RawUploadedJob{VideoID: video.ID(), VideoURI: objectKey}); err != nil {
		return fmt.Errorf("enqueue raw_uploaded video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageTranscribing)
	logger.Infof("Section downloaded and uploaded video_id=%d object_key=%s size=%d", video.ID(), objectKey, size)
	return nil
}

// downloadFull 整段下载一次，为每个子视频派发剪切作业
func (h *DownloadHandler) downloadFull(ctx context.Context, orig *entity.OriginalVideoEntity, pending []*entity.VideoEntity) error {
	localPath := orig.LocalPath()
	if localPath == "" {
		var duration float64
		var err error
		localPath, duration, err = h.downloader.Download(ctx, orig.SourceURL(), h.cfg.Pipeline.DefaultFormat)
		if err != nil {
			return fmt.Errorf("download original %d: %w", orig.ID(), err)
		}
		if err := h.originalRepo.UpdateLocalPath(ctx, orig.ID(), localPath); err != nil {
			return fmt.Errorf("record original local path: %w", err)
		}
		if duration > 0 {
			if err := h.originalRepo.UpdateDuration(ctx, orig.ID(), duration); err != nil {
				logger.Warnf("Record original duration failed original_video_id=%d error=%v", orig.ID(), err)
			}
		}
	}

	var lastFinal error
	dispatched := 0
	for _, video := range pending {
		if !video.HasEndTime() {
			lastFinal = h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("video %d has no end_time, cannot cut", video.ID()))
			continue
		}
		if err := h.videoRepo.AdvanceStage(ctx, video, vo.StageCutting); err != nil {
			return fmt.Errorf("advance video %d to cutting: %w", video.ID(), err)
		}
		cut := &vo.CutVideoJob{VideoID: video.ID(), RawFilePath: localPath, Format: h.cfg.Pipeline.DefaultFormat}
		if err := h.queue.Send(ctx, cut); err != nil {
			return fmt.Errorf("enqueue cut_video video_id=%d: %w", video.ID(), err)
		}
		h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageCutting)
		dispatched++
	}

	if dispatched == 0 {
		releaseOriginalIfUnreferenced(ctx, h.videoRepo, h.originalRepo, orig.ID())
		if lastFinal != nil {
			return lastFinal
		}
		return nil
	}
	logger.Infof("Original downloaded, cut jobs dispatched original_video_id=%d cuts=%d", orig.ID(), dispatched)
	return nil
}

// failAll 源视频缺失时将所有子视频标记为错误
func (h *DownloadHandler) failAll(ctx context.Context, videoIDs []uint64, cause error) error {
	var final error
	for _, id := range videoIDs {
		final = h.finalFailure(ctx, id, vo.StageDownloading, cause)
		if !vo.IsFinal(final) {
			return final
		}
	}
	if final == nil {
		return vo.Final(cause)
	}
	return final
}

func stageOrUnknown(video *entity.VideoEntity) vo.Stage {
	if video == nil {
		return vo.Stage("")
	}
	return video.Stage()
}

func rawObjectKey(videoID uint64, format string) string {
	return fmt.Sprintf("videos/%d/raw.%s", videoID, format)
}

func processedObjectKey(videoID uint64, format string) string {
	return fmt.Sprintf("videos/%d/processed.%s", videoID, format)
}

func translatedSubtitleKey(videoID uint64, language string) string {
	return fmt.Sprintf("videos/%d/subtitles.%s.srt", videoID, language)
}

func sourceSubtitleKey(videoID uint64, language string) string {
	if language == "" {
		language = "src"
	}
	return fmt.Sprintf("videos/%d/transcript.%s.srt", videoID, language)
}
