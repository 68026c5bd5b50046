package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/logger"
)

// StageHandler 处理一种作业类型。
// 返回nil表示成功（调度器删除消息）；vo.FinalError表示业务性失败
// （处理器已置视频错误标记，调度器删除消息）；其余错误按瞬时失败
// 处理，消息留待可见性超时后重投。
type StageHandler interface {
	// JobType 此处理器消费的作业标签
	JobType() vo.JobType

	// Handle 处理一条已解码的作业。处理器自身从不删除消息。
	Handle(ctx context.Context, msg gateway.Message, job vo.Job) error
}

// handlerBase 各阶段处理器共享的依赖与辅助逻辑
type handlerBase struct {
	videoRepo repo.VideoRepository
	queue     gateway.QueueGateway
	events    gateway.EventGateway
}

// loadVideo 加载视频；不存在返回(nil, nil)，数据库故障按瞬时失败返回
func (h *handlerBase) loadVideo(ctx context.Context, videoID uint64) (*entity.VideoEntity, error) {
	video, err := h.videoRepo.GetVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video %d: %w", videoID, err)
	}
	return video, nil
}

// finalFailure 置视频错误标记并返回不可恢复失败
func (h *handlerBase) finalFailure(ctx context.Context, videoID uint64, stage vo.Stage, cause error) error {
	if err := h.videoRepo.MarkVideoError(ctx, videoID, stage, cause.Error()); err != nil {
		// 标记写不进去就不能删消息，否则失败不可见
		return fmt.Errorf("mark video %d error: %w", videoID, err)
	}
	logger.Warn("Video flagged for operator attention", map[string]interface{}{
		"video_id": videoID,
		"stage":    stage.String(),
		"reason":   cause.Error(),
	})
	return vo.Final(cause)
}

// extendVisibility 长耗时操作前延长消息可见性；失败只记录，不中断处理
func (h *handlerBase) extendVisibility(ctx context.Context, msg gateway.Message, d time.Duration) {
	if err := h.queue.ExtendVisibility(ctx, msg, d); err != nil {
		logger.Warnf("Extend visibility failed message_id=%s error=%v", msg.ID(), err)
	}
}

// publishStageEvent 发布阶段推进事件，尽力而为
func (h *handlerBase) publishStageEvent(ctx context.Context, videoID uint64, jobType vo.JobType, stage vo.Stage) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishStageEvent(ctx, videoID, jobType, stage); err != nil {
		logger.Warnf("Publish stage event failed video_id=%d stage=%s error=%v", videoID, stage, err)
	}
}

// staleJob 作业标签落后于持久化阶段时的安全空操作
func (h *handlerBase) staleJob(videoID uint64, jobType vo.JobType, stage vo.Stage) error {
	logger.Infof("Stale job skipped video_id=%d job_type=%s stage=%s", videoID, jobType, stage)
	return nil
}

// removeLocalFile 删除处理器持有的临时文件，失败只记录
func removeLocalFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Remove local file failed path=%s error=%v", path, err)
	}
}

// releaseOriginalIfUnreferenced 当没有子视频仍需要共享源文件时删除它。
// 依据计数查询而非引用计数字段。
func releaseOriginalIfUnreferenced(ctx context.Context, videoRepo repo.VideoRepository, originalRepo repo.OriginalVideoRepository, originalVideoID uint64) {
	pending, err := videoRepo.CountPendingCut(ctx, originalVideoID)
	if err != nil {
		logger.Warnf("Count pending cut failed original_video_id=%d error=%v", originalVideoID, err)
		return
	}
	if pending > 0 {
		return
	}

	orig, err := originalRepo.GetOriginalVideo(ctx, originalVideoID)
	if err != nil || orig == nil || orig.LocalPath() == "" {
		return
	}
	removeLocalFile(orig.LocalPath())
	if err := originalRepo.UpdateLocalPath(ctx, originalVideoID, ""); err != nil {
		logger.Warnf("Clear original local path failed original_video_id=%d error=%v", originalVideoID, err)
		return
	}
	logger.Infof("Original video local file released original_video_id=%d path=%s", originalVideoID, orig.LocalPath())
}
