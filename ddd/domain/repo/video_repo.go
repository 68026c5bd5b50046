package repo

import (
	"context"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
)

// VideoRepository 视频仓储。持久化的阶段是管道状态的唯一来源。
type VideoRepository interface {
	// GetVideo 按ID查询；不存在返回(nil, nil)
	GetVideo(ctx context.Context, videoID uint64) (*entity.VideoEntity, error)

	// AdvanceStage 经实体状态机校验后推进阶段，落库时校验阶段前置条件
	AdvanceStage(ctx context.Context, video *entity.VideoEntity, target vo.Stage) error

	// MarkVideoError 置error标记并写入一条可读的失败记录
	MarkVideoError(ctx context.Context, videoID uint64, stage vo.Stage, message string) error

	// ClearVideoError 清除error标记（运维重试入口）
	ClearVideoError(ctx context.Context, videoID uint64) error

	// SetPublished 记录发布地址并推进到终态
	SetPublished(ctx context.Context, video *entity.VideoEntity, publicURL string) error

	// CountPendingCut 统计同一源视频下仍停留在下载/剪切阶段的子视频数；
	// 归零后才允许删除共享的本地源文件
	CountPendingCut(ctx context.Context, originalVideoID uint64) (int64, error)
}

// OriginalVideoRepository 源视频仓储
type OriginalVideoRepository interface {
	// GetOriginalVideo 按ID查询；不存在返回(nil, nil)
	GetOriginalVideo(ctx context.Context, id uint64) (*entity.OriginalVideoEntity, error)

	// UpdateLocalPath 记录（或清除，传空串）本地文件路径
	UpdateLocalPath(ctx context.Context, id uint64, localPath string) error

	// UpdateDuration 记录探测到的时长
	UpdateDuration(ctx context.Context, id uint64, seconds float64) error
}
