package repo

import (
	"context"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
)

// TranscriptionRepository 转写作业仓储（video_id唯一）
type TranscriptionRepository interface {
	// CreateTranscription 记录转写作业发起
	CreateTranscription(ctx context.Context, t *entity.TranscriptionEntity) error

	// GetTranscriptionByVideo 查询视频的转写记录；不存在返回(nil, nil)
	GetTranscriptionByVideo(ctx context.Context, videoID uint64) (*entity.TranscriptionEntity, error)

	// SetSubtitleKey 记录原文字幕文件的对象键
	SetSubtitleKey(ctx context.Context, videoID uint64, subtitleKey string) error
}

// TranslationRepository 翻译作业仓储（video_id唯一）
type TranslationRepository interface {
	// CreateWithStageAdvance 在同一事务中插入翻译记录并推进视频阶段；
	// 推进先经实体状态机校验
	CreateWithStageAdvance(ctx context.Context, t *entity.TranslationEntity, video *entity.VideoEntity, target vo.Stage) error

	// GetTranslationByVideo 查询视频的翻译记录；不存在返回(nil, nil)
	GetTranslationByVideo(ctx context.Context, videoID uint64) (*entity.TranslationEntity, error)

	// SetExternalJobID 记录异步压制服务返回的外部作业ID
	SetExternalJobID(ctx context.Context, videoID uint64, externalJobID string) error
}
