package repo

import (
	"context"

	"clipflow-service/ddd/domain/entity"
)

// ChannelRepository 发布频道仓储
type ChannelRepository interface {
	// GetChannel 按ID查询；不存在返回(nil, nil)
	GetChannel(ctx context.Context, channelID uint64) (*entity.ChannelEntity, error)

	// MarkChannelError 健康检查失败时置频道错误标记
	MarkChannelError(ctx context.Context, channelID uint64) error
}
