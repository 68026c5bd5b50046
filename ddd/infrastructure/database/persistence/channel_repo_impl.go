package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/infrastructure/database/convertor"
	"clipflow-service/ddd/infrastructure/database/dao"
)

// channelRepositoryImpl 发布频道仓储实现
type channelRepositoryImpl struct {
	channelDao *dao.ChannelDAO
	convertor  *convertor.ChannelConvertor
}

// NewChannelRepository 创建频道仓储实现
func NewChannelRepository(db *gorm.DB) repo.ChannelRepository {
	return &channelRepositoryImpl{
		channelDao: dao.NewChannelDAO(db),
		convertor:  convertor.NewChannelConvertor(),
	}
}

// GetChannel 按ID查询频道
func (r *channelRepositoryImpl) GetChannel(ctx context.Context, channelID uint64) (*entity.ChannelEntity, error) {
	channelPo, err := r.channelDao.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(channelPo), nil
}

// MarkChannelError 健康检查失败时置频道错误标记
func (r *channelRepositoryImpl) MarkChannelError(ctx context.Context, channelID uint64) error {
	return r.channelDao.UpdateError(ctx, channelID, true)
}
