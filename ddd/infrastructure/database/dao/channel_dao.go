package dao

import (
	"context"
	"log"

	"gorm.io/gorm"

	"clipflow-service/ddd/infrastructure/database/po"
)

// ChannelDAO 发布频道数据访问对象
type ChannelDAO struct {
	db *gorm.DB
}

// NewChannelDAO 创建频道DAO实例
func NewChannelDAO(db *gorm.DB) *ChannelDAO {
	return &ChannelDAO{db: db}
}

// FindByID 按主键查询频道
func (d *ChannelDAO) FindByID(ctx context.Context, channelID uint64) (*po.Channel, error) {
	var channel po.Channel
	if err := d.db.WithContext(ctx).First(&channel, channelID).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

// UpdateError 置频道错误标记
func (d *ChannelDAO) UpdateError(ctx context.Context, channelID uint64, flag bool) error {
	err := d.db.WithContext(ctx).Model(&po.Channel{}).Where("id = ?", channelID).Update("error", flag).Error
	if err != nil {
		log.Printf("Error updating channel error flag %v", err)
		return err
	}
	return nil
}
