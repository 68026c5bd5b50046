package dao

import (
	"context"

	"gorm.io/gorm"

	"clipflow-service/ddd/infrastructure/database/po"
)

// StorageArtifactDAO 存储制品数据访问对象
type StorageArtifactDAO struct {
	db *gorm.DB
}

// NewStorageArtifactDAO 创建存储制品DAO实例
func NewStorageArtifactDAO(db *gorm.DB) *StorageArtifactDAO {
	return &StorageArtifactDAO{db: db}
}

// Create 插入制品记录；(video_id, stage)唯一
func (d *StorageArtifactDAO) Create(ctx context.Context, artifact *po.StorageArtifact) error {
	return d.db.WithContext(ctx).Model(&po.StorageArtifact{}).Create(artifact).Error
}

// FindByVideoAndStage 查询视频在某阶段的制品
func (d *StorageArtifactDAO) FindByVideoAndStage(ctx context.Context, videoID uint64, stage string) (*po.StorageArtifact, error) {
	var artifact po.StorageArtifact
	if err := d.db.WithContext(ctx).
		Where("video_id = ? AND stage = ?", videoID, stage).
		First(&artifact).Error; err != nil {
		return nil, err
	}
	return &artifact, nil
}
