package dao

import (
	"context"
	"log"

	"gorm.io/gorm"

	"clipflow-service/ddd/infrastructure/database/po"
)

// OriginalVideoDAO 源视频数据访问对象
type OriginalVideoDAO struct {
	db *gorm.DB
}

// NewOriginalVideoDAO 创建源视频DAO实例
func NewOriginalVideoDAO(db *gorm.DB) *OriginalVideoDAO {
	return &OriginalVideoDAO{db: db}
}

// FindByID 按主键查询源视频
func (d *OriginalVideoDAO) FindByID(ctx context.Context, id uint64) (*po.OriginalVideo, error) {
	var original po.OriginalVideo
	if err := d.db.WithContext(ctx).First(&original, id).Error; err != nil {
		return nil, err
	}
	return &original, nil
}

// UpdateLocalPath 更新本地文件路径；传空串表示文件已清理
func (d *OriginalVideoDAO) UpdateLocalPath(ctx context.Context, id uint64, localPath string) error {
	err := d.db.WithContext(ctx).Model(&po.OriginalVideo{}).Where("id = ?", id).Update("local_path", localPath).Error
	if err != nil {
		log.Printf("Error updating original video local path %v", err)
		return err
	}
	return nil
}

// UpdateDuration 更新探测到的时长
func (d *OriginalVideoDAO) UpdateDuration(ctx context.Context, id uint64, seconds float64) error {
	err := d.db.WithContext(ctx).Model(&po.OriginalVideo{}).Where("id = ?", id).Update("duration_seconds", seconds).Error
	if err != nil {
		log.Printf("Error updating original video duration %v", err)
		return err
	}
	return nil
}
