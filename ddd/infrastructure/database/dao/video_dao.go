package dao

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"clipflow-service/ddd/infrastructure/database/po"
)

// VideoDAO 视频数据访问对象
type VideoDAO struct {
	db *gorm.DB
}

// NewVideoDAO 创建视频DAO实例
func NewVideoDAO(db *gorm.DB) *VideoDAO {
	return &VideoDAO{db: db}
}

// FindByID 按主键查询视频
func (d *VideoDAO) FindByID(ctx context.Context, videoID uint64) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).First(&video, videoID).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateStage 带前置条件推进视频阶段；并发重投抢先推进时命中0行
func (d *VideoDAO) UpdateStage(ctx context.Context, videoID uint64, fromStage, toStage string) error {
	res := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("id = ? AND stage = ?", videoID, fromStage).
		Update("stage", toStage)
	if res.Error != nil {
		log.Printf("Error updating video stage %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("video %d stage is no longer %s", videoID, fromStage)
	}
	return nil
}

// UpdateError 置或清除错误标记
func (d *VideoDAO) UpdateError(ctx context.Context, videoID uint64, flag bool) error {
	err := d.db.WithContext(ctx).Model(&po.Video{}).Where("id = ?", videoID).Update("error", flag).Error
	if err != nil {
		log.Printf("Error updating video error flag %v", err)
		return err
	}
	return nil
}

// UpdatePublished 记录发布地址并推进阶段，同样带阶段前置条件
func (d *VideoDAO) UpdatePublished(ctx context.Context, videoID uint64, publicURL, fromStage, toStage string) error {
	update := map[string]interface{}{
		"public_url": publicURL,
		"stage":      toStage,
	}
	res := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("id = ? AND stage = ?", videoID, fromStage).
		Updates(update)
	if res.Error != nil {
		log.Printf("Error updating video published state %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("video %d stage is no longer %s", videoID, fromStage)
	}
	return nil
}

// CreateVideoError 写入一条可读的阶段失败记录
func (d *VideoDAO) CreateVideoError(ctx context.Context, record *po.VideoError) error {
	err := d.db.WithContext(ctx).Model(&po.VideoError{}).Create(record).Error
	if err != nil {
		log.Printf("Error creating video error record %v", err)
		return err
	}
	return nil
}

// CountPendingCut 统计同一源视频下仍在下载/剪切且未出错的子视频数
func (d *VideoDAO) CountPendingCut(ctx context.Context, originalVideoID uint64, stages []string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("original_video_id = ? AND stage IN ? AND error = ?", originalVideoID, stages, false).
		Count(&count).Error
	if err != nil {
		log.Printf("Error counting pending cut videos %v", err)
		return 0, err
	}
	return count, nil
}
