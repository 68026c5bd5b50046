package dao

import (
	"context"
	"log"

	"gorm.io/gorm"

	"clipflow-service/ddd/infrastructure/database/po"
)

// TranscriptionDAO 转写作业数据访问对象
type TranscriptionDAO struct {
	db *gorm.DB
}

// NewTranscriptionDAO 创建转写DAO实例
func NewTranscriptionDAO(db *gorm.DB) *TranscriptionDAO {
	return &TranscriptionDAO{db: db}
}

// Create 记录转写作业发起
func (d *TranscriptionDAO) Create(ctx context.Context, t *po.Transcription) error {
	err := d.db.WithContext(ctx).Model(&po.Transcription{}).Create(t).Error
	if err != nil {
		log.Printf("Error creating transcription %v", err)
		return err
	}
	return nil
}

// FindByVideoID 查询视频的转写记录
func (d *TranscriptionDAO) FindByVideoID(ctx context.Context, videoID uint64) (*po.Transcription, error) {
	var t po.Transcription
	if err := d.db.WithContext(ctx).Where("video_id = ?", videoID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateSubtitleKey 记录原文字幕的对象键
func (d *TranscriptionDAO) UpdateSubtitleKey(ctx context.Context, videoID uint64, subtitleKey string) error {
	err := d.db.WithContext(ctx).Model(&po.Transcription{}).
		Where("video_id = ?", videoID).
		Update("subtitle_key", subtitleKey).Error
	if err != nil {
		log.Printf("Error updating transcription subtitle key %v", err)
		return err
	}
	return nil
}

// TranslationDAO 翻译作业数据访问对象
type TranslationDAO struct {
	db *gorm.DB
}

// NewTranslationDAO 创建翻译DAO实例
func NewTranslationDAO(db *gorm.DB) *TranslationDAO {
	return &TranslationDAO{db: db}
}

// Create 插入翻译记录；video_id唯一
func (d *TranslationDAO) Create(ctx context.Context, t *po.Translation) error {
	return d.db.WithContext(ctx).Model(&po.Translation{}).Create(t).Error
}

// FindByVideoID 查询视频的翻译记录
func (d *TranslationDAO) FindByVideoID(ctx context.Context, videoID uint64) (*po.Translation, error) {
	var t po.Translation
	if err := d.db.WithContext(ctx).Where("video_id = ?", videoID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateExternalJobID 记录外部异步作业ID
func (d *TranslationDAO) UpdateExternalJobID(ctx context.Context, videoID uint64, externalJobID string) error {
	err := d.db.WithContext(ctx).Model(&po.Translation{}).
		Where("video_id = ?", videoID).
		Update("external_job_id", externalJobID).Error
	if err != nil {
		log.Printf("Error updating translation external job id %v", err)
		return err
	}
	return nil
}
