package entity

import "time"

// TranslationEntity 一个视频的翻译作业结果（video_id唯一）
type TranslationEntity struct {
	id             uint64
	videoID        uint64
	translator     string
	externalJobID  string
	subtitleKey    string
	targetLanguage string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewTranslationEntity 创建翻译记录
func NewTranslationEntity(videoID uint64, translator, targetLanguage, subtitleKey string) *TranslationEntity {
	now := time.Now()
	return &TranslationEntity{
		videoID:        videoID,
		translator:     translator,
		targetLanguage: targetLanguage,
		subtitleKey:    subtitleKey,
		createdAt:      now,
		updatedAt:      now,
	}
}

// RestoreTranslationEntity 恢复持久化的翻译记录
func RestoreTranslationEntity(id, videoID uint64, translator, externalJobID, subtitleKey, targetLanguage string, createdAt, updatedAt time.Time) *TranslationEntity {
	return &TranslationEntity{
		id:             id,
		videoID:        videoID,
		translator:     translator,
		externalJobID:  externalJobID,
		subtitleKey:    subtitleKey,
		targetLanguage: targetLanguage,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t *TranslationEntity) ID() uint64             { return t.id }
func (t *TranslationEntity) VideoID() uint64        { return t.videoID }
func (t *TranslationEntity) Translator() string     { return t.translator }
func (t *TranslationEntity) ExternalJobID() string  { return t.externalJobID }
func (t *TranslationEntity) SubtitleKey() string    { return t.subtitleKey }
func (t *TranslationEntity) TargetLanguage() string { return t.targetLanguage }
func (t *TranslationEntity) CreatedAt() time.Time   { return t.createdAt }
func (t *TranslationEntity) UpdatedAt() time.Time   { return t.updatedAt }
