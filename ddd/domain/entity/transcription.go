package entity

import "time"

// TranscriptionEntity 一个视频的转写作业结果（video_id唯一）
type TranscriptionEntity struct {
	id            uint64
	videoID       uint64
	providerJobID string
	subtitleKey   string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewTranscriptionEntity 创建转写记录
func NewTranscriptionEntity(videoID uint64, providerJobID string) *TranscriptionEntity {
	now := time.Now()
	return &TranscriptionEntity{videoID: videoID, providerJobID: providerJobID, createdAt: now, updatedAt: now}
}

// RestoreTranscriptionEntity 恢复持久化的转写记录
func RestoreTranscriptionEntity(id, videoID uint64, providerJobID, subtitleKey string, createdAt, updatedAt time.Time) *TranscriptionEntity {
	return &TranscriptionEntity{id: id, videoID: videoID, providerJobID: providerJobID, subtitleKey: subtitleKey, createdAt: createdAt, updatedAt: updatedAt}
}

func (t *TranscriptionEntity) ID() uint64            { return t.id }
func (t *TranscriptionEntity) VideoID() uint64       { return t.videoID }
func (t *TranscriptionEntity) ProviderJobID() string { return t.providerJobID }
func (t *TranscriptionEntity) SubtitleKey() string   { return t.subtitleKey }
func (t *TranscriptionEntity) CreatedAt() time.Time  { return t.createdAt }
func (t *TranscriptionEntity) UpdatedAt() time.Time  { return t.updatedAt }
