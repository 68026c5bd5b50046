package entity

import (
	"time"

	"clipflow-service/ddd/domain/vo"
)

// StorageArtifactEntity 视频在某一管道阶段的一份物理拷贝。
// 制品从不覆盖，只为下一阶段追加新记录。
type StorageArtifactEntity struct {
	id        uint64
	videoID   uint64
	stage     vo.ArtifactStage
	format    string
	objectKey string
	sizeBytes int64
	provider  string
	createdAt time.Time
}

// NewStorageArtifactEntity 创建新的制品记录
func NewStorageArtifactEntity(videoID uint64, stage vo.ArtifactStage, format, objectKey string, sizeBytes int64, provider string) *StorageArtifactEntity {
	return &StorageArtifactEntity{
		videoID:   videoID,
		stage:     stage,
		format:    format,
		objectKey: objectKey,
		sizeBytes: sizeBytes,
		provider:  provider,
		createdAt: time.Now(),
	}
}

// RestoreStorageArtifactEntity 恢复持久化的制品记录
func RestoreStorageArtifactEntity(id, videoID uint64, stage vo.ArtifactStage, format, objectKey string, sizeBytes int64, provider string, createdAt time.Time) *StorageArtifactEntity {
	e := NewStorageArtifactEntity(videoID, stage, format, objectKey, sizeBytes, provider)
	e.id = id
	e.createdAt = createdAt
	return e
}

func (a *StorageArtifactEntity) ID() uint64              { return a.id }
func (a *StorageArtifactEntity) VideoID() uint64         { return a.videoID }
func (a *StorageArtifactEntity) Stage() vo.ArtifactStage { return a.stage }
func (a *StorageArtifactEntity) Format() string          { return a.format }
func (a *StorageArtifactEntity) ObjectKey() string       { return a.objectKey }
func (a *StorageArtifactEntity) SizeBytes() int64        { return a.sizeBytes }
func (a *StorageArtifactEntity) Provider() string        { return a.provider }
func (a *StorageArtifactEntity) CreatedAt() time.Time    { return a.createdAt }
