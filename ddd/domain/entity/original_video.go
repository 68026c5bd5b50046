package entity

import "time"

// OriginalVideoEntity 未剪切的源视频，可被多个子视频共享
type OriginalVideoEntity struct {
	id              uint64
	sourceURL       string
	durationSeconds float64
	localPath       string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewOriginalVideoEntity 恢复持久化的源视频实体
func NewOriginalVideoEntity(id uint64, sourceURL string, durationSeconds float64, localPath string, createdAt, updatedAt time.Time) *OriginalVideoEntity {
	return &OriginalVideoEntity{
		id:              id,
		sourceURL:       sourceURL,
		durationSeconds: durationSeconds,
		localPath:       localPath,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (o *OriginalVideoEntity) ID() uint64               { return o.id }
func (o *OriginalVideoEntity) SourceURL() string        { return o.sourceURL }
func (o *OriginalVideoEntity) DurationSeconds() float64 { return o.durationSeconds }
func (o *OriginalVideoEntity) LocalPath() string        { return o.localPath }
func (o *OriginalVideoEntity) CreatedAt() time.Time     { return o.createdAt }
func (o *OriginalVideoEntity) UpdatedAt() time.Time     { return o.updatedAt }
