package po

// OriginalVideo 未剪切源视频持久化对象
type OriginalVideo struct {
	BaseModel
	SourceURL       string  `gorm:"column:source_url;type:varchar(512)" json:"source_url"`
	DurationSeconds float64 `gorm:"column:duration_seconds" json:"duration_seconds"`
	LocalPath       string  `gorm:"column:local_path;type:varchar(512)" json:"local_path"`
}

// TableName 指定表名
func (OriginalVideo) TableName() string {
	return "original_videos"
}
