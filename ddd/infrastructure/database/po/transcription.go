package po

// Transcription 转写作业持久化对象；video_id唯一
type Transcription struct {
	BaseModel
	VideoID       uint64 `gorm:"column:video_id;uniqueIndex" json:"video_id"`
	ProviderJobID string `gorm:"column:provider_job_id;type:varchar(64);index" json:"provider_job_id"`
	SubtitleKey   string `gorm:"column:subtitle_key;type:varchar(512)" json:"subtitle_key"`
}

// TableName 指定表名
func (Transcription) TableName() string {
	return "transcriptions"
}
