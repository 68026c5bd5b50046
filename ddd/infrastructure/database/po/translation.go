package po

// Translation 翻译作业持久化对象；video_id唯一
type Translation struct {
	BaseModel
	VideoID        uint64 `gorm:"column:video_id;uniqueIndex" json:"video_id"`
	Translator     string `gorm:"column:translator;type:varchar(32)" json:"translator"`
	ExternalJobID  string `gorm:"column:external_job_id;type:varchar(64)" json:"external_job_id"`
	SubtitleKey    string `gorm:"column:subtitle_key;type:varchar(512)" json:"subtitle_key"`
	TargetLanguage string `gorm:"column:target_language;type:varchar(16)" json:"target_language"`
}

// TableName 指定表名
func (Translation) TableName() string {
	return "translations"
}
