package po

// VideoError 阶段失败记录；一条视频可累计多条
type VideoError struct {
	BaseModel
	VideoID uint64 `gorm:"column:video_id;index" json:"video_id"`
	Stage   string `gorm:"column:stage;type:varchar(32)" json:"stage"`
	Message string `gorm:"column:message;type:varchar(1024)" json:"message"`
}

// TableName 指定表名
func (VideoError) TableName() string {
	return "video_errors"
}
