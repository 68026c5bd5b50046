package po

// Video 视频切片持久化对象
type Video struct {
	BaseModel
	Title           string   `gorm:"column:title;type:varchar(255)" json:"title"`
	Description     string   `gorm:"column:description;type:text" json:"description"`
	UserID          uint64   `gorm:"column:user_id;index" json:"user_id"`
	ChannelID       uint64   `gorm:"column:channel_id;index" json:"channel_id"`
	Language        string   `gorm:"column:language;type:varchar(16)" json:"language"`
	Stage           string   `gorm:"column:stage;type:varchar(20);index" json:"stage"`
	Error           bool     `gorm:"column:error;default:false" json:"error"`
	StartTime       float64  `gorm:"column:start_time" json:"start_time"`
	EndTime         *float64 `gorm:"column:end_time" json:"end_time,omitempty"`
	OriginalVideoID uint64   `gorm:"column:original_video_id;index" json:"original_video_id"`
	Tags            string   `gorm:"column:tags;type:varchar(512)" json:"tags"`
	PublicURL       string   `gorm:"column:public_url;type:varchar(512)" json:"public_url"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
