package po

// Channel 发布渠道持久化对象
type Channel struct {
	BaseModel
	UserID     uint64 `gorm:"column:user_id;index" json:"user_id"`
	Provider   string `gorm:"column:provider;type:varchar(32)" json:"provider"`
	ExternalID string `gorm:"column:external_id;type:varchar(128)" json:"external_id"`
	Error      bool   `gorm:"column:error;default:false" json:"error"`
}

// TableName 指定表名
func (Channel) TableName() string {
	return "channels"
}
