package po

// StorageArtifact 存储制品持久化对象；(video_id, stage)唯一
type StorageArtifact struct {
	BaseModel
	VideoID   uint64 `gorm:"column:video_id;uniqueIndex:uk_video_stage" json:"video_id"`
	Stage     string `gorm:"column:stage;type:varchar(16);uniqueIndex:uk_video_stage" json:"stage"`
	Format    string `gorm:"column:format;type:varchar(16)" json:"format"`
	ObjectKey string `gorm:"column:object_key;type:varchar(512)" json:"object_key"`
	SizeBytes int64  `gorm:"column:size_bytes" json:"size_bytes"`
	Provider  string `gorm:"column:provider;type:varchar(32)" json:"provider"`
}

// TableName 指定表名
func (StorageArtifact) TableName() string {
	return "storage_artifacts"
}
