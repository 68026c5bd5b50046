package po

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 公共持久化字段；软删除，记录从不物理删除
type BaseModel struct {
	Id        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}
