package entity

import (
	"fmt"
	"time"

	"clipflow-service/ddd/domain/vo"
)

// VideoEntity 待生产的视频切片
type VideoEntity struct {
	id              uint64
	title           string
	description     string
	userID          uint64
	channelID       uint64
	language        string
	stage           vo.Stage
	errorFlag       bool
	startTime       float64
	endTime         *float64
	originalVideoID uint64
	tags            string
	publicURL       string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewVideoEntity 恢复持久化的视频实体
func NewVideoEntity(
	id uint64,
	title, description string,
	userID, channelID uint64,
	language string,
	stage vo.Stage,
	errorFlag bool,
	startTime float64,
	endTime *float64,
	originalVideoID uint64,
	tags, publicURL string,
	createdAt, updatedAt time.Time,
) *VideoEntity {
	return &VideoEntity{
		id:              id,
		title:           title,
		description:     description,
		userID:          userID,
		channelID:       channelID,
		language:        language,
		stage:           stage,
		errorFlag:       errorFlag,
		startTime:       startTime,
		endTime:         endTime,
		originalVideoID: originalVideoID,
		tags:            tags,
		publicURL:       publicURL,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (v *VideoEntity) ID() uint64              { return v.id }
func (v *VideoEntity) Title() string           { return v.title }
func (v *VideoEntity) Description() string     { return v.description }
func (v *VideoEntity) UserID() uint64          { return v.userID }
func (v *VideoEntity) ChannelID() uint64       { return v.channelID }
func (v *VideoEntity) Language() string        { return v.language }
func (v *VideoEntity) Stage() vo.Stage         { return v.stage }
func (v *VideoEntity) HasError() bool          { return v.errorFlag }
func (v *VideoEntity) StartTime() float64      { return v.startTime }
func (v *VideoEntity) EndTime() *float64       { return v.endTime }
func (v *VideoEntity) OriginalVideoID() uint64 { return v.originalVideoID }
func (v *VideoEntity) Tags() string            { return v.tags }
func (v *VideoEntity) PublicURL() string       { return v.publicURL }
func (v *VideoEntity) CreatedAt() time.Time    { return v.createdAt }
func (v *VideoEntity) UpdatedAt() time.Time    { return v.updatedAt }

// HasEndTime 检查剪切右边界是否存在
func (v *VideoEntity) HasEndTime() bool {
	return v.endTime != nil && *v.endTime > v.startTime
}

// CutBounds 返回剪切边界（秒）
func (v *VideoEntity) CutBounds() (float64, float64) {
	if v.endTime == nil {
		return v.startTime, 0
	}
	return v.startTime, *v.endTime
}

// AdvanceStage 推进阶段；阶段永不回退
func (v *VideoEntity) AdvanceStage(target vo.Stage) error {
	if !v.stage.CanAdvanceTo(target) {
		return fmt.Errorf("stage %s cannot advance to %s", v.stage, target)
	}
	v.stage = target
	v.updatedAt = time.Now()
	return nil
}

// SetPublicURL 记录发布后的公开地址
func (v *VideoEntity) SetPublicURL(url string) {
	v.publicURL = url
	v.updatedAt = time.Now()
}
