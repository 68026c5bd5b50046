package entity

import "time"

// ChannelEntity 发布目标频道；健康检查失败时打上错误标记
type ChannelEntity struct {
	id         uint64
	userID     uint64
	provider   string
	externalID string
	errorFlag  bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewChannelEntity 恢复持久化的频道实体
func NewChannelEntity(id, userID uint64, provider, externalID string, errorFlag bool, createdAt, updatedAt time.Time) *ChannelEntity {
	return &ChannelEntity{
		id:         id,
		userID:     userID,
		provider:   provider,
		externalID: externalID,
		errorFlag:  errorFlag,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (c *ChannelEntity) ID() uint64           { return c.id }
func (c *ChannelEntity) UserID() uint64       { return c.userID }
func (c *ChannelEntity) Provider() string     { return c.provider }
func (c *ChannelEntity) ExternalID() string   { return c.externalID }
func (c *ChannelEntity) HasError() bool       { return c.errorFlag }
func (c *ChannelEntity) CreatedAt() time.Time { return c.createdAt }
func (c *ChannelEntity) UpdatedAt() time.Time { return c.updatedAt }
