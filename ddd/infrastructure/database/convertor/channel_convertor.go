package convertor

import (
	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/infrastructure/database/po"
)

// ChannelConvertor 频道转换器
type ChannelConvertor struct{}

// NewChannelConvertor 创建频道转换器
func NewChannelConvertor() *ChannelConvertor {
	return &ChannelConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *ChannelConvertor) ToEntity(p *po.Channel) *entity.ChannelEntity {
	return entity.NewChannelEntity(p.Id, p.UserID, p.Provider, p.ExternalID, p.Error, p.CreatedAt, p.UpdatedAt)
}

// ToPO 将Entity转换为PO
func (c *ChannelConvertor) ToPO(e *entity.ChannelEntity) *po.Channel {
	return &po.Channel{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		UserID:     e.UserID(),
		Provider:   e.Provider(),
		ExternalID: e.ExternalID(),
		Error:      e.HasError(),
	}
}
