package convertor

import (
	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/database/po"
)

// VideoConvertor 视频转换器
type VideoConvertor struct{}

// NewVideoConvertor 创建视频转换器
func NewVideoConvertor() *VideoConvertor {
	return &VideoConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *VideoConvertor) ToEntity(p *po.Video) *entity.VideoEntity {
	stage, ok := vo.NewStageFromString(p.Stage)
	if !ok {
		stage = vo.StageDownloading
	}

	return entity.NewVideoEntity(
		p.Id,
		p.Title,
		p.Description,
		p.UserID,
		p.ChannelID,
		p.Language,
		stage,
		p.Error,
		p.StartTime,
		p.EndTime,
		p.OriginalVideoID,
		p.Tags,
		p.PublicURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *VideoConvertor) ToPO(e *entity.VideoEntity) *po.Video {
	return &po.Video{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		Title:           e.Title(),
		Description:     e.Description(),
		UserID:          e.UserID(),
		ChannelID:       e.ChannelID(),
		Language:        e.Language(),
		Stage:           e.Stage().String(),
		Error:           e.HasError(),
		StartTime:       e.StartTime(),
		EndTime:         e.EndTime(),
		OriginalVideoID: e.OriginalVideoID(),
		Tags:            e.Tags(),
		PublicURL:       e.PublicURL(),
	}
}

// OriginalVideoConvertor 源视频转换器
type OriginalVideoConvertor struct{}

// NewOriginalVideoConvertor 创建源视频转换器
func NewOriginalVideoConvertor() *OriginalVideoConvertor {
	return &OriginalVideoConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *OriginalVideoConvertor) ToEntity(p *po.OriginalVideo) *entity.OriginalVideoEntity {
	return entity.NewOriginalVideoEntity(p.Id, p.SourceURL, p.DurationSeconds, p.LocalPath, p.CreatedAt, p.UpdatedAt)
}

// ToPO 将Entity转换为PO
func (c *OriginalVideoConvertor) ToPO(e *entity.OriginalVideoEntity) *po.OriginalVideo {
	return &po.OriginalVideo{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		SourceURL:       e.SourceURL(),
		DurationSeconds: e.DurationSeconds(),
		LocalPath:       e.LocalPath(),
	}
}
