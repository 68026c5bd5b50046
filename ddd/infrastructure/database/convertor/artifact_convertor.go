package convertor

import (
	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/database/po"
)

// StorageArtifactConvertor 存储制品转换器
type StorageArtifactConvertor struct{}

// NewStorageArtifactConvertor 创建存储制品转换器
func NewStorageArtifactConvertor() *StorageArtifactConvertor {
	return &StorageArtifactConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *StorageArtifactConvertor) ToEntity(p *po.StorageArtifact) *entity.StorageArtifactEntity {
	return entity.RestoreStorageArtifactEntity(
		p.Id,
		p.VideoID,
		vo.ArtifactStage(p.Stage),
		p.Format,
		p.ObjectKey,
		p.SizeBytes,
		p.Provider,
		p.CreatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *StorageArtifactConvertor) ToPO(e *entity.StorageArtifactEntity) *po.StorageArtifact {
	return &po.StorageArtifact{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
		},
		VideoID:   e.VideoID(),
		Stage:     string(e.Stage()),
		Format:    e.Format(),
		ObjectKey: e.ObjectKey(),
		SizeBytes: e.SizeBytes(),
		Provider:  e.Provider(),
	}
}
