package repo

import (
	"context"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
)

// StorageArtifactRepository 存储制品仓储
type StorageArtifactRepository interface {
	// GetByVideoAndStage 查询视频在某阶段的制品；不存在返回(nil, nil)
	GetByVideoAndStage(ctx context.Context, videoID uint64, stage vo.ArtifactStage) (*entity.StorageArtifactEntity, error)

	// CreateWithStageAdvance 在同一事务中插入制品记录并推进视频阶段；
	// 推进先经实体状态机校验
	CreateWithStageAdvance(ctx context.Context, artifact *entity.StorageArtifactEntity, video *entity.VideoEntity, target vo.Stage) error
}
