package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/database/convertor"
	"clipflow-service/ddd/infrastructure/database/dao"
)

// storageArtifactRepositoryImpl 存储制品仓储实现
type storageArtifactRepositoryImpl struct {
	db          *gorm.DB
	artifactDao *dao.StorageArtifactDAO
	convertor   *convertor.StorageArtifactConvertor
}

// NewStorageArtifactRepository 创建存储制品仓储实现
func NewStorageArtifactRepository(db *gorm.DB) repo.StorageArtifactRepository {
	return &storageArtifactRepositoryImpl{
		db:          db,
		artifactDao: dao.NewStorageArtifactDAO(db),
		convertor:   convertor.NewStorageArtifactConvertor(),
	}
}

// GetByVideoAndStage 查询视频在某阶段的制品
func (r *storageArtifactRepositoryImpl) GetByVideoAndStage(ctx context.Context, videoID uint64, stage vo.ArtifactStage) (*entity.StorageArtifactEntity, error) {
	artifactPo, err := r.artifactDao.FindByVideoAndStage(ctx, videoID, string(stage))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(artifactPo), nil
}

// CreateWithStageAdvance 在同一事务中插入制品记录并推进视频阶段。
// 推进先经实体状态机校验，落库带阶段前置条件；
// 事务提交后即便消息删除失败，重投递也能靠制品存在性判重。
func (r *storageArtifactRepositoryImpl) CreateWithStageAdvance(ctx context.Context, artifact *entity.StorageArtifactEntity, video *entity.VideoEntity, target vo.Stage) error {
	from := video.Stage()
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dao.NewStorageArtifactDAO(tx).Create(ctx, r.convertor.ToPO(artifact)); err != nil {
			return err
		}
		return dao.NewVideoDAO(tx).UpdateStage(ctx, video.ID(), from.String(), target.String())
	})
}
