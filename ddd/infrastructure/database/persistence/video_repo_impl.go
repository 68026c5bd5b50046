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
	"clipflow-service/ddd/infrastructure/database/po"
)

// videoRepositoryImpl 视频仓储实现
type videoRepositoryImpl struct {
	db        *gorm.DB
	videoDao  *dao.VideoDAO
	convertor *convertor.VideoConvertor
}

// NewVideoRepository 创建视频仓储实现
func NewVideoRepository(db *gorm.DB) repo.VideoRepository {
	return &videoRepositoryImpl{
		db:        db,
		videoDao:  dao.NewVideoDAO(db),
		convertor: convertor.NewVideoConvertor(),
	}
}

// GetVideo 按ID查询视频
func (r *videoRepositoryImpl) GetVideo(ctx context.Context, videoID uint64) (*entity.VideoEntity, error) {
	videoPo, err := r.videoDao.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(videoPo), nil
}

// AdvanceStage 经实体状态机校验后落库；落库带阶段前置条件，
// 并发重投抢先推进时报错而不是覆盖
func (r *videoRepositoryImpl) AdvanceStage(ctx context.Context, video *entity.VideoEntity, target vo.Stage) error {
	from := video.Stage()
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	return r.videoDao.UpdateStage(ctx, video.ID(), from.String(), target.String())
}

// MarkVideoError 在同一事务中置error标记并写入失败记录
func (r *videoRepositoryImpl) MarkVideoError(ctx context.Context, videoID uint64, stage vo.Stage, message string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txDao := dao.NewVideoDAO(tx)
		if err := txDao.UpdateError(ctx, videoID, true); err != nil {
			return err
		}
		return txDao.CreateVideoError(ctx, &po.VideoError{
			VideoID: videoID,
			Stage:   stage.String(),
			Message: message,
		})
	})
}

// ClearVideoError 清除error标记（运维重试入口）
func (r *videoRepositoryImpl) ClearVideoError(ctx context.Context, videoID uint64) error {
	return r.videoDao.UpdateError(ctx, videoID, false)
}

// SetPublished 记录发布地址并推进到终态
func (r *videoRepositoryImpl) SetPublished(ctx context.Context, video *entity.VideoEntity, publicURL string) error {
	from := video.Stage()
	if err := video.AdvanceStage(vo.StageDone); err != nil {
		return err
	}
	video.SetPublicURL(publicURL)
	return r.videoDao.UpdatePublished(ctx, video.ID(), publicURL, from.String(), vo.StageDone.String())
}

// CountPendingCut 统计仍需要本地源文件的兄弟视频数量
func (r *videoRepositoryImpl) CountPendingCut(ctx context.Context, originalVideoID uint64) (int64, error) {
	stages := []string{vo.StageDownloading.String(), vo.StageCutting.String()}
	return r.videoDao.CountPendingCut(ctx, originalVideoID, stages)
}

// originalVideoRepositoryImpl 源视频仓储实现
type originalVideoRepositoryImpl struct {
	originalDao *dao.OriginalVideoDAO
	convertor   *convertor.OriginalVideoConvertor
}

// NewOriginalVideoRepository 创建源视频仓储实现
func NewOriginalVideoRepository(db *gorm.DB) repo.OriginalVideoRepository {
	return &originalVideoRepositoryImpl{
		originalDao: dao.NewOriginalVideoDAO(db),
		convertor:   convertor.NewOriginalVideoConvertor(),
	}
}

// GetOriginalVideo 按ID查询源视频
func (r *originalVideoRepositoryImpl) GetOriginalVideo(ctx context.Context, id uint64) (*entity.OriginalVideoEntity, error) {
	originalPo, err := r.originalDao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(originalPo), nil
}

// UpdateLocalPath 记录（或清除）本地文件路径
func (r *originalVideoRepositoryImpl) UpdateLocalPath(ctx context.Context, id uint64, localPath string) error {
	return r.originalDao.UpdateLocalPath(ctx, id, localPath)
}

// UpdateDuration 记录探测到的时长
func (r *originalVideoRepositoryImpl) UpdateDuration(ctx context.Context, id uint64, seconds float64) error {
	return r.originalDao.UpdateDuration(ctx, id, seconds)
}
