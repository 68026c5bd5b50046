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

// transcriptionRepositoryImpl 转写作业仓储实现
type transcriptionRepositoryImpl struct {
	transcriptionDao *dao.TranscriptionDAO
	convertor        *convertor.TranscriptionConvertor
}

// NewTranscriptionRepository 创建转写仓储实现
func NewTranscriptionRepository(db *gorm.DB) repo.TranscriptionRepository {
	return &transcriptionRepositoryImpl{
		transcriptionDao: dao.NewTranscriptionDAO(db),
		convertor:        convertor.NewTranscriptionConvertor(),
	}
}

// CreateTranscription 记录转写作业发起
func (r *transcriptionRepositoryImpl) CreateTranscription(ctx context.Context, t *entity.TranscriptionEntity) error {
	return r.transcriptionDao.Create(ctx, r.convertor.ToPO(t))
}

// GetTranscriptionByVideo 查询视频的转写记录
func (r *transcriptionRepositoryImpl) GetTranscriptionByVideo(ctx context.Context, videoID uint64) (*entity.TranscriptionEntity, error) {
	transcriptionPo, err := r.transcriptionDao.FindByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(transcriptionPo), nil
}

// SetSubtitleKey 记录原文字幕文件的对象键
func (r *transcriptionRepositoryImpl) SetSubtitleKey(ctx context.Context, videoID uint64, subtitleKey string) error {
	return r.transcriptionDao.UpdateSubtitleKey(ctx, videoID, subtitleKey)
}

// translationRepositoryImpl 翻译作业仓储实现
type translationRepositoryImpl struct {
	db             *gorm.DB
	translationDao *dao.TranslationDAO
	convertor      *convertor.TranslationConvertor
}

// NewTranslationRepository 创建翻译仓储实现
func NewTranslationRepository(db *gorm.DB) repo.TranslationRepository {
	return &translationRepositoryImpl{
		db:             db,
		translationDao: dao.NewTranslationDAO(db),
		convertor:      convertor.NewTranslationConvertor(),
	}
}

// CreateWithStageAdvance 在同一事务中插入翻译记录并推进视频阶段。
// 推进先经实体状态机校验，落库带阶段前置条件
func (r *translationRepositoryImpl) CreateWithStageAdvance(ctx context.Context, t *entity.TranslationEntity, video *entity.VideoEntity, target vo.Stage) error {
	from := video.Stage()
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dao.NewTranslationDAO(tx).Create(ctx, r.convertor.ToPO(t)); err != nil {
			return err
		}
		return dao.NewVideoDAO(tx).UpdateStage(ctx, video.ID(), from.String(), target.String())
	})
}

// GetTranslationByVideo 查询视频的翻译记录
func (r *translationRepositoryImpl) GetTranslationByVideo(ctx context.Context, videoID uint64) (*entity.TranslationEntity, error) {
	translationPo, err := r.translationDao.FindByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(translationPo), nil
}

// SetExternalJobID 记录异步压制服务返回的外部作业ID
func (r *translationRepositoryImpl) SetExternalJobID(ctx context.Context, videoID uint64, externalJobID string) error {
	return r.translationDao.UpdateExternalJobID(ctx, videoID, externalJobID)
}
