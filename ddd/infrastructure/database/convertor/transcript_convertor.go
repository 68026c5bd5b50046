package convertor

import (
	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/infrastructure/database/po"
)

// TranscriptionConvertor 转写记录转换器
type TranscriptionConvertor struct{}

// NewTranscriptionConvertor 创建转写记录转换器
func NewTranscriptionConvertor() *TranscriptionConvertor {
	return &TranscriptionConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *TranscriptionConvertor) ToEntity(p *po.Transcription) *entity.TranscriptionEntity {
	return entity.RestoreTranscriptionEntity(p.Id, p.VideoID, p.ProviderJobID, p.SubtitleKey, p.CreatedAt, p.UpdatedAt)
}

// ToPO 将Entity转换为PO
func (c *TranscriptionConvertor) ToPO(e *entity.TranscriptionEntity) *po.Transcription {
	return &po.Transcription{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		VideoID:       e.VideoID(),
		ProviderJobID: e.ProviderJobID(),
		SubtitleKey:   e.SubtitleKey(),
	}
}

// TranslationConvertor 翻译记录转换器
type TranslationConvertor struct{}

// NewTranslationConvertor 创建翻译记录转换器
func NewTranslationConvertor() *TranslationConvertor {
	return &TranslationConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *TranslationConvertor) ToEntity(p *po.Translation) *entity.TranslationEntity {
	return entity.RestoreTranslationEntity(
		p.Id,
		p.VideoID,
		p.Translator,
		p.ExternalJobID,
		p.SubtitleKey,
		p.TargetLanguage,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *TranslationConvertor) ToPO(e *entity.TranslationEntity) *po.Translation {
	return &po.Translation{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		VideoID:        e.VideoID(),
		Translator:     e.Translator(),
		ExternalJobID:  e.ExternalJobID(),
		SubtitleKey:    e.SubtitleKey(),
		TargetLanguage: e.TargetLanguage(),
	}
}
