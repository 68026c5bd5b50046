package service

import (
	"context"
	"fmt"
	"time"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/repo"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// TranslateHandler 消费transcription_ready作业：拉取转写句子、
// 批量翻译、渲染SRT并上传，然后在同一事务中落翻译记录并推进阶段。
type TranslateHandler struct {
	handlerBase
	transcriptionRepo repo.TranscriptionRepository
	translationRepo   repo.TranslationRepository
	bucket            gateway.BucketGateway
	transcriber       gateway.TranscriberGateway
	translator        gateway.TranslatorGateway
	cfg               *config.Config
}

// NewTranslateHandler 创建翻译处理器
func NewTranslateHandler(
	videoRepo repo.VideoRepository,
	transcriptionRepo repo.TranscriptionRepository,
	translationRepo repo.TranslationRepository,
	bucket gateway.BucketGateway,
	transcriber gateway.TranscriberGateway,
	translator gateway.TranslatorGateway,
	queue gateway.QueueGateway,
	events gateway.EventGateway,
	cfg *config.Config,
) *TranslateHandler {
	return &TranslateHandler{
		handlerBase:       handlerBase{videoRepo: videoRepo, queue: queue, events: events},
		transcriptionRepo: transcriptionRepo,
		translationRepo:   translationRepo,
		bucket:            bucket,
		transcriber:       transcriber,
		translator:        translator,
		cfg:               cfg,
	}
}

func (h *TranslateHandler) JobType() vo.JobType { return vo.JobTypeTranscriptionReady }

func (h *TranslateHandler) Handle(ctx context.Context, msg gateway.Message, job vo.Job) error {
	tj, ok := job.(*vo.TranscriptionReadyJob)
	if !ok {
		return vo.Finalf("unexpected job payload for %s", h.JobType())
	}

	video, err := h.loadVideo(ctx, tj.VideoID)
	if err != nil {
		return err
	}
	if video == nil || video.Stage() != vo.StageTranscribing {
		return h.staleJob(tj.VideoID, h.JobType(), stageOrUnknown(video))
	}

	// 翻译记录与阶段推进同事务写入，存在即说明本作业已处理过
	if existing, err := h.translationRepo.GetTranslationByVideo(ctx, video.ID()); err != nil {
		return fmt.Errorf("check translation video_id=%d: %w", video.ID(), err)
	} else if existing != nil {
		return nil
	}

	transcription, err := h.transcriptionRepo.GetTranscriptionByVideo(ctx, video.ID())
	if err != nil {
		return fmt.Errorf("load transcription video_id=%d: %w", video.ID(), err)
	}
	if transcription == nil {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("transcription_ready without transcription record for video %d", video.ID()))
	}

	h.extendVisibility(ctx, msg, h.cfg.Translator.Timeout+time.Minute)

	sentences, err := h.transcriber.GetSentences(ctx, transcription.ProviderJobID())
	if err != nil {
		return fmt.Errorf("fetch sentences video_id=%d: %w", video.ID(), err)
	}
	if len(sentences) == 0 {
		return h.finalFailure(ctx, video.ID(), video.Stage(), fmt.Errorf("transcription %s produced no sentences", transcription.ProviderJobID()))
	}

	// 原文字幕也落一份，供人工校对使用；重投时已存在则跳过
	if transcription.SubtitleKey() == "" {
		sourceKey := sourceSubtitleKey(video.ID(), video.Language())
		if err := h.bucket.UploadBytes(ctx, sourceKey, []byte(vo.BuildSRT(sentences)), "application/x-subrip"); err != nil {
			return fmt.Errorf("upload source subtitles video_id=%d: %w", video.ID(), err)
		}
		if err := h.transcriptionRepo.SetSubtitleKey(ctx, video.ID(), sourceKey); err != nil {
			return fmt.Errorf("record source subtitle key video_id=%d: %w", video.ID(), err)
		}
	}

	target := h.cfg.Translator.TargetLanguage
	translated, err := h.translateAll(ctx, sentences, target)
	if err != nil {
		if vo.IsFinal(err) {
			return h.finalFailure(ctx, video.ID(), video.Stage(), err)
		}
		return err
	}

	srt := vo.BuildSRT(translated)
	subtitleKey := translatedSubtitleKey(video.ID(), target)
	if err := h.bucket.UploadBytes(ctx, subtitleKey, []byte(srt), "application/x-subrip"); err != nil {
		return fmt.Errorf("upload translated subtitles video_id=%d: %w", video.ID(), err)
	}

	translation := entity.NewTranslationEntity(video.ID(), h.translator.Name(), target, subtitleKey)
	if err := h.translationRepo.CreateWithStageAdvance(ctx, translation, video, vo.StageTranslating); err != nil {
		return fmt.Errorf("persist translation video_id=%d: %w", video.ID(), err)
	}

	if err := h.queue.Send(ctx, &vo.TranslationReadyJob{VideoID: video.ID()}); err != nil {
		return fmt.Errorf("enqueue translation_ready video_id=%d: %w", video.ID(), err)
	}

	h.publishStageEvent(ctx, video.ID(), h.JobType(), vo.StageTranslating)
	logger.Infof("Subtitles translated video_id=%d sentences=%d subtitle_key=%s", video.ID(), len(sentences), subtitleKey)
	return nil
}

// translateAll 分批翻译，保持与原句的一一对应
func (h *TranslateHandler) translateAll(ctx context.Context, sentences []vo.Sentence, target string) ([]vo.Sentence, error) {
	batchSize := h.cfg.Translator.BatchSize
	out := make([]vo.Sentence, len(sentences))
	copy(out, sentences)

	for start := 0; start < len(sentences); start += batchSize {
		end := start + batchSize
		if end > len(sentences) {
			end = len(sentences)
		}
		texts := make([]string, 0, end-start)
		for _, s := range sentences[start:end] {
			texts = append(texts, s.Text)
		}

		translated, err := h.translator.TranslateSentences(ctx, texts, target)
		if err != nil {
			return nil, fmt.Errorf("translate batch [%d:%d]: %w", start, end, err)
		}
		if len(translated) != len(texts) {
			return nil, vo.Finalf("translator returned %d sentences for %d inputs", len(translated), len(texts))
		}
		for i, text := range translated {
			out[start+i].Text = text
		}
	}
	return out, nil
}
