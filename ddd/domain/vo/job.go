package vo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JobType 管道作业类型标签
type JobType string

const (
	JobTypeDownloadVideo      JobType = "download_video"
	JobTypeCutVideo           JobType = "cut_video"
	JobTypeRawUploaded        JobType = "raw_uploaded"
	JobTypeTranscriptionReady JobType = "transcription_ready"
	JobTypeTranslationReady   JobType = "translation_ready"
	JobTypeProcessedUploaded  JobType = "processed_uploaded"
)

// JobWeight 作业负载分级，决定由哪个Worker池处理
type JobWeight int

const (
	// WeightLight 网络型短作业
	WeightLight JobWeight = iota
	// WeightHeavy 本地转码型长作业
	WeightHeavy
)

// Job 管道作业，封闭和类型：每个阶段命令一个变体。
// 作业只是触发器，持久化的视频阶段才是状态的唯一来源。
type Job interface {
	Type() JobType
	Weight() JobWeight
}

// DownloadVideoJob 下载源视频并切出全部子视频
type DownloadVideoJob struct {
	OriginalVideoID uint64   `json:"original_video_id"`
	VideoIDs        []uint64 `json:"video_ids"`
}

func (DownloadVideoJob) Type() JobType     { return JobTypeDownloadVideo }
func (DownloadVideoJob) Weight() JobWeight { return WeightLight }

// CutVideoJob 从本地源文件剪切单个视频
type CutVideoJob struct {
	VideoID     uint64 `json:"video_id"`
	RawFilePath string `json:"raw_file_path"`
	Format      string `json:"format"`
}

func (CutVideoJob) Type() JobType     { return JobTypeCutVideo }
func (CutVideoJob) Weight() JobWeight { return WeightHeavy }

// RawUploadedJob 原始切片已入库，触发转写
type RawUploadedJob struct {
	VideoID  uint64 `json:"video_id"`
	VideoURI string `json:"video_uri"`
}

func (RawUploadedJob) Type() JobType     { return JobTypeRawUploaded }
func (RawUploadedJob) Weight() JobWeight { return WeightLight }

// TranscriptionReadyJob 字幕已生成，触发翻译
type TranscriptionReadyJob struct {
	VideoID uint64 `json:"video_id"`
}

func (TranscriptionReadyJob) Type() JobType     { return JobTypeTranscriptionReady }
func (TranscriptionReadyJob) Weight() JobWeight { return WeightLight }

// TranslationReadyJob 翻译字幕已入库，触发压制
type TranslationReadyJob struct {
	VideoID uint64 `json:"video_id"`
}

func (TranslationReadyJob) Type() JobType     { return JobTypeTranslationReady }
func (TranslationReadyJob) Weight() JobWeight { return WeightHeavy }

// ProcessedUploadedJob 成品已入库，触发发布
type ProcessedUploadedJob struct {
	VideoID uint64 `json:"video_id"`
}

func (ProcessedUploadedJob) Type() JobType     { return JobTypeProcessedUploaded }
func (ProcessedUploadedJob) Weight() JobWeight { return WeightLight }

// DecodeError 作业报文无法解码；此类消息直接丢弃，不重投
type DecodeError struct {
	Reason string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return "decode job: " + e.Reason
	}
	return fmt.Sprintf("decode job: %s: %v", e.Reason, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// envelope 消息信封格式 {"type": "...", "payload": {...}}
type envelope struct {
	Type    JobType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeJob 将作业编码为信封JSON
func EncodeJob(job Job) ([]byte, error) {
	if job == nil {
		return nil, fmt.Errorf("encode job: nil job")
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job payload: %w", err)
	}
	return json.Marshal(envelope{Type: job.Type(), Payload: payload})
}

// DecodeJob 从信封JSON解码作业；任何失败都返回*DecodeError
func DecodeJob(body []byte) (Job, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Reason: "malformed envelope", Cause: err}
	}
	if len(env.Payload) == 0 {
		return nil, &DecodeError{Reason: "missing payload"}
	}

	var job Job
	switch env.Type {
	case JobTypeDownloadVideo:
		job = &DownloadVideoJob{}
	case JobTypeCutVideo:
		job = &CutVideoJob{}
	case JobTypeRawUploaded:
		job = &RawUploadedJob{}
	case JobTypeTranscriptionReady:
		job = &TranscriptionReadyJob{}
	case JobTypeTranslationReady:
		job = &TranslationReadyJob{}
	case JobTypeProcessedUploaded:
		job = &ProcessedUploadedJob{}
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown type %q", env.Type)}
	}

	if err := json.Unmarshal(env.Payload, job); err != nil {
		return nil, &DecodeError{Reason: "malformed payload", Cause: err}
	}
	return job, nil
}

// IsDecodeError 判断是否为解码错误
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
