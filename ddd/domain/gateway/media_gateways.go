package gateway

import (
	"context"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
)

// CutBounds 剪切边界（秒）；End为0表示无右边界
type CutBounds struct {
	Start float64
	End   float64
}

// DownloaderGateway 源视频下载器（yt-dlp子进程）
type DownloaderGateway interface {
	// Download 下载整段源视频，返回本地文件路径和探测到的时长
	Download(ctx context.Context, sourceURL, format string) (localPath string, durationSeconds float64, err error)

	// DownloadSection 只下载指定区间，由下载器远程应用剪切边界
	DownloadSection(ctx context.Context, sourceURL string, bounds CutBounds, format string) (localPath string, err error)
}

// CutterGateway 本地剪切（ffmpeg子进程）
type CutterGateway interface {
	// Cut 按边界剪切本地文件到输出路径
	Cut(ctx context.Context, inputPath string, bounds CutBounds, outputPath string) error
}

// TranscriberGateway 第三方转写服务
type TranscriberGateway interface {
	// Transcribe 以媒体URL发起转写作业
	Transcribe(ctx context.Context, mediaURL, language string) (jobID string, err error)

	// GetSentences 获取转写完成后的句子序列
	GetSentences(ctx context.Context, jobID string) ([]vo.Sentence, error)
}

// TranslatorGateway 第三方翻译服务
type TranslatorGateway interface {
	// TranslateSentences 批量翻译文本，保持顺序与长度
	TranslateSentences(ctx context.Context, texts []string, targetLanguage string) ([]string, error)

	// Name 翻译器标识，写入Translation记录
	Name() string
}

// SubtitlerGateway 字幕压制服务（本地ffmpeg或外部异步服务）
type SubtitlerGateway interface {
	// EstimateTime 估算压制耗时（秒），用于提前延长消息可见性
	EstimateTime(ctx context.Context, artifact *entity.StorageArtifactEntity) (int64, error)

	// Subtitle 将字幕压制进视频；同步实现返回本地成品路径，
	// 异步实现返回外部作业ID、由带外轮询推进
	Subtitle(ctx context.Context, videoPath, subtitlePath, outputPath string) (externalJobID string, err error)
}

// PublisherGateway 视频托管平台发布客户端
type PublisherGateway interface {
	// HealthCheck 发布前检查频道/提供方可用性；失败属业务规则而非瞬时故障
	HealthCheck(ctx context.Context, channel *entity.ChannelEntity) error

	// Upload 发布成品，返回平台公开ID
	Upload(ctx context.Context, video *entity.VideoEntity, artifact *entity.StorageArtifactEntity, channel *entity.ChannelEntity) (publicID string, err error)
}

// EventGateway 阶段变更事件发布
type EventGateway interface {
	// PublishStageEvent 发布一次成功的阶段推进
	PublishStageEvent(ctx context.Context, videoID uint64, jobType vo.JobType, stage vo.Stage) error
}
