package component

import (
	"fmt"

	appsvc "clipflow-service/ddd/application/app"
	"clipflow-service/ddd/domain/service"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/broker"
	"clipflow-service/ddd/infrastructure/clients"
	"clipflow-service/ddd/infrastructure/database/persistence"
	"clipflow-service/ddd/infrastructure/downloader"
	"clipflow-service/ddd/infrastructure/events"
	"clipflow-service/ddd/infrastructure/executor"
	"clipflow-service/ddd/infrastructure/queue"
	"clipflow-service/ddd/infrastructure/storage"
	"clipflow-service/ddd/infrastructure/worker"
	"clipflow-service/internal/resource"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/kafka"
	"clipflow-service/pkg/logger"
	"clipflow-service/pkg/manager"
	"clipflow-service/pkg/task"
)

const artifactProvider = "minio"

// PipelineWorkerComponentPlugin 装配并启动管道Worker
type PipelineWorkerComponentPlugin struct{}

func (p *PipelineWorkerComponentPlugin) Name() string {
	return "pipelineWorkerComponent"
}

func (p *PipelineWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}

	db := resource.DefaultMysqlResource().MainDB()
	videoRepo := persistence.NewVideoRepository(db)
	originalRepo := persistence.NewOriginalVideoRepository(db)
	artifactRepo := persistence.NewStorageArtifactRepository(db)
	transcriptionRepo := persistence.NewTranscriptionRepository(db)
	translationRepo := persistence.NewTranslationRepository(db)
	channelRepo := persistence.NewChannelRepository(db)

	bucket := storage.NewMinioStorage(resource.DefaultMinioResource())
	jobBroker := broker.NewRedisQueue(resource.DefaultRedisResource().Client(), cfg.Broker)
	eventPublisher := events.NewKafkaEventPublisher(cfg.Kafka)
	if cfg.Kafka.Enabled {
		if err := kafka.DefaultClient().EnsureTopic(cfg.Kafka.Topics.VideoEvents, 3, 1); err != nil {
			logger.Warnf("Ensure events topic failed topic=%s error=%v", cfg.Kafka.Topics.VideoEvents, err)
		}
	}

	ffmpeg := executor.NewFFmpegExecutor(cfg)
	ytdlp := downloader.NewYtdlpDownloader(cfg)
	transcriber := clients.NewTranscriberClient(cfg.Transcriber)
	translator := clients.NewTranslatorClient(cfg.Translator)
	publisher := clients.NewPublisherClient(cfg.Uploader, cfg.Pipeline.PresignTTL, bucket)

	handlers := map[vo.JobType]service.StageHandler{}
	for _, h := range []service.StageHandler{
		service.NewDownloadHandler(videoRepo, originalRepo, artifactRepo, bucket, ytdlp, jobBroker, eventPublisher, artifactProvider, cfg),
		service.NewCutHandler(videoRepo, originalRepo, artifactRepo, bucket, ffmpeg, jobBroker, eventPublisher, artifactProvider, cfg),
		service.NewTranscribeKickoffHandler(videoRepo, transcriptionRepo, artifactRepo, bucket, transcriber, jobBroker, eventPublisher, cfg),
		service.NewTranslateHandler(videoRepo, transcriptionRepo, translationRepo, bucket, transcriber, translator, jobBroker, eventPublisher, cfg),
		service.NewSubtitleBurnHandler(videoRepo, artifactRepo, translationRepo, bucket, ffmpeg, jobBroker, eventPublisher, artifactProvider, cfg),
		service.NewPublishHandler(videoRepo, channelRepo, artifactRepo, publisher, jobBroker, eventPublisher),
	} {
		handlers[h.JobType()] = h
	}

	workerID := cfg.Worker.WorkerID
	if workerID == "" {
		workerID = "pipeline-worker"
	}
	lightQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)
	heavyQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)
	pipelineWorker := worker.NewPipelineWorker(workerID, jobBroker, handlers, lightQueue, heavyQueue, cfg.Worker)

	// 运维接口和Worker共享同一套实例
	deps.PipelineApp = appsvc.NewPipelineApp(workerID, pipelineWorker, lightQueue, heavyQueue, videoRepo, originalRepo, jobBroker)

	return &pipelineWorkerComponent{
		name:       "pipelineWorker",
		worker:     pipelineWorker,
		lightQueue: lightQueue,
		heavyQueue: heavyQueue,
	}
}

type pipelineWorkerComponent struct {
	name       string
	worker     worker.PipelineWorker
	lightQueue *queue.MemoryJobQueue
	heavyQueue *queue.MemoryJobQueue
}

func (c *pipelineWorkerComponent) Start() error {
	if c.worker == nil {
		return fmt.Errorf("pipeline worker not initialized")
	}

	// 注册后台任务，让应用启动时统一管理
	task.Register(&backgroundTaskAdapter{name: c.name, startFunc: c.worker.Start, stopFunc: c.worker.Stop})
	logger.Infof("Pipeline worker component registered background task name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) Stop() error {
	_ = c.lightQueue.Close()
	_ = c.heavyQueue.Close()
	logger.Infof("Pipeline worker component stopped name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) GetName() string {
	return c.name
}
