package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/service"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/ddd/infrastructure/queue"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// PipelineWorker 管道工作器接口
type PipelineWorker interface {
	// Start 启动工作器
	Start(ctx context.Context) error

	// Stop 停止工作器
	Stop() error

	// IsRunning 检查工作器是否运行中
	IsRunning() bool

	// GetStats 获取工作器统计信息
	GetStats() WorkerStats
}

// WorkerStats 工作器统计信息
type WorkerStats struct {
	ProcessedJobs    uint64
	SuccessfulJobs   uint64
	FinalFailedJobs  uint64
	RetriedJobs      uint64
	MalformedJobs    uint64
	CurrentlyRunning int
	StartTime        time.Time
	LastJobTime      time.Time
}

// pipelineWorkerImpl 管道工作器实现。单个拉取协程从代理收消息、
// 解码后按作业分级投进轻/重两个进程内队列，各自的Worker池消费。
type pipelineWorkerImpl struct {
	id               string
	broker           gateway.QueueGateway
	handlers         map[vo.JobType]service.StageHandler
	lightQueue       queue.JobQueue
	heavyQueue       queue.JobQueue
	lightWorkers     int
	heavyWorkers     int
	jobDeadline      time.Duration
	heavyJobDeadline time.Duration
	running          bool
	cancel           context.CancelFunc
	stats            WorkerStats
	mu               sync.RWMutex
	wg               sync.WaitGroup
}

// NewPipelineWorker 创建管道工作器
func NewPipelineWorker(
	id string,
	broker gateway.QueueGateway,
	handlers map[vo.JobType]service.StageHandler,
	lightQueue, heavyQueue queue.JobQueue,
	cfg config.WorkerConfig,
) PipelineWorker {
	lightWorkers := cfg.LightWorkers
	if lightWorkers <= 0 {
		lightWorkers = 4
	}
	heavyWorkers := cfg.HeavyWorkers
	if heavyWorkers <= 0 {
		heavyWorkers = 2
	}
	jobDeadline := cfg.JobDeadline
	if jobDeadline <= 0 {
		jobDeadline = 5 * time.Minute
	}
	heavyJobDeadline := cfg.HeavyJobDeadline
	if heavyJobDeadline <= 0 {
		heavyJobDeadline = 30 * time.Minute
	}

	return &pipelineWorkerImpl{
		id:               id,
		broker:           broker,
		handlers:         handlers,
		lightQueue:       lightQueue,
		heavyQueue:       heavyQueue,
		lightWorkers:     lightWorkers,
		heavyWorkers:     heavyWorkers,
		jobDeadline:      jobDeadline,
		heavyJobDeadline: heavyJobDeadline,
		stats: WorkerStats{
			StartTime: time.Now(),
		},
	}
}

// Start 启动拉取协程和两个Worker池
func (w *pipelineWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker %s is already running", w.id)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.stats.StartTime = time.Now()

	logger.Infof("Starting pipeline worker id=%s light_workers=%d heavy_workers=%d", w.id, w.lightWorkers, w.heavyWorkers)

	w.wg.Add(1)
	go w.pollLoop(workerCtx)

	for i := 0; i < w.lightWorkers; i++ {
		w.wg.Add(1)
		go w.workerLoop(workerCtx, w.lightQueue, fmt.Sprintf("%s-light-%d", w.id, i), w.jobDeadline)
	}
	for i := 0; i < w.heavyWorkers; i++ {
		w.wg.Add(1)
		go w.workerLoop(workerCtx, w.heavyQueue, fmt.Sprintf("%s-heavy-%d", w.id, i), w.heavyJobDeadline)
	}

	return nil
}

// Stop 停止工作器。等待协程退出前必须先放锁，
// 在途作业的统计回写还要拿同一把锁
func (w *pipelineWorkerImpl) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	logger.Infof("Stopping pipeline worker id=%s", w.id)

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	logger.Infof("Pipeline worker stopped id=%s", w.id)
	return nil
}

// IsRunning 检查工作器是否运行中
func (w *pipelineWorkerImpl) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// GetStats 获取工作器统计信息
func (w *pipelineWorkerImpl) GetStats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// pollLoop 拉取循环：收消息、解码、分级入队。
// 进程内队列满时入队阻塞，自然停止继续拉取。
func (w *pipelineWorkerImpl) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	logger.Infof("Poller started worker_id=%s", w.id)
	defer logger.Infof("Poller stopped worker_id=%s", w.id)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		messages, err := w.broker.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logger.Warnf("Receive from broker failed worker_id=%s error=%v", w.id, err)
			time.Sleep(time.Second) // 避免忙等待
			continue
		}

		for _, msg := range messages {
			job, err := msg.ToJob()
			if err != nil {
				// 坏报文重投也解不开，直接删除
				logger.Errorf("Malformed message dropped message_id=%s error=%v", msg.ID(), err)
				if delErr := w.broker.Delete(ctx, msg); delErr != nil {
					logger.Warnf("Delete malformed message failed message_id=%s error=%v", msg.ID(), delErr)
				}
				w.updateStats(func(stats *WorkerStats) { stats.MalformedJobs++ })
				continue
			}

			target := w.lightQueue
			if job.Weight() == vo.WeightHeavy {
				target = w.heavyQueue
			}
			if err := target.Enqueue(ctx, queue.Dispatch{Msg: msg, Job: job}); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				// 入队失败不删消息，等它可见性超时重投
				logger.Warnf("Enqueue dispatch failed message_id=%s error=%v", msg.ID(), err)
			}
		}
	}
}

// workerLoop Worker池主循环
func (w *pipelineWorkerImpl) workerLoop(ctx context.Context, jobQueue queue.JobQueue, name string, deadline time.Duration) {
	defer w.wg.Done()

	logger.Infof("Worker started name=%s", name)
	defer logger.Infof("Worker stopped name=%s", name)

	for {
		d, err := jobQueue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if jobQueue.IsClosed() {
				return
			}
			logger.Warnf("Dequeue failed worker=%s error=%v", name, err)
			time.Sleep(time.Second)
			continue
		}

		w.processDispatch(ctx, d, name, deadline)
	}
}

// processDispatch 执行一条作业并按结果分类处理回执
func (w *pipelineWorkerImpl) processDispatch(ctx context.Context, d queue.Dispatch, name string, deadline time.Duration) {
	handler, ok := w.handlers[d.Job.Type()]
	if !ok {
		// 没有处理器的作业类型属于部署错误，删除避免死循环重投
		logger.Errorf("No handler for job type=%s message_id=%s", d.Job.Type(), d.Msg.ID())
		if err := w.broker.Delete(ctx, d.Msg); err != nil {
			logger.Warnf("Delete unroutable message failed message_id=%s error=%v", d.Msg.ID(), err)
		}
		return
	}

	w.updateStats(func(stats *WorkerStats) {
		stats.CurrentlyRunning++
		stats.LastJobTime = time.Now()
	})
	defer w.updateStats(func(stats *WorkerStats) {
		stats.CurrentlyRunning--
		stats.ProcessedJobs++
	})

	jobCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	err := w.invokeHandler(jobCtx, handler, d)
	switch {
	case err == nil:
		if delErr := w.broker.Delete(ctx, d.Msg); delErr != nil {
			// 删除失败会导致重投，靠处理器幂等兜底
			logger.Warnf("Delete message failed message_id=%s error=%v", d.Msg.ID(), delErr)
		}
		w.updateStats(func(stats *WorkerStats) { stats.SuccessfulJobs++ })
	case vo.IsFinal(err):
		logger.Warnf("Job failed terminally worker=%s job_type=%s error=%v", name, d.Job.Type(), err)
		if delErr := w.broker.Delete(ctx, d.Msg); delErr != nil {
			logger.Warnf("Delete message failed message_id=%s error=%v", d.Msg.ID(), delErr)
		}
		w.updateStats(func(stats *WorkerStats) { stats.FinalFailedJobs++ })
	default:
		// 瞬时失败：不删消息，可见性超时后重投
		logger.Warnf("Job failed, will be redelivered worker=%s job_type=%s error=%v", name, d.Job.Type(), err)
		w.updateStats(func(stats *WorkerStats) { stats.RetriedJobs++ })
	}
}

// invokeHandler 调用处理器并把panic转成瞬时失败，避免拖垮Worker池
func (w *pipelineWorkerImpl) invokeHandler(ctx context.Context, handler service.StageHandler, d queue.Dispatch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Handler panic job_type=%s message_id=%s panic=%v stack=%s", d.Job.Type(), d.Msg.ID(), r, debug.Stack())
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, d.Msg, d.Job)
}

// updateStats 更新统计信息
func (w *pipelineWorkerImpl) updateStats(fn func(stats *WorkerStats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.stats)
}
