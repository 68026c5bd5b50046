package queue

import (
	"context"
	"fmt"
	"sync"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
)

// Dispatch 一条已解码、待执行的作业及其回执消息
type Dispatch struct {
	Msg gateway.Message
	Job vo.Job
}

// JobQueue 进程内作业队列接口
type JobQueue interface {
	// Enqueue 入队作业；队列满时阻塞，起到对拉取端的反压作用
	Enqueue(ctx context.Context, d Dispatch) error

	// Dequeue 出队作业（阻塞）
	Dequeue(ctx context.Context) (Dispatch, error)

	// Size 获取队列大小
	Size() int

	// Close 关闭队列
	Close() error

	// IsClosed 检查队列是否已关闭
	IsClosed() bool
}

// QueueMetrics 队列指标快照
type QueueMetrics struct {
	EnqueueCount uint64
	DequeueCount uint64
	MaxSize      int
	CurrentSize  int
}

// MemoryJobQueue 基于内存的作业队列实现
type MemoryJobQueue struct {
	queue   chan Dispatch
	closed  bool
	mu      sync.RWMutex
	metrics struct {
		sync.Mutex
		enqueueCount uint64
		dequeueCount uint64
	}
	capacity int
}

// NewMemoryJobQueue 创建内存作业队列
func NewMemoryJobQueue(capacity int) *MemoryJobQueue {
	if capacity <= 0 {
		capacity = 64 // 默认容量
	}

	return &MemoryJobQueue{
		queue:    make(chan Dispatch, capacity),
		capacity: capacity,
	}
}

// Enqueue 入队作业；队列满时阻塞直到有空位或ctx取消
func (q *MemoryJobQueue) Enqueue(ctx context.Context, d Dispatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	if d.Msg == nil || d.Job == nil {
		return fmt.Errorf("dispatch cannot be empty")
	}

	select {
	case q.queue <- d:
		q.metrics.Lock()
		q.metrics.enqueueCount++
		q.metrics.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue 出队作业（阻塞）
func (q *MemoryJobQueue) Dequeue(ctx context.Context) (Dispatch, error) {
	select {
	case d, ok := <-q.queue:
		if !ok {
			return Dispatch{}, fmt.Errorf("queue is closed")
		}
		q.metrics.Lock()
		q.metrics.dequeueCount++
		q.metrics.Unlock()
		return d, nil
	case <-ctx.Done():
		return Dispatch{}, ctx.Err()
	}
}

// Size 获取队列大小
func (q *MemoryJobQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return 0
	}
	return len(q.queue)
}

// Close 关闭队列
func (q *MemoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}

// IsClosed 检查队列是否已关闭
func (q *MemoryJobQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// GetMetrics 获取队列指标
func (q *MemoryJobQueue) GetMetrics() QueueMetrics {
	q.metrics.Lock()
	defer q.metrics.Unlock()

	return QueueMetrics{
		EnqueueCount: q.metrics.enqueueCount,
		DequeueCount: q.metrics.dequeueCount,
		MaxSize:      q.capacity,
		CurrentSize:  q.Size(),
	}
}
