package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/domain/vo"
)

type stubMessage struct {
	id   string
	body []byte
}

func (m *stubMessage) ID() string             { return m.id }
func (m *stubMessage) Body() []byte           { return m.body }
func (m *stubMessage) ToJob() (vo.Job, error) { return vo.DecodeJob(m.body) }

func dispatchFor(id string, videoID uint64) Dispatch {
	return Dispatch{
		Msg: &stubMessage{id: id},
		Job: &vo.TranscriptionReadyJob{VideoID: videoID},
	}
}

func TestMemoryJobQueue_EnqueueDequeue(t *testing.T) {
	q := NewMemoryJobQueue(4)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, dispatchFor("m-1", 101)))
	require.NoError(t, q.Enqueue(ctx, dispatchFor("m-2", 102)))
	assert.Equal(t, 2, q.Size())

	d, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m-1", d.Msg.ID())

	d, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m-2", d.Msg.ID())
	assert.Equal(t, 0, q.Size())

	metrics := q.GetMetrics()
	assert.Equal(t, uint64(2), metrics.EnqueueCount)
	assert.Equal(t, uint64(2), metrics.DequeueCount)
	assert.Equal(t, 4, metrics.MaxSize)
}

func TestMemoryJobQueue_EnqueueBlocksWhenFull(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, dispatchFor("m-1", 101)))

	// 队列已满，入队应阻塞直到ctx取消
	blockCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := q.Enqueue(blockCtx, dispatchFor("m-2", 102))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// 腾出空位后解除阻塞
	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, dispatchFor("m-3", 103))
	}()

	d, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m-1", d.Msg.ID())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("enqueue did not unblock after dequeue")
	}
}

func TestMemoryJobQueue_DequeueRespectsContext(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryJobQueue_Close(t *testing.T) {
	q := NewMemoryJobQueue(2)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, dispatchFor("m-1", 101)))
	require.NoError(t, q.Close())
	assert.True(t, q.IsClosed())

	// 关闭后拒绝入队，已入队的作业仍可排空
	require.Error(t, q.Enqueue(ctx, dispatchFor("m-2", 102)))

	d, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m-1", d.Msg.ID())

	_, err = q.Dequeue(ctx)
	require.Error(t, err)

	// 重复关闭应为空操作
	require.NoError(t, q.Close())
}

func TestMemoryJobQueue_RejectsEmptyDispatch(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	err := q.Enqueue(context.Background(), Dispatch{})
	require.Error(t, err)
}
