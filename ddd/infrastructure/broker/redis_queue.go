package broker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// redisMessage Redis队列中的一条消息
type redisMessage struct {
	id   string
	body []byte
}

func (m *redisMessage) ID() string   { return m.id }
func (m *redisMessage) Body() []byte { return m.body }

func (m *redisMessage) ToJob() (vo.Job, error) {
	return vo.DecodeJob(m.body)
}

// RedisQueue 基于Redis的作业队列。
// ready列表保存待投递的消息ID，inflight有序集合按可见性截止时间
// 记录已投递未确认的消息；超过截止时间的消息会被重新投递。
type RedisQueue struct {
	client            *redis.Client
	queueName         string
	visibilityTimeout time.Duration
	receiveWait       time.Duration
	maxReceiveBatch   int
}

// NewRedisQueue 创建Redis作业队列
func NewRedisQueue(client *redis.Client, cfg config.BrokerConfig) *RedisQueue {
	return &RedisQueue{
		client:            client,
		queueName:         cfg.QueueName,
		visibilityTimeout: cfg.VisibilityTimeout,
		receiveWait:       cfg.ReceiveWait,
		maxReceiveBatch:   cfg.MaxReceiveBatch,
	}
}

func (q *RedisQueue) readyKey() string    { return q.queueName + ":ready" }
func (q *RedisQueue) inflightKey() string { return q.queueName + ":inflight" }
func (q *RedisQueue) bodyKey(id string) string {
	return fmt.Sprintf("%s:msg:%s", q.queueName, id)
}

// Send 发布新作业
func (q *RedisQueue) Send(ctx context.Context, job vo.Job) error {
	body, err := vo.EncodeJob(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	id := uuid.NewString()
	// 消息体先于ID入队，避免消费者取到无体消息
	if err := q.client.Set(ctx, q.bodyKey(id), body, 0).Err(); err != nil {
		return fmt.Errorf("store message body: %w", err)
	}
	if err := q.client.LPush(ctx, q.readyKey(), id).Err(); err != nil {
		return fmt.Errorf("push message id: %w", err)
	}

	logger.Debug("job enqueued", map[string]interface{}{
		"message_id": id,
		"job_type":   string(job.Type()),
	})
	return nil
}

// reserveScript 弹出与在途登记在同一脚本中完成，
// 两步之间进程崩溃不会丢消息
var reserveScript = redis.NewScript(`
local id = redis.call('RPOP', KEYS[1])
if not id then
	return false
end
redis.call('ZADD', KEYS[2], ARGV[1], id)
return id
`)

// Receive 长轮询收取消息。先回收可见性超时的在途消息，
// 再等待新消息，一次最多返回maxReceiveBatch条。
func (q *RedisQueue) Receive(ctx context.Context) ([]gateway.Message, error) {
	if err := q.reclaimExpired(ctx); err != nil {
		logger.Warn("failed to reclaim expired messages", map[string]interface{}{
			"error": err.Error(),
		})
	}

	deadline := float64(time.Now().Add(q.visibilityTimeout).UnixMilli())
	ids, err := q.popReady(ctx, deadline)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	messages := make([]gateway.Message, 0, len(ids))
	for _, id := range ids {
		body, err := q.client.Get(ctx, q.bodyKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// 消息体已被确认删除，清掉在途残留
				q.client.ZRem(ctx, q.inflightKey(), id)
				continue
			}
			// 剩余ID已在在途集合中，可见性超时后会重投
			return messages, err
		}
		messages = append(messages, &redisMessage{id: id, body: body})
	}
	return messages, nil
}

// popReady 原子预订一批消息；队列为空时短间隔轮询，最长等待receiveWait
func (q *RedisQueue) popReady(ctx context.Context, deadline float64) ([]string, error) {
	waitUntil := time.Now().Add(q.receiveWait)
	for {
		ids, err := q.reserveBatch(ctx, deadline)
		if err != nil || len(ids) > 0 {
			return ids, err
		}
		if time.Now().After(waitUntil) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (q *RedisQueue) reserveBatch(ctx context.Context, deadline float64) ([]string, error) {
	var ids []string
	for len(ids) < q.maxReceiveBatch {
		res, err := reserveScript.Run(ctx, q.client, []string{q.readyKey(), q.inflightKey()}, deadline).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return ids, err
		}
		id, ok := res.(string)
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// reclaimExpired 将可见性超时的在途消息放回ready列表
func (q *RedisQueue) reclaimExpired(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	expired, err := q.client.ZRangeByScore(ctx, q.inflightKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return err
	}

	for _, id := range expired {
		removed, err := q.client.ZRem(ctx, q.inflightKey(), id).Result()
		if err != nil {
			return err
		}
		// 只有抢到ZREM的一方负责重新入队
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, q.readyKey(), id).Err(); err != nil {
			return err
		}
		logger.Info("message visibility expired, redelivering", map[string]interface{}{
			"message_id": id,
		})
	}
	return nil
}

// Delete 确认消息处理完成
func (q *RedisQueue) Delete(ctx context.Context, msg gateway.Message) error {
	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, q.inflightKey(), msg.ID())
	pipe.Del(ctx, q.bodyKey(msg.ID()))
	_, err := pipe.Exec(ctx)
	return err
}

// ExtendVisibility 延长消息的不可见窗口；消息已不在途则为无操作
func (q *RedisQueue) ExtendVisibility(ctx context.Context, msg gateway.Message, d time.Duration) error {
	deadline := float64(time.Now().Add(d).UnixMilli())
	return q.client.ZAddXX(ctx, q.inflightKey(), redis.Z{Score: deadline, Member: msg.ID()}).Err()
}
