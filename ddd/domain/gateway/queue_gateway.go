package gateway

import (
	"context"
	"time"

	"clipflow-service/ddd/domain/vo"
)

// Message 从代理收到的不透明消息
type Message interface {
	// ID 消息唯一标识（回执）
	ID() string
	// Body 原始报文
	Body() []byte
	// ToJob 解码为管道作业；失败返回*vo.DecodeError
	ToJob() (vo.Job, error)
}

// QueueGateway 作业队列网关。投递语义为至少一次；
// 消费者必须对持久化阶段幂等。
type QueueGateway interface {
	// Receive 长轮询收取零到多条消息；超时返回空结果而非错误
	Receive(ctx context.Context) ([]Message, error)

	// Send 发布新作业
	Send(ctx context.Context, job vo.Job) error

	// Delete 确认消息处理完成；每条成功处理的消息只能调用一次
	Delete(ctx context.Context, msg Message) error

	// ExtendVisibility 在长耗时处理前延长消息的不可见窗口，
	// 防止处理途中被重投给其他Worker
	ExtendVisibility(ctx context.Context, msg Message, d time.Duration) error
}
