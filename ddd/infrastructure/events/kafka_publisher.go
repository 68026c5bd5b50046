package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/kafka"
)

// stageEvent 阶段推进事件报文
type stageEvent struct {
	VideoID          uint64 `json:"video_id"`
	JobType          string `json:"job_type"`
	Stage            string `json:"stage"`
	OccurredAtMillis int64  `json:"occurred_at_ms"`
}

// KafkaEventPublisher 阶段事件Kafka发布器
type KafkaEventPublisher struct {
	client  *kafka.Client
	topic   string
	enabled bool
}

// NewKafkaEventPublisher 创建阶段事件发布器
func NewKafkaEventPublisher(cfg config.KafkaConfig) gateway.EventGateway {
	return &KafkaEventPublisher{
		client:  kafka.DefaultClient(),
		topic:   cfg.Topics.VideoEvents,
		enabled: cfg.Enabled,
	}
}

// PublishStageEvent 发布一次成功的阶段推进。
// 事件按video_id做key，同一视频的事件保持分区有序。
func (p *KafkaEventPublisher) PublishStageEvent(ctx context.Context, videoID uint64, jobType vo.JobType, stage vo.Stage) error {
	if !p.enabled {
		return nil
	}

	value, err := json.Marshal(stageEvent{
		VideoID:          videoID,
		JobType:          string(jobType),
		Stage:            stage.String(),
		OccurredAtMillis: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal stage event: %w", err)
	}

	key := []byte(strconv.FormatUint(videoID, 10))
	return p.client.Produce(ctx, p.topic, key, value)
}
