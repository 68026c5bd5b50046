package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/pkg/config"
)

// PublisherClient 视频托管平台HTTP客户端。
// 成品不通过本服务中转，而是下发限时下载URL让平台自取。
type PublisherClient struct {
	baseURL    string
	apiKey     string
	presignTTL time.Duration
	bucket     gateway.BucketGateway
	httpClient *http.Client
}

// NewPublisherClient 创建发布客户端
func NewPublisherClient(cfg config.UploaderConfig, presignTTL time.Duration, bucket gateway.BucketGateway) gateway.PublisherGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	return &PublisherClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		presignTTL: presignTTL,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HealthCheck 发布前检查频道可用性
func (c *PublisherClient) HealthCheck(ctx context.Context, channel *entity.ChannelEntity) error {
	url := fmt.Sprintf("%s/v1/channels/%s/health", c.baseURL, channel.ExternalID())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build health check request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call publisher health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("channel health check returned status %d: %s", resp.StatusCode, payload)
	}
	return nil
}

type publishRequest struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Language    string `json:"language"`
	MediaURL    string `json:"media_url"`
}

type publishResponse struct {
	PublicID string `json:"public_id"`
}

// Upload 发布成品，返回平台公开ID
func (c *PublisherClient) Upload(ctx context.Context, video *entity.VideoEntity, artifact *entity.StorageArtifactEntity, channel *entity.ChannelEntity) (string, error) {
	mediaURL, err := c.bucket.PresignDownload(ctx, artifact.ObjectKey(), c.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign processed artifact: %w", err)
	}

	body, err := json.Marshal(publishRequest{
		ChannelID:   channel.ExternalID(),
		Title:       video.Title(),
		Description: video.Description(),
		Tags:        video.Tags(),
		Language:    video.Language(),
		MediaURL:    mediaURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal publish request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/videos", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call publisher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("publisher returned status %d: %s", resp.StatusCode, payload)
	}

	var result publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode publish response: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("publisher returned empty public id")
	}
	return result.PublicID, nil
}
