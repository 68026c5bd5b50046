package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
)

// TranscriberClient 第三方转写服务HTTP客户端
type TranscriberClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTranscriberClient 创建转写服务客户端
func NewTranscriberClient(cfg config.TranscriberConfig) gateway.TranscriberGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TranscriberClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type transcribeRequest struct {
	MediaURL string `json:"media_url"`
	Language string `json:"language,omitempty"`
}

type transcribeResponse struct {
	JobID string `json:"job_id"`
}

// Transcribe 以媒体URL发起转写作业
func (c *TranscriberClient) Transcribe(ctx context.Context, mediaURL, language string) (string, error) {
	body, err := json.Marshal(transcribeRequest{MediaURL: mediaURL, Language: language})
	if err != nil {
		return "", fmt.Errorf("marshal transcribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcriptions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call transcriber: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("transcriber returned status %d: %s", resp.StatusCode, payload)
	}

	var result transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode transcribe response: %w", err)
	}
	if result.JobID == "" {
		return "", fmt.Errorf("transcriber returned empty job id")
	}
	return result.JobID, nil
}

type sentencesResponse struct {
	Status    string `json:"status"`
	Sentences []struct {
		Text    string `json:"text"`
		StartMs int64  `json:"start_ms"`
		EndMs   int64  `json:"end_ms"`
	} `json:"sentences"`
}

// GetSentences 获取转写完成后的句子序列
func (c *TranscriberClient) GetSentences(ctx context.Context, jobID string) ([]vo.Sentence, error) {
	url := fmt.Sprintf("%s/v1/transcriptions/%s/sentences", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sentences request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call transcriber: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("transcriber returned status %d: %s", resp.StatusCode, payload)
	}

	var result sentencesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode sentences response: %w", err)
	}

	sentences := make([]vo.Sentence, 0, len(result.Sentences))
	for _, s := range result.Sentences {
		sentences = append(sentences, vo.Sentence{Text: s.Text, StartMs: s.StartMs, EndMs: s.EndMs})
	}
	return sentences, nil
}
