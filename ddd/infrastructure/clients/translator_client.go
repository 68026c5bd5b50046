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
	"clipflow-service/pkg/config"
)

// TranslatorClient 第三方翻译服务HTTP客户端
type TranslatorClient struct {
	baseURL    string
	apiKey     string
	batchSize  int
	httpClient *http.Client
}

// NewTranslatorClient 创建翻译服务客户端
func NewTranslatorClient(cfg config.TranslatorConfig) gateway.TranslatorGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &TranslatorClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name 翻译器标识
func (c *TranslatorClient) Name() string {
	return "http-translator"
}

type translateRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"target_language"`
}

type translateResponse struct {
	Translations []string `json:"translations"`
}

// TranslateSentences 批量翻译文本；分批调用但保持输出顺序与长度
func (c *TranslatorClient) TranslateSentences(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	translated := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.translateBatch(ctx, texts[start:end], targetLanguage)
		if err != nil {
			return nil, err
		}
		translated = append(translated, batch...)
	}
	return translated, nil
}

func (c *TranslatorClient) translateBatch(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	body, err := json.Marshal(translateRequest{Texts: texts, TargetLanguage: targetLanguage})
	if err != nil {
		return nil, fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call translator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("translator returned status %d: %s", resp.StatusCode, payload)
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode translate response: %w", err)
	}
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("translator returned %d translations for %d texts", len(result.Translations), len(texts))
	}
	return result.Translations, nil
}
