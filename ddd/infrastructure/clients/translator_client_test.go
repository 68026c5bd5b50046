package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/pkg/config"
)

func TestTranslatorClient_BatchesAndPreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/translate", r.URL.Path)
		var req struct {
			Texts          []string `json:"texts"`
			TargetLanguage string   `json:"target_language"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "zh", req.TargetLanguage)

		mu.Lock()
		batches = append(batches, req.Texts)
		mu.Unlock()

		out := make([]string, len(req.Texts))
		for i, s := range req.Texts {
			out[i] = "译:" + s
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"translations": out})
	}))
	defer server.Close()

	c := NewTranslatorClient(config.TranslatorConfig{BaseURL: server.URL, BatchSize: 2})

	got, err := c.TranslateSentences(context.Background(), []string{"a", "b", "c"}, "zh")
	require.NoError(t, err)
	assert.Equal(t, []string{"译:a", "译:b", "译:c"}, got)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, batches)
}

func TestTranslatorClient_LengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"translations": {"only-one"}})
	}))
	defer server.Close()

	c := NewTranslatorClient(config.TranslatorConfig{BaseURL: server.URL, BatchSize: 10})

	_, err := c.TranslateSentences(context.Background(), []string{"a", "b"}, "zh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 1 translations for 2 texts")
}

func TestTranslatorClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewTranslatorClient(config.TranslatorConfig{BaseURL: server.URL})

	_, err := c.TranslateSentences(context.Background(), []string{"a"}, "zh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTranslatorClient_EmptyInput(t *testing.T) {
	c := NewTranslatorClient(config.TranslatorConfig{BaseURL: "http://127.0.0.1:1"})

	got, err := c.TranslateSentences(context.Background(), nil, "zh")
	require.NoError(t, err)
	assert.Empty(t, got)
}
