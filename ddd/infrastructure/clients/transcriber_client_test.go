package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
)

func TestTranscriberClient_Transcribe(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/transcriptions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "stt-42"})
	}))
	defer server.Close()

	c := NewTranscriberClient(config.TranscriberConfig{BaseURL: server.URL, APIKey: "key-1"})

	jobID, err := c.Transcribe(context.Background(), "https://bucket.local/raw.mp4?signed", "en")
	require.NoError(t, err)
	assert.Equal(t, "stt-42", jobID)
	assert.Equal(t, "Bearer key-1", gotAuth)
	assert.Equal(t, "https://bucket.local/raw.mp4?signed", gotBody["media_url"])
	assert.Equal(t, "en", gotBody["language"])
}

func TestTranscriberClient_Transcribe_EmptyJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	c := NewTranscriberClient(config.TranscriberConfig{BaseURL: server.URL})

	_, err := c.Transcribe(context.Background(), "https://bucket.local/raw.mp4", "en")
	require.Error(t, err)
}

func TestTranscriberClient_GetSentences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transcriptions/stt-42/sentences", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "completed",
			"sentences": []map[string]interface{}{
				{"text": "hello", "start_ms": 0, "end_ms": 900},
				{"text": "world", "start_ms": 900, "end_ms": 1800},
			},
		})
	}))
	defer server.Close()

	c := NewTranscriberClient(config.TranscriberConfig{BaseURL: server.URL})

	sentences, err := c.GetSentences(context.Background(), "stt-42")
	require.NoError(t, err)
	assert.Equal(t, []vo.Sentence{
		{Text: "hello", StartMs: 0, EndMs: 900},
		{Text: "world", StartMs: 900, EndMs: 1800},
	}, sentences)
}

func TestTranscriberClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewTranscriberClient(config.TranscriberConfig{BaseURL: server.URL})

	_, err := c.Transcribe(context.Background(), "https://bucket.local/raw.mp4", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = c.GetSentences(context.Background(), "stt-42")
	require.Error(t, err)
}
