package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "```json\n{\"changes\":[]}\n```"},
				}}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "flash-v2", "classify these")
	require.NoError(t, err)

	assert.Equal(t, `{"changes":[]}`, text, "fencing should be stripped")
	assert.Equal(t, "/v1/models/flash-v2:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "classify these", gotBody.Contents[0].Parts[0].Text)
}

func TestClient_GenerateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "quota exhausted"},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "flash-v2", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestClient_GenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "flash-v2", "prompt")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_GenerateTimeoutDuringBodyRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Send the headers and part of the body, then stall until the
		// client's deadline expires.
		w.Header().Set("Content-Length", "1024")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":`))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "flash-v2", "prompt")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_GenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "flash-v2", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}
