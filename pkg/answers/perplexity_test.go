package answers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerplexityAsk(t *testing.T) {
	var captured chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"id": "resp-1",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": `{"recommendations":[]}`}},
			},
		})
	}))
	defer srv.Close()

	client := NewPerplexity("test-key",
		WithBaseURL(srv.URL),
		WithModel("sonar"),
		WithMaxTokens(512),
	)

	out, err := client.Ask(context.Background(), "answer as JSON", "best plumber in Austin, TX")
	require.NoError(t, err)
	assert.Equal(t, `{"recommendations":[]}`, out)

	assert.Equal(t, "sonar", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "answer as JSON", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	require.NotNil(t, captured.MaxTokens)
	assert.Equal(t, 512, *captured.MaxTokens)
}

func TestPerplexityAsk_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	client := NewPerplexity("test-key", WithBaseURL(srv.URL))
	_, err := client.Ask(context.Background(), "sys", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestPerplexityAsk_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"resp-1","choices":[]}`))
	}))
	defer srv.Close()

	client := NewPerplexity("test-key", WithBaseURL(srv.URL))
	_, err := client.Ask(context.Background(), "sys", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestPerplexityConfigured(t *testing.T) {
	assert.True(t, NewPerplexity("key").Configured())
	assert.False(t, NewPerplexity("").Configured())
	assert.Equal(t, ProviderPerplexity, NewPerplexity("key").Provider())
}
