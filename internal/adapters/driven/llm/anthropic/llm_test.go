package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})

	assert.ErrorIs(t, err, domain.ErrAPIKeyRequired)
}

func TestGenerate_Success(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-latest",
			"content":[{"type":"text","text":"Quarterly. [Source 1]"}],"stop_reason":"end_turn",
			"usage":{"input_tokens":50,"output_tokens":7}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL, DisableRetries: true})
	require.NoError(t, err)

	gen, err := svc.Generate(context.Background(), "Question: how often?")

	require.NoError(t, err)
	assert.Equal(t, "Quarterly. [Source 1]", gen.Text)
	assert.Equal(t, domain.Usage{Model: DefaultModel, PromptTokens: 50, CompletionTokens: 7, TotalTokens: 57}, gen.Usage)
	assert.Equal(t, float64(0), raw["temperature"])
	assert.Contains(t, raw, "system")
}

func TestGenerate_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL, DisableRetries: true})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
