package services

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

func envOf(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(nil, envOf(nil))

	got := svc.Get()

	assert.Equal(t, domain.DefaultAppSettings(), got)
}

func TestSettingsService_Get_ConfigFile(t *testing.T) {
	store := mapStore{
		"paths.data_dir":                 "corpus",
		"retrieval.top_k":                int64(3),
		"retrieval.similarity_threshold": 0.5,
		"retrieval.enforce_citations":    false,
		"chunking.target_tokens":         int64(200),
		"server.cors_origins":            []string{"http://ui.test"},
		"resilience.rate_limit":          int64(2),
		"llm.provider":                   "anthropic",
		"llm.api_key":                    "file-key",
	}
	svc := NewSettingsService(store, envOf(nil))

	got := svc.Get()

	assert.Equal(t, "corpus", got.Paths.DataDir)
	assert.Equal(t, 3, got.Retrieval.TopK)
	assert.InDelta(t, 0.5, got.Retrieval.SimilarityThreshold, 1e-9)
	assert.False(t, got.Retrieval.EnforceCitations)
	assert.Equal(t, 200, got.Chunking.TargetTokens)
	assert.Equal(t, []string{"http://ui.test"}, got.Server.CORSOrigins)
	assert.InDelta(t, 2.0, got.Resilience.RateLimit, 1e-9)
	assert.Equal(t, domain.AIProviderAnthropic, got.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", got.LLM.Model)
	assert.Equal(t, "file-key", got.LLM.APIKey)
}

func TestSettingsService_Get_EnvOverridesFile(t *testing.T) {
	store := mapStore{
		"retrieval.top_k":   int64(3),
		"paths.data_dir":    "corpus",
		"embedding.api_key": "file-key",
	}
	svc := NewSettingsService(store, envOf(map[string]string{
		"TOP_K":                "8",
		"DATA_DIR":             "/srv/data",
		"SIM_THRESHOLD":        "0.42",
		"ENFORCE_CITATIONS":    "0",
		"CHUNK_OVERLAP_TOKENS": "0",
		"OPENAI_API_KEY":       "sk-env",
		"CORS_ORIGINS":         "http://a.test, http://b.test,",
		"EMBEDDING_PROVIDER":   "Gemini",
		"GEMINI_API_KEY":       "g-key",
		"TOKENIZER":            "approx",
		"LLM_MODEL":            "gpt-4.1-mini",
	}))

	got := svc.Get()

	assert.Equal(t, 8, got.Retrieval.TopK)
	assert.Equal(t, "/srv/data", got.Paths.DataDir)
	assert.InDelta(t, 0.42, got.Retrieval.SimilarityThreshold, 1e-9)
	assert.False(t, got.Retrieval.EnforceCitations)
	assert.Equal(t, 0, got.Chunking.OverlapTokens)
	assert.Equal(t, domain.TokenizerApprox, got.Chunking.Tokenizer)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, got.Server.CORSOrigins)
	assert.Equal(t, domain.AIProviderGemini, got.Embedding.Provider)
	assert.Equal(t, "text-embedding-004", got.Embedding.Model)
	assert.Equal(t, "g-key", got.Embedding.APIKey)
	assert.Equal(t, "sk-env", got.LLM.APIKey)
	assert.Equal(t, "gpt-4.1-mini", got.LLM.Model)
}

func TestSettingsService_Get_InvalidValuesFallBack(t *testing.T) {
	buf := captureLog(t)
	svc := NewSettingsService(mapStore{"retrieval.top_k": "many"}, envOf(map[string]string{
		"CHUNK_TOKENS":         "zero",
		"SIM_THRESHOLD":        "high",
		"ENFORCE_CITATIONS":    "sometimes",
		"PDF_MAX_PAGES":        "-3",
		"LLM_PROVIDER":         "watson",
		"TOKENIZER":            "bpe",
		"LLM_RATE_LIMIT":       "-1",
		"LLM_BREAKER_FAILURES": "x",
	}))

	got := svc.Get()
	d := domain.DefaultAppSettings()

	assert.Equal(t, d.Retrieval.TopK, got.Retrieval.TopK)
	assert.Equal(t, d.Chunking.TargetTokens, got.Chunking.TargetTokens)
	assert.Equal(t, d.Retrieval.SimilarityThreshold, got.Retrieval.SimilarityThreshold)
	assert.True(t, got.Retrieval.EnforceCitations)
	assert.Equal(t, d.PDFMaxPages, got.PDFMaxPages)
	assert.Equal(t, d.LLM.Provider, got.LLM.Provider)
	assert.Equal(t, d.Chunking.Tokenizer, got.Chunking.Tokenizer)
	assert.Equal(t, 0.0, got.Resilience.RateLimit)
	assert.Equal(t, 5, got.Resilience.BreakerFailures)

	out := buf.String()
	assert.Contains(t, out, "[WARN] invalid CHUNK_TOKENS=\"zero\", using 160")
	assert.Contains(t, out, "[WARN] invalid retrieval.top_k=many in config file, using 5")
	assert.Contains(t, out, "unknown provider \"watson\"")
}

func TestSettingsService_Get_EmptyEnvIsUnset(t *testing.T) {
	svc := NewSettingsService(nil, envOf(map[string]string{"DATA_DIR": "", "TOP_K": " "}))

	got := svc.Get()

	assert.Equal(t, "data", got.Paths.DataDir)
	assert.Equal(t, 5, got.Retrieval.TopK)
}

func TestSettingsService_Get_OllamaNeedsNoKey(t *testing.T) {
	svc := NewSettingsService(nil, envOf(map[string]string{
		"EMBEDDING_PROVIDER": "ollama",
		"LLM_PROVIDER":       "ollama",
		"OPENAI_API_KEY":     "sk-ignored",
	}))

	got := svc.Get()

	assert.Equal(t, "nomic-embed-text", got.Embedding.Model)
	assert.Equal(t, "llama3.2", got.LLM.Model)
	assert.Empty(t, got.Embedding.APIKey)
	assert.NoError(t, svc.Validate(got))
}

func TestSettingsService_Get_FixedDurations(t *testing.T) {
	got := NewSettingsService(nil, envOf(nil)).Get()

	assert.Equal(t, 10*time.Second, got.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, got.Resilience.BreakerTimeout)
}

func TestSettingsService_Validate(t *testing.T) {
	svc := NewSettingsService(nil, envOf(nil))

	t.Run("missing embedding key", func(t *testing.T) {
		err := svc.Validate(domain.DefaultAppSettings())
		require.ErrorIs(t, err, domain.ErrAPIKeyRequired)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("anthropic cannot embed", func(t *testing.T) {
		s := domain.DefaultAppSettings()
		s.Embedding.Provider = domain.AIProviderAnthropic
		assert.ErrorIs(t, svc.Validate(s), domain.ErrUnsupportedProvider)
	})

	t.Run("missing llm key", func(t *testing.T) {
		s := domain.DefaultAppSettings()
		s.Embedding.APIKey = "sk"
		s.LLM.Provider = domain.AIProviderAnthropic
		err := svc.Validate(s)
		require.ErrorIs(t, err, domain.ErrAPIKeyRequired)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})

	t.Run("complete", func(t *testing.T) {
		s := domain.DefaultAppSettings()
		s.Embedding.APIKey = "sk"
		s.LLM.APIKey = "sk"
		assert.NoError(t, svc.Validate(s))
	})
}
