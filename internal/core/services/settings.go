package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// settingKey pairs a config file key with its environment variable.
type settingKey struct {
	file string
	env  string
}

// Setting keys. Environment variables take precedence over the config file.
//
//nolint:gosec // G101: These are key names, not actual credentials.
var (
	keyDataDir          = settingKey{"paths.data_dir", "DATA_DIR"}
	keyLogDir           = settingKey{"paths.log_dir", "LOG_DIR"}
	keyAuditDB          = settingKey{"paths.audit_db", "AUDIT_DB"}
	keyTopK             = settingKey{"retrieval.top_k", "TOP_K"}
	keySimThreshold     = settingKey{"retrieval.similarity_threshold", "SIM_THRESHOLD"}
	keyEnforceCitations = settingKey{"retrieval.enforce_citations", "ENFORCE_CITATIONS"}
	keyChunkTokens      = settingKey{"chunking.target_tokens", "CHUNK_TOKENS"}
	keyOverlapTokens    = settingKey{"chunking.overlap_tokens", "CHUNK_OVERLAP_TOKENS"}
	keyTokenizer        = settingKey{"chunking.tokenizer", "TOKENIZER"}
	keyEmbedProvider    = settingKey{"embedding.provider", "EMBEDDING_PROVIDER"}
	keyEmbedModel       = settingKey{"embedding.model", "EMBEDDING_MODEL"}
	keyEmbedBaseURL     = settingKey{"embedding.base_url", "EMBEDDING_BASE_URL"}
	keyLLMProvider      = settingKey{"llm.provider", "LLM_PROVIDER"}
	keyLLMModel         = settingKey{"llm.model", "LLM_MODEL"}
	keyLLMBaseURL       = settingKey{"llm.base_url", "LLM_BASE_URL"}
	keyServerAddr       = settingKey{"server.addr", "HTTP_ADDR"}
	keyCORSOrigins      = settingKey{"server.cors_origins", "CORS_ORIGINS"}
	keyPDFMaxPages      = settingKey{"pdf.max_pages", "PDF_MAX_PAGES"}
	keyRateLimit        = settingKey{"resilience.rate_limit", "LLM_RATE_LIMIT"}
	keyBreakerFailures  = settingKey{"resilience.breaker_failures", "LLM_BREAKER_FAILURES"}
)

// apiKeyEnv maps each cloud provider to the environment variable holding its key.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GEMINI_API_KEY",
}

// EnvLookup reads an environment variable.
type EnvLookup func(key string) (string, bool)

// SettingsService resolves application settings from defaults,
// the optional config file and the environment.
type SettingsService struct {
	store driven.ConfigStore
	env   EnvLookup
}

// NewSettingsService creates a new settings service.
// A nil store means no config file; a nil env reads the process environment.
func NewSettingsService(store driven.ConfigStore, env EnvLookup) *SettingsService {
	if env == nil {
		env = os.LookupEnv
	}
	return &SettingsService{store: store, env: env}
}

// Get resolves the current application settings.
// Invalid values are reported as warnings and replaced by defaults.
func (s *SettingsService) Get() domain.AppSettings {
	d := domain.DefaultAppSettings()

	settings := domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			TargetTokens:  s.getInt(keyChunkTokens, d.Chunking.TargetTokens, 1),
			OverlapTokens: s.getInt(keyOverlapTokens, d.Chunking.OverlapTokens, 0),
			Tokenizer:     s.getTokenizer(d.Chunking.Tokenizer),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:                s.getInt(keyTopK, d.Retrieval.TopK, 0),
			SimilarityThreshold: s.getFloat(keySimThreshold, d.Retrieval.SimilarityThreshold, -1),
			EnforceCitations:    s.getBool(keyEnforceCitations, d.Retrieval.EnforceCitations),
		},
		Paths: domain.PathSettings{
			DataDir: s.getString(keyDataDir, d.Paths.DataDir),
			LogDir:  s.getString(keyLogDir, d.Paths.LogDir),
			AuditDB: s.getString(keyAuditDB, d.Paths.AuditDB),
		},
		Server: domain.ServerSettings{
			Addr:            s.getString(keyServerAddr, d.Server.Addr),
			CORSOrigins:     s.getList(keyCORSOrigins, d.Server.CORSOrigins),
			ShutdownTimeout: d.Server.ShutdownTimeout,
		},
		Resilience: domain.ResilienceSettings{
			RateLimit:       s.getFloat(keyRateLimit, d.Resilience.RateLimit, 0),
			BreakerFailures: s.getInt(keyBreakerFailures, d.Resilience.BreakerFailures, 0),
			BreakerTimeout:  d.Resilience.BreakerTimeout,
		},
		PDFMaxPages: s.getInt(keyPDFMaxPages, d.PDFMaxPages, 1),
	}

	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)
	settings.Embedding = domain.EmbeddingSettings{
		Provider: embedProvider,
		Model:    s.getString(keyEmbedModel, modelFor(domain.DefaultEmbeddingModels(), embedProvider, d.Embedding.Model)),
		BaseURL:  s.getString(keyEmbedBaseURL, ""),
		APIKey:   s.apiKey("embedding.api_key", embedProvider),
	}

	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)
	settings.LLM = domain.LLMSettings{
		Provider: llmProvider,
		Model:    s.getString(keyLLMModel, modelFor(domain.DefaultLLMModels(), llmProvider, d.LLM.Model)),
		BaseURL:  s.getString(keyLLMBaseURL, ""),
		APIKey:   s.apiKey("llm.api_key", llmProvider),
	}

	return settings
}

// Validate reports the first setting that prevents the copilot from answering.
func (s *SettingsService) Validate(settings domain.AppSettings) error {
	if !settings.Embedding.IsConfigured() {
		if !settings.Embedding.Provider.SupportsEmbedding() {
			return fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedProvider, settings.Embedding.Provider)
		}
		return fmt.Errorf("%w: set %s for %s embeddings",
			domain.ErrAPIKeyRequired, apiKeyEnv[settings.Embedding.Provider], settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		if !settings.LLM.Provider.IsValid() {
			return fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedProvider, settings.LLM.Provider)
		}
		return fmt.Errorf("%w: set %s for %s generation",
			domain.ErrAPIKeyRequired, apiKeyEnv[settings.LLM.Provider], settings.LLM.Provider)
	}
	if settings.Chunking.OverlapTokens >= settings.Chunking.TargetTokens {
		logger.Warn("chunk overlap %d is not below target %d; it will be reduced",
			settings.Chunking.OverlapTokens, settings.Chunking.TargetTokens)
	}
	return nil
}

// Helper methods for reading settings with defaults.

// lookup returns the raw environment value, treating empty as unset.
func (s *SettingsService) lookup(key settingKey) (string, bool) {
	val, ok := s.env(key.env)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func (s *SettingsService) fileValue(key settingKey) (any, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(key.file)
}

func (s *SettingsService) getString(key settingKey, defaultVal string) string {
	if val, ok := s.lookup(key); ok {
		return val
	}
	if s.store != nil {
		if val := s.store.GetString(key.file); val != "" {
			return val
		}
	}
	return defaultVal
}

func (s *SettingsService) getInt(key settingKey, defaultVal, minVal int) int {
	result := defaultVal

	if raw, ok := s.fileValue(key); ok {
		if n, isInt := asInt(raw); isInt && n >= minVal {
			result = n
		} else {
			logger.Warn("invalid %s=%v in config file, using %d", key.file, raw, result)
		}
	}

	if raw, ok := s.lookup(key); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minVal {
			logger.Warn("invalid %s=%q, using %d", key.env, raw, result)
			return result
		}
		result = n
	}
	return result
}

func (s *SettingsService) getFloat(key settingKey, defaultVal, minVal float64) float64 {
	result := defaultVal

	if raw, ok := s.fileValue(key); ok {
		if f, isNum := asFloat(raw); isNum && f >= minVal {
			result = f
		} else {
			logger.Warn("invalid %s=%v in config file, using %g", key.file, raw, result)
		}
	}

	if raw, ok := s.lookup(key); ok {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < minVal {
			logger.Warn("invalid %s=%q, using %g", key.env, raw, result)
			return result
		}
		result = f
	}
	return result
}

func (s *SettingsService) getBool(key settingKey, defaultVal bool) bool {
	result := defaultVal

	if raw, ok := s.fileValue(key); ok {
		if b, isBool := raw.(bool); isBool {
			result = b
		} else {
			logger.Warn("invalid %s=%v in config file, using %t", key.file, raw, result)
		}
	}

	if raw, ok := s.lookup(key); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("invalid %s=%q, using %t", key.env, raw, result)
			return result
		}
		result = b
	}
	return result
}

func (s *SettingsService) getList(key settingKey, defaultVal []string) []string {
	if raw, ok := s.lookup(key); ok {
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if s.store != nil {
		if items := s.store.GetStringSlice(key.file); len(items) > 0 {
			return items
		}
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key settingKey, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.getString(key, string(defaultVal))
	provider := domain.AIProvider(strings.ToLower(val))
	if !provider.IsValid() {
		logger.Warn("unknown provider %q for %s, using %s", val, key.env, defaultVal)
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getTokenizer(defaultVal domain.TokenizerMode) domain.TokenizerMode {
	val := s.getString(keyTokenizer, string(defaultVal))
	mode := domain.TokenizerMode(strings.ToLower(val))
	if !mode.IsValid() {
		logger.Warn("unknown tokenizer %q, using %s", val, defaultVal)
		return defaultVal
	}
	return mode
}

// apiKey reads the provider's key from the environment, then the config file.
func (s *SettingsService) apiKey(fileKey string, provider domain.AIProvider) string {
	envKey, ok := apiKeyEnv[provider]
	if !ok {
		return ""
	}
	return s.getString(settingKey{file: fileKey, env: envKey}, "")
}

func modelFor(models map[domain.AIProvider]string, provider domain.AIProvider, fallback string) string {
	if model, ok := models[provider]; ok {
		return model
	}
	return fallback
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
