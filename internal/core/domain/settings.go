package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API. Generation only.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// SupportsEmbedding returns true if this provider can produce embeddings.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// TokenizerMode selects how chunk token lengths are measured.
type TokenizerMode string

// Available tokenizer modes.
const (
	// TokenizerAuto uses the exact tokenizer when it loads, else the approximation.
	TokenizerAuto TokenizerMode = "auto"

	// TokenizerExact requires the exact subword tokenizer.
	TokenizerExact TokenizerMode = "tiktoken"

	// TokenizerApprox always uses the word-count approximation.
	TokenizerApprox TokenizerMode = "approx"
)

// IsValid returns true if the tokenizer mode is recognised.
func (m TokenizerMode) IsValid() bool {
	switch m {
	case TokenizerAuto, TokenizerExact, TokenizerApprox:
		return true
	default:
		return false
	}
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// TargetTokens is the per-chunk token budget.
	TargetTokens int

	// OverlapTokens is the tail carried into the next chunk.
	OverlapTokens int

	// Tokenizer selects the token counter.
	Tokenizer TokenizerMode
}

// RetrievalSettings holds question answering configuration.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int

	// SimilarityThreshold is the minimum best similarity required to call the LLM.
	SimilarityThreshold float64

	// EnforceCitations refuses generated answers without a citation tag.
	EnforceCitations bool
}

// PathSettings holds filesystem locations.
type PathSettings struct {
	// DataDir holds the *.txt corpus.
	DataDir string

	// LogDir holds events.jsonl.
	LogDir string

	// AuditDB is an optional SQLite audit mirror. Empty disables it.
	AuditDB string
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// ResilienceSettings holds generation call protection.
type ResilienceSettings struct {
	// RateLimit is the allowed generation requests per second. Zero disables it.
	RateLimit float64

	// BreakerFailures is the consecutive failure count that opens the breaker.
	// Zero disables the breaker.
	BreakerFailures int

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Chunking   ChunkingSettings
	Retrieval  RetrievalSettings
	Paths      PathSettings
	Server     ServerSettings
	Resilience ResilienceSettings

	// PDFMaxPages caps the pages read from an uploaded PDF.
	PDFMaxPages int
}

// DefaultAppSettings returns settings with sensible defaults.
// Cloud API keys are left empty.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Chunking: ChunkingSettings{
			TargetTokens:  160,
			OverlapTokens: 32,
			Tokenizer:     TokenizerAuto,
		},
		Retrieval: RetrievalSettings{
			TopK:                5,
			SimilarityThreshold: 0.35,
			EnforceCitations:    true,
		},
		Paths: PathSettings{
			DataDir: "data",
			LogDir:  "logs",
		},
		Server: ServerSettings{
			Addr:            ":8000",
			CORSOrigins:     []string{"http://127.0.0.1:5500", "http://localhost:5500"},
			ShutdownTimeout: 10 * time.Second,
		},
		Resilience: ResilienceSettings{
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		PDFMaxPages: 50,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns a chunker-only pipeline sized by the chunking settings.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"target_tokens":  c.TargetTokens,
				"overlap_tokens": c.OverlapTokens,
			},
		},
	}
}
