package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedProvider indicates an unknown or incapable AI provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrAPIKeyRequired indicates a cloud provider was selected without a key.
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrLLMUnavailable indicates the generation service could not be reached
	// or refused the request. Questions degrade to a refusal.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service failed.
	// Index builds and question retrieval fail without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexBuildFailed indicates a rebuild did not publish a new index.
	ErrIndexBuildFailed = errors.New("index build failed")

	// Upload Errors.

	// ErrUnsupportedMedia indicates an upload that is not a PDF.
	ErrUnsupportedMedia = errors.New("only PDF files are supported")

	// ErrNoExtractableText indicates a PDF without any extractable text.
	ErrNoExtractableText = errors.New("could not extract text from PDF")
)
