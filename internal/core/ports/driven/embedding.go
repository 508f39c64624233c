package driven

import "context"

// EmbeddingService generates vector embeddings for text.
// Each call reaches the provider once; there is no batching or caching.
type EmbeddingService interface {
	// Embed generates an embedding vector for the given text.
	// Provider errors are returned to the caller unchanged in meaning.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Close releases resources.
	Close() error
}
