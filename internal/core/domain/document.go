package domain

import "time"

// Document represents raw text loaded from the corpus directory.
// Documents are discarded once they have been chunked.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Origin identifies where the text came from (the file name).
	Origin string

	// Content is the full text content before chunking.
	Content string

	// ModifiedAt is the last modification time of the origin file.
	ModifiedAt time.Time
}

// Chunk represents a contiguous span of one document's text,
// sized to a token budget.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Origin is copied from the parent Document.
	Origin string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Tokens is the measured token length of Content.
	Tokens int
}

// ScoredChunk is a single retrieval result.
type ScoredChunk struct {
	// ChunkID identifies the chunk the text was cut as.
	ChunkID string

	// Origin is the file name of the source document.
	Origin string

	// Text is the chunk text.
	Text string

	// Similarity is the dot product of the query and chunk vectors.
	Similarity float64

	// Position is the chunk's insertion order in the index.
	Position int
}
