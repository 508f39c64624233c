package driven

import "context"

// PDFExtractor converts PDF bytes to plain text.
type PDFExtractor interface {
	// Extract returns the concatenated page text, blank pages dropped.
	Extract(ctx context.Context, data []byte) (string, error)
}
