package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
)

// DefaultEncoding is the BPE vocabulary shared by the OpenAI embedding and chat models.
const DefaultEncoding = "cl100k_base"

// Ensure Tiktoken implements the interface.
var _ driven.TokenCounter = (*Tiktoken)(nil)

// Tiktoken counts tokens exactly with a BPE vocabulary.
type Tiktoken struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// NewTiktoken loads the named encoding. Loading may fetch the vocabulary
// over the network on first use.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Tiktoken{enc: enc, encoding: encoding}, nil
}

// Name returns the counter name.
func (t *Tiktoken) Name() string {
	return "tiktoken:" + t.encoding
}

// Count returns the number of token ids in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// TailOf decodes the last n token ids of text.
func (t *Tiktoken) TailOf(text string, n int) string {
	if n <= 0 {
		return ""
	}
	ids := t.enc.Encode(text, nil, nil)
	if n >= len(ids) {
		return text
	}
	return t.enc.Decode(ids[len(ids)-n:])
}
