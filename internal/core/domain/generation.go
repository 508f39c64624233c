package domain

// SystemInstruction is sent with every generation request.
const SystemInstruction = "You are a cautious GRM assistant. Use ONLY the provided Context.\n" +
	"Cite using the exact numbered tags from the Context, e.g., [Source 1], [Source 2].\n" +
	"Never write [Source i]. If the Context is insufficient, answer: 'Insufficient context to answer.'"

// Usage records token accounting for one generation call.
// Counts default to zero when the provider omits them.
type Usage struct {
	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`

	// Error is set instead of the counts when the call failed.
	Error string `json:"error,omitempty"`
}

// Generation is the result of a single generation call.
type Generation struct {
	// Text is the answer with surrounding whitespace removed.
	Text string

	// Usage is the provider's token accounting.
	Usage Usage
}
