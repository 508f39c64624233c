package driven

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	// Count returns the token length of text.
	Count(text string) int

	// TailOf returns roughly the last n tokens of text.
	TailOf(text string, n int) string

	// Name identifies the counter for logging.
	Name() string
}
