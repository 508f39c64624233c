package domain

import "time"

// AuditEvent is one immutable record per answered question.
// PromptHash and Usage are absent when no prompt was built.
type AuditEvent struct {
	ID         string    `json:"id,omitempty"`
	Timestamp  time.Time `json:"ts"`
	Question   string    `json:"question"`
	MaxSim     float64   `json:"max_sim"`
	Decision   Decision  `json:"decision"`
	TopK       []Source  `json:"topk"`
	PromptHash string    `json:"prompt_hash,omitempty"`
	Usage      *Usage    `json:"usage,omitempty"`
	LatencyMS  float64   `json:"latency_ms"`
}
