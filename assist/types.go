// Package assist writes optional LLM-based risk briefings for a single user.
// It consumes the user's risk-profile detail page and produces a short
// summary of what drives the user's score and what to do about it.
//
// The package never feeds back into the dashboard: briefings are read-only
// and opt-in.
package assist

import (
	"encoding/json"
	"os"
	"time"
)

// Briefing is the output of one briefing request.
type Briefing struct {
	SchemaVersion string     `json:"schema_version"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name"`
	RiskScore     int        `json:"risk_score"`
	Level         string     `json:"level"`
	Summary       string     `json:"summary"`
	Drivers       []string   `json:"drivers"`
	Actions       []string   `json:"actions"`
	Model         string     `json:"model,omitempty"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Usage         UsageStats `json:"usage"`
	// Raw is true when the reply was not the requested JSON object and
	// Summary holds the unparsed text.
	Raw bool `json:"raw,omitempty"`
	// Truncated is true when the reply hit the completion token cap.
	Truncated bool `json:"truncated,omitempty"`
}

// UsageStats tracks LLM token consumption across all provider calls.
type UsageStats struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	RequestCount     int `json:"request_count"`
}

func (u *UsageStats) add(r *Response) {
	u.PromptTokens += r.PromptTokens
	u.CompletionTokens += r.CompletionTokens
	u.TotalTokens += r.PromptTokens + r.CompletionTokens
	u.RequestCount++
}

// JSON returns the briefing as pretty-printed JSON bytes.
func (b *Briefing) JSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// WriteFile writes the briefing as JSON to the given path.
func (b *Briefing) WriteFile(path string) error {
	data, err := b.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
