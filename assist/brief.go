package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nox-hq/riskboard/core/viewmodel"
)

// ErrNoDetail is returned when Brief is called without a detail page.
var ErrNoDetail = errors.New("briefing requires a risk profile detail page")

// Briefer asks a Provider for a risk briefing about one user.
type Briefer struct {
	provider Provider
	model    string
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Briefer.
type Option func(*Briefer)

// WithLogger sets the logger used for degraded replies.
func WithLogger(l *slog.Logger) Option {
	return func(b *Briefer) { b.logger = l }
}

// WithModelName records the model name on produced briefings when the
// provider does not report the model that served the request.
func WithModelName(name string) Option {
	return func(b *Briefer) { b.model = name }
}

// NewBriefer creates a Briefer with the given provider and options.
func NewBriefer(provider Provider, opts ...Option) *Briefer {
	b := &Briefer{
		provider: provider,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

type briefReply struct {
	Summary string   `json:"summary"`
	Drivers []string `json:"drivers"`
	Actions []string `json:"actions"`
}

// Brief sends the user's detail page to the provider and returns the
// briefing. A reply that is not the requested JSON object degrades to a
// briefing whose Summary is the raw text. Provider errors are returned.
func (b *Briefer) Brief(ctx context.Context, detail *viewmodel.RiskProfileDetail) (*Briefing, error) {
	if detail == nil {
		return nil, ErrNoDetail
	}

	out := &Briefing{
		SchemaVersion: "1.0.0",
		UserID:        detail.User.ID,
		UserName:      detail.User.Name,
		RiskScore:     detail.User.RiskScore,
		Level:         string(detail.Level),
		Drivers:       []string{},
		Actions:       []string{},
		Model:         b.model,
		GeneratedAt:   b.now().UTC(),
	}

	messages := []Message{
		{Role: RoleSystem, Content: systemPrompt()},
		{Role: RoleUser, Content: "Write a briefing for this user:\n\n" + formatDetail(detail)},
	}
	resp, err := b.provider.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("briefing %s: %w", detail.User.ID, err)
	}
	out.Usage.add(resp)
	if resp.Model != "" {
		out.Model = resp.Model
	}
	if resp.Truncated {
		out.Truncated = true
		b.logger.Warn("briefing reply hit the token cap", "user", detail.User.ID)
	}

	var reply briefReply
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &reply); err != nil || reply.Summary == "" {
		b.logger.Warn("briefing reply was not structured, keeping raw text", "user", detail.User.ID, "error", err)
		out.Summary = resp.Content
		out.Raw = true
		return out, nil
	}

	out.Summary = reply.Summary
	if reply.Drivers != nil {
		out.Drivers = reply.Drivers
	}
	if reply.Actions != nil {
		out.Actions = reply.Actions
	}
	return out, nil
}
