package assist

import (
	"context"
	"errors"
	"testing"
)

// MockProvider is a configurable test double for the Provider interface.
type MockProvider struct {
	Responses []Response
	Err       error
	Calls     [][]Message
	callIdx   int
}

func (m *MockProvider) Complete(_ context.Context, messages []Message) (*Response, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.callIdx >= len(m.Responses) {
		return nil, errors.New("mock: no more responses configured")
	}
	resp := m.Responses[m.callIdx]
	m.callIdx++
	return &resp, nil
}

func TestProviderFunc(t *testing.T) {
	var seen int
	var p Provider = ProviderFunc(func(_ context.Context, msgs []Message) (*Response, error) {
		seen = len(msgs)
		return &Response{Content: "ok", PromptTokens: 3}, nil
	})

	resp, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" || seen != 1 {
		t.Fatalf("got %q after %d messages", resp.Content, seen)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := &MockProvider{Responses: []Response{{Content: "one"}}}
	if _, err := mock.Complete(context.Background(), nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := mock.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error once responses are exhausted")
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", len(mock.Calls))
	}
}
