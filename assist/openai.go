package assist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nox-hq/riskboard/core"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-4o"

var (
	// ErrNoAPIKey is returned by NewBriefingProvider when the configured API
	// key variable is empty and no custom endpoint is set.
	ErrNoAPIKey = errors.New("no API key configured for briefings")
	// ErrRefused is returned when the model declines to write a briefing.
	ErrRefused = errors.New("model refused the briefing request")
)

// OpenAIProvider asks an OpenAI-compatible chat endpoint for briefings. It
// requests a JSON object reply and caps completion tokens, so replies match
// the {summary, drivers, actions} shape Briefer parses.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	maxTokens int
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	model     string
	apiKey    string
	baseURL   string
	timeout   time.Duration
	maxTokens int
}

// WithModel sets the model name. An empty name keeps the default.
func WithModel(model string) OpenAIOption {
	return func(c *openaiConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKey sets the API key. If empty, the SDK falls back to OPENAI_API_KEY.
func WithAPIKey(key string) OpenAIOption {
	return func(c *openaiConfig) { c.apiKey = key }
}

// WithBaseURL points the provider at a local or self-hosted endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openaiConfig) { c.baseURL = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *openaiConfig) { c.timeout = d }
}

// WithMaxTokens caps completion tokens per briefing. Zero leaves the cap to
// the backend.
func WithMaxTokens(n int) OpenAIOption {
	return func(c *openaiConfig) { c.maxTokens = n }
}

// NewOpenAIProvider creates an OpenAIProvider with the given options.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	cfg := openaiConfig{model: DefaultModel}
	for _, o := range opts {
		o(&cfg)
	}

	var clientOpts []option.RequestOption
	if cfg.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.timeout))
	}

	return &OpenAIProvider{
		client:    openai.NewClient(clientOpts...),
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
	}
}

// NewBriefingProvider builds a provider from the brief section of
// .riskboard.yaml. The API key is read from the variable named by
// APIKeyEnv; it may be empty only when BaseURL points at a custom endpoint.
func NewBriefingProvider(s core.BriefSettings) (*OpenAIProvider, error) {
	key := os.Getenv(s.APIKeyEnv)
	if key == "" && s.BaseURL == "" {
		return nil, fmt.Errorf("%w: set %s or brief.base_url", ErrNoAPIKey, s.APIKeyEnv)
	}
	return NewOpenAIProvider(
		WithModel(s.Model),
		WithAPIKey(key),
		WithBaseURL(s.BaseURL),
		WithTimeout(s.RequestTimeout()),
		WithMaxTokens(s.MaxTokens),
	), nil
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Complete sends a chat completion request for a JSON object reply and
// returns the first choice. A refusal is returned as ErrRefused, and a reply
// cut off by the token cap is marked Truncated.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	completion, err := p.client.Chat.Completions.New(ctx, p.params(messages))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choice := completion.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: %s", ErrRefused, choice.Message.Refusal)
	}

	model := completion.Model
	if model == "" {
		model = p.model
	}
	return &Response{
		Content:          choice.Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		Model:            model,
		Truncated:        choice.FinishReason == "length",
	}, nil
}

func (p *OpenAIProvider) params(messages []Message) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: toOpenAIMessages(messages),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}
	if p.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.maxTokens))
	}
	return params
}

// toOpenAIMessages converts Message values to the SDK union type. Unknown
// roles are sent as user messages.
func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = openai.UserMessage(m.Content)
		}
	}
	return out
}
