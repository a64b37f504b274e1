// Package openai provides a model.Model implementation backed by the OpenAI
// Chat Completions API. It adapts AdHive's normalized Request/Response shapes
// into the SDK's message format and converts reported usage into cost using
// rates fixed at construction time.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/getadhive/adhive/model"
)

// errNotConfigured marks a variant constructed without credentials. The
// variant stays valid; every Generate returns a failure Response.
var errNotConfigured = errors.New("openai api key not configured")

// defaultPricing returns per-1K rates for known chat models. Unknown models
// fall back to gpt-4o-mini rates; override via WithPricing when that is wrong.
func defaultPricing(m string) model.Pricing {
	switch m {
	case openai.ChatModelGPT4o:
		return model.Pricing{InputPer1K: 0.0025, OutputPer1K: 0.01}
	default:
		return model.Pricing{InputPer1K: 0.00015, OutputPer1K: 0.0006}
	}
}

// Options configures the OpenAI model adapter.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
	Pricing     *model.Pricing
}

// WithPricing overrides the model's default per-1K rates.
func WithPricing(p model.Pricing) func(o *Options) {
	return func(o *Options) { o.Pricing = &p }
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client  *openai.Client
	opts    Options
	pricing model.Pricing
}

// NewModel creates a new OpenAI model using the official client. A missing
// API key does not abort construction; the variant degrades to permanently
// failing so callers can keep a uniform code path.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Model{opts: opts, pricing: resolvePricing(opts)}
	if opts.APIKey != "" {
		client := openai.NewClient(option.WithAPIKey(opts.APIKey))
		m.client = &client
	}

	return m
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts, pricing: resolvePricing(opts)}
}

func resolvePricing(opts Options) model.Pricing {
	if opts.Pricing != nil {
		return *opts.Pricing
	}
	return defaultPricing(opts.Model)
}

// Generate implements model.Model. Faults (missing credentials, transport
// errors, empty choice list) are converted into failure Responses.
func (m *Model) Generate(ctx context.Context, req model.Request) model.Response {
	if m.client == nil {
		return model.Failure(m.Info(), errNotConfigured)
	}

	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               m.opts.Model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(maxTokens),
		Temperature:         openai.Float(m.opts.Temperature),
	})
	if err != nil {
		return model.Failure(m.Info(), fmt.Errorf("openai api error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return model.Failure(m.Info(), errors.New("openai api returned no choices"))
	}

	promptTokens := int(resp.Usage.PromptTokens)
	completionTokens := int(resp.Usage.CompletionTokens)

	return model.Response{
		Content:    resp.Choices[0].Message.Content,
		Provider:   "openai",
		Model:      m.opts.Model,
		TokensUsed: promptTokens + completionTokens,
		CostUSD:    m.pricing.Cost(promptTokens, completionTokens),
		Success:    true,
	}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai"}
}

// Pricing implements model.Pricer.
func (m *Model) Pricing() model.Pricing { return m.pricing }
