// Package anthropic provides a model.Model implementation backed by the
// Anthropic Messages API, with pricing fixed at construction time.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/getadhive/adhive/model"
)

// errNotConfigured marks a variant constructed without credentials. The
// variant stays valid; every Generate returns a failure Response.
var errNotConfigured = errors.New("anthropic api key not configured")

// defaultPricing returns per-1K rates for known models. Unknown models fall
// back to Claude 3.5 Sonnet rates; override via WithPricing when that is wrong.
func defaultPricing(m string) model.Pricing {
	switch anthropic.Model(m) {
	case anthropic.ModelClaude3_5Haiku20241022:
		return model.Pricing{InputPer1K: 0.0008, OutputPer1K: 0.004}
	default:
		return model.Pricing{InputPer1K: 0.003, OutputPer1K: 0.015}
	}
}

// Options configures the Anthropic model adapter.
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

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client  *anthropic.Client
	opts    Options
	pricing model.Pricing
}

// NewModel creates a new Anthropic model using the official client. A missing
// API key does not abort construction; the variant degrades to permanently
// failing so callers can keep a uniform code path.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Model{opts: opts, pricing: resolvePricing(opts)}
	if opts.APIKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(opts.APIKey))
		m.client = &client
	}

	return m
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
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
// errors, empty content) are converted into failure Responses.
func (m *Model) Generate(ctx context.Context, req model.Request) model.Response {
	if m.client == nil {
		return model.Failure(m.Info(), errNotConfigured)
	}

	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(m.opts.Model),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return model.Failure(m.Info(), fmt.Errorf("anthropic api error: %w", err))
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.AsText().Text
		}
	}
	if content == "" {
		return model.Failure(m.Info(), errors.New("anthropic api returned no text content"))
	}

	promptTokens := int(resp.Usage.InputTokens)
	completionTokens := int(resp.Usage.OutputTokens)

	return model.Response{
		Content:    content,
		Provider:   "anthropic",
		Model:      m.opts.Model,
		TokensUsed: promptTokens + completionTokens,
		CostUSD:    m.pricing.Cost(promptTokens, completionTokens),
		Success:    true,
	}
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "anthropic"}
}

// Pricing implements model.Pricer.
func (m *Model) Pricing() model.Pricing { return m.pricing }
