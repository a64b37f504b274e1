package model

import (
	"context"
	"fmt"
)

// Request captures one outbound generation call. It lives only for the
// duration of the call and is never persisted.
type Request struct {
	Prompt    string `json:"prompt"`
	System    string `json:"system,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"` // token ceiling for the completion
}

// Usage captures token consumption reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the normalized result of a Request. Exactly one of
// (Success=true, Content populated) or (Success=false, Error populated)
// holds; providers must never return both or neither.
type Response struct {
	Content    string  `json:"content"`
	Provider   string  `json:"provider"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokens_used"`
	CostUSD    float64 `json:"cost_usd"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
}

// Pricing holds the per-1000-token rates for a provider+model pair, fixed at
// construction time.
type Pricing struct {
	InputPer1K  float64 `json:"input_per_1k"`
	OutputPer1K float64 `json:"output_per_1k"`
}

// Cost converts reported usage into currency units.
func (p Pricing) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000*p.InputPer1K + float64(completionTokens)/1000*p.OutputPer1K
}

// BlendedPer1K is a single-rate approximation used for cost estimates before
// the prompt/completion split is known.
func (p Pricing) BlendedPer1K() float64 {
	return (p.InputPer1K + p.OutputPer1K) / 2
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the uniform interface over providers. Generate converts every
// fault (network error, missing credentials, malformed reply) into a failure
// Response; it never panics past this boundary. Adding a provider means
// implementing this interface, call sites stay untouched.
type Model interface {
	Generate(ctx context.Context, req Request) Response

	// Info returns information about the model implementation.
	Info() Info
}

// Pricer is implemented by providers that expose their configured rates.
// Callers may use it to price cost estimates with the real provider rate
// instead of a rough default.
type Pricer interface {
	Pricing() Pricing
}

// Failure builds the canonical failure Response for a provider.
func Failure(info Info, err error) Response {
	return Response{
		Provider: info.Provider,
		Model:    info.Name,
		Success:  false,
		Error:    err.Error(),
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It returns canned completions keyed by prompt, with synthetic usage priced
// through a configurable Pricing.
type MockModel struct {
	info      Info
	pricing   Pricing
	responses map[string]string
	failErr   error
}

// NewMockModel constructs a MockModel with nominal pricing.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		pricing:   Pricing{InputPer1K: 0.001, OutputPer1K: 0.002},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Generate return a failure Response.
func (m *MockModel) FailWith(err error) { m.failErr = err }

// SetPricing overrides the synthetic pricing.
func (m *MockModel) SetPricing(p Pricing) { m.pricing = p }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) Response {
	if err := ctx.Err(); err != nil {
		return Failure(m.info, err)
	}
	if m.failErr != nil {
		return Failure(m.info, m.failErr)
	}

	content := m.responses[req.Prompt]
	if content == "" {
		content = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}

	// Synthetic usage: roughly four characters per token.
	promptTokens := len(req.Prompt)/4 + 1
	completionTokens := len(content)/4 + 1

	return Response{
		Content:    content,
		Provider:   m.info.Provider,
		Model:      m.info.Name,
		TokensUsed: promptTokens + completionTokens,
		CostUSD:    m.pricing.Cost(promptTokens, completionTokens),
		Success:    true,
	}
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Pricing implements Pricer.
func (m *MockModel) Pricing() Pricing { return m.pricing }
