package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/getadhive/adhive/budget"
	"github.com/getadhive/adhive/internal/util"
	"github.com/getadhive/adhive/logging"
	"github.com/getadhive/adhive/model"
)

// Schema describes the structured output a caller expects: a mapping of field
// name to type descriptor ("string", "number", a nested mapping, or
// ["string"] for arrays). It is embedded textually in the prompt; decoding is
// the only validation applied to the reply.
type Schema map[string]any

// SchemaFor derives a Schema from a Go struct's exported fields and json tags.
func SchemaFor(v any) Schema { return util.CreateSchema(v) }

// DecodeError reports a structured reply that could not be decoded. Raw
// preserves the unmodified model output for diagnosis; callers may retry with
// a stricter prompt but the engine never retries on its own.
type DecodeError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid structured response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Options configures an Engine.
type Options struct {
	// Tracker supplies the budget windows. Defaults to a tracker with stock
	// ceilings when nil.
	Tracker *budget.Tracker

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine composes the budget tracker and a provider gateway: it admits a
// request against the budget before contacting the provider and records
// actual usage after a successful call. Budget rejections come back as
// failure Responses without any provider traffic.
type Engine struct {
	model   model.Model
	tracker *budget.Tracker
	logger  logging.Logger

	// mu serializes admit/record pairs so concurrent callers cannot race the
	// tracker between check and record and overshoot a ceiling.
	mu sync.Mutex
}

// New constructs an Engine around a provider gateway.
func New(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tracker == nil {
		opts.Tracker = budget.NewTracker()
	}

	return &Engine{model: m, tracker: opts.Tracker, logger: opts.Logger}
}

// Tracker exposes the underlying budget tracker (for stats and tests).
func (e *Engine) Tracker() *budget.Tracker { return e.tracker }

// Generate issues one model call under the budget. The request's token
// ceiling defaults to the configured per-request maximum and must not exceed
// it. Admission uses the provider's blended rate when the gateway exposes
// one, so estimates and recorded cost price from the same source.
func (e *Engine) Generate(ctx context.Context, req model.Request) model.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	info := e.model.Info()
	cfg := e.tracker.Config()

	if req.MaxTokens <= 0 {
		req.MaxTokens = cfg.MaxTokensPerRequest
	}
	if req.MaxTokens > cfg.MaxTokensPerRequest {
		return model.Failure(info, fmt.Errorf("resource limit: request exceeds %d tokens per request", cfg.MaxTokensPerRequest))
	}

	rate := budget.DefaultEstimateRatePer1K
	if p, ok := e.model.(model.Pricer); ok {
		rate = p.Pricing().BlendedPer1K()
	}

	if allowed, reason := e.tracker.AdmitAtRate(req.MaxTokens, rate); !allowed {
		e.logger.Warn("request rejected by budget", "provider", info.Provider, "reason", reason)
		return model.Failure(info, fmt.Errorf("resource limit: %s", reason))
	}

	start := time.Now()
	resp := e.model.Generate(ctx, req)
	if resp.Success {
		e.tracker.Record(resp.TokensUsed, resp.CostUSD)
	}

	e.logger.Debug("model call finished",
		"provider", info.Provider,
		"model", info.Name,
		"tokens", resp.TokensUsed,
		"cost_usd", resp.CostUSD,
		"duration", time.Since(start),
		"success", resp.Success,
	)

	return resp
}

// GenerateStructured wraps Generate with a schema directive and decodes the
// textual reply into a map. It tolerates models that wrap structured output
// in prose or fenced code blocks: the first fenced block, if any, is
// extracted before decoding. Decode failures return a *DecodeError carrying
// the raw text; the function never panics.
func (e *Engine) GenerateStructured(ctx context.Context, req model.Request, schema Schema) (map[string]any, error) {
	directive, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	structuredReq := req
	structuredReq.Prompt = fmt.Sprintf("%s\n\nRespond with valid JSON matching this schema:\n%s\n\nJSON Response:", req.Prompt, directive)

	resp := e.Generate(ctx, structuredReq)
	if !resp.Success {
		return nil, fmt.Errorf("structured generation failed: %s", resp.Error)
	}

	content := strings.TrimSpace(resp.Content)
	if fenced, ok := extractFencedBlock(content); ok {
		content = fenced
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, &DecodeError{Raw: resp.Content, Err: err}
	}

	return result, nil
}

// extractFencedBlock returns the contents of the first ``` fenced code block
// in s, skipping an optional language tag on the opening fence. The second
// return value reports whether a fence was found. An unterminated fence
// yields everything after the opening line.
func extractFencedBlock(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open < 0 {
		return "", false
	}

	rest := s[open+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Opening fence line may carry a language tag ("```json").
		rest = rest[nl+1:]
	} else {
		return "", false
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}

	return strings.TrimSpace(rest), true
}

// Stats aggregates engine-level usage information.
type Stats struct {
	Provider string       `json:"provider"`
	Model    string       `json:"model"`
	Usage    budget.Stats `json:"usage"`
}

// Stats returns current provider identity and budget usage.
func (e *Engine) Stats() Stats {
	info := e.model.Info()
	return Stats{Provider: info.Provider, Model: info.Name, Usage: e.tracker.Stats()}
}
