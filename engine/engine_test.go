package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getadhive/adhive/budget"
	"github.com/getadhive/adhive/internal/testutil"
	"github.com/getadhive/adhive/model"
)

func newTestEngine(m model.Model, cfg budget.Config) *Engine {
	return New(m, func(o *Options) {
		o.Tracker = budget.NewTracker(func(bo *budget.Options) { bo.Config = cfg })
	})
}

func TestGenerateRecordsUsage(t *testing.T) {
	m := testutil.NewScriptedModel("fine")
	eng := newTestEngine(m, budget.Config{})

	resp := eng.Generate(context.Background(), model.Request{Prompt: "hi"})

	require.True(t, resp.Success)
	stats := eng.Tracker().Stats()
	assert.Equal(t, 1, stats.TotalRequests)
	assert.Equal(t, resp.TokensUsed, stats.TotalTokens)
	assert.InDelta(t, resp.CostUSD, stats.TotalCost, 1e-9)
}

func TestGenerateBudgetRejectionSkipsProvider(t *testing.T) {
	m := testutil.NewScriptedModel("fine")
	eng := newTestEngine(m, budget.Config{MaxRequestsPerMinute: 1})

	first := eng.Generate(context.Background(), model.Request{Prompt: "one"})
	require.True(t, first.Success)

	second := eng.Generate(context.Background(), model.Request{Prompt: "two"})

	require.False(t, second.Success)
	assert.Contains(t, second.Error, "resource limit")
	assert.Contains(t, second.Error, "rate limit")

	// The rejected request never reached the provider.
	assert.Equal(t, 1, m.Calls())
}

func TestGenerateFailureNotRecorded(t *testing.T) {
	m := testutil.NewScriptedModel("unused")
	m.FailWith(errors.New("connection refused"))
	eng := newTestEngine(m, budget.Config{})

	resp := eng.Generate(context.Background(), model.Request{Prompt: "hi"})

	require.False(t, resp.Success)
	assert.Zero(t, eng.Tracker().Stats().TotalRequests)
}

func TestGeneratePerRequestTokenCeiling(t *testing.T) {
	m := testutil.NewScriptedModel("fine")
	eng := newTestEngine(m, budget.Config{MaxTokensPerRequest: 100})

	resp := eng.Generate(context.Background(), model.Request{Prompt: "hi", MaxTokens: 101})

	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "100 tokens per request")
	assert.Zero(t, m.Calls())
}

func TestGenerateStructuredPlainJSON(t *testing.T) {
	m := testutil.NewScriptedModel(`{"segment": "researcher", "confidence": 0.9}`)
	eng := newTestEngine(m, budget.Config{})

	result, err := eng.GenerateStructured(context.Background(),
		model.Request{Prompt: "classify"},
		Schema{"segment": "string", "confidence": "number"},
	)

	require.NoError(t, err)
	assert.Equal(t, "researcher", result["segment"])
	assert.Equal(t, 0.9, result["confidence"])
}

func TestGenerateStructuredExtractsFencedBlock(t *testing.T) {
	reply := "Sure! Here is the classification you asked for:\n\n" +
		"```json\n{\"segment\": \"impulse_buyer\"}\n```\n\nLet me know if you need more."
	m := testutil.NewScriptedModel(reply)
	eng := newTestEngine(m, budget.Config{})

	result, err := eng.GenerateStructured(context.Background(),
		model.Request{Prompt: "classify"},
		Schema{"segment": "string"},
	)

	require.NoError(t, err)
	assert.Equal(t, "impulse_buyer", result["segment"])
}

func TestGenerateStructuredBareFence(t *testing.T) {
	m := testutil.NewScriptedModel("```\n{\"ok\": true}\n```")
	eng := newTestEngine(m, budget.Config{})

	result, err := eng.GenerateStructured(context.Background(),
		model.Request{Prompt: "p"}, Schema{"ok": "boolean"})

	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
}

func TestGenerateStructuredDecodeFailureKeepsRaw(t *testing.T) {
	raw := "I'm sorry, I can't produce JSON today."
	m := testutil.NewScriptedModel(raw)
	eng := newTestEngine(m, budget.Config{})

	_, err := eng.GenerateStructured(context.Background(),
		model.Request{Prompt: "p"}, Schema{"x": "string"})

	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, raw, decodeErr.Raw)
}

func TestGenerateStructuredPropagatesBudgetRejection(t *testing.T) {
	m := testutil.NewScriptedModel(`{"x": "y"}`)
	eng := newTestEngine(m, budget.Config{MaxTokensPerHour: 1})

	_, err := eng.GenerateStructured(context.Background(),
		model.Request{Prompt: "p"}, Schema{"x": "string"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token limit reached")
	assert.Zero(t, m.Calls())
}

func TestExtractFencedBlock(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"no fence", `{"a":1}`, "", false},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", "text\n```json\n{\"a\":1}\n```\nmore", `{"a":1}`, true},
		{"unterminated", "```json\n{\"a\":1}", `{"a":1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractFencedBlock(tt.in)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSchemaFor(t *testing.T) {
	type nested struct {
		Daily float64 `json:"daily"`
	}
	type sample struct {
		Name    string   `json:"name"`
		Score   float64  `json:"score"`
		Tags    []string `json:"tags"`
		Budget  nested   `json:"budget"`
		ignored int
		Skipped string `json:"-"`
	}

	schema := SchemaFor(sample{})

	assert.Equal(t, "string", schema["name"])
	assert.Equal(t, "number", schema["score"])
	assert.Equal(t, []any{"string"}, schema["tags"])
	assert.Equal(t, map[string]any{"daily": "number"}, schema["budget"])
	assert.NotContains(t, schema, "ignored")
	assert.NotContains(t, schema, "Skipped")
}

func TestStats(t *testing.T) {
	m := testutil.NewScriptedModel("ok")
	eng := newTestEngine(m, budget.Config{})

	eng.Generate(context.Background(), model.Request{Prompt: "hi"})

	stats := eng.Stats()
	assert.Equal(t, "scripted", stats.Provider)
	assert.Equal(t, "scripted-1", stats.Model)
	assert.Equal(t, 1, stats.Usage.TotalRequests)
}
