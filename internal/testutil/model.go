// Package testutil provides in-memory helpers shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/getadhive/adhive/model"
)

// ScriptedModel is a model.Model that replays a fixed sequence of contents,
// one per Generate call, regardless of prompt. Once the script is exhausted
// it repeats the final entry. Useful for multi-step flows where prompts are
// dynamic and exact-prompt matching is impractical.
type ScriptedModel struct {
	mu      sync.Mutex
	script  []string
	next    int
	calls   int
	failErr error
	pricing model.Pricing
}

// NewScriptedModel builds a ScriptedModel from the given replies.
func NewScriptedModel(script ...string) *ScriptedModel {
	return &ScriptedModel{
		script:  script,
		pricing: model.Pricing{InputPer1K: 0.001, OutputPer1K: 0.002},
	}
}

// FailWith makes every subsequent Generate return a failure Response.
func (m *ScriptedModel) FailWith(err error) { m.failErr = err }

// Calls reports how many times Generate has been invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements model.Model.
func (m *ScriptedModel) Generate(_ context.Context, req model.Request) model.Response {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if m.failErr != nil {
		return model.Failure(m.Info(), m.failErr)
	}

	content := ""
	if len(m.script) > 0 {
		if m.next >= len(m.script) {
			content = m.script[len(m.script)-1]
		} else {
			content = m.script[m.next]
			m.next++
		}
	}

	promptTokens := len(req.Prompt)/4 + 1
	completionTokens := len(content)/4 + 1

	return model.Response{
		Content:    content,
		Provider:   "scripted",
		Model:      "scripted-1",
		TokensUsed: promptTokens + completionTokens,
		CostUSD:    m.pricing.Cost(promptTokens, completionTokens),
		Success:    true,
	}
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted-1", Provider: "scripted"}
}

// Pricing implements model.Pricer.
func (m *ScriptedModel) Pricing() model.Pricing { return m.pricing }
