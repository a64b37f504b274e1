package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingCost(t *testing.T) {
	p := Pricing{InputPer1K: 0.003, OutputPer1K: 0.015}

	assert.InDelta(t, 0.003+0.015, p.Cost(1000, 1000), 1e-9)
	assert.InDelta(t, 0.0015+0.0075, p.Cost(500, 500), 1e-9)
	assert.Zero(t, p.Cost(0, 0))
}

func TestPricingBlended(t *testing.T) {
	p := Pricing{InputPer1K: 0.01, OutputPer1K: 0.03}
	assert.InDelta(t, 0.02, p.BlendedPer1K(), 1e-9)
}

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hello", "world")

	resp := m.Generate(context.Background(), Request{Prompt: "hello"})

	require.True(t, resp.Success)
	assert.Equal(t, "world", resp.Content)
	assert.Equal(t, "mock", resp.Provider)
	assert.Equal(t, "test-model", resp.Model)
	assert.Positive(t, resp.TokensUsed)
	assert.Positive(t, resp.CostUSD)
	assert.Empty(t, resp.Error)
}

func TestMockModelDefaultEcho(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	resp := m.Generate(context.Background(), Request{Prompt: "anything"})

	require.True(t, resp.Success)
	assert.Equal(t, "Mock response to: anything", resp.Content)
}

func TestMockModelFailure(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.FailWith(errors.New("boom"))

	resp := m.Generate(context.Background(), Request{Prompt: "hello"})

	// Exactly one of success+content or failure+error holds.
	require.False(t, resp.Success)
	assert.Empty(t, resp.Content)
	assert.Equal(t, "boom", resp.Error)
	assert.Zero(t, resp.TokensUsed)
	assert.Zero(t, resp.CostUSD)
}

func TestMockModelCancelledContext(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := m.Generate(ctx, Request{Prompt: "hello"})

	require.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestFailureShape(t *testing.T) {
	resp := Failure(Info{Name: "m", Provider: "p"}, errors.New("nope"))

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Content)
	assert.Equal(t, "nope", resp.Error)
	assert.Equal(t, "p", resp.Provider)
	assert.Equal(t, "m", resp.Model)
}
