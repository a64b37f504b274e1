package adhive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/internal/testutil"
	"github.com/getadhive/adhive/model"
)

const (
	segmentReply   = `{"segment": "premium_buyer", "confidence": 0.85, "reasoning": "high revenue per session", "characteristics": ["quality focused"]}`
	interestsReply = `{"interests": ["Electronics", "Smart Home", "Audio"], "reasoning": "page history"}`
	strategyReply  = `{"campaign_name": "Premium Picks", "objective": "conversions", "messaging_approach": "quality-first", "budget": {"daily": 200, "total": 6000}, "target_metrics": {"ctr": 0.04, "conversion_rate": 0.02, "roas": 5.0}, "duration_days": 30}`
	copyReply      = `{"headline": "Only the Best Makes the Cut", "body": "Hand-picked gear for buyers who never settle.", "cta": "Shop Premium", "tone": "aspirational"}`
)

func newScriptedHive(t *testing.T) (*Hive, *testutil.ScriptedModel) {
	t.Helper()

	// Analysis needs two structured replies, the campaign step three.
	m := testutil.NewScriptedModel(segmentReply, interestsReply, strategyReply, copyReply, copyReply)

	hive, err := New(func(o *Options) { o.Model = m })
	require.NoError(t, err)
	t.Cleanup(func() { _ = hive.Shutdown(context.Background()) })

	return hive, m
}

func TestRunFullCampaign(t *testing.T) {
	hive, m := newScriptedHive(t)

	result := hive.RunFullCampaign(context.Background(), "user_12345")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"analyst_001", "campaigner_001"}, result.Workers)
	assert.Equal(t, 5, m.Calls())

	campaign, ok := result.Output.(core.Campaign)
	require.True(t, ok)
	assert.Equal(t, "Premium Picks", campaign.Strategy.CampaignName)
	assert.Len(t, campaign.AdCreatives, 2)
	assert.Equal(t, "premium_buyer", campaign.TargetAudience.Segment)
	assert.Equal(t, "campaigner_001", campaign.CreatedBy)
}

func TestRunFullCampaignRecordsBudgetUsage(t *testing.T) {
	hive, _ := newScriptedHive(t)

	result := hive.RunFullCampaign(context.Background(), "user_12345")
	require.True(t, result.Success, result.Error)

	stats := hive.Engine().Tracker().Stats()
	assert.Equal(t, 5, stats.TotalRequests)
	assert.Positive(t, stats.TotalTokens)
	assert.Positive(t, stats.TotalCost)
}

func TestStatusReflectsWorkflowOutcome(t *testing.T) {
	hive, _ := newScriptedHive(t)

	hive.RunFullCampaign(context.Background(), "user_12345")

	status := hive.Status()
	assert.Equal(t, "dispatcher_001", status.DispatcherID)
	assert.Equal(t, 2, status.TotalWorkers)
	assert.Equal(t, 1, status.WorkflowsCompleted)
	assert.Zero(t, status.WorkflowsFailed)

	for _, w := range status.Workers {
		assert.Equal(t, core.StateIdle, w.State)
		assert.Equal(t, 1, w.TasksCompleted)
	}
}

func TestNewDefaultsToUnconfiguredGateway(t *testing.T) {
	// No credentials anywhere: the gateway exists but every call fails.
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	hive, err := New()
	require.NoError(t, err)
	defer hive.Shutdown(context.Background())

	resp := hive.Engine().Generate(context.Background(), model.Request{Prompt: "hi"})

	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not configured")
}

func TestShutdownStopsWorkers(t *testing.T) {
	hive, _ := newScriptedHive(t)

	require.NoError(t, hive.Shutdown(context.Background()))
	assert.Error(t, hive.Shutdown(context.Background()), "second shutdown finds stopped workers")
}
