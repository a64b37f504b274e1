package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/getadhive/adhive/core"
)

// WorkflowFullAdCampaign sequences a shopper analysis step into a campaign
// creation step: analysis → campaign.
const WorkflowFullAdCampaign = "full_ad_campaign"

// WorkflowResult is the finalized outcome of one workflow run. It is stamped
// exactly once, when all required steps resolve or the first required step
// fails.
type WorkflowResult struct {
	WorkflowID string        `json:"workflow_id"`
	Type       string        `json:"type"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Workers    []string      `json:"workers"`
	Duration   time.Duration `json:"duration"`
	Output     any           `json:"output,omitempty"`
}

// Run executes a workflow to completion. Each dispatched task carries a
// correlation token; the engine awaits the correlated result with the
// configured step timeout instead of sampling worker counters, so a slow
// step surfaces as a step failure rather than a false success.
func (d *Dispatcher) Run(ctx context.Context, workflowType string, payload any) WorkflowResult {
	workflowID := "workflow_" + uuid.NewString()[:8]
	start := time.Now()

	d.logger.Info("workflow started", "workflow_id", workflowID, "type", workflowType)

	var result WorkflowResult
	switch workflowType {
	case WorkflowFullAdCampaign:
		result = d.runFullCampaign(ctx, payload)
	default:
		result = WorkflowResult{Success: false, Error: fmt.Sprintf("unknown workflow type: %s", workflowType)}
	}

	result.WorkflowID = workflowID
	result.Type = workflowType
	result.Duration = time.Since(start)

	d.mu.Lock()
	if result.Success {
		d.workflowsCompleted++
	} else {
		d.workflowsFailed++
	}
	d.mu.Unlock()

	d.logger.Info("workflow finished",
		"workflow_id", workflowID,
		"success", result.Success,
		"error", result.Error,
		"duration", result.Duration,
	)

	return result
}

// runFullCampaign drives the analysis → campaign sequence. A missing role or
// a failed step ends the workflow immediately; no further steps run.
func (d *Dispatcher) runFullCampaign(ctx context.Context, payload any) WorkflowResult {
	task, ok := payload.(core.AnalyzeUserTask)
	if !ok {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("full_ad_campaign requires an AnalyzeUserTask payload, got %T", payload)}
	}

	analystID, ok := d.findByRole(core.RoleAnalysis)
	if !ok {
		return WorkflowResult{Success: false, Error: "analysis worker not found"}
	}

	reply, err := d.dispatchAndWait(ctx, core.NewMessage(analystID, task, core.KindTask))
	if err != nil {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("analysis step failed: %v", err), Workers: []string{analystID}}
	}

	analysisResult, ok := reply.Payload.(core.AnalysisResult)
	if !ok {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("unexpected analysis result payload: %T", reply.Payload), Workers: []string{analystID}}
	}
	if !analysisResult.Success {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("analysis step failed: %s", analysisResult.Error), Workers: []string{analystID}}
	}

	campaignerID, ok := d.findByRole(core.RoleCampaign)
	if !ok {
		return WorkflowResult{Success: false, Error: "campaign worker not found", Workers: []string{analystID}}
	}

	reply, err = d.dispatchAndWait(ctx, core.NewMessage(campaignerID, core.CreateCampaignTask{Analysis: analysisResult.Analysis}, core.KindTask))
	if err != nil {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("campaign step failed: %v", err), Workers: []string{analystID, campaignerID}}
	}

	campaignResult, ok := reply.Payload.(core.CampaignResult)
	if !ok {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("unexpected campaign result payload: %T", reply.Payload), Workers: []string{analystID, campaignerID}}
	}
	if !campaignResult.Success {
		return WorkflowResult{Success: false, Error: fmt.Sprintf("campaign step failed: %s", campaignResult.Error), Workers: []string{analystID, campaignerID}}
	}

	return WorkflowResult{
		Success: true,
		Workers: []string{analystID, campaignerID},
		Output:  campaignResult.Campaign,
	}
}
