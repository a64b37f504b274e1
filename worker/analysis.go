package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/getadhive/adhive/connector"
	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/engine"
	"github.com/getadhive/adhive/logging"
	"github.com/getadhive/adhive/model"
)

const analysisSystemPrompt = `You are an expert shopping behavior analyst.
Analyze user data and provide insights on:
- Shopping personality and segment
- Purchase motivations
- Product interests
- Best engagement strategies

Be concise and data-driven.`

// Analysis is the shopper behavior analyst: it fetches behavior data,
// classifies the shopper into a segment, predicts product interests and
// matches catalog products, driving the request engine's structured output
// for the model-backed steps.
type Analysis struct {
	*Base
	engine *engine.Engine
	data   connector.DataSource
}

// NewAnalysis constructs an analysis worker.
func NewAnalysis(id string, eng *engine.Engine, data connector.DataSource, logger logging.Logger) *Analysis {
	a := &Analysis{
		Base:   NewBase(id, core.RoleAnalysis, "AI shopping behavior analyst", logger),
		engine: eng,
		data:   data,
	}
	a.setHandler(a.handle)
	return a
}

// handle answers analyze-user tasks; everything else yields no response.
func (a *Analysis) handle(ctx context.Context, msg core.Message) (*core.Message, error) {
	if msg.Kind != core.KindTask {
		return nil, nil
	}

	task, ok := msg.Payload.(core.AnalyzeUserTask)
	if !ok {
		return nil, nil
	}

	result := a.analyzeUser(ctx, task)
	reply := msg.Reply(result, core.KindResult)
	return &reply, nil
}

func (a *Analysis) analyzeUser(ctx context.Context, task core.AnalyzeUserTask) core.AnalysisResult {
	behavior, err := a.data.UserBehavior(ctx, task.UserID)
	if err != nil {
		a.TaskFailed()
		return core.AnalysisResult{Success: false, Error: fmt.Sprintf("behavior fetch failed: %v", err)}
	}

	segment, err := a.classifySegment(ctx, behavior)
	if err != nil {
		a.TaskFailed()
		return core.AnalysisResult{Success: false, Error: err.Error()}
	}

	interests, err := a.predictInterests(ctx, behavior, segment)
	if err != nil {
		// Interest prediction is best effort; fall back to broad categories.
		interests = []string{"Electronics", "Books", "Home"}
	}

	var products []core.Product
	for _, interest := range firstN(interests, 3) {
		matches, err := a.data.SearchProducts(ctx, interest, 3)
		if err != nil {
			continue
		}
		products = append(products, matches...)
	}

	a.TaskCompleted()

	return core.AnalysisResult{
		Success: true,
		Analysis: core.ShopperAnalysis{
			UserID:              task.UserID,
			Behavior:            behavior,
			Segment:             segment,
			Interests:           interests,
			RecommendedProducts: firstN(products, 10),
			AnalyzedBy:          a.ID(),
			AnalyzedAt:          time.Now().UTC(),
		},
	}
}

func (a *Analysis) classifySegment(ctx context.Context, behavior core.BehaviorData) (core.Segment, error) {
	prompt := fmt.Sprintf(`Analyze this user's shopping behavior and classify them:

User Data:
- Sessions: %d
- Page Views: %d
- Avg Session Duration: %.0fs
- Bounce Rate: %.2f
- Conversions: %d
- Revenue: $%.2f

Choose ONE segment:
1. impulse_buyer - Quick decisions, high frequency
2. researcher - Long sessions, reads reviews
3. bargain_hunter - Price sensitive, deal seeker
4. premium_buyer - High value, quality focused
5. casual_shopper - Occasional, need-based`,
		behavior.Sessions, behavior.PageViews, behavior.AvgSessionDuration,
		behavior.BounceRate, behavior.Conversions, behavior.Revenue)

	raw, err := a.engine.GenerateStructured(ctx,
		model.Request{Prompt: prompt, System: analysisSystemPrompt},
		engine.SchemaFor(core.Segment{}),
	)
	if err != nil {
		return core.Segment{}, fmt.Errorf("segment classification failed: %w", err)
	}

	var segment core.Segment
	if err := decodeInto(raw, &segment); err != nil {
		return core.Segment{}, fmt.Errorf("segment classification failed: %w", err)
	}
	return segment, nil
}

func (a *Analysis) predictInterests(ctx context.Context, behavior core.BehaviorData, segment core.Segment) ([]string, error) {
	conversionRate := 0.0
	if behavior.Sessions > 0 {
		conversionRate = float64(behavior.Conversions) / float64(behavior.Sessions)
	}

	prompt := fmt.Sprintf(`Based on this user's behavior, predict their top 5 product interests:

User Segment: %s
Top Pages Visited: %s
Conversion Rate: %.2f%%

Predict 5 specific product categories they'd be interested in.`,
		segment.Segment, strings.Join(behavior.TopPages, ", "), conversionRate*100)

	raw, err := a.engine.GenerateStructured(ctx,
		model.Request{Prompt: prompt, System: analysisSystemPrompt},
		engine.Schema{"interests": []any{"string"}, "reasoning": "string"},
	)
	if err != nil {
		return nil, err
	}

	var out struct {
		Interests []string `json:"interests"`
	}
	if err := decodeInto(raw, &out); err != nil {
		return nil, err
	}
	if len(out.Interests) == 0 {
		return nil, fmt.Errorf("no interests predicted")
	}
	return out.Interests, nil
}

// decodeInto converts a decoded structured reply into a typed value via a
// JSON round trip.
func decodeInto(m map[string]any, v any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// firstN returns at most n leading elements of s.
func firstN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
