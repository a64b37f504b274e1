package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getadhive/adhive/connector"
	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/engine"
	"github.com/getadhive/adhive/logging"
	"github.com/getadhive/adhive/model"
)

const campaignSystemPrompt = `You are an expert advertising strategist.
Create data-driven, personalized ad campaigns that:
- Match user psychology
- Leverage trends
- Optimize for conversions
- Use compelling copy

Be creative and strategic.`

// Campaign is the ad strategist: it aligns a completed shopper analysis with
// the trend feed, has the model produce a campaign strategy and ad copy for
// the top matched products, and assembles the final campaign.
type Campaign struct {
	*Base
	engine *engine.Engine
	data   connector.DataSource
}

// NewCampaign constructs a campaign worker.
func NewCampaign(id string, eng *engine.Engine, data connector.DataSource, logger logging.Logger) *Campaign {
	c := &Campaign{
		Base:   NewBase(id, core.RoleCampaign, "AI advertising strategist", logger),
		engine: eng,
		data:   data,
	}
	c.setHandler(c.handle)
	return c
}

// handle answers create-campaign tasks; everything else yields no response.
func (c *Campaign) handle(ctx context.Context, msg core.Message) (*core.Message, error) {
	if msg.Kind != core.KindTask {
		return nil, nil
	}

	task, ok := msg.Payload.(core.CreateCampaignTask)
	if !ok {
		return nil, nil
	}

	result := c.createCampaign(ctx, task)
	reply := msg.Reply(result, core.KindResult)
	return &reply, nil
}

func (c *Campaign) createCampaign(ctx context.Context, task core.CreateCampaignTask) core.CampaignResult {
	analysis := task.Analysis

	trends, err := c.data.TrendingTopics(ctx)
	if err != nil {
		c.TaskFailed()
		return core.CampaignResult{Success: false, Error: fmt.Sprintf("trend fetch failed: %v", err)}
	}

	products := firstN(analysis.RecommendedProducts, 3)

	strategy, err := c.buildStrategy(ctx, analysis, products, trends)
	if err != nil {
		c.TaskFailed()
		return core.CampaignResult{Success: false, Error: err.Error()}
	}

	var creatives []core.AdCreative
	for _, product := range firstN(products, 2) {
		copyText, err := c.writeAdCopy(ctx, analysis.Segment.Segment, product, trends)
		if err != nil {
			// A single failed creative does not sink the campaign.
			continue
		}
		creatives = append(creatives, core.AdCreative{
			ProductID:       product.ID,
			ProductTitle:    product.Title,
			Copy:            copyText,
			Format:          "video_overlay",
			DurationSeconds: 15,
		})
	}

	c.TaskCompleted()

	return core.CampaignResult{
		Success: true,
		Campaign: core.Campaign{
			CampaignID:  "camp_" + uuid.NewString()[:8],
			Strategy:    strategy,
			AdCreatives: creatives,
			TargetAudience: core.TargetAudience{
				Segment:         analysis.Segment.Segment,
				Interests:       analysis.Interests,
				ProductsMatched: len(products),
			},
			TrendingAligned: topicNames(firstN(trends, 3)),
			CreatedBy:       c.ID(),
			CreatedAt:       time.Now().UTC(),
		},
	}
}

func (c *Campaign) buildStrategy(ctx context.Context, analysis core.ShopperAnalysis, products []core.Product, trends []core.Trend) (core.CampaignStrategy, error) {
	var productLines []string
	for _, p := range products {
		productLines = append(productLines, fmt.Sprintf("- %s ($%.2f, %.1f stars)", p.Title, p.Price, p.Rating))
	}

	prompt := fmt.Sprintf(`Create a complete ad campaign strategy:

Target Audience:
- Segment: %s
- Interests: %s
- Behavior: %s

Available Products:
%s

Trending Topics:
%s

Create a campaign with:
1. Campaign name and objective
2. Key messaging approach
3. Budget allocation strategy
4. Target metrics (CTR, conversion rate, ROAS)`,
		analysis.Segment.Segment,
		strings.Join(analysis.Interests, ", "),
		strings.Join(analysis.Segment.Characteristics, ", "),
		strings.Join(productLines, "\n"),
		strings.Join(topicNames(firstN(trends, 3)), ", "))

	raw, err := c.engine.GenerateStructured(ctx,
		model.Request{Prompt: prompt, System: campaignSystemPrompt},
		engine.SchemaFor(core.CampaignStrategy{}),
	)
	if err != nil {
		return core.CampaignStrategy{}, fmt.Errorf("strategy generation failed: %w", err)
	}

	var strategy core.CampaignStrategy
	if err := decodeInto(raw, &strategy); err != nil {
		return core.CampaignStrategy{}, fmt.Errorf("strategy generation failed: %w", err)
	}
	return strategy, nil
}

func (c *Campaign) writeAdCopy(ctx context.Context, segment string, product core.Product, trends []core.Trend) (core.AdCopy, error) {
	trendContext := ""
	if len(trends) > 0 {
		trendContext = trends[0].Topic
	}

	prompt := fmt.Sprintf(`Create compelling ad copy for this product targeting %s:

Product: %s
Price: $%.2f
Rating: %.1f stars

Trending Context: %s

Create ad copy with:
- Attention-grabbing headline (8 words max)
- Persuasive body text (20 words max)
- Strong call-to-action (3 words max)

Match the %s psychology.`,
		segment, product.Title, product.Price, product.Rating, trendContext, segment)

	raw, err := c.engine.GenerateStructured(ctx,
		model.Request{Prompt: prompt, System: campaignSystemPrompt},
		engine.SchemaFor(core.AdCopy{}),
	)
	if err != nil {
		return core.AdCopy{}, err
	}

	var copyText core.AdCopy
	if err := decodeInto(raw, &copyText); err != nil {
		return core.AdCopy{}, err
	}
	return copyText, nil
}

func topicNames(trends []core.Trend) []string {
	names := make([]string, 0, len(trends))
	for _, t := range trends {
		names = append(names, t.Topic)
	}
	return names
}
