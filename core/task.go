package core

import "time"

// Task payloads form a closed set of Go types dispatched by type switch, so
// a handler that forgets a kind fails review rather than silently at runtime.
// Unrecognized payloads yield no response by contract.

// AnalyzeUserTask asks an analysis worker to profile one shopper.
type AnalyzeUserTask struct {
	UserID string `json:"user_id"`
}

// CreateCampaignTask asks a campaign worker to build an ad campaign from a
// completed shopper analysis.
type CreateCampaignTask struct {
	Analysis ShopperAnalysis `json:"shopper_analysis"`
}

// BehaviorData is the raw usage profile a data source reports for a shopper.
type BehaviorData struct {
	Sessions           int      `json:"sessions"`
	PageViews          int      `json:"page_views"`
	AvgSessionDuration float64  `json:"avg_session_duration"`
	BounceRate         float64  `json:"bounce_rate"`
	Conversions        int      `json:"conversions"`
	Revenue            float64  `json:"revenue"`
	TopPages           []string `json:"top_pages"`
}

// Segment is the model's classification of a shopper.
type Segment struct {
	Segment         string   `json:"segment"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	Characteristics []string `json:"characteristics"`
}

// Product is a catalog entry matched to a shopper's interests.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Category string  `json:"category"`
}

// ShopperAnalysis is the complete output of an analysis worker.
type ShopperAnalysis struct {
	UserID              string       `json:"user_id"`
	Behavior            BehaviorData `json:"behavior_data"`
	Segment             Segment      `json:"segment"`
	Interests           []string     `json:"interests"`
	RecommendedProducts []Product    `json:"recommended_products"`
	AnalyzedBy          string       `json:"analyzed_by"`
	AnalyzedAt          time.Time    `json:"analyzed_at"`
}

// AnalysisResult is the result payload an analysis worker sends back.
type AnalysisResult struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Analysis ShopperAnalysis `json:"analysis"`
}

// Trend is a trending topic reported by a data source.
type Trend struct {
	Topic  string `json:"topic"`
	Volume int    `json:"volume"`
}

// BudgetPlan allocates campaign spend.
type BudgetPlan struct {
	Daily float64 `json:"daily"`
	Total float64 `json:"total"`
}

// TargetMetrics are the performance goals of a campaign.
type TargetMetrics struct {
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	ROAS           float64 `json:"roas"`
}

// CampaignStrategy is the model-produced campaign plan.
type CampaignStrategy struct {
	CampaignName      string        `json:"campaign_name"`
	Objective         string        `json:"objective"`
	MessagingApproach string        `json:"messaging_approach"`
	Budget            BudgetPlan    `json:"budget"`
	TargetMetrics     TargetMetrics `json:"target_metrics"`
	DurationDays      int           `json:"duration_days"`
}

// AdCopy is the creative text for one ad.
type AdCopy struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
	Tone     string `json:"tone"`
}

// AdCreative binds ad copy to a product and format.
type AdCreative struct {
	ProductID       string `json:"product_id"`
	ProductTitle    string `json:"product_title"`
	Copy            AdCopy `json:"ad_copy"`
	Format          string `json:"format"`
	DurationSeconds int    `json:"duration_seconds"`
}

// TargetAudience summarizes who a campaign addresses.
type TargetAudience struct {
	Segment         string   `json:"segment"`
	Interests       []string `json:"interests"`
	ProductsMatched int      `json:"products_matched"`
}

// Campaign is the complete output of a campaign worker.
type Campaign struct {
	CampaignID      string           `json:"campaign_id"`
	Strategy        CampaignStrategy `json:"strategy"`
	AdCreatives     []AdCreative     `json:"ad_creatives"`
	TargetAudience  TargetAudience   `json:"target_audience"`
	TrendingAligned []string         `json:"trending_aligned"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CampaignResult is the result payload a campaign worker sends back.
type CampaignResult struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
	Campaign Campaign `json:"campaign"`
}
