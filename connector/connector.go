// Package connector abstracts the external data sources workers consume:
// shopper behavior, product search and trend feeds. The Simulated
// implementation generates deterministic data for demos and tests; a
// production deployment swaps in real API-backed implementations of
// DataSource.
package connector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/getadhive/adhive/core"
)

// DataSource is the boundary to external behavior, catalog and trend feeds.
type DataSource interface {
	UserBehavior(ctx context.Context, userID string) (core.BehaviorData, error)
	SearchProducts(ctx context.Context, keywords string, maxResults int) ([]core.Product, error)
	TrendingTopics(ctx context.Context) ([]core.Trend, error)
}

// Simulated is an in-process DataSource producing deterministic data seeded
// by user identifier. Safe for concurrent use; every call derives its own
// rand source.
type Simulated struct{}

// NewSimulated constructs a simulated data source.
func NewSimulated() *Simulated { return &Simulated{} }

// UserBehavior returns a synthetic but stable behavior profile for a user.
func (s *Simulated) UserBehavior(_ context.Context, userID string) (core.BehaviorData, error) {
	h := fnv.New64a()
	h.Write([]byte(userID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	sessions := 10 + 5 + rng.Intn(26)
	pageViews := sessions * (3 + rng.Intn(6))

	return core.BehaviorData{
		Sessions:           sessions,
		PageViews:          pageViews,
		AvgSessionDuration: float64(120 + 60 + rng.Intn(241)),
		BounceRate:         math.Round((0.2+rng.Float64()*0.4)*100) / 100,
		Conversions:        1 + rng.Intn(8),
		Revenue:            math.Round((100+rng.Float64()*500)*100) / 100,
		TopPages: []string{
			"/products/electronics",
			"/products/books",
			"/cart",
			"/checkout",
		},
	}, nil
}

// SearchProducts returns synthetic catalog entries matching the keywords.
func (s *Simulated) SearchProducts(_ context.Context, keywords string, maxResults int) ([]core.Product, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	h := fnv.New64a()
	h.Write([]byte(keywords))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	products := make([]core.Product, 0, maxResults)
	for i := 0; i < maxResults; i++ {
		products = append(products, core.Product{
			ID:       fmt.Sprintf("prod_%03d", i+1),
			Title:    fmt.Sprintf("%s - Product %d", keywords, i+1),
			Price:    math.Round((29.99+float64(i)*15.5)*100) / 100,
			Rating:   math.Round((3.5+rng.Float64()*1.5)*10) / 10,
			Category: "Electronics",
		})
	}

	return products, nil
}

// TrendingTopics returns the current simulated trend feed.
func (s *Simulated) TrendingTopics(_ context.Context) ([]core.Trend, error) {
	return []core.Trend{
		{Topic: "#TechDeals", Volume: 15000},
		{Topic: "#SmartHome", Volume: 12000},
		{Topic: "#Gadgets2024", Volume: 10000},
		{Topic: "#ShoppingOnline", Volume: 8000},
	}, nil
}
