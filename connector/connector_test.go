package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBehaviorDeterministicPerUser(t *testing.T) {
	s := NewSimulated()
	ctx := context.Background()

	first, err := s.UserBehavior(ctx, "user_12345")
	require.NoError(t, err)
	second, err := s.UserBehavior(ctx, "user_12345")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same user yields the same profile")

	other, err := s.UserBehavior(ctx, "user_99999")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestUserBehaviorRanges(t *testing.T) {
	s := NewSimulated()

	behavior, err := s.UserBehavior(context.Background(), "user_1")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, behavior.Sessions, 15)
	assert.LessOrEqual(t, behavior.Sessions, 40)
	assert.GreaterOrEqual(t, behavior.PageViews, behavior.Sessions*3)
	assert.GreaterOrEqual(t, behavior.BounceRate, 0.2)
	assert.LessOrEqual(t, behavior.BounceRate, 0.6)
	assert.Positive(t, behavior.Conversions)
	assert.Positive(t, behavior.Revenue)
	assert.NotEmpty(t, behavior.TopPages)
}

func TestSearchProductsCountAndShape(t *testing.T) {
	s := NewSimulated()

	products, err := s.SearchProducts(context.Background(), "Electronics", 3)
	require.NoError(t, err)

	require.Len(t, products, 3)
	assert.Equal(t, "prod_001", products[0].ID)
	assert.Contains(t, products[0].Title, "Electronics")
	assert.Positive(t, products[0].Price)
	assert.GreaterOrEqual(t, products[0].Rating, 3.5)
	assert.LessOrEqual(t, products[0].Rating, 5.0)
}

func TestSearchProductsDefaultLimit(t *testing.T) {
	s := NewSimulated()

	products, err := s.SearchProducts(context.Background(), "Books", 0)
	require.NoError(t, err)

	assert.Len(t, products, 10)
}

func TestTrendingTopics(t *testing.T) {
	s := NewSimulated()

	trends, err := s.TrendingTopics(context.Background())
	require.NoError(t, err)

	require.Len(t, trends, 4)
	assert.Equal(t, "#TechDeals", trends[0].Topic)
	for i := 1; i < len(trends); i++ {
		assert.LessOrEqual(t, trends[i].Volume, trends[i-1].Volume, "trends sorted by volume")
	}
}
