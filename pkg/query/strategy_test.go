package query

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestBuildPlan(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(noopLogger())

	t.Run("full cascade from a rich record", func(t *testing.T) {
		source := models.ProductRecord{
			"specifications": map[string]any{"upc": "0-12345-67890-5"},
			"brand":          "Sony",
			"title":          "Sony Wireless Noise Cancelling Headphones",
		}

		plan := g.BuildPlan(ctx, source, "headphones")
		require.Len(t, plan.Steps, 4)

		assert.Equal(t, models.QueryStep{
			Query:    "012345678905",
			Strategy: models.QueryStrategyIdentifier,
			Validate: true,
		}, plan.Steps[0])

		assert.Equal(t, "sony wireless noise cancelling headphones Sony", plan.Steps[1].Query)
		assert.Equal(t, models.QueryStrategyTitleBrand, plan.Steps[1].Strategy)
		assert.False(t, plan.Steps[1].Validate)

		assert.Equal(t, "Sony", plan.Steps[2].Query)
		assert.Equal(t, models.QueryStrategyBrand, plan.Steps[2].Strategy)

		assert.Equal(t, "headphones", plan.Steps[3].Query)
		assert.Equal(t, models.QueryStrategyFallback, plan.Steps[3].Strategy)
	})

	t.Run("deterministic for the same inputs", func(t *testing.T) {
		source := models.ProductRecord{
			"brand": "Sony",
			"title": "Wireless Headphones",
		}
		first := g.BuildPlan(ctx, source, "audio")
		second := g.BuildPlan(ctx, source, "audio")
		assert.Equal(t, first, second)
	})

	t.Run("short identifiers are not trusted", func(t *testing.T) {
		source := models.ProductRecord{
			"specifications": map[string]any{"upc": "123456789"},
			"brand":          "Sony",
		}
		plan := g.BuildPlan(ctx, source, "")
		for _, step := range plan.Steps {
			assert.NotEqual(t, models.QueryStrategyIdentifier, step.Strategy)
		}
	})

	t.Run("title query truncates to the first meaningful words", func(t *testing.T) {
		source := models.ProductRecord{
			"title": "Premium Deluxe Ergonomic Swivel Office Chair Adjustable Height Lumbar Support Mesh Back",
		}
		plan := g.BuildPlan(ctx, source, "")
		require.Len(t, plan.Steps, 1)
		assert.Equal(t, "premium deluxe ergonomic swivel office chair adjustable height", plan.Steps[0].Query)
		assert.Equal(t, models.QueryStrategyTitleBrand, plan.Steps[0].Strategy)
	})

	t.Run("duplicate queries are collapsed", func(t *testing.T) {
		source := models.ProductRecord{"brand": "Sony"}
		plan := g.BuildPlan(ctx, source, "Sony")
		require.Len(t, plan.Steps, 1)
		assert.Equal(t, models.QueryStrategyBrand, plan.Steps[0].Strategy)
	})

	t.Run("empty record with a fallback", func(t *testing.T) {
		plan := g.BuildPlan(ctx, models.ProductRecord{}, "standing desk")
		require.Len(t, plan.Steps, 1)
		assert.Equal(t, models.QueryStrategyFallback, plan.Steps[0].Strategy)
	})

	t.Run("nothing usable yields an empty plan", func(t *testing.T) {
		plan := g.BuildPlan(ctx, models.ProductRecord{}, "  ")
		assert.Empty(t, plan.Steps)
	})

	t.Run("barcode path is probed for identifiers", func(t *testing.T) {
		source := models.ProductRecord{
			"matching_data": map[string]any{"barcode": "8861234567002"},
		}
		plan := g.BuildPlan(ctx, source, "")
		require.Len(t, plan.Steps, 1)
		assert.Equal(t, "8861234567002", plan.Steps[0].Query)
		assert.True(t, plan.Steps[0].Validate)
	})
}

func TestQueryPlanContains(t *testing.T) {
	plan := models.QueryPlan{Steps: []models.QueryStep{
		{Query: "sony", Strategy: models.QueryStrategyBrand},
	}}
	assert.True(t, plan.Contains("sony"))
	assert.False(t, plan.Contains("Sony"))
	assert.Equal(t, []string{"sony"}, plan.Queries())
}
