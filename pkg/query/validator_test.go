package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func TestFilterRelated(t *testing.T) {
	ctx := context.Background()
	v := NewValidator(noopLogger())

	source := models.ProductRecord{
		"brand": "Sony",
		"title": "Sony WH-1000XM5 Wireless Headphones",
	}

	t.Run("matching brand passes", func(t *testing.T) {
		candidate := models.ProductRecord{
			"basic_info": map[string]any{"brand": "SONY", "name": "completely different item"},
		}
		kept := v.FilterRelated(ctx, source, []models.ProductRecord{candidate})
		assert.Len(t, kept, 1)
	})

	t.Run("shared keywords pass", func(t *testing.T) {
		candidate := models.ProductRecord{
			"basic_info": map[string]any{"name": "wireless over-ear headphones black"},
		}
		kept := v.FilterRelated(ctx, source, []models.ProductRecord{candidate})
		assert.Len(t, kept, 1)
	})

	t.Run("one shared keyword is not enough", func(t *testing.T) {
		candidate := models.ProductRecord{
			"basic_info": map[string]any{"name": "wireless garden sprinkler timer"},
		}
		kept := v.FilterRelated(ctx, source, []models.ProductRecord{candidate})
		assert.Empty(t, kept)
	})

	t.Run("shared product type keyword passes", func(t *testing.T) {
		chairSource := models.ProductRecord{
			"brand": "Steelcase",
			"title": "Leap V2 Office Chair",
		}
		candidate := models.ProductRecord{
			"basic_info": map[string]any{"name": "budget mesh chair"},
		}
		kept := v.FilterRelated(ctx, chairSource, []models.ProductRecord{candidate})
		assert.Len(t, kept, 1)
	})

	t.Run("unrelated candidates are dropped, order preserved", func(t *testing.T) {
		related1 := models.ProductRecord{
			"basic_info": map[string]any{"brand": "sony", "name": "a"},
		}
		unrelated := models.ProductRecord{
			"basic_info": map[string]any{"name": "lawn mower blade kit"},
		}
		related2 := models.ProductRecord{
			"basic_info": map[string]any{"name": "wireless headphones stand"},
		}

		kept := v.FilterRelated(ctx, source, []models.ProductRecord{related1, unrelated, related2})
		require.Len(t, kept, 2)
		assert.Equal(t, related1, kept[0])
		assert.Equal(t, related2, kept[1])
	})

	t.Run("empty candidate list", func(t *testing.T) {
		assert.Empty(t, v.FilterRelated(ctx, source, nil))
	})
}
