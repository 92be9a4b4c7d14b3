package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() map[string]any {
	return map[string]any{
		"brand": "Sony",
		"basic_info": map[string]any{
			"name": "Wireless Headphones",
			"upc":  "012345678905",
		},
		"pricing": map[string]any{
			"current_price":           129.99,
			"formatted_current_price": "$1,299.00",
		},
		"product_details": map[string]any{
			"highlights": []any{"Noise Cancelling", "30 Hour Battery"},
			"materials":  []string{"plastic", "aluminum"},
		},
	}
}

func TestExtract(t *testing.T) {
	e := New()

	t.Run("top level key", func(t *testing.T) {
		assert.Equal(t, "Sony", e.Extract(testRecord(), "brand"))
	})

	t.Run("nested dot path", func(t *testing.T) {
		assert.Equal(t, "Wireless Headphones", e.Extract(testRecord(), "basic_info.name"))
	})

	t.Run("array index", func(t *testing.T) {
		assert.Equal(t, "30 Hour Battery", e.Extract(testRecord(), "product_details.highlights[1]"))
	})

	t.Run("index out of range", func(t *testing.T) {
		assert.Nil(t, e.Extract(testRecord(), "product_details.highlights[5]"))
	})

	t.Run("missing segment", func(t *testing.T) {
		assert.Nil(t, e.Extract(testRecord(), "basic_info.model_number"))
	})

	t.Run("non traversable segment", func(t *testing.T) {
		assert.Nil(t, e.Extract(testRecord(), "brand.name"))
	})

	t.Run("empty path returns the value itself", func(t *testing.T) {
		assert.Equal(t, "Sony", e.Extract("Sony", ""))
	})
}

func TestExtractString(t *testing.T) {
	e := New()

	t.Run("renders numbers", func(t *testing.T) {
		assert.Equal(t, "129.99", e.ExtractString(testRecord(), "pricing.current_price"))
	})

	t.Run("absent path renders empty", func(t *testing.T) {
		assert.Equal(t, "", e.ExtractString(testRecord(), "nope.nothing"))
	})
}

func TestFirstString(t *testing.T) {
	e := New()

	t.Run("probes paths in priority order", func(t *testing.T) {
		got := e.FirstString(testRecord(), []string{"missing", "basic_info.name", "brand"})
		assert.Equal(t, "Wireless Headphones", got)
	})

	t.Run("no path present", func(t *testing.T) {
		assert.Equal(t, "", e.FirstString(testRecord(), []string{"a", "b.c"}))
	})
}

func TestFirstNumber(t *testing.T) {
	e := New()

	t.Run("numeric value", func(t *testing.T) {
		got, ok := e.FirstNumber(testRecord(), []string{"pricing.current_price"})
		require.True(t, ok)
		assert.Equal(t, 129.99, got)
	})

	t.Run("string with thousands separator", func(t *testing.T) {
		got, ok := e.FirstNumber(map[string]any{"weight": "1,250.5"}, []string{"weight"})
		require.True(t, ok)
		assert.Equal(t, 1250.5, got)
	})

	t.Run("non numeric string is skipped", func(t *testing.T) {
		_, ok := e.FirstNumber(map[string]any{"weight": "heavy"}, []string{"weight"})
		assert.False(t, ok)
	})
}

func TestCollectStrings(t *testing.T) {
	e := New()

	t.Run("expands list values", func(t *testing.T) {
		got := e.CollectStrings(testRecord(), []string{"product_details.materials", "brand"})
		assert.Equal(t, []string{"plastic", "aluminum", "Sony"}, got)
	})

	t.Run("absent paths contribute nothing", func(t *testing.T) {
		assert.Empty(t, e.CollectStrings(testRecord(), []string{"x", "y.z"}))
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		m, err := FromJSON(json.RawMessage(`{"brand": "Sony"}`))
		require.NoError(t, err)
		assert.Equal(t, "Sony", m["brand"])
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := FromJSON(json.RawMessage(`not json`))
		assert.Error(t, err)
	})
}
