package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, "ergonomic office chair", NormalizeTitle("Ergonomic Office-Chair!"))
	})

	t.Run("drops noise words and short tokens", func(t *testing.T) {
		assert.Equal(t, "chair lumbar support", NormalizeTitle("Chair with Lumbar Support for an XL"))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := NormalizeTitle("Sony WH-1000XM5 Wireless Headphones (Black)")
		assert.Equal(t, once, NormalizeTitle(once))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeTitle("  "))
	})
}

func TestBuiltinNormalizers(t *testing.T) {
	t.Run("digits only", func(t *testing.T) {
		assert.Equal(t, "012345678905", DigitsOnly("0-12345-67890-5"))
	})

	t.Run("alphanumeric", func(t *testing.T) {
		assert.Equal(t, "WH1000XM5", Alphanumeric("WH-1000XM5!"))
	})

	t.Run("remove punctuation", func(t *testing.T) {
		assert.Equal(t, "its here", RemovePunctuation("it's here!"))
	})

	t.Run("normalize brand trims and lowercases", func(t *testing.T) {
		assert.Equal(t, "sony", NormalizeBrand("  Sony "))
	})
}

func TestRegistry(t *testing.T) {
	t.Run("apply by name", func(t *testing.T) {
		assert.Equal(t, "sony", Apply("SONY", "lowercase"))
	})

	t.Run("unknown name passes value through", func(t *testing.T) {
		assert.Equal(t, "SONY", Apply("SONY", "does_not_exist"))
	})

	t.Run("chain applies in order", func(t *testing.T) {
		assert.Equal(t, "sony", ApplyChain("  SONY  ", "trim", "lowercase"))
	})

	t.Run("get reports registration", func(t *testing.T) {
		fn, ok := Get("digits_only")
		assert.True(t, ok)
		assert.Equal(t, "123", fn("a1b2c3"))
	})
}

func TestTokenHelpers(t *testing.T) {
	t.Run("title tokens are a normalized set", func(t *testing.T) {
		tokens := TitleTokens("Office Chair for the Office")
		assert.Len(t, tokens, 2)
		assert.Contains(t, tokens, "office")
		assert.Contains(t, tokens, "chair")
	})

	t.Run("meaningful words preserve order and honor the limit", func(t *testing.T) {
		words := MeaningfulWords("Premium Ergonomic Office Chair with Adjustable Lumbar Support", 4)
		assert.Equal(t, []string{"premium", "ergonomic", "office", "chair"}, words)
	})

	t.Run("zero limit keeps every word", func(t *testing.T) {
		words := MeaningfulWords("Premium Office Chair", 0)
		assert.Equal(t, []string{"premium", "office", "chair"}, words)
	})
}
