package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrandsSimilar(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{"identical brands", "sony", "sony", true},
		{"alias table members", "hp", "hewlett packard", true},
		{"alias with punctuation variant", "hp", "hewlett-packard", true},
		{"canonical against alias", "nike", "nike inc", true},
		{"containment of a longer name", "sony", "sony electronics", true},
		{"acronym of a multi word name", "lg", "lg electronics", true},
		{"short names do not contain match", "abc", "abcd", false},
		{"unrelated brands", "nike", "adidas", false},
		{"empty side never matches", "", "sony", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, brandsSimilar(tt.a, tt.b))
		})
	}
}

func TestIsAcronymOf(t *testing.T) {
	t.Run("first letters of each word", func(t *testing.T) {
		assert.True(t, isAcronymOf("hp", "hewlett packard"))
	})

	t.Run("single word has no acronym", func(t *testing.T) {
		assert.False(t, isAcronymOf("s", "sony"))
	})

	t.Run("long candidates are rejected", func(t *testing.T) {
		assert.False(t, isAcronymOf("abcde", "alpha beta charlie delta echo"))
	})
}
