package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceForScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected ConfidenceLevel
	}{
		{200, ConfidenceVeryHigh},
		{120, ConfidenceVeryHigh},
		{119.9, ConfidenceHigh},
		{80, ConfidenceHigh},
		{79.9, ConfidenceMedium},
		{50, ConfidenceMedium},
		{49.9, ConfidenceLow},
		{25, ConfidenceLow},
		{24.9, ConfidenceVeryLow},
		{10, ConfidenceVeryLow},
		{9.9, ConfidenceNoMatch},
		{0, ConfidenceNoMatch},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConfidenceForScore(tt.score), "score %v", tt.score)
	}
}

func TestConfidenceRank(t *testing.T) {
	ordered := []ConfidenceLevel{
		ConfidenceNoMatch,
		ConfidenceVeryLow,
		ConfidenceLow,
		ConfidenceMedium,
		ConfidenceHigh,
		ConfidenceVeryHigh,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
}

func TestMatchScoreContribution(t *testing.T) {
	score := MatchScore{
		Total: 140,
		Breakdown: []ScoreContribution{
			{Label: "upc_match", Points: 100},
			{Label: "brand_match", Points: 40},
		},
	}

	points, ok := score.Contribution("brand_match")
	assert.True(t, ok)
	assert.Equal(t, 40.0, points)

	_, ok = score.Contribution("title_similarity")
	assert.False(t, ok)
}
