package models

import (
	"encoding/json"
	"time"
)

// ConfidenceLevel is the ordinal confidence bucket derived from a total match score
type ConfidenceLevel string

const (
	ConfidenceNoMatch  ConfidenceLevel = "no_match"
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// ConfidenceForScore maps a total score to its confidence bucket.
// Thresholds are fixed; the mapping is monotonic in the score.
func ConfidenceForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 120:
		return ConfidenceVeryHigh
	case score >= 80:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	case score >= 25:
		return ConfidenceLow
	case score >= 10:
		return ConfidenceVeryLow
	default:
		return ConfidenceNoMatch
	}
}

// Rank returns the ordinal position of the confidence level, NoMatch lowest
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceVeryHigh:
		return 5
	case ConfidenceHigh:
		return 4
	case ConfidenceMedium:
		return 3
	case ConfidenceLow:
		return 2
	case ConfidenceVeryLow:
		return 1
	default:
		return 0
	}
}

// ScoreContribution is one attribute matcher's labeled contribution to a
// total score. Contributions are always positive; a matcher that found no
// evidence abstains and produces no contribution at all.
type ScoreContribution struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

// MatchScore is the aggregate result of scoring one source/candidate pair.
// Total is exactly the sum of Breakdown points and Breakdown preserves the
// order matchers ran in.
type MatchScore struct {
	Total      float64             `json:"total"`
	Breakdown  []ScoreContribution `json:"breakdown"`
	Confidence ConfidenceLevel     `json:"confidence"`
}

// Contribution returns the points contributed under a label, if present
func (s MatchScore) Contribution(label string) (float64, bool) {
	for _, c := range s.Breakdown {
		if c.Label == label {
			return c.Points, true
		}
	}
	return 0, false
}

// BreakdownJSON encodes the breakdown for persistence
func (s MatchScore) BreakdownJSON() json.RawMessage {
	b, _ := json.Marshal(s.Breakdown)
	return b
}

// MatchingResult pairs a source record with one candidate and the score the
// engine assigned. Results are immutable once created.
type MatchingResult struct {
	Source    ProductRecord `json:"source"`
	Candidate ProductRecord `json:"candidate"`
	Score     MatchScore    `json:"score"`
	Timestamp time.Time     `json:"timestamp"`
}
