package models

import (
	"encoding/json"
	"time"
)

// MatchRunStatus tracks the lifecycle of one orchestrated matching run
type MatchRunStatus string

const (
	MatchRunStatusRunning   MatchRunStatus = "running"
	MatchRunStatusCompleted MatchRunStatus = "completed"
	MatchRunStatusFailed    MatchRunStatus = "failed"
)

// MatchRun is the persisted record of one end-to-end matching run
type MatchRun struct {
	ID              string          `json:"id" db:"id"`
	TenantID        string          `json:"tenant_id" db:"tenant_id"`
	SearchTerm      string          `json:"search_term" db:"search_term"`
	Status          MatchRunStatus  `json:"status" db:"status"`
	SourceCount     int             `json:"source_count" db:"source_count"`
	CandidateCount  int             `json:"candidate_count" db:"candidate_count"`
	ComparisonCount int             `json:"comparison_count" db:"comparison_count"`
	BestScore       float64         `json:"best_score" db:"best_score"`
	BestConfidence  ConfidenceLevel `json:"best_confidence" db:"best_confidence"`
	Summary         json.RawMessage `json:"summary,omitempty" db:"summary"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// RunSummary aggregates a run's results per confidence bucket
type RunSummary struct {
	Comparisons int                     `json:"comparisons"`
	ByBucket    map[ConfidenceLevel]int `json:"by_bucket"`
	BestScore   float64                 `json:"best_score"`
	Strategies  []string                `json:"strategies,omitempty"` // query strategies that produced candidates
}

// MatchResult is one persisted ranked comparison from a run
type MatchResult struct {
	ID              string          `json:"id" db:"id"`
	TenantID        string          `json:"tenant_id" db:"tenant_id"`
	RunID           string          `json:"run_id" db:"run_id"`
	Rank            int             `json:"rank" db:"rank"`
	SourceItemID    string          `json:"source_item_id" db:"source_item_id"`
	CandidateItemID string          `json:"candidate_item_id" db:"candidate_item_id"`
	SourceTitle     string          `json:"source_title" db:"source_title"`
	CandidateTitle  string          `json:"candidate_title" db:"candidate_title"`
	Score           float64         `json:"score" db:"score"`
	Confidence      ConfidenceLevel `json:"confidence" db:"confidence"`
	Breakdown       json.RawMessage `json:"breakdown" db:"breakdown"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// MatchRequest starts a matching run. A search term drives a dual-catalog
// run; a source record drives the query cascade against the target catalog.
// At least one of the two must be set.
type MatchRequest struct {
	SearchTerm   string        `json:"search_term" validate:"required_without=Source"`
	Source       ProductRecord `json:"source" validate:"required_without=SearchTerm"`
	FallbackTerm string        `json:"fallback_term"`
	MaxResults   int           `json:"max_results"`
}

// ScorePairRequest scores a single source/candidate pair
type ScorePairRequest struct {
	Source    ProductRecord `json:"source" validate:"required"`
	Candidate ProductRecord `json:"candidate" validate:"required"`
}

// QueryPlanRequest previews the query cascade for a source record
type QueryPlanRequest struct {
	Source       ProductRecord `json:"source" validate:"required"`
	FallbackTerm string        `json:"fallback_term"`
}
