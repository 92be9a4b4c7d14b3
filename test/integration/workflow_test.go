package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/orchestrator"
	"github.com/Ramsey-B/clover/pkg/query"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// memoryCatalog is an in-memory catalog stand-in for workflow tests
type memoryCatalog struct {
	name     string
	searches map[string][]models.ProductRecord
	details  map[string]models.ProductRecord
}

func (m *memoryCatalog) Search(_ context.Context, q string) ([]models.ProductRecord, error) {
	if m.searches == nil {
		return nil, errors.New("catalog unavailable")
	}
	return m.searches[q], nil
}

func (m *memoryCatalog) FetchDetails(_ context.Context, itemID string) (models.ProductRecord, error) {
	detail, ok := m.details[itemID]
	if !ok {
		return nil, errors.New("item not found")
	}
	return detail, nil
}

func (m *memoryCatalog) Name() string { return m.name }

func newWorkflowService(source, target *memoryCatalog) *orchestrator.Service {
	logger := getTestLogger()
	return orchestrator.NewService(
		logger,
		matching.NewScorer(logger, matching.DefaultScorerConfig()),
		query.NewGenerator(logger),
		query.NewValidator(logger),
		source,
		target,
		orchestrator.Config{MaxResults: 5},
	)
}

func TestMatchingWorkflow_SearchTerm(t *testing.T) {
	sourceItem := models.ProductRecord{
		"id":    "s1",
		"title": "Sony WH-1000XM5 Wireless Headphones",
		"brand": "Sony",
		"specifications": map[string]any{
			"upc":    "012345678905",
			"weight": 0.55,
		},
		"pricing": map[string]any{"current_price": 349.99},
	}
	exactMatch := models.ProductRecord{
		"basic_info": map[string]any{
			"id":    "t1",
			"name":  "Sony WH-1000XM5 Wireless Headphones",
			"brand": "Sony",
			"upc":   "012345678905",
		},
		"pricing": map[string]any{"formatted_current_price": "$348.00"},
	}
	nearMatch := models.ProductRecord{
		"basic_info": map[string]any{
			"id":    "t2",
			"name":  "Sony Wireless Headphones",
			"brand": "Sony",
		},
	}
	unrelated := models.ProductRecord{
		"basic_info": map[string]any{
			"id":   "t3",
			"name": "Garden Hose Reel",
		},
	}

	source := &memoryCatalog{
		name:     "source",
		searches: map[string][]models.ProductRecord{"headphones": {sourceItem}},
	}
	target := &memoryCatalog{
		name: "target",
		searches: map[string][]models.ProductRecord{
			"headphones": {unrelated, nearMatch, exactMatch},
		},
	}

	report, err := newWorkflowService(source, target).Run(context.Background(), "headphones", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SourceCount)
	assert.Equal(t, 3, report.CandidateCount)
	assert.Equal(t, 3, report.Summary.Comparisons)
	require.Len(t, report.Results, 3)

	// identifier, brand, title and price all line up on the exact match
	best := report.Results[0]
	assert.Equal(t, "t1", orchestrator.ItemID(best.Candidate))
	assert.Equal(t, models.ConfidenceVeryHigh, best.Score.Confidence)

	upc, ok := best.Score.Contribution(matching.LabelIdentifier)
	require.True(t, ok)
	assert.Equal(t, 100.0, upc)
	_, ok = best.Score.Contribution(matching.LabelPrice)
	assert.True(t, ok)

	second := report.Results[1]
	assert.Equal(t, "t2", orchestrator.ItemID(second.Candidate))
	assert.Greater(t, best.Score.Total, second.Score.Total)

	worst := report.Results[2]
	assert.Equal(t, models.ConfidenceNoMatch, worst.Score.Confidence)
	assert.Equal(t, best.Score.Total, report.Summary.BestScore)
}

func TestMatchingWorkflow_SourceRecordCascade(t *testing.T) {
	sourceItem := models.ProductRecord{
		"title": "Ergonomic Mesh Office Chair",
		"brand": "Steelcase",
	}
	match := models.ProductRecord{
		"basic_info": map[string]any{
			"id":    "t1",
			"name":  "Steelcase Ergonomic Mesh Office Chair",
			"brand": "Steelcase",
		},
	}

	target := &memoryCatalog{
		name: "target",
		searches: map[string][]models.ProductRecord{
			"ergonomic mesh office chair Steelcase": {match},
		},
	}

	svc := newWorkflowService(&memoryCatalog{name: "source", searches: map[string][]models.ProductRecord{}}, target)
	report, err := svc.MatchRecord(context.Background(), sourceItem, "office chair", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{models.QueryStrategyTitleBrand}, report.Summary.Strategies)
	require.Len(t, report.Results, 1)
	assert.GreaterOrEqual(t, report.Results[0].Score.Total, 50.0)
}

func TestMatchRunSerialization(t *testing.T) {
	summary := models.RunSummary{
		Comparisons: 3,
		ByBucket: map[models.ConfidenceLevel]int{
			models.ConfidenceVeryHigh: 1,
			models.ConfidenceNoMatch:  2,
		},
		BestScore:  245,
		Strategies: []string{models.QueryStrategyIdentifier},
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	var parsed models.RunSummary
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, summary, parsed)

	run := models.MatchRun{
		ID:             "run-1",
		TenantID:       "tenant-1",
		Status:         models.MatchRunStatusCompleted,
		BestScore:      245,
		BestConfidence: models.ConfidenceVeryHigh,
		Summary:        data,
	}
	encoded, err := json.Marshal(run)
	require.NoError(t, err)

	var decoded models.MatchRun
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, run.BestConfidence, decoded.BestConfidence)
	assert.JSONEq(t, string(data), string(decoded.Summary))
}
