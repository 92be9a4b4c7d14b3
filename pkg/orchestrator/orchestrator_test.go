package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/query"
)

// fakeCatalog serves canned search results and detail records, recording the
// queries it was asked.
type fakeCatalog struct {
	name      string
	searches  map[string][]models.ProductRecord
	details   map[string]models.ProductRecord
	searchErr error
	queries   []string
}

func (f *fakeCatalog) Search(_ context.Context, q string) ([]models.ProductRecord, error) {
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searches[q], nil
}

func (f *fakeCatalog) FetchDetails(_ context.Context, itemID string) (models.ProductRecord, error) {
	detail, ok := f.details[itemID]
	if !ok {
		return nil, errors.New("detail not found")
	}
	return detail, nil
}

func (f *fakeCatalog) Name() string { return f.name }

func newTestService(source, target *fakeCatalog, cfg Config) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(
		logger,
		matching.NewScorer(logger, matching.DefaultScorerConfig()),
		query.NewGenerator(logger),
		query.NewValidator(logger),
		source,
		target,
		cfg,
	)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	sourceHit := models.ProductRecord{
		"id":    "s1",
		"title": "Sony Wireless Headphones",
		"brand": "Sony",
	}
	goodCandidate := models.ProductRecord{
		"basic_info": map[string]any{
			"id":    "t1",
			"name":  "Sony Wireless Headphones",
			"brand": "Sony",
		},
	}
	badCandidate := models.ProductRecord{
		"basic_info": map[string]any{
			"id":   "t2",
			"name": "Garden Hose Reel",
		},
	}

	t.Run("scores the cross product and ranks", func(t *testing.T) {
		source := &fakeCatalog{
			name:     "src",
			searches: map[string][]models.ProductRecord{"headphones": {sourceHit}},
		}
		target := &fakeCatalog{
			name:     "tgt",
			searches: map[string][]models.ProductRecord{"headphones": {badCandidate, goodCandidate}},
		}

		report, err := newTestService(source, target, Config{}).Run(ctx, "headphones", 0)
		require.NoError(t, err)

		assert.Equal(t, "headphones", report.SearchTerm)
		assert.Equal(t, 1, report.SourceCount)
		assert.Equal(t, 2, report.CandidateCount)
		assert.Equal(t, 2, report.Summary.Comparisons)
		require.Len(t, report.Results, 2)

		// best match ranks first regardless of search order
		assert.Equal(t, goodCandidate, report.Results[0].Candidate)
		assert.Greater(t, report.Results[0].Score.Total, report.Results[1].Score.Total)
		assert.Equal(t, report.Results[0].Score.Total, report.Summary.BestScore)
	})

	t.Run("result cap trims the ranking", func(t *testing.T) {
		source := &fakeCatalog{
			name:     "src",
			searches: map[string][]models.ProductRecord{"headphones": {sourceHit}},
		}
		target := &fakeCatalog{
			name:     "tgt",
			searches: map[string][]models.ProductRecord{"headphones": {badCandidate, goodCandidate}},
		}

		report, err := newTestService(source, target, Config{}).Run(ctx, "headphones", 1)
		require.NoError(t, err)

		require.Len(t, report.Results, 1)
		assert.Equal(t, goodCandidate, report.Results[0].Candidate)
		assert.Equal(t, 2, report.Summary.Comparisons)
	})

	t.Run("source search failure fails the run", func(t *testing.T) {
		source := &fakeCatalog{name: "src", searchErr: errors.New("boom")}
		target := &fakeCatalog{name: "tgt"}

		_, err := newTestService(source, target, Config{}).Run(ctx, "headphones", 0)
		assert.Error(t, err)
	})

	t.Run("detail records replace search hits", func(t *testing.T) {
		enriched := models.ProductRecord{
			"basic_info": map[string]any{
				"id":    "t1",
				"name":  "Sony Wireless Headphones",
				"brand": "Sony",
			},
			"pricing": map[string]any{"current_price": 349.99},
		}
		source := &fakeCatalog{
			name:     "src",
			searches: map[string][]models.ProductRecord{"headphones": {sourceHit}},
		}
		target := &fakeCatalog{
			name:     "tgt",
			searches: map[string][]models.ProductRecord{"headphones": {goodCandidate}},
			details:  map[string]models.ProductRecord{"t1": enriched},
		}

		report, err := newTestService(source, target, Config{}).Run(ctx, "headphones", 0)
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, enriched, report.Results[0].Candidate)
	})

	t.Run("failed detail fetch keeps the search record", func(t *testing.T) {
		source := &fakeCatalog{
			name:     "src",
			searches: map[string][]models.ProductRecord{"headphones": {sourceHit}},
		}
		target := &fakeCatalog{
			name:     "tgt",
			searches: map[string][]models.ProductRecord{"headphones": {goodCandidate}},
		}

		report, err := newTestService(source, target, Config{}).Run(ctx, "headphones", 0)
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, goodCandidate, report.Results[0].Candidate)
	})
}

func TestMatchRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("later tiers run only when earlier ones miss", func(t *testing.T) {
		source := models.ProductRecord{
			"brand": "Sony",
			"title": "Wireless Noise Cancelling Headphones",
		}
		candidate := models.ProductRecord{
			"basic_info": map[string]any{
				"id":    "t1",
				"name":  "Sony Wireless Noise Cancelling Headphones",
				"brand": "Sony",
			},
		}
		target := &fakeCatalog{
			name: "tgt",
			searches: map[string][]models.ProductRecord{
				"Sony": {candidate},
			},
		}

		svc := newTestService(&fakeCatalog{name: "src"}, target, Config{})
		report, err := svc.MatchRecord(ctx, source, "audio gear", 0)
		require.NoError(t, err)

		require.Equal(t, []string{
			"wireless noise cancelling headphones Sony",
			"Sony",
		}, target.queries)
		assert.Equal(t, []string{models.QueryStrategyBrand}, report.Summary.Strategies)
		assert.Equal(t, 1, report.CandidateCount)
	})

	t.Run("identifier hits must pass validation", func(t *testing.T) {
		source := models.ProductRecord{
			"specifications": map[string]any{"upc": "012345678905"},
			"brand":          "Sony",
			"title":          "Sony Wireless Headphones",
		}
		collision := models.ProductRecord{
			"basic_info": map[string]any{"id": "x1", "name": "Garden Hose Reel"},
		}
		related := models.ProductRecord{
			"basic_info": map[string]any{
				"id":    "t1",
				"name":  "Sony Wireless Headphones Black",
				"brand": "Sony",
			},
		}
		target := &fakeCatalog{
			name: "tgt",
			searches: map[string][]models.ProductRecord{
				"012345678905":                 {collision},
				"sony wireless headphones Sony": {related},
			},
		}

		svc := newTestService(&fakeCatalog{name: "src"}, target, Config{})
		report, err := svc.MatchRecord(ctx, source, "", 0)
		require.NoError(t, err)

		assert.Equal(t, []string{models.QueryStrategyTitleBrand}, report.Summary.Strategies)
		assert.Equal(t, 1, report.CandidateCount)
		require.Len(t, report.Results, 1)
		assert.Equal(t, related, report.Results[0].Candidate)
	})

	t.Run("duplicate catalog items collapse to the first", func(t *testing.T) {
		source := models.ProductRecord{"brand": "Sony", "title": "Wireless Headphones"}
		first := models.ProductRecord{
			"basic_info": map[string]any{"id": "t1", "name": "Sony Wireless Headphones"},
		}
		other := models.ProductRecord{
			"basic_info": map[string]any{"id": "t2", "name": "Sony Wired Headphones"},
		}
		target := &fakeCatalog{
			name: "tgt",
			searches: map[string][]models.ProductRecord{
				"wireless headphones Sony": {first, other, first},
			},
		}

		svc := newTestService(&fakeCatalog{name: "src"}, target, Config{})
		report, err := svc.MatchRecord(ctx, source, "", 0)
		require.NoError(t, err)
		assert.Equal(t, 2, report.CandidateCount)
	})

	t.Run("record with nothing to search on fails", func(t *testing.T) {
		svc := newTestService(&fakeCatalog{name: "src"}, &fakeCatalog{name: "tgt"}, Config{})
		_, err := svc.MatchRecord(ctx, models.ProductRecord{}, "", 0)
		assert.Error(t, err)
	})

	t.Run("exhausted cascade reports an empty run", func(t *testing.T) {
		source := models.ProductRecord{"brand": "Sony"}
		target := &fakeCatalog{name: "tgt", searches: map[string][]models.ProductRecord{}}

		svc := newTestService(&fakeCatalog{name: "src"}, target, Config{})
		report, err := svc.MatchRecord(ctx, source, "", 0)
		require.NoError(t, err)
		assert.Empty(t, report.Results)
		assert.Empty(t, report.Summary.Strategies)
		assert.Equal(t, 0, report.CandidateCount)
	})
}

func TestItemHelpers(t *testing.T) {
	t.Run("nested id and title", func(t *testing.T) {
		rec := models.ProductRecord{
			"basic_info": map[string]any{"id": "t1", "name": "Sony Headphones"},
		}
		assert.Equal(t, "t1", ItemID(rec))
		assert.Equal(t, "Sony Headphones", ItemTitle(rec))
	})

	t.Run("absent fields render empty", func(t *testing.T) {
		rec := models.ProductRecord{}
		assert.Equal(t, "", ItemID(rec))
		assert.Equal(t, "", ItemTitle(rec))
	})
}
