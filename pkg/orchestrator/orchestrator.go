// Package orchestrator drives the end-to-end matching workflow: search the
// catalogs, enrich the hits with detail records, score every source/candidate
// pair, and rank the results.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/catalog"
	"github.com/Ramsey-B/clover/pkg/extractor"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// idPaths locate a record's own catalog identifier, used only to drop
// duplicate candidates. Distinct from product identifiers like UPC.
var idPaths = []string{
	"id",
	"item_id",
	"tcin",
	"sku",
	"basic_info.id",
}

var titlePaths = []string{
	"title",
	"basic_info.name",
}

var recordExt = extractor.New()

// ItemID returns a record's catalog identifier, empty when absent
func ItemID(rec models.ProductRecord) string {
	return recordExt.FirstString(rec, idPaths)
}

// ItemTitle returns a record's display title, empty when absent
func ItemTitle(rec models.ProductRecord) string {
	return recordExt.FirstString(rec, titlePaths)
}

// Config tunes the orchestrated workflow.
type Config struct {
	// MaxResults caps how many ranked results a run reports
	MaxResults int
	// SourceFetchDelay is the pause between detail fetches on the source catalog
	SourceFetchDelay time.Duration
	// TargetFetchDelay is the pause between detail fetches on the target catalog
	TargetFetchDelay time.Duration
}

// RunReport is the in-memory outcome of one matching run.
type RunReport struct {
	SearchTerm     string                  `json:"search_term,omitempty"`
	SourceCount    int                     `json:"source_count"`
	CandidateCount int                     `json:"candidate_count"`
	Results        []models.MatchingResult `json:"results"`
	Summary        models.RunSummary       `json:"summary"`
}

// Service coordinates catalogs, the query cascade and the scorer. Individual
// catalog failures are logged and skipped; a run only fails when it cannot
// produce any pairs at all.
type Service struct {
	log       ectologger.Logger
	scorer    *matching.Scorer
	generator *query.Generator
	validator *query.Validator
	source    catalog.Catalog
	target    catalog.Catalog
	ext       *extractor.Extractor
	cfg       Config
}

// NewService creates a matching workflow service.
func NewService(
	log ectologger.Logger,
	scorer *matching.Scorer,
	generator *query.Generator,
	validator *query.Validator,
	source catalog.Catalog,
	target catalog.Catalog,
	cfg Config,
) *Service {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	return &Service{
		log:       log,
		scorer:    scorer,
		generator: generator,
		validator: validator,
		source:    source,
		target:    target,
		ext:       extractor.New(),
		cfg:       cfg,
	}
}

// Run searches both catalogs with the same term, enriches every hit, scores
// the full cross product and returns the ranked report.
func (s *Service) Run(ctx context.Context, searchTerm string, maxResults int) (*RunReport, error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Service.Run")
	defer span.End()

	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"search_term": searchTerm,
	})
	log.Info("Starting matching run")

	sourceHits, err := s.source.Search(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("search source catalog: %w", err)
	}
	targetHits, err := s.target.Search(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("search target catalog: %w", err)
	}

	sources := s.enrich(ctx, s.source, sourceHits, s.cfg.SourceFetchDelay)
	candidates := s.enrich(ctx, s.target, targetHits, s.cfg.TargetFetchDelay)

	report := s.compareAll(ctx, sources, candidates, maxResults)
	report.SearchTerm = searchTerm

	log.WithFields(map[string]any{
		"sources":    report.SourceCount,
		"candidates": report.CandidateCount,
		"results":    len(report.Results),
		"best_score": report.Summary.BestScore,
	}).Info("Matching run completed")

	return report, nil
}

// MatchRecord matches one known source record against the target catalog,
// walking the query cascade lazily: each tier is only searched when every
// earlier tier produced no usable candidates.
func (s *Service) MatchRecord(ctx context.Context, source models.ProductRecord, fallbackTerm string, maxResults int) (*RunReport, error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Service.MatchRecord")
	defer span.End()

	plan := s.generator.BuildPlan(ctx, source, fallbackTerm)
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("no usable search queries for source record")
	}

	var (
		hits     []models.ProductRecord
		strategy string
	)
	for _, step := range plan.Steps {
		stepLog := s.log.WithContext(ctx).WithFields(map[string]any{
			"strategy": step.Strategy,
			"query":    step.Query,
		})

		found, err := s.target.Search(ctx, step.Query)
		if err != nil {
			stepLog.WithError(err).Warn("Query step failed, trying next strategy")
			continue
		}
		if step.Validate {
			found = s.validator.FilterRelated(ctx, source, found)
		}
		if len(found) == 0 {
			stepLog.Debug("Query step produced no usable candidates")
			continue
		}

		hits = found
		strategy = step.Strategy
		stepLog.WithFields(map[string]any{"candidates": len(found)}).Info("Query step produced candidates")
		break
	}

	candidates := s.enrich(ctx, s.target, dedupeByID(s.ext, hits), s.cfg.TargetFetchDelay)

	report := s.compareAll(ctx, []models.ProductRecord{source}, candidates, maxResults)
	if strategy != "" {
		report.Summary.Strategies = []string{strategy}
	}
	return report, nil
}

// compareAll scores the full source x candidate cross product, ranks it and
// trims to the result cap.
func (s *Service) compareAll(ctx context.Context, sources, candidates []models.ProductRecord, maxResults int) *RunReport {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Service.compareAll")
	defer span.End()

	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}

	report := &RunReport{
		SourceCount:    len(sources),
		CandidateCount: len(candidates),
		Summary: models.RunSummary{
			ByBucket: make(map[models.ConfidenceLevel]int),
		},
	}

	now := time.Now().UTC()
	for _, src := range sources {
		for _, cand := range candidates {
			score := s.scorer.Score(ctx, src, cand)
			report.Summary.Comparisons++
			report.Summary.ByBucket[score.Confidence]++
			if score.Total > report.Summary.BestScore {
				report.Summary.BestScore = score.Total
			}
			report.Results = append(report.Results, models.MatchingResult{
				Source:    src,
				Candidate: cand,
				Score:     score,
				Timestamp: now,
			})
		}
	}

	// Stable sort keeps comparison order for equal totals, so ranking is
	// deterministic for a given input order.
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Score.Total > report.Results[j].Score.Total
	})
	if len(report.Results) > maxResults {
		report.Results = report.Results[:maxResults]
	}

	return report
}

// enrich swaps each search hit for its full detail record. A failed or
// missing detail fetch keeps the shallow search record instead of dropping
// the item.
func (s *Service) enrich(ctx context.Context, cat catalog.Catalog, hits []models.ProductRecord, delay time.Duration) []models.ProductRecord {
	out := make([]models.ProductRecord, 0, len(hits))
	for i, hit := range hits {
		if i > 0 && delay > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				s.log.WithContext(ctx).WithError(err).Warn("Detail enrichment interrupted")
				return append(out, hits[i:]...)
			}
		}

		id := s.ext.FirstString(hit, idPaths)
		if id == "" {
			out = append(out, hit)
			continue
		}

		detail, err := cat.FetchDetails(ctx, id)
		if err != nil {
			s.log.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"catalog": cat.Name(),
				"item_id": id,
			}).Warn("Detail fetch failed, keeping search record")
			out = append(out, hit)
			continue
		}
		out = append(out, detail)
	}
	return out
}

// dedupeByID drops repeat catalog items, keeping the first occurrence
func dedupeByID(ext *extractor.Extractor, records []models.ProductRecord) []models.ProductRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.ProductRecord, 0, len(records))
	for _, rec := range records {
		id := ext.FirstString(rec, idPaths)
		if id == "" {
			out = append(out, rec)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// sleepCtx pauses between catalog calls, respecting cancellation
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
