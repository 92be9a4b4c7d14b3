// Package processor handles incoming match request messages. It drives the
// matching workflow for each request, persists the run and its ranked
// results, and publishes outcome events.
package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/repositories/matchrun"
	"github.com/Ramsey-B/clover/internal/repositories/matchresult"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/orchestrator"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Config tunes request processing
type Config struct {
	// MaxResults caps ranked results per run when the request does not set one
	MaxResults int
	// PersistNoMatches keeps zero-confidence comparisons in match_results
	PersistNoMatches bool
	// EmitEvents publishes run and match events after each run
	EmitEvents bool
	// EventMinConfidence is the lowest confidence that produces a match.found event
	EventMinConfidence models.ConfidenceLevel
}

// Processor consumes match requests and runs them through the workflow
type Processor struct {
	logger     ectologger.Logger
	service    *orchestrator.Service
	runRepo    *matchrun.Repository
	resultRepo *matchresult.Repository
	emitter    *events.Emitter
	cfg        Config
}

// NewProcessor creates a new match request processor. The emitter may be nil
// when event emission is disabled.
func NewProcessor(
	logger ectologger.Logger,
	service *orchestrator.Service,
	runRepo *matchrun.Repository,
	resultRepo *matchresult.Repository,
	emitter *events.Emitter,
	cfg Config,
) *Processor {
	if cfg.EventMinConfidence == "" {
		cfg.EventMinConfidence = models.ConfidenceMedium
	}
	return &Processor{
		logger:     logger,
		service:    service,
		runRepo:    runRepo,
		resultRepo: resultRepo,
		emitter:    emitter,
		cfg:        cfg,
	}
}

// ProcessMessage handles one match request message. Returning an error leaves
// the message uncommitted so it is retried.
func (p *Processor) ProcessMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessMessage")
	defer span.End()

	req := msg.MatchRequest
	if req == nil {
		return fmt.Errorf("message has no parsed match request")
	}

	_, _, err := p.Execute(ctx, msg.GetTenantID(), msg.GetRequestID(), &req.MatchRequest)
	return err
}

// Execute runs one matching request end to end: it records the run, drives
// the workflow, persists the ranked results and publishes outcome events.
// Shared by the Kafka consumer and the HTTP API.
func (p *Processor) Execute(ctx context.Context, tenantID string, requestID string, req *models.MatchRequest) (*models.MatchRun, []*models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Execute")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":  tenantID,
		"request_id": requestID,
	})

	run, err := p.runRepo.Create(ctx, &models.MatchRun{
		TenantID:   tenantID,
		SearchTerm: p.runLabel(req),
	})
	if err != nil {
		return nil, nil, err
	}

	report, err := p.runWorkflow(ctx, req)
	if err != nil {
		log.WithError(err).Error("Matching run failed")
		if failErr := p.runRepo.Fail(ctx, tenantID, run.ID); failErr != nil {
			log.WithError(failErr).Error("Failed to mark run as failed")
		}
		if p.cfg.EmitEvents && p.emitter != nil {
			if emitErr := p.emitter.EmitRunFailed(ctx, tenantID, run.ID, requestID, err.Error()); emitErr != nil {
				log.WithError(emitErr).Error("Failed to emit run.failed event")
			}
		}
		return nil, nil, err
	}

	results := p.buildResults(tenantID, run.ID, report)
	if err := p.resultRepo.ReplaceForRun(ctx, tenantID, run.ID, results); err != nil {
		return nil, nil, err
	}

	run.SourceCount = report.SourceCount
	run.CandidateCount = report.CandidateCount
	run.ComparisonCount = report.Summary.Comparisons
	run.BestScore = report.Summary.BestScore
	run.BestConfidence = models.ConfidenceForScore(report.Summary.BestScore)
	run.Summary, _ = json.Marshal(report.Summary)
	if err := p.runRepo.Complete(ctx, run); err != nil {
		return nil, nil, err
	}

	if p.cfg.EmitEvents && p.emitter != nil {
		if err := p.emitter.EmitRunCompleted(ctx, run, requestID); err != nil {
			log.WithError(err).Error("Failed to emit run.completed event")
		}
		if err := p.emitter.EmitMatchesFound(ctx, run, results, p.cfg.EventMinConfidence); err != nil {
			log.WithError(err).Error("Failed to emit match.found events")
		}
	}

	log.WithFields(map[string]any{
		"run_id":     run.ID,
		"results":    len(results),
		"best_score": run.BestScore,
	}).Info("Processed match request")

	return run, results, nil
}

// runWorkflow picks the workflow for the request: a search term drives both
// catalogs, a source record drives the query cascade.
func (p *Processor) runWorkflow(ctx context.Context, req *models.MatchRequest) (*orchestrator.RunReport, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = p.cfg.MaxResults
	}

	if req.SearchTerm != "" {
		return p.service.Run(ctx, req.SearchTerm, maxResults)
	}
	return p.service.MatchRecord(ctx, req.Source, req.FallbackTerm, maxResults)
}

// runLabel names the run in the match_runs table
func (p *Processor) runLabel(req *models.MatchRequest) string {
	if req.SearchTerm != "" {
		return req.SearchTerm
	}
	if title := orchestrator.ItemTitle(req.Source); title != "" {
		return title
	}
	return req.FallbackTerm
}

// buildResults converts a ranked report into persistable rows
func (p *Processor) buildResults(tenantID, runID string, report *orchestrator.RunReport) []*models.MatchResult {
	var rows []*models.MatchResult
	for i, res := range report.Results {
		if !p.cfg.PersistNoMatches && res.Score.Confidence == models.ConfidenceNoMatch {
			continue
		}
		rows = append(rows, &models.MatchResult{
			TenantID:        tenantID,
			RunID:           runID,
			Rank:            i + 1,
			SourceItemID:    orchestrator.ItemID(res.Source),
			CandidateItemID: orchestrator.ItemID(res.Candidate),
			SourceTitle:     orchestrator.ItemTitle(res.Source),
			CandidateTitle:  orchestrator.ItemTitle(res.Candidate),
			Score:           res.Score.Total,
			Confidence:      res.Score.Confidence,
			Breakdown:       res.Score.BreakdownJSON(),
		})
	}
	return rows
}
