// Package events handles event emission for matching run lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes matching run outcomes
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitRunCompleted emits a run.completed event with the run's summary
func (e *Emitter) EmitRunCompleted(ctx context.Context, run *models.MatchRun, requestID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitRunCompleted")
	defer span.End()

	event := &kafka.MatchEvent{
		EventType:  string(EventTypeRunCompleted),
		TenantID:   run.TenantID,
		RunID:      run.ID,
		RequestID:  requestID,
		Score:      run.BestScore,
		Confidence: run.BestConfidence,
		Summary:    run.Summary,
	}

	if err := e.producer.PublishMatchEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit run.completed event")
		return err
	}

	return nil
}

// EmitRunFailed emits a run.failed event
func (e *Emitter) EmitRunFailed(ctx context.Context, tenantID string, runID string, requestID string, reason string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitRunFailed")
	defer span.End()

	summary, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"reason":         reason,
	})

	event := &kafka.MatchEvent{
		EventType: string(EventTypeRunFailed),
		TenantID:  tenantID,
		RunID:     runID,
		RequestID: requestID,
		Summary:   summary,
	}

	if err := e.producer.PublishMatchEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit run.failed event")
		return err
	}

	return nil
}

// EmitMatchesFound emits one match.found event per confident result in a
// single batch
func (e *Emitter) EmitMatchesFound(ctx context.Context, run *models.MatchRun, results []*models.MatchResult, minConfidence models.ConfidenceLevel) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchesFound")
	defer span.End()

	var events []*kafka.MatchEvent
	for _, res := range results {
		if res.Confidence.Rank() < minConfidence.Rank() {
			continue
		}
		events = append(events, &kafka.MatchEvent{
			EventType:       string(EventTypeMatchFound),
			TenantID:        run.TenantID,
			RunID:           run.ID,
			SourceItemID:    res.SourceItemID,
			CandidateItemID: res.CandidateItemID,
			Score:           res.Score,
			Confidence:      res.Confidence,
			Summary:         res.Breakdown,
		})
	}
	if len(events) == 0 {
		return nil
	}

	if err := e.producer.PublishMatchEvents(ctx, events); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.found events")
		return err
	}

	return nil
}
