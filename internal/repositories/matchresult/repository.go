package matchresult

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Repository handles ranked match result persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match result repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch persists a run's ranked results in one statement
func (r *Repository) CreateBatch(ctx context.Context, results []*models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.CreateBatch")
	defer span.End()

	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_results")
	sb.Cols("id", "tenant_id", "run_id", "rank", "source_item_id", "candidate_item_id", "source_title", "candidate_title", "score", "confidence", "breakdown", "created_at")

	for _, res := range results {
		if res.ID == "" {
			res.ID = uuid.New().String()
		}
		res.CreatedAt = now
		sb.Values(res.ID, res.TenantID, res.RunID, res.Rank, res.SourceItemID, res.CandidateItemID, res.SourceTitle, res.CandidateTitle, res.Score, res.Confidence, []byte(res.Breakdown), res.CreatedAt)
	}

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create match results batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match results")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(results)}).Debug("Created match results batch")
	return nil
}

// ReplaceForRun swaps a run's results for a new ranked set in one
// transaction, so a reprocessed request never leaves a mixed ranking
func (r *Repository) ReplaceForRun(ctx context.Context, tenantID string, runID string, results []*models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.ReplaceForRun")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	del := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	del.DeleteFrom("match_results")
	del.Where(
		del.Equal("tenant_id", tenantID),
		del.Equal("run_id", runID),
	)
	query, args := del.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to clear match results for run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace match results")
	}

	if len(results) > 0 {
		now := time.Now().UTC()
		sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
		sb.InsertInto("match_results")
		sb.Cols("id", "tenant_id", "run_id", "rank", "source_item_id", "candidate_item_id", "source_title", "candidate_title", "score", "confidence", "breakdown", "created_at")
		for _, res := range results {
			if res.ID == "" {
				res.ID = uuid.New().String()
			}
			res.CreatedAt = now
			sb.Values(res.ID, res.TenantID, res.RunID, res.Rank, res.SourceItemID, res.CandidateItemID, res.SourceTitle, res.CandidateTitle, res.Score, res.Confidence, []byte(res.Breakdown), res.CreatedAt)
		}

		query, args = sb.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to insert match results for run")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace match results")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit match results")
	}

	return nil
}

// ListByRun retrieves a run's results in rank order
func (r *Repository) ListByRun(ctx context.Context, tenantID string, runID string) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.ListByRun")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "run_id", "rank", "source_item_id", "candidate_item_id", "source_title", "candidate_title", "score", "confidence", "breakdown", "created_at")
	sb.From("match_results")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("run_id", runID),
	)
	sb.OrderBy("rank ASC")

	query, args := sb.Build()
	var results []models.MatchResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list match results")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match results")
	}

	return results, nil
}

// ListTopByConfidence retrieves the best results at or above a confidence
// rank across recent runs
func (r *Repository) ListTopByConfidence(ctx context.Context, tenantID string, minConfidence models.ConfidenceLevel, limit int) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.ListTopByConfidence")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	levels := make([]any, 0, 6)
	for _, level := range []models.ConfidenceLevel{
		models.ConfidenceVeryHigh,
		models.ConfidenceHigh,
		models.ConfidenceMedium,
		models.ConfidenceLow,
		models.ConfidenceVeryLow,
		models.ConfidenceNoMatch,
	} {
		if level.Rank() >= minConfidence.Rank() {
			levels = append(levels, level)
		}
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "run_id", "rank", "source_item_id", "candidate_item_id", "source_title", "candidate_title", "score", "confidence", "breakdown", "created_at")
	sb.From("match_results")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.In("confidence", levels...),
	)
	sb.OrderBy("score DESC", "created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var results []models.MatchResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list top match results")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match results")
	}

	return results, nil
}

// DeleteByRun removes all results for a run
func (r *Repository) DeleteByRun(ctx context.Context, tenantID string, runID string) error {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.DeleteByRun")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("match_results")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("run_id", runID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete match results by run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete match results")
	}

	return nil
}
