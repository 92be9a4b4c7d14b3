package matchrun

import (
	"context"
	"fmt"
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

// Repository handles match run persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match run repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create records a new run in the running state
func (r *Repository) Create(ctx context.Context, run *models.MatchRun) (*models.MatchRun, error) {
	ctx, span := tracing.StartSpan(ctx, "matchrun.Repository.Create")
	defer span.End()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now().UTC()
	run.Status = models.MatchRunStatusRunning

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_runs")
	sb.Cols("id", "tenant_id", "search_term", "status", "created_at")
	sb.Values(run.ID, run.TenantID, run.SearchTerm, run.Status, run.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": run.ID}).Error("Failed to create match run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match run")
	}

	return run, nil
}

// Complete finalizes a run with its counts and summary
func (r *Repository) Complete(ctx context.Context, run *models.MatchRun) error {
	ctx, span := tracing.StartSpan(ctx, "matchrun.Repository.Complete")
	defer span.End()

	now := time.Now().UTC()
	run.Status = models.MatchRunStatusCompleted
	run.CompletedAt = &now

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("match_runs")
	sb.Set(
		sb.Assign("status", run.Status),
		sb.Assign("source_count", run.SourceCount),
		sb.Assign("candidate_count", run.CandidateCount),
		sb.Assign("comparison_count", run.ComparisonCount),
		sb.Assign("best_score", run.BestScore),
		sb.Assign("best_confidence", run.BestConfidence),
		sb.Assign("summary", []byte(run.Summary)),
		sb.Assign("completed_at", now),
	)
	sb.Where(
		sb.Equal("id", run.ID),
		sb.Equal("tenant_id", run.TenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": run.ID}).Error("Failed to complete match run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to complete match run")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match run %s not found", run.ID))
	}

	return nil
}

// Fail marks a run as failed
func (r *Repository) Fail(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "matchrun.Repository.Fail")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("match_runs")
	sb.Set(
		sb.Assign("status", models.MatchRunStatusFailed),
		sb.Assign("completed_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": id}).Error("Failed to mark match run as failed")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update match run")
	}

	return nil
}

// Get retrieves a match run by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.MatchRun, error) {
	ctx, span := tracing.StartSpan(ctx, "matchrun.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "search_term", "status", "source_count", "candidate_count", "comparison_count", "best_score", "best_confidence", "summary", "created_at", "completed_at")
	sb.From("match_runs")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var run models.MatchRun
	if err := r.db.GetContext(ctx, &run, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match run %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match run")
	}

	return &run, nil
}

// List retrieves recent match runs, newest first
func (r *Repository) List(ctx context.Context, tenantID string, limit int) ([]models.MatchRun, error) {
	ctx, span := tracing.StartSpan(ctx, "matchrun.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "search_term", "status", "source_count", "candidate_count", "comparison_count", "best_score", "best_confidence", "summary", "created_at", "completed_at")
	sb.From("match_runs")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var runs []models.MatchRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list match runs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match runs")
	}

	return runs, nil
}
