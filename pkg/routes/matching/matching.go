package matching

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ctxmiddleware "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/processor"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var validate = validator.New()

// Register registers matching routes
func Register(g *echo.Group) {
	g.POST("/match", RunMatch)
	g.POST("/score", ScorePair)
	g.POST("/queries", PreviewQueries)
}

// MatchResponse is the synchronous result of a matching request
type MatchResponse struct {
	Run     *models.MatchRun      `json:"run"`
	Results []*models.MatchResult `json:"results"`
}

// RunMatch executes a matching request and returns the persisted run with
// its ranked results
func RunMatch(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matching_handler.RunMatch")
	defer span.End()

	tenantID := ctxmiddleware.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.MatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get processor")
	}

	requestID := ctxmiddleware.GetRequestID(ctx)
	run, results, err := proc.Execute(ctx, tenantID, requestID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MatchResponse{Run: run, Results: results})
}

// ScorePair scores one source/candidate pair without searching or persisting
func ScorePair(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matching_handler.ScorePair")
	defer span.End()

	var req models.ScorePairRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, scorer, err := ectoinject.GetContext[*matching.Scorer](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get scorer")
	}

	score := scorer.Score(ctx, req.Source, req.Candidate)
	return c.JSON(http.StatusOK, score)
}

// PreviewQueries returns the query cascade a source record would produce
func PreviewQueries(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matching_handler.PreviewQueries")
	defer span.End()

	var req models.QueryPlanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, generator, err := ectoinject.GetContext[*query.Generator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get query generator")
	}

	plan := generator.BuildPlan(ctx, req.Source, req.FallbackTerm)
	return c.JSON(http.StatusOK, plan)
}
