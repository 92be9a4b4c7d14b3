// Package query builds the cascading search-query plan used to find
// candidate products on the target catalog, from most to least precise:
// identifier, title+brand, brand only, then the caller's fallback term.
package query

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/extractor"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// identifierQueryPaths are probed on the source record for a numeric code
// precise enough to search the target catalog directly.
var identifierQueryPaths = []string{
	"specifications.upc",
	"specifications.gtin",
	"specifications.ean",
	"matching_data.barcode",
	"barcode",
	"gtin",
	"upc",
}

var brandQueryPaths = []string{
	"brand",
	"specifications.brand_name",
	"basic_info.brand",
}

var titleQueryPaths = []string{
	"title",
	"basic_info.name",
}

// minIdentifierQueryDigits is the shortest digit string trusted as a
// standalone search query; shorter codes hit too much unrelated inventory.
const minIdentifierQueryDigits = 10

// maxTitleQueryWords keeps title queries short enough for search indexes
// that over-penalize long queries.
const maxTitleQueryWords = 8

// Generator derives query plans from source records. Stateless; safe for
// concurrent use.
type Generator struct {
	log ectologger.Logger
	ext *extractor.Extractor
}

// NewGenerator creates a new query plan Generator.
func NewGenerator(log ectologger.Logger) *Generator {
	return &Generator{
		log: log,
		ext: extractor.New(),
	}
}

// BuildPlan produces the ordered query plan for a source record. Each tier
// is added only when its fields are present and when it differs from every
// earlier query; the identifier tier is flagged for result validation.
// Deterministic for a given record and fallback term.
func (g *Generator) BuildPlan(ctx context.Context, source models.ProductRecord, fallbackTerm string) models.QueryPlan {
	ctx, span := tracing.StartSpan(ctx, "query.Generator.BuildPlan")
	defer span.End()

	plan := models.QueryPlan{}

	if id := g.identifierQuery(source); id != "" {
		plan.Steps = append(plan.Steps, models.QueryStep{
			Query:    id,
			Strategy: models.QueryStrategyIdentifier,
			Validate: true,
		})
	}

	brand := strings.TrimSpace(g.ext.FirstString(source, brandQueryPaths))

	if titleQuery := g.titleQuery(source, brand); titleQuery != "" && !plan.Contains(titleQuery) {
		plan.Steps = append(plan.Steps, models.QueryStep{
			Query:    titleQuery,
			Strategy: models.QueryStrategyTitleBrand,
		})
	}

	if brand != "" && !plan.Contains(brand) {
		plan.Steps = append(plan.Steps, models.QueryStep{
			Query:    brand,
			Strategy: models.QueryStrategyBrand,
		})
	}

	fallbackTerm = strings.TrimSpace(fallbackTerm)
	if fallbackTerm != "" && !plan.Contains(fallbackTerm) {
		plan.Steps = append(plan.Steps, models.QueryStep{
			Query:    fallbackTerm,
			Strategy: models.QueryStrategyFallback,
		})
	}

	if g.log != nil {
		g.log.WithContext(ctx).WithFields(map[string]any{
			"steps": len(plan.Steps),
		}).Debug("Built query plan")
	}

	return plan
}

// identifierQuery scans the known identifier paths and returns the first
// value that strips to a digit string long enough to search on.
func (g *Generator) identifierQuery(source models.ProductRecord) string {
	for _, path := range identifierQueryPaths {
		raw := g.ext.ExtractString(source, path)
		if raw == "" {
			continue
		}
		digits := normalizers.DigitsOnly(raw)
		if len(digits) >= minIdentifierQueryDigits {
			return digits
		}
	}
	return ""
}

// titleQuery builds a concise search string from the source title's first
// meaningful words, appending the brand when present.
func (g *Generator) titleQuery(source models.ProductRecord, brand string) string {
	title := g.ext.FirstString(source, titleQueryPaths)
	if title == "" {
		return ""
	}

	words := normalizers.MeaningfulWords(title, maxTitleQueryWords)
	if len(words) == 0 {
		return ""
	}

	queryTitle := strings.Join(words, " ")
	if brand != "" {
		return queryTitle + " " + brand
	}
	return queryTitle
}
