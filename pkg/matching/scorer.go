// Package matching compares heterogeneous product records from two catalogs
// and produces an additive, auditable match score:
// - each attribute matcher is an independent pure function of the pair
// - a matcher with no evidence abstains (no breakdown entry), it never
//   reports a mismatch
// - the total is exactly the sum of the breakdown contributions
package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/extractor"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Attribute weights. Title, dimensions, weight and product type are tiered;
// the rest are all-or-nothing.
const (
	weightIdentifier = 100.0
	weightModel      = 80.0
	weightBrand      = 40.0
	weightTitleHigh  = 70.0
	weightTitleMed   = 50.0
	weightTitleLow   = 30.0
	weightDimsExact  = 60.0
	weightDimsClose  = 40.0
	weightExact      = 50.0
	weightClose      = 30.0
	weightPrice      = 25.0
	weightCategory   = 20.0
	weightColor      = 15.0
	weightMaterial   = 15.0
	weightFeature    = 5.0

	modelPartialFactor    = 0.7
	brandSimilarFactor    = 0.8
	categoryRelatedFactor = 0.7
)

// Breakdown labels, in the order matchers run
const (
	LabelIdentifier  = "upc_match"
	LabelModel       = "model_match"
	LabelBrand       = "brand_match"
	LabelTitle       = "title_similarity"
	LabelDimensions  = "dimensions_match"
	LabelWeight      = "weight_match"
	LabelPrice       = "price_match"
	LabelCategory    = "category_match"
	LabelColor       = "color_match"
	LabelMaterial    = "material_match"
	LabelFeatures    = "feature_keywords"
	LabelProductType = "product_compatibility"
)

// ScorerConfig contains configuration for the scorer.
type ScorerConfig struct {
	// EnableCategory turns the category/breadcrumb matcher on. It is off by
	// default: category taxonomies proved unreliable across catalogs.
	EnableCategory bool
}

// DefaultScorerConfig returns the default scorer configuration.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		EnableCategory: false,
	}
}

// Scorer compares a source record against a candidate record attribute by
// attribute. Stateless between calls; safe for concurrent use.
type Scorer struct {
	log ectologger.Logger
	ext *extractor.Extractor
	cfg ScorerConfig
}

// NewScorer creates a new Scorer.
func NewScorer(log ectologger.Logger, cfg ScorerConfig) *Scorer {
	return &Scorer{
		log: log,
		ext: extractor.New(),
		cfg: cfg,
	}
}

// Score runs every attribute matcher over the pair and aggregates the
// non-zero contributions into a MatchScore. Matchers never see each other's
// output and a matcher that cannot find or parse its fields contributes
// nothing rather than failing the comparison.
func (s *Scorer) Score(ctx context.Context, source, candidate models.ProductRecord) models.MatchScore {
	ctx, span := tracing.StartSpan(ctx, "matching.Scorer.Score")
	defer span.End()

	type matcher struct {
		label string
		fn    func(source, candidate models.ProductRecord) float64
	}

	matchers := []matcher{
		{LabelIdentifier, s.matchIdentifier},
		{LabelModel, s.matchModel},
		{LabelBrand, s.matchBrand},
		{LabelTitle, s.matchTitle},
		{LabelDimensions, s.matchDimensions},
		{LabelWeight, s.matchWeight},
		{LabelPrice, s.matchPrice},
	}
	if s.cfg.EnableCategory {
		matchers = append(matchers, matcher{LabelCategory, s.matchCategory})
	}
	matchers = append(matchers,
		matcher{LabelColor, s.matchColor},
		matcher{LabelMaterial, s.matchMaterial},
		matcher{LabelFeatures, s.matchFeatures},
		matcher{LabelProductType, s.matchProductType},
	)

	score := models.MatchScore{}
	for _, m := range matchers {
		points := m.fn(source, candidate)
		if points <= 0 {
			continue
		}
		score.Total += points
		score.Breakdown = append(score.Breakdown, models.ScoreContribution{
			Label:  m.label,
			Points: points,
		})
	}
	score.Confidence = models.ConfidenceForScore(score.Total)

	if s.log != nil {
		s.log.WithContext(ctx).WithFields(map[string]any{
			"total":        score.Total,
			"confidence":   score.Confidence,
			"contributors": len(score.Breakdown),
		}).Debug("Scored product pair")
	}

	return score
}
