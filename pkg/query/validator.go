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

// typeKeywords is the closed set of product nouns used for the weakest
// relatedness check: if both titles name one of these, the pairing is
// plausible even with no other overlap.
var typeKeywords = map[string]struct{}{}

func init() {
	for _, kw := range []string{
		"chair", "table", "desk", "bed", "sofa", "couch", "dresser",
		"phone", "laptop", "computer", "tablet", "headphone", "speaker",
		"kitchen", "appliance", "dishwasher", "microwave", "refrigerator",
		"clothing", "shirt", "pants", "shoes", "boots", "jacket",
		"book", "game", "toy", "tool", "camera", "watch",
	} {
		typeKeywords[kw] = struct{}{}
	}
}

// minSharedKeywordLen filters trivial words out of the overlap check.
const minSharedKeywordLen = 3

// minSharedKeywords is how many meaningful words two records must share
// before a keyword overlap counts as relatedness.
const minSharedKeywords = 2

// Validator screens identifier-query results against the source record.
// Identifier searches occasionally return a code collision from a different
// product line, so a cheap relatedness check runs before any scoring.
type Validator struct {
	log ectologger.Logger
	ext *extractor.Extractor
}

// NewValidator creates a new identifier-result Validator.
func NewValidator(log ectologger.Logger) *Validator {
	return &Validator{
		log: log,
		ext: extractor.New(),
	}
}

// FilterRelated keeps the candidates that look related to the source record.
// A candidate passes when any of the following hold:
//   - the brands match exactly (case-insensitive)
//   - the titles and brands share at least two meaningful keywords
//   - both titles name the same product-type keyword
//
// Order is preserved. The caller decides what to do with an empty result.
func (v *Validator) FilterRelated(ctx context.Context, source models.ProductRecord, candidates []models.ProductRecord) []models.ProductRecord {
	ctx, span := tracing.StartSpan(ctx, "query.Validator.FilterRelated")
	defer span.End()

	var kept []models.ProductRecord
	for _, candidate := range candidates {
		if v.related(source, candidate) {
			kept = append(kept, candidate)
		}
	}

	if v.log != nil {
		v.log.WithContext(ctx).WithFields(map[string]any{
			"candidates": len(candidates),
			"kept":       len(kept),
		}).Debug("Validated identifier search results")
	}

	return kept
}

func (v *Validator) related(source, candidate models.ProductRecord) bool {
	sourceBrand := strings.ToLower(strings.TrimSpace(v.ext.FirstString(source, brandQueryPaths)))
	candidateBrand := strings.ToLower(strings.TrimSpace(v.ext.FirstString(candidate, brandQueryPaths)))

	if sourceBrand != "" && sourceBrand == candidateBrand {
		return true
	}

	sourceTitle := strings.ToLower(v.ext.FirstString(source, titleQueryPaths))
	candidateTitle := strings.ToLower(v.ext.FirstString(candidate, titleQueryPaths))

	sourceWords := keywordSet(sourceTitle + " " + sourceBrand)
	candidateWords := keywordSet(candidateTitle + " " + candidateBrand)

	shared := 0
	for word := range sourceWords {
		if _, ok := candidateWords[word]; ok {
			shared++
			if shared >= minSharedKeywords {
				return true
			}
		}
	}

	return sameTypeKeyword(sourceTitle, candidateTitle)
}

// keywordSet tokenizes text into the meaningful words used for overlap checks
func keywordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range normalizers.Tokenize(text) {
		if len(word) > minSharedKeywordLen {
			set[word] = struct{}{}
		}
	}
	return set
}

// sameTypeKeyword reports whether both titles mention a common entry from
// the product-type vocabulary.
func sameTypeKeyword(sourceTitle, candidateTitle string) bool {
	if sourceTitle == "" || candidateTitle == "" {
		return false
	}
	for keyword := range typeKeywords {
		if strings.Contains(sourceTitle, keyword) && strings.Contains(candidateTitle, keyword) {
			return true
		}
	}
	return false
}
