package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// matchIdentifier compares UPC/GTIN/EAN codes: exact equality after stripping
// non-digits, requiring more than 8 digits to avoid matching truncated codes.
func (s *Scorer) matchIdentifier(source, candidate models.ProductRecord) float64 {
	sourceID := normalizers.DigitsOnly(s.ext.FirstString(source, identifierPaths[sideSource]))
	candidateID := normalizers.DigitsOnly(s.ext.FirstString(candidate, identifierPaths[sideTarget]))

	if len(sourceID) > 8 && len(candidateID) > 8 && sourceID == candidateID {
		return weightIdentifier
	}
	return 0
}

// matchModel compares model numbers. An exact match earns full weight; one
// model contained in the other earns a reduced score, since catalogs often
// append revision or color suffixes.
func (s *Scorer) matchModel(source, candidate models.ProductRecord) float64 {
	sourceModel := strings.ToLower(s.ext.FirstString(source, modelPaths[sideSource]))
	candidateModel := strings.ToLower(s.ext.FirstString(candidate, modelPaths[sideTarget]))

	if sourceModel == "" || candidateModel == "" || len(sourceModel) <= 3 {
		return 0
	}

	if sourceModel == candidateModel {
		return weightModel
	}
	if strings.Contains(sourceModel, candidateModel) || strings.Contains(candidateModel, sourceModel) {
		return weightModel * modelPartialFactor
	}
	return 0
}

// matchBrand compares brand strings, falling back to the curated alias table
// at a reduced weight for known variations.
func (s *Scorer) matchBrand(source, candidate models.ProductRecord) float64 {
	sourceBrand := normalizers.NormalizeBrand(s.ext.FirstString(source, brandPaths[sideSource]))
	candidateBrand := normalizers.NormalizeBrand(s.ext.FirstString(candidate, brandPaths[sideTarget]))

	if sourceBrand == "" || candidateBrand == "" {
		return 0
	}

	if sourceBrand == candidateBrand {
		return weightBrand
	}
	if brandsSimilar(sourceBrand, candidateBrand) {
		return weightBrand * brandSimilarFactor
	}
	return 0
}

// matchTitle scores title similarity: Jaccard over normalized token sets,
// plus a capped bonus for each shared token, banded into tiered weights.
func (s *Scorer) matchTitle(source, candidate models.ProductRecord) float64 {
	sourceTitle := s.ext.FirstString(source, titlePaths[sideSource])
	candidateTitle := s.ext.FirstString(candidate, titlePaths[sideTarget])

	if sourceTitle == "" || candidateTitle == "" {
		return 0
	}

	sourceTokens := normalizers.TitleTokens(sourceTitle)
	candidateTokens := normalizers.TitleTokens(candidateTitle)

	similarity := jaccard(sourceTokens, candidateTokens)

	// Shared-token bonus, up to 0.3
	shared := intersectionSize(sourceTokens, candidateTokens)
	similarity += math.Min(float64(shared)*0.1, 0.3)

	switch {
	case similarity >= 0.75:
		return weightTitleHigh
	case similarity >= 0.5:
		return weightTitleMed
	case similarity >= 0.25:
		return weightTitleLow
	case similarity >= 0.1:
		return weightTitleLow * 0.5
	default:
		return 0
	}
}

// matchDimensions compares physical dimensions. Both sides must expose at
// least two of length/width/height; exact agreement on the common keys earns
// full weight, agreement within 5% earns the reduced weight.
func (s *Scorer) matchDimensions(source, candidate models.ProductRecord) float64 {
	sourceDims := s.extractDimensions(source)
	candidateDims := s.extractDimensions(candidate)

	if sourceDims == nil || candidateDims == nil {
		return 0
	}

	if dimensionsAgree(sourceDims, candidateDims, 0.0) {
		return weightDimsExact
	}
	if dimensionsAgree(sourceDims, candidateDims, 0.05) {
		return weightDimsClose
	}
	return 0
}

// extractDimensions probes the known dimension containers and pulls numeric
// length/width/height values, requiring at least two to be present.
func (s *Scorer) extractDimensions(record models.ProductRecord) map[string]float64 {
	for _, path := range dimensionPaths {
		container, ok := s.ext.Extract(record, path).(map[string]any)
		if !ok {
			continue
		}

		dims := make(map[string]float64)
		for _, key := range []string{"length", "width", "height"} {
			if v, ok := s.ext.FirstNumber(container, []string{key}); ok {
				dims[key] = v
			}
		}

		if len(dims) >= 2 {
			return dims
		}
	}
	return nil
}

// dimensionsAgree checks all common dimension keys within a relative
// tolerance. Fewer than two common keys is not enough evidence.
func dimensionsAgree(a, b map[string]float64, tolerance float64) bool {
	common := 0
	for key, va := range a {
		vb, ok := b[key]
		if !ok {
			continue
		}
		common++

		if va == 0 || vb == 0 {
			continue
		}
		diff := math.Abs(va-vb) / math.Max(va, vb)
		if diff > tolerance {
			return false
		}
	}
	return common >= 2
}

// matchWeight compares item weights: exact earns full weight, within 10%
// earns the reduced weight.
func (s *Scorer) matchWeight(source, candidate models.ProductRecord) float64 {
	sourceWeight, okS := s.ext.FirstNumber(source, weightPaths)
	candidateWeight, okC := s.ext.FirstNumber(candidate, weightPaths)

	if !okS || !okC || sourceWeight <= 0 || candidateWeight <= 0 {
		return 0
	}

	diff := math.Abs(sourceWeight-candidateWeight) / math.Max(sourceWeight, candidateWeight)
	if diff == 0 {
		return weightExact
	}
	if diff <= 0.1 {
		return weightClose
	}
	return 0
}

var priceTokenRe = regexp.MustCompile(`[\d]+\.?\d*`)

// matchPrice compares prices parsed from currency strings, scoring only
// agreement within 20%. Prices drift between catalogs, so no partial credit.
func (s *Scorer) matchPrice(source, candidate models.ProductRecord) float64 {
	sourcePrice, okS := s.extractPrice(source)
	candidatePrice, okC := s.extractPrice(candidate)

	if !okS || !okC || sourcePrice <= 0 || candidatePrice <= 0 {
		return 0
	}

	diff := math.Abs(sourcePrice-candidatePrice) / math.Max(sourcePrice, candidatePrice)
	if diff <= 0.2 {
		return weightPrice
	}
	return 0
}

// extractPrice pulls the first numeric token out of a price value, which may
// be a bare number or a formatted currency string like "$129.99".
func (s *Scorer) extractPrice(record models.ProductRecord) (float64, bool) {
	for _, path := range pricePaths {
		raw := s.ext.ExtractString(record, path)
		if raw == "" {
			continue
		}

		token := priceTokenRe.FindString(strings.ReplaceAll(raw, ",", ""))
		if token == "" {
			continue
		}
		if f, ok := parseFloat(token); ok {
			return f, true
		}
	}
	return 0, false
}

// matchColor compares colors: exact equality after lowercasing, first
// present path wins on each side.
func (s *Scorer) matchColor(source, candidate models.ProductRecord) float64 {
	sourceColor := strings.ToLower(s.ext.FirstString(source, colorPaths))
	candidateColor := strings.ToLower(s.ext.FirstString(candidate, colorPaths))

	if sourceColor != "" && sourceColor == candidateColor {
		return weightColor
	}
	return 0
}

// matchMaterial scores when the material sets from the known paths intersect
func (s *Scorer) matchMaterial(source, candidate models.ProductRecord) float64 {
	sourceMaterials := toLowerSet(s.ext.CollectStrings(source, materialPaths))
	candidateMaterials := toLowerSet(s.ext.CollectStrings(candidate, materialPaths))

	if intersectionSize(sourceMaterials, candidateMaterials) > 0 {
		return weightMaterial
	}
	return 0
}

// matchFeatures mines free-text spec fields for keyword overlap and scores
// per shared keyword, uncapped.
func (s *Scorer) matchFeatures(source, candidate models.ProductRecord) float64 {
	sourceFeatures := s.extractFeatures(source)
	candidateFeatures := s.extractFeatures(candidate)

	shared := intersectionSize(sourceFeatures, candidateFeatures)
	return float64(shared) * weightFeature
}

// extractFeatures collects spec keys and values plus highlight entries,
// keeping terms long enough to be meaningful and dropping bare numbers.
func (s *Scorer) extractFeatures(record models.ProductRecord) map[string]struct{} {
	features := make(map[string]struct{})

	for _, path := range featurePaths {
		value := s.ext.Extract(record, path)
		if value == nil {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			for key, val := range v {
				addFeature(features, key)
				addFeature(features, s.ext.ExtractString(val, ""))
			}
		case []any:
			for _, item := range v {
				addFeature(features, s.ext.ExtractString(item, ""))
			}
		case []string:
			for _, item := range v {
				addFeature(features, item)
			}
		}
	}

	return features
}

func addFeature(set map[string]struct{}, raw string) {
	feature := strings.ToLower(strings.TrimSpace(raw))
	if len(feature) <= 3 || allDigits(feature) {
		return
	}
	set[feature] = struct{}{}
}

// matchProductType scores compatibility between the product types implied by
// the two titles: identical type, same subgroup, same top-level group, or a
// small capped word-overlap fallback.
func (s *Scorer) matchProductType(source, candidate models.ProductRecord) float64 {
	sourceTitle := strings.ToLower(s.ext.FirstString(source, titlePaths[sideSource]))
	candidateTitle := strings.ToLower(s.ext.FirstString(candidate, titlePaths[sideTarget]))

	sourceTypes := extractProductTypes(sourceTitle)
	candidateTypes := extractProductTypes(candidateTitle)

	if len(sourceTypes) == 0 || len(candidateTypes) == 0 {
		return 0
	}

	return productTypeCompatibility(sourceTypes, candidateTypes)
}

// helpers

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}

func toLowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
