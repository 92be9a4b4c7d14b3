package matching

import (
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
)

// The category matcher is wired but disabled by default (ScorerConfig
// EnableCategory). Category taxonomies differ too much between catalogs to be
// a reliable signal, but the capability is kept for curated catalog pairs.

// categoryTypeKeywords are nouns that commonly name a product type inside a
// category or title.
var categoryTypeKeywords = map[string]struct{}{}

func init() {
	terms := []string{
		"chair", "table", "phone", "laptop", "book", "speaker", "headphone",
		"mouse", "keyboard", "monitor", "tablet", "camera", "watch", "bag",
		"case", "cable", "charger", "stand", "holder", "rack", "shelf",
		"light", "lamp", "fan", "heater", "cooler", "bottle", "cup", "mug",
		"tool", "drill", "saw", "hammer", "screwdriver", "wrench", "kit",
		"game", "controller", "console", "tv", "remote", "adapter",
	}
	for _, t := range terms {
		categoryTypeKeywords[t] = struct{}{}
	}
}

// compoundTypeQualifiers mark two-word types worth keeping ("office chair",
// "gaming mouse").
var compoundTypeQualifiers = []string{
	"office", "gaming", "wireless", "bluetooth", "smart", "digital",
	"electric", "manual", "portable", "desktop", "mobile",
}

// relatedTypeGroups cluster interchangeable product-type names for the
// partial category match.
var relatedTypeGroups = [][]string{
	{"chair", "seat", "stool", "bench"},
	{"table", "desk", "workstation", "stand"},
	{"phone", "smartphone", "mobile", "cell phone"},
	{"laptop", "notebook", "computer", "pc"},
	{"headphone", "headset", "earphone", "earbuds"},
	{"speaker", "soundbar", "audio", "sound system"},
	{"mouse", "trackball", "touchpad", "pointing device"},
	{"keyboard", "keypad", "input device"},
	{"monitor", "display", "screen", "lcd", "led"},
	{"tablet", "ipad", "android tablet", "slate"},
	{"camera", "webcam", "camcorder", "video camera"},
	{"watch", "smartwatch", "fitness tracker", "wearable"},
	{"bag", "backpack", "case", "pouch", "sleeve"},
	{"cable", "cord", "wire", "connector"},
	{"charger", "adapter", "power supply", "battery"},
	{"light", "lamp", "led", "bulb", "lighting"},
	{"tool", "equipment", "instrument", "device"},
}

// matchCategory scores category agreement: direct overlap of the category
// sets, falling back to product-type keywords drawn from titles, then to
// related-type groups at a reduced weight.
func (s *Scorer) matchCategory(source, candidate models.ProductRecord) float64 {
	sourceCats := toLowerSet(s.ext.CollectStrings(source, categoryPaths))
	candidateCats := toLowerSet(s.ext.CollectStrings(candidate, categoryPaths))

	if intersectionSize(sourceCats, candidateCats) > 0 {
		return weightCategory
	}

	sourceTitle := strings.ToLower(s.ext.FirstString(source, titlePaths[sideSource]))
	candidateTitle := strings.ToLower(s.ext.FirstString(candidate, titlePaths[sideTarget]))

	sourceTypes := extractCategoryTypeKeywords(sourceTitle)
	candidateTypes := extractCategoryTypeKeywords(candidateTitle)

	if len(sourceTypes) == 0 || len(candidateTypes) == 0 {
		return 0
	}

	if intersectionSize(sourceTypes, candidateTypes) > 0 {
		return weightCategory
	}

	if typesRelated(sourceTypes, candidateTypes) {
		return weightCategory * categoryRelatedFactor
	}

	return 0
}

// extractCategoryTypeKeywords pulls product-type indicators from a title:
// the leading word, known type nouns, and qualified two-word compounds.
func extractCategoryTypeKeywords(title string) map[string]struct{} {
	keywords := make(map[string]struct{})
	words := strings.Fields(title)

	for i, word := range words {
		if len(word) <= 2 || allDigits(word) {
			continue
		}

		if i == 0 {
			keywords[word] = struct{}{}
		} else if _, ok := categoryTypeKeywords[word]; ok {
			keywords[word] = struct{}{}
		}

		if i+1 < len(words) {
			compound := word + " " + words[i+1]
			for _, base := range compoundTypeQualifiers {
				if strings.Contains(compound, base) {
					keywords[compound] = struct{}{}
					break
				}
			}
		}
	}

	return keywords
}

// typesRelated reports whether the two type sets land in the same related
// group, using containment in both directions to tolerate compounds.
func typesRelated(sourceTypes, candidateTypes map[string]struct{}) bool {
	for _, group := range relatedTypeGroups {
		if typeSetInGroup(sourceTypes, group) && typeSetInGroup(candidateTypes, group) {
			return true
		}
	}
	return false
}

func typeSetInGroup(types map[string]struct{}, group []string) bool {
	for t := range types {
		for _, member := range group {
			if strings.Contains(t, member) || strings.Contains(member, t) {
				return true
			}
		}
	}
	return false
}
