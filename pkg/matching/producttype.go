package matching

import (
	"math"
	"strings"
)

// productTypeVocabulary is the fixed set of product-type tokens recognized in
// titles, covering single words and a handful of two-word compounds.
var productTypeVocabulary = map[string]struct{}{}

func init() {
	terms := []string{
		// Electronics
		"electronics", "electronic", "digital", "smart", "wireless", "bluetooth",
		"phone", "smartphone", "mobile", "iphone", "android", "cell",
		"laptop", "computer", "pc", "desktop", "notebook", "macbook",
		"tablet", "ipad", "kindle", "e-reader",
		"headphone", "headphones", "headset", "earphones", "earbuds",
		"speaker", "speakers", "soundbar", "audio", "bluetooth speaker",
		"mouse", "keyboard", "monitor", "display", "screen",
		"camera", "webcam", "gopro", "camcorder",
		"watch", "smartwatch", "fitness", "tracker", "fitbit", "apple watch",
		"charger", "cable", "adapter", "power", "battery", "charging",

		// Furniture & home
		"chair", "table", "desk", "bed", "sofa", "couch", "dresser", "cabinet",
		"office", "gaming", "ergonomic", "executive", "task", "swivel",
		"dining", "coffee", "side", "end", "nightstand", "bookshelf",

		// Clothing & accessories
		"shirt", "pants", "dress", "jacket", "shoes", "boots", "sneakers",
		"bag", "backpack", "purse", "wallet", "belt", "hat", "cap",
		"jewelry", "necklace", "bracelet", "ring",

		// Kitchen & dining
		"kitchen", "cooking", "baking",
		"pot", "pan", "knife", "spoon", "fork", "plate", "bowl", "cup", "mug",
		"blender", "mixer", "toaster", "microwave", "oven", "refrigerator",

		// Sports & outdoors
		"sports", "outdoor", "camping", "hiking", "running",
		"bike", "bicycle", "skateboard", "scooter",
		"ball", "basketball", "football", "soccer", "tennis", "baseball",

		// Tools & hardware
		"tool", "tools", "drill", "saw", "hammer", "screwdriver", "wrench",
		"kit", "set", "toolbox", "hardware", "equipment",

		// Books & media
		"book", "books", "novel", "textbook", "magazine", "comic",
		"movie", "dvd", "blu-ray", "cd", "vinyl", "record",
		"game", "games", "video game", "board game", "puzzle",

		// Health & beauty
		"health", "beauty", "skincare", "makeup", "cosmetic",
		"shampoo", "soap", "lotion", "cream", "serum",
		"vitamin", "supplement", "medicine", "first aid",

		// Automotive
		"car", "auto", "automotive", "vehicle", "truck", "motorcycle",
		"tire", "wheel", "oil", "parts", "accessory",
	}
	for _, t := range terms {
		productTypeVocabulary[t] = struct{}{}
	}
}

// typeGroup is a named top-level group of compatibility subgroups.
type typeGroup struct {
	name      string
	subgroups map[string][]string
}

// typeCompatibilityGroups organizes vocabulary tokens into top-level groups
// and subgroups. Sharing a subgroup scores higher than sharing only a group.
// The slice order is the evaluation order, so scoring does not depend on map
// iteration.
var typeCompatibilityGroups = []typeGroup{
	{"electronics", map[string][]string{
		"mobile_devices": {"phone", "smartphone", "mobile", "iphone", "android", "cell", "tablet", "ipad"},
		"computers":      {"laptop", "computer", "pc", "desktop", "notebook", "macbook"},
		"audio":          {"headphone", "headphones", "headset", "earphones", "earbuds", "speaker", "speakers", "soundbar", "audio"},
		"peripherals":    {"mouse", "keyboard", "monitor", "display", "screen"},
		"accessories":    {"charger", "cable", "adapter", "power", "battery", "charging", "case"},
		"wearables":      {"watch", "smartwatch", "fitness", "tracker", "fitbit"},
	}},
	{"furniture", map[string][]string{
		"seating": {"chair", "sofa", "couch", "bench", "stool", "seat"},
		"tables":  {"table", "desk", "dining", "coffee", "side", "end", "nightstand"},
		"office":  {"office", "desk", "chair", "gaming", "ergonomic", "executive", "task"},
		"storage": {"dresser", "cabinet", "bookshelf", "shelf", "rack"},
	}},
	{"apparel", map[string][]string{
		"clothing":    {"shirt", "pants", "dress", "jacket", "clothes"},
		"footwear":    {"shoes", "boots", "sneakers", "sandals"},
		"accessories": {"bag", "backpack", "purse", "wallet", "belt", "hat", "cap"},
	}},
	{"kitchen", map[string][]string{
		"cookware":   {"pot", "pan", "skillet", "wok"},
		"utensils":   {"knife", "spoon", "fork", "spatula"},
		"appliances": {"blender", "mixer", "toaster", "microwave", "oven"},
		"dinnerware": {"plate", "bowl", "cup", "mug", "glass"},
	}},
}

// extractProductTypes pulls vocabulary tokens out of a lowercased title,
// checking single words and adjacent-word compounds.
func extractProductTypes(title string) map[string]struct{} {
	types := make(map[string]struct{})
	words := strings.Fields(title)

	for _, word := range words {
		if _, ok := productTypeVocabulary[word]; ok {
			types[word] = struct{}{}
		}
	}

	for i := 0; i+1 < len(words); i++ {
		compound := words[i] + " " + words[i+1]
		if _, ok := productTypeVocabulary[compound]; ok {
			types[compound] = struct{}{}
		}
	}

	return types
}

// productTypeCompatibility scores how compatible two product-type sets are:
// identical token 35, same subgroup 30, same top-level group 20, otherwise a
// word-overlap fallback capped at 15.
func productTypeCompatibility(sourceTypes, candidateTypes map[string]struct{}) float64 {
	if intersectionSize(sourceTypes, candidateTypes) > 0 {
		return 35.0
	}

	for _, group := range typeCompatibilityGroups {
		sourceSubs := make(map[string]struct{})
		candidateSubs := make(map[string]struct{})

		for sub, items := range group.subgroups {
			if containsAny(sourceTypes, items) {
				sourceSubs[sub] = struct{}{}
			}
			if containsAny(candidateTypes, items) {
				candidateSubs[sub] = struct{}{}
			}
		}

		if intersectionSize(sourceSubs, candidateSubs) > 0 {
			return 30.0
		}
		if len(sourceSubs) > 0 && len(candidateSubs) > 0 {
			return 20.0
		}
	}

	return typeWordOverlap(sourceTypes, candidateTypes)
}

// typeWordOverlap is the last-resort signal: individual word overlap between
// the type sets, 5 points per shared word, capped at 15.
func typeWordOverlap(sourceTypes, candidateTypes map[string]struct{}) float64 {
	sourceWords := splitTypeWords(sourceTypes)
	candidateWords := splitTypeWords(candidateTypes)

	overlap := intersectionSize(sourceWords, candidateWords)
	if overlap == 0 {
		return 0
	}
	return math.Min(float64(overlap)*5.0, 15.0)
}

func splitTypeWords(types map[string]struct{}) map[string]struct{} {
	words := make(map[string]struct{})
	for t := range types {
		for _, w := range strings.Fields(t) {
			words[w] = struct{}{}
		}
	}
	return words
}

func containsAny(set map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := set[item]; ok {
			return true
		}
	}
	return false
}
