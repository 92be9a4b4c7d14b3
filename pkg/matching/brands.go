package matching

import "strings"

// brandAliases maps a canonical brand name to known variations seen across
// catalogs. The table is deliberately small; unlisted brands still match via
// containment and acronym checks.
var brandAliases = map[string][]string{
	// Tech brands
	"amazon basics": {"amazonbasics", "amazon", "basics"},
	"apple":         {"apple inc", "apple computer"},
	"samsung":       {"samsung electronics", "samsung group"},
	"google":        {"google llc", "alphabet"},
	"microsoft":     {"microsoft corporation", "msft"},
	"sony":          {"sony corporation", "sony group"},
	"lg":            {"lg electronics", "lg corp"},
	"hp":            {"hewlett-packard", "hewlett packard"},
	"dell":          {"dell technologies", "dell inc"},
	"lenovo":        {"lenovo group"},

	// Furniture brands
	"best office": {"bestoffice"},
	"ikea":        {"ikea group"},
	"wayfair":     {"wayfair llc"},

	// Fashion brands
	"nike":         {"nike inc"},
	"adidas":       {"adidas ag"},
	"under armour": {"underarmour"},

	// Home brands
	"cuisinart":    {"conair cuisinart"},
	"kitchenaid":   {"kitchen aid"},
	"black decker": {"black & decker", "blackdecker"},

	// Generic variations
	"pro":   {"professional"},
	"max":   {"maximum"},
	"ultra": {"ultra-"},
	"plus":  {"+"},
}

// brandsSimilar reports whether two lowercased brand strings are known
// variations of the same brand: alias-table members, containment for brands
// long enough to avoid noise, or a first-letter acronym of a multi-word name.
func brandsSimilar(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	for canonical, variations := range brandAliases {
		if matchesAlias(a, canonical, variations) && matchesAlias(b, canonical, variations) {
			return true
		}
	}

	if len(a) > 3 && len(b) > 3 {
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return true
		}
	}

	if isAcronymOf(b, a) || isAcronymOf(a, b) {
		return true
	}

	return false
}

func matchesAlias(brand, canonical string, variations []string) bool {
	if brand == canonical {
		return true
	}
	for _, v := range variations {
		if brand == v {
			return true
		}
	}
	return false
}

// isAcronymOf reports whether short is the first-letter acronym of the
// multi-word brand long ("hp" for "hewlett packard")
func isAcronymOf(short, long string) bool {
	if len(short) > 4 {
		return false
	}
	words := strings.Fields(long)
	if len(words) < 2 {
		return false
	}
	var acronym strings.Builder
	for _, w := range words {
		acronym.WriteByte(w[0])
	}
	return acronym.String() == short
}
