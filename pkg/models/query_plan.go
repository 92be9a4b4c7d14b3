package models

// Query strategy labels, most precise first
const (
	QueryStrategyIdentifier = "identifier"
	QueryStrategyTitleBrand = "title_brand"
	QueryStrategyBrand      = "brand"
	QueryStrategyFallback   = "fallback"
)

// QueryStep is one entry in a query plan: the search string to issue and the
// strategy that produced it. Identifier-tier results must pass validation
// before they are accepted.
type QueryStep struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy"`
	Validate bool   `json:"validate"`
}

// QueryPlan is an ordered list of candidate search queries for the target
// catalog, consumed lazily: step i+1 is only tried when step i produced no
// usable candidates.
type QueryPlan struct {
	Steps []QueryStep `json:"steps"`
}

// Queries returns just the query strings in plan order
func (p QueryPlan) Queries() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Query
	}
	return out
}

// Contains reports whether the plan already holds an equal query string
func (p QueryPlan) Contains(query string) bool {
	for _, s := range p.Steps {
		if s.Query == query {
			return true
		}
	}
	return false
}
