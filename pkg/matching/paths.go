package matching

// Known field paths per concept, per catalog side. The two catalogs nest the
// same concept under different keys, so every matcher probes its side's paths
// in priority order and takes the first present value.

var identifierPaths = map[side][]string{
	sideSource: {
		"specifications.upc", "specifications.gtin", "specifications.ean",
		"identifiers.upc", "identifiers.gtin", "identifiers.ean",
		"basic_info.upc", "basic_info.gtin",
	},
	sideTarget: {
		"basic_info.upc", "basic_info.gtin",
		"technical_specs.specifications.upc",
		"product_details.upc",
	},
}

var modelPaths = map[side][]string{
	sideSource: {
		"specifications.model_number", "specifications.model",
		"identifiers.model_number", "basic_info.model_number",
	},
	sideTarget: {
		"basic_info.model_number", "technical_specs.specifications.model_number",
		"product_details.model",
	},
}

var brandPaths = map[side][]string{
	sideSource: {"brand", "basic_info.brand"},
	sideTarget: {"basic_info.brand", "brand"},
}

var titlePaths = map[side][]string{
	sideSource: {"title", "basic_info.name"},
	sideTarget: {"basic_info.name", "title"},
}

// dimensionPaths point at containers that may hold length/width/height keys
var dimensionPaths = []string{
	"physical_attributes",
	"specifications.dimensions",
	"technical_specs.specifications",
}

var weightPaths = []string{
	"physical_attributes.weight",
	"specifications.weight",
	"technical_specs.specifications.weight",
}

var pricePaths = []string{
	"pricing.current_price",
	"pricing.formatted_current_price",
	"pricing.price",
}

var colorPaths = []string{
	"variations.color",
	"specifications.color",
	"product_details.color",
}

var materialPaths = []string{
	"specifications.material",
	"product_details.materials",
	"technical_specs.specifications.material",
}

// featurePaths point at free-text spec containers mined for keyword overlap
var featurePaths = []string{
	"specifications",
	"product_details.highlights",
	"technical_specs.specifications",
}

var categoryPaths = []string{
	"categories",
	"category_info.category_name",
	"breadcrumbs",
}

// side distinguishes which catalog role a record plays in a comparison
type side int

const (
	sideSource side = iota
	sideTarget
)
