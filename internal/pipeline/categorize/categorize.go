// internal/pipeline/categorize/categorize.go
package categorize

import "strings"

// Category is one of the closed set of topic categories a query maps to.
type Category string

const (
	CategoryCrops       Category = "crops"
	CategoryPests       Category = "pests"
	CategoryFertilizers Category = "fertilizers"
	CategorySchemes     Category = "schemes"
	CategoryWeather     Category = "weather"
	CategoryGeneral     Category = "general"
)

// All lists every category, in detection order with general last.
func All() []Category {
	return []Category{
		CategoryCrops,
		CategoryPests,
		CategoryFertilizers,
		CategorySchemes,
		CategoryWeather,
		CategoryGeneral,
	}
}

// keywordGroup is one category's keyword list. Groups are evaluated in
// slice order and the first match wins, so a query naming both a crop and
// a pest resolves to crops. The order is part of the contract; tests pin it.
type keywordGroup struct {
	category Category
	keywords []string
}

var groups = []keywordGroup{
	{
		category: CategoryCrops,
		keywords: []string{
			"crop", "plant", "cultivat", "sow", "harvest", "seed",
			"rice", "paddy", "wheat", "cotton", "maize", "sugarcane",
			"millet", "pulses", "vegetable", "kharif", "rabi",
		},
	},
	{
		category: CategoryPests,
		keywords: []string{
			"pest", "insect", "disease", "fungus", "blight", "aphid",
			"borer", "worm", "caterpillar", "infestation", "infection",
			"pesticide", "weed",
		},
	},
	{
		category: CategoryFertilizers,
		keywords: []string{
			"fertilizer", "fertiliser", "npk", "urea", "nutrient",
			"manure", "compost", "potash", "nitrogen", "phosphorus",
		},
	},
	{
		category: CategorySchemes,
		keywords: []string{
			"scheme", "subsidy", "pm-kisan", "kisan", "loan", "credit",
			"insurance", "government", "yojana", "msp",
		},
	},
	{
		category: CategoryWeather,
		keywords: []string{
			"weather", "rain", "monsoon", "drought", "temperature",
			"humidity", "forecast", "climate", "irrigation",
		},
	},
}

// Detect maps a free-text query to exactly one category. Pure function:
// the result depends only on the lowercase form of the query, and a query
// matching no group is general.
func Detect(query string) Category {
	q := strings.ToLower(query)

	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				return g.category
			}
		}
	}

	return CategoryGeneral
}
