// Package knowledge provides the static lookup tables the menu engine scores
// against: biomarker thresholds, beneficial ingredient keywords, evidence
// claims, seasonal produce and compound annotations.
//
// The tables are fixed at build time and never mutated. Every accessor returns
// a copy so callers cannot alter shared state.
package knowledge

import (
	"sort"
	"strings"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// Biomarker thresholds. A reading past its threshold activates the tag.
const (
	CRPThreshold              = 3.0   // mg/L, above
	TotalCholesterolThreshold = 200.0 // mg/dL, above
	FastingGlucoseThreshold   = 100.0 // mg/dL, above
	VitaminDThreshold         = 30.0  // ng/mL, below
	SerumIronThreshold        = 60.0  // mcg/dL, below
)

// Evidence claim confidences
const (
	AntiInflammatoryClaimConfidence = 85.0
	MicronutrientClaimConfidence    = 78.0
	DefaultEvidenceScore            = 50.0

	antiInflammatoryClaimMinScore = 5.0
	micronutrientVegetableRatio   = 0.70
)

var biomarkerIngredients = map[menu.BiomarkerTag][]string{
	menu.TagAntiInflammatory: {
		"turmeric", "ginger", "salmon", "sardine", "mackerel", "olive oil",
		"blueberr", "spinach", "kale", "walnut", "green tea", "cherr",
	},
	menu.TagCholesterolLowering: {
		"oat", "barley", "bean", "lentil", "almond", "walnut", "avocado",
		"olive oil", "flax", "chia", "soy", "eggplant",
	},
	menu.TagGlucoseStabilizing: {
		"cinnamon", "lentil", "chickpea", "quinoa", "broccoli", "spinach",
		"oat", "almond", "chia", "greek yogurt", "vinegar",
	},
	menu.TagVitaminDBoosting: {
		"salmon", "sardine", "mackerel", "tuna", "egg", "mushroom",
		"fortified milk", "cod liver",
	},
	menu.TagIronBoosting: {
		"spinach", "lentil", "beef", "liver", "chickpea", "tofu",
		"pumpkin seed", "quinoa", "kale", "bean",
	},
}

var seasonalProduce = map[user.Season][]string{
	user.SeasonSpring: {
		"asparagus", "pea", "radish", "spinach", "strawberr", "artichoke",
		"spring onion", "rhubarb", "arugula", "mint",
	},
	user.SeasonSummer: {
		"tomato", "zucchini", "corn", "cucumber", "bell pepper", "basil",
		"peach", "blueberr", "watermelon", "eggplant", "cherr",
	},
	user.SeasonAutumn: {
		"pumpkin", "squash", "apple", "pear", "sweet potato", "mushroom",
		"brussels sprout", "cranberr", "beet", "kale",
	},
	user.SeasonWinter: {
		"cabbage", "carrot", "citrus", "orange", "leek", "parsnip",
		"turnip", "kale", "pomegranate", "grapefruit",
	},
}

var vegetableKeywords = []string{
	"spinach", "kale", "broccoli", "cauliflower", "carrot", "tomato",
	"pepper", "onion", "garlic", "zucchini", "squash", "pumpkin", "cabbage",
	"lettuce", "arugula", "chard", "asparagus", "pea", "bean", "cucumber",
	"eggplant", "mushroom", "celery", "leek", "beet", "radish", "potato",
	"corn", "sprout", "artichoke", "parsnip", "turnip", "okra", "fennel",
}

// nutrientDenseKeywords covers leafy greens, fatty fish, nuts, seeds and berries.
var nutrientDenseKeywords = []string{
	"spinach", "kale", "chard", "collard", "arugula",
	"salmon", "sardine", "mackerel", "trout", "herring",
	"almond", "walnut", "cashew", "pistachio", "pecan", "hazelnut",
	"chia", "flax", "hemp seed", "pumpkin seed", "sunflower seed", "sesame",
	"blueberr", "strawberr", "raspberr", "blackberr", "cranberr",
}

var compounds = []struct {
	keyword  string
	compound string
}{
	{"turmeric", "curcumin"},
	{"ginger", "gingerol"},
	{"salmon", "omega-3 (EPA/DHA)"},
	{"sardine", "omega-3 (EPA/DHA)"},
	{"mackerel", "omega-3 (EPA/DHA)"},
	{"blueberr", "anthocyanins"},
	{"cherr", "anthocyanins"},
	{"broccoli", "sulforaphane"},
	{"kale", "lutein"},
	{"spinach", "lutein"},
	{"tomato", "lycopene"},
	{"garlic", "allicin"},
	{"green tea", "EGCG"},
	{"olive oil", "oleocanthal"},
	{"oat", "beta-glucan"},
	{"walnut", "alpha-linolenic acid"},
	{"flax", "alpha-linolenic acid"},
}

// BiomarkerIngredients maps each active tag to its beneficial keywords.
type BiomarkerIngredients map[menu.BiomarkerTag][]string

// Tags returns the active tags in sorted order.
func (b BiomarkerIngredients) Tags() []menu.BiomarkerTag {
	tags := make([]menu.BiomarkerTag, 0, len(b))
	for t := range b {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// LookupBiomarkerIngredients returns the beneficial keyword list for every
// abnormal reading. Nil biomarkers or nil readings activate nothing.
func LookupBiomarkerIngredients(b *user.HealthBiomarkers) BiomarkerIngredients {
	out := BiomarkerIngredients{}
	if b == nil {
		return out
	}
	if b.CRP != nil && *b.CRP > CRPThreshold {
		out[menu.TagAntiInflammatory] = keywords(menu.TagAntiInflammatory)
	}
	if b.TotalCholesterol != nil && *b.TotalCholesterol > TotalCholesterolThreshold {
		out[menu.TagCholesterolLowering] = keywords(menu.TagCholesterolLowering)
	}
	if b.FastingGlucose != nil && *b.FastingGlucose > FastingGlucoseThreshold {
		out[menu.TagGlucoseStabilizing] = keywords(menu.TagGlucoseStabilizing)
	}
	if b.VitaminD != nil && *b.VitaminD < VitaminDThreshold {
		out[menu.TagVitaminDBoosting] = keywords(menu.TagVitaminDBoosting)
	}
	if b.SerumIron != nil && *b.SerumIron < SerumIronThreshold {
		out[menu.TagIronBoosting] = keywords(menu.TagIronBoosting)
	}
	return out
}

func keywords(tag menu.BiomarkerTag) []string {
	return append([]string(nil), biomarkerIngredients[tag]...)
}

// EvidenceResult is the evidence score and the claims a recipe earned
type EvidenceResult struct {
	Score  float64
	Claims []menu.EvidenceClaim
}

// LookupEvidence returns the static claims a recipe earns from its catalog
// anti-inflammatory score and its vegetable fraction.
func LookupEvidence(r recipe.Recipe) EvidenceResult {
	var claims []menu.EvidenceClaim

	if r.AntiInflammatoryScore > antiInflammatoryClaimMinScore {
		claims = append(claims, menu.EvidenceClaim{
			Claim:      "Rich in ingredients associated with reduced systemic inflammation markers",
			Category:   "anti_inflammatory",
			Confidence: AntiInflammatoryClaimConfidence,
			Source:     "meta-analysis of dietary inflammatory index cohort studies",
		})
	}
	if VegetableFraction(r.IngredientNames()) > micronutrientVegetableRatio {
		claims = append(claims, menu.EvidenceClaim{
			Claim:      "Vegetable-dominant meals improve micronutrient density",
			Category:   "micronutrient_density",
			Confidence: MicronutrientClaimConfidence,
			Source:     "dietary guidelines systematic review",
		})
	}

	if len(claims) == 0 {
		return EvidenceResult{Score: DefaultEvidenceScore}
	}
	var sum float64
	for _, c := range claims {
		sum += c.Confidence
	}
	return EvidenceResult{Score: sum / float64(len(claims)), Claims: claims}
}

// SeasonalIngredients returns the local produce list for a season. Unknown
// seasons have no produce.
func SeasonalIngredients(season user.Season) []string {
	return append([]string(nil), seasonalProduce[user.Season(strings.ToLower(string(season)))]...)
}

// VegetableFraction returns the share of names that match a vegetable keyword.
// An empty list yields 0.
func VegetableFraction(names []string) float64 {
	if len(names) == 0 {
		return 0
	}
	matched := 0
	for _, n := range names {
		if ContainsAny(n, vegetableKeywords) {
			matched++
		}
	}
	return float64(matched) / float64(len(names))
}

// IsNutrientDense reports whether an ingredient name matches the nutrient-dense list.
func IsNutrientDense(name string) bool {
	return ContainsAny(name, nutrientDenseKeywords)
}

// Compounds returns the distinct beneficial compounds found in the ingredient
// names, in table order.
func Compounds(names []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range compounds {
		if seen[c.compound] {
			continue
		}
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), c.keyword) {
				seen[c.compound] = true
				out = append(out, c.compound)
				break
			}
		}
	}
	return out
}

// ContainsAny reports whether name contains any keyword, case-insensitively.
func ContainsAny(name string, keywords []string) bool {
	name = strings.ToLower(name)
	if name == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
