// Package selector ranks enriched candidates per meal slot and picks the top ones.
package selector

import (
	"sort"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// Score weights
const (
	PersonalizationWeight = 0.4
	SatisfactionWeight    = 0.2
	BiomarkerWeight       = 0.2
	SeasonalWeight        = 0.1
	NoveltyWeight         = 0.1
)

// ScoreBreakdown holds each weighted contribution to a total score
type ScoreBreakdown struct {
	Personalization float64 `json:"personalization"`
	Satisfaction    float64 `json:"satisfaction"`
	Biomarker       float64 `json:"biomarker"`
	Seasonal        float64 `json:"seasonal"`
	Novelty         float64 `json:"novelty"`
}

// Total sums the contributions.
func (b ScoreBreakdown) Total() float64 {
	return b.Personalization + b.Satisfaction + b.Biomarker + b.Seasonal + b.Novelty
}

// Ranked is a candidate with its total score
type Ranked struct {
	Recipe    menu.EnrichedRecipe
	Score     float64
	Breakdown ScoreBreakdown
}

// Score computes the weighted total for one candidate under the options.
func Score(e menu.EnrichedRecipe, opts menu.SelectionOptions) ScoreBreakdown {
	b := ScoreBreakdown{
		Personalization: PersonalizationWeight * e.PersonalizationScore,
		Satisfaction:    SatisfactionWeight * (e.PredictedSatisfaction / 10 * 100),
		Seasonal:        SeasonalWeight * e.SeasonalAppropriateness * opts.SeasonalWeight,
		Novelty: NoveltyWeight * (opts.NoveltyWeight*e.NoveltyScore +
			(1-opts.NoveltyWeight)*(100-e.NoveltyScore)),
	}
	if opts.OptimizeForBiomarkers {
		b.Biomarker = BiomarkerWeight * e.MeanBiomarkerBenefit()
	}
	return b
}

// Rank scores the candidates eligible for a slot and sorts them by total
// descending, breaking ties by catalog ID ascending.
func Rank(candidates []menu.EnrichedRecipe, slot recipe.MealType, opts menu.SelectionOptions) []Ranked {
	var ranked []Ranked
	for _, c := range candidates {
		if !c.HasMealType(slot) {
			continue
		}
		b := Score(c, opts)
		ranked = append(ranked, Ranked{Recipe: c, Score: b.Total(), Breakdown: b})
	}
	CanonicalSort(ranked)
	return ranked
}

// CanonicalSort orders ranked candidates deterministically:
// 1. Score: higher first
// 2. Recipe ID: lexical ascending
func CanonicalSort(ranked []Ranked) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Recipe.ID < b.Recipe.ID
	})
}

// Selection is the per-slot outcome of Select, including the ranking used
type Selection struct {
	Slots   map[recipe.MealType][]menu.EnrichedRecipe
	Ranking map[recipe.MealType][]Ranked
	Omitted []recipe.MealType
}

// Select picks up to MaxPerSlot top-ranked candidates for each requested slot.
// Slots without eligible candidates are left out of Slots and listed in Omitted.
func Select(candidates []menu.EnrichedRecipe, mealTypes []recipe.MealType, opts menu.SelectionOptions) Selection {
	perSlot := opts.MaxPerSlot
	if perSlot < 1 {
		perSlot = menu.DefaultMaxPerSlot
	}

	sel := Selection{
		Slots:   make(map[recipe.MealType][]menu.EnrichedRecipe, len(mealTypes)),
		Ranking: make(map[recipe.MealType][]Ranked, len(mealTypes)),
	}
	for _, slot := range mealTypes {
		if _, done := sel.Ranking[slot]; done {
			continue
		}
		ranked := Rank(candidates, slot, opts)
		sel.Ranking[slot] = ranked
		if len(ranked) == 0 {
			sel.Omitted = append(sel.Omitted, slot)
			continue
		}
		n := min(perSlot, len(ranked))
		picks := make([]menu.EnrichedRecipe, n)
		for i := 0; i < n; i++ {
			picks[i] = ranked[i].Recipe
		}
		sel.Slots[slot] = picks
	}
	return sel
}
