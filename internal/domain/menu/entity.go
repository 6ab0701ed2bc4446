// Package menu holds the engine's output model: enriched recipes, the selected
// menu, outcome predictions and insights.
package menu

import (
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// BiomarkerTag names a nutrition goal triggered by an abnormal biomarker
type BiomarkerTag string

const (
	TagAntiInflammatory    BiomarkerTag = "anti_inflammatory"
	TagCholesterolLowering BiomarkerTag = "cholesterol_lowering"
	TagGlucoseStabilizing  BiomarkerTag = "glucose_stabilizing"
	TagVitaminDBoosting    BiomarkerTag = "vitamin_d_boosting"
	TagIronBoosting        BiomarkerTag = "iron_boosting"
)

// EvidenceClaim is a static scientific claim attached to a recipe
type EvidenceClaim struct {
	Claim      string  `json:"claim"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"` // [0,100]
	Source     string  `json:"source,omitempty"`
}

// EnrichedRecipe is a catalog recipe plus the engine's per-call scores.
// Created fresh on every call and never persisted.
type EnrichedRecipe struct {
	recipe.Recipe

	PersonalizationScore    float64                  `json:"personalization_score"`
	PredictedSatisfaction   float64                  `json:"predicted_satisfaction"`
	BiomarkerBenefits       map[BiomarkerTag]float64 `json:"biomarker_benefits"`
	SeasonalAppropriateness float64                  `json:"seasonal_appropriateness"`
	NoveltyScore            float64                  `json:"novelty_score"`
	ScientificEvidenceScore float64                  `json:"scientific_evidence_score"`
	EvidenceClaims          []EvidenceClaim          `json:"evidence_claims"`
	BeneficialCompounds     []string                 `json:"beneficial_compounds"`
}

// MeanBiomarkerBenefit returns the mean benefit across active tags, or 0 when
// no tag is active.
func (e EnrichedRecipe) MeanBiomarkerBenefit() float64 {
	if len(e.BiomarkerBenefits) == 0 {
		return 0
	}
	var sum float64
	for _, v := range e.BiomarkerBenefits {
		sum += v
	}
	return sum / float64(len(e.BiomarkerBenefits))
}

// MenuTotals aggregates per-serving nutrition across all selected recipes
type MenuTotals struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	RecipeCount   int     `json:"recipe_count"`
}

// Menu maps each filled slot to a non-empty ordered list of selections.
type Menu struct {
	ID        string                               `json:"id"`
	Slots     map[recipe.MealType][]EnrichedRecipe `json:"slots"`
	SlotOrder []recipe.MealType                    `json:"slot_order"`
	Totals    MenuTotals                           `json:"totals"`
}

// NewMenu builds a menu from selector output. Slots are kept in the requested
// order; empty slots are dropped.
func NewMenu(id string, requested []recipe.MealType, slots map[recipe.MealType][]EnrichedRecipe) Menu {
	m := Menu{
		ID:    id,
		Slots: make(map[recipe.MealType][]EnrichedRecipe, len(slots)),
	}
	seen := make(map[recipe.MealType]bool, len(requested))
	for _, slot := range requested {
		if seen[slot] {
			continue
		}
		seen[slot] = true
		picks := slots[slot]
		if len(picks) == 0 {
			continue
		}
		m.Slots[slot] = picks
		m.SlotOrder = append(m.SlotOrder, slot)
	}
	m.Totals = computeTotals(m)
	return m
}

// Recipes returns every selection in slot order.
func (m Menu) Recipes() []EnrichedRecipe {
	var out []EnrichedRecipe
	for _, slot := range m.SlotOrder {
		out = append(out, m.Slots[slot]...)
	}
	return out
}

// IsEmpty reports whether no slot was filled.
func (m Menu) IsEmpty() bool {
	return len(m.SlotOrder) == 0
}

func computeTotals(m Menu) MenuTotals {
	var t MenuTotals
	for _, r := range m.Recipes() {
		t.Calories += r.Nutrition.Calories
		t.Protein += r.Nutrition.Protein
		t.Carbohydrates += r.Nutrition.Carbohydrates
		t.Fat += r.Nutrition.Fat
		t.Fiber += r.Nutrition.Fiber
		t.RecipeCount++
	}
	return t
}

// Prediction holds menu-level outcome estimates
type Prediction struct {
	PredictedEnergyLevel            float64 `json:"predicted_energy_level"`            // [1,10]
	InflammationImpactScore         float64 `json:"inflammation_impact_score"`         // [-10,10]
	BiomarkerImprovementProbability float64 `json:"biomarker_improvement_probability"` // [0,1]
	MicronutrientAdequacyScore      float64 `json:"micronutrient_adequacy_score"`      // [0,100]
	MealSatisfactionPrediction      float64 `json:"meal_satisfaction_prediction"`      // [1,10]
}

// InsightCode identifies an insight rule
type InsightCode string

const (
	InsightStrongPreferenceMatch    InsightCode = "strong_preference_match"
	InsightOpenToNewIngredients     InsightCode = "open_to_new_ingredients"
	InsightHighImprovementPotential InsightCode = "high_improvement_potential"
	InsightAntiInflammatoryFocus    InsightCode = "anti_inflammatory_focus"
	InsightMicronutrientRich        InsightCode = "micronutrient_rich"
	InsightSeasonalAlignment        InsightCode = "seasonal_alignment"
)

// Insight is a rule-based statement about a generated menu
type Insight struct {
	Code       InsightCode `json:"code"`
	Category   string      `json:"category"`
	Message    string      `json:"message"`
	Confidence float64     `json:"confidence"`
}

// Result is everything one engine call produces.
type Result struct {
	Menu          Menu               `json:"menu"`
	Predictions   Prediction         `json:"predictions"`
	Insights      []Insight          `json:"insights"`
	LearningDelta user.LearningDelta `json:"learning_delta"`
}
