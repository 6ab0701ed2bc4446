// Package enrich computes the per-recipe personalized scores the selector ranks on.
package enrich

import (
	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/engine/knowledge"
)

// Scoring constants
const (
	personalizationBase      = 50.0
	dietaryMatchBonus        = 10.0
	affinityMaxBonus         = 30.0
	skillFitBonus            = 10.0
	timeFitBonus             = 10.0
	satisfactionBase         = 5.0
	satisfactionAffinityMult = 3.0
	complianceThreshold      = 80.0
	noveltyToleranceBand     = 0.3
)

// Enrich scores one recipe for one user. It never fails: missing fields are
// treated as zero or empty.
func Enrich(r recipe.Recipe, uctx user.Context, biomarkers knowledge.BiomarkerIngredients) menu.EnrichedRecipe {
	names := r.IngredientNames()
	evidence := knowledge.LookupEvidence(r)

	return menu.EnrichedRecipe{
		Recipe:                  r,
		PersonalizationScore:    Personalization(r, uctx.Profile, uctx.Learning),
		PredictedSatisfaction:   PredictedSatisfaction(r, uctx.Learning),
		BiomarkerBenefits:       BiomarkerBenefits(names, biomarkers),
		SeasonalAppropriateness: SeasonalAppropriateness(names, localIngredients(uctx.Seasonal)),
		NoveltyScore:            Novelty(r, uctx.RecentMeals),
		ScientificEvidenceScore: evidence.Score,
		EvidenceClaims:          evidence.Claims,
		BeneficialCompounds:     knowledge.Compounds(names),
	}
}

type personalizationInput struct {
	recipe   recipe.Recipe
	profile  user.Profile
	learning user.LearningProfile
}

// Personalization is base 50 plus dietary, affinity, skill and time bonuses,
// clamped to [0,100].
func Personalization(r recipe.Recipe, p user.Profile, l user.LearningProfile) float64 {
	in := personalizationInput{recipe: r, profile: p, learning: l}
	factors := []func(personalizationInput) float64{
		scoreDietaryMatches,
		scoreAffinity,
		scoreSkillFit,
		scoreTimeFit,
	}
	score := personalizationBase
	for _, f := range factors {
		score += f(in)
	}
	return clamp(score, 0, 100)
}

func scoreDietaryMatches(in personalizationInput) float64 {
	var bonus float64
	seen := map[string]bool{}
	for _, pref := range in.profile.DietaryPreferences {
		key := recipe.NormalizeName(pref)
		if seen[key] {
			continue
		}
		seen[key] = true
		if in.recipe.HasDietaryTag(key) {
			bonus += dietaryMatchBonus
		}
	}
	return bonus
}

func scoreAffinity(in personalizationInput) float64 {
	return affinityMaxBonus * MeanAffinity(in.recipe.IngredientNames(), in.learning)
}

func scoreSkillFit(in personalizationInput) float64 {
	if in.recipe.Difficulty.Rank() <= in.profile.SkillLevel.Rank() {
		return skillFitBonus
	}
	return 0
}

func scoreTimeFit(in personalizationInput) float64 {
	if in.recipe.TotalTimeMinutes() <= in.profile.TimeTolerance.Minutes() {
		return timeFitBonus
	}
	return 0
}

// MeanAffinity averages learned affinity over the ingredient names. Unseen
// ingredients count as 0; no ingredients yields 0.
func MeanAffinity(names []string, l user.LearningProfile) float64 {
	if len(names) == 0 {
		return 0
	}
	var sum float64
	for _, n := range names {
		sum += l.Affinity(n)
	}
	return sum / float64(len(names))
}

// BiomarkerBenefits scores each active tag as the share of its keywords found
// in the ingredient names, scaled to [0,100]. Inactive tags are absent.
func BiomarkerBenefits(names []string, biomarkers knowledge.BiomarkerIngredients) map[menu.BiomarkerTag]float64 {
	out := make(map[menu.BiomarkerTag]float64, len(biomarkers))
	for tag, keywords := range biomarkers {
		if len(keywords) == 0 {
			out[tag] = 0
			continue
		}
		matched := 0
		for _, k := range keywords {
			if anyContains(names, k) {
				matched++
			}
		}
		out[tag] = clamp(100*float64(matched)/float64(len(keywords)), 0, 100)
	}
	return out
}

// SeasonalAppropriateness is the share of ingredients matching a local
// ingredient keyword, scaled to [0,100].
func SeasonalAppropriateness(names, local []string) float64 {
	if len(names) == 0 || len(local) == 0 {
		return 0
	}
	matched := 0
	for _, n := range names {
		if knowledge.ContainsAny(n, local) {
			matched++
		}
	}
	return clamp(100*float64(matched)/float64(len(names)), 0, 100)
}

// Novelty is 0 for a recipe eaten recently, otherwise the share of its
// ingredients absent from every recent meal, scaled to [0,100].
func Novelty(r recipe.Recipe, recent []recipe.Recipe) float64 {
	names := r.IngredientNames()
	if len(names) == 0 {
		return 0
	}
	seen := make(map[string]bool)
	for _, meal := range recent {
		if meal.ID != "" && meal.ID == r.ID {
			return 0
		}
		for _, n := range meal.IngredientNames() {
			seen[n] = true
		}
	}
	fresh := 0
	for _, n := range names {
		if !seen[n] {
			fresh++
		}
	}
	return clamp(100*float64(fresh)/float64(len(names)), 0, 100)
}

// PredictedSatisfaction is base 5 plus affinity, compliance and novelty-fit
// bonuses, clamped to [1,10]. The novelty term uses intrinsic novelty (no
// recent meals), not the user's actual history.
func PredictedSatisfaction(r recipe.Recipe, l user.LearningProfile) float64 {
	score := satisfactionBase + satisfactionAffinityMult*MeanAffinity(r.IngredientNames(), l)
	if l.DietaryComplianceScore > complianceThreshold {
		score++
	}
	intrinsic := Novelty(r, nil) / 100
	if abs(intrinsic-l.NoveltyTolerance) <= noveltyToleranceBand {
		score++
	}
	return clamp(score, 1, 10)
}

func localIngredients(s user.SeasonalContext) []string {
	if len(s.LocalIngredients) > 0 {
		return s.LocalIngredients
	}
	return knowledge.SeasonalIngredients(s.Season)
}

func anyContains(names []string, keyword string) bool {
	for _, n := range names {
		if knowledge.ContainsAny(n, []string{keyword}) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
