// Package learning derives insights from a generated menu and computes the
// learning-profile delta the caller persists.
package learning

import (
	"fmt"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// Delta nudges
const (
	ConfidenceStep = 0.05
	AffinityStep   = 0.1
)

// summary holds the menu-level means the rules test against
type summary struct {
	personalization float64
	novelty         float64
	seasonal        float64
	prediction      menu.Prediction
}

type rule struct {
	code       menu.InsightCode
	category   string
	confidence float64
	applies    func(summary) bool
	message    func(summary) string
}

// rules are evaluated in order; each contributes at most one insight.
var rules = []rule{
	{
		code:       menu.InsightStrongPreferenceMatch,
		category:   "preference",
		confidence: 0.90,
		applies:    func(s summary) bool { return s.personalization > 80 },
		message: func(s summary) string {
			return fmt.Sprintf("Strong preference match: selections average %.0f personalization", s.personalization)
		},
	},
	{
		code:       menu.InsightOpenToNewIngredients,
		category:   "novelty",
		confidence: 0.75,
		applies:    func(s summary) bool { return s.novelty > 70 },
		message: func(s summary) string {
			return fmt.Sprintf("Open to new ingredients: menu novelty averages %.0f", s.novelty)
		},
	},
	{
		code:       menu.InsightHighImprovementPotential,
		category:   "biomarker",
		confidence: 0.80,
		applies:    func(s summary) bool { return s.prediction.BiomarkerImprovementProbability > 0.7 },
		message: func(s summary) string {
			return fmt.Sprintf("High improvement potential: %.0f%% estimated biomarker improvement probability",
				s.prediction.BiomarkerImprovementProbability*100)
		},
	},
	{
		code:       menu.InsightAntiInflammatoryFocus,
		category:   "inflammation",
		confidence: 0.85,
		applies:    func(s summary) bool { return s.prediction.InflammationImpactScore > 5 },
		message: func(s summary) string {
			return fmt.Sprintf("Anti-inflammatory focus: inflammation impact %.1f", s.prediction.InflammationImpactScore)
		},
	},
	{
		code:       menu.InsightMicronutrientRich,
		category:   "nutrition",
		confidence: 0.70,
		applies:    func(s summary) bool { return s.prediction.MicronutrientAdequacyScore >= 80 },
		message: func(s summary) string {
			return fmt.Sprintf("Micronutrient rich: adequacy score %.0f", s.prediction.MicronutrientAdequacyScore)
		},
	},
	{
		code:       menu.InsightSeasonalAlignment,
		category:   "seasonal",
		confidence: 0.65,
		applies:    func(s summary) bool { return s.seasonal > 60 },
		message: func(s summary) string {
			return fmt.Sprintf("Seasonal alignment: %.0f%% of ingredients are in season", s.seasonal)
		},
	},
}

// DeriveInsights applies the fixed rule table to the menu and predictions.
// An empty menu yields no insights.
func DeriveInsights(m menu.Menu, p menu.Prediction) []menu.Insight {
	recipes := m.Recipes()
	if len(recipes) == 0 {
		return []menu.Insight{}
	}

	s := summary{prediction: p}
	for _, r := range recipes {
		s.personalization += r.PersonalizationScore
		s.novelty += r.NoveltyScore
		s.seasonal += r.SeasonalAppropriateness
	}
	n := float64(len(recipes))
	s.personalization /= n
	s.novelty /= n
	s.seasonal /= n

	insights := []menu.Insight{}
	for _, r := range rules {
		if !r.applies(s) {
			continue
		}
		insights = append(insights, menu.Insight{
			Code:       r.code,
			Category:   r.category,
			Message:    r.message(s),
			Confidence: r.confidence,
		})
	}
	return insights
}

// ComputeDelta returns the update to merge into the persisted profile after
// this menu: one more interaction, confidence +0.05 and +0.1 affinity for
// every ingredient on the menu, all clamped to 1. The profile is not modified.
func ComputeDelta(userID string, current user.LearningProfile, m menu.Menu) user.LearningDelta {
	delta := user.LearningDelta{
		UserID:                    userID,
		InteractionCountIncrement: 1,
		PreferenceConfidence:      min(1, current.PreferenceConfidence+ConfidenceStep),
		IngredientAffinities:      map[string]float64{},
	}
	for _, r := range m.Recipes() {
		for _, name := range r.IngredientNames() {
			if _, done := delta.IngredientAffinities[name]; done {
				continue
			}
			delta.IngredientAffinities[name] = min(1, current.Affinity(name)+AffinityStep)
		}
	}
	return delta
}
