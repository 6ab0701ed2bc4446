package user

import (
	"sort"
	"strings"
)

// LearningProfile is the per-user state learned across menu generations.
// Affinities and confidence only move upward and stay clamped to their ranges.
type LearningProfile struct {
	MealPreferencesLearned map[string]float64 // ingredient -> affinity in [0,1]
	NoveltyTolerance       float64            // [0,1]
	DietaryComplianceScore float64            // [0,100]
	PreferenceConfidence   float64            // [0,1]
	InteractionCount       int
}

// DefaultLearningProfile is used for users with no learning history.
func DefaultLearningProfile() LearningProfile {
	return LearningProfile{
		MealPreferencesLearned: map[string]float64{},
		NoveltyTolerance:       0.5,
	}
}

// Affinity returns the learned affinity for an ingredient; unseen ingredients
// have affinity 0.
func (l LearningProfile) Affinity(ingredient string) float64 {
	if l.MealPreferencesLearned == nil {
		return 0
	}
	return clampUnit(l.MealPreferencesLearned[normalizeIngredient(ingredient)])
}

// Clone returns a deep copy.
func (l LearningProfile) Clone() LearningProfile {
	out := l
	out.MealPreferencesLearned = make(map[string]float64, len(l.MealPreferencesLearned))
	for k, v := range l.MealPreferencesLearned {
		out.MealPreferencesLearned[k] = v
	}
	return out
}

// Apply merges a delta and returns the resulting profile. The receiver is not
// modified. Affinities and confidence take the larger of the current and delta
// values so a stale delta can never lower them.
func (l LearningProfile) Apply(delta LearningDelta) LearningProfile {
	out := l.Clone()

	if delta.InteractionCountIncrement > 0 {
		out.InteractionCount += delta.InteractionCountIncrement
	}
	out.PreferenceConfidence = clampUnit(maxFloat(out.PreferenceConfidence, delta.PreferenceConfidence))

	for name, affinity := range delta.IngredientAffinities {
		key := normalizeIngredient(name)
		if key == "" {
			continue
		}
		out.MealPreferencesLearned[key] = clampUnit(maxFloat(out.MealPreferencesLearned[key], affinity))
	}
	return out
}

// LearningDelta is an incremental, not-yet-applied update to a LearningProfile.
// Values for confidence and affinities are the resulting values after the nudge.
type LearningDelta struct {
	UserID                    string
	InteractionCountIncrement int
	PreferenceConfidence      float64
	IngredientAffinities      map[string]float64
}

// Ingredients returns the delta's ingredient keys in sorted order.
func (d LearningDelta) Ingredients() []string {
	keys := make([]string, 0, len(d.IngredientAffinities))
	for k := range d.IngredientAffinities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeIngredient(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
