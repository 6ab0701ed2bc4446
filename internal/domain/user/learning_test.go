package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningProfile_Apply(t *testing.T) {
	current := LearningProfile{
		MealPreferencesLearned: map[string]float64{"salmon": 0.6, "kale": 0.9},
		NoveltyTolerance:       0.4,
		DietaryComplianceScore: 85,
		PreferenceConfidence:   0.3,
		InteractionCount:       4,
	}

	delta := LearningDelta{
		UserID:                    "u-1",
		InteractionCountIncrement: 1,
		PreferenceConfidence:      0.35,
		IngredientAffinities: map[string]float64{
			" Salmon ": 0.7,
			"kale":     0.2, // stale, must not lower the stored value
			"turmeric": 1.4,
			"":         0.5,
		},
	}

	merged := current.Apply(delta)

	t.Run("MonotonicAffinities", func(t *testing.T) {
		assert.InDelta(t, 0.7, merged.MealPreferencesLearned["salmon"], 1e-9)
		assert.InDelta(t, 0.9, merged.MealPreferencesLearned["kale"], 1e-9)
		assert.InDelta(t, 1.0, merged.MealPreferencesLearned["turmeric"], 1e-9)
		assert.NotContains(t, merged.MealPreferencesLearned, "")
	})

	t.Run("CountersAndConfidence", func(t *testing.T) {
		assert.Equal(t, 5, merged.InteractionCount)
		assert.InDelta(t, 0.35, merged.PreferenceConfidence, 1e-9)
		assert.Equal(t, 0.4, merged.NoveltyTolerance)
		assert.Equal(t, 85.0, merged.DietaryComplianceScore)
	})

	t.Run("ReceiverUntouched", func(t *testing.T) {
		assert.Equal(t, 4, current.InteractionCount)
		assert.Equal(t, 0.6, current.MealPreferencesLearned["salmon"])
		assert.NotContains(t, current.MealPreferencesLearned, "turmeric")
	})

	t.Run("LowerConfidenceIgnored", func(t *testing.T) {
		again := merged.Apply(LearningDelta{PreferenceConfidence: 0.1})
		assert.InDelta(t, 0.35, again.PreferenceConfidence, 1e-9)
	})
}

func TestLearningProfile_Affinity(t *testing.T) {
	var empty LearningProfile
	assert.Equal(t, 0.0, empty.Affinity("salmon"))

	lp := DefaultLearningProfile()
	lp.MealPreferencesLearned["olive oil"] = 0.8
	assert.Equal(t, 0.8, lp.Affinity("  Olive Oil"))
	assert.Equal(t, 0.5, lp.NoveltyTolerance)
}

func TestLearningDelta_Ingredients(t *testing.T) {
	d := LearningDelta{IngredientAffinities: map[string]float64{"kale": 0.1, "apple": 0.1, "beet": 0.2}}
	assert.Equal(t, []string{"apple", "beet", "kale"}, d.Ingredients())
}

func TestProfile(t *testing.T) {
	valid := Profile{
		UserID:             "u-1",
		SkillLevel:         CookingLevelIntermediate,
		TimeTolerance:      PrepTimeMedium,
		DailyCalorieTarget: 2000,
	}
	require.NoError(t, valid.Validate())
	assert.False(t, valid.HasBiomarkers())

	t.Run("Validate", func(t *testing.T) {
		p := valid
		p.DailyCalorieTarget = 0
		assert.ErrorIs(t, p.Validate(), ErrInvalidCalorieTarget)

		p = valid
		p.SkillLevel = "chef"
		assert.ErrorIs(t, p.Validate(), ErrInvalidCookingLevel)

		p = valid
		p.TimeTolerance = "forever"
		assert.ErrorIs(t, p.Validate(), ErrInvalidTimeTolerance)

		p = valid
		p.Biomarkers = &HealthBiomarkers{CRP: Reading(-1)}
		assert.ErrorIs(t, p.Validate(), ErrNegativeBiomarkerRead)
	})

	t.Run("Ordinals", func(t *testing.T) {
		assert.Equal(t, 1, CookingLevelBeginner.Rank())
		assert.Equal(t, 2, CookingLevel("Intermediate").Rank())
		assert.Equal(t, 3, CookingLevelAdvanced.Rank())
		assert.Equal(t, 30, PrepTimeQuick.Minutes())
		assert.Equal(t, 60, PrepTimeMedium.Minutes())
		assert.Equal(t, 120, PrepTimeElaborate.Minutes())
		assert.Equal(t, 60, PrepTimeTolerance("").Minutes())
	})

	t.Run("HasBiomarkers", func(t *testing.T) {
		p := valid
		p.Biomarkers = &HealthBiomarkers{}
		assert.False(t, p.HasBiomarkers())
		p.Biomarkers.VitaminD = Reading(22)
		assert.True(t, p.HasBiomarkers())
	})
}

func TestSeasonFor(t *testing.T) {
	assert.Equal(t, SeasonWinter, SeasonFor(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonSpring, SeasonFor(time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonSummer, SeasonFor(time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonAutumn, SeasonFor(time.Date(2024, time.October, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonWinter, SeasonFor(time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)))
}
