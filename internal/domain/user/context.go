package user

import (
	"time"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// Season names a growing season
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonFor returns the northern-hemisphere season for a date.
func SeasonFor(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// SeasonalContext describes what is locally in season. When LocalIngredients
// is empty the knowledge base list for Season is used.
type SeasonalContext struct {
	Season           Season
	LocalIngredients []string
}

// Context is the immutable per-call input describing the user.
type Context struct {
	Profile     Profile
	RecentMeals []recipe.Recipe // meals eaten in the last 7 days
	Seasonal    SeasonalContext
	Learning    LearningProfile
}
