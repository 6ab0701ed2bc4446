// Package user defines the user-side inputs of menu generation: the health
// profile, the persisted learning profile and the per-call context.
package user

import (
	"errors"
	"strings"
)

// Profile contains the user's health goals and cooking constraints
type Profile struct {
	UserID             string
	DietaryPreferences []string
	SkillLevel         CookingLevel
	TimeTolerance      PrepTimeTolerance
	DailyCalorieTarget float64
	Biomarkers         *HealthBiomarkers
}

// HealthBiomarkers holds optional lab readings. A nil reading was not supplied.
type HealthBiomarkers struct {
	CRP              *float64 // mg/L
	TotalCholesterol *float64 // mg/dL
	FastingGlucose   *float64 // mg/dL
	VitaminD         *float64 // ng/mL
	SerumIron        *float64 // mcg/dL
}

// CookingLevel represents a user's cooking skill level
type CookingLevel string

const (
	CookingLevelBeginner     CookingLevel = "beginner"
	CookingLevelIntermediate CookingLevel = "intermediate"
	CookingLevelAdvanced     CookingLevel = "advanced"
)

// Rank returns the ordinal of the skill level: beginner=1, intermediate=2,
// advanced=3. Unknown levels rank as beginner.
func (c CookingLevel) Rank() int {
	switch CookingLevel(strings.ToLower(strings.TrimSpace(string(c)))) {
	case CookingLevelIntermediate:
		return 2
	case CookingLevelAdvanced:
		return 3
	default:
		return 1
	}
}

// PrepTimeTolerance represents how much kitchen time the user accepts
type PrepTimeTolerance string

const (
	PrepTimeQuick     PrepTimeTolerance = "quick"
	PrepTimeMedium    PrepTimeTolerance = "medium"
	PrepTimeElaborate PrepTimeTolerance = "elaborate"
)

// Minutes returns the total-time threshold for the tolerance. Unknown
// tolerances fall back to the medium threshold.
func (p PrepTimeTolerance) Minutes() int {
	switch PrepTimeTolerance(strings.ToLower(strings.TrimSpace(string(p)))) {
	case PrepTimeQuick:
		return 30
	case PrepTimeElaborate:
		return 120
	default:
		return 60
	}
}

// DietaryRestriction represents common dietary preference tags
type DietaryRestriction string

const (
	DietaryRestrictionVegetarian DietaryRestriction = "vegetarian"
	DietaryRestrictionVegan      DietaryRestriction = "vegan"
	DietaryRestrictionGlutenFree DietaryRestriction = "gluten_free"
	DietaryRestrictionDairyFree  DietaryRestriction = "dairy_free"
	DietaryRestrictionKeto       DietaryRestriction = "keto"
	DietaryRestrictionPaleo      DietaryRestriction = "paleo"
	DietaryRestrictionHalal      DietaryRestriction = "halal"
	DietaryRestrictionKosher     DietaryRestriction = "kosher"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCalorieTarget  = errors.New("daily calorie target must be positive")
	ErrInvalidCookingLevel   = errors.New("unknown cooking level")
	ErrInvalidTimeTolerance  = errors.New("unknown prep time tolerance")
	ErrNegativeBiomarkerRead = errors.New("biomarker readings cannot be negative")
)

// Validate checks the stored profile. Used when profiles are written, not by
// the engine.
func (p Profile) Validate() error {
	if p.DailyCalorieTarget <= 0 {
		return ErrInvalidCalorieTarget
	}
	switch p.SkillLevel {
	case CookingLevelBeginner, CookingLevelIntermediate, CookingLevelAdvanced:
	default:
		return ErrInvalidCookingLevel
	}
	switch p.TimeTolerance {
	case PrepTimeQuick, PrepTimeMedium, PrepTimeElaborate:
	default:
		return ErrInvalidTimeTolerance
	}
	if p.Biomarkers != nil {
		for _, v := range []*float64{
			p.Biomarkers.CRP,
			p.Biomarkers.TotalCholesterol,
			p.Biomarkers.FastingGlucose,
			p.Biomarkers.VitaminD,
			p.Biomarkers.SerumIron,
		} {
			if v != nil && *v < 0 {
				return ErrNegativeBiomarkerRead
			}
		}
	}
	return nil
}

// HasBiomarkers reports whether the user supplied at least one reading.
func (p Profile) HasBiomarkers() bool {
	b := p.Biomarkers
	if b == nil {
		return false
	}
	return b.CRP != nil || b.TotalCholesterol != nil || b.FastingGlucose != nil ||
		b.VitaminD != nil || b.SerumIron != nil
}

// Reading is a small helper for building optional biomarker values.
func Reading(v float64) *float64 {
	return &v
}
