package menu

import (
	"time"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// MenuGeneratedEvent is raised after a menu has been produced for a user
type MenuGeneratedEvent struct {
	MenuID      string
	UserID      string
	Slots       []recipe.MealType
	RecipeCount int
	Timestamp   time.Time
}

// EventName returns the event name
func (e MenuGeneratedEvent) EventName() string {
	return "menu.generated"
}

// OccurredAt returns when the event occurred
func (e MenuGeneratedEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// LearningDeltaAppliedEvent is raised after a delta was merged into the
// persisted learning profile
type LearningDeltaAppliedEvent struct {
	UserID           string
	InteractionCount int
	Ingredients      int
	Timestamp        time.Time
}

// EventName returns the event name
func (e LearningDeltaAppliedEvent) EventName() string {
	return "menu.learning_delta_applied"
}

// OccurredAt returns when the event occurred
func (e LearningDeltaAppliedEvent) OccurredAt() time.Time {
	return e.Timestamp
}
