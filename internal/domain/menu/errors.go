package menu

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// NoCandidatesError is returned when every requested slot has zero eligible
// candidates. No partial menu accompanies it.
type NoCandidatesError struct {
	MissingSlots []recipe.MealType
}

func (e *NoCandidatesError) Error() string {
	names := make([]string, len(e.MissingSlots))
	for i, s := range e.MissingSlots {
		names[i] = string(s)
	}
	return fmt.Sprintf("no candidates for meal slots: %s", strings.Join(names, ", "))
}

// SlotNames returns the missing slots as plain strings.
func (e *NoCandidatesError) SlotNames() []string {
	names := make([]string, len(e.MissingSlots))
	for i, s := range e.MissingSlots {
		names[i] = string(s)
	}
	return names
}

// OptionViolation is one option outside its range
type OptionViolation struct {
	Field  string
	Value  interface{}
	Reason string
}

// InvalidOptionsError is returned before any scoring when an option is out of
// range. Field, Value and Reason describe the first violation; Violations
// lists all of them in declaration order.
type InvalidOptionsError struct {
	Field      string
	Value      interface{}
	Reason     string
	Violations []OptionViolation
}

func (e *InvalidOptionsError) Error() string {
	msg := fmt.Sprintf("invalid selection option %s=%v: %s", e.Field, e.Value, e.Reason)
	if extra := len(e.Violations) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// All returns every violation, falling back to the single described one.
func (e *InvalidOptionsError) All() []OptionViolation {
	if len(e.Violations) > 0 {
		return e.Violations
	}
	return []OptionViolation{{Field: e.Field, Value: e.Value, Reason: e.Reason}}
}
