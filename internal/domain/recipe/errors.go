package recipe

import "errors"

// Catalog validation errors

var (
	ErrMissingID                  = errors.New("recipe id is required")
	ErrTitleTooShort              = errors.New("recipe title must be at least 3 characters")
	ErrTitleTooLong               = errors.New("recipe title must not exceed 200 characters")
	ErrNegativeTime               = errors.New("prep and cook time cannot be negative")
	ErrAntiInflammatoryOutOfRange = errors.New("anti-inflammatory score must be between -10 and 10")
	ErrUnknownMealType            = errors.New("unknown meal type")
)
