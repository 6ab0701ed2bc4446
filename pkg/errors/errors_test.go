package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoCandidatesError(t *testing.T) {
	err := NewNoCandidatesError([]string{"dinner", "snack"})

	assert.Equal(t, CodeNoCandidates, err.Code)
	assert.Contains(t, err.Error(), "dinner, snack")
	assert.Equal(t, []string{"dinner", "snack"}, err.Metadata["missing_slots"])
	assert.NotEmpty(t, err.StackTrace)
}

func TestInvalidOptionsError(t *testing.T) {
	violations := ValidationErrors{
		{Field: "SeasonalWeight", Value: 1.5, Message: "must be <= 1"},
		{Field: "NoveltyWeight", Value: -0.1, Message: "must be >= 0"},
	}
	err := NewInvalidOptionsError(violations)

	assert.Equal(t, CodeInvalidOptions, err.Code)
	assert.Equal(t, "SeasonalWeight", err.Metadata["field"])
	assert.Equal(t, violations, err.Metadata["violations"])
	assert.Contains(t, err.Error(), "SeasonalWeight: must be <= 1; NoveltyWeight: must be >= 0")

	empty := NewInvalidOptionsError(nil)
	assert.NotContains(t, empty.Metadata, "field")
	assert.Contains(t, empty.Error(), "no fields rejected")
}

func TestConfigError(t *testing.T) {
	cause := stderrors.New("engine.seasonal_weight must be within [0,1]")
	err := NewConfigError(cause)

	assert.Equal(t, CodeConfigError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "seasonal_weight")
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "ignored"))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := stderrors.New("boom")
		wrapped := Wrap(cause, "failed")

		require.NotNil(t, wrapped)
		assert.Equal(t, CodeInternal, wrapped.Code)
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("app error passes through even when wrapped", func(t *testing.T) {
		original := NewUserNotFoundError("u-1")
		wrapped := Wrap(fmt.Errorf("loading: %w", original), "failed")

		assert.Same(t, original, wrapped)
	})
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewDatabaseError("load recipes", stderrors.New("closed")))

	assert.True(t, Is(err, CodeDatabaseError))
	assert.False(t, Is(err, CodeNoCandidates))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}
