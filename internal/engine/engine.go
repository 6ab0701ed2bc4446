// Package engine runs the menu recommendation pipeline: enrich the candidate
// pool, select per slot, predict outcomes, derive insights and compute the
// learning delta.
//
// The engine performs no I/O and keeps no per-call state. The learning
// profile is read from the context and the resulting delta is returned for
// the caller to persist.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/engine/enrich"
	"github.com/alchemorsel/menuplanner/internal/engine/knowledge"
	"github.com/alchemorsel/menuplanner/internal/engine/learning"
	"github.com/alchemorsel/menuplanner/internal/engine/predict"
	"github.com/alchemorsel/menuplanner/internal/engine/selector"
)

const tracerName = "github.com/alchemorsel/menuplanner/internal/engine"

// menuNamespace seeds deterministic menu IDs
var menuNamespace = uuid.MustParse("8f14e45f-ceea-467e-a0b5-4c7f2ad2f3a1")

// Generation outcomes reported to the Recorder
const (
	StatusSuccess        = "success"
	StatusNoCandidates   = "no_candidates"
	StatusInvalidOptions = "invalid_options"
	StatusCanceled       = "canceled"
)

// Recorder receives per-call measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveGeneration(status string, duration time.Duration, poolSize int)
	ObserveOmittedSlots(slots []recipe.MealType)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, time.Duration, int) {}
func (nopRecorder) ObserveOmittedSlots([]recipe.MealType)        {}

// Config holds the engine's immutable settings
type Config struct {
	Pool enrich.PoolOptions
}

// Engine generates menus. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	logger   *zap.Logger
	validate *validator.Validate
	recorder Recorder
	tracer   trace.Tracer
}

// Option customizes an Engine
type Option func(*Engine)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithTracer sets the tracer used for pipeline spans
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New creates an engine
func New(cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logger.Named("menu-engine"),
		validate: validator.New(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds a menu for the user from the candidate pool.
//
// It fails with *menu.InvalidOptionsError before any scoring when an option is
// out of range, and with *menu.NoCandidatesError when no requested slot has an
// eligible candidate. Slots without candidates are otherwise omitted.
func (e *Engine) Generate(ctx context.Context, uctx user.Context, pool []recipe.Recipe, opts menu.SelectionOptions) (*menu.Result, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "engine.generate", trace.WithAttributes(
		attribute.String("user.id", uctx.Profile.UserID),
		attribute.Int("pool.size", len(pool)),
	))
	defer span.End()

	result, status, err := e.generate(ctx, uctx, pool, opts)
	duration := time.Since(start)
	e.recorder.ObserveGeneration(status, duration, len(pool))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		e.logger.Debug("Menu generation failed",
			zap.String("user_id", uctx.Profile.UserID),
			zap.String("status", status),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("menu.recipes", result.Menu.Totals.RecipeCount))
	e.logger.Debug("Menu generated",
		zap.String("user_id", uctx.Profile.UserID),
		zap.String("menu_id", result.Menu.ID),
		zap.Int("candidates", len(pool)),
		zap.Int("slots_filled", len(result.Menu.SlotOrder)),
		zap.Int("insights", len(result.Insights)),
		zap.Duration("duration", duration))
	return result, nil
}

func (e *Engine) generate(ctx context.Context, uctx user.Context, pool []recipe.Recipe, opts menu.SelectionOptions) (*menu.Result, string, error) {
	opts, err := e.ValidateOptions(opts)
	if err != nil {
		return nil, StatusInvalidOptions, err
	}
	slots := opts.MealTypes

	biomarkers := knowledge.LookupBiomarkerIngredients(uctx.Profile.Biomarkers)

	_, enrichSpan := e.tracer.Start(ctx, "engine.enrich")
	enriched, err := enrich.EnrichAll(ctx, pool, uctx, biomarkers, e.cfg.Pool)
	enrichSpan.End()
	if err != nil {
		return nil, StatusCanceled, err
	}

	sel := selector.Select(enriched, slots, opts)
	if len(sel.Slots) == 0 {
		return nil, StatusNoCandidates, &menu.NoCandidatesError{MissingSlots: sel.Omitted}
	}
	if len(sel.Omitted) > 0 {
		e.recorder.ObserveOmittedSlots(sel.Omitted)
		e.logger.Warn("Meal slots omitted for lack of candidates",
			zap.String("user_id", uctx.Profile.UserID),
			zap.Strings("slots", slotNames(sel.Omitted)))
	}
	if e.logger.Core().Enabled(zap.DebugLevel) {
		for _, slot := range slots {
			if ranked := sel.Ranking[slot]; len(ranked) > 0 {
				e.logger.Debug("Slot ranking",
					zap.String("slot", string(slot)),
					zap.String("winner", ranked[0].Recipe.ID),
					zap.Float64("score", ranked[0].Score),
					zap.Int("eligible", len(ranked)))
			}
		}
	}

	m := menu.NewMenu(menuID(uctx.Profile.UserID, slots, sel.Slots), slots, sel.Slots)
	prediction := predict.Predict(m, uctx.Profile)

	return &menu.Result{
		Menu:          m,
		Predictions:   prediction,
		Insights:      learning.DeriveInsights(m, prediction),
		LearningDelta: learning.ComputeDelta(uctx.Profile.UserID, uctx.Learning, m),
	}, StatusSuccess, nil
}

// ValidateOptions normalizes the requested slots, fills a zero MaxPerSlot with
// the default and checks every field against its range.
func (e *Engine) ValidateOptions(opts menu.SelectionOptions) (menu.SelectionOptions, error) {
	opts.MealTypes = opts.NormalizedMealTypes()
	if opts.MaxPerSlot == 0 {
		opts.MaxPerSlot = menu.DefaultMaxPerSlot
	}

	if err := e.validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			violations := make([]menu.OptionViolation, len(verrs))
			for i, fe := range verrs {
				violations[i] = menu.OptionViolation{Field: fe.Field(), Value: fe.Value(), Reason: describe(fe)}
			}
			first := violations[0]
			return opts, &menu.InvalidOptionsError{
				Field:      first.Field,
				Value:      first.Value,
				Reason:     first.Reason,
				Violations: violations,
			}
		}
		return opts, &menu.InvalidOptionsError{Field: "options", Reason: err.Error()}
	}
	return opts, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s entry", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// menuID derives a stable ID from the user and the selected recipes so that
// identical inputs produce identical results.
func menuID(userID string, order []recipe.MealType, slots map[recipe.MealType][]menu.EnrichedRecipe) string {
	var b strings.Builder
	b.WriteString(userID)
	for _, slot := range order {
		for _, r := range slots[slot] {
			b.WriteString("|")
			b.WriteString(string(slot))
			b.WriteString("=")
			b.WriteString(r.ID)
		}
	}
	return uuid.NewSHA1(menuNamespace, []byte(b.String())).String()
}

func slotNames(slots []recipe.MealType) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = string(s)
	}
	sort.Strings(names)
	return names
}
