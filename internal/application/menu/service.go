// Package menu provides the application layer for menu planning.
// It loads the engine's inputs through the outbound ports, runs the engine
// and handles caching, history and learning persistence around it.
package menu

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/shared"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/ports/inbound"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
	"github.com/alchemorsel/menuplanner/pkg/errors"
)

const dateLayout = "2006-01-02"

// Generator is the engine contract the service drives
type Generator interface {
	Generate(ctx context.Context, uctx user.Context, pool []recipe.Recipe, opts menu.SelectionOptions) (*menu.Result, error)
}

// CacheObserver is told the outcome of every menu cache lookup
type CacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// Settings are the service defaults. They can be swapped at runtime with
// UpdateSettings.
type Settings struct {
	MealTypes             []recipe.MealType
	OptimizeForBiomarkers bool
	SeasonalWeight        float64
	NoveltyWeight         float64
	MaxPerSlot            int
	RecentMealDays        int
	CandidateLimit        int
	MenuTTL               time.Duration
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		MealTypes:      []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner},
		SeasonalWeight: menu.DefaultSeasonalWeight,
		NoveltyWeight:  menu.DefaultNoveltyWeight,
		MaxPerSlot:     menu.DefaultMaxPerSlot,
		RecentMealDays: 7,
		MenuTTL:        6 * time.Hour,
	}
}

// MenuService implements the menu planning use cases
type MenuService struct {
	engine   Generator
	recipes  outbound.RecipeRepository
	profiles outbound.UserProfileRepository
	history  outbound.MealHistoryRepository
	cache    outbound.CacheRepository
	events   shared.EventDispatcher
	observer CacheObserver
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	settings Settings
}

// NewMenuService creates a new menu service. The cache and event dispatcher
// may be nil.
func NewMenuService(
	engine Generator,
	recipes outbound.RecipeRepository,
	profiles outbound.UserProfileRepository,
	history outbound.MealHistoryRepository,
	cache outbound.CacheRepository,
	events shared.EventDispatcher,
	settings Settings,
	logger *zap.Logger,
) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{
		engine:   engine,
		recipes:  recipes,
		profiles: profiles,
		history:  history,
		cache:    cache,
		events:   events,
		logger:   logger.Named("menu-service"),
		now:      time.Now,
		settings: settings,
	}
}

var _ inbound.MenuService = (*MenuService)(nil)

// SetCacheObserver registers an observer for cache lookups
func (s *MenuService) SetCacheObserver(observer CacheObserver) {
	s.observer = observer
}

// UpdateSettings replaces the service defaults
func (s *MenuService) UpdateSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.logger.Info("Menu settings updated",
		zap.Float64("seasonal_weight", settings.SeasonalWeight),
		zap.Float64("novelty_weight", settings.NoveltyWeight),
		zap.Int("max_per_slot", settings.MaxPerSlot),
	)
}

// Settings returns the current defaults
func (s *MenuService) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// GenerateMenu loads the user's inputs, runs the engine and records the result
func (s *MenuService) GenerateMenu(ctx context.Context, cmd inbound.GenerateMenuCommand) (*inbound.MenuDTO, error) {
	if cmd.UserID == "" {
		return nil, errors.NewBadRequestError("user id is required")
	}
	settings := s.Settings()
	date := cmd.Date
	if date.IsZero() {
		date = s.now()
	}
	opts := s.selectionOptions(cmd, settings)
	key := cacheKey(cmd.UserID, date, opts, cmd.LocalIngredients)

	if !cmd.SkipCache && !cmd.PersistLearning {
		if dto, ok := s.readCache(ctx, key); ok {
			s.logger.Debug("Serving cached menu", zap.String("user_id", cmd.UserID), zap.String("key", key))
			return dto, nil
		}
	}

	profile, err := s.profiles.FindProfile(ctx, cmd.UserID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(cmd.UserID)
		}
		return nil, errors.NewDatabaseError("load profile", err)
	}

	learning, err := s.profiles.FindLearningProfile(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load learning profile", err)
	}

	since := date.AddDate(0, 0, -settings.RecentMealDays)
	recent, err := s.history.RecentMeals(ctx, cmd.UserID, since, date)
	if err != nil {
		return nil, errors.NewDatabaseError("load recent meals", err)
	}

	pool, err := s.recipes.FindCandidates(ctx, outbound.CandidateCriteria{
		MealTypes: opts.NormalizedMealTypes(),
		Limit:     settings.CandidateLimit,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("load candidates", err)
	}

	uctx := user.Context{
		Profile:     *profile,
		RecentMeals: recent,
		Seasonal: user.SeasonalContext{
			Season:           user.SeasonFor(date),
			LocalIngredients: cmd.LocalIngredients,
		},
		Learning: learning,
	}

	result, err := s.engine.Generate(ctx, uctx, pool, opts)
	if err != nil {
		return nil, mapEngineError(err)
	}

	s.logger.Info("Menu generated",
		zap.String("user_id", cmd.UserID),
		zap.String("menu_id", result.Menu.ID),
		zap.Int("candidates", len(pool)),
		zap.Int("recent_meals", len(recent)),
		zap.Int("recipes", result.Menu.Totals.RecipeCount),
	)

	if err := s.history.RecordServedMenu(ctx, cmd.UserID, result.Menu, date); err != nil {
		return nil, errors.NewDatabaseError("record served menu", err)
	}

	dto := &inbound.MenuDTO{
		UserID:        cmd.UserID,
		Date:          date.Format(dateLayout),
		GeneratedAt:   s.now().UTC(),
		Menu:          result.Menu,
		Predictions:   result.Predictions,
		Insights:      result.Insights,
		LearningDelta: result.LearningDelta,
	}

	// The served menu is already recorded, so a failed merge is reported on
	// the DTO rather than failing the call.
	if cmd.PersistLearning {
		if _, err := s.ApplyLearningDelta(ctx, result.LearningDelta); err != nil {
			s.logger.Warn("Learning delta not persisted",
				zap.String("user_id", cmd.UserID),
				zap.String("menu_id", result.Menu.ID),
				zap.Error(err))
		} else {
			dto.Persisted = true
		}
	}

	s.writeCache(ctx, key, dto, settings.MenuTTL)
	s.writeCache(ctx, latestKey(cmd.UserID, date), dto, settings.MenuTTL)
	s.dispatch(menu.MenuGeneratedEvent{
		MenuID:      result.Menu.ID,
		UserID:      cmd.UserID,
		Slots:       result.Menu.SlotOrder,
		RecipeCount: result.Menu.Totals.RecipeCount,
		Timestamp:   s.now(),
	})

	return dto, nil
}

// ApplyLearningDelta merges a delta into the stored learning profile
func (s *MenuService) ApplyLearningDelta(ctx context.Context, delta user.LearningDelta) (*inbound.LearningProfileDTO, error) {
	if delta.UserID == "" {
		return nil, errors.NewBadRequestError("delta has no user id")
	}

	merged, err := s.profiles.MergeLearningDelta(ctx, delta)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(delta.UserID)
		}
		return nil, errors.NewDatabaseError("merge learning delta", err)
	}

	s.logger.Info("Learning delta applied",
		zap.String("user_id", delta.UserID),
		zap.Int("interaction_count", merged.InteractionCount),
		zap.Int("ingredients", len(delta.IngredientAffinities)),
	)
	s.dispatch(menu.LearningDeltaAppliedEvent{
		UserID:           delta.UserID,
		InteractionCount: merged.InteractionCount,
		Ingredients:      len(delta.IngredientAffinities),
		Timestamp:        s.now(),
	})

	return &inbound.LearningProfileDTO{
		UserID:                 delta.UserID,
		MealPreferencesLearned: merged.MealPreferencesLearned,
		NoveltyTolerance:       merged.NoveltyTolerance,
		DietaryComplianceScore: merged.DietaryComplianceScore,
		PreferenceConfidence:   merged.PreferenceConfidence,
		InteractionCount:       merged.InteractionCount,
	}, nil
}

// GetCachedMenu returns the menu most recently generated for the user and
// date, whatever options produced it
func (s *MenuService) GetCachedMenu(ctx context.Context, userID string, date time.Time) (*inbound.MenuDTO, error) {
	if s.cache == nil {
		return nil, errors.NewNotFoundError("cached menu")
	}
	data, err := s.cache.Get(ctx, latestKey(userID, date))
	if err != nil {
		if stderrors.Is(err, outbound.ErrCacheMiss) {
			return nil, errors.NewNotFoundError("cached menu")
		}
		return nil, errors.NewCacheError("get menu", err)
	}
	var dto inbound.MenuDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errors.NewCacheError("decode menu", err)
	}
	dto.FromCache = true
	return &dto, nil
}

func (s *MenuService) selectionOptions(cmd inbound.GenerateMenuCommand, settings Settings) menu.SelectionOptions {
	mealTypes := cmd.MealTypes
	if len(mealTypes) == 0 {
		mealTypes = settings.MealTypes
	}
	opts := menu.NewSelectionOptions(mealTypes...)
	opts.OptimizeForBiomarkers = settings.OptimizeForBiomarkers
	opts.SeasonalWeight = settings.SeasonalWeight
	opts.NoveltyWeight = settings.NoveltyWeight
	if settings.MaxPerSlot > 0 {
		opts.MaxPerSlot = settings.MaxPerSlot
	}

	if cmd.OptimizeForBiomarkers != nil {
		opts.OptimizeForBiomarkers = *cmd.OptimizeForBiomarkers
	}
	if cmd.SeasonalWeight != nil {
		opts.SeasonalWeight = *cmd.SeasonalWeight
	}
	if cmd.NoveltyWeight != nil {
		opts.NoveltyWeight = *cmd.NoveltyWeight
	}
	if cmd.MaxPerSlot != 0 {
		opts.MaxPerSlot = cmd.MaxPerSlot
	}
	return opts
}

func (s *MenuService) readCache(ctx context.Context, key string) (*inbound.MenuDTO, bool) {
	if s.cache == nil {
		return nil, false
	}
	dto, hit := s.lookupCache(ctx, key)
	if s.observer != nil {
		s.observer.ObserveCacheLookup(hit)
	}
	return dto, hit
}

func (s *MenuService) lookupCache(ctx context.Context, key string) (*inbound.MenuDTO, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Menu cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var dto inbound.MenuDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Discarding undecodable cached menu", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	dto.FromCache = true
	return &dto, true
}

func (s *MenuService) writeCache(ctx context.Context, key string, dto *inbound.MenuDTO, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("Failed to encode menu for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("Failed to cache menu", zap.String("key", key), zap.Error(err))
	}
}

func (s *MenuService) dispatch(event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Dispatch(event); err != nil {
		s.logger.Warn("Event handler failed", zap.String("event", event.EventName()), zap.Error(err))
	}
}

func mapEngineError(err error) error {
	var noCandidates *menu.NoCandidatesError
	if stderrors.As(err, &noCandidates) {
		return errors.NewNoCandidatesError(noCandidates.SlotNames()).WithCause(err)
	}
	var invalid *menu.InvalidOptionsError
	if stderrors.As(err, &invalid) {
		all := invalid.All()
		violations := make(errors.ValidationErrors, len(all))
		for i, v := range all {
			violations[i] = errors.ValidationError{Field: v.Field, Value: v.Value, Message: v.Reason}
		}
		return errors.NewInvalidOptionsError(violations).WithCause(err)
	}
	return errors.Wrap(err, "menu generation failed")
}

// cacheKey identifies a menu by user, date and every option that shapes it
func cacheKey(userID string, date time.Time, opts menu.SelectionOptions, local []string) string {
	return fmt.Sprintf("%s:%s", latestKey(userID, date), optionsDigest(opts, local))
}

func latestKey(userID string, date time.Time) string {
	return fmt.Sprintf("menu:%s:%s", userID, date.Format(dateLayout))
}

func optionsDigest(opts menu.SelectionOptions, local []string) string {
	slots := opts.NormalizedMealTypes()
	names := make([]string, len(slots))
	for i, mt := range slots {
		names[i] = string(mt)
	}
	maxPerSlot := opts.MaxPerSlot
	if maxPerSlot == 0 {
		maxPerSlot = menu.DefaultMaxPerSlot
	}

	ingredients := make([]string, 0, len(local))
	seen := make(map[string]bool, len(local))
	for _, name := range local {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && !seen[name] {
			seen[name] = true
			ingredients = append(ingredients, name)
		}
	}
	sort.Strings(ingredients)

	canonical := fmt.Sprintf("slots=%s;bio=%t;seasonal=%g;novelty=%g;max=%d;local=%s",
		strings.Join(names, ","), opts.OptimizeForBiomarkers, opts.SeasonalWeight,
		opts.NoveltyWeight, maxPerSlot, strings.Join(ingredients, ","))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(canonical)).String()[:8]
}
