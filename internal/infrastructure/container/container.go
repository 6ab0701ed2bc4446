// Package container wires the menu planner with Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	menuapp "github.com/alchemorsel/menuplanner/internal/application/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/shared"
	"github.com/alchemorsel/menuplanner/internal/engine"
	"github.com/alchemorsel/menuplanner/internal/engine/enrich"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/postgres"
	redisCache "github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/menuplanner/internal/ports/inbound"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
	"github.com/alchemorsel/menuplanner/pkg/healthcheck"
	"github.com/alchemorsel/menuplanner/pkg/logger"
)

const engineTracerName = "github.com/alchemorsel/menuplanner/internal/engine"

// ConfigPath is the configuration file handed to viper. Empty means the
// default search paths.
type ConfigPath string

// Module builds the full application graph for the given config file
func Module(path string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(path)),
		ConfigModule,
		LoggerModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		MonitoringModule,
		EngineModule,
		EventModule,
		ServiceModule,
		HealthModule,
		LifecycleModule,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*viper.Viper, error) {
		return config.NewViper(string(path))
	},
	config.Decode,
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens the database, seeds it when asked and closes it on stop
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.Open(context.Background(), cfg, log)
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path, gormRepo.ParseLogLevel(cfg.Database.LogLevel))
		if err == nil {
			log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}

	if cfg.Database.Seed {
		if err := sqlite.SeedDatabase(context.Background(), db); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Demo catalog seeded", zap.String("demo_user", sqlite.DemoUserID))
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

// CacheModule provides the menu cache
var CacheModule = fx.Provide(NewCache)

// NewCache connects to Redis when enabled and falls back to the in-process
// cache otherwise
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
	type closer interface{ Close() error }

	var cache interface {
		outbound.CacheRepository
		closer
	}
	if cfg.Redis.Enabled {
		repo, err := redisCache.NewCacheRepository(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		cache = repo
	} else {
		log.Info("Using in-memory menu cache")
		cache = memory.NewCacheRepository()
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
	return cache, nil
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewRecipeRepository,
		fx.As(new(outbound.RecipeRepository)),
	),
	fx.Annotate(
		gormRepo.NewUserProfileRepository,
		fx.As(new(outbound.UserProfileRepository)),
	),
	fx.Annotate(
		gormRepo.NewMealHistoryRepository,
		fx.As(new(outbound.MealHistoryRepository)),
	),
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewEngineMetrics,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracerProvider, error) {
		tp, err := monitoring.NewTracerProvider(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// EngineModule provides the recommendation engine
var EngineModule = fx.Provide(NewEngine)

// NewEngine builds the engine from the engine section of the config
func NewEngine(cfg *config.Config, metrics *monitoring.EngineMetrics, tp *monitoring.TracerProvider, log *zap.Logger) *engine.Engine {
	opts := []engine.Option{engine.WithTracer(tp.Tracer(engineTracerName))}
	if cfg.Monitoring.EnableMetrics {
		opts = append(opts, engine.WithRecorder(metrics))
	}
	return engine.New(engine.Config{
		Pool: enrich.PoolOptions{
			Workers:           cfg.Engine.Workers,
			ParallelThreshold: cfg.Engine.ParallelThreshold,
		},
	}, log, opts...)
}

// EventModule provides the in-process event dispatcher
var EventModule = fx.Provide(NewEventDispatcher)

// NewEventDispatcher registers the logging handlers for the menu events
func NewEventDispatcher(log *zap.Logger) shared.EventDispatcher {
	log = log.Named("events")
	dispatcher := shared.NewInProcessDispatcher()

	dispatcher.Register(menu.MenuGeneratedEvent{}.EventName(), func(e shared.DomainEvent) error {
		generated, ok := e.(menu.MenuGeneratedEvent)
		if !ok {
			return fmt.Errorf("unexpected event %T", e)
		}
		log.Debug("Menu generated",
			zap.String("menu_id", generated.MenuID),
			zap.String("user_id", generated.UserID),
			zap.Int("recipes", generated.RecipeCount),
		)
		return nil
	})
	dispatcher.Register(menu.LearningDeltaAppliedEvent{}.EventName(), func(e shared.DomainEvent) error {
		applied, ok := e.(menu.LearningDeltaAppliedEvent)
		if !ok {
			return fmt.Errorf("unexpected event %T", e)
		}
		log.Debug("Learning delta applied",
			zap.String("user_id", applied.UserID),
			zap.Int("interaction_count", applied.InteractionCount),
		)
		return nil
	})
	return dispatcher
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	NewMenuService,
	func(s *menuapp.MenuService) inbound.MenuService { return s },
)

// NewMenuService builds the menu service with settings taken from the config
func NewMenuService(
	cfg *config.Config,
	eng *engine.Engine,
	recipes outbound.RecipeRepository,
	profiles outbound.UserProfileRepository,
	history outbound.MealHistoryRepository,
	cache outbound.CacheRepository,
	events shared.EventDispatcher,
	metrics *monitoring.EngineMetrics,
	log *zap.Logger,
) *menuapp.MenuService {
	service := menuapp.NewMenuService(eng, recipes, profiles, history, cache, events, SettingsFromConfig(cfg), log)
	if cfg.Monitoring.EnableMetrics {
		service.SetCacheObserver(metrics)
	}
	return service
}

// SettingsFromConfig maps the engine and redis sections onto service settings
func SettingsFromConfig(cfg *config.Config) menuapp.Settings {
	settings := settingsFromEngine(cfg.Engine)
	if cfg.Redis.MenuTTL > 0 {
		settings.MenuTTL = cfg.Redis.MenuTTL
	}
	return settings
}

func settingsFromEngine(e config.EngineConfig) menuapp.Settings {
	settings := menuapp.DefaultSettings()
	if slots := e.SlotTypes(); len(slots) > 0 {
		settings.MealTypes = slots
	}
	settings.OptimizeForBiomarkers = e.OptimizeForBiomarkers
	settings.SeasonalWeight = e.SeasonalWeight
	settings.NoveltyWeight = e.NoveltyWeight
	if e.MaxPerSlot > 0 {
		settings.MaxPerSlot = e.MaxPerSlot
	}
	if e.RecentMealDays > 0 {
		settings.RecentMealDays = e.RecentMealDays
	}
	settings.CandidateLimit = e.CandidateLimit
	return settings
}

// HealthModule provides the dependency health checks
var HealthModule = fx.Provide(NewHealthCheck)

// NewHealthCheck registers the database, cache and catalog checks
func NewHealthCheck(
	cfg *config.Config,
	db *gorm.DB,
	cache outbound.CacheRepository,
	recipes outbound.RecipeRepository,
	log *zap.Logger,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewDatabaseChecker(db))
	hc.Register("cache", healthcheck.NewCacheChecker(cache))
	hc.Register("catalog", healthcheck.NewCatalogChecker(recipes))
	return hc
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks logs startup and shutdown and reloads the menu
// settings when the config file changes
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	v *viper.Viper,
	service *menuapp.MenuService,
	log *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting menu planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.Bool("redis", cfg.Redis.Enabled),
			)
			if file := v.ConfigFileUsed(); file != "" {
				config.WatchEngine(v, func(e config.EngineConfig) {
					settings := service.Settings()
					next := settingsFromEngine(e)
					next.MenuTTL = settings.MenuTTL
					service.UpdateSettings(next)
				}, func(err error) {
					log.Warn("Ignoring invalid config change", zap.String("file", file), zap.Error(err))
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down menu planner")
			_ = log.Sync()
			return nil
		},
	})
}
