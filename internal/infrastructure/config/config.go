// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	apperrors "github.com/alchemorsel/menuplanner/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// MENUPLANNER_ENGINE_NOVELTY_WEIGHT.
const EnvPrefix = "MENUPLANNER"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	SQLMigrations   bool          `mapstructure:"sql_migrations"`
	Seed            bool          `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MenuTTL      time.Duration `mapstructure:"menu_ttl"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// EngineConfig holds the defaults applied to every menu request
type EngineConfig struct {
	MealTypes             []string `mapstructure:"meal_types"`
	OptimizeForBiomarkers bool     `mapstructure:"optimize_for_biomarkers"`
	SeasonalWeight        float64  `mapstructure:"seasonal_weight"`
	NoveltyWeight         float64  `mapstructure:"novelty_weight"`
	MaxPerSlot            int      `mapstructure:"max_per_slot"`
	Workers               int      `mapstructure:"workers"`
	ParallelThreshold     int      `mapstructure:"parallel_threshold"`
	RecentMealDays        int      `mapstructure:"recent_meal_days"`
	CandidateLimit        int      `mapstructure:"candidate_limit"`
}

// SlotTypes converts the configured meal type names
func (e EngineConfig) SlotTypes() []recipe.MealType {
	out := make([]recipe.MealType, 0, len(e.MealTypes))
	for _, name := range e.MealTypes {
		if mt := recipe.NormalizeMealType(name); mt != "" {
			out = append(out, mt)
		}
	}
	return out
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool    `mapstructure:"enable_metrics"`
	EnableTracing bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint  string  `mapstructure:"otlp_endpoint"`
	SamplingRate  float64 `mapstructure:"sampling_rate"`
	ServiceName   string  `mapstructure:"service_name"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// NewViper builds the viper instance backing Load. It is exported so callers
// can keep it around for WatchEngine.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/menuplanner")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults cover a missing file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals and validates the configuration held by v
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigError(fmt.Errorf("failed to unmarshal config: %w", err))
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.NewConfigError(err)
	}
	return &config, nil
}

// WatchEngine re-decodes the configuration whenever the backing file changes
// and hands the new engine section to onChange. Invalid edits are reported
// through onError and otherwise ignored.
func WatchEngine(v *viper.Viper, onChange func(EngineConfig), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg.Engine)
	})
	v.WatchConfig()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "menuplanner")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "menuplanner.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "menuplanner")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.sql_migrations", false)
	v.SetDefault("database.seed", false)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.menu_ttl", "6h")

	// Engine defaults
	v.SetDefault("engine.meal_types", []string{"breakfast", "lunch", "dinner"})
	v.SetDefault("engine.optimize_for_biomarkers", true)
	v.SetDefault("engine.seasonal_weight", 0.5)
	v.SetDefault("engine.novelty_weight", 0.5)
	v.SetDefault("engine.max_per_slot", 1)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.parallel_threshold", 256)
	v.SetDefault("engine.recent_meal_days", 7)
	v.SetDefault("engine.candidate_limit", 0)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.service_name", "menuplanner")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Database == "" {
			return fmt.Errorf("database.database is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Redis.Enabled && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("redis.port must be between 1 and 65535")
	}

	e := c.Engine
	if len(e.SlotTypes()) == 0 {
		return fmt.Errorf("engine.meal_types must name at least one slot")
	}
	if e.SeasonalWeight < 0 || e.SeasonalWeight > 1 {
		return fmt.Errorf("engine.seasonal_weight must be within [0, 1]")
	}
	if e.NoveltyWeight < 0 || e.NoveltyWeight > 1 {
		return fmt.Errorf("engine.novelty_weight must be within [0, 1]")
	}
	if e.MaxPerSlot < 1 || e.MaxPerSlot > 10 {
		return fmt.Errorf("engine.max_per_slot must be between 1 and 10")
	}
	if e.Workers < 0 || e.RecentMealDays < 0 || e.CandidateLimit < 0 {
		return fmt.Errorf("engine workers, recent_meal_days and candidate_limit cannot be negative")
	}

	if c.Monitoring.SamplingRate < 0 || c.Monitoring.SamplingRate > 1 {
		return fmt.Errorf("monitoring.sampling_rate must be within [0, 1]")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the postgres connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetMigrationURL returns the postgres connection string in URL form
func (c *Config) GetMigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.Username, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Database,
		RawQuery: url.Values{"sslmode": []string{c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}
