package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	apperrors "github.com/alchemorsel/menuplanner/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "menuplanner", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.Redis.MenuTTL)
	assert.Equal(t, 7, cfg.Engine.RecentMealDays)
	assert.Equal(t, 0.5, cfg.Engine.SeasonalWeight)
	assert.Equal(t, 1, cfg.Engine.MaxPerSlot)
	assert.Equal(t,
		[]recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner},
		cfg.Engine.SlotTypes())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
engine:
  novelty_weight: 0.8
  meal_types: [Lunch, " dinner "]
redis:
  enabled: true
  port: 6380
`)
	t.Setenv("MENUPLANNER_ENGINE_SEASONAL_WEIGHT", "0.25")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Engine.NoveltyWeight)
	assert.Equal(t, 0.25, cfg.Engine.SeasonalWeight)
	assert.Equal(t, []recipe.MealType{recipe.MealTypeLunch, recipe.MealTypeDinner}, cfg.Engine.SlotTypes())
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(writeConfig(t, "{}\n"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"MissingName", func(c *Config) { c.App.Name = "" }, "app.name"},
		{"UnknownDriver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"SqliteWithoutPath", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"PostgresWithoutName", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Database = ""
		}, "database.database"},
		{"NoMealTypes", func(c *Config) { c.Engine.MealTypes = []string{" "} }, "engine.meal_types"},
		{"SeasonalWeight", func(c *Config) { c.Engine.SeasonalWeight = 1.5 }, "seasonal_weight"},
		{"NoveltyWeight", func(c *Config) { c.Engine.NoveltyWeight = -0.1 }, "novelty_weight"},
		{"MaxPerSlot", func(c *Config) { c.Engine.MaxPerSlot = 0 }, "max_per_slot"},
		{"NegativeWorkers", func(c *Config) { c.Engine.Workers = -1 }, "cannot be negative"},
		{"SamplingRate", func(c *Config) { c.Monitoring.SamplingRate = 2 }, "sampling_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "engine:\n  max_per_slot: 50\n"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "max_per_slot")
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, Username: "menu", Password: "secret", Database: "plans", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=menu password=secret dbname=plans sslmode=disable", cfg.GetDSN())

	cfg.Database.Password = "p@ss/word"
	assert.Equal(t, "postgres://menu:p%40ss%2Fword@db:5432/plans?sslmode=disable", cfg.GetMigrationURL())
}

func TestWatchEngine(t *testing.T) {
	path := writeConfig(t, "engine:\n  novelty_weight: 0.5\n")
	v, err := NewViper(path)
	require.NoError(t, err)

	changes := make(chan EngineConfig, 4)
	WatchEngine(v, func(e EngineConfig) { changes <- e }, nil)

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  novelty_weight: 0.9\n"), 0o600))

	// Editors may produce several events; wait for the final content
	deadline := time.After(5 * time.Second)
	for {
		select {
		case e := <-changes:
			if e.NoveltyWeight == 0.9 {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
