package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/menuplanner/internal/ports/inbound"
	"github.com/alchemorsel/menuplanner/pkg/errors"
)

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
app:
  log_level: error
database:
  driver: sqlite
  path: %q
  log_level: silent
`, filepath.Join(dir, "menu.db"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd(&Options{})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := execute(t, "seed", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, sqlite.DemoUserID)

	out, stderr, err := execute(t, "generate", "--config", cfg,
		"--date", "2024-03-01", "--meal-types", "dinner,breakfast", "--persist", "--metrics")
	require.NoError(t, err)

	var dto inbound.MenuDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, sqlite.DemoUserID, dto.UserID)
	assert.Equal(t, "2024-03-01", dto.Date)
	assert.True(t, dto.Persisted)
	assert.Equal(t, []recipe.MealType{recipe.MealTypeDinner, recipe.MealTypeBreakfast}, dto.Menu.SlotOrder)
	assert.Contains(t, stderr, "menuplanner_menu_generations_total 1")

	t.Run("UnknownUser", func(t *testing.T) {
		_, _, err := execute(t, "generate", "--config", cfg, "--user", "nobody")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeUserNotFound))
	})

	t.Run("CacheDoesNotOutliveProcess", func(t *testing.T) {
		_, _, err := execute(t, "cached", "--config", cfg, "--date", "2024-03-01")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeNotFound))
	})
}

func TestHealthCommand(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := execute(t, "health", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "degraded"`, "empty catalog")

	out, _, err = execute(t, "--seed", "health", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)
}

func TestGenerateCommand_BadDate(t *testing.T) {
	_, _, err := execute(t, "generate", "--config", testConfig(t), "--date", "03/01/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestSeedFlagDecoratesConfig(t *testing.T) {
	cfg := testConfig(t)
	out, _, err := execute(t, "--seed", "generate", "--config", cfg, "--date", "2024-08-01")
	require.NoError(t, err)
	assert.Contains(t, out, `"user_id": "demo-user"`)
}
