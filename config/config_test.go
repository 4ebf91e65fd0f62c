package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_file: season.json
runs: 100
workers: 4
seed: 42
logging:
  level: debug
ratings:
  enabled: true
  timeout: 3s
draw:
  solver_node_budget: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "season.json", cfg.DataFile)
	assert.Equal(t, 100, cfg.Runs)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Ratings.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Ratings.Timeout)
	assert.Equal(t, "http://api.clubelo.com/", cfg.Ratings.BaseURL)
	assert.Equal(t, 5000, cfg.Draw.SolverNodeBudget)
	assert.Equal(t, 100, cfg.Draw.QualifyingAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: [1, 2"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CCSIM_RUNS":            "25",
		"CCSIM_SEED":            "-7",
		"CCSIM_RATINGS_ENABLED": "true",
		"CCSIM_DATA_FILE":       "other.yaml",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 25, cfg.Runs)
	assert.Equal(t, int64(-7), cfg.Seed)
	assert.True(t, cfg.Ratings.Enabled)
	assert.Equal(t, "other.yaml", cfg.DataFile)
	assert.Equal(t, 1, cfg.Workers)

	env["CCSIM_WORKERS"] = "many"
	assert.Error(t, Default().ApplyEnv(lookup))
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ccsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 3\n"), 0o644))

	t.Setenv(PathEnv, path)
	t.Setenv("CCSIM_WORKERS", "2")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Runs)
	assert.Equal(t, 2, cfg.Workers)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Runs = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Ratings.Enabled = true
	cfg.Ratings.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
