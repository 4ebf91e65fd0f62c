package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ezBadminton/ccsim/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger, err := setup(config.LoggingConfig{Level: "warn"}, "ccsim", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	slog.Warn("shown", "round", "EUROPA_LEAGUE PLAYOFF MAIN_PATH")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=ccsim")
}

func TestSetupJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	_, err := setup(config.LoggingConfig{Level: "debug", Format: "json"}, "ccsim", &buf)
	require.NoError(t, err)

	slog.Debug("drawn", "ties", 14)
	assert.Contains(t, buf.String(), `"ties":14`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	_, err = setup(config.LoggingConfig{Format: "xml"}, "ccsim", &bytes.Buffer{})
	assert.Error(t, err)
}
