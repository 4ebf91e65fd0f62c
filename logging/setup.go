package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ezBadminton/ccsim/config"
)

// Setup configures the global logger and returns it.
func Setup(cfg config.LoggingConfig, serviceName string) (*slog.Logger, error) {
	return setup(cfg, serviceName, os.Stdout)
}

func setup(cfg config.LoggingConfig, serviceName string, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, options)
	case "json":
		handler = slog.NewJSONHandler(w, options)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	logger := slog.New(handler).With("service", serviceName)

	// Set as the global logger
	slog.SetDefault(logger)

	return logger, nil
}

// Parses a level name like "debug" or "WARN". An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}
