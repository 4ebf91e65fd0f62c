package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ezBadminton/ccsim/competition"
	"github.com/ezBadminton/ccsim/config"
	"github.com/ezBadminton/ccsim/core"
	"github.com/ezBadminton/ccsim/harness"
	"github.com/ezBadminton/ccsim/logging"
	"github.com/ezBadminton/ccsim/rating"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ccsim:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.Logging, "ccsim")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := competition.ReadFile(cfg.DataFile)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid competition document %s: %w", cfg.DataFile, err)
	}

	var ratings core.RatingSource
	if cfg.Ratings.Enabled {
		ratings = loadRatings(ctx, cfg.Ratings, doc)
	}

	restrictions := doc.Restrictions()
	factory := func(rng *rand.Rand) (*core.Rounds, error) {
		return core.NewRounds(doc, core.Settings{
			Rng:             rng,
			Ratings:         ratings,
			Restrictions:    restrictions,
			MaxDrawAttempts: cfg.Draw.QualifyingAttempts,
			Solver: core.SolverLimits{
				MaxAttempts: cfg.Draw.SolverAttempts,
				NodeBudget:  cfg.Draw.SolverNodeBudget,
			},
		})
	}

	logger.Info("simulating", "runs", cfg.Runs, "workers", cfg.Workers, "data", cfg.DataFile)

	stats, err := harness.Replay(ctx, factory, harness.Options{
		Runs:    cfg.Runs,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("simulation failed after %d runs: %w", stats.Runs, err)
	}

	logger.Info("simulation finished",
		"runs", stats.Runs,
		"ties", stats.Ties,
		"fixtures", stats.Fixtures,
		"seed", stats.Seed,
	)
	if cfg.Output != "" && stats.Last != nil {
		if err := writeSeason(cfg.Output, stats.Last); err != nil {
			return err
		}
		logger.Info("draws written", "file", cfg.Output)
	}

	fmt.Printf("Elapsed time: %d ms\n", stats.Elapsed.Milliseconds())
	return nil
}

func writeSeason(path string, rounds *core.Rounds) error {
	data, err := json.MarshalIndent(rounds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal season: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write season: %w", err)
	}
	return nil
}

// Ratings are auxiliary. A feed that cannot be loaded is logged and
// the simulation continues without it.
func loadRatings(ctx context.Context, cfg config.RatingsConfig, doc *competition.Document) core.RatingSource {
	table, err := rating.NewFetcher(cfg).Fetch(ctx, time.Now())
	if err != nil {
		slog.Warn("ratings unavailable", "error", err)
		return nil
	}
	table.SetFuzzyMatch(cfg.FuzzyMatch)

	var names []string
	for _, key := range core.AllRounds {
		for _, entry := range doc.Load(key.String()) {
			names = append(names, entry.Name)
		}
	}

	snapshot := table.Snapshot(names)
	slog.Info("ratings loaded", "feed", table.Len(), "matched", len(snapshot), "clubs", len(names))
	return snapshot
}
