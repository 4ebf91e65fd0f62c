package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ezBadminton/ccsim/core"
	"github.com/ezBadminton/ccsim/internal"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// A Factory sets up a fresh season that draws from the given generator.
type Factory func(rng *rand.Rand) (*core.Rounds, error)

type Options struct {
	Runs    int
	Workers int

	// Seed of the first worker, the others use the following
	// seeds. Zero picks a seed from the clock.
	Seed int64
}

// Stats summarize a replay.
type Stats struct {
	Runs     int64
	Ties     int64 // Qualifying ties
	Fixtures int64 // League phase matches
	Elapsed  time.Duration
	Seed     int64

	// The season of the last run that finished
	Last *core.Rounds
}

// Replay simulates the season Runs times on Workers goroutines.
// The workers share a run counter and stop at the first error.
func Replay(ctx context.Context, factory Factory, options Options) (Stats, error) {
	workers := max(options.Workers, 1)
	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var (
		claimed  atomic.Int64
		done     atomic.Int64
		ties     atomic.Int64
		fixtures atomic.Int64
		last     atomic.Pointer[core.Rounds]
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			rng := internal.NewRand(seed + int64(w))
			for claimed.Add(1) <= int64(options.Runs) {
				if err := ctx.Err(); err != nil {
					return err
				}

				rounds, q, f, err := run(factory, rng, w)
				if err != nil {
					return err
				}
				last.Store(rounds)
				ties.Add(int64(q))
				fixtures.Add(int64(f))
				done.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	stats := Stats{
		Runs:     done.Load(),
		Ties:     ties.Load(),
		Fixtures: fixtures.Load(),
		Elapsed:  time.Since(start),
		Seed:     seed,
		Last:     last.Load(),
	}
	return stats, err
}

func run(factory Factory, rng *rand.Rand, worker int) (*core.Rounds, int, int, error) {
	id := uuid.New()
	logger := slog.With("run", id.String(), "worker", worker)

	rounds, err := factory(rng)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("run %s: %w", id, err)
	}
	if err := rounds.Run(); err != nil {
		return nil, 0, 0, fmt.Errorf("run %s: %w", id, err)
	}

	ties := 0
	for _, stage := range core.QualifyingStages {
		for _, round := range rounds.QualifyingRounds(stage) {
			ties += len(round.Ties())
		}
	}
	fixtures := 0
	for _, lp := range rounds.LeaguePhases() {
		fixtures += len(lp.Ties())
		logger.Debug("league phase drawn", "competition", lp.Key().Competition, "clubs", len(lp.Slots()))
	}

	logger.Debug("season finished", "ties", ties, "fixtures", fixtures)
	return rounds, ties, fixtures, nil
}
