package core

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/ezBadminton/ccsim/internal"
)

var (
	ErrOddSlotCount = fmt.Errorf("%w: odd number of slots", ErrInvalidState)
	ErrNotSeeded    = fmt.Errorf("%w: the round is not seeded", ErrInvalidState)
	ErrNoSuccessor  = fmt.Errorf("%w: the round has no primary successor", ErrInvalidState)
)

const (
	// The number of Champions Path Q1 ties that the Conference
	// League Champions Path can absorb without rebalancing
	skipThreshold = 16

	DefaultMaxDrawAttempts = 100
)

// A QualifyingRound is a knockout round of two-legged ties.
//
// The stronger half of the slots is seeded and every seeded slot
// is drawn against an unseeded one. Clubs from the same country
// or from restricted country pairs never meet.
type QualifyingRound struct {
	BaseRound

	restrictions *Restrictions
	maxAttempts  int

	seeded   []Slot
	unseeded []Slot
}

func NewQualifyingRound(
	key RoundKey,
	id int,
	resolver *Resolver,
	restrictions *Restrictions,
	maxAttempts int,
	rng *rand.Rand,
) *QualifyingRound {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxDrawAttempts
	}
	return &QualifyingRound{
		BaseRound:    newBaseRound(key, id, resolver, rng),
		restrictions: restrictions,
		maxAttempts:  maxAttempts,
	}
}

func (r *QualifyingRound) Seeded() []Slot {
	return r.seeded
}

func (r *QualifyingRound) Unseeded() []Slot {
	return r.unseeded
}

// Sorts the slots by their seeding ranking and splits
// them into the seeded and the unseeded half.
func (r *QualifyingRound) Seed() error {
	if len(r.slots)%2 != 0 {
		return fmt.Errorf("%s: %w (%d)", r.key, ErrOddSlotCount, len(r.slots))
	}

	sorted := slices.Clone(r.slots)
	slices.SortStableFunc(sorted, func(a, b Slot) int {
		return cmp.Compare(r.resolver.SeedingRanking(a), r.resolver.SeedingRanking(b))
	})

	half := len(sorted) / 2
	r.seeded = sorted[:half]
	r.unseeded = sorted[half:]

	slog.Debug("round seeded", "round", r.key.String(), "seeded", r.names(r.seeded), "unseeded", r.names(r.unseeded))
	return nil
}

// Draws the ties of the seeded round.
//
// Seeded slots that have an illegal opponent among the remaining
// unseeded slots are drawn first against a legal opponent. The
// rest is paired at random. When a seeded slot is left without
// a legal opponent the whole draw starts over.
func (r *QualifyingRound) Draw() error {
	if r.seeded == nil && len(r.slots) > 0 {
		return fmt.Errorf("%s: %w", r.key, ErrNotSeeded)
	}

	for attempt := 1; attempt <= r.maxAttempts; attempt += 1 {
		ties, ok := r.tryDraw()
		if ok {
			r.ties = ties
			slog.Debug("round drawn", "round", r.key.String(), "ties", len(ties), "attempt", attempt)
			return nil
		}
		slog.Debug("draw dead end, restarting", "round", r.key.String(), "attempt", attempt)
	}

	return fmt.Errorf("%s: %w after %d attempts", r.key, ErrDrawExhausted, r.maxAttempts)
}

func (r *QualifyingRound) tryDraw() ([]*Tie, bool) {
	remainingUnseeded := slices.Clone(r.unseeded)
	residualSeeded := make([]Slot, 0, len(r.seeded))
	ties := make([]*Tie, 0, len(r.seeded))

	for _, seeded := range r.seeded {
		if !slices.ContainsFunc(remainingUnseeded, func(u Slot) bool { return r.illegal(seeded, u) }) {
			residualSeeded = append(residualSeeded, seeded)
			continue
		}

		candidates := make([]int, 0, len(remainingUnseeded))
		for i, u := range remainingUnseeded {
			if !r.illegal(seeded, u) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return nil, false
		}

		i, _ := internal.Pick(candidates, r.rng)
		opponent := remainingUnseeded[i]
		remainingUnseeded = internal.RemoveAt(remainingUnseeded, i)
		ties = append(ties, r.newTie(seeded, opponent))
	}

	// A seeded slot that was not forced had no illegal opponent
	// among a superset of the remaining ones.
	for _, seeded := range residualSeeded {
		opponent, i := internal.Pick(remainingUnseeded, r.rng)
		remainingUnseeded = internal.RemoveAt(remainingUnseeded, i)
		ties = append(ties, r.newTie(seeded, opponent))
	}

	return ties, true
}

func (r *QualifyingRound) newTie(seeded, unseeded Slot) *Tie {
	if internal.CoinFlip(r.rng) {
		return NewDoubleLeggedTie(seeded, unseeded)
	}
	return NewDoubleLeggedTie(unseeded, seeded)
}

func (r *QualifyingRound) illegal(a, b Slot) bool {
	return r.restrictions.Illegal(
		r.resolver.SeedingCountries(a),
		r.resolver.SeedingCountries(b),
	)
}

// Seeds and draws the round unless it is drawn already.
func (r *QualifyingRound) SeedDraw() error {
	if len(r.ties) > 0 {
		return nil
	}
	if err := r.Seed(); err != nil {
		return err
	}
	return r.Draw()
}

// Replaces the pending operands of the ties with the clubs
// that won their predecessor ties.
func (r *QualifyingRound) ResolveTies() error {
	var errs []error
	for _, t := range r.ties {
		if err := t.ResolveOperands(r.resolver); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", r.key, errors.Join(errs...))
	}
	return nil
}

// Plays the next leg of every undecided tie.
func (r *QualifyingRound) Play() error {
	for _, t := range r.ties {
		if t.Decided() {
			continue
		}
		if err := t.Play(r.rng); err != nil {
			return fmt.Errorf("%s: %w", r.key, err)
		}
	}
	return nil
}

// Registers pending slots for the winners in the primary successor
// and for the losers in the secondary successor.
//
// The first ties of a shuffled Champions League Q1 Champions Path
// send their losers one round further when the path has fewer than
// 16 ties.
func (r *QualifyingRound) RegisterTies(g *RoundGraph) error {
	primary := g.Primary(r)
	if primary == nil {
		return fmt.Errorf("%s: %w", r.key, ErrNoSuccessor)
	}
	secondary := g.Secondary(r)

	skipping := r.hasSkipRule()
	if skipping {
		internal.Shuffle(r.ties, r.rng)
	}

	for i, t := range r.ties {
		primary.AddSlots(NewPendingSlot(t, false))
		if secondary == nil {
			continue
		}

		loser := NewPendingSlot(t, true)
		if skipping && i < skipThreshold-len(r.ties) {
			skipTo := g.Primary(secondary)
			if skipTo == nil {
				return fmt.Errorf("%s: %w", secondary.Key(), ErrNoSuccessor)
			}
			skipTo.AddSlots(loser)
			slog.Debug("loser skips a round", "round", r.key.String(), "to", skipTo.Key().String())
			continue
		}
		secondary.AddSlots(loser)
	}
	return nil
}

// Registers the decided winners in the primary successor and
// the losers in the secondary successor.
func (r *QualifyingRound) RegisterQualifiers(g *RoundGraph) error {
	primary := g.Primary(r)
	if primary == nil {
		return fmt.Errorf("%s: %w", r.key, ErrNoSuccessor)
	}
	secondary := g.Secondary(r)

	for _, t := range r.ties {
		winner, err := r.resolver.Resolve(NewPendingSlot(t, false))
		if err != nil {
			return fmt.Errorf("%s: %w", r.key, err)
		}
		loser, err := r.resolver.Resolve(NewPendingSlot(t, true))
		if err != nil {
			return fmt.Errorf("%s: %w", r.key, err)
		}
		primary.AddSlots(winner)
		if secondary != nil {
			secondary.AddSlots(loser)
		}
	}
	return nil
}

func (r *QualifyingRound) hasSkipRule() bool {
	return r.key == uclQ1CP
}
