package core

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/ezBadminton/ccsim/internal"
)

var (
	ErrTieDecided   = errors.New("the tie is already decided")
	ErrTieUndecided = errors.New("the tie is not decided yet")
)

// The progress of a tie.
type TieState int

const (
	NotStarted TieState = iota
	FirstLegPlayed
	Decided
)

func (s TieState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case FirstLegPlayed:
		return "first leg played"
	case Decided:
		return "decided"
	}
	return "unknown"
}

// A Tie is a pairing of two slots over one or two legs.
//
// Slot1 plays at home in the first leg. The side with the higher
// aggregate after the last leg wins. An equal aggregate is decided
// by a coin flip standing in for extra time and penalties.
type Tie struct {
	// The first opponent slot
	Slot1 Slot
	// The second opponent slot
	Slot2 Slot

	// The legs played so far
	Legs []Leg

	Aggregate1, Aggregate2 int

	// True when the tie was decided by the coin flip
	Shootout bool

	legCount int

	// 0 while undecided, otherwise 1 or 2
	winner int
}

func NewDoubleLeggedTie(slot1, slot2 Slot) *Tie {
	return &Tie{Slot1: slot1, Slot2: slot2, legCount: 2}
}

func NewSingleLeggedTie(home, away Slot) *Tie {
	return &Tie{Slot1: home, Slot2: away, legCount: 1}
}

func (t *Tie) LegCount() int {
	return t.legCount
}

func (t *Tie) State() TieState {
	switch {
	case t.winner != 0:
		return Decided
	case len(t.Legs) > 0:
		return FirstLegPlayed
	}
	return NotStarted
}

func (t *Tie) Decided() bool {
	return t.winner != 0
}

// Plays the next leg with a random scoreline.
func (t *Tie) Play(rng *rand.Rand) error {
	leg := RandomLeg(rng)
	return t.PlayScore(leg.Goals1, leg.Goals2, rng)
}

// Records the next leg with the given scoreline. The rng is only
// used when the aggregate is level after the last leg.
//
// Playing a decided tie returns ErrTieDecided and leaves
// the tie unchanged.
func (t *Tie) PlayScore(goals1, goals2 int, rng *rand.Rand) error {
	if t.Decided() {
		return ErrTieDecided
	}

	leg, err := NewLeg(goals1, goals2)
	if err != nil {
		return err
	}

	t.Legs = append(t.Legs, leg)
	t.Aggregate1, t.Aggregate2 = Aggregate(t.Legs)

	if len(t.Legs) < t.legCount {
		return nil
	}

	switch {
	case t.Aggregate1 > t.Aggregate2:
		t.winner = 1
	case t.Aggregate2 > t.Aggregate1:
		t.winner = 2
	default:
		t.Shootout = true
		if internal.CoinFlip(rng) {
			t.winner = 1
		} else {
			t.winner = 2
		}
	}

	slog.Debug(
		"tie decided",
		"aggregate", [2]int{t.Aggregate1, t.Aggregate2},
		"shootout", t.Shootout,
		"winner", t.winner,
	)

	return nil
}

// Returns the slot of the winner.
func (t *Tie) Winner() (Slot, error) {
	switch t.winner {
	case 1:
		return t.Slot1, nil
	case 2:
		return t.Slot2, nil
	}
	return Slot{}, ErrTieUndecided
}

// Returns the slot of the loser.
func (t *Tie) Loser() (Slot, error) {
	switch t.winner {
	case 1:
		return t.Slot2, nil
	case 2:
		return t.Slot1, nil
	}
	return Slot{}, ErrTieUndecided
}

// Replaces pending operands with the clubs they resolved to.
// Operands that can not be resolved yet stay as they are and
// the first error is returned.
func (t *Tie) ResolveOperands(resolver *Resolver) error {
	var firstErr error
	for _, slot := range []*Slot{&t.Slot1, &t.Slot2} {
		if slot.IsConcrete() {
			continue
		}
		resolved, err := resolver.Resolve(*slot)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		*slot = resolved
	}
	return firstErr
}
