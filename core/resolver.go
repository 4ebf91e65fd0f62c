package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	ErrUnresolvedTie = errors.New("the slot depends on a tie that is not decided")
)

// The Resolver reads the effective values of slots from a registry.
//
// All reads are pure. Resolving a slot twice without a tie
// being played in between gives the same result.
type Resolver struct {
	registry *Registry
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Follows pending slots to the concrete slot they stand for.
//
// Returns ErrUnresolvedTie when a tie on the way is not decided.
// Composite slots resolve like pending slots of the same polarity.
func (r *Resolver) Resolve(s Slot) (Slot, error) {
	resolved, ok := follow(s)
	if !ok {
		return Slot{}, fmt.Errorf("%w: %s", ErrUnresolvedTie, r.Name(resolved))
	}
	return resolved, nil
}

// Walks the winner and loser references. On an undecided tie it
// stops and returns the slot of that tie.
func follow(s Slot) (Slot, bool) {
	for s.Kind != ConcreteSlot {
		var next Slot
		var err error
		if s.Loser {
			next, err = s.Tie.Loser()
		} else {
			next, err = s.Tie.Winner()
		}
		if err != nil {
			return s, false
		}
		s = next
	}
	return s, true
}

// Returns the seeding view of the slot. A decided pending slot
// becomes its concrete club and an undecided one becomes a
// composite of the same tie.
func (r *Resolver) View(s Slot) Slot {
	if s.Kind != PendingSlot {
		return s
	}
	resolved, err := r.Resolve(s)
	if err != nil {
		return NewCompositeSlot(s.Tie, s.Loser)
	}
	return resolved
}

// Returns a display name of the slot. Never fails.
func (r *Resolver) Name(s Slot) string {
	switch s.Kind {
	case ConcreteSlot:
		return r.club(s.Club).Name
	case PendingSlot:
		if resolved, ok := follow(s); ok {
			return r.Name(resolved)
		}
		prefix := "Winner of "
		if s.Loser {
			prefix = "Loser of "
		}
		return prefix + r.Name(s.Tie.Slot1) + " vs " + r.Name(s.Tie.Slot2)
	default:
		return r.Name(s.Tie.Slot1) + " vs " + r.Name(s.Tie.Slot2)
	}
}

// Returns the effective ranking of the slot.
//
// A composite slot has the best operand ranking, or the worst
// one when it stands for the loser. A pending slot has to be
// decided.
func (r *Resolver) Ranking(s Slot) (float64, error) {
	switch s.Kind {
	case ConcreteSlot:
		return r.club(s.Club).Ranking, nil
	case PendingSlot:
		resolved, err := r.Resolve(s)
		if err != nil {
			return 0, err
		}
		return r.Ranking(resolved)
	default:
		ranking1 := r.SeedingRanking(s.Tie.Slot1)
		ranking2 := r.SeedingRanking(s.Tie.Slot2)
		if s.Loser {
			return max(ranking1, ranking2), nil
		}
		return min(ranking1, ranking2), nil
	}
}

// Returns the countries a slot belongs to. A concrete slot has one,
// a composite slot has the union of its operands' countries.
func (r *Resolver) Countries(s Slot) ([]Country, error) {
	switch s.Kind {
	case ConcreteSlot:
		country := r.club(s.Club).Country
		if country == "" {
			return nil, nil
		}
		return []Country{country}, nil
	case PendingSlot:
		resolved, err := r.Resolve(s)
		if err != nil {
			return nil, err
		}
		return r.Countries(resolved)
	default:
		countries := r.SeedingCountries(s.Tie.Slot1)
		for _, c := range r.SeedingCountries(s.Tie.Slot2) {
			if !slices.Contains(countries, c) {
				countries = append(countries, c)
			}
		}
		return countries, nil
	}
}

// The ranking of the seeding view. Never fails.
func (r *Resolver) SeedingRanking(s Slot) float64 {
	ranking, _ := r.Ranking(r.View(s))
	return ranking
}

// The countries of the seeding view. Never fails.
func (r *Resolver) SeedingCountries(s Slot) []Country {
	countries, _ := r.Countries(r.View(s))
	return countries
}

// Returns the club of a concrete slot. The slot must
// resolve without error.
func (r *Resolver) Club(s Slot) (*Club, error) {
	resolved, err := r.Resolve(s)
	if err != nil {
		return nil, err
	}
	club := r.club(resolved.Club)
	return club, nil
}

// Looks up a club and degrades to a neutral placeholder on a miss.
func (r *Resolver) club(id int) *Club {
	club, ok := r.registry.Club(id)
	if ok {
		return club
	}
	slog.Warn("unknown club id in slot", "id", id)
	return &Club{
		Id:      id,
		Name:    fmt.Sprintf("club #%d", id),
		Ranking: NeutralRanking,
		Rating:  UnknownRating,
	}
}
