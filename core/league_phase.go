package core

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
)

// A LeaguePhaseRound pools the qualified clubs of a competition
// into pots and draws single-legged fixtures between them.
type LeaguePhaseRound struct {
	BaseRound

	format       PotFormat
	restrictions *Restrictions
	limits       SolverLimits

	pots [][]Slot
}

func NewLeaguePhaseRound(
	competition Competition,
	id int,
	resolver *Resolver,
	restrictions *Restrictions,
	limits SolverLimits,
	rng *rand.Rand,
) *LeaguePhaseRound {
	key := RoundKey{Competition: competition, Stage: LeaguePhase}
	return &LeaguePhaseRound{
		BaseRound:    newBaseRound(key, id, resolver, rng),
		format:       FormatFor(competition),
		restrictions: restrictions,
		limits:       limits,
	}
}

func (r *LeaguePhaseRound) Format() PotFormat {
	return r.format
}

func (r *LeaguePhaseRound) Pots() [][]Slot {
	return r.pots
}

// Resolves every slot to its club and fills the pots by ranking.
// In the Champions League the previous winner goes to the first
// pot ahead of everyone else.
func (r *LeaguePhaseRound) Seed() error {
	resolved := make([]Slot, len(r.slots))
	for i, s := range r.slots {
		concrete, err := r.resolver.Resolve(s)
		if err != nil {
			return fmt.Errorf("%s: %w", r.key, err)
		}
		resolved[i] = concrete
	}

	rankings := make(map[int]float64, len(resolved))
	for _, s := range resolved {
		rankings[s.Club], _ = r.resolver.Ranking(s)
	}
	slices.SortStableFunc(resolved, func(a, b Slot) int {
		return cmp.Compare(rankings[a.Club], rankings[b.Club])
	})

	if champion, ok := r.resolver.Registry().PreviousChampion(); ok && r.key.Competition == ChampionsLeague {
		i := slices.Index(resolved, NewClubSlot(champion.Id))
		if i > 0 {
			resolved = slices.Delete(resolved, i, i+1)
			resolved = slices.Insert(resolved, 0, NewClubSlot(champion.Id))
		}
	}

	pots, err := r.format.Slice(resolved)
	if err != nil {
		return fmt.Errorf("%s: %w", r.key, err)
	}

	r.slots = resolved
	r.pots = pots
	for i, pot := range pots {
		slog.Debug("pot filled", "round", r.key.String(), "pot", i+1, "clubs", r.names(pot))
	}
	return nil
}

// Draws the fixtures of the seeded pots. Every fixture becomes
// a single-legged tie with the home club as the first slot.
func (r *LeaguePhaseRound) Draw() error {
	if r.pots == nil {
		return fmt.Errorf("%s: %w", r.key, ErrNotSeeded)
	}

	pool, drawClubs := r.pool()
	fixtures, err := SolveLeaguePhase(drawClubs, r.format, r.restrictions, r.limits, r.rng)
	if err != nil {
		return fmt.Errorf("%s: %w", r.key, err)
	}

	ties := make([]*Tie, len(fixtures))
	for i, f := range fixtures {
		ties[i] = NewSingleLeggedTie(pool[f.Home], pool[f.Away])
	}
	r.ties = ties

	slog.Debug("league phase fixtures drawn", "round", r.key.String(), "fixtures", len(ties))
	return nil
}

// Seeds and draws the round unless it is drawn already.
func (r *LeaguePhaseRound) SeedDraw() error {
	if len(r.ties) > 0 {
		return nil
	}
	if err := r.Seed(); err != nil {
		return err
	}
	return r.Draw()
}

// Checks the drawn ties against every rule of the draw.
func (r *LeaguePhaseRound) Verify() error {
	pool, drawClubs := r.pool()
	index := make(map[Slot]int, len(pool))
	for i, s := range pool {
		index[s] = i
	}

	fixtures := make([]Fixture, len(r.ties))
	for i, t := range r.ties {
		home, ok1 := index[t.Slot1]
		away, ok2 := index[t.Slot2]
		if !ok1 || !ok2 {
			return fmt.Errorf("%s: %w: tie with a club outside of the pots", r.key, ErrInvalidFixtures)
		}
		fixtures[i] = Fixture{home, away}
	}

	if err := VerifyFixtures(drawClubs, fixtures, r.format, r.restrictions); err != nil {
		return fmt.Errorf("%s: %w", r.key, err)
	}
	return nil
}

// Returns the pot slots in one list with their solver view.
func (r *LeaguePhaseRound) pool() ([]Slot, []DrawClub) {
	var pool []Slot
	var drawClubs []DrawClub
	for p, pot := range r.pots {
		for _, s := range pot {
			countries, _ := r.resolver.Countries(s)
			var country Country
			if len(countries) > 0 {
				country = countries[0]
			}
			pool = append(pool, s)
			drawClubs = append(drawClubs, DrawClub{Pot: p, Country: country})
		}
	}
	return pool, drawClubs
}
