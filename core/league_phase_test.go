package core

import (
	"errors"
	"slices"
	"testing"

	"github.com/ezBadminton/ccsim/internal"
)

func newTestLeaguePhase(competition Competition, registry *Registry, seed int64) *LeaguePhaseRound {
	return NewLeaguePhaseRound(
		competition,
		0,
		NewResolver(registry),
		DefaultRestrictions(),
		SolverLimits{},
		internal.NewRand(seed),
	)
}

func TestLeaguePhaseSeeding(t *testing.T) {
	registry, slots := RegistrySlice(realisticCountries...)
	champion, _ := registry.Club(20)
	registry.SetPreviousChampion(champion.Name)

	round := newTestLeaguePhase(ChampionsLeague, registry, 1)
	shuffled := slices.Clone(slots)
	internal.Shuffle(shuffled, internal.NewRand(1))
	round.AddSlots(shuffled...)

	if err := round.Seed(); err != nil {
		t.Fatal(err)
	}

	pots := round.Pots()
	if len(pots) != 4 {
		t.Fatal("the round does not have 4 pots")
	}
	for _, pot := range pots {
		if len(pot) != 9 {
			t.Fatal("the pots are not of equal size")
		}
	}

	if pots[0][0] != NewClubSlot(champion.Id) {
		t.Fatal("the previous champion is not pinned to the first pot")
	}
	// The champion pushes the 9th best club into the second pot
	eq1 := pots[1][0] == slots[8]
	eq2 := pots[0][1] == slots[0]
	if !eq1 || !eq2 {
		t.Fatal("the pots are not filled by ranking")
	}

	if err := round.Draw(); err != nil {
		t.Fatal(err)
	}
	if err := round.Verify(); err != nil {
		t.Fatal(err)
	}
	for _, tie := range round.Ties() {
		if tie.LegCount() != 1 {
			t.Fatal("a league phase fixture is not single-legged")
		}
	}
}

func TestChampionPinnedOnlyInChampionsLeague(t *testing.T) {
	registry, slots := RegistrySlice(realisticCountries...)
	champion, _ := registry.Club(20)
	registry.SetPreviousChampion(champion.Name)

	round := newTestLeaguePhase(EuropaLeague, registry, 1)
	round.AddSlots(slots...)
	if err := round.Seed(); err != nil {
		t.Fatal(err)
	}

	pots := round.Pots()
	eq1 := pots[0][0] == slots[0]
	eq2 := !slices.Contains(pots[0], NewClubSlot(champion.Id))
	if !eq1 || !eq2 {
		t.Fatal("the previous champion was pinned outside the Champions League")
	}
}

func TestConferenceLeaguePhase(t *testing.T) {
	registry, slots := RegistrySlice(realisticCountries...)
	round := newTestLeaguePhase(ConferenceLeague, registry, 3)
	round.AddSlots(slots...)

	if err := round.SeedDraw(); err != nil {
		t.Fatal(err)
	}
	if len(round.Pots()) != 6 {
		t.Fatal("the conference league phase does not have 6 pots")
	}
	if len(round.Ties()) != 36*PairedFormat.FixturesPerClub()/2 {
		t.Fatalf("the draw made %d fixtures", len(round.Ties()))
	}
	if err := round.Verify(); err != nil {
		t.Fatal(err)
	}
}

// Clubs that skipped a qualifying stage enter as pending slots
// and have to be resolved before the pots are made.
func TestLeaguePhasePendingSlots(t *testing.T) {
	countries := append(slices.Clone(realisticCountries[:35]), "SLK", "TUR")
	registry, slots := RegistrySlice(countries...)

	tie := NewDoubleLeggedTie(slots[35], slots[36])
	round := newTestLeaguePhase(EuropaLeague, registry, 5)
	round.AddSlots(slots[:35]...)
	round.AddSlots(NewPendingSlot(tie, true))

	err := round.Seed()
	if !errors.Is(err, ErrUnresolvedTie) {
		t.Fatal("an undecided tie was seeded into the pots")
	}

	playTie(tie, Leg{3, 0}, Leg{0, 0})
	if err := round.SeedDraw(); err != nil {
		t.Fatal(err)
	}

	for _, pot := range round.Pots() {
		for _, s := range pot {
			if !s.IsConcrete() {
				t.Fatal("a pot contains a pending slot")
			}
		}
	}
	if !slices.Contains(round.Pots()[3], slots[36]) {
		t.Fatal("the loser of the tie is not in the last pot")
	}
	if err := round.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestLeaguePhasePotSize(t *testing.T) {
	registry, slots := RegistrySlice(realisticCountries...)
	round := newTestLeaguePhase(ChampionsLeague, registry, 1)
	round.AddSlots(slots[:34]...)

	if err := round.Seed(); !errors.Is(err, ErrPotSize) {
		t.Fatal("a pool that does not divide into the pots was seeded")
	}
	if err := round.Draw(); !errors.Is(err, ErrNotSeeded) {
		t.Fatal("a round without pots was drawn")
	}
}
