package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ezBadminton/ccsim/internal"
)

// A pool resembling a real Champions League league phase
var realisticCountries = []Country{
	"ESP", "ENG", "GER", "ENG", "ITA", "ESP", "GER", "FRA", "ENG",
	"POR", "ITA", "NED", "ENG", "ESP", "GER", "BEL", "ITA", "POR",
	"FRA", "SCO", "ENG", "ITA", "NED", "GER", "AUT", "ESP", "SUI",
	"CZE", "FRA", "CRO", "SRB", "UKR", "ITA", "GER", "ENG", "SLK",
}

func drawPool(countries []Country, format PotFormat) []DrawClub {
	clubs := make([]DrawClub, len(countries))
	for i, c := range countries {
		clubs[i] = DrawClub{Pot: i * format.PotCount / len(countries), Country: c}
	}
	return clubs
}

func TestLeaguePhaseDraw(t *testing.T) {
	attempts := 1000
	if testing.Short() {
		attempts = 50
	}

	countries := make([]Country, 32)
	for i := range countries {
		countries[i] = Country(fmt.Sprintf("C%02d", i%16))
	}
	clubs := drawPool(countries, StandardFormat)
	restrictions := DefaultRestrictions()

	for seed := range attempts {
		fixtures, err := SolveLeaguePhase(clubs, StandardFormat, restrictions, SolverLimits{}, internal.NewRand(int64(seed)))
		if err != nil {
			t.Fatal(err)
		}
		if len(fixtures) != 32*StandardFormat.FixturesPerClub()/2 {
			t.Fatalf("the draw made %d fixtures", len(fixtures))
		}
		if err := VerifyFixtures(clubs, fixtures, StandardFormat, restrictions); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRealisticLeaguePhaseDraw(t *testing.T) {
	restrictions := DefaultRestrictions()

	for _, format := range []PotFormat{StandardFormat, PairedFormat} {
		clubs := drawPool(realisticCountries, format)
		for seed := range 50 {
			fixtures, err := SolveLeaguePhase(clubs, format, restrictions, SolverLimits{}, internal.NewRand(int64(seed)))
			if err != nil {
				t.Fatal(err)
			}
			if err := VerifyFixtures(clubs, fixtures, format, restrictions); err != nil {
				t.Fatal(err)
			}
		}
	}
}

// In the paired format the two fixtures against a pair of
// pots go to different pots of the pair.
func TestPairedFormatSplit(t *testing.T) {
	clubs := drawPool(realisticCountries, PairedFormat)
	fixtures, err := SolveLeaguePhase(clubs, PairedFormat, nil, SolverLimits{}, internal.NewRand(4))
	if err != nil {
		t.Fatal(err)
	}

	perPot := make(map[[2]int]int)
	for _, f := range fixtures {
		perPot[[2]int{f.Home, clubs[f.Away].Pot}] += 1
		perPot[[2]int{f.Away, clubs[f.Home].Pot}] += 1
	}
	for c := range clubs {
		for p := range PairedFormat.PotCount {
			if perPot[[2]int{c, p}] != 1 {
				t.Fatalf("club %d meets %d clubs of pot %d", c, perPot[[2]int{c, p}], p)
			}
		}
	}
}

func TestLeaguePhaseDrawErrors(t *testing.T) {
	clubs := drawPool(realisticCountries[:30], StandardFormat)
	_, err := SolveLeaguePhase(clubs, StandardFormat, nil, SolverLimits{}, internal.NewRand(1))
	if !errors.Is(err, ErrPotSize) || !errors.Is(err, ErrInvalidState) {
		t.Fatal("a pool that does not divide into the pots was drawn")
	}

	// Half of the pool is from one country
	countries := make([]Country, 16)
	for i := range countries {
		countries[i] = Country(fmt.Sprintf("C%02d", i))
		if i%2 == 0 {
			countries[i] = "ENG"
		}
	}
	clubs = drawPool(countries, StandardFormat)
	limits := SolverLimits{MaxAttempts: 3, NodeBudget: 500}
	_, err = SolveLeaguePhase(clubs, StandardFormat, nil, limits, internal.NewRand(1))
	if !errors.Is(err, ErrDrawExhausted) {
		t.Fatal("an impossible draw did not fail")
	}

	broken := PotFormat{PotCount: 4, GroupSize: 3, Home: 1, Away: 1, ForeignCap: 2}
	if _, err := SolveLeaguePhase(clubs, broken, nil, limits, internal.NewRand(1)); !errors.Is(err, ErrPotFormat) {
		t.Fatal("an invalid pot format was accepted")
	}
}

func TestVerifyFixtures(t *testing.T) {
	clubs := drawPool(realisticCountries, StandardFormat)
	fixtures, err := SolveLeaguePhase(clubs, StandardFormat, nil, SolverLimits{}, internal.NewRand(2))
	if err != nil {
		t.Fatal(err)
	}

	swapped := make([]Fixture, len(fixtures))
	copy(swapped, fixtures)
	swapped[0] = Fixture{swapped[0].Away, swapped[0].Home}
	if err := VerifyFixtures(clubs, swapped, StandardFormat, nil); !errors.Is(err, ErrInvalidFixtures) {
		t.Fatal("a home and away imbalance was not detected")
	}

	if err := VerifyFixtures(clubs, fixtures[1:], StandardFormat, nil); !errors.Is(err, ErrInvalidFixtures) {
		t.Fatal("a missing fixture was not detected")
	}

	repeated := append(fixtures[:len(fixtures):len(fixtures)], fixtures[0])
	if err := VerifyFixtures(clubs, repeated, StandardFormat, nil); !errors.Is(err, ErrInvalidFixtures) {
		t.Fatal("a repeated pairing was not detected")
	}

	// Club 1 and 3 are both English
	sameCountry := []Fixture{{1, 3}}
	if err := VerifyFixtures(clubs, sameCountry, StandardFormat, nil); !errors.Is(err, ErrInvalidFixtures) {
		t.Fatal("a same country fixture was not detected")
	}

	// Three opponents of one club that do not meet each other are
	// moved to the same country
	met := make(map[[2]int]bool)
	opponents := make(map[int][]int)
	for _, f := range fixtures {
		met[[2]int{f.Home, f.Away}] = true
		met[[2]int{f.Away, f.Home}] = true
		opponents[f.Home] = append(opponents[f.Home], f.Away)
		opponents[f.Away] = append(opponents[f.Away], f.Home)
	}
	triple := foreignTriple(clubs, opponents, met)
	if triple == nil {
		t.Fatal("no club has three opponents that do not meet")
	}
	relabelled := make([]DrawClub, len(clubs))
	copy(relabelled, clubs)
	for _, o := range triple {
		relabelled[o].Country = "AND"
	}
	err = VerifyFixtures(relabelled, fixtures, StandardFormat, nil)
	if !errors.Is(err, ErrInvalidFixtures) || !strings.Contains(err.Error(), "meets 3 clubs from AND") {
		t.Fatalf("three opponents from one country were not detected: %v", err)
	}
}

func foreignTriple(clubs []DrawClub, opponents map[int][]int, met map[[2]int]bool) []int {
	for c := range clubs {
		o := opponents[c]
		for i := range o {
			for j := i + 1; j < len(o); j++ {
				for k := j + 1; k < len(o); k++ {
					if met[[2]int{o[i], o[j]}] || met[[2]int{o[i], o[k]}] || met[[2]int{o[j], o[k]}] {
						continue
					}
					return []int{o[i], o[j], o[k]}
				}
			}
		}
	}
	return nil
}

func TestDrawStateUndo(t *testing.T) {
	clubs := drawPool(realisticCountries, StandardFormat)
	state := newDrawState(clubs, StandardFormat, DefaultRestrictions(), internal.NewRand(1))
	state.reset(100)

	home, away := 0, 35
	if !state.canPair(home, away) {
		t.Fatal("a legal pair can not be paired")
	}

	state.commit(home, away)
	if state.canPair(home, away) || state.canPair(away, home) {
		t.Fatal("a pair can be paired twice")
	}

	state.undo()
	eq1 := state.homeNeed[home][3] == 1 && state.awayNeed[away][0] == 1
	eq2 := state.potMet[home][3] == 0 && state.potMet[away][0] == 0
	eq3 := !state.met[home][away] && len(state.fixtures) == 0
	eq4 := state.foreign[home][state.country[away]] == 0
	if !eq1 || !eq2 || !eq3 || !eq4 {
		t.Fatal("undo did not restore the state")
	}
	if !state.canPair(home, away) {
		t.Fatal("the pair can not be paired again after undo")
	}
}
