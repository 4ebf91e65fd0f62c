package core

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ezBadminton/ccsim/internal"
)

var (
	ErrInvalidFixtures = errors.New("the fixture list breaks the draw rules")
)

const (
	DefaultSolverAttempts   = 50
	DefaultSolverNodeBudget = 20000
)

// Limits of the league-phase solver. Every attempt searches at most
// NodeBudget partial fixture lists before it restarts.
type SolverLimits struct {
	MaxAttempts int
	NodeBudget  int
}

func (l SolverLimits) withDefaults() SolverLimits {
	if l.MaxAttempts <= 0 {
		l.MaxAttempts = DefaultSolverAttempts
	}
	if l.NodeBudget <= 0 {
		l.NodeBudget = DefaultSolverNodeBudget
	}
	return l
}

// A DrawClub is a club of the league-phase pool as the solver sees it.
type DrawClub struct {
	Pot     int
	Country Country
}

// A Fixture is a single match between two clubs of the pool.
// Home and Away are indices into the pool.
type Fixture struct {
	Home, Away int
}

// A cell of the requirement matrix
type drawCell struct {
	club  int
	group int
	home  bool
}

type drawState struct {
	format PotFormat
	potCap int

	pot     []int
	group   []int
	country []int
	illegal [][]bool
	byGroup [][]int

	homeNeed [][]int
	awayNeed [][]int
	potMet   [][]int
	met      [][]bool
	foreign  [][]int

	// Committed fixtures. Every entry can be reverted from the
	// entry alone so the stack is also the undo log.
	fixtures []Fixture

	order  []int
	nodes  int
	budget int
	rng    *rand.Rand
}

func newDrawState(
	clubs []DrawClub,
	format PotFormat,
	restrictions *Restrictions,
	rng *rand.Rand,
) *drawState {
	n := len(clubs)
	s := &drawState{
		format:  format,
		potCap:  format.PotCap(),
		pot:     make([]int, n),
		group:   make([]int, n),
		country: make([]int, n),
		illegal: make([][]bool, n),
		byGroup: make([][]int, format.GroupCount()),
		order:   make([]int, n),
		rng:     rng,
	}

	countryIndex := make(map[Country]int)
	for i, c := range clubs {
		s.pot[i] = c.Pot
		s.group[i] = format.Group(c.Pot)
		s.byGroup[s.group[i]] = append(s.byGroup[s.group[i]], i)
		idx, ok := countryIndex[c.Country]
		if !ok {
			idx = len(countryIndex)
			countryIndex[c.Country] = idx
		}
		s.country[i] = idx
		s.order[i] = i
	}

	for i := range clubs {
		s.illegal[i] = make([]bool, n)
		for j := range clubs {
			s.illegal[i][j] = i == j ||
				clubs[i].Country == clubs[j].Country ||
				restrictions.Restricted(clubs[i].Country, clubs[j].Country)
		}
	}

	s.homeNeed = newMatrix[int](n, format.GroupCount())
	s.awayNeed = newMatrix[int](n, format.GroupCount())
	s.potMet = newMatrix[int](n, format.PotCount)
	s.met = newMatrix[bool](n, n)
	s.foreign = newMatrix[int](n, len(countryIndex))

	return s
}

func newMatrix[T any](rows, cols int) [][]T {
	m := make([][]T, rows)
	for i := range m {
		m[i] = make([]T, cols)
	}
	return m
}

func (s *drawState) reset(budget int) {
	for c := range s.pot {
		for g := range s.homeNeed[c] {
			s.homeNeed[c][g] = s.format.Home
			s.awayNeed[c][g] = s.format.Away
		}
		clear(s.potMet[c])
		clear(s.met[c])
		clear(s.foreign[c])
	}
	s.fixtures = s.fixtures[:0]
	s.nodes = 0
	s.budget = budget
	internal.Shuffle(s.order, s.rng)
}

func (s *drawState) canPair(home, away int) bool {
	return !s.illegal[home][away] &&
		!s.met[home][away] &&
		s.homeNeed[home][s.group[away]] > 0 &&
		s.awayNeed[away][s.group[home]] > 0 &&
		s.potMet[home][s.pot[away]] < s.potCap &&
		s.potMet[away][s.pot[home]] < s.potCap &&
		s.foreign[home][s.country[away]] < s.format.ForeignCap &&
		s.foreign[away][s.country[home]] < s.format.ForeignCap
}

func (s *drawState) commit(home, away int) {
	s.homeNeed[home][s.group[away]] -= 1
	s.awayNeed[away][s.group[home]] -= 1
	s.potMet[home][s.pot[away]] += 1
	s.potMet[away][s.pot[home]] += 1
	s.met[home][away] = true
	s.met[away][home] = true
	s.foreign[home][s.country[away]] += 1
	s.foreign[away][s.country[home]] += 1
	s.fixtures = append(s.fixtures, Fixture{home, away})
}

// Reverts the last committed fixture
func (s *drawState) undo() {
	f := s.fixtures[len(s.fixtures)-1]
	s.fixtures = s.fixtures[:len(s.fixtures)-1]

	home, away := f.Home, f.Away
	s.homeNeed[home][s.group[away]] += 1
	s.awayNeed[away][s.group[home]] += 1
	s.potMet[home][s.pot[away]] -= 1
	s.potMet[away][s.pot[home]] -= 1
	s.met[home][away] = false
	s.met[away][home] = false
	s.foreign[home][s.country[away]] -= 1
	s.foreign[away][s.country[home]] -= 1
}

func (s *drawState) candidates(cell drawCell, buf []int) []int {
	buf = buf[:0]
	for _, o := range s.byGroup[cell.group] {
		if cell.home && s.canPair(cell.club, o) {
			buf = append(buf, o)
		}
		if !cell.home && s.canPair(o, cell.club) {
			buf = append(buf, o)
		}
	}
	return buf
}

// Finds the open cell with the fewest candidates.
// Returns false when every cell is filled.
func (s *drawState) selectCell() (drawCell, []int, bool) {
	var best drawCell
	var bestCandidates []int
	found := false
	buf := make([]int, 0, len(s.pot))

	for _, c := range s.order {
		for g := range s.homeNeed[c] {
			for _, home := range [2]bool{true, false} {
				need := s.awayNeed[c][g]
				if home {
					need = s.homeNeed[c][g]
				}
				if need == 0 {
					continue
				}

				cell := drawCell{club: c, group: g, home: home}
				buf = s.candidates(cell, buf)
				if found && len(buf) >= len(bestCandidates) {
					continue
				}

				best = cell
				bestCandidates = append(bestCandidates[:0], buf...)
				found = true
				if len(bestCandidates) <= 1 {
					return best, bestCandidates, true
				}
			}
		}
	}

	return best, bestCandidates, found
}

func (s *drawState) search() bool {
	if s.nodes >= s.budget {
		return false
	}
	s.nodes += 1

	cell, candidates, open := s.selectCell()
	if !open {
		return true
	}

	internal.Shuffle(candidates, s.rng)
	for _, o := range candidates {
		home, away := cell.club, o
		if !cell.home {
			home, away = o, cell.club
		}

		s.commit(home, away)
		if s.search() {
			return true
		}
		s.undo()

		if s.nodes >= s.budget {
			return false
		}
	}

	return false
}

// Draws the fixtures of a league-phase pool.
//
// The solver fills the requirement matrix one fixture at a time,
// always working on the cell with the fewest legal opponents. Dead
// ends are backtracked by reverting the last fixture. An attempt
// that runs out of its node budget is thrown away and the search
// restarts with a new random order.
func SolveLeaguePhase(
	clubs []DrawClub,
	format PotFormat,
	restrictions *Restrictions,
	limits SolverLimits,
	rng *rand.Rand,
) ([]Fixture, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if err := checkPool(clubs, format); err != nil {
		return nil, err
	}

	limits = limits.withDefaults()
	state := newDrawState(clubs, format, restrictions, rng)

	for attempt := 1; attempt <= limits.MaxAttempts; attempt += 1 {
		state.reset(limits.NodeBudget)
		if state.search() {
			slog.Debug(
				"league phase drawn",
				"clubs", len(clubs),
				"fixtures", len(state.fixtures),
				"attempt", attempt,
				"nodes", state.nodes,
			)
			fixtures := make([]Fixture, len(state.fixtures))
			copy(fixtures, state.fixtures)
			return fixtures, nil
		}
		slog.Debug("league phase attempt failed", "attempt", attempt, "nodes", state.nodes)
	}

	return nil, fmt.Errorf("%w: league phase after %d attempts", ErrDrawExhausted, limits.MaxAttempts)
}

func checkPool(clubs []DrawClub, format PotFormat) error {
	if len(clubs) == 0 || len(clubs)%format.PotCount != 0 {
		return fmt.Errorf("%w: %d clubs into %d pots", ErrPotSize, len(clubs), format.PotCount)
	}
	sizes := make([]int, format.PotCount)
	for _, c := range clubs {
		if c.Pot < 0 || c.Pot >= format.PotCount {
			return fmt.Errorf("%w: pot %d out of range", ErrPotFormat, c.Pot)
		}
		sizes[c.Pot] += 1
	}
	for _, size := range sizes {
		if size != len(clubs)/format.PotCount {
			return fmt.Errorf("%w: unequal pots %v", ErrPotSize, sizes)
		}
	}
	return nil
}

// Checks a fixture list against every rule of the draw.
func VerifyFixtures(
	clubs []DrawClub,
	fixtures []Fixture,
	format PotFormat,
	restrictions *Restrictions,
) error {
	n := len(clubs)
	home := newMatrix[int](n, format.GroupCount())
	away := newMatrix[int](n, format.GroupCount())
	potMet := newMatrix[int](n, format.PotCount)
	foreign := make([]map[Country]int, n)
	met := make(map[[2]int]bool)
	for i := range foreign {
		foreign[i] = make(map[Country]int)
	}

	for _, f := range fixtures {
		h, a := f.Home, f.Away
		if h < 0 || h >= n || a < 0 || a >= n || h == a {
			return fmt.Errorf("%w: fixture %v out of range", ErrInvalidFixtures, f)
		}

		ch, ca := clubs[h].Country, clubs[a].Country
		if ch == ca {
			return fmt.Errorf("%w: %v pairs two clubs from %s", ErrInvalidFixtures, f, ch)
		}
		if restrictions.Restricted(ch, ca) {
			return fmt.Errorf("%w: %v pairs restricted countries %s and %s", ErrInvalidFixtures, f, ch, ca)
		}

		pair := [2]int{min(h, a), max(h, a)}
		if met[pair] {
			return fmt.Errorf("%w: %v is a repeated pairing", ErrInvalidFixtures, f)
		}
		met[pair] = true

		home[h][format.Group(clubs[a].Pot)] += 1
		away[a][format.Group(clubs[h].Pot)] += 1
		potMet[h][clubs[a].Pot] += 1
		potMet[a][clubs[h].Pot] += 1
		foreign[h][ca] += 1
		foreign[a][ch] += 1
	}

	for c := range clubs {
		for g := range format.GroupCount() {
			if home[c][g] != format.Home || away[c][g] != format.Away {
				return fmt.Errorf(
					"%w: club %d has %d home and %d away fixtures against group %d",
					ErrInvalidFixtures, c, home[c][g], away[c][g], g,
				)
			}
		}
		for p, count := range potMet[c] {
			if count != format.PotCap() {
				return fmt.Errorf("%w: club %d meets %d clubs of pot %d", ErrInvalidFixtures, c, count, p)
			}
		}
		for country, count := range foreign[c] {
			if count > format.ForeignCap {
				return fmt.Errorf("%w: club %d meets %d clubs from %s", ErrInvalidFixtures, c, count, country)
			}
		}
	}

	return nil
}
