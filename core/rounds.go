package core

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ezBadminton/ccsim/internal"
)

// A DataSource provides the clubs that enter each round.
type DataSource interface {
	// Returns the clubs entering the round with the given name
	Load(roundName string) []Entry

	// Returns the name of the club that won the previous
	// Champions League
	PreviousChampionName() string
}

// Settings of one simulation run.
type Settings struct {
	// The generator for draws and scorelines. It must not be
	// shared with another run.
	Rng *rand.Rand

	// Optional source of club ratings
	Ratings RatingSource

	// Country pairs that never meet. Nil means the default pairs.
	Restrictions *Restrictions

	// The number of times a qualifying draw starts over
	MaxDrawAttempts int

	Solver SolverLimits
}

// Rounds holds the complete season of the three competitions
// and drives it from the first qualifying round to the league
// phase draws.
type Rounds struct {
	registry *Registry
	resolver *Resolver
	graph    *RoundGraph
	rng      *rand.Rand

	byKey        map[RoundKey]Round
	leaguePhases []*LeaguePhaseRound
}

// The progression between the rounds as primary (winners)
// and secondary (losers) successors
var progression = []struct {
	from, primary, secondary RoundKey
}{
	{uclQ1CP, uclQ2CP, ueclQ2CP},
	{uclQ2CP, uclQ3CP, uelQ3CP},
	{uclQ2LP, uclQ3LP, uelQ3MP},
	{uclQ3CP, uclPoCP, uelPo},
	{uclQ3LP, uclPoLP, uelLP},
	{uclPoCP, uclLP, uelLP},
	{uclPoLP, uclLP, uelLP},

	{uelQ1MP, uelQ2MP, ueclQ2MP},
	{uelQ2MP, uelQ3MP, ueclQ3MP},
	{uelQ3MP, uelPo, ueclPoMP},
	{uelQ3CP, uelPo, ueclPoCP},
	{uelPo, uelLP, ueclLP},

	{ueclQ1MP, ueclQ2MP, noRound},
	{ueclQ2MP, ueclQ3MP, noRound},
	{ueclQ2CP, ueclQ3CP, noRound},
	{ueclQ3MP, ueclPoMP, noRound},
	{ueclQ3CP, ueclPoCP, noRound},
	{ueclPoMP, ueclLP, noRound},
	{ueclPoCP, ueclLP, noRound},
}

var (
	uclQ1CP = RoundKey{ChampionsLeague, Q1, ChampionsPath}
	uclQ2CP = RoundKey{ChampionsLeague, Q2, ChampionsPath}
	uclQ2LP = RoundKey{ChampionsLeague, Q2, LeaguePath}
	uclQ3CP = RoundKey{ChampionsLeague, Q3, ChampionsPath}
	uclQ3LP = RoundKey{ChampionsLeague, Q3, LeaguePath}
	uclPoCP = RoundKey{ChampionsLeague, Playoff, ChampionsPath}
	uclPoLP = RoundKey{ChampionsLeague, Playoff, LeaguePath}
	uclLP   = RoundKey{ChampionsLeague, LeaguePhase, NoPath}

	uelQ1MP = RoundKey{EuropaLeague, Q1, MainPath}
	uelQ2MP = RoundKey{EuropaLeague, Q2, MainPath}
	uelQ3MP = RoundKey{EuropaLeague, Q3, MainPath}
	uelQ3CP = RoundKey{EuropaLeague, Q3, ChampionsPath}
	uelPo   = RoundKey{EuropaLeague, Playoff, MainPath}
	uelLP   = RoundKey{EuropaLeague, LeaguePhase, NoPath}

	ueclQ1MP = RoundKey{ConferenceLeague, Q1, MainPath}
	ueclQ2MP = RoundKey{ConferenceLeague, Q2, MainPath}
	ueclQ2CP = RoundKey{ConferenceLeague, Q2, ChampionsPath}
	ueclQ3MP = RoundKey{ConferenceLeague, Q3, MainPath}
	ueclQ3CP = RoundKey{ConferenceLeague, Q3, ChampionsPath}
	ueclPoMP = RoundKey{ConferenceLeague, Playoff, MainPath}
	ueclPoCP = RoundKey{ConferenceLeague, Playoff, ChampionsPath}
	ueclLP   = RoundKey{ConferenceLeague, LeaguePhase, NoPath}

	noRound = RoundKey{Stage: -1}
)

// Every round of the season in the order they are processed
// within a stage
var AllRounds = []RoundKey{
	uclQ1CP, uelQ1MP, ueclQ1MP,
	uclQ2CP, uclQ2LP, uelQ2MP, ueclQ2MP, ueclQ2CP,
	uclQ3CP, uclQ3LP, uelQ3MP, uelQ3CP, ueclQ3MP, ueclQ3CP,
	uclPoCP, uclPoLP, uelPo, ueclPoMP, ueclPoCP,
	uclLP, uelLP, ueclLP,
}

// Creates the rounds of a season, fills them with the clubs of
// the data source and links them.
func NewRounds(data DataSource, settings Settings) (*Rounds, error) {
	rng := settings.Rng
	if rng == nil {
		rng = internal.NewRand(rand.Int63())
	}
	restrictions := settings.Restrictions
	if restrictions == nil {
		restrictions = DefaultRestrictions()
	}

	registry := NewRegistry()
	registry.SetPreviousChampion(data.PreviousChampionName())
	resolver := NewResolver(registry)

	rounds := &Rounds{
		registry: registry,
		resolver: resolver,
		graph:    NewRoundGraph(),
		rng:      rng,
		byKey:    make(map[RoundKey]Round, len(AllRounds)),
	}

	ids := &internal.IdSource{}
	for _, key := range AllRounds {
		var round Round
		if key.Stage == LeaguePhase {
			lp := NewLeaguePhaseRound(key.Competition, ids.NextId(), resolver, restrictions, settings.Solver, rng)
			rounds.leaguePhases = append(rounds.leaguePhases, lp)
			round = lp
		} else {
			round = NewQualifyingRound(key, ids.NextId(), resolver, restrictions, settings.MaxDrawAttempts, rng)
		}

		for _, entry := range data.Load(key.String()) {
			club := registry.Add(entry)
			round.AddSlots(NewClubSlot(club.Id))
		}

		if err := rounds.graph.AddRound(round); err != nil {
			return nil, err
		}
		rounds.byKey[key] = round
	}

	for _, link := range progression {
		var secondary Round
		if link.secondary != noRound {
			secondary = rounds.byKey[link.secondary]
		}
		err := rounds.graph.Link(rounds.byKey[link.from], rounds.byKey[link.primary], secondary)
		if err != nil {
			return nil, err
		}
	}

	if err := rounds.graph.Check(); err != nil {
		return nil, err
	}

	if settings.Ratings != nil {
		registry.ApplyRatings(settings.Ratings)
	}

	slog.Debug("season set up", "clubs", registry.Len(), "rounds", len(AllRounds))
	return rounds, nil
}

func (r *Rounds) Registry() *Registry {
	return r.registry
}

func (r *Rounds) Resolver() *Resolver {
	return r.resolver
}

func (r *Rounds) Graph() *RoundGraph {
	return r.graph
}

func (r *Rounds) Round(key RoundKey) (Round, bool) {
	round, ok := r.byKey[key]
	return round, ok
}

func (r *Rounds) LeaguePhases() []*LeaguePhaseRound {
	return r.leaguePhases
}

// Returns the qualifying rounds of a stage in processing order.
func (r *Rounds) QualifyingRounds(stage Stage) []*QualifyingRound {
	var rounds []*QualifyingRound
	for _, key := range AllRounds {
		if key.Stage != stage {
			continue
		}
		if q, ok := r.byKey[key].(*QualifyingRound); ok {
			rounds = append(rounds, q)
		}
	}
	return rounds
}

// Runs the whole season.
//
// The rounds of one stage are processed as a batch. The ties of
// a stage are registered in the next stage and that stage is drawn
// before the legs are played. After the playoffs the qualified
// clubs are drawn into the league phases.
func (r *Rounds) Run() error {
	if err := r.seedDraw(QualifyingStages[0]); err != nil {
		return err
	}

	for i, stage := range QualifyingStages {
		rounds := r.QualifyingRounds(stage)

		for _, round := range rounds {
			if err := round.ResolveTies(); err != nil {
				return err
			}
		}

		for _, round := range rounds {
			if _, ok := r.graph.Primary(round).(*QualifyingRound); !ok {
				continue
			}
			if err := round.RegisterTies(r.graph); err != nil {
				return err
			}
		}

		if i+1 < len(QualifyingStages) {
			if err := r.seedDraw(QualifyingStages[i+1]); err != nil {
				return err
			}
		}

		for range 2 {
			for _, round := range rounds {
				if err := round.Play(); err != nil {
					return err
				}
			}
		}
	}

	for _, round := range r.QualifyingRounds(Playoff) {
		if err := round.RegisterQualifiers(r.graph); err != nil {
			return err
		}
	}

	for _, lp := range r.leaguePhases {
		if err := lp.SeedDraw(); err != nil {
			return err
		}
	}

	return nil
}

func (r *Rounds) seedDraw(stage Stage) error {
	for _, round := range r.QualifyingRounds(stage) {
		if err := round.SeedDraw(); err != nil {
			return fmt.Errorf("seeding and drawing %s: %w", stage, err)
		}
	}
	return nil
}
