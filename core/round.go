package core

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ezBadminton/ccsim/internal"
)

var (
	ErrInvalidState  = errors.New("invalid round state")
	ErrDrawExhausted = errors.New("the draw found no valid pairing")
)

type Competition int

const (
	ChampionsLeague Competition = iota
	EuropaLeague
	ConferenceLeague
)

func (c Competition) String() string {
	switch c {
	case ChampionsLeague:
		return "CHAMPIONS_LEAGUE"
	case EuropaLeague:
		return "EUROPA_LEAGUE"
	case ConferenceLeague:
		return "CONFERENCE_LEAGUE"
	}
	return "UNKNOWN"
}

// A Stage is the position of a round within its competition.
type Stage int

const (
	Q1 Stage = iota
	Q2
	Q3
	Playoff
	LeaguePhase
)

func (s Stage) String() string {
	switch s {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Playoff:
		return "PLAYOFF"
	case LeaguePhase:
		return "LEAGUE_PHASE"
	}
	return "UNKNOWN"
}

// The qualifying stages in the order they are played
var QualifyingStages = []Stage{Q1, Q2, Q3, Playoff}

func (s Stage) Qualifying() bool {
	return s < LeaguePhase
}

// A Path separates the qualifying rounds for domestic
// champions from the ones for the other clubs.
type Path int

const (
	NoPath Path = iota
	ChampionsPath
	LeaguePath
	MainPath
)

func (p Path) String() string {
	switch p {
	case ChampionsPath:
		return "CHAMPIONS_PATH"
	case LeaguePath:
		return "LEAGUE_PATH"
	case MainPath:
		return "MAIN_PATH"
	}
	return ""
}

// The identity of a round
type RoundKey struct {
	Competition Competition
	Stage       Stage
	Path        Path
}

// Returns the name the round has in the competition data,
// e.g. "CHAMPIONS_LEAGUE Q1 CHAMPIONS_PATH".
func (k RoundKey) String() string {
	if k.Path == NoPath {
		return fmt.Sprintf("%s %s", k.Competition, k.Stage)
	}
	return fmt.Sprintf("%s %s %s", k.Competition, k.Stage, k.Path)
}

// A Round is one stage of a competition. It holds the slots
// that take part and, once drawn, the ties between them.
type Round interface {
	internal.GraphNode

	Key() RoundKey

	// The slots of the clubs that take part, including
	// pending slots of clubs still playing a predecessor
	Slots() []Slot

	AddSlots(slots ...Slot)

	// The ties of the round. Empty before the draw.
	Ties() []*Tie

	// Orders the slots into the seeding categories of the round
	Seed() error

	// Pairs the seeded slots into ties
	Draw() error
}

// BaseRound holds the state that every round has.
type BaseRound struct {
	key      RoundKey
	id       int
	slots    []Slot
	ties     []*Tie
	resolver *Resolver
	rng      *rand.Rand
}

func newBaseRound(key RoundKey, id int, resolver *Resolver, rng *rand.Rand) BaseRound {
	return BaseRound{key: key, id: id, resolver: resolver, rng: rng}
}

func (r *BaseRound) Id() int {
	return r.id
}

func (r *BaseRound) Key() RoundKey {
	return r.key
}

func (r *BaseRound) String() string {
	return r.key.String()
}

func (r *BaseRound) Slots() []Slot {
	return r.slots
}

func (r *BaseRound) AddSlots(slots ...Slot) {
	r.slots = append(r.slots, slots...)
}

func (r *BaseRound) Ties() []*Tie {
	return r.ties
}

func (r *BaseRound) Resolver() *Resolver {
	return r.resolver
}

func (r *BaseRound) names(slots []Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = r.resolver.Name(s)
	}
	return names
}
