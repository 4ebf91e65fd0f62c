package core

import (
	"errors"
	"fmt"
)

var (
	ErrPotSize   = fmt.Errorf("%w: the pool does not divide into equal pots", ErrInvalidState)
	ErrPotFormat = errors.New("invalid pot format")
)

// The number of opponents a club may face from one foreign country
const DefaultForeignCap = 2

// A PotFormat describes how the league-phase pool is split
// and how many fixtures a club plays against each pot.
//
// Consecutive pots form groups of GroupSize pots. A club plays
// Home home and Away away fixtures against every group and
// spreads them evenly over the pots of the group.
type PotFormat struct {
	PotCount  int
	GroupSize int
	Home      int
	Away      int

	// The max number of opponents from one foreign country
	ForeignCap int
}

// Four pots, one home and one away fixture against every pot
var StandardFormat = PotFormat{
	PotCount:   4,
	GroupSize:  1,
	Home:       1,
	Away:       1,
	ForeignCap: DefaultForeignCap,
}

// Six pots paired into three groups, one home and one away fixture
// against every pair, each against a different pot of the pair
var PairedFormat = PotFormat{
	PotCount:   6,
	GroupSize:  2,
	Home:       1,
	Away:       1,
	ForeignCap: DefaultForeignCap,
}

// Returns the pot format of the league phase of a competition.
func FormatFor(c Competition) PotFormat {
	if c == ConferenceLeague {
		return PairedFormat
	}
	return StandardFormat
}

func (f PotFormat) Validate() error {
	switch {
	case f.PotCount <= 0 || f.GroupSize <= 0:
		return fmt.Errorf("%w: no pots", ErrPotFormat)
	case f.PotCount%f.GroupSize != 0:
		return fmt.Errorf("%w: %d pots do not form groups of %d", ErrPotFormat, f.PotCount, f.GroupSize)
	case f.Home < 0 || f.Away < 0 || f.Home+f.Away == 0:
		return fmt.Errorf("%w: no fixtures per group", ErrPotFormat)
	case (f.Home+f.Away)%f.GroupSize != 0:
		return fmt.Errorf("%w: fixtures per group do not spread over %d pots", ErrPotFormat, f.GroupSize)
	case f.ForeignCap <= 0:
		return fmt.Errorf("%w: foreign cap is not positive", ErrPotFormat)
	}
	return nil
}

func (f PotFormat) GroupCount() int {
	return f.PotCount / f.GroupSize
}

// The group of a pot
func (f PotFormat) Group(pot int) int {
	return pot / f.GroupSize
}

// The number of opponents a club faces from one pot
func (f PotFormat) PotCap() int {
	return (f.Home + f.Away) / f.GroupSize
}

// The number of fixtures every club plays
func (f PotFormat) FixturesPerClub() int {
	return f.GroupCount() * (f.Home + f.Away)
}

// Slices the sorted slots into PotCount pots of equal size.
func (f PotFormat) Slice(sorted []Slot) ([][]Slot, error) {
	if len(sorted) == 0 || len(sorted)%f.PotCount != 0 {
		return nil, fmt.Errorf("%w: %d slots into %d pots", ErrPotSize, len(sorted), f.PotCount)
	}
	size := len(sorted) / f.PotCount
	pots := make([][]Slot, f.PotCount)
	for i := range pots {
		pots[i] = sorted[i*size : (i+1)*size]
	}
	return pots, nil
}
