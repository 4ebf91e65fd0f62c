package core

import (
	"errors"
	"math/rand"
)

var (
	ErrNegativeGoals = errors.New("negative goals")
)

// The highest number of goals a side scores in a simulated leg
const MaxSimulatedGoals = 3

// A Leg is one played match of a tie. Goals1 are scored by
// the tie's first slot regardless of who plays at home.
type Leg struct {
	Goals1, Goals2 int
}

func NewLeg(goals1, goals2 int) (Leg, error) {
	if goals1 < 0 || goals2 < 0 {
		return Leg{}, ErrNegativeGoals
	}
	return Leg{goals1, goals2}, nil
}

// Returns a scoreline where each side's goals are independent
// and uniform in [0, MaxSimulatedGoals].
func RandomLeg(rng *rand.Rand) Leg {
	return Leg{
		Goals1: rng.Intn(MaxSimulatedGoals + 1),
		Goals2: rng.Intn(MaxSimulatedGoals + 1),
	}
}

// Sums up the goals of the legs for each side.
func Aggregate(legs []Leg) (int, int) {
	a, b := 0, 0
	for _, l := range legs {
		a += l.Goals1
		b += l.Goals2
	}
	return a, b
}
