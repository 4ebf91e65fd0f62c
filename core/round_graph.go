package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ezBadminton/ccsim/internal"
)

// The labels of the progression edges between rounds
const (
	PrimaryPath   = "primary"
	SecondaryPath = "secondary"
)

// The RoundGraph routes the winners and losers of a round
// to the rounds they continue in.
//
// An edge labelled primary leads to the round of the winners,
// an edge labelled secondary to the round of the losers.
type RoundGraph struct {
	graph  internal.DependencyGraph[Round]
	rounds []Round
}

func NewRoundGraph() *RoundGraph {
	return &RoundGraph{graph: internal.NewDependencyGraph[Round]()}
}

func (g *RoundGraph) AddRound(r Round) error {
	if err := g.graph.AddVertex(r); err != nil {
		return fmt.Errorf("adding round %s: %w", r.Key(), err)
	}
	g.rounds = append(g.rounds, r)
	return nil
}

// Links a round to its successors. The secondary successor
// may be nil.
func (g *RoundGraph) Link(from, primary, secondary Round) error {
	if err := g.graph.AddEdge(from, primary, PrimaryPath); err != nil {
		return fmt.Errorf("linking %s to %s: %w", from.Key(), primary.Key(), err)
	}
	if secondary == nil {
		return nil
	}
	if err := g.graph.AddEdge(from, secondary, SecondaryPath); err != nil {
		return fmt.Errorf("linking %s to %s: %w", from.Key(), secondary.Key(), err)
	}
	return nil
}

func (g *RoundGraph) Primary(r Round) Round {
	return g.successor(r, PrimaryPath)
}

func (g *RoundGraph) Secondary(r Round) Round {
	return g.successor(r, SecondaryPath)
}

func (g *RoundGraph) successor(r Round, path string) Round {
	successors := g.graph.GetPathDependants(r, path)
	if len(successors) == 0 {
		return nil
	}
	return successors[0]
}

// Returns every round that is reachable from r, excluding r.
func (g *RoundGraph) Downstream(r Round) []Round {
	var downstream []Round
	for round, depth := range g.graph.BreadthSearchIter(r) {
		if depth > 0 {
			downstream = append(downstream, round)
		}
	}
	return downstream
}

var ErrDeadEnd = errors.New("the round does not lead to a league phase")

// Checks that the rounds form a proper progression. Every round
// is ordered and every qualifying round leads to a league phase.
func (g *RoundGraph) Check() error {
	order, err := g.Order()
	if err != nil {
		return err
	}
	if len(order) != len(g.rounds) {
		return fmt.Errorf("ordered %d of %d rounds", len(order), len(g.rounds))
	}

	for _, r := range order {
		if r.Key().Stage == LeaguePhase {
			continue
		}
		reaches := slices.ContainsFunc(g.Downstream(r), func(d Round) bool {
			return d.Key().Stage == LeaguePhase
		})
		if !reaches {
			return fmt.Errorf("%w: %s", ErrDeadEnd, r.Key())
		}
	}
	return nil
}

// Returns the rounds in an order where every round comes
// after all of its predecessors.
func (g *RoundGraph) Order() ([]Round, error) {
	return g.graph.TopologicalOrder()
}

// The rounds in the order they were added
func (g *RoundGraph) Rounds() []Round {
	return g.rounds
}
