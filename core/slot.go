package core

// A SlotKind tells what a Slot currently stands for.
type SlotKind int

const (
	// The slot holds a known club
	ConcreteSlot SlotKind = iota
	// The slot will hold the winner or loser of a tie
	// that is not decided yet
	PendingSlot
	// The slot stands for both operands of a tie at once.
	// It is used to seed and draw a round before the
	// predecessor tie is played.
	CompositeSlot
)

func (k SlotKind) String() string {
	switch k {
	case ConcreteSlot:
		return "concrete"
	case PendingSlot:
		return "pending"
	case CompositeSlot:
		return "composite"
	}
	return "unknown"
}

// A Slot is one of the two places in a Tie or an entry
// in the slot list of a Round.
//
// A Slot can represent one of 3 things:
//   - A known club
//   - The winner (or loser) of a tie that is still undecided
//   - The pair of operands of a tie, treated as one entity
//     for seeding
//
// Slots are small values. They compare equal when they
// stand for the same thing.
type Slot struct {
	Kind SlotKind

	// The club id of a concrete slot
	Club int

	// The tie of a pending or composite slot
	Tie *Tie

	// A pending slot wants the loser of the tie instead of the
	// winner. A composite slot uses the weaker operand's ranking.
	Loser bool
}

func NewClubSlot(clubId int) Slot {
	return Slot{Kind: ConcreteSlot, Club: clubId}
}

func NewPendingSlot(tie *Tie, loser bool) Slot {
	return Slot{Kind: PendingSlot, Tie: tie, Loser: loser}
}

func NewCompositeSlot(tie *Tie, loser bool) Slot {
	return Slot{Kind: CompositeSlot, Tie: tie, Loser: loser}
}

func (s Slot) IsConcrete() bool {
	return s.Kind == ConcreteSlot
}
