package core

// Restrictions is the symmetric set of country pairs whose clubs
// must never be drawn against each other.
type Restrictions struct {
	pairs map[[2]Country]bool
}

// The pairs that apply when the competition data names none
var DefaultRestrictedPairs = [][2]Country{
	{"ARM", "AZE"},
	{"GIB", "ESP"},
	{"KOS", "BHZ"},
	{"KOS", "SRB"},
	{"UKR", "BLR"},
	{"UKR", "RUS"},
}

func NewRestrictions(pairs [][2]Country) *Restrictions {
	r := &Restrictions{pairs: make(map[[2]Country]bool, 2*len(pairs))}
	for _, p := range pairs {
		r.Add(p[0], p[1])
	}
	return r
}

func DefaultRestrictions() *Restrictions {
	return NewRestrictions(DefaultRestrictedPairs)
}

func (r *Restrictions) Add(a, b Country) {
	r.pairs[[2]Country{a, b}] = true
	r.pairs[[2]Country{b, a}] = true
}

func (r *Restrictions) Restricted(a, b Country) bool {
	if r == nil {
		return false
	}
	return r.pairs[[2]Country{a, b}]
}

// Returns true when clubs of the two country sets may not meet.
// That is the case when the sets share a country or contain
// a restricted pair.
func (r *Restrictions) Illegal(a, b []Country) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca == cb || r.Restricted(ca, cb) {
				return true
			}
		}
	}
	return false
}
