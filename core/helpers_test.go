package core

import (
	"fmt"
	"slices"

	"github.com/ezBadminton/ccsim/internal"
)

// Creates a registry with one club per country. The clubs are
// ranked in the order of the countries.
func RegistrySlice(countries ...Country) (*Registry, []Slot) {
	registry := NewRegistry()
	slots := make([]Slot, len(countries))
	for i, c := range countries {
		club := registry.Add(Entry{
			Name:    fmt.Sprintf("Club %d (%s)", i, c),
			Country: c,
			Ranking: float64(i + 1),
		})
		slots[i] = NewClubSlot(club.Id)
	}
	return registry, slots
}

// The first n known country codes in alphabetical order
func CountrySlice(n int) []Country {
	codes := make([]Country, 0, len(countryNames))
	for c := range countryNames {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes[:n]
}

// Plays a tie to its end with the given scorelines.
func playTie(t *Tie, legs ...Leg) {
	rng := internal.NewRand(1)
	for _, l := range legs {
		if err := t.PlayScore(l.Goals1, l.Goals2, rng); err != nil {
			panic(err)
		}
	}
}
