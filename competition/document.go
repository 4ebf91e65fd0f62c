package competition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezBadminton/ccsim/core"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported competition document format")

// A ClubEntry is a club as it is listed under a round.
type ClubEntry struct {
	Name    string  `json:"name" yaml:"name"`
	Country string  `json:"country" yaml:"country"`
	Ranking float64 `json:"ranking" yaml:"ranking"`
}

// The Document holds the static data of a season: the clubs that
// enter each round and the name of the previous Champions League
// winner.
type Document struct {
	PreviousChampion string                 `json:"previous_champions_league_winner" yaml:"previous_champions_league_winner"`
	Rounds           map[string][]ClubEntry `json:"rounds" yaml:"rounds"`

	// Country pairs that may not be drawn against each other.
	// When empty the default pairs apply.
	PoliticalRestrictions [][2]string `json:"political_restrictions,omitempty" yaml:"political_restrictions,omitempty"`
}

// Reads a JSON or YAML document, picked by the file extension.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read competition document: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parses a document. The format is a file extension like ".json"
// or ".yaml".
func Parse(data []byte, format string) (*Document, error) {
	doc := &Document{}

	var err error
	switch strings.ToLower(format) {
	case ".json":
		err = json.Unmarshal(data, doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse competition document: %w", err)
	}

	return doc, nil
}

// Load returns the clubs that enter the round with the given name.
// An unknown round has no clubs.
func (d *Document) Load(roundName string) []core.Entry {
	clubs := d.Rounds[roundName]
	entries := make([]core.Entry, 0, len(clubs))
	for _, c := range clubs {
		entries = append(entries, core.Entry{
			Name:    c.Name,
			Country: core.Country(strings.ToUpper(c.Country)),
			Ranking: c.Ranking,
		})
	}
	return entries
}

func (d *Document) PreviousChampionName() string {
	return d.PreviousChampion
}

// Returns the restricted country pairs of the document or the
// default pairs if it lists none.
func (d *Document) Restrictions() *core.Restrictions {
	if len(d.PoliticalRestrictions) == 0 {
		return core.DefaultRestrictions()
	}
	pairs := make([][2]core.Country, 0, len(d.PoliticalRestrictions))
	for _, p := range d.PoliticalRestrictions {
		pairs = append(pairs, [2]core.Country{
			core.Country(strings.ToUpper(p[0])),
			core.Country(strings.ToUpper(p[1])),
		})
	}
	return core.NewRestrictions(pairs)
}

// Validate checks the round names, the country codes and that
// no club enters the season twice.
func (d *Document) Validate() error {
	known := make(map[string]bool, len(core.AllRounds))
	for _, key := range core.AllRounds {
		known[key.String()] = true
	}

	var errs []error
	seen := make(map[string]string)
	for round, clubs := range d.Rounds {
		if !known[round] {
			errs = append(errs, fmt.Errorf("unknown round %q", round))
			continue
		}
		for _, c := range clubs {
			if c.Name == "" {
				errs = append(errs, fmt.Errorf("club without a name in %s", round))
				continue
			}
			if !core.Country(strings.ToUpper(c.Country)).Known() {
				errs = append(errs, fmt.Errorf("club %s has the unknown country %q", c.Name, c.Country))
			}
			if other, ok := seen[c.Name]; ok {
				errs = append(errs, fmt.Errorf("club %s enters %s and %s", c.Name, other, round))
				continue
			}
			seen[c.Name] = round
		}
	}

	for _, p := range d.PoliticalRestrictions {
		for _, c := range p {
			if !core.Country(strings.ToUpper(c)).Known() {
				errs = append(errs, fmt.Errorf("restriction names the unknown country %q", c))
			}
		}
	}

	if d.PreviousChampion != "" {
		if _, ok := seen[d.PreviousChampion]; !ok {
			errs = append(errs, fmt.Errorf("previous champion %s enters no round", d.PreviousChampion))
		}
	}

	return errors.Join(errs...)
}

// The number of clubs per round name
func (d *Document) Counts() map[string]int {
	counts := make(map[string]int, len(d.Rounds))
	for round, clubs := range d.Rounds {
		counts[round] = len(clubs)
	}
	return counts
}
