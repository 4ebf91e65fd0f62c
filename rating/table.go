package rating

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	clubColumn   = 1
	ratingColumn = 4
	minColumns   = 5
)

// A Table holds the strength ratings of one feed snapshot.
// It is read-only after parsing and safe for concurrent lookups.
type Table struct {
	ratings map[string]float64

	// Lowercase name -> feed name
	lookup map[string]string
	lower  []string

	fuzzy bool
}

// Parses the rating feed CSV. The first line is a header. Lines
// with fewer than five columns are skipped.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{
		ratings: make(map[string]float64),
		lookup:  make(map[string]string),
	}

	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rating feed: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < minColumns {
			continue
		}

		name := strings.TrimSpace(record[clubColumn])
		rating, err := strconv.ParseFloat(strings.TrimSpace(record[ratingColumn]), 64)
		if err != nil {
			line, _ := reader.FieldPos(ratingColumn)
			return nil, fmt.Errorf("invalid rating of %s on line %d: %w", name, line, err)
		}
		table.add(name, rating)
	}

	return table, nil
}

func (t *Table) add(name string, rating float64) {
	if _, ok := t.ratings[name]; !ok {
		lower := strings.ToLower(name)
		t.lookup[lower] = name
		t.lower = append(t.lower, lower)
	}
	t.ratings[name] = rating
}

// Enables matching of club names that are spelled differently
// in the feed, e.g. "Man City" for "Manchester City".
func (t *Table) SetFuzzyMatch(enabled bool) {
	t.fuzzy = enabled
}

func (t *Table) Len() int {
	return len(t.ratings)
}

// Returns the rating of a club. The name is matched exactly first,
// then case-insensitively and finally, if enabled, by fuzzy search.
func (t *Table) Rating(clubName string) (float64, bool) {
	if rating, ok := t.ratings[clubName]; ok {
		return rating, true
	}

	lower := strings.ToLower(clubName)
	if name, ok := t.lookup[lower]; ok {
		return t.ratings[name], true
	}

	if !t.fuzzy {
		return 0, false
	}
	name, ok := t.closest(lower)
	if !ok {
		return 0, false
	}
	slog.Debug("fuzzy rating match", "club", clubName, "feed", name)
	return t.ratings[name], true
}

// Finds the feed name closest to the lowercase club name. The
// club name may abbreviate the feed name or the other way round.
func (t *Table) closest(lower string) (string, bool) {
	ranks := fuzzy.RankFind(lower, t.lower)
	for _, target := range t.lower {
		if distance := fuzzy.RankMatch(target, lower); distance >= 0 {
			ranks = append(ranks, fuzzy.Rank{Source: target, Target: target, Distance: distance})
		}
	}
	if len(ranks) == 0 {
		return "", false
	}
	sort.Stable(ranks)
	return t.lookup[ranks[0].Target], true
}

// Snapshot looks up the given club names once and returns the
// ratings that were found.
func (t *Table) Snapshot(clubNames []string) Snapshot {
	snapshot := make(Snapshot, len(clubNames))
	for _, name := range clubNames {
		if rating, ok := t.Rating(name); ok {
			snapshot[name] = rating
		}
	}
	return snapshot
}

// A Snapshot maps club names to ratings.
type Snapshot map[string]float64

func (s Snapshot) Rating(clubName string) (float64, bool) {
	rating, ok := s[clubName]
	return rating, ok
}
