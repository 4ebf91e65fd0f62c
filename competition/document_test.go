package competition

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezBadminton/ccsim/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
  "previous_champions_league_winner": "Real Madrid",
  "rounds": {
    "CHAMPIONS_LEAGUE LEAGUE_PHASE": [
      {"name": "Real Madrid", "country": "ESP", "ranking": 1},
      {"name": "Bayern Munich", "country": "ger", "ranking": 3}
    ],
    "CHAMPIONS_LEAGUE Q1 CHAMPIONS_PATH": [
      {"name": "Shakhtar Donetsk", "country": "UKR", "ranking": 40}
    ]
  },
  "political_restrictions": [["UKR", "RUS"]]
}`

func TestParseJSON(t *testing.T) {
	doc, err := Parse([]byte(testDocument), ".json")
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, "Real Madrid", doc.PreviousChampionName())

	entries := doc.Load("CHAMPIONS_LEAGUE LEAGUE_PHASE")
	require.Len(t, entries, 2)
	assert.Equal(t, core.Entry{Name: "Bayern Munich", Country: "GER", Ranking: 3}, entries[1])
	assert.Empty(t, doc.Load("EUROPA_LEAGUE Q1 MAIN_PATH"))

	restrictions := doc.Restrictions()
	assert.True(t, restrictions.Restricted("RUS", "UKR"))
	assert.False(t, restrictions.Restricted("ARM", "AZE"))
}

func TestParseYAML(t *testing.T) {
	content := `
previous_champions_league_winner: Liverpool
rounds:
  EUROPA_LEAGUE PLAYOFF MAIN_PATH:
    - {name: Lazio, country: ITA, ranking: 20}
    - {name: Ajax, country: NED, ranking: 25}
  CHAMPIONS_LEAGUE LEAGUE_PHASE:
    - {name: Liverpool, country: ENG, ranking: 4}
`
	doc, err := Parse([]byte(content), ".YML")
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, map[string]int{
		"EUROPA_LEAGUE PLAYOFF MAIN_PATH": 2,
		"CHAMPIONS_LEAGUE LEAGUE_PHASE":   1,
	}, doc.Counts())
	assert.True(t, doc.Restrictions().Restricted("GIB", "ESP"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{}"), ".toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse([]byte("{"), ".json")
	assert.ErrorContains(t, err, "failed to parse competition document")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read competition document")
}

func TestValidate(t *testing.T) {
	doc := &Document{
		PreviousChampion: "Nobody",
		Rounds: map[string][]ClubEntry{
			"CHAMPIONS_LEAGUE Q4":                {{Name: "A", Country: "ENG"}},
			"EUROPA_LEAGUE Q1 MAIN_PATH":         {{Name: "B", Country: "XXX"}, {Name: "C", Country: "FRA"}},
			"CONFERENCE_LEAGUE Q1 MAIN_PATH":     {{Name: "C", Country: "FRA"}, {Country: "FRA"}},
			"CHAMPIONS_LEAGUE Q1 CHAMPIONS_PATH": {},
		},
		PoliticalRestrictions: [][2]string{{"ARM", "ATL"}},
	}

	err := doc.Validate()
	require.Error(t, err)
	for _, msg := range []string{
		`unknown round "CHAMPIONS_LEAGUE Q4"`,
		`unknown country "XXX"`,
		"club C enters",
		"club without a name",
		`unknown country "ATL"`,
		"previous champion Nobody",
	} {
		assert.ErrorContains(t, err, msg)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Rounds, 2)
}

// The bundled season is complete and runs through to the league phases
func TestBundledSeason(t *testing.T) {
	doc, err := ReadFile(filepath.Join("..", "data", "competition.yaml"))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	total := 0
	for _, key := range core.AllRounds {
		total += len(doc.Load(key.String()))
	}
	assert.Equal(t, 185, total)

	rounds, err := core.NewRounds(doc, core.Settings{
		Rng:          rand.New(rand.NewSource(7)),
		Restrictions: doc.Restrictions(),
	})
	require.NoError(t, err)
	require.NoError(t, rounds.Run())

	for _, lp := range rounds.LeaguePhases() {
		assert.Len(t, lp.Slots(), 36, lp.String())
		assert.NoError(t, lp.Verify())
	}

	champion, ok := rounds.Registry().PreviousChampion()
	require.True(t, ok)
	assert.Equal(t, "Real Madrid", champion.Name)
}
