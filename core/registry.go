package core

import "log/slog"

// A RatingSource returns the strength rating of a club by its name.
type RatingSource interface {
	Rating(clubName string) (float64, bool)
}

// The Registry owns the clubs of one simulation run.
//
// Every run builds its own registry so parallel runs never
// share club state.
type Registry struct {
	clubs            []*Club
	byName           map[string]int
	previousChampion string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Adds a club and assigns the next id to it.
func (r *Registry) Add(entry Entry) *Club {
	club := &Club{
		Id:      len(r.clubs),
		Name:    entry.Name,
		Country: entry.Country,
		Ranking: entry.Ranking,
		Rating:  UnknownRating,
	}
	r.clubs = append(r.clubs, club)

	if _, exists := r.byName[entry.Name]; exists {
		slog.Warn("duplicate club name in registry", "club", entry.Name, "id", club.Id)
	} else {
		r.byName[entry.Name] = club.Id
	}

	return club
}

// Returns the club with the id or false when no such club exists.
func (r *Registry) Club(id int) (*Club, bool) {
	if id < 0 || id >= len(r.clubs) {
		return nil, false
	}
	return r.clubs[id], true
}

// Returns the id of the first club added under the name.
func (r *Registry) IdByName(name string) (int, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *Registry) Clubs() []*Club {
	return r.clubs
}

func (r *Registry) Len() int {
	return len(r.clubs)
}

func (r *Registry) SetPreviousChampion(name string) {
	r.previousChampion = name
}

// Returns the club that won the previous Champions League if it
// takes part in this season.
func (r *Registry) PreviousChampion() (*Club, bool) {
	if r.previousChampion == "" {
		return nil, false
	}
	id, ok := r.IdByName(r.previousChampion)
	if !ok {
		return nil, false
	}
	return r.Club(id)
}

// Refreshes the rating of every club from the source.
// Clubs the source does not know keep the UnknownRating.
// Returns the number of clubs without a rating.
func (r *Registry) ApplyRatings(source RatingSource) int {
	missing := 0
	for _, c := range r.clubs {
		rating, ok := source.Rating(c.Name)
		if !ok {
			c.Rating = UnknownRating
			missing += 1
			slog.Debug("no rating for club", "club", c.Name)
			continue
		}
		c.Rating = rating
	}

	if missing > 0 {
		slog.Warn("clubs without a strength rating", "missing", missing, "clubs", len(r.clubs))
	}
	return missing
}
