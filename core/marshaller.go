package core

import "encoding/json"

func marshalClubs(registry *Registry) map[int]map[string]any {
	clubs := make(map[int]map[string]any, registry.Len())
	for _, c := range registry.Clubs() {
		club := map[string]any{
			"name":    c.Name,
			"country": c.Country,
			"ranking": c.Ranking,
		}
		if c.Rating != UnknownRating {
			club["rating"] = c.Rating
		}
		clubs[c.Id] = club
	}
	return clubs
}

// Concrete slots are written as the club id, the others by name.
func marshalSlot(slot Slot, resolver *Resolver) any {
	resolved, err := resolver.Resolve(slot)
	if err == nil && resolved.IsConcrete() {
		return resolved.Club
	}
	return resolver.Name(slot)
}

func marshalTie(tie *Tie, resolver *Resolver) map[string]any {
	legs := make([][]int, 0, len(tie.Legs))
	for _, leg := range tie.Legs {
		legs = append(legs, []int{leg.Goals1, leg.Goals2})
	}

	result := map[string]any{
		"slot1": marshalSlot(tie.Slot1, resolver),
		"slot2": marshalSlot(tie.Slot2, resolver),
		"legs":  legs,
	}
	if winner, err := tie.Winner(); err == nil {
		result["winner"] = marshalSlot(winner, resolver)
		result["shootout"] = tie.Shootout
	}
	return result
}

func marshalTies(ties []*Tie, resolver *Resolver) []map[string]any {
	result := make([]map[string]any, len(ties))
	for i, t := range ties {
		result[i] = marshalTie(t, resolver)
	}
	return result
}

func marshalQualifyingRound(round *QualifyingRound) map[string]any {
	return map[string]any{
		"type": "Qualifying",
		"ties": marshalTies(round.Ties(), round.Resolver()),
	}
}

func marshalLeaguePhase(round *LeaguePhaseRound) map[string]any {
	resolver := round.Resolver()
	pots := make([][]any, len(round.Pots()))
	for i, pot := range round.Pots() {
		pots[i] = make([]any, len(pot))
		for j, s := range pot {
			pots[i][j] = marshalSlot(s, resolver)
		}
	}

	result := map[string]any{
		"type":     "LeaguePhase",
		"pots":     pots,
		"fixtures": marshalTies(round.Ties(), resolver),
	}
	return result
}

func marshalRounds(rounds *Rounds) map[string]any {
	byName := make(map[string]any, len(rounds.byKey))
	for _, key := range AllRounds {
		switch r := rounds.byKey[key].(type) {
		case *QualifyingRound:
			if len(r.Ties()) == 0 {
				continue
			}
			byName[key.String()] = marshalQualifyingRound(r)
		case *LeaguePhaseRound:
			byName[key.String()] = marshalLeaguePhase(r)
		}
	}

	result := map[string]any{
		"clubs":  marshalClubs(rounds.registry),
		"rounds": byName,
	}
	if champion, ok := rounds.registry.PreviousChampion(); ok {
		result["previousChampion"] = champion.Id
	}
	return result
}

func (r *Rounds) MarshalJSON() ([]byte, error) {
	anymap := marshalRounds(r)
	return json.Marshal(anymap)
}
