package game

import (
	"cmp"
	"slices"
)

const (
	garrisonWeight    = 1.0
	fleetWeight       = 1.0
	productionWeight  = 5.0
	planetCountWeight = 10.0
)

// EvaluateStrength weighs a faction's garrisons, ships in flight, production
// and planet count into one score.
func EvaluateStrength(state *GameState, faction Faction) float64 {
	if state == nil {
		return 0
	}
	var garrison, production float64
	planets := 0
	for _, p := range state.Planets {
		if p.Owner != faction {
			continue
		}
		garrison += float64(p.Garrison)
		production += p.ProductionRate
		planets++
	}
	var ships float64
	for _, f := range state.Fleets {
		if f.Owner == faction {
			ships += float64(f.ShipCount)
		}
	}
	return garrison*garrisonWeight + ships*fleetWeight + production*productionWeight + float64(planets)*planetCountWeight
}

type Standing struct {
	Faction  Faction
	Type     PlayerType
	Planets  int
	Garrison int
	InFlight int
	Strength float64
}

// Standings ranks every player by strength, strongest first.
func Standings(state *GameState) []Standing {
	if state == nil {
		return nil
	}
	out := make([]Standing, 0, len(state.Players))
	for _, pl := range state.Players {
		st := Standing{Faction: pl.ID, Type: pl.Type, Strength: EvaluateStrength(state, pl.ID)}
		for _, p := range state.Planets {
			if p.Owner == pl.ID {
				st.Planets++
				st.Garrison += p.Garrison
			}
		}
		for _, f := range state.Fleets {
			if f.Owner == pl.ID {
				st.InFlight += f.ShipCount
			}
		}
		out = append(out, st)
	}
	slices.SortStableFunc(out, func(a, b Standing) int { return cmp.Compare(b.Strength, a.Strength) })
	return out
}
