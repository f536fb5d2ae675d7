package game

import (
	"math"

	"github.com/google/uuid"
)

func ProductionRate(size PlanetSize, level PlanetLevel) float64 {
	return size.BaseProductionRate() * level.Multiplier()
}

func NewPlanet(pos Vec2, size PlanetSize, owner Faction, garrison int) Planet {
	return Planet{
		ID:             uuid.NewString(),
		Pos:            pos,
		Size:           size,
		Level:          LevelOne,
		Owner:          owner,
		Garrison:       clampInt(garrison, 0, MaxGarrison),
		ProductionRate: ProductionRate(size, LevelOne),
		Radius:         size.Radius(),
	}
}

// ProducePlanets applies one production pulse. Neutral planets never grow.
func ProducePlanets(planets []Planet) []Planet {
	out := make([]Planet, len(planets))
	for i, p := range planets {
		if p.Owner != Neutral {
			p.Garrison = clampInt(p.Garrison+int(math.Round(p.ProductionRate)), 0, MaxGarrison)
		}
		out[i] = p
	}
	return out
}

// ArrivalOutcome records how one fleet resolved against its target.
type ArrivalOutcome struct {
	FleetID       string
	PlanetID      string
	Attacker      Faction
	PreviousOwner Faction
	Ships         int
	Reinforced    bool
	Captured      bool
	Garrison      int
}

// ResolveArrival applies one fleet to its target planet.
// Attackers need strictly more ships than defenders to take ownership; an
// exact tie leaves the defender holding the planet with an empty garrison.
func ResolveArrival(f Fleet, target Planet) Planet {
	if target.Owner == f.Owner {
		target.Garrison = clampInt(target.Garrison+f.ShipCount, 0, MaxGarrison)
		return target
	}
	attackers := f.ShipCount
	defenders := target.Garrison
	survivingAttackers := max(0, attackers-defenders)
	survivingDefenders := max(0, defenders-attackers)
	if survivingAttackers > 0 {
		target.Owner = f.Owner
		target.Garrison = clampInt(survivingAttackers, 0, MaxGarrison)
		return target
	}
	target.Garrison = survivingDefenders
	return target
}

func hasArrived(f Fleet, target Planet) bool {
	return Dist(f.Lead(), target.Pos) <= target.Radius
}

// ResolveArrivals removes every fleet that reached its target and applies it.
// Fleets landing on the same planet in one tick are applied one after another
// in list order, each against the result of the previous one.
func ResolveArrivals(fleets []Fleet, planets []Planet) ([]Fleet, []Planet, []ArrivalOutcome) {
	updated := append([]Planet(nil), planets...)
	remaining := make([]Fleet, 0, len(fleets))
	var outcomes []ArrivalOutcome
	for _, f := range fleets {
		idx := planetIndex(updated, f.TargetPlanetID)
		if idx < 0 || !hasArrived(f, updated[idx]) {
			remaining = append(remaining, f)
			continue
		}
		before := updated[idx]
		after := ResolveArrival(f, before)
		updated[idx] = after
		outcomes = append(outcomes, ArrivalOutcome{
			FleetID:       f.ID,
			PlanetID:      after.ID,
			Attacker:      f.Owner,
			PreviousOwner: before.Owner,
			Ships:         f.ShipCount,
			Reinforced:    before.Owner == f.Owner,
			Captured:      before.Owner != f.Owner && after.Owner == f.Owner,
			Garrison:      after.Garrison,
		})
	}
	return remaining, updated, outcomes
}

// UpgradePlanet raises the planet one level, paying the cost from its
// garrison. It reports false and leaves planets untouched when the planet is
// missing, neutral, maxed out or cannot afford the upgrade.
func UpgradePlanet(id string, planets []Planet) ([]Planet, bool) {
	idx := planetIndex(planets, id)
	if idx < 0 {
		return planets, false
	}
	p := planets[idx]
	if p.Owner == Neutral {
		return planets, false
	}
	cost, ok := p.Level.UpgradeCost()
	if !ok || p.Garrison < cost {
		return planets, false
	}
	p.Level++
	p.Garrison -= cost
	p.ProductionRate = ProductionRate(p.Size, p.Level)

	out := append([]Planet(nil), planets...)
	out[idx] = p
	return out, true
}

// CheckGameOver reports whether fewer than two factions still own planets.
// The winner is Neutral on a draw.
func CheckGameOver(planets []Planet) (bool, Faction) {
	owners := map[Faction]struct{}{}
	var last Faction
	for _, p := range planets {
		if p.Owner != Neutral {
			owners[p.Owner] = struct{}{}
			last = p.Owner
		}
	}
	switch len(owners) {
	case 0:
		return true, Neutral
	case 1:
		return true, last
	}
	return false, Neutral
}
