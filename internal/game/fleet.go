package game

import (
	"math"

	"github.com/google/uuid"
)

// CreateFleet builds a fleet of shipCount ships leaving source for target.
// At most MaxVisibleShips ship records are kept for motion.
func CreateFleet(source, target Planet, shipCount int, rng Rand) Fleet {
	delta := target.Pos.Sub(source.Pos)
	angle := math.Atan2(delta.Y, delta.X)

	visible := min(shipCount, MaxVisibleShips)
	ships := make([]Ship, 0, visible)
	for i := 0; i < visible; i++ {
		offset := Vec2{
			X: (rng.Float64() - 0.5) * FormationSpread,
			Y: (rng.Float64() - 0.5) * FormationSpread,
		}
		ships = append(ships, Ship{
			Pos:    source.Pos.Add(offset),
			Angle:  angle,
			Target: target.Pos,
		})
	}

	return Fleet{
		ID:             uuid.NewString(),
		Owner:          source.Owner,
		Ships:          ships,
		ShipCount:      shipCount,
		SourcePlanetID: source.ID,
		TargetPlanetID: target.ID,
		Position:       source.Pos,
		Direction:      unitOrZero(delta),
	}
}

func advanceShip(s Ship, dt, speed float64) Ship {
	dir := s.Target.Sub(s.Pos)
	dist := dir.Len()
	step := speed * dt
	if dist < ShipSnapEpsilon || step >= dist {
		s.Pos = s.Target
		return s
	}
	heading := math.Atan2(dir.Y, dir.X)
	s.Angle += wrapAngle(heading-s.Angle) * HeadingSmoothing
	s.Pos = s.Pos.Add(dir.Scale(step / dist))
	return s
}

// AdvanceFleets moves every ship dt seconds toward its target at speed and
// recomputes each fleet's centroid.
func AdvanceFleets(fleets []Fleet, dt, speed float64) []Fleet {
	out := make([]Fleet, len(fleets))
	for i, f := range fleets {
		ships := make([]Ship, len(f.Ships))
		var sum Vec2
		for j, s := range f.Ships {
			ships[j] = advanceShip(s, dt, speed)
			sum = sum.Add(ships[j].Pos)
		}
		f.Ships = ships
		if len(ships) > 0 {
			f.Position = sum.Scale(1.0 / float64(len(ships)))
		}
		out[i] = f
	}
	return out
}

// launchFleet deducts the ships from the source and appends the new fleet.
// It rejects the launch when the source is missing, neutral, not owned by
// issuer, the same as the target, or when the percentage yields no ships.
func launchFleet(planets []Planet, fleets []Fleet, sourceID, targetID string, pct float64, issuer Faction, rng Rand) ([]Planet, []Fleet, bool) {
	if sourceID == "" || sourceID == targetID {
		return planets, fleets, false
	}
	if math.IsNaN(pct) || pct <= 0 || pct > 1 {
		return planets, fleets, false
	}
	si := planetIndex(planets, sourceID)
	ti := planetIndex(planets, targetID)
	if si < 0 || ti < 0 {
		return planets, fleets, false
	}
	source := planets[si]
	if source.Owner == Neutral || source.Owner != issuer {
		return planets, fleets, false
	}
	ships := int(math.Floor(float64(source.Garrison) * pct))
	if ships <= 0 || ships > source.Garrison {
		return planets, fleets, false
	}

	fleet := CreateFleet(source, planets[ti], ships, rng)
	nextPlanets := append([]Planet(nil), planets...)
	nextPlanets[si].Garrison -= ships
	nextFleets := append(append([]Fleet(nil), fleets...), fleet)
	return nextPlanets, nextFleets, true
}
