package game

// Value scoring weights.
const (
	valueDistanceScale    = 1000.0
	valueDistanceOffset   = 10.0
	valueUndefendedFactor = 10.0
	valueProductionScale  = 10.0
	valueNeutralBonus     = 1.5
	valueThreatenedFactor = 0.8
	valueCommittedFactor  = 0.5
	valueContestedBonus   = 1.5
	valueMinSourceShips   = 5
	valueAttackMargin     = 1.2
	valueMinSend          = 0.5
	valueMaxSend          = 0.9
	valueReinforceSend    = 0.3
)

// inbound sums the ships already flying at target, split by whether they
// belong to owner.
func inbound(fleets []Fleet, targetID string, owner Faction) (friendly, enemy int) {
	for _, f := range fleets {
		if f.TargetPlanetID != targetID {
			continue
		}
		if f.Owner == owner {
			friendly += f.ShipCount
		} else {
			enemy += f.ShipCount
		}
	}
	return friendly, enemy
}

// attackValue rates sending from source to target given the fleets in flight.
// Own planets are only worth anything while enemy ships inbound outnumber the
// defence.
func attackValue(source, target Planet, fleets []Fleet) float64 {
	dist := valueDistanceScale / (Dist(source.Pos, target.Pos) + valueDistanceOffset)
	friendly, enemy := inbound(fleets, target.ID, source.Owner)

	garrison := valueUndefendedFactor
	if defence := target.Garrison + enemy - friendly; defence > 0 {
		garrison = float64(source.Garrison) / float64(defence)
	}
	value := dist * garrison * target.ProductionRate * valueProductionScale

	switch target.Owner {
	case Neutral:
		value *= valueNeutralBonus
	case source.Owner:
		if enemy <= target.Garrison+friendly {
			return 0
		}
		value *= valueThreatenedFactor
	}
	if friendly > 0 {
		value *= valueCommittedFactor
	}
	if enemy > 0 {
		value *= valueContestedBonus
	}
	return value
}

// FindBestAttackMove scores every (source, target) pair for owner and returns
// the best one. Sources with fewer than five ships and pairs worth nothing are
// skipped.
func FindBestAttackMove(state *GameState, owner Faction) (AIMove, bool) {
	if state == nil {
		return AIMove{}, false
	}
	var best AIMove
	bestValue := 0.0
	found := false
	for _, source := range state.Planets {
		if source.Owner != owner || source.Garrison < valueMinSourceShips {
			continue
		}
		for _, target := range state.Planets {
			if target.ID == source.ID {
				continue
			}
			v := attackValue(source, target, state.Fleets)
			if v <= bestValue {
				continue
			}
			pct := valueReinforceSend
			if target.Owner != owner {
				needed := float64(target.Garrison) * valueAttackMargin
				pct = Clamp(needed/float64(source.Garrison), valueMinSend, valueMaxSend)
			}
			best = AIMove{SourcePlanetID: source.ID, TargetPlanetID: target.ID, Percentage: pct}
			bestValue = v
			found = true
		}
	}
	return best, found
}

// ValueBehavior plays FindBestAttackMove every decision, ignoring difficulty.
type ValueBehavior struct{}

func (ValueBehavior) Plan(ctx *AIContext) (AIMove, bool) {
	if ctx == nil {
		return AIMove{}, false
	}
	move, ok := FindBestAttackMove(ctx.State, ctx.Self)
	if !ok {
		return AIMove{}, false
	}
	if p, found := ctx.State.Planet(move.SourcePlanetID); found {
		move.Percentage = keepOneShip(move.Percentage, p.Garrison)
	}
	return move, true
}
