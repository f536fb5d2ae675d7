package game

import (
	"cmp"
	"slices"
)

// Target scoring weights.
const (
	neutralTargetWeight    = 1.0
	enemyTargetWeightScale = 2.0 // multiplied by aggressiveness
	weakOwnTargetWeight    = 1.5 // own planet under half the source garrison, reinforcing
	ownTargetWeight        = 0.1
	sourceShortlist        = 3
	attackMarginEnemy      = 5
	attackMarginNeutral    = 2
	reinforceGarrisonShare = 0.5
	reinforceSendMin       = 0.2
	reinforceSendMax       = 0.5
)

func distanceFactor(source, target Planet) float64 {
	return 1 / (Dist(source.Pos, target.Pos) + 1)
}

func garrisonFactor(target Planet) float64 {
	return 1 / (float64(target.Garrison) + 1)
}

func ownershipFactor(source, target Planet, self Faction, reinforcing bool, s DifficultySettings) float64 {
	switch target.Owner {
	case self:
		if reinforcing && float64(target.Garrison) < float64(source.Garrison)/2 {
			return weakOwnTargetWeight
		}
		return ownTargetWeight
	case Neutral:
		return neutralTargetWeight
	}
	return s.Aggressiveness * enemyTargetWeightScale
}

func scoreTarget(source, target Planet, self Faction, reinforcing bool, s DifficultySettings) float64 {
	return distanceFactor(source, target) * garrisonFactor(target) * ownershipFactor(source, target, self, reinforcing, s)
}

// sendPercentage sizes a deliberate move: enough to beat the target plus a
// margin when attacking, a modest share when reinforcing.
func sendPercentage(source, target Planet, self Faction, s DifficultySettings) float64 {
	src := float64(source.Garrison)
	switch target.Owner {
	case self:
		return Clamp(float64(target.Garrison)*reinforceGarrisonShare/src, reinforceSendMin, reinforceSendMax)
	case Neutral:
		return Clamp(float64(target.Garrison+attackMarginNeutral)/src, s.MinSend, s.MaxSend)
	}
	return Clamp(float64(target.Garrison+attackMarginEnemy)/src, s.MinSend, s.MaxSend)
}

// DifficultyBehavior plays with the imperfections its DifficultySettings
// allow: at low decision quality it picks weaker sources, random targets and
// random force sizes.
type DifficultyBehavior struct{}

func (DifficultyBehavior) Plan(ctx *AIContext) (AIMove, bool) {
	if ctx == nil || ctx.State == nil || ctx.Rand == nil {
		return AIMove{}, false
	}
	s := ctx.Settings
	rng := ctx.Rand
	planets := ctx.State.Planets

	own := planetsOwnedBy(planets, ctx.Self)
	if len(own) == 0 {
		return AIMove{}, false
	}
	var others []Planet
	for _, p := range planets {
		if p.Owner != ctx.Self {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return AIMove{}, false
	}

	reinforcing := rng.Float64() < s.ReinforceChance && len(own) > 1
	candidates := others
	if reinforcing {
		candidates = append(append([]Planet(nil), others...), own...)
	}

	sources := slices.Clone(own)
	slices.SortStableFunc(sources, func(a, b Planet) int { return cmp.Compare(b.Garrison, a.Garrison) })
	if sources[0].Garrison <= 1 {
		return AIMove{}, false
	}
	pick := 0
	if rng.Float64() > s.DecisionQuality {
		pick = rng.Intn(min(sourceShortlist, len(sources)))
	}
	source := sources[pick]
	if source.Garrison <= 1 {
		return AIMove{}, false
	}

	var target Planet
	if rng.Float64() < s.DecisionQuality {
		best := -1.0
		for _, c := range candidates {
			if c.ID == source.ID {
				continue
			}
			if score := scoreTarget(source, c, ctx.Self, reinforcing, s); score > best {
				best = score
				target = c
			}
		}
	} else {
		target = candidates[rng.Intn(len(candidates))]
	}
	if target.ID == source.ID {
		alternatives := make([]Planet, 0, len(candidates))
		for _, c := range candidates {
			if c.ID != source.ID {
				alternatives = append(alternatives, c)
			}
		}
		if len(alternatives) == 0 {
			return AIMove{}, false
		}
		target = alternatives[rng.Intn(len(alternatives))]
	}

	var pct float64
	if rng.Float64() < s.DecisionQuality {
		pct = sendPercentage(source, target, ctx.Self, s)
	} else {
		pct = s.MinSend + rng.Float64()*(s.MaxSend-s.MinSend)
	}
	pct = keepOneShip(pct, source.Garrison)

	return AIMove{SourcePlanetID: source.ID, TargetPlanetID: target.ID, Percentage: pct}, true
}
