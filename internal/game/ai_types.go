package game

import "strings"

// AIMove is one dispatch intent produced by a behavior.
type AIMove struct {
	SourcePlanetID string
	TargetPlanetID string
	Percentage     float64
}

// apply materializes the move against the current planets and fleets. The
// move is dropped when the source changed hands since planning or the
// percentage now rounds down to zero ships.
func (m AIMove) apply(planets []Planet, fleets []Fleet, owner Faction, rng Rand) ([]Planet, []Fleet, bool) {
	return launchFleet(planets, fleets, m.SourcePlanetID, m.TargetPlanetID, m.Percentage, owner, rng)
}

type AIBehavior interface {
	Plan(ctx *AIContext) (AIMove, bool)
}

// DifficultySettings are the tunables a difficulty level fixes.
type DifficultySettings struct {
	DecisionQuality float64 // probability of choosing deliberately over randomly
	Aggressiveness  float64 // weight of enemy-held targets
	ReinforceChance float64 // probability of also considering own planets
	MinSend         float64
	MaxSend         float64
}

var difficultyPresets = map[Difficulty]DifficultySettings{
	DifficultyEasy: {
		DecisionQuality: 0.3,
		Aggressiveness:  0.3,
		ReinforceChance: 0.2,
		MinSend:         0.3,
		MaxSend:         0.6,
	},
	DifficultyMedium: {
		DecisionQuality: 0.6,
		Aggressiveness:  0.6,
		ReinforceChance: 0.4,
		MinSend:         0.4,
		MaxSend:         0.8,
	},
	DifficultyHard: {
		DecisionQuality: 0.9,
		Aggressiveness:  0.9,
		ReinforceChance: 0.6,
		MinSend:         0.5,
		MaxSend:         1.0,
	},
}

func SettingsFor(d Difficulty) DifficultySettings {
	if s, ok := difficultyPresets[d]; ok {
		return s
	}
	return difficultyPresets[DifficultyMedium]
}

type AIContext struct {
	State    *GameState
	Self     Faction
	Settings DifficultySettings
	Rand     Rand
}

// AIAgent binds one AI faction to the behavior that plays it.
type AIAgent struct {
	Faction  Faction
	Behavior AIBehavior
}

func NewAIAgent(faction Faction, behavior AIBehavior) *AIAgent {
	if behavior == nil {
		behavior = DifficultyBehavior{}
	}
	return &AIAgent{Faction: faction, Behavior: behavior}
}

const (
	StrategyDifficulty = "difficulty"
	StrategyValue      = "value"
)

// BehaviorFor maps a strategy name to a behavior, falling back to the
// difficulty-driven one.
func BehaviorFor(strategy string) AIBehavior {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyValue:
		return ValueBehavior{}
	}
	return DifficultyBehavior{}
}

// keepOneShip caps pct so that at least one ship stays on a planet with the
// given garrison.
func keepOneShip(pct float64, garrison int) float64 {
	if garrison <= 0 {
		return 0
	}
	return min(pct, float64(garrison-1)/float64(garrison))
}
