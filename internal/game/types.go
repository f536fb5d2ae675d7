package game

import "strings"

type Faction int

const (
	Neutral Faction = iota
	Player1
	Player2
	Player3
)

var factionNames = [...]string{"neutral", "player1", "player2", "player3"}

func (f Faction) String() string {
	if f < Neutral || int(f) >= len(factionNames) {
		return "unknown"
	}
	return factionNames[f]
}

func ParseFaction(s string) (Faction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range factionNames {
		if name == s {
			return Faction(i), true
		}
	}
	return Neutral, false
}

type PlanetSize int

const (
	Small PlanetSize = iota
	Medium
	Large
)

func (s PlanetSize) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	}
	return "unknown"
}

func (s PlanetSize) Radius() float64 {
	switch s {
	case Small:
		return 20
	case Large:
		return 40
	}
	return 30
}

func (s PlanetSize) BaseProductionRate() float64 {
	switch s {
	case Small:
		return 0.5
	case Large:
		return 1.5
	}
	return 1
}

type PlanetLevel int

const (
	LevelOne   PlanetLevel = 1
	LevelTwo   PlanetLevel = 2
	LevelThree PlanetLevel = 3
)

func (l PlanetLevel) Multiplier() float64 {
	switch l {
	case LevelTwo:
		return 3
	case LevelThree:
		return 6
	}
	return 1
}

// UpgradeCost is the garrison spent to leave level l. Level three has no
// further upgrade.
func (l PlanetLevel) UpgradeCost() (int, bool) {
	switch l {
	case LevelOne:
		return 50, true
	case LevelTwo:
		return 150, true
	}
	return 0, false
}

type Planet struct {
	ID             string
	Pos            Vec2
	Size           PlanetSize
	Level          PlanetLevel
	Owner          Faction
	Garrison       int
	ProductionRate float64
	Radius         float64
}

// Ship is a presentation record; fleet strength lives in Fleet.ShipCount.
type Ship struct {
	Pos    Vec2
	Angle  float64
	Target Vec2
}

type Fleet struct {
	ID             string
	Owner          Faction
	Ships          []Ship
	ShipCount      int
	SourcePlanetID string
	TargetPlanetID string
	Position       Vec2
	Direction      Vec2
}

// Lead is the point tested against the target planet on arrival.
func (f Fleet) Lead() Vec2 {
	if len(f.Ships) > 0 {
		return f.Ships[0].Pos
	}
	return f.Position
}

type PlayerType int

const (
	Human PlayerType = iota
	AI
)

func (t PlayerType) String() string {
	if t == AI {
		return "ai"
	}
	return "human"
}

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	}
	return "medium"
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return DifficultyMedium, false
}

type Player struct {
	ID         Faction
	Type       PlayerType
	Difficulty Difficulty
}

type GameState struct {
	Planets        []Planet
	Fleets         []Fleet
	Players        []Player
	SelectedPlanet string
	GameOver       bool
	Winner         Faction // Neutral when nobody won
	AIOpponents    int
}

func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Planets = append([]Planet(nil), s.Planets...)
	out.Players = append([]Player(nil), s.Players...)
	out.Fleets = make([]Fleet, len(s.Fleets))
	for i, f := range s.Fleets {
		f.Ships = append([]Ship(nil), f.Ships...)
		out.Fleets[i] = f
	}
	return &out
}

func (s *GameState) Planet(id string) (Planet, bool) {
	if idx := planetIndex(s.Planets, id); idx >= 0 {
		return s.Planets[idx], true
	}
	return Planet{}, false
}

func (s *GameState) Player(id Faction) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// HumanFaction is the faction commanded through the engine's command API.
func (s *GameState) HumanFaction() (Faction, bool) {
	for _, p := range s.Players {
		if p.Type == Human {
			return p.ID, true
		}
	}
	return Neutral, false
}

func planetIndex(planets []Planet, id string) int {
	if id == "" {
		return -1
	}
	for i := range planets {
		if planets[i].ID == id {
			return i
		}
	}
	return -1
}

func planetsOwnedBy(planets []Planet, owner Faction) []Planet {
	var out []Planet
	for _, p := range planets {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out
}
