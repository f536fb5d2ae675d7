package game

import (
	"math"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed draws and falls back to 0.5 / 0 when exhausted.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedRand) Float64() float64 {
	if s.fi < len(s.floats) {
		v := s.floats[s.fi]
		s.fi++
		return v
	}
	return 0.5
}

func (s *scriptedRand) Intn(n int) int {
	if s.ii < len(s.ints) {
		v := s.ints[s.ii]
		s.ii++
		return v % n
	}
	return 0
}

func seeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testPlanet(id string, x, y float64, size PlanetSize, owner Faction, garrison int) Planet {
	p := NewPlanet(Vec2{X: x, Y: y}, size, owner, garrison)
	p.ID = id
	return p
}

// fleetAt builds a fleet whose every ship already sits at pos.
func fleetAt(id string, owner Faction, ships int, targetID string, pos Vec2) Fleet {
	return Fleet{
		ID:             id,
		Owner:          owner,
		ShipCount:      ships,
		TargetPlanetID: targetID,
		Ships:          []Ship{{Pos: pos, Target: pos}},
		Position:       pos,
	}
}

// newTestEngine returns a running engine over a fixed three-planet map:
// A (player1, 100) B (neutral, 20) C (player2, 50). Player1 is human and
// player2's AI is detached so it never moves.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(DefaultConfig(), DefaultParams(), seeded(1))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = &GameState{
		Planets: []Planet{
			testPlanet("A", 100, 100, Medium, Player1, 100),
			testPlanet("B", 400, 100, Medium, Neutral, 20),
			testPlanet("C", 700, 500, Medium, Player2, 50),
		},
		Players: []Player{
			{ID: Player1, Type: Human},
			{ID: Player2, Type: AI, Difficulty: DifficultyMedium},
		},
		AIOpponents: 1,
	}
	e.agents = nil
	return e
}

// setPlanet overwrites one planet in the engine's state.
func setPlanet(t *testing.T, e *Engine, p Planet) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	next := *e.state
	next.Planets = append([]Planet(nil), e.state.Planets...)
	idx := planetIndex(next.Planets, p.ID)
	if idx < 0 {
		t.Fatalf("no planet %s", p.ID)
	}
	next.Planets[idx] = p
	e.state = &next
}

func mustPlanet(t *testing.T, s *GameState, id string) Planet {
	t.Helper()
	p, ok := s.Planet(id)
	if !ok {
		t.Fatalf("planet %s missing", id)
	}
	return p
}
