package game

import (
	"errors"
	"math"
	"testing"
)

func countOwned(planets []Planet, f Faction) int {
	n := 0
	for _, p := range planets {
		if p.Owner == f {
			n++
		}
	}
	return n
}

func TestGenerateLayoutNeverOverlaps(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		planets, err := GenerateLayout(LayoutConfig{
			Width:      1600,
			Height:     1200,
			MinPlanets: MinPlanets,
			MaxPlanets: MaxPlanets,
			Factions:   3,
		}, seeded(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(planets) > MaxPlanets {
			t.Fatalf("seed %d: %d planets exceeds max", seed, len(planets))
		}
		for i := range planets {
			for j := i + 1; j < len(planets); j++ {
				a, b := planets[i], planets[j]
				if Dist(a.Pos, b.Pos) < a.Radius+b.Radius+PlanetSpacing {
					t.Fatalf("seed %d: planets %d and %d overlap", seed, i, j)
				}
			}
		}
	}
}

func TestGenerateLayoutAssignsBalancedHomes(t *testing.T) {
	planets, err := GenerateLayout(LayoutConfig{
		Width: 1600, Height: 1200, MinPlanets: MinPlanets, MaxPlanets: MaxPlanets, Factions: 3,
	}, seeded(11))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	home := planets[0]
	if home.Owner != Player1 || home.Size != Large || home.Garrison != HomeGarrison {
		t.Fatalf("player1 home %+v", home)
	}
	for _, f := range []Faction{Player1, Player2, Player3} {
		if n := countOwned(planets, f); n != 1 {
			t.Fatalf("%s owns %d planets at start", f, n)
		}
	}
	var p2 Planet
	for _, p := range planets {
		if p.Owner != Neutral && p.Garrison != home.Garrison {
			t.Fatalf("%s home starts with %d ships, want %d", p.Owner, p.Garrison, home.Garrison)
		}
		if p.Owner == Player2 {
			p2 = p
		}
	}
	for _, p := range planets[1:] {
		if Dist(home.Pos, p.Pos) > Dist(home.Pos, p2.Pos) {
			t.Fatalf("player2 home is not the farthest planet from player1")
		}
	}
	for _, p := range planets {
		if p.Owner == Neutral && (p.Garrison < neutralGarrisonLo || p.Garrison >= neutralGarrisonLo+neutralGarrisonN) {
			t.Fatalf("neutral garrison %d out of range", p.Garrison)
		}
	}
}

func TestGenerateLayoutTwoFactions(t *testing.T) {
	planets, err := GenerateLayout(LayoutConfig{
		Width: 1600, Height: 1200, MinPlanets: MinPlanets, MaxPlanets: MaxPlanets, Factions: 2,
	}, seeded(5))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if countOwned(planets, Player3) != 0 {
		t.Fatalf("two-faction layout handed out a player3 home")
	}
	if countOwned(planets, Player2) != 1 {
		t.Fatalf("player2 home missing")
	}
}

func TestGenerateLayoutRejectsDegeneratePlane(t *testing.T) {
	_, err := GenerateLayout(LayoutConfig{Width: 100, Height: 600, MinPlanets: 16, MaxPlanets: 30, Factions: 2}, seeded(1))
	if !errors.Is(err, ErrDegeneratePlane) {
		t.Fatalf("expected ErrDegeneratePlane, got %v", err)
	}
	w, h := SanitizeDimensions(100, 600)
	if w != DefaultWidth || h != DefaultHeight {
		t.Fatalf("expected defaults, got %vx%v", w, h)
	}
	w, h = SanitizeDimensions(1024, 768)
	if w != 1024 || h != 768 {
		t.Fatalf("valid plane replaced: %vx%v", w, h)
	}
}

func TestEngineSubstitutesDefaultPlane(t *testing.T) {
	e := NewEngine(Config{Width: 10, Height: 10, Player2AI: true, AIOpponents: 1}, DefaultParams(), seeded(2))
	cfg := e.Config()
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Fatalf("expected default plane, got %vx%v", cfg.Width, cfg.Height)
	}
	if len(e.Snapshot().Planets) == 0 {
		t.Fatalf("engine started without planets")
	}
}

func finitePos(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func TestNonFinitePlaneFallsBack(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := GenerateLayout(LayoutConfig{Width: bad, Height: 600, MinPlanets: 16, MaxPlanets: 30, Factions: 2}, seeded(1)); !errors.Is(err, ErrDegeneratePlane) {
			t.Fatalf("width %v: expected ErrDegeneratePlane, got %v", bad, err)
		}
		if _, err := GenerateLayout(LayoutConfig{Width: 800, Height: bad, MinPlanets: 16, MaxPlanets: 30, Factions: 2}, seeded(1)); !errors.Is(err, ErrDegeneratePlane) {
			t.Fatalf("height %v: expected ErrDegeneratePlane, got %v", bad, err)
		}
		if w, h := SanitizeDimensions(bad, 600); w != DefaultWidth || h != DefaultHeight {
			t.Fatalf("width %v: expected defaults, got %vx%v", bad, w, h)
		}

		cfg := DefaultConfig()
		cfg.Width = bad
		e := NewEngine(cfg, DefaultParams(), seeded(4))
		if got := e.Config(); got.Width != DefaultWidth || got.Height != DefaultHeight {
			t.Fatalf("width %v: engine kept %vx%v", bad, got.Width, got.Height)
		}
		planets := e.Snapshot().Planets
		if len(planets) == 0 {
			t.Fatalf("width %v: engine started without planets", bad)
		}
		for _, p := range planets {
			if !finitePos(p.Pos) {
				t.Fatalf("width %v: planet %s at %+v", bad, p.ID, p.Pos)
			}
		}
	}
}
