package game

import "testing"

func aiContext(planets []Planet, self Faction, d Difficulty, rng Rand) *AIContext {
	return &AIContext{
		State:    &GameState{Planets: planets},
		Self:     self,
		Settings: SettingsFor(d),
		Rand:     rng,
	}
}

func TestDifficultyBehaviorNoMove(t *testing.T) {
	b := DifficultyBehavior{}
	none := []Planet{testPlanet("n", 0, 0, Small, Neutral, 5)}
	if _, ok := b.Plan(aiContext(none, Player2, DifficultyHard, seeded(1))); ok {
		t.Fatalf("faction without planets should not move")
	}
	drained := []Planet{
		testPlanet("a", 0, 0, Small, Player2, 1),
		testPlanet("b", 100, 0, Small, Player2, 0),
		testPlanet("n", 300, 0, Small, Neutral, 5),
	}
	if _, ok := b.Plan(aiContext(drained, Player2, DifficultyHard, seeded(1))); ok {
		t.Fatalf("faction with garrisons <= 1 should not move")
	}
	owned := []Planet{testPlanet("a", 0, 0, Small, Player2, 50)}
	if _, ok := b.Plan(aiContext(owned, Player2, DifficultyHard, seeded(1))); ok {
		t.Fatalf("faction owning every planet has no target")
	}
}

func TestDifficultyBehaviorDeliberateMove(t *testing.T) {
	planets := []Planet{
		testPlanet("src", 0, 0, Medium, Player2, 40),
		testPlanet("near", 100, 0, Medium, Neutral, 10),
		testPlanet("far", 300, 0, Medium, Neutral, 10),
		testPlanet("enemy", 150, 0, Medium, Player1, 50),
	}
	// no reinforcement, strongest source, scored target, computed size
	rng := &scriptedRand{floats: []float64{0.99, 0.0, 0.0, 0.0}}
	move, ok := DifficultyBehavior{}.Plan(aiContext(planets, Player2, DifficultyHard, rng))
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.SourcePlanetID != "src" || move.TargetPlanetID != "near" {
		t.Fatalf("unexpected move %+v", move)
	}
	// (10+2)/40 clamped up to DifficultyHard's minimum send
	if !approx(move.Percentage, 0.5) {
		t.Fatalf("expected 0.5, got %v", move.Percentage)
	}
}

func TestDifficultyBehaviorWeakSourcePick(t *testing.T) {
	planets := []Planet{
		testPlanet("big", 0, 0, Medium, Player2, 90),
		testPlanet("mid", 0, 200, Medium, Player2, 60),
		testPlanet("low", 0, 400, Medium, Player2, 30),
		testPlanet("n", 300, 0, Medium, Neutral, 8),
	}
	rng := &scriptedRand{floats: []float64{0.99, 0.95, 0.0, 0.0}, ints: []int{2}}
	move, ok := DifficultyBehavior{}.Plan(aiContext(planets, Player2, DifficultyEasy, rng))
	if !ok || move.SourcePlanetID != "low" {
		t.Fatalf("expected the third strongest source, got %+v ok=%v", move, ok)
	}
}

func TestDifficultyBehaviorNeverTargetsSource(t *testing.T) {
	planets := []Planet{
		testPlanet("n", 300, 0, Medium, Neutral, 8),
		testPlanet("s1", 0, 0, Medium, Player2, 50),
		testPlanet("s2", 0, 300, Medium, Player2, 10),
	}
	// reinforce, strongest source, random target lands on the source itself,
	// then random sizing
	rng := &scriptedRand{
		floats: []float64{0.0, 0.0, 0.99, 0.99, 0.5},
		ints:   []int{1, 0},
	}
	move, ok := DifficultyBehavior{}.Plan(aiContext(planets, Player2, DifficultyHard, rng))
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.SourcePlanetID != "s1" || move.TargetPlanetID != "n" {
		t.Fatalf("expected resampled target n from s1, got %+v", move)
	}
	if !approx(move.Percentage, 0.75) {
		t.Fatalf("expected random size 0.75, got %v", move.Percentage)
	}
}

func TestDifficultyBehaviorReinforcesWeakPlanet(t *testing.T) {
	planets := []Planet{
		testPlanet("src", 0, 0, Medium, Player2, 100),
		testPlanet("weak", 50, 0, Medium, Player2, 4),
		testPlanet("enemy", 900, 0, Medium, Player1, 400),
	}
	rng := &scriptedRand{floats: []float64{0.0, 0.0, 0.0, 0.0}}
	move, ok := DifficultyBehavior{}.Plan(aiContext(planets, Player2, DifficultyHard, rng))
	if !ok || move.TargetPlanetID != "weak" {
		t.Fatalf("expected reinforcement of weak planet, got %+v", move)
	}
	// 4*0.5/100 clamped into [0.2, 0.5]
	if !approx(move.Percentage, reinforceSendMin) {
		t.Fatalf("expected %v, got %v", reinforceSendMin, move.Percentage)
	}
}

func TestOwnershipFactor(t *testing.T) {
	s := SettingsFor(DifficultyMedium)
	src := testPlanet("s", 0, 0, Small, Player2, 100)
	cases := []struct {
		name        string
		target      Planet
		reinforcing bool
		want        float64
	}{
		{"neutral", testPlanet("t", 0, 0, Small, Neutral, 1), false, neutralTargetWeight},
		{"enemy", testPlanet("t", 0, 0, Small, Player1, 1), false, s.Aggressiveness * enemyTargetWeightScale},
		{"own weak reinforcing", testPlanet("t", 0, 0, Small, Player2, 10), true, weakOwnTargetWeight},
		{"own strong reinforcing", testPlanet("t", 0, 0, Small, Player2, 80), true, ownTargetWeight},
		{"own not reinforcing", testPlanet("t", 0, 0, Small, Player2, 10), false, ownTargetWeight},
	}
	for _, tc := range cases {
		if got := ownershipFactor(src, tc.target, Player2, tc.reinforcing, s); !approx(got, tc.want) {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestKeepOneShip(t *testing.T) {
	if got := keepOneShip(1, 2); !approx(got, 0.5) {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := keepOneShip(0.3, 100); !approx(got, 0.3) {
		t.Fatalf("expected pct unchanged, got %v", got)
	}
	if got := keepOneShip(0.9, 0); got != 0 {
		t.Fatalf("empty planet should send nothing, got %v", got)
	}
}

func TestFindBestAttackMovePrefersNeutral(t *testing.T) {
	state := &GameState{Planets: []Planet{
		testPlanet("src", 0, 0, Medium, Player1, 100),
		testPlanet("enemy", 100, 0, Medium, Player2, 10),
		testPlanet("neutral", 0, 100, Medium, Neutral, 10),
	}}
	move, ok := FindBestAttackMove(state, Player1)
	if !ok || move.TargetPlanetID != "neutral" {
		t.Fatalf("expected neutral target, got %+v ok=%v", move, ok)
	}
	if !approx(move.Percentage, valueMinSend) {
		t.Fatalf("expected %v, got %v", valueMinSend, move.Percentage)
	}
}

func TestFindBestAttackMoveSkipsThinSources(t *testing.T) {
	state := &GameState{Planets: []Planet{
		testPlanet("src", 0, 0, Medium, Player1, 4),
		testPlanet("n", 100, 0, Medium, Neutral, 1),
	}}
	if _, ok := FindBestAttackMove(state, Player1); ok {
		t.Fatalf("sources under five ships should be skipped")
	}
}

func TestAttackValueOwnPlanetNeedsThreat(t *testing.T) {
	src := testPlanet("src", 0, 0, Medium, Player1, 100)
	own := testPlanet("own", 100, 0, Medium, Player1, 10)
	if v := attackValue(src, own, nil); v != 0 {
		t.Fatalf("unthreatened own planet valued %v", v)
	}
	threat := []Fleet{{Owner: Player2, ShipCount: 40, TargetPlanetID: "own"}}
	if v := attackValue(src, own, threat); v <= 0 {
		t.Fatalf("threatened own planet should be worth reinforcing")
	}
	committed := []Fleet{{Owner: Player1, ShipCount: 5, TargetPlanetID: "n"}}
	n := testPlanet("n", 100, 0, Medium, Neutral, 20)
	if attackValue(src, n, committed) >= attackValue(src, n, nil) {
		t.Fatalf("already committed target should be discounted")
	}
}

func TestEngineAIDispatchesFleets(t *testing.T) {
	cfg := Config{Player1AI: true, Player2AI: true, AIOpponents: 1, Difficulty: DifficultyHard, Width: 1200, Height: 900}
	e := NewEngine(cfg, DefaultParams(), seeded(4))
	for i := 0; i < 8; i++ {
		e.Tick(0.25)
	}
	if len(e.Snapshot().Fleets) == 0 {
		t.Fatalf("AI players launched no fleets after a decision interval")
	}
}

func TestBehaviorFor(t *testing.T) {
	if _, ok := BehaviorFor("value").(ValueBehavior); !ok {
		t.Fatalf("value strategy not mapped")
	}
	if _, ok := BehaviorFor("whatever").(DifficultyBehavior); !ok {
		t.Fatalf("unknown strategy should fall back to difficulty behavior")
	}
}
