package game

import (
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Config is the match set up at initialization.
type Config struct {
	Width       float64
	Height      float64
	Player1AI   bool
	Player2AI   bool
	AIOpponents int // 0, 1 or 2; two opponents add Player3
	Difficulty  Difficulty
	Strategy    string // StrategyDifficulty or StrategyValue
}

func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Player2AI:   true,
		AIOpponents: 1,
		Difficulty:  DifficultyMedium,
		Strategy:    StrategyDifficulty,
	}
}

// SanitizeConfig clamps a match config into something playable.
func SanitizeConfig(c Config) Config {
	c.Width, c.Height = SanitizeDimensions(c.Width, c.Height)
	c.AIOpponents = clampInt(c.AIOpponents, 0, 2)
	if c.Difficulty < DifficultyEasy || c.Difficulty > DifficultyHard {
		c.Difficulty = DifficultyMedium
	}
	switch strings.ToLower(strings.TrimSpace(c.Strategy)) {
	case StrategyValue:
		c.Strategy = StrategyValue
	default:
		c.Strategy = StrategyDifficulty
	}
	return c
}

// Params are the simulation tunables.
type Params struct {
	FleetSpeed         float64
	ProductionInterval float64
	AIDecisionInterval float64
	TickHz             float64
	MaxFrameDelta      float64
	MinPlanets         int
	MaxPlanets         int
}

func DefaultParams() Params {
	return Params{
		FleetSpeed:         FleetSpeed,
		ProductionInterval: ProductionInterval,
		AIDecisionInterval: AIDecisionInterval,
		TickHz:             TickHz,
		MaxFrameDelta:      MaxFrameDelta,
		MinPlanets:         MinPlanets,
		MaxPlanets:         MaxPlanets,
	}
}

func positiveOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}

// SanitizeParams replaces unusable values with the defaults.
func SanitizeParams(p Params) Params {
	d := DefaultParams()
	p.FleetSpeed = positiveOr(p.FleetSpeed, d.FleetSpeed)
	p.ProductionInterval = positiveOr(p.ProductionInterval, d.ProductionInterval)
	p.AIDecisionInterval = positiveOr(p.AIDecisionInterval, d.AIDecisionInterval)
	p.TickHz = positiveOr(p.TickHz, d.TickHz)
	p.MaxFrameDelta = positiveOr(p.MaxFrameDelta, d.MaxFrameDelta)
	if p.MinPlanets < 2 {
		p.MinPlanets = d.MinPlanets
	}
	if p.MaxPlanets < p.MinPlanets {
		p.MaxPlanets = max(d.MaxPlanets, p.MinPlanets)
	}
	return p
}

var speeds = [...]float64{0.5, 1, 2}

func validSpeed(s float64) bool {
	for _, v := range speeds {
		if s == v {
			return true
		}
	}
	return false
}

// Engine owns the authoritative GameState. Every method holds the engine lock
// for its whole read-modify-write, and ticks swap in a freshly built state.
type Engine struct {
	mu sync.Mutex

	cfg    Config
	params Params
	rng    Rand

	state      *GameState
	running    bool
	speed      float64
	prodTimer  float64
	aiTimer    float64
	lastAction Action
	agents     []*AIAgent
	strength   map[Faction]*History
	now        float64
	epoch      uint64
}

// NewEngine builds a running match. A nil rng seeds one from the clock.
func NewEngine(cfg Config, params Params, rng Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:    SanitizeConfig(cfg),
		params: SanitizeParams(params),
		rng:    rng,
		speed:  1,
	}
	e.initLocked()
	log.Printf("engine: match started %s", e.describeLocked())
	return e
}

func (e *Engine) describeLocked() string {
	var b strings.Builder
	for i, p := range e.state.Players {
		if i > 0 {
			b.WriteString(" vs ")
		}
		b.WriteString(p.ID.String())
		b.WriteString("(")
		b.WriteString(p.Type.String())
		if p.Type == AI {
			b.WriteString(":" + p.Difficulty.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *Engine) buildPlayers() []Player {
	typeOf := func(ai bool) PlayerType {
		if ai {
			return AI
		}
		return Human
	}
	players := []Player{
		{ID: Player1, Type: typeOf(e.cfg.Player1AI), Difficulty: e.cfg.Difficulty},
		{ID: Player2, Type: typeOf(e.cfg.Player2AI), Difficulty: e.cfg.Difficulty},
	}
	if e.cfg.AIOpponents > 1 {
		players = append(players, Player{ID: Player3, Type: AI, Difficulty: e.cfg.Difficulty})
	}
	return players
}

func (e *Engine) initLocked() {
	players := e.buildPlayers()
	planets, err := GenerateLayout(LayoutConfig{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		MinPlanets: e.params.MinPlanets,
		MaxPlanets: e.params.MaxPlanets,
		Factions:   len(players),
	}, e.rng)
	if err != nil {
		log.Printf("engine: layout failed: %v; using %.0fx%.0f", err, DefaultWidth, DefaultHeight)
		e.cfg.Width, e.cfg.Height = DefaultWidth, DefaultHeight
		planets, _ = GenerateLayout(LayoutConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			MinPlanets: e.params.MinPlanets,
			MaxPlanets: e.params.MaxPlanets,
			Factions:   len(players),
		}, e.rng)
	}

	e.state = &GameState{
		Planets:     planets,
		Players:     players,
		AIOpponents: e.cfg.AIOpponents,
	}
	e.agents = e.agents[:0]
	behavior := BehaviorFor(e.cfg.Strategy)
	for _, p := range players {
		if p.Type == AI {
			e.agents = append(e.agents, NewAIAgent(p.ID, behavior))
		}
	}
	e.running = true
	e.prodTimer = 0
	e.aiTimer = 0
	e.lastAction = nil
	e.now = 0
	e.epoch++
	e.strength = make(map[Faction]*History, len(players))
	for _, p := range players {
		e.strength[p.ID] = newHistory(HistoryKeepS, 1/e.params.ProductionInterval)
	}
	e.sampleStrengthLocked()
}

func (e *Engine) sampleStrengthLocked() {
	for f, h := range e.strength {
		h.push(Sample{T: e.now, Value: EvaluateStrength(e.state, f)})
	}
}

// Tick advances the match by wallDt seconds of host time scaled by the game
// speed. A single frame is truncated to Params.MaxFrameDelta. It returns the
// fleet arrivals resolved during the tick.
func (e *Engine) Tick(wallDt float64) []ArrivalOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.state == nil {
		return nil
	}
	if math.IsNaN(wallDt) || wallDt <= 0 {
		return nil
	}
	if e.state.GameOver {
		e.running = false
		return nil
	}
	dt := min(wallDt, e.params.MaxFrameDelta) * e.speed
	e.now += dt

	next := *e.state
	fleets := AdvanceFleets(next.Fleets, dt, e.params.FleetSpeed)
	fleets, planets, outcomes := ResolveArrivals(fleets, next.Planets)

	produced := false
	e.prodTimer += dt
	if e.prodTimer >= e.params.ProductionInterval {
		planets = ProducePlanets(planets)
		e.prodTimer = 0
		produced = true
	}
	next.Planets = planets
	next.Fleets = fleets

	gameOver, winner := CheckGameOver(planets)

	e.aiTimer += dt
	if e.aiTimer >= e.params.AIDecisionInterval {
		e.aiTimer = 0
		if !gameOver {
			e.runAILocked(&next)
		}
	}

	next.GameOver = gameOver
	next.Winner = winner
	e.state = &next

	if produced {
		e.sampleStrengthLocked()
	}
	if gameOver {
		e.running = false
		if winner == Neutral {
			log.Printf("engine: game over at t=%.1fs, draw", e.now)
		} else {
			log.Printf("engine: game over at t=%.1fs, %s wins", e.now, winner)
		}
	}
	return outcomes
}

// runAILocked lets every AI faction plan against next in turn and launches the
// resulting fleets into it.
func (e *Engine) runAILocked(next *GameState) {
	for _, agent := range e.agents {
		if agent == nil || agent.Behavior == nil {
			continue
		}
		player, ok := next.Player(agent.Faction)
		if !ok {
			continue
		}
		ctx := &AIContext{
			State:    next,
			Self:     agent.Faction,
			Settings: SettingsFor(player.Difficulty),
			Rand:     e.rng,
		}
		move, ok := agent.Behavior.Plan(ctx)
		if !ok {
			continue
		}
		next.Planets, next.Fleets, _ = move.apply(next.Planets, next.Fleets, agent.Faction, e.rng)
	}
}

// Start resumes the match and clears the production and AI accumulators. A
// finished match has to be Reset instead.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.GameOver {
		return false
	}
	e.running = true
	e.prodTimer = 0
	e.aiTimer = 0
	e.epoch++
	return true
}

func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.running
	e.running = false
	return was
}

// Reset discards the match and starts a fresh one with the same config.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initLocked()
	log.Printf("engine: match reset %s", e.describeLocked())
}

func (e *Engine) Select(planetID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectLocked(planetID)
}

func (e *Engine) selectLocked(planetID string) bool {
	if planetIndex(e.state.Planets, planetID) < 0 {
		return false
	}
	next := *e.state
	next.SelectedPlanet = planetID
	e.state = &next
	return true
}

func (e *Engine) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := *e.state
	next.SelectedPlanet = ""
	e.state = &next
}

// SendFleet launches pct of the source planet's garrison at targetID on
// behalf of the human faction. An empty sourceID uses the selected planet.
func (e *Engine) SendFleet(targetID string, pct float64, sourceID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendFleetLocked(targetID, pct, sourceID)
}

func (e *Engine) sendFleetLocked(targetID string, pct float64, sourceID string) bool {
	if e.state.GameOver {
		return false
	}
	if sourceID == "" {
		sourceID = e.state.SelectedPlanet
	}
	human, ok := e.state.HumanFaction()
	if !ok {
		return false
	}
	planets, fleets, ok := launchFleet(e.state.Planets, e.state.Fleets, sourceID, targetID, pct, human, e.rng)
	if !ok {
		return false
	}
	next := *e.state
	next.Planets = planets
	next.Fleets = fleets
	e.state = &next
	e.lastAction = SendFleetAction{SourceID: sourceID, TargetID: targetID, Percentage: pct}
	return true
}

// UpgradePlanetLevel upgrades the selected planet if the human faction owns
// it and can pay for it.
func (e *Engine) UpgradePlanetLevel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgradeLocked()
}

func (e *Engine) upgradeLocked() bool {
	if e.state.GameOver {
		return false
	}
	human, ok := e.state.HumanFaction()
	if !ok {
		return false
	}
	selected, ok := e.state.Planet(e.state.SelectedPlanet)
	if !ok || selected.Owner != human {
		return false
	}
	planets, upgraded := UpgradePlanet(selected.ID, e.state.Planets)
	if !upgraded {
		return false
	}
	next := *e.state
	next.Planets = planets
	e.state = &next
	e.lastAction = UpgradeAction{PlanetID: selected.ID}
	return true
}

// RedoLastAction replays the last human command against the current state.
func (e *Engine) RedoLastAction() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch a := e.lastAction.(type) {
	case SendFleetAction:
		return e.sendFleetLocked(a.TargetID, a.Percentage, a.SourceID)
	case UpgradeAction:
		if !e.selectLocked(a.PlanetID) {
			return false
		}
		return e.upgradeLocked()
	}
	return false
}

// SetSpeed changes the time multiplier used from the next tick on. Only 0.5,
// 1 and 2 are accepted.
func (e *Engine) SetSpeed(speed float64) bool {
	if !validSpeed(speed) {
		return false
	}
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
	return true
}

// SetDifficulty retunes every AI player in place.
func (e *Engine) SetDifficulty(d Difficulty) bool {
	if d < DifficultyEasy || d > DifficultyHard {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Difficulty = d
	next := *e.state
	next.Players = append([]Player(nil), e.state.Players...)
	for i := range next.Players {
		if next.Players[i].Type == AI {
			next.Players[i].Difficulty = d
		}
	}
	e.state = &next
	return true
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

func (e *Engine) LastAction() Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastAction
}

// Now is the simulated time since the match began.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// Epoch changes on every Start and Reset.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) Params() Params {
	return e.params
}

func (e *Engine) Standings() []Standing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Standings(e.state)
}

// StrengthAt interpolates a faction's strength at simulated time t.
func (e *Engine) StrengthAt(f Faction, t float64) (float64, bool) {
	e.mu.Lock()
	h := e.strength[f]
	e.mu.Unlock()
	if h == nil {
		return 0, false
	}
	return h.ValueAt(t)
}

// StrengthHistory returns the retained strength samples of f, oldest first.
func (e *Engine) StrengthHistory(f Faction) []Sample {
	e.mu.Lock()
	h := e.strength[f]
	e.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.Samples()
}

// View is one consistent read of everything a client is shown.
type View struct {
	State      *GameState
	Running    bool
	Speed      float64
	Now        float64
	LastAction Action
	Standings  []Standing
}

func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		State:      e.state.Clone(),
		Running:    e.running,
		Speed:      e.speed,
		Now:        e.now,
		LastAction: e.lastAction,
		Standings:  Standings(e.state),
	}
}
