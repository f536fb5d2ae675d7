package game

const (
	MaxGarrison       = 4000
	MaxVisibleShips   = 20
	FleetSpeed        = 112.5 // units/s
	FormationSpread   = 20.0  // ship jitter around the source planet
	ShipSnapEpsilon   = 2.0
	HeadingSmoothing  = 0.1
	MinPlanets        = 16
	MaxPlanets        = 30
	PlanetSpacing     = 100.0 // clearance between planet rims during layout
	MinPlaneDimension = 200.0
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	HomeGarrison      = 30

	ProductionInterval = 1.0 // seconds of simulated time
	AIDecisionInterval = 1.5 // seconds of simulated time
	TickHz             = 60.0
	MaxFrameDelta      = 0.25 // seconds; longer host stalls are truncated
	HistoryKeepS       = 300.0
	UpdateRateHz       = 10.0 // per-client state pushes
)

// layout budgets
const (
	placementAttempts = 50
	quadrantAttempts  = 15
	fillAttempts      = 150
	edgePadding       = 80.0
	neutralGarrisonLo = 5
	neutralGarrisonN  = 10
)
