package main

import (
	"flag"
	"math"

	"StarConquest/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	worldConfigPath := flag.String("world-config", "configs/world.json", "path to match/sim tuning JSON")
	width := flag.Float64("width", math.NaN(), "override play area width")
	height := flag.Float64("height", math.NaN(), "override play area height")
	aiOpponents := flag.Int("ai", -1, "override number of AI opponents (1 or 2)")
	p1AI := flag.Bool("p1-ai", false, "let the AI play for Player1")
	difficulty := flag.String("difficulty", "", "override AI difficulty (easy, medium, hard)")
	strategy := flag.String("strategy", "", "override AI strategy (difficulty, value)")
	fleetSpeed := flag.Float64("fleet-speed", math.NaN(), "override ship speed in units per second")
	prodInterval := flag.Float64("production-interval", math.NaN(), "override seconds between production ticks")
	aiInterval := flag.Float64("ai-interval", math.NaN(), "override seconds between AI decisions")
	tickHz := flag.Float64("tick-hz", math.NaN(), "override simulation ticks per second")
	flag.Parse()

	cfg := server.DefaultAppConfig()
	cfg.WorldConfigPath = *worldConfigPath

	var match server.MatchOverrides
	if !math.IsNaN(*width) {
		val := *width
		match.Width = &val
	}
	if !math.IsNaN(*height) {
		val := *height
		match.Height = &val
	}
	if *aiOpponents >= 0 {
		val := *aiOpponents
		match.AIOpponents = &val
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "p1-ai" {
			val := *p1AI
			match.Player1AI = &val
		}
	})
	if *difficulty != "" {
		val := *difficulty
		match.Difficulty = &val
	}
	if *strategy != "" {
		val := *strategy
		match.Strategy = &val
	}

	var params server.ParamOverrides
	if !math.IsNaN(*fleetSpeed) {
		val := *fleetSpeed
		params.FleetSpeed = &val
	}
	if !math.IsNaN(*prodInterval) {
		val := *prodInterval
		params.ProductionInterval = &val
	}
	if !math.IsNaN(*aiInterval) {
		val := *aiInterval
		params.AIDecisionInterval = &val
	}
	if !math.IsNaN(*tickHz) {
		val := *tickHz
		params.TickHz = &val
	}

	cfg.MatchOverrides = match
	cfg.ParamOverrides = params

	server.StartApp(*addr, cfg)
}
