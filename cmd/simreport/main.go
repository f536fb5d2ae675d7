package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sort"

	"StarConquest/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	winner   game.Faction
	finished bool
	seconds  float64

	launches  int
	arrivals  int
	captures  map[game.Faction]int
	reinforce int
	firstCapS float64
	standings []game.Standing
}

func main() {
	var runs int
	var maxSeconds float64
	var seedBase int64
	var seedStep int64
	var opponents int
	var difficulty string
	var strategy string
	var verbose bool

	flag.IntVar(&runs, "runs", 10, "number of headless matches")
	flag.Float64Var(&maxSeconds, "max-seconds", 900, "simulated seconds before a match is called a draw")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opponents, "ai", 1, "AI opponents besides Player1 (1 or 2)")
	flag.StringVar(&difficulty, "difficulty", "medium", "AI difficulty (easy, medium, hard)")
	flag.StringVar(&strategy, "strategy", game.StrategyDifficulty, "AI strategy (difficulty, value)")
	flag.BoolVar(&verbose, "v", false, "keep engine logging")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxSeconds <= 0 {
		fmt.Println("error: -max-seconds must be > 0")
		return
	}
	diff, ok := game.ParseDifficulty(difficulty)
	if !ok {
		fmt.Printf("error: unknown difficulty %q (supported: easy, medium, hard)\n", difficulty)
		return
	}
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg := game.DefaultConfig()
	cfg.Player1AI = true
	cfg.Player2AI = true
	cfg.AIOpponents = opponents
	cfg.Difficulty = diff
	cfg.Strategy = strategy
	cfg = game.SanitizeConfig(cfg)

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("runs=%d max_seconds=%.0f ai=%d difficulty=%s strategy=%s seed_base=%d seed_step=%d\n\n",
		runs, maxSeconds, cfg.AIOpponents, cfg.Difficulty, cfg.Strategy, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runMatch(i+1, seed, cfg, maxSeconds)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runMatch(runIndex int, seed int64, cfg game.Config, maxSeconds float64) runStats {
	params := game.DefaultParams()
	e := game.NewEngine(cfg, params, rand.New(rand.NewSource(seed)))
	dt := 1 / params.TickHz

	stats := runStats{
		runIndex:  runIndex,
		seed:      seed,
		captures:  map[game.Faction]int{},
		firstCapS: -1,
	}
	seen := map[string]struct{}{}
	for e.Now() < maxSeconds {
		outcomes := e.Tick(dt)
		for _, f := range e.Snapshot().Fleets {
			if _, ok := seen[f.ID]; !ok {
				seen[f.ID] = struct{}{}
				stats.launches++
			}
		}
		for _, o := range outcomes {
			stats.arrivals++
			switch {
			case o.Reinforced:
				stats.reinforce++
			case o.Captured:
				stats.captures[o.Attacker]++
				if stats.firstCapS < 0 {
					stats.firstCapS = e.Now()
				}
			}
		}
		if s := e.Snapshot(); s.GameOver {
			stats.finished = true
			stats.winner = s.Winner
			break
		}
	}
	stats.seconds = e.Now()
	stats.standings = e.Standings()
	return stats
}

func printRun(s runStats) {
	result := "draw (time limit)"
	if s.finished {
		result = "winner=" + s.winner.String()
		if s.winner == game.Neutral {
			result = "draw"
		}
	}
	fmt.Printf("--- run %d seed=%d ---\n", s.runIndex, s.seed)
	fmt.Printf("  %s after %.1fs\n", result, s.seconds)
	fmt.Printf("  fleets launched=%d arrivals=%d reinforcements=%d", s.launches, s.arrivals, s.reinforce)
	if s.firstCapS >= 0 {
		fmt.Printf(" first_capture=%.1fs", s.firstCapS)
	}
	fmt.Println()
	for _, st := range s.standings {
		fmt.Printf("  %-8s planets=%-3d garrison=%-5d in_flight=%-4d strength=%-7.1f captures=%d\n",
			st.Faction, st.Planets, st.Garrison, st.InFlight, st.Strength, s.captures[st.Faction])
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	wins := map[game.Faction]int{}
	draws := 0
	var totalSeconds float64
	finished := 0
	for _, s := range all {
		if !s.finished || s.winner == game.Neutral {
			draws++
			continue
		}
		wins[s.winner]++
		totalSeconds += s.seconds
		finished++
	}

	factions := make([]game.Faction, 0, len(wins))
	for f := range wins {
		factions = append(factions, f)
	}
	sort.Slice(factions, func(i, j int) bool {
		if wins[factions[i]] != wins[factions[j]] {
			return wins[factions[i]] > wins[factions[j]]
		}
		return factions[i] < factions[j]
	})

	fmt.Printf("=== Aggregate ===\n")
	for _, f := range factions {
		fmt.Printf("  %-8s wins=%d (%.0f%%)\n", f, wins[f], 100*float64(wins[f])/float64(len(all)))
	}
	fmt.Printf("  draws=%d\n", draws)
	if finished > 0 {
		fmt.Printf("  mean decisive match length=%.1fs\n", totalSeconds/float64(finished))
	}
}
