package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	. "StarConquest/internal/game"
)

// ServerParams tune the transport around the engines.
type ServerParams struct {
	UpdateRateHz    float64
	CommandRate     float64 // inbound commands per second per connection
	CommandBurst    int
	CleanupInterval time.Duration
}

func DefaultServerParams() ServerParams {
	return ServerParams{
		UpdateRateHz:    UpdateRateHz,
		CommandRate:     20,
		CommandBurst:    40,
		CleanupInterval: 60 * time.Second,
	}
}

func SanitizeServerParams(p ServerParams) ServerParams {
	d := DefaultServerParams()
	if math.IsNaN(p.UpdateRateHz) || math.IsInf(p.UpdateRateHz, 0) || p.UpdateRateHz <= 0 {
		p.UpdateRateHz = d.UpdateRateHz
	}
	if math.IsNaN(p.CommandRate) || p.CommandRate <= 0 {
		p.CommandRate = d.CommandRate
	}
	if p.CommandBurst <= 0 {
		p.CommandBurst = d.CommandBurst
	}
	if p.CleanupInterval <= 0 {
		p.CleanupInterval = d.CleanupInterval
	}
	return p
}

type matchConfig struct {
	Width       *float64 `json:"width"`
	Height      *float64 `json:"height"`
	Player1AI   *bool    `json:"player1AI"`
	Player2AI   *bool    `json:"player2AI"`
	AIOpponents *int     `json:"aiOpponents"`
	Difficulty  *string  `json:"difficulty"`
	Strategy    *string  `json:"strategy"`
}

type simConfig struct {
	FleetSpeed         *float64 `json:"fleetSpeed"`
	ProductionInterval *float64 `json:"productionInterval"`
	AIDecisionInterval *float64 `json:"aiDecisionInterval"`
	TickHz             *float64 `json:"tickHz"`
	MaxFrameDelta      *float64 `json:"maxFrameDelta"`
	MinPlanets         *int     `json:"minPlanets"`
	MaxPlanets         *int     `json:"maxPlanets"`
}

type serverConfig struct {
	UpdateRateHz   *float64 `json:"updateRateHz"`
	CommandRate    *float64 `json:"commandRate"`
	CommandBurst   *int     `json:"commandBurst"`
	CleanupSeconds *float64 `json:"cleanupSeconds"`
}

type worldConfig struct {
	Match  *matchConfig  `json:"match"`
	Sim    *simConfig    `json:"sim"`
	Server *serverConfig `json:"server"`
}

// MatchOverrides are optional command-line overrides for the default match.
type MatchOverrides struct {
	Width       *float64
	Height      *float64
	Player1AI   *bool
	Player2AI   *bool
	AIOpponents *int
	Difficulty  *string
	Strategy    *string
}

// ParamOverrides are optional command-line overrides for the simulation tunables.
type ParamOverrides struct {
	FleetSpeed         *float64
	ProductionInterval *float64
	AIDecisionInterval *float64
	TickHz             *float64
	MinPlanets         *int
	MaxPlanets         *int
}

func applyDifficulty(base Config, name string) Config {
	if d, ok := ParseDifficulty(name); ok {
		base.Difficulty = d
	} else {
		log.Printf("config: unknown difficulty %q, keeping %s", name, base.Difficulty)
	}
	return base
}

func (o MatchOverrides) apply(base Config) Config {
	if o.Width != nil {
		base.Width = *o.Width
	}
	if o.Height != nil {
		base.Height = *o.Height
	}
	if o.Player1AI != nil {
		base.Player1AI = *o.Player1AI
	}
	if o.Player2AI != nil {
		base.Player2AI = *o.Player2AI
	}
	if o.AIOpponents != nil {
		base.AIOpponents = *o.AIOpponents
	}
	if o.Difficulty != nil {
		base = applyDifficulty(base, *o.Difficulty)
	}
	if o.Strategy != nil {
		base.Strategy = *o.Strategy
	}
	return SanitizeConfig(base)
}

func (o ParamOverrides) apply(base Params) Params {
	if o.FleetSpeed != nil {
		base.FleetSpeed = *o.FleetSpeed
	}
	if o.ProductionInterval != nil {
		base.ProductionInterval = *o.ProductionInterval
	}
	if o.AIDecisionInterval != nil {
		base.AIDecisionInterval = *o.AIDecisionInterval
	}
	if o.TickHz != nil {
		base.TickHz = *o.TickHz
	}
	if o.MinPlanets != nil {
		base.MinPlanets = *o.MinPlanets
	}
	if o.MaxPlanets != nil {
		base.MaxPlanets = *o.MaxPlanets
	}
	return SanitizeParams(base)
}

func mergeMatchConfig(base Config, cfg *matchConfig) Config {
	if cfg == nil {
		return SanitizeConfig(base)
	}
	return MatchOverrides{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Player1AI:   cfg.Player1AI,
		Player2AI:   cfg.Player2AI,
		AIOpponents: cfg.AIOpponents,
		Difficulty:  cfg.Difficulty,
		Strategy:    cfg.Strategy,
	}.apply(base)
}

func mergeSimConfig(base Params, cfg *simConfig) Params {
	if cfg == nil {
		return SanitizeParams(base)
	}
	if cfg.MaxFrameDelta != nil {
		base.MaxFrameDelta = *cfg.MaxFrameDelta
	}
	return ParamOverrides{
		FleetSpeed:         cfg.FleetSpeed,
		ProductionInterval: cfg.ProductionInterval,
		AIDecisionInterval: cfg.AIDecisionInterval,
		TickHz:             cfg.TickHz,
		MinPlanets:         cfg.MinPlanets,
		MaxPlanets:         cfg.MaxPlanets,
	}.apply(base)
}

func mergeServerConfig(base ServerParams, cfg *serverConfig) ServerParams {
	if cfg == nil {
		return SanitizeServerParams(base)
	}
	if cfg.UpdateRateHz != nil {
		base.UpdateRateHz = *cfg.UpdateRateHz
	}
	if cfg.CommandRate != nil {
		base.CommandRate = *cfg.CommandRate
	}
	if cfg.CommandBurst != nil {
		base.CommandBurst = *cfg.CommandBurst
	}
	if cfg.CleanupSeconds != nil {
		base.CleanupInterval = time.Duration(*cfg.CleanupSeconds * float64(time.Second))
	}
	return SanitizeServerParams(base)
}

// Settings is everything resolved from the world file.
type Settings struct {
	Match  Config
	Params Params
	Server ServerParams
}

func DefaultSettings() Settings {
	return Settings{
		Match:  DefaultConfig(),
		Params: DefaultParams(),
		Server: DefaultServerParams(),
	}
}

// loadSettingsFromFile merges the world file over base. A missing file is not
// an error.
func loadSettingsFromFile(path string, base Settings) (Settings, error) {
	if path == "" {
		return base, nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("read world config %q: %w", cleanPath, err)
	}
	var cfg worldConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse world config %q: %w", cleanPath, err)
	}
	return Settings{
		Match:  mergeMatchConfig(base.Match, cfg.Match),
		Params: mergeSimConfig(base.Params, cfg.Sim),
		Server: mergeServerConfig(base.Server, cfg.Server),
	}, nil
}

func parseFloatParam(values url.Values, key string) (float64, bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseBoolParam(values url.Values, key string) (bool, bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// parseMatchQuery reads the match set up a client asks for when it opens a
// room: w, h, p1ai, p2ai, ai (opponent count), difficulty and strategy.
func parseMatchQuery(values url.Values) (MatchOverrides, bool) {
	var o MatchOverrides
	found := false
	if v, ok := parseFloatParam(values, "w"); ok {
		o.Width = &v
		found = true
	}
	if v, ok := parseFloatParam(values, "h"); ok {
		o.Height = &v
		found = true
	}
	if v, ok := parseBoolParam(values, "p1ai"); ok {
		o.Player1AI = &v
		found = true
	}
	if v, ok := parseBoolParam(values, "p2ai"); ok {
		o.Player2AI = &v
		found = true
	}
	if raw := strings.TrimSpace(values.Get("ai")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			o.AIOpponents = &n
			if o.Player2AI == nil {
				p2 := n > 0
				o.Player2AI = &p2
			}
			found = true
		}
	}
	if raw := strings.TrimSpace(values.Get("difficulty")); raw != "" {
		o.Difficulty = &raw
		found = true
	}
	if raw := strings.TrimSpace(values.Get("strategy")); raw != "" {
		o.Strategy = &raw
		found = true
	}
	return o, found
}
