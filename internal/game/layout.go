package game

import (
	"errors"
	"fmt"
	"log"
	"math"
)

var ErrDegeneratePlane = errors.New("plane too small for a layout")

type LayoutConfig struct {
	Width      float64
	Height     float64
	MinPlanets int
	MaxPlanets int
	Factions   int // 2 or 3
}

// unusableDimension reports a side length no layout can be built on.
func unusableDimension(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < MinPlaneDimension
}

// SanitizeDimensions replaces a degenerate plane with the default one.
func SanitizeDimensions(width, height float64) (float64, float64) {
	if unusableDimension(width) || unusableDimension(height) {
		log.Printf("layout: invalid plane %.0fx%.0f, using %.0fx%.0f", width, height, DefaultWidth, DefaultHeight)
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

type region struct {
	minX, maxX, minY, maxY float64
}

func overlaps(pos Vec2, radius float64, planets []Planet) bool {
	for _, p := range planets {
		if Dist(pos, p.Pos) < radius+p.Radius+PlanetSpacing {
			return true
		}
	}
	return false
}

// weightedSize favours medium planets: 30% small, 50% medium, 20% large.
func weightedSize(rng Rand) PlanetSize {
	roll := rng.Float64()
	switch {
	case roll < 0.3:
		return Small
	case roll < 0.8:
		return Medium
	}
	return Large
}

func neutralGarrison(rng Rand) int {
	return neutralGarrisonLo + rng.Intn(neutralGarrisonN)
}

func span(lo, hi float64) float64 {
	return max(0, hi-lo)
}

// placeInRegion tries to drop one neutral planet inside r.
func placeInRegion(r region, padding float64, planets []Planet, rng Rand) (Planet, bool) {
	for attempt := 0; attempt < quadrantAttempts; attempt++ {
		pos := Vec2{
			X: r.minX + padding + rng.Float64()*span(2*padding, r.maxX-r.minX),
			Y: r.minY + padding + rng.Float64()*span(2*padding, r.maxY-r.minY),
		}
		size := weightedSize(rng)
		if !overlaps(pos, size.Radius(), planets) {
			return NewPlanet(pos, size, Neutral, neutralGarrison(rng)), true
		}
	}
	return Planet{}, false
}

// placeAnywhere tries to drop one neutral planet of uniform random size
// anywhere on the plane.
func placeAnywhere(width, height float64, planets []Planet, rng Rand) (Planet, bool) {
	sizes := [...]PlanetSize{Small, Medium, Large}
	for attempt := 0; attempt < placementAttempts; attempt++ {
		pos := Vec2{
			X: edgePadding + rng.Float64()*span(2*edgePadding, width),
			Y: edgePadding + rng.Float64()*span(2*edgePadding, height),
		}
		size := sizes[rng.Intn(len(sizes))]
		if !overlaps(pos, size.Radius(), planets) {
			return NewPlanet(pos, size, Neutral, neutralGarrison(rng)), true
		}
	}
	return Planet{}, false
}

// makeHome hands planets[idx] to owner, promoting it to Large when the bigger
// radius still keeps clear of its neighbours.
func makeHome(planets []Planet, idx int, owner Faction, garrison int) {
	p := planets[idx]
	p.Owner = owner
	p.Garrison = garrison
	others := make([]Planet, 0, len(planets)-1)
	others = append(others, planets[:idx]...)
	others = append(others, planets[idx+1:]...)
	if !overlaps(p.Pos, Large.Radius(), others) {
		p.Size = Large
		p.Radius = Large.Radius()
		p.ProductionRate = ProductionRate(Large, p.Level)
	}
	planets[idx] = p
}

// GenerateLayout places planets on a width×height plane. Player1's home is the
// first planet. Individual placements that run out of attempts are dropped, so
// the result may hold fewer planets than MinPlanets on a crowded plane.
func GenerateLayout(cfg LayoutConfig, rng Rand) ([]Planet, error) {
	width, height := cfg.Width, cfg.Height
	if unusableDimension(width) || unusableDimension(height) {
		return nil, fmt.Errorf("%w: %.0fx%.0f", ErrDegeneratePlane, width, height)
	}
	minCount := max(cfg.MinPlanets, 2)
	maxCount := max(cfg.MaxPlanets, minCount)
	factions := clampInt(cfg.Factions, 2, 3)

	target := minCount + rng.Intn(maxCount-minCount+1)
	padding := max(Large.Radius()+10, width*0.05)

	planets := make([]Planet, 0, target)
	home := Vec2{
		X: padding + rng.Float64()*span(2*padding, width/3),
		Y: height/2 + rng.Float64()*span(2*padding, height/2),
	}
	planets = append(planets, NewPlanet(home, Large, Player1, HomeGarrison))

	neutralTarget := max(target-2, minCount-2)
	neutrals := 0

	quadrants := []region{
		{0, width / 2, 0, height / 2},
		{width / 2, width, 0, height / 2},
		{0, width / 2, height / 2, height}, // Player1's quadrant
		{width / 2, width, height / 2, height},
	}
	for qi, q := range quadrants {
		if qi == 2 {
			continue
		}
		if neutrals >= neutralTarget {
			break
		}
		perQuadrant := min(2+rng.Intn(2), neutralTarget-neutrals)
		for i := 0; i < perQuadrant; i++ {
			if p, ok := placeInRegion(q, padding, planets, rng); ok {
				planets = append(planets, p)
				neutrals++
			}
		}
	}

	for attempt := 0; neutrals < neutralTarget && attempt < fillAttempts; attempt++ {
		if p, ok := placeAnywhere(width, height, planets, rng); ok {
			planets = append(planets, p)
			neutrals++
		}
	}

	assignHomes(planets, factions)
	return planets, nil
}

// assignHomes gives Player2 the planet farthest from Player1 and Player3 the
// neutral planet farthest from both.
func assignHomes(planets []Planet, factions int) {
	if len(planets) < 2 {
		return
	}
	origin := planets[0]
	p2 := -1
	best := 0.0
	for i := 1; i < len(planets); i++ {
		if d := Dist(origin.Pos, planets[i].Pos); d > best {
			best = d
			p2 = i
		}
	}
	if p2 < 0 {
		return
	}
	makeHome(planets, p2, Player2, origin.Garrison)

	if factions < 3 || len(planets) < 3 {
		return
	}
	p3 := -1
	best = 0
	for i := 1; i < len(planets); i++ {
		if planets[i].Owner != Neutral {
			continue
		}
		sum := Dist(origin.Pos, planets[i].Pos) + Dist(planets[p2].Pos, planets[i].Pos)
		if sum > best {
			best = sum
			p3 = i
		}
	}
	if p3 >= 0 {
		makeHome(planets, p3, Player3, origin.Garrison)
	}
}
