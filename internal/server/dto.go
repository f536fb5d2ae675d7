package server

import (
	"encoding/json"

	. "StarConquest/internal/game"
)

type planetDTO struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Size           string  `json:"size"`
	Level          int     `json:"level"`
	Owner          string  `json:"owner"`
	Garrison       int     `json:"garrison"`
	ProductionRate float64 `json:"production_rate"`
	Radius         float64 `json:"radius"`
}

type shipDTO struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

type fleetDTO struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	ShipCount int       `json:"ship_count"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	DX        float64   `json:"dx"`
	DY        float64   `json:"dy"`
	Ships     []shipDTO `json:"ships"`
}

type playerDTO struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty,omitempty"`
}

type actionDTO struct {
	Type       string  `json:"type"`
	Source     string  `json:"source,omitempty"`
	Target     string  `json:"target,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Planet     string  `json:"planet,omitempty"`
}

type standingDTO struct {
	Faction  string  `json:"faction"`
	Type     string  `json:"type"`
	Planets  int     `json:"planets"`
	Garrison int     `json:"garrison"`
	InFlight int     `json:"in_flight"`
	Strength float64 `json:"strength"`
}

type sampleDTO struct {
	T     float64 `json:"t"`
	Value float64 `json:"value"`
}

// strengthDTO answers a strength query: the value at one time when T is
// set, the retained samples otherwise.
type strengthDTO struct {
	Faction string      `json:"faction"`
	T       *float64    `json:"t,omitempty"`
	Value   *float64    `json:"value,omitempty"`
	Samples []sampleDTO `json:"samples,omitempty"`
}

type stateDTO struct {
	Room       string        `json:"room"`
	T          float64       `json:"t"`
	Running    bool          `json:"running"`
	Speed      float64       `json:"speed"`
	Planets    []planetDTO   `json:"planets"`
	Fleets     []fleetDTO    `json:"fleets"`
	Players    []playerDTO   `json:"players"`
	Selected   string        `json:"selected,omitempty"`
	GameOver   bool          `json:"game_over"`
	Winner     string        `json:"winner,omitempty"`
	LastAction *actionDTO    `json:"last_action,omitempty"`
	Standings  []standingDTO `json:"standings"`
}

type roomSummaryDTO struct {
	ID       string  `json:"id"`
	Clients  int     `json:"clients"`
	Running  bool    `json:"running"`
	GameOver bool    `json:"game_over"`
	Winner   string  `json:"winner,omitempty"`
	T        float64 `json:"t"`
}

type helloDTO struct {
	Conn   string `json:"conn"`
	Room   string `json:"room"`
	Seat   bool   `json:"seat"`
	Format string `json:"format"`
}

type ackDTO struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// outboundMessage is the envelope for every JSON frame sent to a client.
type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// inboundMessage is the envelope for every command frame from a client.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	PlanetID string `json:"planet_id"`
}

type sendFleetPayload struct {
	TargetID   string  `json:"target_id"`
	Percentage float64 `json:"percentage"`
	SourceID   string  `json:"source_id"`
}

type speedPayload struct {
	Speed float64 `json:"speed"`
}

type difficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

func winnerName(over bool, w Faction) string {
	if !over || w == Neutral {
		return ""
	}
	return w.String()
}

func actionToDTO(a Action) *actionDTO {
	switch act := a.(type) {
	case SendFleetAction:
		return &actionDTO{Type: act.Kind(), Source: act.SourceID, Target: act.TargetID, Percentage: act.Percentage}
	case UpgradeAction:
		return &actionDTO{Type: act.Kind(), Planet: act.PlanetID}
	}
	return nil
}

func standingsToDTO(in []Standing) []standingDTO {
	out := make([]standingDTO, 0, len(in))
	for _, s := range in {
		out = append(out, standingDTO{
			Faction:  s.Faction.String(),
			Type:     s.Type.String(),
			Planets:  s.Planets,
			Garrison: s.Garrison,
			InFlight: s.InFlight,
			Strength: s.Strength,
		})
	}
	return out
}

func buildStateDTO(roomID string, v View) stateDTO {
	s := v.State
	dto := stateDTO{
		Room:       roomID,
		T:          v.Now,
		Running:    v.Running,
		Speed:      v.Speed,
		Planets:    make([]planetDTO, 0, len(s.Planets)),
		Fleets:     make([]fleetDTO, 0, len(s.Fleets)),
		Players:    make([]playerDTO, 0, len(s.Players)),
		Selected:   s.SelectedPlanet,
		GameOver:   s.GameOver,
		Winner:     winnerName(s.GameOver, s.Winner),
		LastAction: actionToDTO(v.LastAction),
		Standings:  standingsToDTO(v.Standings),
	}
	for _, p := range s.Planets {
		dto.Planets = append(dto.Planets, planetDTO{
			ID:             p.ID,
			X:              p.Pos.X,
			Y:              p.Pos.Y,
			Size:           p.Size.String(),
			Level:          int(p.Level),
			Owner:          p.Owner.String(),
			Garrison:       p.Garrison,
			ProductionRate: p.ProductionRate,
			Radius:         p.Radius,
		})
	}
	for _, f := range s.Fleets {
		ships := make([]shipDTO, 0, len(f.Ships))
		for _, sh := range f.Ships {
			ships = append(ships, shipDTO{X: sh.Pos.X, Y: sh.Pos.Y, Angle: sh.Angle})
		}
		dto.Fleets = append(dto.Fleets, fleetDTO{
			ID:        f.ID,
			Owner:     f.Owner.String(),
			ShipCount: f.ShipCount,
			Source:    f.SourcePlanetID,
			Target:    f.TargetPlanetID,
			X:         f.Position.X,
			Y:         f.Position.Y,
			DX:        f.Direction.X,
			DY:        f.Direction.Y,
			Ships:     ships,
		})
	}
	for _, p := range s.Players {
		pd := playerDTO{ID: p.ID.String(), Type: p.Type.String()}
		if p.Type == AI {
			pd.Difficulty = p.Difficulty.String()
		}
		dto.Players = append(dto.Players, pd)
	}
	return dto
}

func summarizeRoom(r *Room) roomSummaryDTO {
	v := r.Engine.View()
	return roomSummaryDTO{
		ID:       r.ID,
		Clients:  r.Clients(),
		Running:  v.Running,
		GameOver: v.State.GameOver,
		Winner:   winnerName(v.State.GameOver, v.State.Winner),
		T:        v.Now,
	}
}

func samplesToDTO(in []Sample) []sampleDTO {
	out := make([]sampleDTO, 0, len(in))
	for _, s := range in {
		out = append(out, sampleDTO{T: s.T, Value: s.Value})
	}
	return out
}
