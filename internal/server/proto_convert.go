package server

import (
	"google.golang.org/protobuf/types/known/structpb"
)

func str(s string) *structpb.Value  { return structpb.NewStringValue(s) }
func num(f float64) *structpb.Value { return structpb.NewNumberValue(f) }
func flag(b bool) *structpb.Value   { return structpb.NewBoolValue(b) }

func object(fields map[string]*structpb.Value) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func list(values []*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func planetToProto(p planetDTO) *structpb.Value {
	return object(map[string]*structpb.Value{
		"id":              str(p.ID),
		"x":               num(p.X),
		"y":               num(p.Y),
		"size":            str(p.Size),
		"level":           num(float64(p.Level)),
		"owner":           str(p.Owner),
		"garrison":        num(float64(p.Garrison)),
		"production_rate": num(p.ProductionRate),
		"radius":          num(p.Radius),
	})
}

func fleetToProto(f fleetDTO) *structpb.Value {
	ships := make([]*structpb.Value, len(f.Ships))
	for i, s := range f.Ships {
		ships[i] = object(map[string]*structpb.Value{
			"x":     num(s.X),
			"y":     num(s.Y),
			"angle": num(s.Angle),
		})
	}
	return object(map[string]*structpb.Value{
		"id":         str(f.ID),
		"owner":      str(f.Owner),
		"ship_count": num(float64(f.ShipCount)),
		"source":     str(f.Source),
		"target":     str(f.Target),
		"x":          num(f.X),
		"y":          num(f.Y),
		"dx":         num(f.DX),
		"dy":         num(f.DY),
		"ships":      list(ships),
	})
}

func playerToProto(p playerDTO) *structpb.Value {
	fields := map[string]*structpb.Value{
		"id":   str(p.ID),
		"type": str(p.Type),
	}
	if p.Difficulty != "" {
		fields["difficulty"] = str(p.Difficulty)
	}
	return object(fields)
}

func standingToProto(s standingDTO) *structpb.Value {
	return object(map[string]*structpb.Value{
		"faction":   str(s.Faction),
		"type":      str(s.Type),
		"planets":   num(float64(s.Planets)),
		"garrison":  num(float64(s.Garrison)),
		"in_flight": num(float64(s.InFlight)),
		"strength":  num(s.Strength),
	})
}

// stateToProto mirrors the JSON state frame field for field.
func stateToProto(s stateDTO) *structpb.Struct {
	planets := make([]*structpb.Value, len(s.Planets))
	for i, p := range s.Planets {
		planets[i] = planetToProto(p)
	}
	fleets := make([]*structpb.Value, len(s.Fleets))
	for i, f := range s.Fleets {
		fleets[i] = fleetToProto(f)
	}
	players := make([]*structpb.Value, len(s.Players))
	for i, p := range s.Players {
		players[i] = playerToProto(p)
	}
	standings := make([]*structpb.Value, len(s.Standings))
	for i, st := range s.Standings {
		standings[i] = standingToProto(st)
	}

	fields := map[string]*structpb.Value{
		"room":      str(s.Room),
		"t":         num(s.T),
		"running":   flag(s.Running),
		"speed":     num(s.Speed),
		"planets":   list(planets),
		"fleets":    list(fleets),
		"players":   list(players),
		"game_over": flag(s.GameOver),
		"standings": list(standings),
	}
	if s.Selected != "" {
		fields["selected"] = str(s.Selected)
	}
	if s.Winner != "" {
		fields["winner"] = str(s.Winner)
	}
	if a := s.LastAction; a != nil {
		action := map[string]*structpb.Value{"type": str(a.Type)}
		if a.Source != "" {
			action["source"] = str(a.Source)
		}
		if a.Target != "" {
			action["target"] = str(a.Target)
		}
		if a.Percentage != 0 {
			action["percentage"] = num(a.Percentage)
		}
		if a.Planet != "" {
			action["planet"] = str(a.Planet)
		}
		fields["last_action"] = object(action)
	}
	return &structpb.Struct{Fields: fields}
}
