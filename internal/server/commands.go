package server

import (
	"encoding/json"
	"errors"
	"fmt"

	. "StarConquest/internal/game"
)

var (
	errSpectator      = errors.New("spectators cannot issue commands")
	errUnknownCommand = errors.New("unknown command")
)

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// handleCommand applies one client command to e. It reports whether the
// engine accepted it; an error means the frame itself was unusable.
func handleCommand(e *Engine, seated bool, msg inboundMessage) (bool, error) {
	if !seated {
		return false, errSpectator
	}
	switch msg.Type {
	case "select":
		var p selectPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return false, err
		}
		return e.Select(p.PlanetID), nil
	case "deselect":
		e.Deselect()
		return true, nil
	case "send_fleet":
		var p sendFleetPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return false, err
		}
		return e.SendFleet(p.TargetID, p.Percentage, p.SourceID), nil
	case "upgrade":
		return e.UpgradePlanetLevel(), nil
	case "redo":
		return e.RedoLastAction(), nil
	case "start":
		return e.Start(), nil
	case "pause":
		e.Pause()
		return true, nil
	case "reset":
		e.Reset()
		return true, nil
	case "speed":
		var p speedPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return false, err
		}
		return e.SetSpeed(p.Speed), nil
	case "difficulty":
		var p difficultyPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return false, err
		}
		d, ok := ParseDifficulty(p.Difficulty)
		if !ok {
			return false, fmt.Errorf("unknown difficulty %q", p.Difficulty)
		}
		return e.SetDifficulty(d), nil
	}
	return false, fmt.Errorf("%w: %q", errUnknownCommand, msg.Type)
}
