package game

// Action is a replayable human command. The concrete types are
// SendFleetAction and UpgradeAction.
type Action interface {
	Kind() string
	isAction()
}

type SendFleetAction struct {
	SourceID   string
	TargetID   string
	Percentage float64
}

type UpgradeAction struct {
	PlanetID string
}

func (SendFleetAction) Kind() string { return "send_fleet" }
func (UpgradeAction) Kind() string   { return "upgrade" }

func (SendFleetAction) isAction() {}
func (UpgradeAction) isAction()   {}
