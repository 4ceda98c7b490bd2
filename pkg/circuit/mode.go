package circuit

// Mode is the editor's interaction state. Exactly one mode is active at a
// time, so a selected component, a pending placement and a wire in progress
// exclude each other.
type Mode interface {
	isMode()
	String() string
}

// Idle means nothing is selected or in progress.
type Idle struct{}

// ComponentSelected means a component is selected. The id is not validated.
type ComponentSelected struct {
	ID string
}

// PlacementPending means the next background click places a component.
type PlacementPending struct {
	Type string
}

// Wiring means a wire was started at FirstPin and awaits its second pin.
type Wiring struct {
	FirstPin string
}

func (Idle) isMode()              {}
func (ComponentSelected) isMode() {}
func (PlacementPending) isMode()  {}
func (Wiring) isMode()            {}

func (Idle) String() string                { return "idle" }
func (m ComponentSelected) String() string { return "selected " + m.ID }
func (m PlacementPending) String() string  { return "placing " + m.Type }
func (m Wiring) String() string            { return "wiring from " + m.FirstPin }
