package circuit

import "github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"

// Editor owns the current circuit snapshot and the interaction mode. Every
// operation replaces the snapshot wholesale or leaves it untouched.
//
// Editor is not safe for concurrent use; the controller serialises access.
type Editor struct {
	circuit Circuit
	mode    Mode
}

// NewEditor starts an editor on the given circuit in Idle mode.
func NewEditor(c Circuit) *Editor {
	if c.View.Scale == 0 {
		c.View.Scale = 1
	}
	c.View = c.View.Clamped()
	return &Editor{circuit: c, mode: Idle{}}
}

// Circuit returns the current snapshot.
func (e *Editor) Circuit() Circuit {
	return e.circuit
}

// Mode returns the current interaction mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Load replaces the whole circuit and resets the interaction mode.
func (e *Editor) Load(c Circuit) {
	*e = *NewEditor(c)
}

// SelectedID returns the selected component id, if any.
func (e *Editor) SelectedID() (string, bool) {
	m, ok := e.mode.(ComponentSelected)
	return m.ID, ok
}

// PendingType returns the component type waiting to be placed, if any.
func (e *Editor) PendingType() (string, bool) {
	m, ok := e.mode.(PlacementPending)
	return m.Type, ok
}

// WiringFrom returns the first pin of the wire in progress, if any.
func (e *Editor) WiringFrom() (string, bool) {
	m, ok := e.mode.(Wiring)
	return m.FirstPin, ok
}

// IsWiring reports whether a wire is in progress.
func (e *Editor) IsWiring() bool {
	_, ok := e.mode.(Wiring)
	return ok
}

// AddComponent places a component of the given type. Unknown types leave the
// circuit unchanged and return ErrUnknownType.
func (e *Editor) AddComponent(typeTag string, x, y float64) (string, error) {
	next, id, err := e.circuit.AddComponent(typeTag, geom.Pt(x, y))
	if err != nil {
		return "", err
	}
	e.circuit = next
	return id, nil
}

// RemoveComponent deletes a component and its wires. Unknown ids are a no-op.
func (e *Editor) RemoveComponent(id string) {
	e.circuit = e.circuit.RemoveComponent(id)
	if sel, ok := e.SelectedID(); ok && sel == id {
		e.mode = Idle{}
	}
}

// MoveComponent changes a component's absolute position.
func (e *Editor) MoveComponent(id string, x, y float64) error {
	next, err := e.circuit.MoveComponent(id, geom.Pt(x, y))
	if err != nil {
		return err
	}
	e.circuit = next
	return nil
}

// SelectComponent selects a component by id. An empty id clears the selection.
func (e *Editor) SelectComponent(id string) {
	if id == "" {
		e.mode = Idle{}
		return
	}
	e.mode = ComponentSelected{ID: id}
}

// SelectComponentType arms placement of the given type. An empty type returns
// to Idle.
func (e *Editor) SelectComponentType(typeTag string) {
	if typeTag == "" {
		e.mode = Idle{}
		return
	}
	e.mode = PlacementPending{Type: typeTag}
}

// StartWiring begins a wire at pinID.
func (e *Editor) StartWiring(pinID string) {
	e.mode = Wiring{FirstPin: pinID}
}

// CompleteWiring finishes the wire in progress at secondPinID. The editor
// always returns to Idle; the error tells why no wire was created.
func (e *Editor) CompleteWiring(secondPinID string) (string, error) {
	first, ok := e.WiringFrom()
	e.mode = Idle{}
	if !ok {
		return "", ErrNotWiring
	}
	next, id, err := e.circuit.Connect(first, secondPinID)
	if err != nil {
		return "", err
	}
	e.circuit = next
	return id, nil
}

// CancelWiring abandons the wire in progress. It is a no-op in other modes.
func (e *Editor) CancelWiring() {
	if e.IsWiring() {
		e.mode = Idle{}
	}
}

// ClickPin starts a wire when idle and completes it when one is in progress.
func (e *Editor) ClickPin(pinID string) (string, error) {
	if !e.IsWiring() {
		e.StartWiring(pinID)
		return "", nil
	}
	return e.CompleteWiring(pinID)
}

// RemoveWire deletes a wire by id.
func (e *Editor) RemoveWire(id string) error {
	next, err := e.circuit.RemoveWire(id)
	if err != nil {
		return err
	}
	e.circuit = next
	return nil
}

// SetProperty assigns a component property.
func (e *Editor) SetProperty(id, key string, value any) error {
	next, err := e.circuit.SetProperty(id, key, value)
	if err != nil {
		return err
	}
	e.circuit = next
	return nil
}

// SetLabel changes a component label.
func (e *Editor) SetLabel(id, label string) error {
	next, err := e.circuit.SetLabel(id, label)
	if err != nil {
		return err
	}
	e.circuit = next
	return nil
}

// SetViewTransform stores the view transform, clamping the scale.
func (e *Editor) SetViewTransform(scale float64, offset geom.Point) {
	e.circuit = e.circuit.SetView(scale, offset)
}
