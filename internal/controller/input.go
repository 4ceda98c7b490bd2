package controller

import (
	"errors"
	"math"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Pin geometry shared by the renderer and the hit test.
const (
	PinRadius    = 4.0 // model units
	MinPinRadius = 2.0 // screen pixels
	PinHitSlop   = 1.0 // screen pixels
)

// PinScreenRadius returns the drawn pin radius in screen pixels at scale.
func PinScreenRadius(scale float64) float64 {
	return math.Max(PinRadius*scale, MinPinRadius)
}

// Key names understood by Key. The window maps toolkit key names to these.
const (
	KeyEscape    = "Escape"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyFit       = "F"
)

// PinsVisible reports whether the pins of comp are drawn and clickable in
// mode m: while wiring, or when the component is selected.
func PinsVisible(m circuit.Mode, compID string) bool {
	switch m := m.(type) {
	case circuit.Wiring:
		return true
	case circuit.ComponentSelected:
		return m.ID == compID
	}
	return false
}

// pinAt returns the topmost visible pin within the hit radius of the model
// point p.
func (c *Controller) pinAt(p geom.Point) (string, bool) {
	circ := c.editor.Circuit()
	mode := c.editor.Mode()
	radius := (PinScreenRadius(circ.View.Scale) + PinHitSlop) / circ.View.Scale
	for ci := len(circ.Components) - 1; ci >= 0; ci-- {
		comp := circ.Components[ci]
		if !PinsVisible(mode, comp.ID) {
			continue
		}
		for pi := range comp.Pins {
			if comp.PinPosition(pi).Dist(p) <= radius {
				return comp.Pins[pi].ID, true
			}
		}
	}
	return "", false
}

// componentAt returns the topmost component whose body contains p.
func (c *Controller) componentAt(p geom.Point) (circuit.Component, bool) {
	circ := c.editor.Circuit()
	for i := len(circ.Components) - 1; i >= 0; i-- {
		if circ.Components[i].Bounds().Contains(p) {
			return circ.Components[i], true
		}
	}
	return circuit.Component{}, false
}

// PointerDown routes a primary button press at screen position pos.
// Pins win over bodies, bodies over the background.
func (c *Controller) PointerDown(pos geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.camera().ScreenToModel(pos)
	c.pointer = m
	c.drag = drag{}

	if pinID, ok := c.pinAt(m); ok {
		c.clickPin(pinID)
		return
	}

	if comp, ok := c.componentAt(m); ok {
		// A body press while wiring only drags; the wire waits for a pin.
		if !c.editor.IsWiring() {
			c.editor.SelectComponent(comp.ID)
		}
		c.drag = drag{kind: dragComponent, id: comp.ID, grab: m.Sub(comp.Position), last: pos}
		c.invalidate()
		return
	}

	if typ, ok := c.editor.PendingType(); ok {
		if id, err := c.editor.AddComponent(typ, m.X, m.Y); err == nil {
			c.logf("[INFO] Placed %s", id)
			c.changed()
		}
		c.editor.SelectComponentType("")
		c.invalidate()
		return
	}

	if _, ok := c.editor.SelectedID(); ok {
		c.editor.SelectComponent("")
	}
	c.drag = drag{kind: dragPan, last: pos}
	c.invalidate()
}

func (c *Controller) clickPin(pinID string) {
	wireID, err := c.editor.ClickPin(pinID)
	switch {
	case err == nil && wireID != "":
		w, _ := c.editor.Circuit().Wire(wireID)
		c.logf("[INFO] Connected %s to %s", w.FromPin, w.ToPin)
		c.changed()
	case err == nil:
		c.logf("[INFO] Wiring from %s", pinID)
	case errors.Is(err, circuit.ErrSamePin):
		c.logf("[INFO] Wiring cancelled")
	default:
		c.logf("[WARN] Wire rejected: %v", err)
	}
	c.invalidate()
}

// PointerMove continues the drag in progress, if any.
func (c *Controller) PointerMove(pos geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cam := c.camera()
	m := cam.ScreenToModel(pos)
	c.pointer = m

	switch c.drag.kind {
	case dragComponent:
		to := m.Sub(c.drag.grab)
		if err := c.editor.MoveComponent(c.drag.id, to.X, to.Y); err != nil {
			c.drag = drag{}
			return
		}
		c.changed()
	case dragPan:
		c.setView(cam.Pan(pos.Sub(c.drag.last)))
		c.invalidate()
	default:
		if c.editor.IsWiring() {
			c.invalidate()
		}
	}
	c.drag.last = pos
}

// PointerUp ends the drag in progress.
func (c *Controller) PointerUp(pos geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = c.camera().ScreenToModel(pos)
	c.drag = drag{}
}

// Dragging reports whether a move or pan gesture is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.kind != dragNone
}

// Wheel zooms one tick around the screen position pos.
func (c *Controller) Wheel(pos geom.Point, deltaY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if deltaY == 0 {
		return
	}
	c.setView(c.camera().ZoomAt(pos, deltaY))
	c.invalidate()
}

// Key handles a key press. It reports whether the key was used.
func (c *Controller) Key(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case KeyEscape:
		if _, ok := c.editor.Mode().(circuit.Idle); ok {
			return false
		}
		if c.editor.IsWiring() {
			c.logf("[INFO] Wiring cancelled")
		}
		c.editor.SelectComponent("")
		c.drag = drag{}
		c.invalidate()
		return true

	case KeyDelete, KeyBackspace:
		id, ok := c.editor.SelectedID()
		if !ok {
			return false
		}
		c.drag = drag{}
		if _, exists := c.editor.Circuit().Component(id); !exists {
			c.editor.SelectComponent("")
			return true
		}
		c.editor.RemoveComponent(id)
		c.logf("[INFO] Removed %s", id)
		c.changed()
		return true

	case KeyFit:
		c.fit()
		return true
	}
	return false
}
