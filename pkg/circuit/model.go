// Package circuit holds the canonical schematic model and the editor state
// machine that mutates it.
//
// A Circuit is treated as an immutable snapshot: every operation builds a new
// Circuit value and never writes through slices or maps reachable from an
// earlier snapshot. Readers (renderers, the netlist builder, file writers) may
// therefore keep a snapshot around without copying it.
package circuit

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Scale limits of the view transform.
const (
	MinScale = 0.1
	MaxScale = 3.0
)

// Pin is a named connection point on a placed component.
type Pin struct {
	ID        string
	Name      string
	Role      catalog.PinRole
	Position  geom.Point // Local to the owning component
	Connected bool
	Value     bool // Reserved for simulation, always false
}

// Component is a placed instance of a catalog entry.
type Component struct {
	ID         string
	Type       string
	Position   geom.Point
	Rotation   float64 // Degrees
	Pins       []Pin
	Properties map[string]any
	Label      string
}

// Wire connects two pins on two different components. Endpoint positions
// are not stored; they are resolved from the live components on demand.
type Wire struct {
	ID      string
	FromPin string
	ToPin   string
}

// ViewTransform maps model coordinates to screen coordinates:
// screen = model*Scale + Offset.
type ViewTransform struct {
	Scale  float64
	Offset geom.Point
}

// Clamped returns the transform with its scale forced into [MinScale, MaxScale].
func (v ViewTransform) Clamped() ViewTransform {
	v.Scale = ClampScale(v.Scale)
	return v
}

// ClampScale limits s to the allowed zoom range. NaN collapses to 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Circuit is the aggregate root of the model.
type Circuit struct {
	ID         string
	Name       string
	Components []Component // Insertion order, also z-order
	Wires      []Wire
	View       ViewTransform

	// Seq is the last value handed out by the identifier sequence.
	Seq int
}

// New returns an empty circuit with an identity view transform.
func New(name string) Circuit {
	return Circuit{
		ID:   uuid.NewString(),
		Name: name,
		View: ViewTransform{Scale: 1},
	}
}

// Component returns the component with the given id.
func (c Circuit) Component(id string) (Component, bool) {
	if i := c.componentIndex(id); i >= 0 {
		return c.Components[i], true
	}
	return Component{}, false
}

func (c Circuit) componentIndex(id string) int {
	for i := range c.Components {
		if c.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// PinRef locates a pin inside a circuit.
type PinRef struct {
	Component int // Index into Circuit.Components
	Pin       int // Index into Component.Pins
}

// FindPin resolves a pin id against the live component list.
func (c Circuit) FindPin(pinID string) (PinRef, bool) {
	for ci := range c.Components {
		for pi := range c.Components[ci].Pins {
			if c.Components[ci].Pins[pi].ID == pinID {
				return PinRef{Component: ci, Pin: pi}, true
			}
		}
	}
	return PinRef{}, false
}

// Pin returns the pin and its owning component.
func (c Circuit) Pin(pinID string) (Pin, Component, bool) {
	ref, ok := c.FindPin(pinID)
	if !ok {
		return Pin{}, Component{}, false
	}
	comp := c.Components[ref.Component]
	return comp.Pins[ref.Pin], comp, true
}

// PinByName returns the first pin of a component with the given name.
func (comp Component) PinByName(name string) (Pin, bool) {
	for _, p := range comp.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// ToModel converts a point local to the component into model coordinates.
func (comp Component) ToModel(local geom.Point) geom.Point {
	return comp.Position.Add(rotate(local, comp.Rotation))
}

// PinPosition returns the absolute position of the pin at index i.
func (comp Component) PinPosition(i int) geom.Point {
	return comp.ToModel(comp.Pins[i].Position)
}

// PinPosition returns the absolute position of a pin.
func (c Circuit) PinPosition(pinID string) (geom.Point, bool) {
	ref, ok := c.FindPin(pinID)
	if !ok {
		return geom.Point{}, false
	}
	return c.Components[ref.Component].PinPosition(ref.Pin), true
}

// WireEndpoints resolves both ends of a wire to absolute positions.
func (c Circuit) WireEndpoints(w Wire) (from, to geom.Point, ok bool) {
	from, okFrom := c.PinPosition(w.FromPin)
	to, okTo := c.PinPosition(w.ToPin)
	return from, to, okFrom && okTo
}

// Wire returns the wire with the given id.
func (c Circuit) Wire(id string) (Wire, bool) {
	for _, w := range c.Wires {
		if w.ID == id {
			return w, true
		}
	}
	return Wire{}, false
}

// WiresAt returns the wires attached to a pin.
func (c Circuit) WiresAt(pinID string) []Wire {
	var out []Wire
	for _, w := range c.Wires {
		if w.FromPin == pinID || w.ToPin == pinID {
			out = append(out, w)
		}
	}
	return out
}

// LocalBounds returns the component body relative to its origin. Types that
// are no longer in the catalog fall back to the extent of their pins.
func (comp Component) LocalBounds() geom.BoundingBox {
	if def, ok := catalog.Lookup(comp.Type); ok {
		return def.Bounds()
	}
	bb := geom.NewBoundingBox()
	for _, p := range comp.Pins {
		bb.Expand(p.Position)
	}
	if bb.IsEmpty() {
		return geom.Rect(geom.Pt(-10, -10), 20, 20)
	}
	return bb.Inflate(10)
}

// Bounds returns the component body in absolute coordinates.
func (comp Component) Bounds() geom.BoundingBox {
	local := comp.LocalBounds()
	if comp.Rotation == 0 {
		return geom.BoundingBox{Min: comp.Position.Add(local.Min), Max: comp.Position.Add(local.Max)}
	}
	bb := geom.NewBoundingBox()
	for _, corner := range []geom.Point{
		local.Min, {X: local.Max.X, Y: local.Min.Y}, local.Max, {X: local.Min.X, Y: local.Max.Y},
	} {
		bb.Expand(comp.Position.Add(rotate(corner, comp.Rotation)))
	}
	return bb
}

// Bounds returns the extent of every component in the circuit.
func (c Circuit) Bounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	for _, comp := range c.Components {
		bb.ExpandBox(comp.Bounds())
	}
	return bb
}

// PropertyKeys returns the component's property keys in sorted order.
func (comp Component) PropertyKeys() []string {
	keys := make([]string, 0, len(comp.Properties))
	for k := range comp.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rotate(p geom.Point, degrees float64) geom.Point {
	if degrees == 0 {
		return p
	}
	rad := degrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return geom.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}
