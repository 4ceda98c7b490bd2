package circuit

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

var (
	// ErrUnknownType is returned when a component type has no catalog entry.
	ErrUnknownType = errors.New("circuit: unknown component type")
	// ErrNotFound is returned when a component, pin or wire id does not resolve.
	ErrNotFound = errors.New("circuit: not found")
	// ErrSamePin is returned when a wire would start and end on the same pin.
	ErrSamePin = errors.New("circuit: wire endpoints are the same pin")
	// ErrSameComponent is returned when both pins of a wire belong to one component.
	ErrSameComponent = errors.New("circuit: wire endpoints are on the same component")
	// ErrNotWiring is returned when a wire is completed without being started.
	ErrNotWiring = errors.New("circuit: no wire in progress")
)

// nextID advances the identifier sequence.
func (c Circuit) nextID(prefix string) (Circuit, string) {
	c.Seq++
	return c, fmt.Sprintf("%s-%d", prefix, c.Seq)
}

// AddComponent places a new component of the given type at pos. Pins and
// properties are instantiated from the catalog template.
func (c Circuit) AddComponent(typeTag string, pos geom.Point) (Circuit, string, error) {
	def, ok := catalog.Lookup(typeTag)
	if !ok {
		return c, "", fmt.Errorf("%w: %q", ErrUnknownType, typeTag)
	}

	next, id := c.nextID(typeTag)
	comp := Component{
		ID:         id,
		Type:       typeTag,
		Position:   pos,
		Pins:       make([]Pin, len(def.Pins)),
		Properties: def.DefaultProperties,
		Label:      def.Name,
	}
	for i, tmpl := range def.Pins {
		comp.Pins[i] = Pin{
			ID:       fmt.Sprintf("%s-pin-%d", id, i),
			Name:     tmpl.Name,
			Role:     tmpl.Role,
			Position: tmpl.Position,
		}
	}

	next.Components = appendCopy(c.Components, comp)
	return next, id, nil
}

// RemoveComponent deletes a component and every wire attached to one of its
// pins. Removing an unknown id returns the circuit unchanged.
func (c Circuit) RemoveComponent(id string) Circuit {
	idx := c.componentIndex(id)
	if idx < 0 {
		return c
	}

	pins := make(map[string]struct{}, len(c.Components[idx].Pins))
	for _, p := range c.Components[idx].Pins {
		pins[p.ID] = struct{}{}
	}

	next := c
	next.Components = make([]Component, 0, len(c.Components)-1)
	next.Components = append(next.Components, c.Components[:idx]...)
	next.Components = append(next.Components, c.Components[idx+1:]...)

	next.Wires = make([]Wire, 0, len(c.Wires))
	dropped := false
	for _, w := range c.Wires {
		_, from := pins[w.FromPin]
		_, to := pins[w.ToPin]
		if from || to {
			dropped = true
			continue
		}
		next.Wires = append(next.Wires, w)
	}
	if dropped {
		next.Components = next.refreshConnected()
	}
	return next
}

// MoveComponent sets a component's absolute position.
func (c Circuit) MoveComponent(id string, pos geom.Point) (Circuit, error) {
	idx := c.componentIndex(id)
	if idx < 0 {
		return c, fmt.Errorf("%w: component %q", ErrNotFound, id)
	}
	next := c
	next.Components = cloneComponents(c.Components)
	next.Components[idx].Position = pos
	return next, nil
}

// Connect adds a wire between two pins. The pins must exist, differ, and
// belong to different components.
func (c Circuit) Connect(fromPin, toPin string) (Circuit, string, error) {
	if fromPin == toPin {
		return c, "", ErrSamePin
	}
	from, ok := c.FindPin(fromPin)
	if !ok {
		return c, "", fmt.Errorf("%w: pin %q", ErrNotFound, fromPin)
	}
	to, ok := c.FindPin(toPin)
	if !ok {
		return c, "", fmt.Errorf("%w: pin %q", ErrNotFound, toPin)
	}
	if from.Component == to.Component {
		return c, "", ErrSameComponent
	}

	next, id := c.nextID("wire")
	next.Wires = appendCopy(c.Wires, Wire{ID: id, FromPin: fromPin, ToPin: toPin})
	next.Components = cloneComponents(c.Components)
	next.setConnected(from, true)
	next.setConnected(to, true)
	return next, id, nil
}

// RemoveWire deletes a wire and clears the connected flag of endpoints that
// are no longer referenced by any wire.
func (c Circuit) RemoveWire(id string) (Circuit, error) {
	idx := -1
	for i, w := range c.Wires {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, fmt.Errorf("%w: wire %q", ErrNotFound, id)
	}
	next := c
	next.Wires = make([]Wire, 0, len(c.Wires)-1)
	next.Wires = append(next.Wires, c.Wires[:idx]...)
	next.Wires = append(next.Wires, c.Wires[idx+1:]...)
	next.Components = next.refreshConnected()
	return next, nil
}

// SetProperty assigns a property on a component. Values are expected to be
// strings, float64 or bool.
func (c Circuit) SetProperty(id, key string, value any) (Circuit, error) {
	idx := c.componentIndex(id)
	if idx < 0 {
		return c, fmt.Errorf("%w: component %q", ErrNotFound, id)
	}
	props := make(map[string]any, len(c.Components[idx].Properties)+1)
	for k, v := range c.Components[idx].Properties {
		props[k] = v
	}
	props[key] = value

	next := c
	next.Components = cloneComponents(c.Components)
	next.Components[idx].Properties = props
	return next, nil
}

// SetLabel changes a component's display label.
func (c Circuit) SetLabel(id, label string) (Circuit, error) {
	idx := c.componentIndex(id)
	if idx < 0 {
		return c, fmt.Errorf("%w: component %q", ErrNotFound, id)
	}
	next := c
	next.Components = cloneComponents(c.Components)
	next.Components[idx].Label = label
	return next, nil
}

// SetView stores a new view transform. The scale is clamped, the offset is not.
func (c Circuit) SetView(scale float64, offset geom.Point) Circuit {
	c.View = ViewTransform{Scale: scale, Offset: offset}.Clamped()
	return c
}

// setConnected flips the flag on a pin. The caller must own c.Components.
func (c Circuit) setConnected(ref PinRef, connected bool) {
	comp := &c.Components[ref.Component]
	pins := make([]Pin, len(comp.Pins))
	copy(pins, comp.Pins)
	pins[ref.Pin].Connected = connected
	comp.Pins = pins
}

// refreshConnected recomputes every connected flag from the wire set and
// returns a component slice that only copies components whose pins changed.
func (c Circuit) refreshConnected() []Component {
	used := make(map[string]bool, len(c.Wires)*2)
	for _, w := range c.Wires {
		used[w.FromPin] = true
		used[w.ToPin] = true
	}
	out := cloneComponents(c.Components)
	for ci := range out {
		changed := false
		for _, p := range out[ci].Pins {
			if p.Connected != used[p.ID] {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}
		pins := make([]Pin, len(out[ci].Pins))
		copy(pins, out[ci].Pins)
		for pi := range pins {
			pins[pi].Connected = used[pins[pi].ID]
		}
		out[ci].Pins = pins
	}
	return out
}

func cloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	copy(out, in)
	return out
}

func appendCopy[T any](in []T, v T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}
