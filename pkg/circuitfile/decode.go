// Package circuitfile reads and writes circuits as s-expression files.
//
// A file holds a single (ots_circuit ...) expression:
//
//	(ots_circuit (version 1) (uuid "...") (name "Main Circuit") (seq 3)
//	  (view (scale 1) (offset 0 0))
//	  (component "resistor-1" (type "resistor") (at 300 250) (rotation 0) (label "Resistor")
//	    (pin "resistor-1-pin-0" (name "A") (role bidirectional) (at 0 0) (connected yes))
//	    (property "value" "1k"))
//	  (wire "wire-2" (from "resistor-1-pin-0") (to "led-1-pin-0")))
//
// Quoted atoms are strings, unquoted numbers are float64 and yes/no are
// booleans.
package circuitfile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Extension is the file extension of circuit files.
const Extension = ".ots"

// Version is the file format version written by Encode.
const Version = 1

// Load reads a circuit file from disk.
func Load(path string) (circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return circuit.Circuit{}, fmt.Errorf("circuitfile: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// ParseString decodes a circuit from a string.
func ParseString(s string) (circuit.Circuit, error) {
	return Decode(strings.NewReader(s))
}

// Decode reads one circuit expression from r. The identifier sequence is
// advanced past any id found in the file.
func Decode(r io.Reader) (circuit.Circuit, error) {
	nodes, err := parseAll(r)
	if err != nil {
		return circuit.Circuit{}, fmt.Errorf("circuitfile: parse error: %w", err)
	}
	if len(nodes) != 1 {
		return circuit.Circuit{}, fmt.Errorf("circuitfile: expected one expression, got %d", len(nodes))
	}
	root, ok := nodes[0].(*List)
	if !ok || root.Head() != "ots_circuit" {
		return circuit.Circuit{}, fmt.Errorf("circuitfile: not a circuit file")
	}

	c, err := decodeCircuit(root)
	if err != nil {
		return circuit.Circuit{}, fmt.Errorf("circuitfile: %w", err)
	}
	return c.RecomputeSeq(), nil
}

func decodeCircuit(root *List) (circuit.Circuit, error) {
	c := circuit.Circuit{View: circuit.ViewTransform{Scale: 1}}

	if v, ok := root.Find("version"); ok {
		n, err := intArg(v, 0)
		if err != nil {
			return c, err
		}
		if n != Version {
			return c, fmt.Errorf("unsupported version %d", n)
		}
	}

	if u, ok := root.Find("uuid"); ok {
		s, err := stringArg(u, 0)
		if err != nil {
			return c, err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return c, fmt.Errorf("line %d: invalid uuid: %w", u.Line, err)
		}
		c.ID = id.String()
	} else {
		c.ID = uuid.NewString()
	}

	if n, ok := root.Find("name"); ok {
		s, err := stringArg(n, 0)
		if err != nil {
			return c, err
		}
		c.Name = s
	}

	if s, ok := root.Find("seq"); ok {
		n, err := intArg(s, 0)
		if err != nil {
			return c, err
		}
		c.Seq = n
	}

	if v, ok := root.Find("view"); ok {
		view, err := decodeView(v)
		if err != nil {
			return c, err
		}
		c.View = view
	}

	for _, node := range root.FindAll("component") {
		comp, err := decodeComponent(node)
		if err != nil {
			return c, err
		}
		c.Components = append(c.Components, comp)
	}

	for _, node := range root.FindAll("wire") {
		w, err := decodeWire(node)
		if err != nil {
			return c, err
		}
		c.Wires = append(c.Wires, w)
	}
	return c, nil
}

func decodeView(l *List) (circuit.ViewTransform, error) {
	view := circuit.ViewTransform{Scale: 1}
	if s, ok := l.Find("scale"); ok {
		f, err := floatArg(s, 0)
		if err != nil {
			return view, err
		}
		view.Scale = f
	}
	if o, ok := l.Find("offset"); ok {
		p, err := pointArgs(o)
		if err != nil {
			return view, err
		}
		view.Offset = p
	}
	return view.Clamped(), nil
}

func decodeComponent(l *List) (circuit.Component, error) {
	var comp circuit.Component
	id, err := stringArg(l, 0)
	if err != nil {
		return comp, err
	}
	comp.ID = id

	t, ok := l.Find("type")
	if !ok {
		return comp, fmt.Errorf("line %d: component %q has no type", l.Line, id)
	}
	if comp.Type, err = stringArg(t, 0); err != nil {
		return comp, err
	}

	if at, ok := l.Find("at"); ok {
		if comp.Position, err = pointArgs(at); err != nil {
			return comp, err
		}
	}
	if r, ok := l.Find("rotation"); ok {
		if comp.Rotation, err = floatArg(r, 0); err != nil {
			return comp, err
		}
	}
	if lb, ok := l.Find("label"); ok {
		if comp.Label, err = stringArg(lb, 0); err != nil {
			return comp, err
		}
	}

	for _, node := range l.FindAll("pin") {
		p, err := decodePin(node)
		if err != nil {
			return comp, fmt.Errorf("component %q: %w", id, err)
		}
		comp.Pins = append(comp.Pins, p)
	}

	comp.Properties = make(map[string]any)
	for _, node := range l.FindAll("property") {
		key, err := stringArg(node, 0)
		if err != nil {
			return comp, err
		}
		args := node.Args()
		if len(args) != 2 {
			return comp, fmt.Errorf("line %d: property %q needs exactly one value", node.Line, key)
		}
		comp.Properties[key] = atomValue(args[1])
	}
	return comp, nil
}

func decodePin(l *List) (circuit.Pin, error) {
	var p circuit.Pin
	id, err := stringArg(l, 0)
	if err != nil {
		return p, err
	}
	p.ID = id
	p.Role = catalog.RoleBidirectional

	if n, ok := l.Find("name"); ok {
		if p.Name, err = stringArg(n, 0); err != nil {
			return p, err
		}
	}
	if r, ok := l.Find("role"); ok {
		s, err := symbolArg(r, 0)
		if err != nil {
			return p, err
		}
		if p.Role, err = catalog.ParsePinRole(s); err != nil {
			return p, fmt.Errorf("line %d: %w", r.Line, err)
		}
	}
	if at, ok := l.Find("at"); ok {
		if p.Position, err = pointArgs(at); err != nil {
			return p, err
		}
	}
	if c, ok := l.Find("connected"); ok {
		if p.Connected, err = boolArg(c, 0); err != nil {
			return p, err
		}
	}
	return p, nil
}

func decodeWire(l *List) (circuit.Wire, error) {
	var w circuit.Wire
	id, err := stringArg(l, 0)
	if err != nil {
		return w, err
	}
	w.ID = id

	from, ok := l.Find("from")
	if !ok {
		return w, fmt.Errorf("line %d: wire %q has no from pin", l.Line, id)
	}
	if w.FromPin, err = stringArg(from, 0); err != nil {
		return w, err
	}
	to, ok := l.Find("to")
	if !ok {
		return w, fmt.Errorf("line %d: wire %q has no to pin", l.Line, id)
	}
	if w.ToPin, err = stringArg(to, 0); err != nil {
		return w, err
	}
	return w, nil
}

// atomValue converts a property value atom to its Go value.
func atomValue(n Node) any {
	switch v := n.(type) {
	case String:
		return string(v)
	case Symbol:
		switch v {
		case "yes":
			return true
		case "no":
			return false
		}
		if f, err := strconv.ParseFloat(string(v), 64); err == nil {
			return f
		}
		return string(v)
	default:
		return n.String()
	}
}

func arg(l *List, index int) (Node, error) {
	args := l.Args()
	if index >= len(args) {
		return nil, fmt.Errorf("line %d: (%s) is missing argument %d", l.Line, l.Head(), index+1)
	}
	return args[index], nil
}

func stringArg(l *List, index int) (string, error) {
	n, err := arg(l, index)
	if err != nil {
		return "", err
	}
	s, ok := n.(String)
	if !ok {
		return "", fmt.Errorf("line %d: (%s) expects a quoted string, got %s", l.Line, l.Head(), n)
	}
	return string(s), nil
}

func symbolArg(l *List, index int) (string, error) {
	n, err := arg(l, index)
	if err != nil {
		return "", err
	}
	s, ok := n.(Symbol)
	if !ok {
		return "", fmt.Errorf("line %d: (%s) expects a symbol, got %s", l.Line, l.Head(), n)
	}
	return string(s), nil
}

func floatArg(l *List, index int) (float64, error) {
	s, err := symbolArg(l, index)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: (%s) invalid number %q", l.Line, l.Head(), s)
	}
	return f, nil
}

func intArg(l *List, index int) (int, error) {
	s, err := symbolArg(l, index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: (%s) invalid integer %q", l.Line, l.Head(), s)
	}
	return n, nil
}

func boolArg(l *List, index int) (bool, error) {
	s, err := symbolArg(l, index)
	if err != nil {
		return false, err
	}
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fmt.Errorf("line %d: (%s) expects yes or no, got %q", l.Line, l.Head(), s)
}

func pointArgs(l *List) (geom.Point, error) {
	x, err := floatArg(l, 0)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := floatArg(l, 1)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Pt(x, y), nil
}
