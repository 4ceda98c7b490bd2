// Package catalog is the fixed registry of component types that can be placed
// on a circuit. Each entry describes a symbol's footprint, its pin template
// and its default properties. The table is populated once at startup and is
// never mutated afterwards.
package catalog

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// PinRole is the electrical role of a pin.
type PinRole string

const (
	RoleInput         PinRole = "input"
	RoleOutput        PinRole = "output"
	RoleBidirectional PinRole = "bidirectional"
	RolePower         PinRole = "power"
	RoleGround        PinRole = "ground"
)

// Valid reports whether r is one of the known roles.
func (r PinRole) Valid() bool {
	switch r {
	case RoleInput, RoleOutput, RoleBidirectional, RolePower, RoleGround:
		return true
	}
	return false
}

// ParsePinRole converts a role name to a PinRole.
func ParsePinRole(s string) (PinRole, error) {
	r := PinRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("catalog: unknown pin role %q", s)
	}
	return r, nil
}

// PinTemplate defines one pin of a component type. Identifiers and the
// connected/value flags are assigned when the component is placed.
type PinTemplate struct {
	Name     string
	Role     PinRole
	Position geom.Point // Offset from the component origin
}

// Definition describes a placeable component type.
type Definition struct {
	Type              string
	Name              string
	Width             float64
	Height            float64
	BodyOffset        geom.Point // Top-left corner of the body relative to the origin
	Pins              []PinTemplate
	DefaultProperties map[string]any
}

// Bounds returns the definition's bounding box relative to the component origin.
func (d Definition) Bounds() geom.BoundingBox {
	return geom.Rect(d.BodyOffset, d.Width, d.Height)
}

// clone returns a deep copy so that callers never share the registry's slices and maps.
func (d Definition) clone() Definition {
	out := d
	out.Pins = make([]PinTemplate, len(d.Pins))
	copy(out.Pins, d.Pins)
	out.DefaultProperties = make(map[string]any, len(d.DefaultProperties))
	for k, v := range d.DefaultProperties {
		out.DefaultProperties[k] = v
	}
	return out
}

// Type tags known to the editor.
const (
	Resistor  = "resistor"
	LED       = "led"
	Capacitor = "capacitor"
	Inductor  = "inductor"
	PIC16     = "pic16"
	Ground    = "ground"
	VCC       = "vcc"
	Probe     = "probe"
)

// paletteOrder is the order in which types are offered to the user.
var paletteOrder = []string{Resistor, LED, Capacitor, Ground, VCC, PIC16, Probe}

var definitions = map[string]Definition{
	Resistor: {
		Type:       Resistor,
		Name:       "Resistor",
		Width:      60,
		Height:     20,
		BodyOffset: geom.Pt(0, -10),
		Pins: []PinTemplate{
			{Name: "A", Role: RoleBidirectional, Position: geom.Pt(0, 0)},
			{Name: "B", Role: RoleBidirectional, Position: geom.Pt(60, 0)},
		},
		DefaultProperties: map[string]any{
			"value":     "1k",
			"tolerance": "5%",
		},
	},
	LED: {
		Type:       LED,
		Name:       "LED",
		Width:      40,
		Height:     40,
		BodyOffset: geom.Pt(0, -20),
		Pins: []PinTemplate{
			{Name: "Anode", Role: RoleInput, Position: geom.Pt(0, 0)},
			{Name: "Cathode", Role: RoleOutput, Position: geom.Pt(40, 0)},
		},
		DefaultProperties: map[string]any{
			"color":          "red",
			"forwardVoltage": 2.1,
		},
	},
	Capacitor: {
		Type:       Capacitor,
		Name:       "Capacitor",
		Width:      30,
		Height:     50,
		BodyOffset: geom.Pt(0, -25),
		Pins: []PinTemplate{
			{Name: "Positive", Role: RoleBidirectional, Position: geom.Pt(0, 0)},
			{Name: "Negative", Role: RoleBidirectional, Position: geom.Pt(30, 0)},
		},
		DefaultProperties: map[string]any{
			"value":   "100μF",
			"voltage": "25V",
		},
	},
	Ground: {
		Type:   Ground,
		Name:   "Ground",
		Width:  30,
		Height: 30,
		Pins: []PinTemplate{
			{Name: "GND", Role: RoleGround, Position: geom.Pt(15, 0)},
		},
		DefaultProperties: map[string]any{},
	},
	VCC: {
		Type:   VCC,
		Name:   "VCC",
		Width:  30,
		Height: 30,
		Pins: []PinTemplate{
			{Name: "VCC", Role: RolePower, Position: geom.Pt(15, 30)},
		},
		DefaultProperties: map[string]any{
			"voltage": "5V",
		},
	},
	PIC16: {
		Type:   PIC16,
		Name:   "PIC16F84A",
		Width:  120,
		Height: 200,
		Pins: []PinTemplate{
			// Left side, pins 1-9 top to bottom
			{Name: "RA2", Role: RoleBidirectional, Position: geom.Pt(0, 20)},
			{Name: "RA3", Role: RoleBidirectional, Position: geom.Pt(0, 40)},
			{Name: "RA4/T0CKI", Role: RoleBidirectional, Position: geom.Pt(0, 60)},
			{Name: "MCLR", Role: RoleInput, Position: geom.Pt(0, 80)},
			{Name: "VSS", Role: RoleGround, Position: geom.Pt(0, 100)},
			{Name: "RB0/INT", Role: RoleBidirectional, Position: geom.Pt(0, 120)},
			{Name: "RB1", Role: RoleBidirectional, Position: geom.Pt(0, 140)},
			{Name: "RB2", Role: RoleBidirectional, Position: geom.Pt(0, 160)},
			{Name: "RB3", Role: RoleBidirectional, Position: geom.Pt(0, 180)},
			// Right side, pins 10-18 bottom to top
			{Name: "RB4", Role: RoleBidirectional, Position: geom.Pt(120, 180)},
			{Name: "RB5", Role: RoleBidirectional, Position: geom.Pt(120, 160)},
			{Name: "RB6", Role: RoleBidirectional, Position: geom.Pt(120, 140)},
			{Name: "RB7", Role: RoleBidirectional, Position: geom.Pt(120, 120)},
			{Name: "VDD", Role: RolePower, Position: geom.Pt(120, 100)},
			{Name: "OSC2", Role: RoleOutput, Position: geom.Pt(120, 80)},
			{Name: "OSC1", Role: RoleInput, Position: geom.Pt(120, 60)},
			{Name: "RA0", Role: RoleBidirectional, Position: geom.Pt(120, 40)},
			{Name: "RA1", Role: RoleBidirectional, Position: geom.Pt(120, 20)},
		},
		DefaultProperties: map[string]any{
			"model":          "PIC16F84A",
			"clockFrequency": "4MHz",
		},
	},
	Probe: {
		Type:   Probe,
		Name:   "Probe",
		Width:  20,
		Height: 20,
		Pins: []PinTemplate{
			{Name: "Input", Role: RoleInput, Position: geom.Pt(0, 10)},
		},
		DefaultProperties: map[string]any{
			"color": "yellow",
		},
	},
}

// Lookup returns the definition registered for typeTag. The second result is
// false for unknown tags.
func Lookup(typeTag string) (Definition, bool) {
	def, ok := definitions[typeTag]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Types returns the registered type tags in palette order.
func Types() []string {
	out := make([]string, len(paletteOrder))
	copy(out, paletteOrder)
	return out
}

// PropertyKeys returns the default property keys of a definition, sorted.
func (d Definition) PropertyKeys() []string {
	keys := make([]string, 0, len(d.DefaultProperties))
	for k := range d.DefaultProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
