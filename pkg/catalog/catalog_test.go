package catalog

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func TestEveryPaletteTypeIsRegistered(t *testing.T) {
	for _, typ := range Types() {
		def, ok := Lookup(typ)
		if !ok {
			t.Fatalf("palette type %q has no definition", typ)
		}
		if def.Type != typ {
			t.Errorf("definition for %q reports type %q", typ, def.Type)
		}
		if len(def.Pins) == 0 {
			t.Errorf("%s: expected at least one pin", typ)
		}
		if def.Width <= 0 || def.Height <= 0 {
			t.Errorf("%s: invalid footprint %vx%v", typ, def.Width, def.Height)
		}
		for _, pin := range def.Pins {
			if !pin.Role.Valid() {
				t.Errorf("%s: pin %s has invalid role %q", typ, pin.Name, pin.Role)
			}
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, typ := range []string{"", "transistor", Inductor} {
		if _, ok := Lookup(typ); ok {
			t.Errorf("expected %q to be absent", typ)
		}
	}
}

func TestResistorDefinition(t *testing.T) {
	def, ok := Lookup(Resistor)
	if !ok {
		t.Fatalf("resistor missing")
	}
	if len(def.Pins) != 2 {
		t.Fatalf("expected 2 pins, got %d", len(def.Pins))
	}
	if def.Pins[0].Name != "A" || def.Pins[0].Position != geom.Pt(0, 0) {
		t.Errorf("unexpected pin 0: %+v", def.Pins[0])
	}
	if def.Pins[1].Name != "B" || def.Pins[1].Position != geom.Pt(60, 0) {
		t.Errorf("unexpected pin 1: %+v", def.Pins[1])
	}
	if def.DefaultProperties["value"] != "1k" || def.DefaultProperties["tolerance"] != "5%" {
		t.Errorf("unexpected defaults: %v", def.DefaultProperties)
	}
}

func TestPIC16PinOut(t *testing.T) {
	def, _ := Lookup(PIC16)
	if len(def.Pins) != 18 {
		t.Fatalf("expected 18 pins, got %d", len(def.Pins))
	}
	if def.Pins[4].Name != "VSS" || def.Pins[4].Role != RoleGround {
		t.Errorf("pin 5 should be VSS/ground, got %+v", def.Pins[4])
	}
	if def.Pins[13].Name != "VDD" || def.Pins[13].Role != RolePower {
		t.Errorf("pin 14 should be VDD/power, got %+v", def.Pins[13])
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	def, _ := Lookup(Resistor)
	def.Pins[0].Name = "mutated"
	def.DefaultProperties["value"] = "10k"

	again, _ := Lookup(Resistor)
	if again.Pins[0].Name != "A" {
		t.Errorf("pin template leaked a mutation: %q", again.Pins[0].Name)
	}
	if again.DefaultProperties["value"] != "1k" {
		t.Errorf("default properties leaked a mutation: %v", again.DefaultProperties["value"])
	}
}

func TestParsePinRole(t *testing.T) {
	if r, err := ParsePinRole("power"); err != nil || r != RolePower {
		t.Errorf("ParsePinRole(power) = %q, %v", r, err)
	}
	if _, err := ParsePinRole("analog"); err == nil {
		t.Errorf("expected error for unknown role")
	}
}
