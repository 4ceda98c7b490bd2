package controller

import (
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func newController() *Controller {
	c := New(circuit.New(DefaultCircuitName))
	c.Resize(800, 600)
	return c
}

func click(c *Controller, x, y float64) {
	c.PointerDown(geom.Pt(x, y))
	c.PointerUp(geom.Pt(x, y))
}

func place(t *testing.T, c *Controller, typ string, x, y float64) circuit.Component {
	t.Helper()
	before := len(c.Circuit().Components)
	c.SelectPaletteType(typ)
	click(c, x, y)
	circ := c.Circuit()
	if len(circ.Components) != before+1 {
		t.Fatalf("placing %s at (%v,%v) failed", typ, x, y)
	}
	return circ.Components[len(circ.Components)-1]
}

func TestPlaceFromPalette(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 300, 250)

	if r.Type != catalog.Resistor || r.Position != geom.Pt(300, 250) {
		t.Errorf("unexpected component %+v", r)
	}
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("expected Idle after placement, got %s", c.Mode())
	}
	if !c.Snapshot().Dirty {
		t.Errorf("placement should mark the circuit dirty")
	}
}

func TestPlaceUsesModelCoordinates(t *testing.T) {
	c := newController()
	c.Wheel(geom.Pt(0, 0), 1) // scale 1.1 about the origin
	c.SelectPaletteType(catalog.Probe)
	click(c, 110, 55)

	comps := c.Circuit().Components
	if len(comps) != 1 {
		t.Fatalf("expected 1 component, got %d", len(comps))
	}
	if p := comps[0].Position; math.Abs(p.X-100) > 1e-9 || math.Abs(p.Y-50) > 1e-9 {
		t.Errorf("expected model position (100,50), got %+v", p)
	}
}

func TestPendingUnknownTypeReturnsToIdle(t *testing.T) {
	c := newController()
	c.SelectPaletteType(catalog.Inductor)
	click(c, 10, 10)
	if len(c.Circuit().Components) != 0 {
		t.Errorf("unknown type should not be placed")
	}
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("expected Idle, got %s", c.Mode())
	}
}

func TestBackgroundPan(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)
	click(c, 120, 100)
	if id, _ := c.Snapshot().Mode.(circuit.ComponentSelected); id.ID != r.ID {
		t.Fatalf("expected %s selected", r.ID)
	}

	c.PointerDown(geom.Pt(500, 500))
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("panning should clear the selection, got %s", c.Mode())
	}
	c.PointerMove(geom.Pt(520, 510))
	c.PointerMove(geom.Pt(530, 490))
	c.PointerUp(geom.Pt(530, 490))

	v := c.Circuit().View
	if v.Offset != geom.Pt(30, -10) || v.Scale != 1 {
		t.Errorf("unexpected view %+v", v)
	}
	if c.Dragging() {
		t.Errorf("drag should end on pointer up")
	}

	c.PointerMove(geom.Pt(0, 0))
	if c.Circuit().View.Offset != geom.Pt(30, -10) {
		t.Errorf("moving without a press should not pan")
	}
}

func TestDragMovesComponentKeepingGrabOffset(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)

	c.PointerDown(geom.Pt(120, 105))
	c.PointerMove(geom.Pt(220, 155))
	c.PointerUp(geom.Pt(220, 155))

	moved, _ := c.Circuit().Component(r.ID)
	if moved.Position != geom.Pt(200, 150) {
		t.Errorf("expected (200,150), got %+v", moved.Position)
	}
	if c.Circuit().View.Offset != (geom.Point{}) {
		t.Errorf("dragging a component should not pan")
	}
}

func TestWiringByClickingPins(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)
	l := place(t, c, catalog.LED, 300, 100)

	// Pins are hidden until the component is selected, so this hits the body.
	click(c, 100, 100)
	if _, ok := c.Mode().(circuit.ComponentSelected); !ok {
		t.Fatalf("expected selection, got %s", c.Mode())
	}

	click(c, 101, 100)
	if from, ok := c.Mode().(circuit.Wiring); !ok || from.FirstPin != r.Pins[0].ID {
		t.Fatalf("expected wiring from %s, got %s", r.Pins[0].ID, c.Mode())
	}

	// Panning keeps the wire in progress.
	c.PointerDown(geom.Pt(600, 500))
	c.PointerMove(geom.Pt(600, 500))
	c.PointerUp(geom.Pt(600, 500))
	if _, ok := c.Mode().(circuit.Wiring); !ok {
		t.Fatalf("panning should keep wiring, got %s", c.Mode())
	}

	click(c, 302, 98)
	circ := c.Circuit()
	if len(circ.Wires) != 1 {
		t.Fatalf("expected 1 wire, got %d", len(circ.Wires))
	}
	w := circ.Wires[0]
	if w.FromPin != r.Pins[0].ID || w.ToPin != l.Pins[0].ID {
		t.Errorf("unexpected wire %+v", w)
	}
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("expected Idle after wiring, got %s", c.Mode())
	}
}

func TestBodyClickKeepsWiring(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)
	l := place(t, c, catalog.LED, 300, 100)

	click(c, 120, 100)
	click(c, 100, 100)
	c.PointerDown(geom.Pt(320, 100)) // LED body
	c.PointerMove(geom.Pt(330, 110))
	c.PointerUp(geom.Pt(330, 110))

	from, ok := c.Mode().(circuit.Wiring)
	if !ok || from.FirstPin != r.Pins[0].ID {
		t.Fatalf("a body click should keep wiring from %s, got %s", r.Pins[0].ID, c.Mode())
	}
	if moved, _ := c.Circuit().Component(l.ID); moved.Position != geom.Pt(310, 110) {
		t.Errorf("expected the LED dragged to (310,110), got %+v", moved.Position)
	}

	click(c, 310, 110) // LED anode at its new position
	if n := len(c.Circuit().Wires); n != 1 {
		t.Errorf("expected 1 wire, got %d", n)
	}
}

func TestPinHitFollowsDrawnRadius(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		model  geom.Point // click position in model units
		wiring bool
	}{
		{"inside the drawn disk at 3x", 3, geom.Pt(100, 100+10.0/3), true},
		{"outside the drawn disk at 3x", 3, geom.Pt(100+14.0/3, 100), false},
		{"body centre at 0.1x", 0.1, geom.Pt(130, 105), false},
		{"near the pin at 0.1x", 0.1, geom.Pt(120, 100), true},
	}
	for _, tt := range tests {
		c := newController()
		r := place(t, c, catalog.Resistor, 100, 100)
		c.editor.SetViewTransform(tt.scale, geom.Point{})
		c.editor.SelectComponent(r.ID)

		pos := c.Snapshot().Camera.ModelToScreen(tt.model)
		click(c, pos.X, pos.Y)

		_, wiring := c.Mode().(circuit.Wiring)
		if wiring != tt.wiring {
			t.Errorf("%s: wiring=%v, want %v (mode %s)", tt.name, wiring, tt.wiring, c.Mode())
		}
		if !tt.wiring {
			if sel, ok := c.Mode().(circuit.ComponentSelected); !ok || sel.ID != r.ID {
				t.Errorf("%s: expected %s selected, got %s", tt.name, r.ID, c.Mode())
			}
		}
	}
}

func TestSameComponentWireRejected(t *testing.T) {
	c := newController()
	place(t, c, catalog.Resistor, 100, 100)
	click(c, 120, 100)
	click(c, 100, 100) // pin A
	click(c, 160, 100) // pin B, visible while wiring
	if n := len(c.Circuit().Wires); n != 0 {
		t.Errorf("expected no wires, got %d", n)
	}
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("expected Idle, got %s", c.Mode())
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	c := newController()
	pos := geom.Pt(400, 300)
	before := c.Snapshot().Camera.ScreenToModel(pos)

	for i := 0; i < 30; i++ {
		c.Wheel(pos, 1)
	}
	snap := c.Snapshot()
	if snap.Circuit.View.Scale != circuit.MaxScale {
		t.Errorf("expected scale clamped to max, got %v", snap.Circuit.View.Scale)
	}
	after := snap.Camera.ScreenToModel(pos)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Errorf("cursor point moved from %+v to %+v", before, after)
	}

	c.Wheel(pos, 0)
	if c.Circuit().View.Scale != circuit.MaxScale {
		t.Errorf("zero delta should not zoom")
	}
}

func TestKeys(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)
	l := place(t, c, catalog.LED, 300, 100)

	if c.Key(KeyEscape) {
		t.Errorf("Escape in Idle should not be handled")
	}

	click(c, 120, 100)
	click(c, 100, 100)
	if !c.Key(KeyEscape) {
		t.Errorf("Escape should cancel wiring")
	}
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("expected Idle, got %s", c.Mode())
	}

	c.SelectPaletteType(catalog.LED)
	c.Key(KeyEscape)
	if _, ok := c.Mode().(circuit.Idle); !ok {
		t.Errorf("Escape should clear the pending placement, got %s", c.Mode())
	}

	click(c, 320, 100)
	if !c.Key(KeyDelete) {
		t.Errorf("Delete should remove the selection")
	}
	if _, ok := c.Circuit().Component(l.ID); ok {
		t.Errorf("%s should be removed", l.ID)
	}
	if c.Key(KeyBackspace) {
		t.Errorf("Backspace without selection should not be handled")
	}
	if _, ok := c.Circuit().Component(r.ID); !ok {
		t.Errorf("%s should remain", r.ID)
	}

	if !c.Key(KeyFit) {
		t.Errorf("F should be handled")
	}
	snap := c.Snapshot()
	center := snap.Camera.ModelToScreen(r.Bounds().Center())
	if math.Abs(center.X-400) > 1e-6 || math.Abs(center.Y-300) > 1e-6 {
		t.Errorf("fit should center the circuit, got %+v", center)
	}
}

func TestPanel(t *testing.T) {
	c := newController()
	p := c.Panel()
	if !strings.Contains(p.Hint, "palette") || len(p.Lines) != 0 {
		t.Errorf("unexpected idle panel %+v", p)
	}

	c.SelectPaletteType(catalog.Capacitor)
	if p := c.Panel(); len(p.Lines) != 1 || p.Lines[0] != "Placing: capacitor" {
		t.Errorf("unexpected placement panel %+v", p)
	}

	click(c, 300.4, 249.6)
	click(c, 310, 250)
	p = c.Panel()
	want := []string{
		"Type: capacitor",
		"ID: capacitor-1",
		"Position: (300, 250)",
		"Pins: 2",
		"Label: Capacitor",
		"value: 100μF",
		"voltage: 25V",
	}
	if !reflect.DeepEqual(p.Lines, want) {
		t.Errorf("got %q, want %q", p.Lines, want)
	}

	click(c, 300.4, 249.6) // pin Positive
	p = c.Panel()
	if p.Title != "Wiring Mode" || !p.ShowCancel || p.Lines[0] != "Starting from pin: 0" {
		t.Errorf("unexpected wiring panel %+v", p)
	}
	c.CancelWiring()
	if c.Panel().ShowCancel {
		t.Errorf("cancel button should disappear after cancelling")
	}

	p = BuildPanel(c.Circuit(), circuit.ComponentSelected{ID: "ghost"})
	if len(p.Lines) != 1 || p.Lines[0] != "Component not found" {
		t.Errorf("unexpected panel for missing component %+v", p)
	}
}

func TestToolbarIsNoop(t *testing.T) {
	c := newController()
	place(t, c, catalog.VCC, 50, 50)
	before := c.Circuit()
	mode := c.Mode()

	for _, a := range SimulatorActions {
		c.Toolbar(a)
	}
	if !reflect.DeepEqual(before, c.Circuit()) || c.Mode() != mode {
		t.Errorf("toolbar actions changed state")
	}
	logs := c.Logs()
	if !strings.HasSuffix(logs[len(logs)-1], "Reset: not implemented") {
		t.Errorf("unexpected log %q", logs[len(logs)-1])
	}
}

func TestSaveAndOpen(t *testing.T) {
	c := newController()
	place(t, c, catalog.Resistor, 100, 100)
	place(t, c, catalog.LED, 300, 100)
	path := filepath.Join(t.TempDir(), "blink.ots")

	if err := c.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if snap := c.Snapshot(); snap.Dirty || snap.Path != path {
		t.Errorf("unexpected state after save: dirty=%v path=%q", snap.Dirty, snap.Path)
	}
	saved := c.Circuit()

	c.NewCircuit()
	if n := len(c.Circuit().Components); n != 0 {
		t.Fatalf("new circuit should be empty, got %d", n)
	}

	if err := c.OpenFile(path); err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if !reflect.DeepEqual(saved, c.Circuit()) {
		t.Errorf("opened circuit differs from saved one")
	}
	if err := c.OpenFile(filepath.Join(t.TempDir(), "missing.ots")); err == nil {
		t.Errorf("expected error for a missing file")
	}
	if !reflect.DeepEqual(saved, c.Circuit()) {
		t.Errorf("failed open should keep the current circuit")
	}
}

func TestOpenRejectsInconsistentFile(t *testing.T) {
	c := newController()
	r := place(t, c, catalog.Resistor, 100, 100)
	before := c.Circuit()

	src := `(ots_circuit (version 1) (name "x") (wire "wire-1" (from "a-pin-0") (to "b-pin-0")))`
	if err := c.ReadFrom(strings.NewReader(src), "dangling.ots"); err == nil {
		t.Fatalf("expected a validation error")
	}
	if !reflect.DeepEqual(before, c.Circuit()) {
		t.Errorf("a rejected file should keep %s", r.ID)
	}
	logs := c.Logs()
	if last := logs[len(logs)-1]; !strings.Contains(last, "Failed to open dangling.ots") {
		t.Errorf("expected the failure logged, got %q", last)
	}
}

func TestLogLimit(t *testing.T) {
	c := newController()
	for i := 0; i < 250; i++ {
		c.Logf("entry %d", i)
	}
	logs := c.Logs()
	if len(logs) != 200 {
		t.Fatalf("expected 200 entries, got %d", len(logs))
	}
	if !strings.HasSuffix(logs[199], "entry 249") {
		t.Errorf("unexpected last entry %q", logs[199])
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newController()
	invalidations := 0
	c.SetInvalidate(func() { invalidations++ })

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.SelectPaletteType(catalog.Probe)
				c.PointerDown(geom.Pt(float64(i*100), float64(j*10)))
				c.PointerUp(geom.Pt(float64(i*100), float64(j*10)))
				_ = c.Snapshot()
				c.Logf("worker %d", i)
			}
		}(i)
	}
	wg.Wait()

	if err := c.Circuit().Validate(); err != nil {
		t.Errorf("concurrent edits broke the circuit: %v", err)
	}
	if invalidations == 0 {
		t.Errorf("expected redraw requests")
	}
}
