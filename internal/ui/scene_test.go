package ui

import (
	"image"
	"math"
	"testing"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/controller"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func TestDashes(t *testing.T) {
	segs := dashes(f32.Pt(0, 0), f32.Pt(22, 0), 5, 5)
	if len(segs) != 3 {
		t.Fatalf("expected 3 dashes, got %d", len(segs))
	}
	last := segs[2]
	if last[0].X != 20 || last[1].X != 22 {
		t.Errorf("last dash should be clipped to the segment, got %v", last)
	}

	diag := dashes(f32.Pt(0, 0), f32.Pt(30, 40), 10, 0)
	if len(diag) != 5 {
		t.Fatalf("expected 5 dashes, got %d", len(diag))
	}
	if d := diag[0][1]; math.Abs(float64(d.X-6)) > 1e-4 || math.Abs(float64(d.Y-8)) > 1e-4 {
		t.Errorf("first diagonal dash ends at %v, expected (6,8)", d)
	}

	if len(dashes(f32.Pt(1, 1), f32.Pt(1, 1), 5, 5)) != 0 {
		t.Errorf("a zero-length segment has no dashes")
	}
}

func TestControllerKey(t *testing.T) {
	tests := []struct {
		name key.Name
		want string
		ok   bool
	}{
		{key.NameEscape, controller.KeyEscape, true},
		{key.NameDeleteForward, controller.KeyDelete, true},
		{key.NameDeleteBackward, controller.KeyBackspace, true},
		{"F", controller.KeyFit, true},
		{"G", "", false},
	}
	for _, tt := range tests {
		got, ok := controllerKey(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("controllerKey(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNamedColor(t *testing.T) {
	fallback := getLightTheme().SymbolFill
	if c := namedColor("green", fallback); c == fallback {
		t.Errorf("green should not use the fallback")
	}
	if c := namedColor(42, fallback); c != fallback {
		t.Errorf("non-string color should use the fallback")
	}
}

func TestStatusText(t *testing.T) {
	c := circuit.New("status")
	c.View.Scale = 1.1
	got := statusText(controller.Snapshot{Circuit: c})
	if got != "Components: 0 | Wires: 0 | Zoom: 110%" {
		t.Errorf("unexpected status %q", got)
	}
}

// TestRenderScene records a frame for every mode without a GPU.
func TestRenderScene(t *testing.T) {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	ctrl := controller.New(circuit.New("render"))
	ctrl.Resize(800, 600)
	for i, typ := range catalog.Types() {
		ctrl.SelectPaletteType(typ)
		ctrl.PointerDown(geom.Pt(float64(60+i*130), 100))
	}
	snap := ctrl.Snapshot()
	if len(snap.Circuit.Components) != len(catalog.Types()) {
		t.Fatalf("expected every type placed, got %d", len(snap.Circuit.Components))
	}

	r, led := snap.Circuit.Components[0], snap.Circuit.Components[1]
	wired, _, err := snap.Circuit.Connect(r.Pins[1].ID, led.Pins[0].ID)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	wired, err = wired.SetLabel(r.ID, "R1")
	if err != nil {
		t.Fatalf("SetLabel failed: %v", err)
	}

	modes := []circuit.Mode{
		circuit.Idle{},
		circuit.ComponentSelected{ID: r.ID},
		circuit.ComponentSelected{ID: "missing"},
		circuit.PlacementPending{Type: catalog.PIC16},
		circuit.Wiring{FirstPin: led.Pins[1].ID},
	}
	for _, scale := range []float64{0.1, 1, 3} {
		for _, mode := range modes {
			snap.Circuit = wired
			snap.Circuit.View.Scale = scale
			snap.Camera.View = snap.Circuit.View
			snap.Mode = mode
			snap.Pointer = geom.Pt(400, 300)

			var ops op.Ops
			gtx := layout.Context{
				Ops:         &ops,
				Constraints: layout.Exact(image.Pt(800, 600)),
				Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
			}
			RenderScene(gtx, th, snap, GetSceneColors(ThemeDark))
		}
	}
}
