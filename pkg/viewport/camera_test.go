package viewport

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

const eps = 1e-9

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestScreenModelRoundTrip(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 1.7, Offset: geom.Pt(-40, 15)}, 800, 600)
	for _, p := range []geom.Point{{}, {X: 123.5, Y: -77}, {X: 800, Y: 600}} {
		if got := cam.ModelToScreen(cam.ScreenToModel(p)); !near(got, p) {
			t.Errorf("round trip of %+v gave %+v", p, got)
		}
	}
	if got := cam.ModelToScreen(geom.Pt(10, 10)); !near(got, geom.Pt(-23, 32)) {
		t.Errorf("unexpected projection %+v", got)
	}
}

func TestZoomKeepsCursorPointFixed(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 1, Offset: geom.Pt(30, -20)}, 800, 600)
	pointer := geom.Pt(412, 287)
	before := cam.ScreenToModel(pointer)

	for i, deltaY := range []float64{1, 1, -1, 3, -2, -2, 1} {
		cam.View = cam.ZoomAt(pointer, deltaY)
		after := cam.ScreenToModel(pointer)
		if !near(before, after) {
			t.Fatalf("step %d: model point under cursor moved from %+v to %+v", i, before, after)
		}
	}
}

func TestZoomDirection(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 1}, 800, 600)
	if v := cam.ZoomAt(geom.Pt(0, 0), 1); math.Abs(v.Scale-1.1) > eps {
		t.Errorf("positive deltaY should multiply by 1.1, got %v", v.Scale)
	}
	if v := cam.ZoomAt(geom.Pt(0, 0), -1); math.Abs(v.Scale-1/1.1) > eps {
		t.Errorf("negative deltaY should divide by 1.1, got %v", v.Scale)
	}
	if v := cam.ZoomAt(geom.Pt(0, 0), 0); v.Scale >= 1 {
		t.Errorf("zero deltaY should zoom out, got %v", v.Scale)
	}
}

func TestZoomClampsOverSequences(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 1}, 800, 600)
	for i := 0; i < 100; i++ {
		cam.View = cam.ZoomAt(geom.Pt(100, 100), 1)
		if cam.View.Scale > circuit.MaxScale {
			t.Fatalf("scale %v exceeded max", cam.View.Scale)
		}
	}
	if cam.View.Scale != circuit.MaxScale {
		t.Errorf("expected scale pinned at max, got %v", cam.View.Scale)
	}
	for i := 0; i < 100; i++ {
		cam.View = cam.ZoomAt(geom.Pt(100, 100), -1)
		if cam.View.Scale < circuit.MinScale {
			t.Fatalf("scale %v below min", cam.View.Scale)
		}
	}
	if cam.View.Scale != circuit.MinScale {
		t.Errorf("expected scale pinned at min, got %v", cam.View.Scale)
	}
}

func TestPanIsUnscaled(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 2.5, Offset: geom.Pt(10, 10)}, 800, 600)
	grab := geom.Pt(200, 200)
	model := cam.ScreenToModel(grab)

	cam.View = cam.Pan(geom.Pt(35, -12))
	if cam.View.Offset != geom.Pt(45, -2) {
		t.Errorf("unexpected offset %+v", cam.View.Offset)
	}
	if cam.View.Scale != 2.5 {
		t.Errorf("pan changed the scale to %v", cam.View.Scale)
	}
	if got := cam.ScreenToModel(grab.Add(geom.Pt(35, -12))); !near(got, model) {
		t.Errorf("grabbed point drifted: %+v vs %+v", got, model)
	}
}

func TestFit(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 1}, 1000, 500)
	bbox := geom.Rect(geom.Pt(100, 100), 400, 100)

	cam.View = cam.Fit(bbox)
	// zoomX = 900/400 = 2.25, zoomY = 450/100 = 4.5
	if math.Abs(cam.View.Scale-2.25) > eps {
		t.Errorf("unexpected fit scale %v", cam.View.Scale)
	}
	if got := cam.ModelToScreen(bbox.Center()); !near(got, geom.Pt(500, 250)) {
		t.Errorf("content not centered: %+v", got)
	}

	empty := geom.NewBoundingBox()
	if v := cam.Fit(empty); v != cam.View {
		t.Errorf("fitting an empty box changed the view")
	}

	huge := geom.Rect(geom.Pt(0, 0), 1e6, 1e6)
	if v := cam.Fit(huge); v.Scale != circuit.MinScale {
		t.Errorf("fit scale should be clamped, got %v", v.Scale)
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		scale   float64
		visible bool
	}{
		{0.1, false},
		{0.49, false},
		{0.5, true},
		{3, true},
	}
	for _, tt := range tests {
		cam := NewCamera(circuit.ViewTransform{Scale: tt.scale}, 200, 100)
		if got := cam.GridVisible(); got != tt.visible {
			t.Errorf("scale %v: visible=%v, want %v", tt.scale, got, tt.visible)
		}
		xs, ys := cam.GridLines()
		if tt.visible && (len(xs) == 0 || len(ys) == 0) {
			t.Errorf("scale %v: expected grid lines", tt.scale)
		}
		if !tt.visible && (xs != nil || ys != nil) {
			t.Errorf("scale %v: expected no grid lines", tt.scale)
		}
	}

	cam := NewCamera(circuit.ViewTransform{Scale: 1}, 100, 40)
	xs, ys := cam.GridLines()
	if len(xs) != 6 || len(ys) != 3 {
		t.Errorf("expected 6x3 lines, got %dx%d", len(xs), len(ys))
	}
	for _, x := range xs {
		if math.Mod(x, GridSize) != 0 {
			t.Errorf("grid line %v not on spacing", x)
		}
	}
}

func TestVisibleBounds(t *testing.T) {
	cam := NewCamera(circuit.ViewTransform{Scale: 2, Offset: geom.Pt(100, 50)}, 500, 250)
	vb := cam.VisibleBounds()
	if !near(vb.Min, geom.Pt(-50, -25)) || !near(vb.Max, geom.Pt(200, 100)) {
		t.Errorf("unexpected visible bounds %+v", vb)
	}
}
