// Package viewport converts between screen pixels and circuit model
// coordinates.
//
// The camera does not own the view transform. It is built from the circuit's
// ViewTransform for each frame, and every operation that changes the view
// returns a new transform for the caller to store with SetViewTransform.
package viewport

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

const (
	// ZoomStep is the scale factor applied per wheel tick.
	ZoomStep = 1.1

	// GridSize is the grid spacing in model units.
	GridSize = 20.0

	// GridMinScale is the smallest scale at which the grid is drawn.
	GridMinScale = 0.5

	// fitPadding is the share of the screen used when fitting content.
	fitPadding = 0.9
)

// Camera represents a viewport onto a circuit.
type Camera struct {
	View circuit.ViewTransform

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int
}

// NewCamera creates a camera for the given view and screen size.
func NewCamera(view circuit.ViewTransform, screenWidth, screenHeight int) Camera {
	return Camera{View: view, ScreenWidth: screenWidth, ScreenHeight: screenHeight}
}

// ModelToScreen converts model coordinates to screen coordinates (pixels).
func (c Camera) ModelToScreen(p geom.Point) geom.Point {
	return p.Mul(c.View.Scale).Add(c.View.Offset)
}

// ScreenToModel converts screen coordinates (pixels) to model coordinates.
func (c Camera) ScreenToModel(p geom.Point) geom.Point {
	return p.Sub(c.View.Offset).Div(c.View.Scale)
}

// Pan moves the view by a screen pixel delta. The delta is applied unscaled
// since the offset lives in screen space.
func (c Camera) Pan(delta geom.Point) circuit.ViewTransform {
	v := c.View
	v.Offset = v.Offset.Add(delta)
	return v
}

// ZoomAt zooms one wheel tick around the screen position pointer.
// A positive deltaY zooms in, anything else zooms out. The model point under
// the pointer stays under the pointer unless the scale was clamped.
func (c Camera) ZoomAt(pointer geom.Point, deltaY float64) circuit.ViewTransform {
	factor := ZoomStep
	if deltaY <= 0 {
		factor = 1 / ZoomStep
	}
	return c.ZoomBy(pointer, factor)
}

// ZoomBy multiplies the scale by factor around the screen position pointer.
func (c Camera) ZoomBy(pointer geom.Point, factor float64) circuit.ViewTransform {
	model := c.ScreenToModel(pointer)
	scale := circuit.ClampScale(c.View.Scale * factor)
	return circuit.ViewTransform{
		Scale:  scale,
		Offset: pointer.Sub(model.Mul(scale)),
	}
}

// Fit returns a transform that centers bbox on screen and scales it to fill
// most of the screen. Empty or degenerate boxes only recenter.
func (c Camera) Fit(bbox geom.BoundingBox) circuit.ViewTransform {
	if bbox.IsEmpty() || c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return c.View
	}

	scale := c.View.Scale
	width, height := bbox.Width(), bbox.Height()
	if width > 0 && height > 0 {
		zoomX := float64(c.ScreenWidth) * fitPadding / width
		zoomY := float64(c.ScreenHeight) * fitPadding / height
		scale = circuit.ClampScale(math.Min(zoomX, zoomY))
	}

	screenCenter := geom.Pt(float64(c.ScreenWidth)/2, float64(c.ScreenHeight)/2)
	return circuit.ViewTransform{
		Scale:  scale,
		Offset: screenCenter.Sub(bbox.Center().Mul(scale)),
	}
}

// SetScreenSize updates the camera when the window is resized.
func (c *Camera) SetScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// VisibleBounds returns the visible area in model coordinates.
// Useful for culling off-screen elements and for drawing the grid.
func (c Camera) VisibleBounds() geom.BoundingBox {
	return geom.BoundingBox{
		Min: c.ScreenToModel(geom.Pt(0, 0)),
		Max: c.ScreenToModel(geom.Pt(float64(c.ScreenWidth), float64(c.ScreenHeight))),
	}
}

// GridVisible reports whether the background grid is drawn at this scale.
func (c Camera) GridVisible() bool {
	return c.View.Scale >= GridMinScale
}

// GridLines returns the model coordinates of the vertical and horizontal grid
// lines that cross the visible area.
func (c Camera) GridLines() (xs, ys []float64) {
	if !c.GridVisible() {
		return nil, nil
	}
	vb := c.VisibleBounds()
	for x := math.Floor(vb.Min.X/GridSize) * GridSize; x <= vb.Max.X; x += GridSize {
		xs = append(xs, x)
	}
	for y := math.Floor(vb.Min.Y/GridSize) * GridSize; y <= vb.Max.Y; y += GridSize {
		ys = append(ys, y)
	}
	return xs, ys
}
