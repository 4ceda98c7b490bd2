package ui

import (
	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/controller"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/viewport"
)

const (
	wireMarkSize  = 3.0 // model units
	selectionPad  = 5.0 // screen pixels
	wireWidth     = 2.0
	wireMarkWidth = 2.0
)

// RenderScene draws a snapshot of the circuit into the canvas.
// Elements are drawn back to front: background, grid, wires, symbols,
// labels, pins, selection and the gesture overlays.
func RenderScene(gtx layout.Context, th *material.Theme, snap controller.Snapshot, colors *SceneColors) {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, colors.Background)

	cam := snap.Camera
	circ := snap.Circuit

	if snap.ShowGrid {
		renderGrid(gtx, cam, colors)
	}
	renderWires(gtx, cam, circ, colors)
	for _, comp := range circ.Components {
		renderSymbol(gtx, th, cam, comp, colors)
		renderLabel(gtx, th, cam, comp, colors)
	}
	renderPins(gtx, cam, circ, snap.Mode, colors)
	renderOverlays(gtx, cam, snap, colors)
}

// renderGrid draws the background grid when the scale allows it.
func renderGrid(gtx layout.Context, cam viewport.Camera, colors *SceneColors) {
	xs, ys := cam.GridLines()
	if len(xs) == 0 && len(ys) == 0 {
		return
	}
	w := float32(cam.ScreenWidth)
	h := float32(cam.ScreenHeight)

	var path clip.Path
	path.Begin(gtx.Ops)
	for _, x := range xs {
		sx := float32(cam.ModelToScreen(geom.Pt(x, 0)).X)
		path.MoveTo(f32.Pt(sx, 0))
		path.LineTo(f32.Pt(sx, h))
	}
	for _, y := range ys {
		sy := float32(cam.ModelToScreen(geom.Pt(0, y)).Y)
		path.MoveTo(f32.Pt(0, sy))
		path.LineTo(f32.Pt(w, sy))
	}
	paint.FillShape(gtx.Ops, colors.Grid, clip.Stroke{
		Path:  path.End(),
		Width: 1,
	}.Op())
}

// renderWires draws each wire between the live positions of its pins, with
// an X mark at both ends.
func renderWires(gtx layout.Context, cam viewport.Camera, circ circuit.Circuit, colors *SceneColors) {
	scale := float32(cam.View.Scale)
	for _, w := range circ.Wires {
		from, to, ok := circ.WireEndpoints(w)
		if !ok {
			continue
		}
		a, b := screenPt(cam, from), screenPt(cam, to)
		strokePolyline(gtx.Ops, colors.Wire, wireWidth, false, a, b)
		renderWireMark(gtx, a, wireMarkSize*scale, colors)
		renderWireMark(gtx, b, wireMarkSize*scale, colors)
	}
}

func renderWireMark(gtx layout.Context, at f32.Point, size float32, colors *SceneColors) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(at.Add(f32.Pt(-size, -size)))
	path.LineTo(at.Add(f32.Pt(size, size)))
	path.MoveTo(at.Add(f32.Pt(size, -size)))
	path.LineTo(at.Add(f32.Pt(-size, size)))
	paint.FillShape(gtx.Ops, colors.WireMark, clip.Stroke{
		Path:  path.End(),
		Width: wireMarkWidth,
	}.Op())
}

// renderLabel draws the component label under its body.
func renderLabel(gtx layout.Context, th *material.Theme, cam viewport.Camera, comp circuit.Component, colors *SceneColors) {
	if comp.Label == "" {
		return
	}
	size := 11 * cam.View.Scale
	if size < 6 {
		return
	}
	bb := comp.Bounds()
	pos := screenPt(cam, geom.Pt(bb.Min.X, bb.Max.Y+3))
	drawText(gtx, th, pos, unit.Sp(float32(size)), colors.SymbolText, comp.Label)
}

// renderPins draws the pins that can currently be clicked. Connected pins
// are filled.
func renderPins(gtx layout.Context, cam viewport.Camera, circ circuit.Circuit, mode circuit.Mode, colors *SceneColors) {
	r := float32(controller.PinScreenRadius(cam.View.Scale))
	for _, comp := range circ.Components {
		if !controller.PinsVisible(mode, comp.ID) {
			continue
		}
		for i, pin := range comp.Pins {
			center := screenPt(cam, comp.PinPosition(i))
			if pin.Connected {
				fillCircle(gtx.Ops, colors.PinConnected, center, r)
				continue
			}
			strokeCircle(gtx.Ops, colors.Pin, 1.5, center, r)
		}
	}
}

// renderOverlays draws the selection outline, the wire being drawn and the
// outline of a pending placement.
func renderOverlays(gtx layout.Context, cam viewport.Camera, snap controller.Snapshot, colors *SceneColors) {
	circ := snap.Circuit
	switch m := snap.Mode.(type) {
	case circuit.ComponentSelected:
		comp, ok := circ.Component(m.ID)
		if !ok {
			return
		}
		strokeDashed(gtx.Ops, colors.Selection, 1.5, true, screenCorners(cam, comp.Bounds(), selectionPad)...)

	case circuit.Wiring:
		from, ok := circ.PinPosition(m.FirstPin)
		if !ok {
			return
		}
		strokeDashed(gtx.Ops, colors.Rubber, wireWidth, false,
			screenPt(cam, from), screenPt(cam, snap.Pointer))

	case circuit.PlacementPending:
		def, ok := catalog.Lookup(m.Type)
		if !ok {
			return
		}
		bb := def.Bounds()
		ghost := geom.BoundingBox{Min: snap.Pointer.Add(bb.Min), Max: snap.Pointer.Add(bb.Max)}
		fillPolygon(gtx.Ops, colors.Highlight, screenCorners(cam, ghost, 0)...)
	}
}

func screenPt(cam viewport.Camera, p geom.Point) f32.Point {
	s := cam.ModelToScreen(p)
	return f32.Pt(float32(s.X), float32(s.Y))
}

// screenCorners projects a model box, grows it by pad screen pixels and
// returns its corners clockwise from the top left.
func screenCorners(cam viewport.Camera, bb geom.BoundingBox, pad float32) []f32.Point {
	lo := screenPt(cam, bb.Min).Sub(f32.Pt(pad, pad))
	hi := screenPt(cam, bb.Max).Add(f32.Pt(pad, pad))
	return []f32.Point{lo, f32.Pt(hi.X, lo.Y), hi, f32.Pt(lo.X, hi.Y)}
}
