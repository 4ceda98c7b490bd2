package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// strokePolyline strokes the line through pts in screen space.
func strokePolyline(ops *op.Ops, col color.NRGBA, width float32, closed bool, pts ...f32.Point) {
	if len(pts) < 2 {
		return
	}
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(pts[0])
	for _, p := range pts[1:] {
		path.LineTo(p)
	}
	if closed {
		path.Close()
	}
	paint.FillShape(ops, col, clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op())
}

// fillPolygon fills the closed polygon pts.
func fillPolygon(ops *op.Ops, col color.NRGBA, pts ...f32.Point) {
	if len(pts) < 3 {
		return
	}
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(pts[0])
	for _, p := range pts[1:] {
		path.LineTo(p)
	}
	path.Close()
	paint.FillShape(ops, col, clip.Outline{
		Path: path.End(),
	}.Op())
}

// circlePoints approximates a circle with a closed polygon.
func circlePoints(center f32.Point, radius float32) []f32.Point {
	const segments = 32
	pts := make([]f32.Point, 0, segments)
	for i := 0; i < segments; i++ {
		angle := float64(i) * 2.0 * math.Pi / segments
		pts = append(pts, f32.Pt(
			center.X+radius*float32(math.Cos(angle)),
			center.Y+radius*float32(math.Sin(angle)),
		))
	}
	return pts
}

func strokeCircle(ops *op.Ops, col color.NRGBA, width float32, center f32.Point, radius float32) {
	strokePolyline(ops, col, width, true, circlePoints(center, radius)...)
}

func fillCircle(ops *op.Ops, col color.NRGBA, center f32.Point, radius float32) {
	r := int(math.Ceil(float64(radius)))
	c := image.Pt(int(center.X), int(center.Y))
	paint.FillShape(ops, col, clip.Ellipse{
		Min: c.Sub(image.Pt(r, r)),
		Max: c.Add(image.Pt(r, r)),
	}.Op(ops))
}

// dashes splits the segment a-b into dash segments of length on separated
// by gaps of length off.
func dashes(a, b f32.Point, on, off float32) [][2]f32.Point {
	d := b.Sub(a)
	length := float32(math.Hypot(float64(d.X), float64(d.Y)))
	if length == 0 || on <= 0 {
		return nil
	}
	dir := d.Mul(1 / length)
	var out [][2]f32.Point
	for t := float32(0); t < length; t += on + off {
		end := t + on
		if end > length {
			end = length
		}
		out = append(out, [2]f32.Point{a.Add(dir.Mul(t)), a.Add(dir.Mul(end))})
	}
	return out
}

// strokeDashed strokes a dashed polyline.
func strokeDashed(ops *op.Ops, col color.NRGBA, width float32, closed bool, pts ...f32.Point) {
	if len(pts) < 2 {
		return
	}
	if closed {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	var path clip.Path
	path.Begin(ops)
	for i := 1; i < len(pts); i++ {
		for _, seg := range dashes(pts[i-1], pts[i], 5, 5) {
			path.MoveTo(seg[0])
			path.LineTo(seg[1])
		}
	}
	paint.FillShape(ops, col, clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op())
}

// drawText lays out a single line of text with its top-left corner at pos.
func drawText(gtx layout.Context, th *material.Theme, pos f32.Point, size unit.Sp, col color.NRGBA, txt string) {
	if txt == "" || th == nil {
		return
	}
	stack := op.Offset(image.Pt(int(pos.X), int(pos.Y))).Push(gtx.Ops)
	defer stack.Pop()

	lbl := material.Label(th, size, txt)
	lbl.Color = col
	lbl.MaxLines = 1
	gtx.Constraints = layout.Constraints{Max: image.Pt(gtx.Dp(unit.Dp(400)), gtx.Dp(unit.Dp(80)))}
	lbl.Layout(gtx)
}
