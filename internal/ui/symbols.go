package ui

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/viewport"
)

// pen draws in the local coordinate space of one component.
type pen struct {
	gtx    layout.Context
	cam    viewport.Camera
	comp   circuit.Component
	colors *SceneColors
	width  float32
}

func newPen(gtx layout.Context, cam viewport.Camera, comp circuit.Component, colors *SceneColors) pen {
	width := float32(2 * cam.View.Scale)
	if width < 1 {
		width = 1
	}
	return pen{gtx: gtx, cam: cam, comp: comp, colors: colors, width: width}
}

// pt converts a local component point to screen space.
func (p pen) pt(x, y float64) f32.Point {
	s := p.cam.ModelToScreen(p.comp.ToModel(geom.Pt(x, y)))
	return f32.Pt(float32(s.X), float32(s.Y))
}

func (p pen) line(x1, y1, x2, y2 float64) {
	strokePolyline(p.gtx.Ops, p.colors.SymbolBody, p.width, false, p.pt(x1, y1), p.pt(x2, y2))
}

func (p pen) polyline(closed bool, coords ...float64) {
	strokePolyline(p.gtx.Ops, p.colors.SymbolBody, p.width, closed, p.points(coords)...)
}

func (p pen) polygon(fill color.NRGBA, coords ...float64) {
	pts := p.points(coords)
	fillPolygon(p.gtx.Ops, fill, pts...)
	strokePolyline(p.gtx.Ops, p.colors.SymbolBody, p.width, true, pts...)
}

func (p pen) rect(x, y, w, h float64, fill bool) {
	coords := []float64{x, y, x + w, y, x + w, y + h, x, y + h}
	if fill {
		p.polygon(p.colors.SymbolFill, coords...)
		return
	}
	p.polyline(true, coords...)
}

func (p pen) circle(cx, cy, r float64, fill *color.NRGBA) {
	center := p.pt(cx, cy)
	radius := float32(r * p.cam.View.Scale)
	if fill != nil {
		fillCircle(p.gtx.Ops, *fill, center, radius)
	}
	strokeCircle(p.gtx.Ops, p.colors.SymbolBody, p.width, center, radius)
}

func (p pen) points(coords []float64) []f32.Point {
	pts := make([]f32.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, p.pt(coords[i], coords[i+1]))
	}
	return pts
}

// text draws txt at a local point, scaled with the view.
func (p pen) text(th *material.Theme, x, y float64, size float64, txt string) {
	sp := size * p.cam.View.Scale
	if sp < 6 {
		return
	}
	drawText(p.gtx, th, p.pt(x, y), unit.Sp(float32(sp)), p.colors.SymbolText, txt)
}

// renderSymbol draws the body of one component.
func renderSymbol(gtx layout.Context, th *material.Theme, cam viewport.Camera, comp circuit.Component, colors *SceneColors) {
	p := newPen(gtx, cam, comp, colors)

	switch comp.Type {
	case catalog.Resistor:
		p.line(0, 0, 10, 0)
		p.polyline(false, 10, 0, 15, -8, 20, 8, 25, -8, 30, 8, 35, -8, 40, 8, 45, -8, 50, 0)
		p.line(50, 0, 60, 0)

	case catalog.LED:
		fill := namedColor(comp.Properties["color"], colors.SymbolFill)
		p.line(0, 0, 12, 0)
		p.polygon(fill, 12, -10, 12, 10, 28, 0)
		p.line(28, -10, 28, 10)
		p.line(28, 0, 40, 0)
		p.line(22, -13, 28, -19)
		p.line(27, -10, 33, -16)

	case catalog.Capacitor:
		p.line(0, 0, 12, 0)
		p.line(12, -15, 12, 15)
		p.line(18, -15, 18, 15)
		p.line(18, 0, 30, 0)
		p.line(4, -12, 8, -12)
		p.line(6, -14, 6, -10)

	case catalog.Ground:
		p.line(15, 0, 15, 12)
		p.line(3, 12, 27, 12)
		p.line(8, 18, 22, 18)
		p.line(12, 24, 18, 24)

	case catalog.VCC:
		p.line(15, 30, 15, 12)
		p.line(5, 12, 25, 12)
		p.text(th, 4, -2, 10, "VCC")

	case catalog.PIC16:
		renderChip(p, th, comp)

	case catalog.Probe:
		fill := namedColor(comp.Properties["color"], colors.SymbolFill)
		p.line(0, 10, 2, 10)
		p.circle(10, 10, 8, &fill)

	default:
		bb := comp.LocalBounds()
		p.rect(bb.Min.X, bb.Min.Y, bb.Width(), bb.Height(), true)
		p.text(th, bb.Min.X+4, bb.Min.Y+4, 10, comp.Type)
	}
}

// renderChip draws a dual in-line package with its pin names inside the body.
func renderChip(p pen, th *material.Theme, comp circuit.Component) {
	bb := comp.LocalBounds()
	p.rect(bb.Min.X, bb.Min.Y, bb.Width(), bb.Height(), true)

	// Pin 1 notch
	notch := make([]float64, 0, 18)
	cx := bb.Min.X + bb.Width()/2
	for i := 0; i <= 8; i++ {
		a := math.Pi * float64(i) / 8
		notch = append(notch, cx-8*math.Cos(a), bb.Min.Y+8*math.Sin(a))
	}
	p.polyline(false, notch...)

	name, _ := comp.Properties["model"].(string)
	p.text(th, cx-30, bb.Min.Y+bb.Height()/2-6, 9, name)

	if p.cam.View.Scale < 0.75 {
		return
	}
	for _, pin := range comp.Pins {
		x := pin.Position.X + 4
		if pin.Position.X >= cx {
			x = pin.Position.X - 4 - 6*float64(len(pin.Name))
		}
		p.text(th, x, pin.Position.Y-6, 8, pin.Name)
	}
}

// namedColor maps the color property of LEDs and probes to a fill.
func namedColor(v any, fallback color.NRGBA) color.NRGBA {
	name, _ := v.(string)
	switch name {
	case "red":
		return color.NRGBA{R: 230, G: 40, B: 40, A: 200}
	case "green":
		return color.NRGBA{R: 40, G: 200, B: 60, A: 200}
	case "blue":
		return color.NRGBA{R: 40, G: 90, B: 230, A: 200}
	case "yellow":
		return color.NRGBA{R: 240, G: 220, B: 40, A: 200}
	case "white":
		return color.NRGBA{R: 250, G: 250, B: 250, A: 200}
	}
	return fallback
}
