package main

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/paulmach/orb"
)

const (
	anchorRadius  = 7
	pointRadius   = 4
	previewRadius = 4
	symbolRadius  = 5
)

// drawSketch renders the in-progress drawing: a ring at the anchor, filled
// dots at the committed control points and an open ring for the live preview.
func (m *MapUI) drawSketch(gtx layout.Context) {
	sk := m.plotter.Sketch()
	if sk == nil {
		return
	}

	ring(gtx, m.view.Pixel(sk.Anchor), anchorRadius, m.style.Anchor)
	for _, pt := range sk.Points {
		dot(gtx, m.view.Pixel(pt), pointRadius, m.style.Point)
	}
	if pt, ok := sk.Preview(); ok {
		ring(gtx, m.view.Pixel(pt), previewRadius, m.style.Preview)
	}
}

func (m *MapUI) drawSymbols(gtx layout.Context) {
	for _, sym := range symbolStore.All() {
		for _, pt := range sym.Geometry {
			if !m.onScreen(pt) {
				continue
			}
			dot(gtx, m.view.Pixel(pt), symbolRadius, m.style.Symbol)
		}
	}
}

func (m *MapUI) onScreen(ll orb.Point) bool {
	px := m.view.Pixel(ll)
	return px.X >= -symbolRadius && px.Y >= -symbolRadius &&
		px.X <= float32(m.view.Size.X)+symbolRadius &&
		px.Y <= float32(m.view.Size.Y)+symbolRadius
}

func dot(gtx layout.Context, center f32.Point, r int, col color.NRGBA) {
	b := circleBounds(center, r)
	paint.FillShape(gtx.Ops, col, clip.Ellipse(b).Op(gtx.Ops))
}

func ring(gtx layout.Context, center f32.Point, r int, col color.NRGBA) {
	b := circleBounds(center, r)
	paint.FillShape(gtx.Ops, col, clip.Stroke{
		Path:  clip.Ellipse(b).Path(gtx.Ops),
		Width: 2,
	}.Op())
}

func circleBounds(center f32.Point, r int) image.Rectangle {
	c := image.Pt(int(center.X), int(center.Y))
	return image.Rectangle{
		Min: c.Sub(image.Pt(r, r)),
		Max: c.Add(image.Pt(r, r)),
	}
}
