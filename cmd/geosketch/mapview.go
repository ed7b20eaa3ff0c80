package main

import (
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/geosketch/geosketch/internal/mercator"
	"github.com/geosketch/geosketch/internal/plot"
	"github.com/geosketch/geosketch/internal/tiles"
	"github.com/paulmach/orb"
)

// MapUI is the whole window: a slippy tile map with the drawing session
// layered over it, and a HUD in the corner.
type MapUI struct {
	view    mercator.Viewport
	tiles   *tiles.Cache
	plotter *plot.Plotter
	session *plot.PointSession
	disp    *dispatcher
	hud     *HUD
	style   Style

	cursor f32.Point
	drag   struct {
		active bool
		last   f32.Point
	}
}

func NewMapUI(settings Settings, style Style) (*MapUI, error) {
	m := &MapUI{
		view: mercator.Viewport{
			Center: startCenter(),
			// Tile rendering assumes an integral zoom level.
			Zoom:     math.Round(settings.Map.Zoom),
			TileSize: 256,
		},
		style: style,
	}

	cache, err := tiles.NewCache(settings.Map.TileURL, settings.Map.TileCacheSize, invalidate)
	if err != nil {
		return nil, err
	}
	m.tiles = cache

	cfg := plot.Config{
		PixelTolerance: float32(settings.Draw.PixelTolerance),
		StopDown:       settings.Draw.StopDown,
		Persist:        settings.Draw.Persist,
	}
	m.plotter = plot.NewPlotter(&m.view, cfg, m.callbacks())
	m.disp = newDispatcher(nil, cfg.PixelTolerance)
	m.session = plot.NewPointSession(m.plotter, m.disp, cfg)
	m.disp.session = m.session

	hud, err := NewHUD(style)
	if err != nil {
		return nil, err
	}
	m.hud = hud

	return m, nil
}

func (m *MapUI) callbacks() plot.Callbacks {
	return plot.Callbacks{
		Create: func(anchor orb.Point, sk *plot.Sketch) {
			log(LogCatgDraw, "drawing started at %.5f,%.5f\n", anchor[0], anchor[1])
			notifier.Broadcast(Notification{Op: "create", Point: &[2]float64{anchor[0], anchor[1]}})
		},
		Modify: func(pt orb.Point, sk *plot.Sketch) {
			notifier.Broadcast(Notification{Op: "modify", Point: &[2]float64{pt[0], pt[1]}, Points: sk.Len()})
		},
		Done: func(geom orb.MultiPoint) {
			sym := symbolStore.Add(geom)
			log(LogCatgDraw, "drawing %d completed with %d points\n", sym.ID, len(geom))
			notifier.Broadcast(Notification{Op: "done", Points: len(geom), SymbolID: sym.ID})
		},
		Cancel: func(geom orb.MultiPoint) {
			log(LogCatgDraw, "drawing cancelled with %d points\n", len(geom))
			notifier.Broadcast(Notification{Op: "cancel", Points: len(geom)})
		},
	}
}

func (m *MapUI) Layout(gtx layout.Context) layout.Dimensions {
	m.view.Size = gtx.Constraints.Max

	m.handleEvents(gtx)

	m.drawBackground(gtx)
	m.drawTiles(gtx)
	m.drawSymbols(gtx)
	m.drawSketch(gtx)
	m.hud.Layout(gtx, m)
	m.listenForEvents(gtx)

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (m *MapUI) handleEvents(gtx layout.Context) {
	for {
		pf := pointer.Filter{
			Target:  m,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Scroll | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		}
		kf := key.Filter{Focus: m, Name: key.NameEscape}
		ff := key.FocusFilter{Target: m}

		ev, ok := gtx.Event(pf, kf, ff)
		if !ok {
			break
		}

		switch e := ev.(type) {
		case pointer.Event:
			m.pointer(gtx, e)
		case key.Event:
			if e.Name == key.NameEscape && e.State == key.Press {
				m.cancelDrawing()
			}
		}
	}
}

func (m *MapUI) pointer(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Move:
		m.cursor = ev.Position
		if m.session.State().Drawing && m.session.State().Mode != plot.ModeTouch {
			m.plotter.MovePreview(ev.Position)
		}

	case pointer.Scroll:
		steps := -1.0
		if ev.Scroll.Y < 0 {
			steps = 1.0
		}
		m.view.ZoomBy(steps, ev.Position)

	case pointer.Press:
		m.cursor = ev.Position
		gtx.Execute(key.FocusCmd{Tag: m})
		if m.disp.Pointer(ev) {
			m.drag.active = true
			m.drag.last = ev.Position
		}

	case pointer.Drag:
		m.cursor = ev.Position
		if m.drag.active {
			m.view.Pan(ev.Position.Sub(m.drag.last))
		}
		m.drag.last = ev.Position

	case pointer.Release, pointer.Cancel:
		m.drag.active = false
		if ev.Kind == pointer.Release {
			m.disp.Pointer(ev)
		}
	}
}

// cancelDrawing abandons the in-progress drawing and restores mouse handling
// if a touch had detached it.
func (m *MapUI) cancelDrawing() {
	m.session.Deactivate()
	m.disp.Reattach()
}

// completeDrawing finishes the in-progress drawing as if the user had
// double-clicked at the cursor. Used by the local API.
func (m *MapUI) completeDrawing() {
	m.session.DblClick(plot.Event{Pos: m.cursor})
}

func (m *MapUI) drawBackground(gtx layout.Context) {
	st := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	paint.ColorOp{Color: m.style.Background}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	st.Pop()
}

// drawTiles paints every tile intersecting the viewport at the integral zoom
// level. Missing tiles are fetched in the background and the window is
// invalidated when they arrive.
func (m *MapUI) drawTiles(gtx layout.Context) {
	z := int(m.view.Zoom)
	ts := m.view.TileSize

	// Global pixel of the viewport's top-left corner at zoom z.
	zv := m.view
	zv.Zoom = float64(z)
	cx, cy := zv.GlobalPixel(m.view.Center)
	ox := cx - float64(m.view.Size.X)/2
	oy := cy - float64(m.view.Size.Y)/2

	x0 := int(ox) / ts
	y0 := int(oy) / ts
	x1 := int(ox+float64(m.view.Size.X)) / ts
	y1 := int(oy+float64(m.view.Size.Y)) / ts

	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			coord := tiles.Coord{Z: z, X: tx, Y: ty}.Wrap()
			img, ok := m.tiles.Get(coord)
			if !ok {
				continue
			}

			off := op.Offset(image.Pt(tx*ts-int(ox), ty*ts-int(oy))).Push(gtx.Ops)
			st := clip.Rect{Max: image.Pt(ts, ts)}.Push(gtx.Ops)
			paint.NewImageOp(img).Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			st.Pop()
			off.Pop()
		}
	}
}

func (m *MapUI) listenForEvents(gtx layout.Context) {
	// The event area must cover the whole map so pointer events anywhere on
	// the window reach us.
	st := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	event.Op(gtx.Ops, m)
	st.Pop()
}
