package main

import (
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"

	"github.com/geosketch/geosketch/internal/plot"
	"github.com/paulmach/orb"
)

type flatProjector struct{}

func (flatProjector) LonLat(px f32.Point) orb.Point {
	return orb.Point{float64(px.X), float64(px.Y)}
}

type sessionRecorder struct {
	dones   []orb.MultiPoint
	cancels int
}

func (r *sessionRecorder) callbacks() plot.Callbacks {
	return plot.Callbacks{
		Done:   func(geom orb.MultiPoint) { r.dones = append(r.dones, geom) },
		Cancel: func(geom orb.MultiPoint) { r.cancels++ },
	}
}

func newTestDispatcher(t *testing.T) (*dispatcher, *sessionRecorder) {
	t.Helper()
	rec := &sessionRecorder{}
	cfg := plot.Config{PixelTolerance: 5}
	plotter := plot.NewPlotter(flatProjector{}, cfg, rec.callbacks())
	d := newDispatcher(nil, cfg.PixelTolerance)
	d.session = plot.NewPointSession(plotter, d, cfg)
	return d, rec
}

func press(pos f32.Point, at time.Duration) pointer.Event {
	return pointer.Event{
		Kind:     pointer.Press,
		Buttons:  pointer.ButtonPrimary,
		Position: pos,
		Time:     at,
	}
}

func release(pos f32.Point, at time.Duration) pointer.Event {
	return pointer.Event{
		Kind:     pointer.Release,
		Position: pos,
		Time:     at,
	}
}

func click(d *dispatcher, pos f32.Point, at time.Duration) {
	d.Pointer(press(pos, at))
	d.Pointer(release(pos, at+10*time.Millisecond))
}

func TestDoubleClickCompletesDrawing(t *testing.T) {
	d, rec := newTestDispatcher(t)

	click(d, f32.Pt(10, 10), 0)
	click(d, f32.Pt(11, 10), 100*time.Millisecond)

	if len(rec.dones) != 1 {
		t.Fatalf("Expected 1 completed drawing but got %d", len(rec.dones))
	}
	if len(rec.dones[0]) != 2 {
		t.Fatalf("Expected 2 points in the completed drawing but got %d", len(rec.dones[0]))
	}
}

func TestSlowSecondClickDoesNotComplete(t *testing.T) {
	d, rec := newTestDispatcher(t)

	click(d, f32.Pt(10, 10), 0)
	click(d, f32.Pt(11, 10), time.Second)

	if len(rec.dones) != 0 {
		t.Fatalf("Expected no completed drawing but got %d", len(rec.dones))
	}
	if !d.session.State().Drawing {
		t.Fatalf("Expected the drawing to still be in progress")
	}
}

func TestDistantSecondClickDoesNotComplete(t *testing.T) {
	d, rec := newTestDispatcher(t)

	click(d, f32.Pt(10, 10), 0)
	click(d, f32.Pt(80, 80), 100*time.Millisecond)

	if len(rec.dones) != 0 {
		t.Fatalf("Expected no completed drawing but got %d", len(rec.dones))
	}
}

func TestTripleClickDoesNotCompleteTwice(t *testing.T) {
	d, rec := newTestDispatcher(t)

	click(d, f32.Pt(10, 10), 0)
	click(d, f32.Pt(10, 11), 100*time.Millisecond)
	click(d, f32.Pt(10, 12), 200*time.Millisecond)

	if len(rec.dones) != 1 {
		t.Fatalf("Expected 1 completed drawing but got %d", len(rec.dones))
	}
}

func TestSecondaryButtonPressIsIgnored(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ev := press(f32.Pt(10, 10), 0)
	ev.Buttons = pointer.ButtonSecondary
	if !d.Pointer(ev) {
		t.Fatalf("Expected a secondary-button press to propagate")
	}
	if d.session.State().Drawing {
		t.Fatalf("Expected no drawing to start on a secondary-button press")
	}
}

func TestTouchPressDetachesMouseHandling(t *testing.T) {
	d, _ := newTestDispatcher(t)

	tap := pointer.Event{Kind: pointer.Press, Source: pointer.Touch, Position: f32.Pt(10, 10)}
	d.Pointer(tap)
	d.Pointer(pointer.Event{Kind: pointer.Release, Source: pointer.Touch, Position: f32.Pt(10, 10)})

	for _, k := range plot.MouseKinds {
		if !d.detached[k] {
			t.Fatalf("Expected %v events to be detached after a touch", k)
		}
	}

	// A mouse press must no longer reach the session.
	before := d.session.State()
	d.Pointer(press(f32.Pt(50, 50), time.Second))
	after := d.session.State()
	if before.MouseDown != after.MouseDown {
		t.Fatalf("Expected a detached mouse press to be ignored")
	}
}

func TestReattachRestoresMouseHandling(t *testing.T) {
	d, rec := newTestDispatcher(t)

	d.Pointer(pointer.Event{Kind: pointer.Press, Source: pointer.Touch, Position: f32.Pt(10, 10)})
	d.Pointer(pointer.Event{Kind: pointer.Release, Source: pointer.Touch, Position: f32.Pt(10, 10)})

	d.session.Deactivate()
	d.Reattach()

	if rec.cancels != 1 {
		t.Fatalf("Expected 1 cancel but got %d", rec.cancels)
	}

	click(d, f32.Pt(20, 20), 2*time.Second)
	if !d.session.State().Drawing {
		t.Fatalf("Expected mouse clicks to work again after reattach")
	}
}

func TestClickCountingResetsAfterCompletion(t *testing.T) {
	d, rec := newTestDispatcher(t)

	click(d, f32.Pt(10, 10), 0)
	click(d, f32.Pt(10, 10), 100*time.Millisecond)

	if len(rec.dones) != 1 {
		t.Fatalf("Expected 1 completed drawing but got %d", len(rec.dones))
	}

	// The next click at the same spot starts a fresh drawing instead of
	// continuing the click run.
	click(d, f32.Pt(10, 10), 200*time.Millisecond)
	if len(rec.dones) != 1 {
		t.Fatalf("Expected no extra completion but got %d", len(rec.dones))
	}
	if !d.session.State().Drawing {
		t.Fatalf("Expected a new drawing to start")
	}
}
