package main

import (
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"

	"github.com/geosketch/geosketch/internal/plot"
)

// doubleClickWindow is the maximum time between two clicks at the same spot
// for them to count as a double click.
const doubleClickWindow = 250 * time.Millisecond

// dispatcher translates Gio pointer events into drawing session events. It
// synthesizes click counting (Gio reports only presses and releases) and
// implements plot.EventSource so the session can detach mouse handling when
// the user switches to touch.
type dispatcher struct {
	session   *plot.PointSession
	tolerance float32

	detached map[plot.Kind]bool

	primaryDown bool
	clicks      int
	lastClick   struct {
		pos f32.Point
		at  time.Duration
		set bool
	}
}

func newDispatcher(session *plot.PointSession, tolerance float32) *dispatcher {
	return &dispatcher{
		session:   session,
		tolerance: tolerance,
		detached:  make(map[plot.Kind]bool),
	}
}

// Detach stops the dispatcher from forwarding the given event kinds.
func (d *dispatcher) Detach(kinds ...plot.Kind) {
	for _, k := range kinds {
		d.detached[k] = true
		log(LogCatgDraw, "dispatcher: detached %v events\n", k)
	}
}

// Reattach restores all detached event kinds and clears click history.
// Used when a drawing is abandoned and the session starts over.
func (d *dispatcher) Reattach() {
	d.detached = make(map[plot.Kind]bool)
	d.clicks = 0
	d.lastClick.set = false
}

// Pointer forwards a Gio pointer event to the session. It reports whether
// the event should also be handled by the map (panning and the like).
func (d *dispatcher) Pointer(ev pointer.Event) bool {
	if ev.Source == pointer.Touch {
		return d.touch(ev)
	}
	return d.mouse(ev)
}

func (d *dispatcher) touch(ev pointer.Event) bool {
	switch ev.Kind {
	case pointer.Press:
		if d.detached[plot.KindTouchStart] {
			return true
		}
		return d.session.TouchStart(plot.Event{Pos: ev.Position})
	case pointer.Release:
		if d.detached[plot.KindTouchEnd] {
			return true
		}
		return d.session.TouchEnd(plot.Event{Pos: ev.Position})
	}
	return true
}

func (d *dispatcher) mouse(ev pointer.Event) bool {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons != pointer.ButtonPrimary {
			return true
		}
		d.primaryDown = true
		d.countClick(ev)

		if d.detached[plot.KindDown] {
			return true
		}
		return d.session.Down(plot.Event{Pos: ev.Position})

	case pointer.Release:
		if !d.primaryDown {
			return true
		}
		d.primaryDown = false

		propagate := true
		if !d.detached[plot.KindUp] {
			propagate = d.session.Up(plot.Event{Pos: ev.Position})
		}

		d.lastClick.pos = ev.Position
		d.lastClick.at = ev.Time
		d.lastClick.set = true

		if d.clicks >= 2 {
			d.clicks = 0
			d.lastClick.set = false
			if !d.detached[plot.KindDblClick] {
				if !d.session.DblClick(plot.Event{Pos: ev.Position}) {
					propagate = false
				}
			}
		}
		return propagate

	case pointer.Move, pointer.Drag:
		// The session only needs presses and releases; the hover preview
		// is driven from the map view's cursor tracking.
		return true
	}
	return true
}

// countClick tracks consecutive clicks at roughly the same spot. A press
// within tolerance of the previous release, and soon enough after it,
// extends the run; anything else starts a new one.
func (d *dispatcher) countClick(ev pointer.Event) {
	if d.lastClick.set &&
		withinTolerance(ev.Position, d.lastClick.pos, d.tolerance) &&
		ev.Time-d.lastClick.at <= doubleClickWindow {
		d.clicks++
		return
	}
	d.clicks = 1
}

func withinTolerance(a, b f32.Point, tol float32) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx+dy*dy <= tol*tol
}
