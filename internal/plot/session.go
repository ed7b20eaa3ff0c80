package plot

import "gioui.org/f32"

// Mode is the input mode driving a session.
type Mode int

const (
	ModeMouse Mode = iota
	ModeTouch
)

func (m Mode) String() string {
	if m == ModeTouch {
		return "touch"
	}
	return "mouse"
}

// pixelSlot remembers a pixel position and whether one was recorded yet.
type pixelSlot struct {
	pos f32.Point
	set bool
}

// SessionState is the transient interaction state of one drawing. It is a
// plain value owned by a single PointSession instance.
type SessionState struct {
	MouseDown   bool
	Drawing     bool
	Mode        Mode
	StoppedDown bool

	lastDown  pixelSlot
	lastUp    pixelSlot
	lastTouch pixelSlot
}

// PointSession interprets a stream of pointer and touch events into committed
// control points and lifecycle notifications on the underlying Session.
//
// Clicks within the pixel tolerance commit a point; drags beyond it commit
// nothing; a mouse double-click or a second tap on the same spot completes
// the drawing. The first touch event latches the session into touch mode and
// detaches the mouse listeners from the event source for the rest of the
// session's active lifetime.
//
// All methods run synchronously inside the host's event dispatch; the session
// never blocks and never spawns work of its own.
type PointSession struct {
	sess  Session
	src   EventSource
	cfg   Config
	state SessionState
}

func NewPointSession(sess Session, src EventSource, cfg Config) *PointSession {
	return &PointSession{sess: sess, src: src, cfg: cfg}
}

// Down handles a pointer press. It never commits a control point; it starts
// the drawing and, in mouse mode, moves the live preview. The return value
// reports whether the event should keep propagating on the map.
func (ps *PointSession) Down(ev Event) bool {
	ps.state.MouseDown = true
	ps.state.Drawing = true
	ps.state.lastDown = pixelSlot{ev.Pos, true}
	if ps.state.Mode != ModeTouch {
		ps.sess.MovePreview(ev.Pos)
	}
	ps.state.StoppedDown = ps.cfg.StopDown
	return !ps.cfg.StopDown
}

// Up handles a pointer release. A release within tolerance of the paired
// press commits the position as a control point; a release further away was
// a drag and commits nothing. Either way the event keeps propagating.
func (ps *PointSession) Up(ev Event) bool {
	ps.state.MouseDown = false
	ps.state.StoppedDown = ps.cfg.StopDown

	// A second up at the exact same pixel is a double-fired event, not a
	// second commit. This is distinct from double-click completion, which
	// arrives as its own event.
	if ps.state.lastUp.set && ps.state.lastUp.pos == ev.Pos {
		return true
	}

	if ps.state.lastDown.set && ps.sess.WithinTolerance(ps.state.lastDown.pos, ev.Pos) {
		if ps.state.Mode == ModeTouch {
			// Mouse mode already moved the preview on down.
			ps.sess.MovePreview(ev.Pos)
		}
		if ps.cfg.Persist {
			ps.sess.DestroyPersisted()
		}
		ps.state.lastUp = pixelSlot{ev.Pos, true}
		ps.sess.AddControlPoint(ev.Pos)
	}
	return true
}

// DblClick completes the drawing. It returns false so the completing click
// does not also trigger the map's default double-click behavior.
func (ps *PointSession) DblClick(ev Event) bool {
	if ps.state.Drawing {
		ps.complete()
	}
	return false
}

// TouchStart unifies touch input with the mouse click logic. A second tap
// within tolerance of the previous one completes the drawing, exactly like a
// double-click; any other tap is delegated to Down. The first touch observed
// latches the session into touch mode and detaches the mouse listeners.
func (ps *PointSession) TouchStart(ev Event) bool {
	if ps.state.Drawing && ps.state.lastTouch.set &&
		ps.sess.WithinTolerance(ps.state.lastTouch.pos, ev.Pos) {
		if ev.PreventDefault != nil {
			ev.PreventDefault()
		}
		ps.complete()
		return false
	}

	if ps.state.Mode != ModeTouch {
		ps.state.Mode = ModeTouch
		ps.src.Detach(MouseKinds...)
	}

	ps.state.lastTouch = pixelSlot{ev.Pos, true}
	return ps.Down(ev)
}

// TouchEnd delegates to Up using the last recorded touch position, since
// touch release events carry no reliable final position. Outside an active
// drawing it does nothing.
func (ps *PointSession) TouchEnd(ev Event) bool {
	if !ps.state.Drawing {
		return true
	}
	if ps.state.lastTouch.set {
		ev.Pos = ps.state.lastTouch.pos
	}
	return ps.Up(ev)
}

// Deactivate is the externally-owned cancel path: an in-progress drawing is
// cancelled and the transient state is reset, including the touch latch.
// The host re-registers any detached listeners when it reactivates.
func (ps *PointSession) Deactivate() {
	if ps.sess.Active() {
		ps.sess.Cancel()
	}
	ps.state = SessionState{}
}

// State returns a snapshot of the transient interaction state.
func (ps *PointSession) State() SessionState {
	return ps.state
}

func (ps *PointSession) complete() {
	ps.sess.Complete()
	ps.state.Drawing = false
	ps.state.MouseDown = false
	// Stale pixel history must not leak into the next drawing: an up at the
	// same pixel as the previous drawing's last commit would be swallowed by
	// the duplicate-up guard. The touch latch stays.
	ps.state.lastDown = pixelSlot{}
	ps.state.lastUp = pixelSlot{}
	ps.state.lastTouch = pixelSlot{}
}
