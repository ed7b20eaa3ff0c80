package plot

import "gioui.org/f32"

// Kind identifies one class of input event a drawing session can receive
// from the host's dispatch loop.
type Kind int

const (
	KindDown Kind = iota
	KindUp
	KindMove
	KindClick
	KindDblClick
	KindTouchStart
	KindTouchEnd
)

func (k Kind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindUp:
		return "up"
	case KindMove:
		return "move"
	case KindClick:
		return "click"
	case KindDblClick:
		return "dblclick"
	case KindTouchStart:
		return "touchstart"
	case KindTouchEnd:
		return "touchend"
	}
	return "unknown"
}

// MouseKinds are the event kinds a session detaches when it latches into
// touch mode. From then on only touch events drive the session.
var MouseKinds = []Kind{KindDown, KindUp, KindMove, KindClick, KindDblClick}

// Event is one pointer or touch event carrying a viewport pixel position.
type Event struct {
	Pos f32.Point
	// PreventDefault suppresses the host's default gesture for this event,
	// such as a double-tap zoom. May be nil when there is nothing to suppress.
	PreventDefault func()
}

// EventSource is the host's event dispatch as seen from a session. Detaching
// a kind stops events of that kind from being routed to the session until the
// host reactivates it.
type EventSource interface {
	Detach(kinds ...Kind)
}
