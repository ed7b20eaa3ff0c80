package api

// Session is the drawing session state reported by GET /session.
type Session struct {
	Drawing     bool
	MouseDown   bool
	Mode        string
	StoppedDown bool
	Points      int
	Anchor      string
	Preview     string
}

// Symbol is one completed drawing as reported by GET /symbols.
type Symbol struct {
	Id          int
	NumPoints   int
	CompletedAt string
	Points      string
}

// Notification is pushed over the websocket at each drawing lifecycle
// moment.
type Notification struct {
	Op       string      `json:"op"`
	Point    *[2]float64 `json:"point,omitempty"`
	Points   int         `json:"points"`
	SymbolID int         `json:"symbolId,omitempty"`
}

const (
	NotificationOpCreate = "create"
	NotificationOpModify = "modify"
	NotificationOpDone   = "done"
	NotificationOpCancel = "cancel"
)
