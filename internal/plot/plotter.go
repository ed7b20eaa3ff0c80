package plot

import (
	"gioui.org/f32"
	"github.com/paulmach/orb"
)

// Config is the shared drawing-handler configuration supplied by the host.
type Config struct {
	// PixelTolerance is the click-vs-drag threshold in pixels. A down/up
	// pair further apart than this is treated as a drag and commits nothing.
	PixelTolerance float32
	// StopDown suppresses propagation of down events to the rest of the map.
	StopDown bool
	// Persist keeps the temporary preview artifact rendered between commits;
	// when set, the artifact is destroyed before each new commit.
	Persist bool
}

// Callbacks are the lifecycle notifications delivered to the host. All of
// them fire synchronously inside the event that triggered them, and every
// sketch reference they carry is owned by the session: hosts read, never
// mutate.
type Callbacks struct {
	// Create fires when the first point of a new drawing is established.
	Create func(anchor orb.Point, sk *Sketch)
	// Modify fires whenever a control point is added or the preview moves.
	Modify func(pt orb.Point, sk *Sketch)
	// Done fires when a drawing completes, with the finished geometry.
	Done func(geom orb.MultiPoint)
	// Cancel fires when the host deactivates the handler mid-drawing.
	Cancel func(geom orb.MultiPoint)
}

// Projector converts a viewport pixel to a map coordinate.
type Projector interface {
	LonLat(px f32.Point) orb.Point
}

// Session is the capability a drawing interaction needs from the plotting
// framework that owns the sketch feature.
type Session interface {
	Begin(px f32.Point)
	MovePreview(px f32.Point)
	AddControlPoint(px f32.Point)
	Complete()
	Cancel()
	WithinTolerance(a, b f32.Point) bool
	Active() bool
	DestroyPersisted()
}

// Plotter is the base plotting framework. It owns the sketch feature for the
// duration of one drawing, turns pixel positions into geometry through the
// injected Projector, and fires the host callbacks at the lifecycle moments
// defined by the Callbacks contract.
type Plotter struct {
	cfg  Config
	cb   Callbacks
	proj Projector

	sketch *Sketch
}

func NewPlotter(proj Projector, cfg Config, cb Callbacks) *Plotter {
	return &Plotter{cfg: cfg, cb: cb, proj: proj}
}

// Begin starts a new drawing at px: it creates the anchor point and a fresh
// empty sketch, then fires the create callback. An already-active sketch is
// never silently replaced; Begin on an active drawing is a no-op.
func (p *Plotter) Begin(px f32.Point) {
	if p.sketch != nil {
		return
	}
	ll := p.proj.LonLat(px)
	p.sketch = NewSketch(ll)
	if p.cb.Create != nil {
		p.cb.Create(ll, p.sketch)
	}
	p.sketch.ClearBound()
}

// MovePreview updates the rubber-band point at px and fires modify. The
// sketch is created lazily if this is the first event of a drawing.
func (p *Plotter) MovePreview(px f32.Point) {
	if p.sketch == nil {
		p.Begin(px)
	}
	ll := p.proj.LonLat(px)
	p.sketch.MovePreview(ll)
	if p.cb.Modify != nil {
		p.cb.Modify(ll, p.sketch)
	}
}

// AddControlPoint commits px as a new control point, appending it to the
// sketch geometry, and fires modify with the appended point.
func (p *Plotter) AddControlPoint(px f32.Point) {
	if p.sketch == nil {
		p.Begin(px)
	}
	ll := p.proj.LonLat(px)
	p.sketch.Append(ll)
	if p.cb.Modify != nil {
		p.cb.Modify(ll, p.sketch)
	}
}

// Complete finalizes the drawing: the done callback receives the finished
// multi-point geometry and the sketch is discarded. A completion with no
// active sketch is a no-op.
func (p *Plotter) Complete() {
	if p.sketch == nil {
		return
	}
	geom := p.sketch.Points
	p.sketch = nil
	if p.cb.Done != nil {
		p.cb.Done(geom)
	}
}

// Cancel discards the drawing and hands the abandoned geometry to the host.
func (p *Plotter) Cancel() {
	if p.sketch == nil {
		return
	}
	geom := p.sketch.Points
	p.sketch = nil
	if p.cb.Cancel != nil {
		p.cb.Cancel(geom)
	}
}

// Active reports whether a drawing is in progress.
func (p *Plotter) Active() bool {
	return p.sketch != nil
}

// Sketch returns the in-progress feature, or nil when no drawing is active.
// Callers must treat it as read-only.
func (p *Plotter) Sketch() *Sketch {
	return p.sketch
}

// WithinTolerance reports whether two pixels are close enough to count as
// the same spot, using euclidean distance against the configured tolerance.
func (p *Plotter) WithinTolerance(a, b f32.Point) bool {
	d := b.Sub(a)
	return d.X*d.X+d.Y*d.Y <= p.cfg.PixelTolerance*p.cfg.PixelTolerance
}

// DestroyPersisted removes the persisted preview artifact between commits.
func (p *Plotter) DestroyPersisted() {
	if p.sketch != nil {
		p.sketch.ClearPreview()
	}
}
