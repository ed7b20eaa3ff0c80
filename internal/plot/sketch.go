package plot

import "github.com/paulmach/orb"

// Sketch is the transient in-progress feature shown to the user while a
// plotting symbol is drawn. It holds the anchor point created when the
// drawing started, the committed control points in insertion order, and the
// moving preview point that tracks the cursor between commits. Exactly one
// Sketch exists per active drawing; the host only ever reads it.
type Sketch struct {
	Anchor orb.Point
	Points orb.MultiPoint

	preview    orb.Point
	previewSet bool

	bound *orb.Bound
}

func NewSketch(anchor orb.Point) *Sketch {
	return &Sketch{Anchor: anchor}
}

// Append commits one control point. Points are only ever appended, never
// reordered or removed, while a drawing is active.
func (s *Sketch) Append(pt orb.Point) {
	s.Points = append(s.Points, pt)
	s.ClearBound()
}

// MovePreview moves the rubber-band point to pt.
func (s *Sketch) MovePreview(pt orb.Point) {
	s.preview = pt
	s.previewSet = true
	s.ClearBound()
}

// Preview returns the rubber-band point, if one is currently shown.
func (s *Sketch) Preview() (orb.Point, bool) {
	return s.preview, s.previewSet
}

// ClearPreview removes the rubber-band point. Used when the handler is
// configured not to persist temporary artifacts between commits.
func (s *Sketch) ClearPreview() {
	s.previewSet = false
}

func (s *Sketch) Len() int {
	return len(s.Points)
}

// Bound returns the bounding box of the committed points and the anchor,
// computing it on first use and caching it until the geometry changes.
func (s *Sketch) Bound() orb.Bound {
	if s.bound != nil {
		return *s.bound
	}
	b := s.Anchor.Bound()
	if len(s.Points) > 0 {
		b = b.Union(s.Points.Bound())
	}
	if s.previewSet {
		b = b.Union(s.preview.Bound())
	}
	s.bound = &b
	return b
}

// ClearBound drops the cached bounding box so it is recomputed lazily on the
// next access.
func (s *Sketch) ClearBound() {
	s.bound = nil
}
