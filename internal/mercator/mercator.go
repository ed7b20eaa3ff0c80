// Package mercator maps between viewport pixels and WGS84 coordinates using
// the spherical web-mercator projection shared by XYZ tile servers.
package mercator

import (
	"image"
	"math"

	"gioui.org/f32"
	"github.com/paulmach/orb"
)

// MaxLat is the northern/southern edge of the square web-mercator world.
const MaxLat = 85.05112877980659

// Viewport is a window onto the web-mercator plane: a center coordinate, a
// fractional zoom level and a pixel size. The zero value is not usable; set
// Center, Zoom, Size and TileSize first.
type Viewport struct {
	Center   orb.Point
	Zoom     float64
	Size     image.Point
	TileSize int
}

// worldSize is the edge length of the world in global pixels at the current
// zoom.
func (v *Viewport) worldSize() float64 {
	return math.Exp2(v.Zoom) * float64(v.TileSize)
}

// GlobalPixel projects a lon/lat to global pixel coordinates at the current
// zoom.
func (v *Viewport) GlobalPixel(ll orb.Point) (x, y float64) {
	n := v.worldSize()
	x = (ll[0] + 180.0) / 360.0 * n
	latRad := clampLat(ll[1]) * math.Pi / 180.0
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n
	return
}

// FromGlobalPixel unprojects global pixel coordinates back to lon/lat.
func (v *Viewport) FromGlobalPixel(x, y float64) orb.Point {
	n := v.worldSize()
	lon := x/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*y/n)))
	return orb.Point{lon, latRad * 180.0 / math.Pi}
}

// LonLat converts a viewport pixel to a map coordinate.
func (v *Viewport) LonLat(px f32.Point) orb.Point {
	cx, cy := v.GlobalPixel(v.Center)
	gx := cx + float64(px.X) - float64(v.Size.X)/2
	gy := cy + float64(px.Y) - float64(v.Size.Y)/2
	return v.FromGlobalPixel(gx, gy)
}

// Pixel converts a map coordinate to a viewport pixel.
func (v *Viewport) Pixel(ll orb.Point) f32.Point {
	cx, cy := v.GlobalPixel(v.Center)
	gx, gy := v.GlobalPixel(ll)
	return f32.Point{
		X: float32(gx - cx + float64(v.Size.X)/2),
		Y: float32(gy - cy + float64(v.Size.Y)/2),
	}
}

// Pan shifts the center by a pixel delta, so dragging the map right moves
// the view west.
func (v *Viewport) Pan(delta f32.Point) {
	cx, cy := v.GlobalPixel(v.Center)
	v.Center = v.FromGlobalPixel(cx-float64(delta.X), cy-float64(delta.Y))
	v.Center[1] = clampLat(v.Center[1])
}

// ZoomBy changes the zoom by steps (positive zooms in) while keeping the map
// coordinate under the anchor pixel fixed.
func (v *Viewport) ZoomBy(steps float64, anchor f32.Point) {
	under := v.LonLat(anchor)

	v.Zoom += steps
	if v.Zoom < 0 {
		v.Zoom = 0
	}
	if v.Zoom > 22 {
		v.Zoom = 22
	}

	// Re-center so the anchored coordinate stays under the same pixel.
	after := v.Pixel(under)
	v.Pan(f32.Point{X: after.X - anchor.X, Y: after.Y - anchor.Y}.Mul(-1))
}

func clampLat(lat float64) float64 {
	if lat > MaxLat {
		return MaxLat
	}
	if lat < -MaxLat {
		return -MaxLat
	}
	return lat
}
