package mercator

import (
	"image"
	"math"
	"testing"

	"gioui.org/f32"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func testViewport() *Viewport {
	return &Viewport{
		Center:   orb.Point{0, 0},
		Zoom:     2,
		Size:     image.Pt(800, 600),
		TileSize: 256,
	}
}

func TestGlobalPixelOrigin(t *testing.T) {
	v := &Viewport{Zoom: 0, TileSize: 256}

	x, y := v.GlobalPixel(orb.Point{0, 0})
	require.InDelta(t, 128, x, 1e-9)
	require.InDelta(t, 128, y, 1e-9)

	x, y = v.GlobalPixel(orb.Point{-180, MaxLat})
	require.InDelta(t, 0, x, 1e-9)
	require.InDelta(t, 0, y, 1e-6)
}

func TestCenterMapsToViewportCenter(t *testing.T) {
	v := testViewport()
	v.Center = orb.Point{12.5, 41.9}

	px := v.Pixel(v.Center)
	require.InDelta(t, 400, px.X, 1e-3)
	require.InDelta(t, 300, px.Y, 1e-3)
}

func TestLonLatPixelRoundTrip(t *testing.T) {

	tests := []struct {
		name string
		px   f32.Point
	}{
		{name: "center", px: f32.Point{X: 400, Y: 300}},
		{name: "corner", px: f32.Point{X: 0, Y: 0}},
		{name: "offset", px: f32.Point{X: 123, Y: 456}},
	}

	v := testViewport()
	v.Center = orb.Point{-71.06, 42.36}
	v.Zoom = 12

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ll := v.LonLat(tc.px)
			back := v.Pixel(ll)
			require.InDelta(t, float64(tc.px.X), float64(back.X), 0.01)
			require.InDelta(t, float64(tc.px.Y), float64(back.Y), 0.01)
		})
	}
}

func TestPanMovesCenterAgainstDrag(t *testing.T) {
	v := testViewport()

	// Dragging the map content to the right reveals territory to the west.
	v.Pan(f32.Point{X: 100, Y: 0})
	require.Less(t, v.Center[0], 0.0)
	require.InDelta(t, 0, v.Center[1], 1e-9)

	v = testViewport()
	v.Pan(f32.Point{X: 0, Y: -50})
	require.Less(t, v.Center[1], 0.0)
}

func TestZoomByKeepsAnchorFixed(t *testing.T) {
	v := testViewport()
	v.Center = orb.Point{2.35, 48.85}
	v.Zoom = 10

	anchor := f32.Point{X: 650, Y: 120}
	before := v.LonLat(anchor)

	v.ZoomBy(1, anchor)

	after := v.LonLat(anchor)
	require.InDelta(t, before[0], after[0], 1e-6)
	require.InDelta(t, before[1], after[1], 1e-6)
	require.InDelta(t, 11, v.Zoom, 1e-9)
}

func TestZoomClamps(t *testing.T) {
	v := testViewport()

	v.ZoomBy(-10, f32.Point{X: 400, Y: 300})
	require.Equal(t, 0.0, v.Zoom)

	v.ZoomBy(100, f32.Point{X: 400, Y: 300})
	require.Equal(t, 22.0, v.Zoom)
}

func TestLatitudeClamped(t *testing.T) {
	v := testViewport()

	_, y := v.GlobalPixel(orb.Point{0, 90})
	require.False(t, math.IsInf(y, 0))
	require.False(t, math.IsNaN(y))

	v.Pan(f32.Point{X: 0, Y: 1e9})
	require.LessOrEqual(t, v.Center[1], MaxLat)
	require.GreaterOrEqual(t, v.Center[1], -MaxLat)
}
