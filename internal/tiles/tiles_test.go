package tiles

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestAtPoint(t *testing.T) {

	tests := []struct {
		name string
		ll   orb.Point
		z    int
		want Coord
	}{
		{
			name: "origin at zoom zero",
			ll:   orb.Point{0, 0},
			z:    0,
			want: Coord{Z: 0, X: 0, Y: 0},
		},
		{
			name: "origin at zoom one lands in the south-east quadrant",
			ll:   orb.Point{0.1, -0.1},
			z:    1,
			want: Coord{Z: 1, X: 1, Y: 1},
		},
		{
			name: "london at zoom ten",
			ll:   orb.Point{-0.1276, 51.5072},
			z:    10,
			want: Coord{Z: 10, X: 511, Y: 340},
		},
		{
			name: "longitude wraps across the antimeridian",
			ll:   orb.Point{190, 0},
			z:    2,
			want: Coord{Z: 2, X: 0, Y: 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AtPoint(tc.ll, tc.z)
			if got != tc.want {
				t.Fatalf("Expected %v but got %v", tc.want, got)
			}
		})
	}
}

func TestCoordValid(t *testing.T) {

	tests := []struct {
		name string
		c    Coord
		want bool
	}{
		{name: "origin", c: Coord{0, 0, 0}, want: true},
		{name: "last tile", c: Coord{2, 3, 3}, want: true},
		{name: "x out of range", c: Coord{2, 4, 0}, want: false},
		{name: "y negative", c: Coord{2, 0, -1}, want: false},
		{name: "zoom negative", c: Coord{-1, 0, 0}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Valid(); got != tc.want {
				t.Fatalf("Expected %v but got %v", tc.want, got)
			}
		})
	}
}

func TestURLTemplate(t *testing.T) {
	c := Coord{Z: 3, X: 2, Y: 5}

	got := c.URL("https://tiles.example.com/{z}/{x}/{y}.png")
	want := "https://tiles.example.com/3/2/5.png"
	if got != want {
		t.Fatalf("Expected '%s' but got '%s'", want, got)
	}
}

func TestCacheFetchesAndCaches(t *testing.T) {
	requests := make(chan string, 16)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.URL.Path
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		require.NoError(t, png.Encode(w, img))
	}))
	defer srv.Close()

	loaded := make(chan struct{}, 16)
	cache, err := NewCache(srv.URL+"/{z}/{x}/{y}.png", 8, func() { loaded <- struct{}{} })
	require.NoError(t, err)

	coord := Coord{Z: 1, X: 0, Y: 1}

	_, ok := cache.Get(coord)
	require.False(t, ok, "first lookup must miss and schedule a fetch")

	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("tile fetch did not complete")
	}

	img, ok := cache.Get(coord)
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	require.Equal(t, "/1/0/1.png", <-requests)

	// A second lookup is served from the cache without another request.
	_, ok = cache.Get(coord)
	require.True(t, ok)
	select {
	case p := <-requests:
		t.Fatalf("Expected no further requests but saw %s", p)
	default:
	}
}

func TestCacheBacksOffAfterFailure(t *testing.T) {
	var hits int
	done := make(chan struct{}, 16)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache, err := NewCache(srv.URL+"/{z}/{x}/{y}.png", 8, func() { done <- struct{}{} })
	require.NoError(t, err)

	coord := Coord{Z: 0, X: 0, Y: 0}

	_, ok := cache.Get(coord)
	require.False(t, ok)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tile fetch did not complete")
	}

	// While the failure backoff holds, no new fetch is scheduled.
	_, ok = cache.Get(coord)
	require.False(t, ok)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, hits)
}

func TestCacheRejectsInvalidCoord(t *testing.T) {
	cache, err := NewCache("https://tiles.example.com/{z}/{x}/{y}.png", 8, nil)
	require.NoError(t, err)

	_, ok := cache.Get(Coord{Z: 2, X: 0, Y: 9})
	require.False(t, ok)
	require.Equal(t, 0, cache.Len())
}
