// Package tiles fetches and caches XYZ map tiles.
package tiles

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Coord addresses one tile in an XYZ pyramid.
type Coord struct {
	Z, X, Y int
}

// AtPoint returns the tile containing ll at zoom z.
func AtPoint(ll orb.Point, z int) Coord {
	n := math.Exp2(float64(z))
	x := int(math.Floor((ll[0] + 180.0) / 360.0 * n))
	latRad := ll[1] * math.Pi / 180.0
	y := int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))
	return Coord{Z: z, X: x, Y: y}.Wrap()
}

// Wrap normalizes the X axis, which wraps around the antimeridian. Y does not
// wrap; out-of-range rows are left as-is and rejected by Valid.
func (c Coord) Wrap() Coord {
	n := 1 << uint(c.Z)
	c.X = ((c.X % n) + n) % n
	return c
}

// Valid reports whether the coordinate addresses a tile that exists.
func (c Coord) Valid() bool {
	if c.Z < 0 || c.Z > 22 {
		return false
	}
	n := 1 << uint(c.Z)
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// URL expands an URL template of the form
// https://host/{z}/{x}/{y}.png for this tile.
func (c Coord) URL(template string) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(c.Z),
		"{x}", strconv.Itoa(c.X),
		"{y}", strconv.Itoa(c.Y),
	)
	return r.Replace(template)
}
