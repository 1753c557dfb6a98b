// Package geo provides the geometric primitives the layout engine is built
// on: points, boxes, and polylines, plus the distance, densification,
// simplification, and Bézier smoothing operations the grid and drawing
// stages need. Every function here is total and pure.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a 2-D point in input (Cartesian) coordinates.
type Point struct {
	X, Y float64
}

// Orb converts p to the paulmach/orb point type used at the GeoJSON
// boundary (octiio).
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb.Point into a Point.
func FromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by f about the origin.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Angle returns the angle of p (as a vector from the origin) in radians,
// measured clockwise from straight up, in [0, 2π).
func (p Point) Angle() float64 {
	// atan2 measures counter-clockwise from +X; the schematic convention
	// (spec.md §3: port 0 = up, clockwise) rotates and flips that.
	a := math.Atan2(p.X, p.Y)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
