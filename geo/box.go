package geo

import "math"

// Box is an axis-aligned bounding box.
//
// Grounded on gverger-go-graph-layout's layout.Graph.BoundingBox, generalized
// from a node-set scan into a standalone value type so it can be built
// incrementally (Extend) and padded (Pad) the way octi/basegraph needs when
// it lays the grid over a CombGraph's bounding box.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box with no extent, ready to be grown with Extend.
func EmptyBox() Box {
	return Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Extend grows b so it also contains p, returning the updated box.
func (b Box) Extend(p Point) Box {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Pad grows b by d on every side.
func (b Box) Pad(d float64) Box {
	return Box{
		Min: Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Width returns the box's horizontal extent.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the box's vertical extent.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies within b (inclusive).
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
