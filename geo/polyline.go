package geo

import "math"

// Polyline is an ordered sequence of points.
type Polyline []Point

// Length returns the total Euclidean length of the polyline.
func (pl Polyline) Length() float64 {
	var d float64
	for i := 1; i < len(pl); i++ {
		d += pl[i-1].Dist(pl[i])
	}
	return d
}

// Segment returns the sub-polyline covering the arc-length range [p, q].
func (pl Polyline) Segment(p, q float64) Polyline {
	if p > q {
		p, q = q, p
	}
	var out Polyline
	var acc float64
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		segLen := a.Dist(b)
		segStart, segEnd := acc, acc+segLen

		if segEnd < p || segStart > q {
			acc = segEnd
			continue
		}

		lo := math.Max(p, segStart)
		hi := math.Min(q, segEnd)

		if segLen == 0 {
			acc = segEnd
			continue
		}

		loPt := interp(a, b, (lo-segStart)/segLen)
		hiPt := interp(a, b, (hi-segStart)/segLen)

		if len(out) == 0 || out[len(out)-1] != loPt {
			out = append(out, loPt)
		}
		out = append(out, hiPt)

		acc = segEnd
	}
	return out
}

// PointAtDist returns the point at arc-length distance d along the
// polyline, clamped to the polyline's extent.
func (pl Polyline) PointAtDist(d float64) Point {
	if len(pl) == 0 {
		return Point{}
	}
	if d <= 0 {
		return pl[0]
	}
	var acc float64
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		segLen := a.Dist(b)
		if acc+segLen >= d {
			if segLen == 0 {
				return a
			}
			return interp(a, b, (d-acc)/segLen)
		}
		acc += segLen
	}
	return pl[len(pl)-1]
}

// Project returns the closest point on the polyline to p, and the
// arc-length distance along the polyline at which it occurs.
func (pl Polyline) Project(p Point) (Point, float64) {
	if len(pl) == 0 {
		return Point{}, 0
	}
	if len(pl) == 1 {
		return pl[0], 0
	}

	var best Point
	bestDist := math.Inf(1)
	var bestAcc float64
	var acc float64
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		segLen := a.Dist(b)
		t := projectT(p, a, b)
		cand := interp(a, b, t)
		if d := p.Dist(cand); d < bestDist {
			bestDist = d
			best = cand
			bestAcc = acc + t*segLen
		}
		acc += segLen
	}
	return best, bestAcc
}

// projectT returns the parameter t in [0,1] of segment a-b closest to p.
func projectT(p, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	l2 := vx*vx + vy*vy
	if l2 == 0 {
		return 0
	}
	t := ((p.X-a.X)*vx + (p.Y-a.Y)*vy) / l2
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Densify inserts intermediate points so no two consecutive points are
// farther apart than step.
func (pl Polyline) Densify(step float64) Polyline {
	if len(pl) < 2 || step <= 0 {
		return pl
	}
	out := Polyline{pl[0]}
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		segLen := a.Dist(b)
		n := int(segLen / step)
		for k := 1; k <= n; k++ {
			t := float64(k) * step / segLen
			if t >= 1 {
				break
			}
			out = append(out, interp(a, b, t))
		}
		out = append(out, b)
	}
	return out
}

// Simplify applies Ramer-Douglas-Peucker simplification with tolerance eps.
func (pl Polyline) Simplify(eps float64) Polyline {
	if len(pl) < 3 {
		return pl
	}
	keep := make([]bool, len(pl))
	keep[0] = true
	keep[len(pl)-1] = true
	rdp(pl, 0, len(pl)-1, eps, keep)

	out := make(Polyline, 0, len(pl))
	for i, k := range keep {
		if k {
			out = append(out, pl[i])
		}
	}
	return out
}

func rdp(pl Polyline, lo, hi int, eps float64, keep []bool) {
	if hi-lo < 2 {
		return
	}
	maxDist := -1.0
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		d := perpDist(pl[i], pl[lo], pl[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist > eps {
		keep[maxIdx] = true
		rdp(pl, lo, maxIdx, eps, keep)
		rdp(pl, maxIdx, hi, eps, keep)
	}
}

// perpDist returns the perpendicular distance of p from the line a-b.
func perpDist(p, a, b Point) float64 {
	if a == b {
		return p.Dist(a)
	}
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y
	l := math.Hypot(vx, vy)
	return math.Abs(vx*wy-vy*wx) / l
}

// SmoothenOutliers replaces any point whose distance from both neighbours
// exceeds d with the midpoint of those neighbours, removing single-point
// geometric spikes.
func (pl Polyline) SmoothenOutliers(d float64) Polyline {
	if len(pl) < 3 {
		return pl
	}
	out := make(Polyline, len(pl))
	copy(out, pl)
	for i := 1; i < len(pl)-1; i++ {
		prev, cur, next := pl[i-1], pl[i], pl[i+1]
		if cur.Dist(prev) > d && cur.Dist(next) > d {
			out[i] = Point{
				X: (prev.X + next.X) / 2,
				Y: (prev.Y + next.Y) / 2,
			}
		}
	}
	return out
}

// ApplyChaikin runs n rounds of Chaikin's corner-cutting subdivision,
// producing a smoother polyline that still passes near every input vertex.
func (pl Polyline) ApplyChaikin(n int) Polyline {
	cur := pl
	for i := 0; i < n && len(cur) >= 3; i++ {
		next := make(Polyline, 0, 2*len(cur))
		next = append(next, cur[0])
		for j := 0; j < len(cur)-1; j++ {
			a, b := cur[j], cur[j+1]
			next = append(next, interp(a, b, 0.25), interp(a, b, 0.75))
		}
		next = append(next, cur[len(cur)-1])
		cur = next
	}
	return cur
}

// Average returns the point-wise average of a set of equal-length polylines.
func Average(lines []Polyline) Polyline {
	if len(lines) == 0 {
		return nil
	}
	n := len(lines[0])
	out := make(Polyline, n)
	for i := 0; i < n; i++ {
		var sx, sy float64
		for _, l := range lines {
			if i >= len(l) {
				continue
			}
			sx += l[i].X
			sy += l[i].Y
		}
		out[i] = Point{X: sx / float64(len(lines)), Y: sy / float64(len(lines))}
	}
	return out
}

// GetOrthoLineAtDist returns the two endpoints of a segment of width w,
// centered on the polyline at arc-length d, perpendicular to the
// polyline's local direction there.
func (pl Polyline) GetOrthoLineAtDist(d, w float64) (Point, Point) {
	p := pl.PointAtDist(d)
	p2 := pl.PointAtDist(d + 0.01)
	dx, dy := p2.X-p.X, p2.Y-p.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return p, p
	}
	// perpendicular unit vector
	nx, ny := -dy/l, dx/l
	half := w / 2
	return Point{X: p.X - nx*half, Y: p.Y - ny*half}, Point{X: p.X + nx*half, Y: p.Y + ny*half}
}

// Intersection is a single crossing point between two polylines.
type Intersection struct {
	Point    Point
	DistA    float64 // arc-length along the receiver
	DistB    float64 // arc-length along other
}

// GetIntersections returns every point where pl and other cross.
func (pl Polyline) GetIntersections(other Polyline) []Intersection {
	var out []Intersection
	var distA float64
	for i := 1; i < len(pl); i++ {
		a1, a2 := pl[i-1], pl[i]
		segA := a1.Dist(a2)
		var distB float64
		for j := 1; j < len(other); j++ {
			b1, b2 := other[j-1], other[j]
			segB := b1.Dist(b2)
			if p, ta, tb, ok := segmentIntersect(a1, a2, b1, b2); ok {
				out = append(out, Intersection{
					Point: p,
					DistA: distA + ta*segA,
					DistB: distB + tb*segB,
				})
			}
			distB += segB
		}
		distA += segA
	}
	return out
}

func segmentIntersect(p1, p2, p3, p4 Point) (Point, float64, float64, bool) {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y
	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return Point{}, 0, 0, false
	}
	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	u := ((p3.X-p1.X)*d1y - (p3.Y-p1.Y)*d1x) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, 0, 0, false
	}
	return Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}, t, u, true
}

func interp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}
