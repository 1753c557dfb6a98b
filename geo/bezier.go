package geo

// CubicBezier is a cubic Bézier curve with two control points, grounded on
// original_source's util/geo/BezierCurve (evaluated in Bernstein
// polynomial form, rendered into a fixed sample count by the drawing
// aggregator).
type CubicBezier struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t in [0,1].
func (c CubicBezier) Eval(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	cc := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// Render samples the curve into n+1 evenly t-spaced points, including both
// endpoints. spec.md §4.7 and the aggregator default to n=10.
func (c CubicBezier) Render(n int) Polyline {
	if n < 1 {
		n = 1
	}
	out := make(Polyline, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		out[i] = c.Eval(t)
	}
	return out
}
