package geo

import (
	"math"
	"testing"
)

func TestPointDist(t *testing.T) {
	p := Point{0, 0}
	q := Point{3, 4}
	if got := p.Dist(q); got != 5 {
		t.Fatalf("Dist() = %v, want 5", got)
	}
}

func TestBoxExtendPad(t *testing.T) {
	b := EmptyBox()
	b = b.Extend(Point{1, 2})
	b = b.Extend(Point{-1, 5})

	if b.Min != (Point{-1, 2}) {
		t.Fatalf("Min = %+v, want {-1 2}", b.Min)
	}
	if b.Max != (Point{1, 5}) {
		t.Fatalf("Max = %+v, want {1 5}", b.Max)
	}

	padded := b.Pad(1)
	if padded.Min != (Point{-2, 1}) || padded.Max != (Point{2, 6}) {
		t.Fatalf("Pad() = %+v, want Min{-2 1} Max{2 6}", padded)
	}
}

func TestPolylineLength(t *testing.T) {
	pl := Polyline{{0, 0}, {3, 0}, {3, 4}}
	if got := pl.Length(); got != 7 {
		t.Fatalf("Length() = %v, want 7", got)
	}
}

func TestPolylinePointAtDist(t *testing.T) {
	pl := Polyline{{0, 0}, {10, 0}}
	p := pl.PointAtDist(4)
	if p != (Point{4, 0}) {
		t.Fatalf("PointAtDist(4) = %+v, want {4 0}", p)
	}
}

func TestPolylineProject(t *testing.T) {
	pl := Polyline{{0, 0}, {10, 0}, {10, 10}}
	p, d := pl.Project(Point{4, 3})
	if p != (Point{4, 0}) {
		t.Fatalf("Project() point = %+v, want {4 0}", p)
	}
	if d != 4 {
		t.Fatalf("Project() dist = %v, want 4", d)
	}
}

func TestPolylineProjectPastEnd(t *testing.T) {
	pl := Polyline{{0, 0}, {10, 0}}
	p, d := pl.Project(Point{15, 5})
	if p != (Point{10, 0}) {
		t.Fatalf("Project() point = %+v, want {10 0}", p)
	}
	if d != 10 {
		t.Fatalf("Project() dist = %v, want 10", d)
	}
}

func TestPolylineDensify(t *testing.T) {
	pl := Polyline{{0, 0}, {10, 0}}
	dense := pl.Densify(5)
	if len(dense) < 3 {
		t.Fatalf("Densify() produced %d points, want >= 3", len(dense))
	}
	if dense[0] != (Point{0, 0}) || dense[len(dense)-1] != (Point{10, 0}) {
		t.Fatalf("Densify() endpoints changed: %+v", dense)
	}
}

func TestPolylineSimplifyKeepsEndpoints(t *testing.T) {
	pl := Polyline{{0, 0}, {1, 0.01}, {2, 0}, {3, 10}, {4, 0}}
	simplified := pl.Simplify(0.5)
	if simplified[0] != pl[0] || simplified[len(simplified)-1] != pl[len(pl)-1] {
		t.Fatalf("Simplify() dropped an endpoint: %+v", simplified)
	}
	if len(simplified) >= len(pl) {
		t.Fatalf("Simplify() did not reduce point count: got %d, had %d", len(simplified), len(pl))
	}
}

func TestSegmentIntersectCross(t *testing.T) {
	a := Polyline{{0, 0}, {10, 10}}
	b := Polyline{{0, 10}, {10, 0}}
	xs := a.GetIntersections(b)
	if len(xs) != 1 {
		t.Fatalf("GetIntersections() = %d points, want 1", len(xs))
	}
	got := xs[0].Point
	want := Point{5, 5}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("intersection = %+v, want %+v", got, want)
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	c := CubicBezier{P0: Point{0, 0}, P1: Point{0, 5}, P2: Point{5, 5}, P3: Point{5, 0}}
	rendered := c.Render(10)
	if len(rendered) != 11 {
		t.Fatalf("Render(10) produced %d points, want 11", len(rendered))
	}
	if rendered[0] != c.P0 {
		t.Fatalf("first sample = %+v, want P0 %+v", rendered[0], c.P0)
	}
	if rendered[len(rendered)-1] != c.P3 {
		t.Fatalf("last sample = %+v, want P3 %+v", rendered[len(rendered)-1], c.P3)
	}
}
