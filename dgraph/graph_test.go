package dgraph

import "testing"

func TestAddTwinEdgAndDel(t *testing.T) {
	g := New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")

	fwd, bwd := g.AddTwinEdg(a, b, 1.5, 1.5)

	twin, ok := g.Twin(fwd)
	if !ok || twin != bwd {
		t.Fatalf("Twin(fwd) = (%v, %v), want (%v, true)", twin, ok, bwd)
	}

	if id, ok := g.GetEdg(a, b); !ok || id != fwd {
		t.Fatalf("GetEdg(a,b) = (%v, %v), want (%v, true)", id, ok, fwd)
	}

	g.DelEdg(fwd)
	if _, ok := g.GetEdg(a, b); ok {
		t.Fatalf("GetEdg(a,b) still found after DelEdg")
	}
	// deleting one twin does not remove the other
	if _, ok := g.GetEdg(b, a); !ok {
		t.Fatalf("GetEdg(b,a) should still exist")
	}
}

func TestDelNdRemovesIncidentEdges(t *testing.T) {
	g := New[string, int]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	c := g.AddNd("c")
	g.AddEdg(a, b, 1)
	g.AddEdg(b, c, 2)

	g.DelNd(b)

	if g.HasNode(b) {
		t.Fatalf("HasNode(b) = true after DelNd")
	}
	if len(g.AdjOut(a)) != 0 {
		t.Fatalf("AdjOut(a) = %v, want empty", g.AdjOut(a))
	}
	if len(g.AdjIn(c)) != 0 {
		t.Fatalf("AdjIn(c) = %v, want empty", g.AdjIn(c))
	}
}

func TestViewHidesSoftInfEdges(t *testing.T) {
	g := New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	g.AddEdg(a, b, SoftInf)

	v := NewView(g, func(w float64) float64 { return w })
	if v.HasEdgeFromTo(int64(a), int64(b)) {
		t.Fatalf("HasEdgeFromTo reports a SoftInf edge as usable")
	}
	if v.WeightedEdge(int64(a), int64(b)) != nil {
		t.Fatalf("WeightedEdge returned a SoftInf edge")
	}
}
