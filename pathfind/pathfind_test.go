package pathfind

import (
	"math"
	"testing"

	"github.com/transitschema/octilayout/dgraph"
)

func weightOf(w float64) float64 { return w }

func TestSearchSimplePath(t *testing.T) {
	g := dgraph.New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	c := g.AddNd("c")
	g.AddEdg(a, b, 1)
	g.AddEdg(b, c, 2)
	// a decoy direct edge that is more expensive than the two-hop route
	g.AddEdg(a, c, 10)

	view := dgraph.NewView(g, weightOf)

	res, err := Search(g, view, []dgraph.NodeID{a}, []dgraph.NodeID{c}, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Cost != 3 {
		t.Fatalf("Cost = %v, want 3", res.Cost)
	}
	if len(res.Path) != 2 {
		t.Fatalf("Path = %v, want 2 edges", res.Path)
	}
}

func TestSearchNoPath(t *testing.T) {
	g := dgraph.New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	view := dgraph.NewView(g, weightOf)

	_, err := Search(g, view, []dgraph.NodeID{a}, []dgraph.NodeID{b}, nil)
	if err != ErrNoPath {
		t.Fatalf("Search() error = %v, want ErrNoPath", err)
	}
}

func TestSearchSoftInfEdgeIsSkipped(t *testing.T) {
	g := dgraph.New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	g.AddEdg(a, b, dgraph.SoftInf)
	view := dgraph.NewView(g, weightOf)

	_, err := Search(g, view, []dgraph.NodeID{a}, []dgraph.NodeID{b}, nil)
	if err != ErrNoPath {
		t.Fatalf("Search() error = %v, want ErrNoPath for SoftInf edge", err)
	}
}

func TestSearchMultiSourceMultiSink(t *testing.T) {
	g := dgraph.New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	c := g.AddNd("c")
	d := g.AddNd("d")
	g.AddEdg(a, c, 5)
	g.AddEdg(b, c, 1)
	g.AddEdg(c, d, 1)
	view := dgraph.NewView(g, weightOf)

	res, err := Search(g, view, []dgraph.NodeID{a, b}, []dgraph.NodeID{d}, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Cost != 2 {
		t.Fatalf("Cost = %v, want 2 (via b)", res.Cost)
	}
}

func TestSearchWithHeuristicMatchesDijkstra(t *testing.T) {
	g := dgraph.New[string, float64]()
	a := g.AddNd("a")
	b := g.AddNd("b")
	c := g.AddNd("c")
	g.AddEdg(a, b, 1)
	g.AddEdg(b, c, 1)
	view := dgraph.NewView(g, weightOf)

	zero := func(dgraph.NodeID) float64 { return 0 }
	res, err := Search(g, view, []dgraph.NodeID{a}, []dgraph.NodeID{c}, zero)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if math.Abs(res.Cost-2) > 1e-9 {
		t.Fatalf("Cost = %v, want 2", res.Cost)
	}
}
