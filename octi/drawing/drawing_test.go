package drawing_test

import (
	"context"
	"testing"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
	"github.com/transitschema/octilayout/octi/params"
	"github.com/transitschema/octilayout/octi/router"
)

func TestBuildPolylineEndpointsMatchSinks(t *testing.T) {
	cg := comb.New()
	cg.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	cg.AddNode("B", geo.Point{X: 1000, Y: 0}, nil)
	cg.AddEdge("AB", "A", "B", []comb.Child{{Lines: []comb.Line{{ID: "L1"}}}}, 0, 0)

	p := params.Default()
	p.GridSize = 250
	gr := basegraph.NewOctiGraph(cg, p)

	dw, err := router.Run(context.Background(), gr, cg, p, router.Options{})
	if err != nil {
		t.Fatalf("router.Run: %v", err)
	}
	chain, ok := dw.Path("AB")
	if !ok {
		t.Fatalf("AB not settled")
	}

	poly := drawing.BuildPolyline(gr, chain)
	if len(poly) < 2 {
		t.Fatalf("polyline too short: %v", poly)
	}
	aSink, _ := dw.Sink("A")
	bSink, _ := dw.Sink("B")
	if poly[0] != gr.NodePL(aSink).Pos {
		t.Fatalf("polyline start = %v, want sink A's position %v", poly[0], gr.NodePL(aSink).Pos)
	}
	if poly[len(poly)-1] != gr.NodePL(bSink).Pos {
		t.Fatalf("polyline end = %v, want sink B's position %v", poly[len(poly)-1], gr.NodePL(bSink).Pos)
	}
}

func TestAggregateProducesOneEdgePerChildLine(t *testing.T) {
	cg := comb.New()
	cg.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	cg.AddNode("B", geo.Point{X: 1000, Y: 0}, nil)
	cg.AddEdge("AB", "A", "B", []comb.Child{
		{Lines: []comb.Line{{ID: "L1"}, {ID: "L2"}}},
	}, 0, 0)

	p := params.Default()
	p.GridSize = 250
	gr := basegraph.NewOctiGraph(cg, p)

	dw, err := router.Run(context.Background(), gr, cg, p, router.Options{})
	if err != nil {
		t.Fatalf("router.Run: %v", err)
	}

	lg := drawing.Aggregate(gr, cg, dw)
	if len(lg.Edges) != 2 {
		t.Fatalf("got %d rendered edges, want 2 (one per line sharing the one child)", len(lg.Edges))
	}
	if len(lg.Nodes) != 2 {
		t.Fatalf("got %d rendered nodes, want 2", len(lg.Nodes))
	}
}
