package basegraph

import (
	"testing"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/params"
)

func twoStationGraph() *comb.Graph {
	cg := comb.New()
	cg.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	cg.AddNode("B", geo.Point{X: 1000, Y: 0}, nil)
	cg.AddEdge("AB", "A", "B", []comb.Child{{}}, 0, 0)
	return cg
}

func TestGetBendPenSymmetric(t *testing.T) {
	gr := NewOctiGraph(twoStationGraph(), params.Default())
	for i := 0; i < gr.numPorts; i++ {
		for j := 0; j < gr.numPorts; j++ {
			a := gr.getBendPen(i, j)
			b := gr.getBendPen(j, i)
			if a != b {
				t.Fatalf("getBendPen(%d,%d)=%v != getBendPen(%d,%d)=%v", i, j, a, j, i, b)
			}
		}
	}
}

func TestNeighRoundTrip(t *testing.T) {
	gr := NewOctiGraph(twoStationGraph(), params.Default())
	for _, s := range gr.sinks {
		c := gr.coordOf[s]
		for dir := 0; dir < gr.numPorts; dir++ {
			n, ok := gr.neigh(c[0], c[1], dir)
			if !ok {
				continue
			}
			nc := gr.coordOf[n]
			back, ok := gr.neigh(nc[0], nc[1], (dir+gr.numPorts/2)%gr.numPorts)
			if !ok || back != s {
				t.Fatalf("neigh(neigh(%v,%d), opposite) = %v, want %v", c, dir, back, s)
			}
		}
	}
}

func TestSettleUnsettleRoundTrip(t *testing.T) {
	cg := twoStationGraph()
	gr := NewOctiGraph(cg, params.Default())

	var a, b dgraph.NodeID
	for _, s := range gr.sinks {
		c := gr.coordOf[s]
		if c == [2]int{0, 0} {
			a = s
		}
		if c == [2]int{1, 0} {
			b = s
		}
	}

	before := snapshotEdges(gr)

	gr.SettleEdg(a, b, "AB", 0)
	ge, _ := gr.GetNEdg(a, b)
	gf, _ := gr.GetNEdg(b, a)
	if _, ok := gr.ResEdgs(ge)["AB"]; !ok {
		t.Fatalf("ResEdgs(a->b) missing AB after SettleEdg")
	}
	if _, ok := gr.ResEdgs(gf)["AB"]; !ok {
		t.Fatalf("ResEdgs(b->a) missing AB after SettleEdg")
	}

	gr.UnSettleEdg("AB", a, b)
	if _, ok := gr.ResEdgs(ge)["AB"]; ok {
		t.Fatalf("ResEdgs(a->b) still has AB after UnSettleEdg")
	}
	if _, ok := gr.ResEdgs(gf)["AB"]; ok {
		t.Fatalf("ResEdgs(b->a) still has AB after UnSettleEdg")
	}

	after := snapshotEdges(gr)
	if len(before) != len(after) {
		t.Fatalf("edge count changed across settle/unsettle round trip")
	}
	for id, b1 := range before {
		b2 := after[id]
		if b1.Closed != b2.Closed || b1.Blocked != b2.Blocked || b1.Cost != b2.Cost {
			t.Fatalf("edge %v state not restored: before=%+v after=%+v", id, b1, b2)
		}
	}
}

func snapshotEdges(gr *Grid) map[dgraph.EdgeID]EdgePL {
	out := make(map[dgraph.EdgeID]EdgePL)
	for _, e := range gr.g.Edges() {
		out[e] = gr.g.EdgePayload(e)
	}
	return out
}

func TestHananGridThreeStations(t *testing.T) {
	cg := comb.New()
	cg.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	cg.AddNode("B", geo.Point{X: 300, Y: 100}, nil)
	cg.AddNode("C", geo.Point{X: 100, Y: 300}, nil)
	cg.AddEdge("AB", "A", "B", []comb.Child{{}}, 0, 0)
	cg.AddEdge("AC", "A", "C", []comb.Child{{}}, 0, 0)

	p := params.Default()
	p.GridSize = 250
	p.HananIters = 1
	gr := NewHananGraph(cg, p)

	// A -> (0,0), B -> round(300/250)=1, round(100/250)=0 -> (1,0),
	// C -> round(100/250)=0, round(300/250)=1 -> (0,1). One round of
	// enrichment adds the cross-product closure point (1,1).
	want := map[[2]int]bool{
		{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true,
	}
	got := map[[2]int]bool{}
	for _, s := range gr.sinks {
		got[gr.coordOf[s]] = true
	}
	if len(got) != len(want) {
		t.Fatalf("Hanan sink set = %v, want %v", got, want)
	}
	for c := range want {
		if !got[c] {
			t.Fatalf("Hanan sink set missing %v; got %v", c, got)
		}
	}
}

func TestAdjacentHorizontalEdgeCost(t *testing.T) {
	cg := twoStationGraph()
	p := params.Default()
	p.HorizontalPen = 1
	p.VerticalPen = 1
	p.DiagonalPen = 1.5
	p.GridSize = 250
	gr := NewOctiGraph(cg, p)

	var a, b dgraph.NodeID
	for _, s := range gr.sinks {
		c := gr.coordOf[s]
		if c == [2]int{0, 0} {
			a = s
		}
		if c == [2]int{1, 0} {
			b = s
		}
	}
	e, ok := gr.GetNEdg(a, b)
	if !ok {
		t.Fatalf("GetNEdg(A,B) not found")
	}
	got := gr.EdgePL(e).Cost
	if got != p.HorizontalPen {
		t.Fatalf("single-hop horizontal edge cost = %v, want %v", got, p.HorizontalPen)
	}
}

// TestFourHopHorizontalPathCost checks the edge costs behind spec.md §8
// scenario 1: on a 250-cellSize grid, the four collinear horizontal
// lattice hops from (0,0) to (4,0) cost 4*horizontalPen in total.
func TestFourHopHorizontalPathCost(t *testing.T) {
	cg := twoStationGraph()
	p := params.Default()
	p.HorizontalPen = 1
	p.VerticalPen = 1
	p.DiagonalPen = 1.5
	p.GridSize = 250
	gr := NewOctiGraph(cg, p)

	var total float64
	for gx := 0; gx < 4; gx++ {
		a, aok := gr.byCoord[[2]int{gx, 0}]
		b, bok := gr.byCoord[[2]int{gx + 1, 0}]
		if !aok || !bok {
			t.Fatalf("missing sink at gx=%d", gx)
		}
		e, ok := gr.GetNEdg(a, b)
		if !ok {
			t.Fatalf("GetNEdg missing at gx=%d", gx)
		}
		total += gr.EdgePL(e).Cost
	}
	want := 4 * p.HorizontalPen
	if total != want {
		t.Fatalf("four-hop horizontal total cost = %v, want %v", total, want)
	}
}
