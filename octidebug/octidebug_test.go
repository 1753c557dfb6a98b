package octidebug

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/params"
	"github.com/transitschema/octilayout/octi/router"
)

func testParams() params.Params {
	p := params.Default()
	p.GridSize = 250
	p.HorizontalPen = 1
	p.VerticalPen = 1
	p.DiagonalPen = 1.5
	p.MaxGrDist = 3
	return p
}

func twoStationGraph() *comb.Graph {
	cg := comb.New()
	cg.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	cg.AddNode("B", geo.Point{X: 1000, Y: 0}, nil)
	cg.AddEdge("AB", "A", "B", []comb.Child{{}}, 0, 0)
	return cg
}

func TestDumpBaseGraphWritesNodesAndEdges(t *testing.T) {
	cg := twoStationGraph()
	p := testParams()
	gr := basegraph.NewOctiGraph(cg, p)

	var buf bytes.Buffer
	if err := DumpBaseGraph(&buf, gr); err != nil {
		t.Fatalf("DumpBaseGraph: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("DumpBaseGraph wrote nothing")
	}
	if !strings.Contains(buf.String(), `"id"`) {
		t.Errorf("output missing node/edge id fields:\n%s", buf.String())
	}
}

func TestDumpDrawingWritesSettledStations(t *testing.T) {
	cg := twoStationGraph()
	p := testParams()
	gr := basegraph.NewOctiGraph(cg, p)

	dw, err := router.Run(context.Background(), gr, cg, p, router.Options{})
	if err != nil {
		t.Fatalf("router.Run: %v", err)
	}

	var buf bytes.Buffer
	if err := DumpDrawing(&buf, gr, cg, dw); err != nil {
		t.Fatalf("DumpDrawing: %v", err)
	}
	if !strings.Contains(buf.String(), `"A"`) {
		t.Errorf("output missing station A:\n%s", buf.String())
	}
}
