package octiio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
)

const twoStationFC = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]},
     "properties": {"id": "A", "stops": [{"id": "A1", "name": "Alpha", "pos": [0, 0]}]}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1000, 0]},
     "properties": {"id": "B"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0,0],[1000,0]]},
     "properties": {"id": "AB", "from": "A", "to": "B",
       "lines": [{"id": "L1", "label": "Line 1", "color": "#f00"}]}}
  ]
}`

func TestDecodeCombGraphTwoStations(t *testing.T) {
	cg, err := DecodeCombGraph(strings.NewReader(twoStationFC))
	if err != nil {
		t.Fatalf("DecodeCombGraph: %v", err)
	}

	if cg.NumNodes() != 2 {
		t.Fatalf("NumNodes = %d, want 2", cg.NumNodes())
	}
	a := cg.Node("A")
	if a == nil {
		t.Fatalf("node A missing")
	}
	if len(a.Stops) != 1 || a.Stops[0].ID != "A1" {
		t.Errorf("A.Stops = %+v, want one stop A1", a.Stops)
	}
	if a.Degree() != 1 {
		t.Errorf("A.Degree() = %d, want 1", a.Degree())
	}

	e := cg.Edge("AB")
	if e == nil {
		t.Fatalf("edge AB missing")
	}
	if e.From != "A" || e.To != "B" {
		t.Errorf("edge AB From/To = %s/%s, want A/B", e.From, e.To)
	}
	if len(e.Children) != 1 || len(e.Children[0].Lines) != 1 || e.Children[0].Lines[0].ID != "L1" {
		t.Errorf("edge AB children = %+v, want one child carrying line L1", e.Children)
	}
}

func TestDecodeCombGraphRejectsMissingID(t *testing.T) {
	bad := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{}}
	]}`
	if _, err := DecodeCombGraph(strings.NewReader(bad)); err == nil {
		t.Fatalf("DecodeCombGraph: want error for Point feature missing id")
	}
}

func TestDecodeCombGraphHonorsExplicitOrder(t *testing.T) {
	fc := `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},
	     "properties":{"id":"A","order":["AC","AB"]}},
	    {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"id":"B"}},
	    {"type":"Feature","geometry":{"type":"Point","coordinates":[-1,1]},"properties":{"id":"C"}},
	    {"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},
	     "properties":{"id":"AB","from":"A","to":"B","lines":[]}},
	    {"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[-1,1]]},
	     "properties":{"id":"AC","from":"A","to":"C","lines":[]}}
	  ]
	}`
	cg, err := DecodeCombGraph(strings.NewReader(fc))
	if err != nil {
		t.Fatalf("DecodeCombGraph: %v", err)
	}
	inc := cg.Node("A").Incident()
	if len(inc) != 2 || inc[0].Edge != "AC" || inc[1].Edge != "AB" {
		t.Errorf("A.Incident() = %+v, want explicit order [AC, AB]", inc)
	}
}

func TestEncodeLineGraphWritesFeatures(t *testing.T) {
	lg := &drawing.LineGraph{
		Nodes: map[comb.NodeID]*drawing.LGNode{
			"A": {ID: "A", Pos: geo.Point{X: 0, Y: 0}, Stops: []comb.Stop{{ID: "A1", Name: "Alpha", Pos: geo.Point{X: 0, Y: 0}}}},
			"B": {ID: "B", Pos: geo.Point{X: 1000, Y: 0}},
		},
		Edges: []*drawing.LGEdge{
			{From: "A", To: "B", Line: comb.Line{ID: "L1", Label: "Line 1", Color: "#f00"},
				Geometry: geo.Polyline{{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 1000, Y: 0}}},
		},
	}

	var buf bytes.Buffer
	if err := EncodeLineGraph(&buf, lg); err != nil {
		t.Fatalf("EncodeLineGraph: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FeatureCollection", "\"id\":\"A\"", "\"id\":\"L1\"", "LineString"} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded output missing %q:\n%s", want, out)
		}
	}
}
