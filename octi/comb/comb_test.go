package comb

import (
	"testing"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octierr"
)

func TestAddEdgeUpdatesIncidentOrder(t *testing.T) {
	g := New()
	a := g.AddNode("A", geo.Point{X: 0, Y: 0}, nil)
	g.AddNode("B", geo.Point{X: 1, Y: 0}, nil)
	g.AddNode("C", geo.Point{X: 0, Y: 1}, nil)

	g.AddEdge("AB", "A", "B", nil, 1.0, 0)
	g.AddEdge("AC", "A", "C", nil, 0.5, 0)

	order := a.Incident()
	if len(order) != 2 {
		t.Fatalf("Incident() len = %d, want 2", len(order))
	}
	if order[0].Edge != "AC" || order[1].Edge != "AB" {
		t.Fatalf("Incident() = %+v, want AC before AB by angle", order)
	}
}

func TestDegree(t *testing.T) {
	g := New()
	g.AddNode("A", geo.Point{}, nil)
	g.AddNode("B", geo.Point{}, nil)
	g.AddNode("C", geo.Point{}, nil)
	g.AddEdge("AB", "A", "B", nil, 0, 0)
	g.AddEdge("AC", "A", "C", nil, 0, 0)

	if d := g.Node("A").Degree(); d != 2 {
		t.Fatalf("Degree(A) = %d, want 2", d)
	}
	if d := g.Node("B").Degree(); d != 1 {
		t.Fatalf("Degree(B) = %d, want 1", d)
	}
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	g := New()
	g.AddNode("A", geo.Point{}, nil)
	e := &Edge{ID: "AX", From: "A", To: "X", seq: 0}
	g.edges["AX"] = e

	err := g.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, want error")
	}
	if !octierr.Is(err, octierr.CodeInvalidInput) {
		t.Fatalf("Validate() error code = %v, want CodeInvalidInput", octierr.GetCode(err))
	}
}

func TestNodesDeterministicOrder(t *testing.T) {
	g := New()
	g.AddNode("Z", geo.Point{}, nil)
	g.AddNode("A", geo.Point{}, nil)
	g.AddNode("M", geo.Point{}, nil)

	ids := g.Nodes()
	want := []NodeID{"Z", "A", "M"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("Nodes()[%d] = %v, want %v (insertion order)", i, ids[i], id)
		}
	}
}
