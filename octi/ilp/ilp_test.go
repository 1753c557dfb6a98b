package ilp

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

// TestInMemorySolverPicksCheaperFeasibleOption exercises the Solver
// interface directly, independent of the grid encoder: two binary
// choices, a row forbidding both at once, and nothing forcing either on,
// so the cheapest feasible assignment sets both to zero.
func TestInMemorySolverPicksCheaperFeasibleOption(t *testing.T) {
	s := NewInMemorySolver()
	x := s.AddCol("x", VarBinary, 0, 1, 1)
	y := s.AddCol("y", VarBinary, 0, 1, 2)
	row := s.AddRow("atmostone", SenseLE, 1)
	s.AddColToRow(row, x, 1)
	s.AddColToRow(row, y, 1)

	status, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if status != StatusOptimal {
		t.Fatalf("status = %v, want StatusOptimal", status)
	}
	// Minimizing x+2y under x+y<=1: the cheapest feasible choice is
	// everything zero, since nothing forces either variable on.
	if s.VarVal(x) != 0 || s.VarVal(y) != 0 {
		t.Fatalf("got x=%v y=%v, want both 0 (unconstrained minimum)", s.VarVal(x), s.VarVal(y))
	}
}

// TestInMemorySolverRequiresOneOfTwo checks a row that forces a choice,
// confirming the cheaper option of the two feasible ones is picked.
func TestInMemorySolverRequiresOneOfTwo(t *testing.T) {
	s := NewInMemorySolver()
	x := s.AddCol("x", VarBinary, 0, 1, 3)
	y := s.AddCol("y", VarBinary, 0, 1, 5)
	row := s.AddRow("exactlyone", SenseEQ, 1)
	s.AddColToRow(row, x, 1)
	s.AddColToRow(row, y, 1)

	status, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if status != StatusOptimal {
		t.Fatalf("status = %v, want StatusOptimal", status)
	}
	if s.VarVal(x) != 1 || s.VarVal(y) != 0 {
		t.Fatalf("got x=%v y=%v, want x=1 y=0 (cheaper of the two feasible picks)", s.VarVal(x), s.VarVal(y))
	}
}

func TestInMemorySolverInfeasible(t *testing.T) {
	s := NewInMemorySolver()
	x := s.AddCol("x", VarBinary, 0, 1, 0)
	row := s.AddRow("impossible", SenseGE, 2)
	s.AddColToRow(row, x, 1)

	status, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if status != StatusInfeasible {
		t.Fatalf("status = %v, want StatusInfeasible", status)
	}
}

func TestWriteMPSAndMST(t *testing.T) {
	s := NewInMemorySolver()
	x := s.AddCol("x", VarBinary, 0, 1, 1)
	y := s.AddCol("y", VarInteger, 0, 3, 2)
	row := s.AddRow("r1", SenseLE, 2)
	s.AddColToRow(row, x, 1)
	s.AddColToRow(row, y, 1)
	s.SetStarter(x, 1)

	var mps bytes.Buffer
	if err := s.WriteMPS(&mps); err != nil {
		t.Fatalf("WriteMPS: %v", err)
	}
	out := mps.String()
	for _, want := range []string{"ROWS", "COLUMNS", "RHS", "BOUNDS", "ENDATA", "MARKER", "INTORG", "INTEND"} {
		if !strings.Contains(out, want) {
			t.Errorf("MPS output missing %q:\n%s", want, out)
		}
	}

	var mst bytes.Buffer
	if err := s.WriteMST(&mst); err != nil {
		t.Fatalf("WriteMST: %v", err)
	}
	if !strings.Contains(mst.String(), "x") {
		t.Errorf("MST output missing starter column %q:\n%s", "x", mst.String())
	}
}

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

// TestEncodeBuildsCoreVariableFamilies checks the encoder's structural
// output without ever calling Solve: for a two-station instance the
// station-position and edge-use families must be non-empty, and each
// node with nonzero degree must get an exactly-one-position row.
func TestEncodeBuildsCoreVariableFamilies(t *testing.T) {
	cg := twoStationGraph()
	p := testParams()
	gr := basegraph.NewOctiGraph(cg, p)
	s := NewInMemorySolver()

	enc := NewEncoder(gr, cg, p, s)
	if err := enc.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(enc.spCol) == 0 {
		t.Fatalf("no station-position variables created")
	}
	if len(enc.edgCol) == 0 {
		t.Fatalf("no edge-use variables created")
	}
	if len(enc.dCol) != 2 {
		t.Fatalf("direction variables = %d, want 2 (one per CombEdge endpoint)", len(enc.dCol))
	}

	wantRow := "onepos_A"
	found := false
	for _, r := range s.rows {
		if r.name == wantRow {
			found = true
			if r.sense != SenseEQ || r.rhs != 1 {
				t.Errorf("row %q = %+v, want sense EQ rhs 1", wantRow, r)
			}
		}
	}
	if !found {
		t.Fatalf("missing exactly-one-position row %q", wantRow)
	}
}

// TestWarmStartMarksRouterSolutionFeasible runs the greedy router first,
// then checks WarmStart sets a starter of 1 on exactly the sink the
// router chose for each station, and 0 on every other candidate.
func TestWarmStartMarksRouterSolutionFeasible(t *testing.T) {
	cg := twoStationGraph()
	p := testParams()
	gr := basegraph.NewOctiGraph(cg, p)

	dw, err := router.Run(context.Background(), gr, cg, p, router.Options{})
	if err != nil {
		t.Fatalf("router.Run: %v", err)
	}

	gr2 := basegraph.NewOctiGraph(cg, p)
	s := NewInMemorySolver()
	enc := NewEncoder(gr2, cg, p, s)
	if err := enc.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	enc.WarmStart(dw)

	winner, ok := dw.Sink("A")
	if !ok {
		t.Fatalf("router did not settle A")
	}

	sawWinner := false
	for _, v := range enc.cands["A"] {
		col := enc.spCol[spKey{"A", v}]
		want := 0.0
		if v == winner {
			want = 1
			sawWinner = true
		}
		if s.cols[col].starter != want {
			t.Errorf("sp(A,%v) starter = %v, want %v", v, s.cols[col].starter, want)
		}
	}
	if !sawWinner {
		t.Fatalf("router's chosen sink for A is not among the ILP's own candidates for A")
	}
}
