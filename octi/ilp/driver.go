package ilp

import (
	"context"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
	"github.com/transitschema/octilayout/octi/params"
	"github.com/transitschema/octilayout/octierr"
	"github.com/transitschema/octilayout/octilog"
)

// Run builds and solves the ILP of spec.md §4.6 over gr/cg, warm-started
// from warmStart if non-nil, and extracts a Drawing from the solution.
//
// gr is reset before encoding (Graph.Reset) so the solver sees the grid's
// base costs rather than whatever the greedy router left settled.
func Run(ctx context.Context, gr basegraph.Graph, cg *comb.Graph, p params.Params, warmStart *drawing.Drawing, solver Solver) (*drawing.Drawing, error) {
	logger := octilog.FromContext(ctx)
	gr.Reset()

	enc := NewEncoder(gr, cg, p, solver)
	if err := enc.Encode(); err != nil {
		return nil, err
	}
	if warmStart != nil {
		enc.WarmStart(warmStart)
	}

	solver.SetTimeLimit(p.ILP.TimeLim)
	solver.SetNumThreads(p.ILP.NumThreads)

	status, err := solver.Solve(ctx)
	if err != nil {
		return nil, octierr.Wrap(octierr.CodeSolverUnavailable, err, "ILP solve failed")
	}

	switch status {
	case StatusInfeasible:
		return nil, octierr.NoSolution("ILP encoding of %d combinatorial edges is infeasible", len(cg.Edges()))
	case StatusUnavailable:
		return nil, octierr.SolverUnavailable("ILP solver %q unavailable or timed out without a status", p.ILP.Solver)
	}

	logger.Info("ilp solved", "status", status)
	return enc.Extract(status == StatusTimeLimit), nil
}

// Extract reads the solved column values back into a Drawing: station
// positions from sp, edge chains from edg, per spec.md §4.6.
func (enc *Encoder) Extract(timeLimited bool) *drawing.Drawing {
	dw := drawing.New()
	dw.Optimal = !timeLimited

	for _, n := range enc.cg.Nodes() {
		for _, v := range enc.cands[n] {
			col, ok := enc.spCol[spKey{n, v}]
			if ok && enc.s.VarVal(col) > 0.5 {
				dw.NodeSink[n] = v
			}
		}
	}

	g := enc.gr.Dgraph()
	for _, ceID := range enc.cg.Edges() {
		var used []dgraph.EdgeID
		for _, e := range enc.primaryEdges {
			col, ok := enc.edgCol[edgKey{e, ceID}]
			if ok && enc.s.VarVal(col) > 0.5 {
				used = append(used, e)
			}
		}
		if len(used) == 0 {
			continue
		}
		chain, cost := orderChain(g, enc.gr, used)
		dw.EdgePath[ceID] = chain
		dw.EdgeCost[ceID] = cost
		dw.Cost += cost
	}

	return dw
}

// orderChain stitches a set of used primary edges (unordered, one hop
// each) into a single From->To ordered chain by following adjacency, per
// the same "chain of settled primary edges" contract octi/router builds.
func orderChain(g *dgraph.Graph[basegraph.NodePL, basegraph.EdgePL], gr basegraph.Graph, used []dgraph.EdgeID) ([]dgraph.EdgeID, float64) {
	byFrom := make(map[dgraph.NodeID]dgraph.EdgeID, len(used))
	indeg := make(map[dgraph.NodeID]int, len(used))
	outdeg := make(map[dgraph.NodeID]int, len(used))
	for _, e := range used {
		from, to := g.Endpoints(e)
		byFrom[portParentOf(gr, from)] = e
		outdeg[portParentOf(gr, from)]++
		indeg[portParentOf(gr, to)]++
	}

	var start dgraph.NodeID
	found := false
	for n, o := range outdeg {
		if o > indeg[n] {
			start = n
			found = true
			break
		}
	}
	if !found {
		for n := range byFrom {
			start = n
			break
		}
	}

	var chain []dgraph.EdgeID
	cost := 0.0
	cur := start
	for i := 0; i < len(used); i++ {
		e, ok := byFrom[cur]
		if !ok {
			break
		}
		chain = append(chain, e)
		cost += gr.EdgePL(e).Cost
		_, to := g.Endpoints(e)
		cur = portParentOf(gr, to)
	}
	return chain, cost
}
