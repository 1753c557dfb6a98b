// Package router implements the greedy sequential router of spec.md §4.5:
// it orders combinatorial edges by how constrained they are, settles each
// in turn onto the base grid via a shortest-path search between candidate
// sinks, and backtracks locally when a later edge can no longer find a
// path because of an earlier commitment.
//
// Grounded on gverger-go-graph-layout's own greedy placement loop (order
// work items, place one, retry on failure) and on
// original_source/src/octi/basegraph/OctiHananGraph.cpp's settle/unsettle
// pair for the grid mutation itself; the candidate enumeration and
// backtracking control flow have no single original_source counterpart
// (that implementation routes through the ILP encoder directly) and are
// therefore a from-spec design, recorded in DESIGN.md.
package router

import (
	"context"
	"sort"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
	"github.com/transitschema/octilayout/octi/params"
	"github.com/transitschema/octilayout/octierr"
	"github.com/transitschema/octilayout/octilog"
	"github.com/transitschema/octilayout/pathfind"
)

// Options configures a single router run.
type Options struct {
	// MaxBackoff bounds how many already-committed edges a single
	// backtrack step may unsettle before the router gives up on the
	// triggering edge's current position in the order and moves it to the
	// tail. Zero selects a default of 8.
	MaxBackoff int

	// MaxRetries bounds the total number of backtrack steps across the
	// whole run before the router reports an InfeasibleLayout. Zero
	// selects a default of 64 * (number of combinatorial edges + 1).
	MaxRetries int
}

// Run settles every node and edge of cg onto gr, per spec.md §4.5, and
// returns the resulting Drawing. It returns an *octierr.Error with code
// CodeInfeasibleLayout if no ordering/backtracking sequence within the
// configured retry budget succeeds.
//
// ctx carries the run's logger (octilog.FromContext); Run does not itself
// block long enough to need cancellation, but threads ctx through to
// match spec.md §5's "context.Context on every blocking entry point"
// convention, ready for a future cooperative-cancellation checkpoint in
// the backtracking loop.
func Run(ctx context.Context, gr basegraph.Graph, cg *comb.Graph, p params.Params, opts Options) (*drawing.Drawing, error) {
	logger := octilog.FromContext(ctx)
	maxBackoff := opts.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 8
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 64 * (len(cg.Edges()) + 1)
	}

	order := orderByTightness(cg)
	dw := drawing.New()
	committed := make([]comb.EdgeID, 0, len(order))

	logger.Info("routing start", "edges", len(order), "nodes", cg.NumNodes())

	next := 0
	backoff := 1
	retries := 0
	for next < len(order) {
		ceID := order[next]
		ce := cg.Edge(ceID)

		if err := settleOne(gr, cg, dw, ce, p); err != nil {
			retries++
			if retries > maxRetries {
				return nil, octierr.InfeasibleLayout(
					"could not settle edge %q after %d backtrack steps: %v", ceID, retries, err)
			}

			k := backoff
			if k > len(committed) {
				k = len(committed)
			}
			logger.Debug("backtracking", "edge", ceID, "unsettle", k, "retries", retries)

			for i := 0; i < k; i++ {
				undo := committed[len(committed)-1]
				committed = committed[:len(committed)-1]
				unsettleEdge(gr, cg, dw, cg.Edge(undo))
				order = moveToTail(order, undo)
			}
			// The triggering edge itself also moves to the tail, after the
			// unsettled ones. moveToTail keeps the relative order of the
			// rest, so order[:len(committed)] is still exactly the
			// committed prefix, and routing resumes right after it.
			order = moveToTail(order, ceID)
			next = len(committed)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		committed = append(committed, ceID)
		next++
		backoff = 1
	}

	placeIsolatedNodes(gr, cg, dw, p)

	logger.Info("routing done", "cost", dw.Cost, "retries", retries)
	return dw, nil
}

// placeIsolatedNodes implements spec.md §8's boundary condition: a
// CombNode with no incident edges is never visited by settleOne (the main
// loop only iterates edges), so without this pass it would be missing
// from dw.NodeSink entirely. Each such node is assigned to its nearest
// unoccupied sink, expanding the search radius until one is found.
func placeIsolatedNodes(gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing, p params.Params) {
	for _, id := range cg.Nodes() {
		nd := cg.Node(id)
		if nd.Degree() != 0 {
			continue
		}
		if _, ok := dw.Sink(id); ok {
			continue
		}

		occupied := make(map[dgraph.NodeID]bool, len(dw.NodeSink))
		for _, s := range dw.NodeSink {
			occupied[s] = true
		}

		radius := maxCandidateRadius(gr, p, 1)
		var best dgraph.NodeID
		var bestDist float64
		found := false
		for tries := 0; tries < 8; tries++ {
			for _, s := range gr.CandidatesWithin(nd.Pos, radius) {
				if occupied[s] {
					continue
				}
				d := nd.Pos.Dist(gr.NodePL(s).Pos)
				if !found || d < bestDist {
					found = true
					bestDist = d
					best = s
				}
			}
			if found {
				break
			}
			radius *= 2
		}
		if found {
			dw.NodeSink[id] = best
		}
	}
}

// moveToTail returns order with id moved (or re-inserted) at the end.
func moveToTail(order []comb.EdgeID, id comb.EdgeID) []comb.EdgeID {
	out := make([]comb.EdgeID, 0, len(order))
	for _, o := range order {
		if o != id {
			out = append(out, o)
		}
	}
	out = append(out, id)
	return out
}

// orderByTightness sorts combinatorial edges by descending "tightness"
// per spec.md §4.5 step 1: a combination of endpoint degree (higher is
// tighter — fewer valid port assignments remain once neighbors commit to
// their own directions) and geographic length (shorter is tighter — less
// slack for the greedy search to route around an obstruction). Ties break
// on CombEdge ID for reproducibility (spec.md §8).
func orderByTightness(cg *comb.Graph) []comb.EdgeID {
	ids := cg.Edges()
	tightness := func(id comb.EdgeID) float64 {
		e := cg.Edge(id)
		degSum := float64(cg.Node(e.From).Degree() + cg.Node(e.To).Degree())
		length := cg.Node(e.From).Pos.Dist(cg.Node(e.To).Pos)
		return degSum - length/1e6 // length only breaks near-ties in degree
	}
	sort.SliceStable(ids, func(i, j int) bool {
		ti, tj := tightness(ids[i]), tightness(ids[j])
		if ti != tj {
			return ti > tj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// gridDegree counts how many lattice directions sink has a live neighbor
// in, used to exclude sinks too close to the grid boundary to support a
// CombNode of a given degree (spec.md §4.5 step 2a).
func gridDegree(gr basegraph.Graph, sink dgraph.NodeID) int {
	n := 0
	for dir := 0; dir < gr.MaxDeg(); dir++ {
		if _, ok := gr.Neigh(sink, dir); ok {
			n++
		}
	}
	return n
}

// candidateSinks returns the sinks eligible to host CombNode id: its
// already-settled sink as a singleton if one exists, otherwise every
// unoccupied (or self-occupied) sink within p.MaxGrDist grid cells of its
// input position whose grid degree can support its combinatorial degree.
func candidateSinks(gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing, id comb.NodeID, p params.Params) []dgraph.NodeID {
	if s, ok := dw.Sink(id); ok {
		return []dgraph.NodeID{s}
	}

	nd := cg.Node(id)
	deg := nd.Degree()
	radius := maxCandidateRadius(gr, p, deg)

	occupied := make(map[dgraph.NodeID]bool, len(dw.NodeSink))
	for _, s := range dw.NodeSink {
		occupied[s] = true
	}

	var out []dgraph.NodeID
	for _, s := range gr.CandidatesWithin(nd.Pos, radius) {
		if occupied[s] {
			continue
		}
		if gridDegree(gr, s) < deg {
			continue
		}
		out = append(out, s)
	}
	return out
}

// maxCandidateRadius implements spec.md §9's open question over the
// original's MapConstructor::maxD: the shipped behaviour returns the
// literal per-cell radius unconditionally (MapConstructorMaxDLiteral =
// false, the default); setting it true instead scales the radius by the
// node's combinatorial degree, the richer formula maxD(lines, d) = d*lines
// computed in original_source but never returned there.
func maxCandidateRadius(gr basegraph.Graph, p params.Params, deg int) float64 {
	d := p.MaxGrDist * gr.CellSize()
	if !p.MapConstructorMaxDLiteral {
		return d
	}
	return d * float64(deg)
}

// hopHeuristic returns an admissible A* heuristic estimating the
// Chebyshev lattice distance (in grid-coordinate terms) from n to the
// nearest target sink, scaled by the minimum per-hop axis penalty
// (spec.md §4.3's admissibility requirement, §4.4.1's HeurHopCost).
func hopHeuristic(gr basegraph.Graph, targets []dgraph.NodeID, p params.Params) pathfind.Heuristic {
	coords := make([][2]int, len(targets))
	for i, t := range targets {
		pl := gr.NodePL(t)
		coords[i] = [2]int{pl.GX, pl.GY}
	}
	hop := p.HeurHopCost()

	return func(n dgraph.NodeID) float64 {
		pl := gr.NodePL(n)
		gx, gy := pl.GX, pl.GY
		if pl.Kind == basegraph.KindPort {
			parent := gr.NodePL(pl.Parent)
			gx, gy = parent.GX, parent.GY
		}
		best := -1
		for _, c := range coords {
			d := chebyshev(gx, gy, c[0], c[1])
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 {
			return 0
		}
		return float64(best) * hop
	}
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// weightOf is the dgraph.WeightFunc used by both the router and, via
// basegraph.Graph.Dgraph, any other consumer of the grid's live topology:
// closed or blocked edges are priced at dgraph.SoftInf so pathfind's
// gonum view filters them out entirely (spec.md §4.3).
func weightOf(pl basegraph.EdgePL) float64 {
	if pl.Closed || pl.Blocked {
		return dgraph.SoftInf
	}
	return pl.Cost
}

// settleOne attempts to route one combinatorial edge end to end: it opens
// entry edges at every eligible candidate sink for each endpoint not yet
// settled, searches for the cheapest path between those candidate sets,
// and on success commits the winning sinks and every primary grid edge
// along the path via basegraph.Graph.SettleEdg.
func settleOne(gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing, ce *comb.Edge, p params.Params) error {
	fromSink, fromSettled := dw.Sink(ce.From)
	toSink, toSettled := dw.Sink(ce.To)

	candsFrom := candidateSinks(gr, cg, dw, ce.From, p)
	candsTo := candidateSinks(gr, cg, dw, ce.To, p)
	if len(candsFrom) == 0 {
		return octierr.InfeasibleLayout("no candidate sink fits %q (degree %d)", ce.From, cg.Node(ce.From).Degree())
	}
	if len(candsTo) == 0 {
		return octierr.InfeasibleLayout("no candidate sink fits %q (degree %d)", ce.To, cg.Node(ce.To).Degree())
	}

	var openedFrom, openedTo []dgraph.NodeID
	if !fromSettled {
		for _, c := range candsFrom {
			gr.OpenSinkFr(c, gr.NdMovePen(ce.From, c))
			openedFrom = append(openedFrom, c)
		}
	}
	if !toSettled {
		for _, c := range candsTo {
			gr.OpenSinkTo(c, gr.NdMovePen(ce.To, c))
			openedTo = append(openedTo, c)
		}
	}

	cleanup := func() {
		for _, c := range openedFrom {
			gr.CloseSinkFr(c)
		}
		for _, c := range openedTo {
			gr.CloseSinkTo(c)
		}
	}

	g := gr.Dgraph()
	view := dgraph.NewView(g, weightOf)
	heuristic := hopHeuristic(gr, candsTo, p)

	result, err := pathfind.Search(g, view, candsFrom, candsTo, heuristic)
	if err != nil {
		cleanup()
		return err
	}
	if len(result.Path) == 0 {
		cleanup()
		return octierr.InfeasibleLayout("zero-length path for %q", ce.ID)
	}

	winnerFrom, _ := g.Endpoints(result.Path[0])
	_, winnerTo := g.Endpoints(result.Path[len(result.Path)-1])

	for _, c := range openedFrom {
		if c != winnerFrom {
			gr.CloseSinkFr(c)
		}
	}
	for _, c := range openedTo {
		if c != winnerTo {
			gr.CloseSinkTo(c)
		}
	}

	if !fromSettled {
		dw.NodeSink[ce.From] = winnerFrom
	} else {
		winnerFrom = fromSink
	}
	if !toSettled {
		dw.NodeSink[ce.To] = winnerTo
	} else {
		winnerTo = toSink
	}

	chain := make([]dgraph.EdgeID, 0, len(result.Path))
	for _, e := range result.Path {
		pl := gr.EdgePL(e)
		if pl.Secondary {
			continue
		}
		a, b := g.Endpoints(e)
		sinkA := portParent(gr, a)
		sinkB := portParent(gr, b)
		gr.SettleEdg(sinkA, sinkB, ce.ID, dw.NextOrder())
		ge, _ := gr.GetNEdg(sinkA, sinkB)
		chain = append(chain, ge)
	}

	dw.EdgePath[ce.ID] = chain
	dw.EdgeCost[ce.ID] = result.Cost
	dw.Cost += result.Cost
	return nil
}

// unsettleEdge is the exact inverse of settleOne's commit step: it calls
// UnSettleEdg along ce's chain and, if a settled endpoint no longer
// backs any committed edge, removes it from the Drawing so a later
// candidateSinks call is free to reconsider it.
func unsettleEdge(gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing, ce *comb.Edge) {
	chain, ok := dw.Path(ce.ID)
	if !ok {
		return
	}
	for _, ge := range chain {
		a, b := gr.Dgraph().Endpoints(ge)
		sinkA := portParent(gr, a)
		sinkB := portParent(gr, b)
		gr.UnSettleEdg(ce.ID, sinkA, sinkB)
	}
	dw.Cost -= dw.EdgeCost[ce.ID]
	delete(dw.EdgeCost, ce.ID)
	delete(dw.EdgePath, ce.ID)

	for _, id := range []comb.NodeID{ce.From, ce.To} {
		if stillUsed(cg, dw, id) {
			continue
		}
		delete(dw.NodeSink, id)
	}
}

// stillUsed reports whether any currently-settled CombEdge still touches
// CombNode id.
func stillUsed(cg *comb.Graph, dw *drawing.Drawing, id comb.NodeID) bool {
	nd := cg.Node(id)
	for _, inc := range nd.Incident() {
		if _, ok := dw.Path(inc.Edge); ok {
			return true
		}
	}
	return false
}

// portParent returns n itself if it is already a sink, or its parent sink
// if it is a port.
func portParent(gr basegraph.Graph, n dgraph.NodeID) dgraph.NodeID {
	pl := gr.NodePL(n)
	if pl.Kind == basegraph.KindSink {
		return n
	}
	return pl.Parent
}

