package basegraph

import (
	"math"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/comb"
)

// getDir returns the port-direction index whose lattice vector best
// matches b-a, per spec.md §4.4.2's "getNEdg ties break on getDir".
// Grounded on OctiHananGraph::getNEdg/getDir in original_source, which
// picks a's own axial direction toward b rather than recomputing angles
// from scratch every call.
func (gr *Grid) getDir(a, b dgraph.NodeID) int {
	pa := gr.g.NodePayload(a).Pos
	pb := gr.g.NodePayload(b).Pos
	dx, dy := pb.X-pa.X, pb.Y-pa.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	angle := math.Atan2(dx, dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	step := 2 * math.Pi / float64(gr.numPorts)
	dir := int(math.Round(angle/step)) % gr.numPorts
	if dir < 0 {
		dir += gr.numPorts
	}
	return dir
}

// GetNEdg implements Graph: the primary grid edge running from sink a's
// port (toward b) to sink b's opposing port, per spec.md §4.4.2.
func (gr *Grid) GetNEdg(a, b dgraph.NodeID) (dgraph.EdgeID, bool) {
	dir := gr.getDir(a, b)
	half := gr.numPorts / 2
	pa := gr.g.NodePayload(a).Ports[dir]
	pb := gr.g.NodePayload(b).Ports[(dir+half)%gr.numPorts]
	return gr.g.GetEdg(pa, pb)
}

// WriteInitialCosts implements Graph: reset every edge's cost to
// its BaseCost, the value baked in at construction (spec.md §4.4.1). This
// is idempotent and cheap enough to call after Reset without re-deriving
// the per-hop formula.
func (gr *Grid) WriteInitialCosts() {
	for _, e := range gr.g.Edges() {
		pl := gr.g.EdgePayload(e)
		pl.Cost = pl.BaseCost
		gr.g.SetEdgePayload(e, pl)
	}
}

// NdMovePen implements Graph per spec.md §4.4.2: the penalty for snapping
// combinatorial node cbNd onto sink grNd, grounded verbatim on
// OctiHananGraph::ndMovePen in original_source (the "diagonal edge may be
// substituted by a horizontal+bend+vertical detour" formula).
func (gr *Grid) NdMovePen(cbNd comb.NodeID, grNd dgraph.NodeID) float64 {
	nd := gr.cg.Node(cbNd)
	if nd == nil {
		return 0
	}
	sink := gr.g.NodePayload(grNd)

	bend0 := gr.p.Bend[0]
	bend2 := gr.p.Bend[2]
	bend3 := gr.p.Bend[3]

	diagCost := bend0 + math.Min(gr.p.DiagonalPen, gr.p.HorizontalPen+gr.p.VerticalPen+bend2)
	vertCost := bend0 + math.Min(gr.p.VerticalPen, gr.p.HorizontalPen+gr.p.DiagonalPen+bend3)
	horiCost := bend0 + math.Min(gr.p.HorizontalPen, gr.p.VerticalPen+gr.p.DiagonalPen+bend3)

	penPerGrid := movePen + math.Max(diagCost, math.Max(vertCost, horiCost))

	d := nd.Pos.Dist(sink.Pos)
	gridD := d / gr.p.GridSize

	return gridD * penPerGrid
}

// GetCrossEdgPairs implements Graph: every registered diagonal crossing,
// per spec.md §3's CrossEdgPair.
func (gr *Grid) GetCrossEdgPairs() []CrossEdgPair {
	out := make([]CrossEdgPair, len(gr.crossPairs))
	copy(out, gr.crossPairs)
	return out
}

// Reset implements Graph per spec.md §5: between the greedy and ILP
// phases, every edge is opened and unblocked, and every sink has its
// turns reopened and both sink-entry directions closed again. This clears
// only per-run mutable state; the structural graph (sinks, ports,
// secondary/primary edge topology, crossPairs) is untouched.
func (gr *Grid) Reset() {
	for _, e := range gr.g.Edges() {
		pl := gr.g.EdgePayload(e)
		pl.Closed = false
		pl.Blocked = false
		pl.ResEdgs = nil
		pl.RenderOrder = 0
		gr.g.SetEdgePayload(e, pl)
	}
	gr.WriteInitialCosts()
	gr.rndrOrdNext = 0

	for _, s := range gr.sinks {
		pl := gr.g.NodePayload(s)
		pl.Settled = false
		pl.SettledBy = ""
		for i := range pl.SunkFr {
			pl.SunkFr[i] = false
			pl.SunkTo[i] = false
		}
		gr.g.SetNodePayload(s, pl)
		gr.OpenTurns(s)
		gr.CloseSinkFr(s)
		gr.CloseSinkTo(s)
	}
}

// entryEdges returns, for sink s, the twin edge pair (sink->port,
// port->sink) in direction dir.
func (gr *Grid) entryEdges(s dgraph.NodeID, dir int) (toPort, toSink dgraph.EdgeID, ok bool) {
	port := gr.g.NodePayload(s).Ports[dir]
	toPort, ok = gr.g.GetEdg(s, port)
	if !ok {
		return 0, 0, false
	}
	toSink, ok = gr.g.GetEdg(port, s)
	return toPort, toSink, ok
}

// setSecondaryOpen sets the Closed flag (and, when closing, a SoftInf cost;
// when opening, the BaseCost) on the single secondary edge e; its twin is
// left untouched.
func (gr *Grid) setSecondaryOpen(e dgraph.EdgeID, open bool) {
	pl := gr.g.EdgePayload(e)
	pl.Closed = !open
	if open {
		pl.Cost = pl.BaseCost
	} else {
		pl.Cost = dgraph.SoftInf
	}
	gr.g.SetEdgePayload(e, pl)
}

// OpenTurns implements Graph per spec.md §4.4.2: every bend (port<->port)
// edge at sink is set to its stored bend cost and opened; entry edges are
// left as they were (callers that also want pass-through must reopen the
// sink-fr/to directions separately).
func (gr *Grid) OpenTurns(sink dgraph.NodeID) {
	pl := gr.g.NodePayload(sink)
	ports := pl.Ports
	for i := 0; i < gr.numPorts; i++ {
		for j := i + 1; j < gr.numPorts; j++ {
			if e, ok := gr.g.GetEdg(ports[i], ports[j]); ok {
				gr.setSecondaryOpen(e, true)
			}
			if e, ok := gr.g.GetEdg(ports[j], ports[i]); ok {
				gr.setSecondaryOpen(e, true)
			}
		}
	}
}

// CloseTurns implements Graph per spec.md §4.4.2: every bend edge at sink
// is forced to SoftInf (no pass-through), while entry edges stay exactly
// as "sunk" per SunkFr/SunkTo — this is what settleEdg relies on to keep
// a settled sink usable only along the direction it was settled in.
func (gr *Grid) CloseTurns(sink dgraph.NodeID) {
	pl := gr.g.NodePayload(sink)
	ports := pl.Ports
	for i := 0; i < gr.numPorts; i++ {
		for j := i + 1; j < gr.numPorts; j++ {
			if e, ok := gr.g.GetEdg(ports[i], ports[j]); ok {
				gr.setSecondaryOpen(e, false)
			}
			if e, ok := gr.g.GetEdg(ports[j], ports[i]); ok {
				gr.setSecondaryOpen(e, false)
			}
		}
	}
}

// OpenSinkFr implements Graph: opens the sink->port entry edge for every
// direction, weighted by pen (the router's ndMovePen / the ILP's 0),
// marking each direction SunkFr; the mark is cleared again by CloseSinkFr
// and Reset.
func (gr *Grid) OpenSinkFr(sink dgraph.NodeID, pen float64) {
	pl := gr.g.NodePayload(sink)
	for dir := 0; dir < gr.numPorts; dir++ {
		toPort, _, ok := gr.entryEdges(sink, dir)
		if !ok {
			continue
		}
		epl := gr.g.EdgePayload(toPort)
		epl.Closed = false
		epl.Cost = pen
		gr.g.SetEdgePayload(toPort, epl)
		pl.SunkFr[dir] = true
	}
	gr.g.SetNodePayload(sink, pl)
}

// OpenSinkTo implements Graph: the inbound (port->sink) counterpart of
// OpenSinkFr.
func (gr *Grid) OpenSinkTo(sink dgraph.NodeID, pen float64) {
	pl := gr.g.NodePayload(sink)
	for dir := 0; dir < gr.numPorts; dir++ {
		_, toSink, ok := gr.entryEdges(sink, dir)
		if !ok {
			continue
		}
		epl := gr.g.EdgePayload(toSink)
		epl.Closed = false
		epl.Cost = pen
		gr.g.SetEdgePayload(toSink, epl)
		pl.SunkTo[dir] = true
	}
	gr.g.SetNodePayload(sink, pl)
}

// CloseSinkFr implements Graph: closes every sink->port entry edge and
// clears SunkFr.
func (gr *Grid) CloseSinkFr(sink dgraph.NodeID) {
	pl := gr.g.NodePayload(sink)
	for dir := 0; dir < gr.numPorts; dir++ {
		toPort, _, ok := gr.entryEdges(sink, dir)
		if !ok {
			continue
		}
		gr.setSecondaryOpen(toPort, false)
		pl.SunkFr[dir] = false
	}
	gr.g.SetNodePayload(sink, pl)
}

// CloseSinkTo implements Graph: closes every port->sink entry edge and
// clears SunkTo.
func (gr *Grid) CloseSinkTo(sink dgraph.NodeID) {
	pl := gr.g.NodePayload(sink)
	for dir := 0; dir < gr.numPorts; dir++ {
		_, toSink, ok := gr.entryEdges(sink, dir)
		if !ok {
			continue
		}
		gr.setSecondaryOpen(toSink, false)
		pl.SunkTo[dir] = false
	}
	gr.g.SetNodePayload(sink, pl)
}

// addResEdg records ce as using e (and e's BaseCost is never changed by
// this — only Closed/Blocked toggle the effective routing cost).
func (gr *Grid) addResEdg(e dgraph.EdgeID, ce comb.EdgeID) {
	pl := gr.g.EdgePayload(e)
	if pl.ResEdgs == nil {
		pl.ResEdgs = make(map[comb.EdgeID]struct{})
	}
	pl.ResEdgs[ce] = struct{}{}
	gr.g.SetEdgePayload(e, pl)
}

func (gr *Grid) delResEdg(e dgraph.EdgeID, ce comb.EdgeID) (empty bool) {
	pl := gr.g.EdgePayload(e)
	delete(pl.ResEdgs, ce)
	empty = len(pl.ResEdgs) == 0
	gr.g.SetEdgePayload(e, pl)
	return empty
}

// ResEdgs returns the set of CombEdges currently routed through e.
func (gr *Grid) ResEdgs(e dgraph.EdgeID) map[comb.EdgeID]struct{} {
	return gr.g.EdgePayload(e).ResEdgs
}

// unused reports whether sink still has any resEdgs on any incident
// primary (non-secondary) edge — used by UnSettleEdg to decide whether
// it's now safe to reopen turns there.
func (gr *Grid) unused(sink dgraph.NodeID) bool {
	pl := gr.g.NodePayload(sink)
	for _, port := range pl.Ports {
		for _, e := range gr.g.AdjAll(port) {
			epl := gr.g.EdgePayload(e)
			if !epl.Secondary && epl.HasRes() {
				return false
			}
		}
	}
	return true
}

// SettleEdg implements Graph per spec.md §4.4.2, grounded verbatim on
// OctiHananGraph::settleEdg in original_source: marks the twin edges
// between a and b as used by ce, assigns a render order, closes turns at
// both endpoints, and blocks any diagonal pair crossing this edge.
func (gr *Grid) SettleEdg(a, b dgraph.NodeID, ce comb.EdgeID, order int) {
	if a == b {
		return
	}
	ge, _ := gr.GetNEdg(a, b)
	gf, _ := gr.GetNEdg(b, a)

	gr.addResEdg(ge, ce)
	gr.addResEdg(gf, ce)

	gePL := gr.g.EdgePayload(ge)
	gePL.RenderOrder = order
	gr.g.SetEdgePayload(ge, gePL)

	gr.CloseTurns(a)
	gr.CloseTurns(b)

	aPL := gr.g.NodePayload(a)
	aPL.Settled = true
	gr.g.SetNodePayload(a, aPL)
	bPL := gr.g.NodePayload(b)
	bPL.Settled = true
	gr.g.SetNodePayload(b, bPL)

	dir := gr.getDir(a, b)
	if isDiagonal(dir, gr.numPorts) {
		gr.setBlockedCrossing(ge, true)
	}
}

// UnSettleEdg implements Graph per spec.md §4.4.2, the exact inverse of
// SettleEdg: removes ce from both twin edges, and if they're now unused,
// reopens turns at any endpoint not otherwise settled and unblocks any
// diagonal pair that was only blocked on this edge's account.
func (gr *Grid) UnSettleEdg(ce comb.EdgeID, a, b dgraph.NodeID) {
	if a == b {
		return
	}
	ge, _ := gr.GetNEdg(a, b)
	gf, _ := gr.GetNEdg(b, a)

	emptyFwd := gr.delResEdg(ge, ce)
	gr.delResEdg(gf, ce)

	if emptyFwd {
		if !gr.g.NodePayload(a).Settled || gr.unused(a) {
			gr.OpenTurns(a)
		}
		if !gr.g.NodePayload(b).Settled || gr.unused(b) {
			gr.OpenTurns(b)
		}

		dir := gr.getDir(a, b)
		if isDiagonal(dir, gr.numPorts) {
			gr.setBlockedCrossing(ge, false)
		}
	}
}

// setBlockedCrossing sets Blocked on every diagonal edge crossing e (and
// its twin direction), per spec.md §3's CrossEdgPair invariant.
func (gr *Grid) setBlockedCrossing(e dgraph.EdgeID, blocked bool) {
	for _, pair := range gr.crossPairs {
		var other dgraph.EdgeID
		switch e {
		case pair.A:
			other = pair.B
		case pair.B:
			other = pair.A
		default:
			continue
		}
		gr.setBlockedOne(other, blocked)
		if twin, ok := gr.g.Twin(other); ok {
			gr.setBlockedOne(twin, blocked)
		}
	}
}

func (gr *Grid) setBlockedOne(e dgraph.EdgeID, blocked bool) {
	pl := gr.g.EdgePayload(e)
	pl.Blocked = blocked
	gr.g.SetEdgePayload(e, pl)
}
