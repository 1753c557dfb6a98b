package ilp

import (
	"sort"
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
	"github.com/transitschema/octilayout/octi/params"
)

// Encoder builds the single mixed-integer program of spec.md §4.6 over a
// base grid and combinatorial graph, following
// original_source/src/octi/ilp/ILPGridOptimizer.cpp's createProblem: every
// variable and constraint is added through the Solver seam, never through
// a solver-specific API.
type Encoder struct {
	gr basegraph.Graph
	cg *comb.Graph
	p  params.Params
	s  Solver

	maxDeg int
	half   int

	spCol   map[spKey]int
	edgCol  map[edgKey]int
	dCol    map[dKey]int
	vulnCol map[vulnKey]int
	dkCol   map[dkKey]int
	negCol  map[pairKey]int

	cands        map[comb.NodeID][]dgraph.NodeID
	primaryEdges []dgraph.EdgeID
}

type spKey struct {
	n comb.NodeID
	v dgraph.NodeID
}

type edgKey struct {
	e  dgraph.EdgeID
	ce comb.EdgeID
}

type dKey struct {
	n  comb.NodeID
	ce comb.EdgeID
}

type vulnKey struct {
	n comb.NodeID
	i int
}

type dkKey struct {
	pairKey
	k int
}

type pairKey struct {
	a, b comb.EdgeID
}

// NewEncoder returns an Encoder ready to Encode gr/cg's layout problem into
// s.
func NewEncoder(gr basegraph.Graph, cg *comb.Graph, p params.Params, s Solver) *Encoder {
	return &Encoder{
		gr: gr, cg: cg, p: p, s: s,
		maxDeg:  gr.MaxDeg(),
		half:    gr.MaxDeg() / 2,
		spCol:   make(map[spKey]int),
		edgCol:  make(map[edgKey]int),
		dCol:    make(map[dKey]int),
		vulnCol: make(map[vulnKey]int),
		dkCol:   make(map[dkKey]int),
		negCol:  make(map[pairKey]int),
		cands:   make(map[comb.NodeID][]dgraph.NodeID),
	}
}

// Encode adds every variable and constraint family of spec.md §4.6 to the
// encoder's Solver.
func (enc *Encoder) Encode() error {
	enc.collectPrimaryEdges()
	enc.collectCandidates()

	enc.addStationPositionVars()
	enc.addEdgeUseVars()
	enc.addDirectionVars()
	enc.addVulnVars()
	enc.addAngleClassVars()

	enc.c1ExactlyOnePosition()
	enc.c2AtMostOneUse()
	enc.c3FlowConservation()
	enc.c5SinkExclusivity()
	enc.c6DiagonalNonCrossing()
	enc.c7DirectionWiring()
	enc.c8CircularOrder()
	enc.c9AngleClass()

	return nil
}

// collectPrimaryEdges gathers every non-secondary, non-blocked grid edge
// (both directions), the `edg` family's domain (spec.md §4.6's "each
// primary grid edge e with finite cost").
func (enc *Encoder) collectPrimaryEdges() {
	g := enc.gr.Dgraph()
	var ids []dgraph.EdgeID
	for _, e := range g.Edges() {
		pl := enc.gr.EdgePL(e)
		if pl.Secondary || pl.Blocked {
			continue
		}
		ids = append(ids, e)
	}
	slices.Sort(ids)
	enc.primaryEdges = ids
}

// collectCandidates computes, per CombNode, the sinks eligible to hold it:
// every sink within MaxGrDist grid cells whose lattice degree can support
// the node's combinatorial degree, per spec.md §4.5 step 2a's `cands`
// reused verbatim for the ILP's own candidate radius.
func (enc *Encoder) collectCandidates() {
	for _, id := range enc.cg.Nodes() {
		nd := enc.cg.Node(id)
		if nd.Degree() == 0 {
			continue
		}
		radius := maxCandidateRadius(enc.gr, enc.p, nd.Degree())
		var out []dgraph.NodeID
		for _, s := range enc.gr.CandidatesWithin(nd.Pos, radius) {
			if gridDegree(enc.gr, s) < nd.Degree() {
				continue
			}
			out = append(out, s)
		}
		slices.Sort(out)
		enc.cands[id] = out
	}
}

// maxCandidateRadius mirrors octi/router's own candidate-radius switch,
// per spec.md §9's open question over the original's MapConstructor::maxD:
// MapConstructorMaxDLiteral=false (the default) returns the shipped
// literal per-cell radius; true scales it by the node's combinatorial
// degree, the richer maxD(lines, d) = d*lines formula original_source
// computed but never returned.
func maxCandidateRadius(gr basegraph.Graph, p params.Params, deg int) float64 {
	d := p.MaxGrDist * gr.CellSize()
	if !p.MapConstructorMaxDLiteral {
		return d
	}
	return d * float64(deg)
}

// gridDegree counts sink's live lattice neighbors, duplicated from
// octi/router's helper of the same name (spec.md §4.5 step 2a) to keep
// octi/ilp free of a dependency on octi/router.
func gridDegree(gr basegraph.Graph, sink dgraph.NodeID) int {
	n := 0
	for dir := 0; dir < gr.MaxDeg(); dir++ {
		if _, ok := gr.Neigh(sink, dir); ok {
			n++
		}
	}
	return n
}

func (enc *Encoder) addStationPositionVars() {
	for _, n := range enc.cg.Nodes() {
		for _, v := range enc.cands[n] {
			col := enc.s.AddCol(spName(n, v), VarBinary, 0, 1, enc.gr.NdMovePen(n, v))
			enc.spCol[spKey{n, v}] = col
		}
	}
}

func (enc *Encoder) addEdgeUseVars() {
	for _, ce := range enc.cg.Edges() {
		for _, e := range enc.primaryEdges {
			pl := enc.gr.EdgePL(e)
			col := enc.s.AddCol(edgName(e, ce), VarBinary, 0, 1, pl.Cost)
			enc.edgCol[edgKey{e, ce}] = col
		}
	}
}

func (enc *Encoder) addDirectionVars() {
	for _, ceID := range enc.cg.Edges() {
		ce := enc.cg.Edge(ceID)
		for _, n := range []comb.NodeID{ce.From, ce.To} {
			col := enc.s.AddCol(dName(n, ceID), VarInteger, 0, float64(enc.maxDeg-1), 0)
			enc.dCol[dKey{n, ceID}] = col
		}
	}
}

func (enc *Encoder) addVulnVars() {
	for _, id := range enc.cg.Nodes() {
		nd := enc.cg.Node(id)
		if nd.Degree() < 3 {
			continue
		}
		for i := 0; i < nd.Degree(); i++ {
			col := enc.s.AddCol(vulnName(id, i), VarBinary, 0, 1, 0)
			enc.vulnCol[vulnKey{id, i}] = col
		}
	}
}

// addAngleClassVars adds both d_k(a,b) (objective coefficient bend[k]) and
// the auxiliary neg(a,b) binary constraint 9 introduces inline.
func (enc *Encoder) addAngleClassVars() {
	for _, pair := range enc.sharedLinePairs() {
		enc.negCol[pair] = enc.s.AddCol(negName(pair), VarBinary, 0, 1, 0)
		for k := 0; k < len(enc.p.Bend); k++ {
			key := dkKey{pair, k}
			enc.dkCol[key] = enc.s.AddCol(dkName(pair, k), VarBinary, 0, 1, enc.p.Bend[k])
		}
	}
}

// sharedLinePairs returns every unordered pair of CombEdges that share a
// CombNode and share at least one Line across their Children, per spec.md
// §4.6's d_k(a,b) domain.
func (enc *Encoder) sharedLinePairs() []pairKey {
	var out []pairKey
	seen := make(map[pairKey]bool)
	for _, nID := range enc.cg.Nodes() {
		nd := enc.cg.Node(nID)
		inc := nd.Incident()
		for i := 0; i < len(inc); i++ {
			for j := i + 1; j < len(inc); j++ {
				a, b := inc[i].Edge, inc[j].Edge
				if a > b {
					a, b = b, a
				}
				key := pairKey{a, b}
				if seen[key] {
					continue
				}
				if !sharesLine(enc.cg.Edge(a), enc.cg.Edge(b)) {
					continue
				}
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

func sharesLine(a, b *comb.Edge) bool {
	lines := make(map[string]bool)
	for _, c := range a.Children {
		for _, l := range c.Lines {
			lines[l.ID] = true
		}
	}
	for _, c := range b.Children {
		for _, l := range c.Lines {
			if lines[l.ID] {
				return true
			}
		}
	}
	return false
}

// c1ExactlyOnePosition is constraint family 1: Σ_v sp(n,v) = 1 for every
// CombNode of nonzero degree.
func (enc *Encoder) c1ExactlyOnePosition() {
	for _, n := range enc.cg.Nodes() {
		if enc.cg.Node(n).Degree() == 0 {
			continue
		}
		row := enc.s.AddRow("onepos_"+string(n), SenseEQ, 1)
		for _, v := range enc.cands[n] {
			enc.s.AddColToRow(row, enc.spCol[spKey{n, v}], 1)
		}
	}
}

// c2AtMostOneUse is constraint family 2: each primary grid edge, counted
// together with its reverse twin, is used by at most one CombEdge.
func (enc *Encoder) c2AtMostOneUse() {
	g := enc.gr.Dgraph()
	seen := make(map[dgraph.EdgeID]bool)
	for _, e := range enc.primaryEdges {
		if seen[e] {
			continue
		}
		twin, hasTwin := g.Twin(e)
		seen[e] = true
		if hasTwin {
			seen[twin] = true
		}
		row := enc.s.AddRow("use1_"+edgeRowSuffix(e), SenseLE, 1)
		for _, ce := range enc.cg.Edges() {
			if col, ok := enc.edgCol[edgKey{e, ce}]; ok {
				enc.s.AddColToRow(row, col, 1)
			}
			if hasTwin {
				if col, ok := enc.edgCol[edgKey{twin, ce}]; ok {
					enc.s.AddColToRow(row, col, 1)
				}
			}
		}
	}
}

// c3FlowConservation is constraint family 3: at each grid sink v and each
// CombEdge ce=(u,w), outflow(v,ce) − inflow(v,ce) = 2·sp(v,u) − sp(v,w),
// aggregated over the ports belonging to v (the "sink trick": doubling the
// outgoing coefficient at u so a station may only ever emit, never also
// receive, its own incident edge through the same sink). Port-to-port
// balance within a single sink's own secondary edges is elided: the
// dgraph substrate pairs every primary edge with a reverse twin, so flow
// through an intermediate port is already structurally 1-in/1-out and
// needs no separate linear constraint (recorded in DESIGN.md).
func (enc *Encoder) c3FlowConservation() {
	g := enc.gr.Dgraph()
	for _, sink := range enc.gr.Sinks() {
		var out, in []dgraph.EdgeID
		for _, e := range enc.primaryEdges {
			from, to := g.Endpoints(e)
			if portParentOf(enc.gr, from) == sink {
				out = append(out, e)
			}
			if portParentOf(enc.gr, to) == sink {
				in = append(in, e)
			}
		}
		if len(out) == 0 && len(in) == 0 {
			continue
		}
		for _, ceID := range enc.cg.Edges() {
			ce := enc.cg.Edge(ceID)
			row := enc.s.AddRow("flow_"+formatID(int64(sink))+"_"+string(ceID), SenseEQ, 0)
			for _, e := range out {
				if col, ok := enc.edgCol[edgKey{e, ceID}]; ok {
					enc.s.AddColToRow(row, col, 1)
				}
			}
			for _, e := range in {
				if col, ok := enc.edgCol[edgKey{e, ceID}]; ok {
					enc.s.AddColToRow(row, col, -1)
				}
			}
			if col, ok := enc.spCol[spKey{ce.From, sink}]; ok {
				enc.s.AddColToRow(row, col, -2)
			}
			if col, ok := enc.spCol[spKey{ce.To, sink}]; ok {
				enc.s.AddColToRow(row, col, 1)
			}
		}
	}
}

// c5SinkExclusivity is constraint family 5: a sink is either one station's
// position or a through-route for at most one CombEdge, never both.
// "inner edge" is read as the sink's own outflow for ce — per c3's sink
// trick, a true pass-through has outflow(v,ce)=inflow(v,ce)=1, so summing
// outflow alone counts each through-routed ce exactly once.
func (enc *Encoder) c5SinkExclusivity() {
	g := enc.gr.Dgraph()
	for _, sink := range enc.gr.Sinks() {
		var out []dgraph.EdgeID
		for _, e := range enc.primaryEdges {
			from, _ := g.Endpoints(e)
			if portParentOf(enc.gr, from) == sink {
				out = append(out, e)
			}
		}
		row := enc.s.AddRow("excl_"+formatID(int64(sink)), SenseLE, 1)
		for _, n := range enc.cg.Nodes() {
			if col, ok := enc.spCol[spKey{n, sink}]; ok {
				enc.s.AddColToRow(row, col, 1)
			}
		}
		for _, ceID := range enc.cg.Edges() {
			for _, e := range out {
				if col, ok := enc.edgCol[edgKey{e, ceID}]; ok {
					enc.s.AddColToRow(row, col, 1)
				}
			}
		}
	}
}

// c6DiagonalNonCrossing is constraint family 6: for every crossing
// diagonal pair, at most one of the four directed edges (both directions
// of both diagonals) may carry any CombEdge.
func (enc *Encoder) c6DiagonalNonCrossing() {
	g := enc.gr.Dgraph()
	for _, pair := range enc.gr.GetCrossEdgPairs() {
		edges := []dgraph.EdgeID{pair.A, pair.B}
		for _, e := range []dgraph.EdgeID{pair.A, pair.B} {
			if twin, ok := g.Twin(e); ok {
				edges = append(edges, twin)
			}
		}
		row := enc.s.AddRow("cross_"+edgeRowSuffix(pair.A)+"_"+edgeRowSuffix(pair.B), SenseLE, 1)
		for _, ceID := range enc.cg.Edges() {
			for _, e := range edges {
				if col, ok := enc.edgCol[edgKey{e, ceID}]; ok {
					enc.s.AddColToRow(row, col, 1)
				}
			}
		}
	}
}

// c7DirectionWiring is constraint family 7: d(n,ce) equals the weighted
// sum of the directed primary edges that would realize n's end of ce,
// ranged over every candidate sink for n (only the sink actually chosen,
// per sp, ever has nonzero flow differential there, so summing over every
// candidate is still linear and exact). Direction index 0 contributes
// nothing and is omitted from the sum, per spec.md §9's resolved open
// question that the direction-variable summation skips index 0 (it is
// modeled by the absence of any outgoing sink edge instead).
func (enc *Encoder) c7DirectionWiring() {
	g := enc.gr.Dgraph()
	for _, ceID := range enc.cg.Edges() {
		ce := enc.cg.Edge(ceID)
		for _, n := range []comb.NodeID{ce.From, ce.To} {
			dCol, ok := enc.dCol[dKey{n, ceID}]
			if !ok {
				continue
			}
			row := enc.s.AddRow("dir_"+string(n)+"_"+string(ceID), SenseEQ, 0)
			enc.s.AddColToRow(row, dCol, 1)

			departing := n == ce.From
			for _, v := range enc.cands[n] {
				for _, e := range enc.primaryEdges {
					from, to := g.Endpoints(e)
					pl := enc.gr.EdgePL(e)
					var i int
					if departing && portParentOf(enc.gr, from) == v {
						i = pl.Dir
					} else if !departing && portParentOf(enc.gr, to) == v {
						i = (pl.Dir + enc.half) % enc.maxDeg
					} else {
						continue
					}
					if i == 0 {
						continue
					}
					if col, ok := enc.edgCol[edgKey{e, ceID}]; ok {
						enc.s.AddColToRow(row, col, -float64(i))
					}
				}
			}
		}
	}
}

// c8CircularOrder is constraint family 8: for each CombNode of degree ≥ 3,
// walk consecutive pairs in the input circular order and require
// d(n,edgB) − d(n,edgA) + maxDeg·vuln(n,i) ≥ 1, with exactly one vuln per
// node picking the wraparound pair.
func (enc *Encoder) c8CircularOrder() {
	m := float64(enc.maxDeg)
	for _, nID := range enc.cg.Nodes() {
		nd := enc.cg.Node(nID)
		inc := nd.Incident()
		if len(inc) < 3 {
			continue
		}
		row := enc.s.AddRow("vulnsum_"+string(nID), SenseEQ, 1)
		for i := range inc {
			enc.s.AddColToRow(row, enc.vulnCol[vulnKey{nID, i}], 1)
		}

		for i := 0; i < len(inc); i++ {
			a := inc[i].Edge
			b := inc[(i+1)%len(inc)].Edge
			dA, okA := enc.dCol[dKey{nID, a}]
			dB, okB := enc.dCol[dKey{nID, b}]
			if !okA || !okB {
				continue
			}
			r := enc.s.AddRow("order_"+string(nID)+"_"+formatID(int64(i)), SenseGE, 1)
			enc.s.AddColToRow(r, dB, 1)
			enc.s.AddColToRow(r, dA, -1)
			enc.s.AddColToRow(r, enc.vulnCol[vulnKey{nID, i}], m)
		}
	}
}

// c9AngleClass is constraint family 9: derive the signed direction
// difference at the shared node, fold it into [0, maxDeg-1] via neg(a,b),
// then pick exactly one angle class d_k whose weighted index matches.
func (enc *Encoder) c9AngleClass() {
	m := float64(enc.maxDeg)
	for pair, negCol := range enc.negCol {
		n := enc.sharedNode(pair)
		dA, okA := enc.dCol[dKey{n, pair.a}]
		dB, okB := enc.dCol[dKey{n, pair.b}]
		if !okA || !okB {
			continue
		}

		fold := enc.s.AddRow("negfold_"+string(pair.a)+"_"+string(pair.b), SenseEQ, 0)
		foldSlack := enc.s.AddCol("negslack_"+string(pair.a)+"_"+string(pair.b), VarInteger, 0, m-1, 0)
		enc.s.AddColToRow(fold, dA, 1)
		enc.s.AddColToRow(fold, dB, -1)
		enc.s.AddColToRow(fold, negCol, m)
		enc.s.AddColToRow(fold, foldSlack, -1)

		row := enc.s.AddRow("angle_"+string(pair.a)+"_"+string(pair.b), SenseEQ, 0)
		enc.s.AddColToRow(row, foldSlack, 1)
		for k := 0; k < len(enc.p.Bend); k++ {
			enc.s.AddColToRow(row, enc.dkCol[dkKey{pair, k}], -float64(k+1))
		}

		atMost := enc.s.AddRow("angle1_"+string(pair.a)+"_"+string(pair.b), SenseLE, 1)
		for k := 0; k < len(enc.p.Bend); k++ {
			enc.s.AddColToRow(atMost, enc.dkCol[dkKey{pair, k}], 1)
		}
	}
}

// sharedNode returns the CombNode incident to both edges of pair (they are
// only ever built from a shared-node scan in sharedLinePairs).
func (enc *Encoder) sharedNode(pair pairKey) comb.NodeID {
	a := enc.cg.Edge(pair.a)
	b := enc.cg.Edge(pair.b)
	for _, n := range []comb.NodeID{a.From, a.To} {
		if n == b.From || n == b.To {
			return n
		}
	}
	return a.From
}

// WarmStart sets starter values for the station-position and edge-use
// columns from the greedy router's drawing.Drawing, per spec.md §4.6's warm-start
// recipe; bend/direction/angle-class variables are left to the solver.
func (enc *Encoder) WarmStart(dw *drawing.Drawing) {
	used := make(map[dgraph.EdgeID]comb.EdgeID)
	for ceID, chain := range dw.EdgePath {
		for _, e := range chain {
			used[e] = ceID
		}
	}

	for _, n := range enc.cg.Nodes() {
		sink, ok := dw.Sink(n)
		for _, v := range enc.cands[n] {
			val := 0.0
			if ok && v == sink {
				val = 1
			}
			enc.s.SetStarter(enc.spCol[spKey{n, v}], val)
		}
	}

	for _, e := range enc.primaryEdges {
		winner := used[e]
		for _, ceID := range enc.cg.Edges() {
			val := 0.0
			if winner != "" && ceID == winner {
				val = 1
			}
			enc.s.SetStarter(enc.edgCol[edgKey{e, ceID}], val)
		}
	}
}

func portParentOf(gr basegraph.Graph, n dgraph.NodeID) dgraph.NodeID {
	pl := gr.NodePL(n)
	if pl.Kind == basegraph.KindSink {
		return n
	}
	return pl.Parent
}

func spName(n comb.NodeID, v dgraph.NodeID) string   { return "sp_" + string(n) + "_" + formatID(int64(v)) }
func edgName(e dgraph.EdgeID, ce comb.EdgeID) string { return "edg_" + formatID(int64(e)) + "_" + string(ce) }
func dName(n comb.NodeID, ce comb.EdgeID) string     { return "d_" + string(n) + "_" + string(ce) }
func vulnName(n comb.NodeID, i int) string           { return "vuln_" + string(n) + "_" + formatID(int64(i)) }
func negName(p pairKey) string                       { return "neg_" + string(p.a) + "_" + string(p.b) }
func dkName(p pairKey, k int) string                 { return "dk_" + string(p.a) + "_" + string(p.b) + "_" + formatID(int64(k)) }

func edgeRowSuffix(e dgraph.EdgeID) string { return formatID(int64(e)) }

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}
