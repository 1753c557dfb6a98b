package basegraph

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/params"
)

// movePen is the MOVE_PEN constant of spec.md §4.4.2's ndMovePen formula.
const movePen = 1.0

// Grid is the shared "sink + 2k-port" helper spec.md §9 calls for. One
// Grid value backs the orthogonal (numPorts=4), octilinear (numPorts=8),
// and Hanan-octilinear (numPorts=8, sparse sink set) variants.
type Grid struct {
	g        *dgraph.Graph[NodePL, EdgePL]
	cg       *comb.Graph
	p        params.Params
	numPorts int
	spacer   float64 // port offset distance from its parent sink

	sinks       []dgraph.NodeID
	byCoord     map[[2]int]dgraph.NodeID // only populated for axis-sorted lattice lookups
	coordOf     map[dgraph.NodeID][2]int
	diagonals   []dgraph.EdgeID // one direction of every diagonal primary edge added so far
	crossPairs  []CrossEdgPair
	rt          rtree.RTreeG[dgraph.NodeID]
	rndrOrdNext int
}

// MaxDeg implements Graph.
func (gr *Grid) MaxDeg() int { return gr.numPorts }

// CellSize implements Graph.
func (gr *Grid) CellSize() float64 { return gr.p.GridSize }

// Sinks implements Graph.
func (gr *Grid) Sinks() []dgraph.NodeID {
	out := make([]dgraph.NodeID, len(gr.sinks))
	copy(out, gr.sinks)
	return out
}

// Dgraph implements Graph.
func (gr *Grid) Dgraph() *dgraph.Graph[NodePL, EdgePL] { return gr.g }

// NodePL implements Graph.
func (gr *Grid) NodePL(n dgraph.NodeID) *NodePL {
	pl := gr.g.NodePayload(n)
	return &pl
}

// EdgePL implements Graph.
func (gr *Grid) EdgePL(e dgraph.EdgeID) *EdgePL {
	pl := gr.g.EdgePayload(e)
	return &pl
}

// dirVector returns the unit lattice step (dx, dy) for port direction dir,
// out of numPorts evenly spaced directions, with dir 0 = up and indices
// increasing clockwise (spec.md §3).
func dirVector(dir, numPorts int) (int, int) {
	a := dirAngle(dir, numPorts)
	dx := round(math.Sin(a))
	dy := round(math.Cos(a))
	return dx, dy
}

func round(f float64) int {
	if f > 0.5 {
		return 1
	}
	if f < -0.5 {
		return -1
	}
	return 0
}

// dirAngle returns the clockwise-from-up angle, in radians, of a port
// direction index.
func dirAngle(dir, numPorts int) float64 {
	return float64(dir) * 2 * math.Pi / float64(numPorts)
}

// isDiagonal reports whether dir is a diagonal direction for an
// 8-direction (octilinear) grid: ports 1, 3, 5, 7.
func isDiagonal(dir, numPorts int) bool {
	return numPorts == 8 && dir%2 == 1
}

// axisPen picks the per-hop penalty for a direction, per spec.md §4.4.1.
func axisPen(dir, numPorts int, p params.Params) float64 {
	if isDiagonal(dir, numPorts) {
		return p.DiagonalPen
	}
	// dir 0/ numPorts/2 is the vertical axis; the remaining even axis is
	// horizontal. This fixes the §3-vs-§4.4.1 axis-labeling tension in
	// spec.md in favor of §3's explicit "port 0 = up" geometry.
	half := numPorts / 4
	if half == 0 {
		half = 1
	}
	if (dir/half)%2 == 0 {
		return p.VerticalPen
	}
	return p.HorizontalPen
}

// ang is OctiHananGraph::ang ported verbatim from original_source: the
// circular distance between two port indices, folded into the bend-class
// range [0, numPorts/2).
func ang(i, j, numPorts int) int {
	half := numPorts / 2
	d := ((i-j)%numPorts + numPorts) % numPorts
	if d > half {
		d = numPorts - d
	}
	return d % half
}

// getBendPen returns the bend penalty for turning from port i to port j
// at one sink. Symmetric in i, j per spec.md §8.
func (gr *Grid) getBendPen(i, j int) float64 {
	return gr.p.Bend[ang(i, j, gr.numPorts)]
}

// newGrid allocates the shared substrate for a grid of the given port
// count, ready for sinks to be added by a variant constructor.
func newGrid(numPorts int, p params.Params) *Grid {
	return &Grid{
		g:        dgraph.New[NodePL, EdgePL](),
		p:        p,
		numPorts: numPorts,
		spacer:   p.GridSize / 4,
		byCoord:  make(map[[2]int]dgraph.NodeID),
		coordOf:  make(map[dgraph.NodeID][2]int),
	}
}

// addSink creates one sink at lattice coordinate (gx, gy) / Cartesian pos,
// together with its numPorts port nodes and the secondary (entry + bend)
// edges between them, per spec.md §4.4.1.
func (gr *Grid) addSink(gx, gy int, pos geo.Point) dgraph.NodeID {
	sinkPL := NodePL{
		Kind:   KindSink,
		GX:     gx,
		GY:     gy,
		Pos:    pos,
		Ports:  make([]dgraph.NodeID, gr.numPorts),
		SunkFr: make([]bool, gr.numPorts),
		SunkTo: make([]bool, gr.numPorts),
	}
	sink := gr.g.AddNd(sinkPL)

	ports := make([]dgraph.NodeID, gr.numPorts)
	for i := 0; i < gr.numPorts; i++ {
		dx, dy := dirVector(i, gr.numPorts)
		portPos := geo.Point{
			X: pos.X + float64(dx)*gr.spacer,
			Y: pos.Y + float64(dy)*gr.spacer,
		}
		port := gr.g.AddNd(NodePL{Kind: KindPort, Parent: sink, Dir: i, Pos: portPos})
		ports[i] = port
	}
	sinkPL.Ports = ports
	gr.g.SetNodePayload(sink, sinkPL)

	// entry edges: sink <-> port[i], closed, INF, until OpenSinkFr/To.
	for i, port := range ports {
		gr.g.AddTwinEdg(sink, port,
			EdgePL{Cost: dgraph.SoftInf, BaseCost: dgraph.SoftInf, Secondary: true, Closed: true, Dir: i},
			EdgePL{Cost: dgraph.SoftInf, BaseCost: dgraph.SoftInf, Secondary: true, Closed: true, Dir: i},
		)
	}

	// bend (turn) edges: port[i] <-> port[j] for every unordered pair,
	// open at their bend cost (the same state OpenTurns/Reset restore)
	// until CloseTurns forbids turning at this sink.
	for i := 0; i < gr.numPorts; i++ {
		for j := i + 1; j < gr.numPorts; j++ {
			cost := gr.getBendPen(i, j)
			gr.g.AddTwinEdg(ports[i], ports[j],
				EdgePL{Cost: cost, BaseCost: cost, Secondary: true, Dir: -1},
				EdgePL{Cost: cost, BaseCost: cost, Secondary: true, Dir: -1},
			)
		}
	}

	gr.sinks = append(gr.sinks, sink)
	gr.byCoord[[2]int{gx, gy}] = sink
	gr.coordOf[sink] = [2]int{gx, gy}
	gr.rt.Insert([2]float64{pos.X, pos.Y}, [2]float64{pos.X, pos.Y}, sink)

	return sink
}

// connectAxis adds the primary (non-secondary) grid edge pair between
// sink a's port `dir` and sink b's port `dir+numPorts/2`, with axial cost
// for a d-step hop, per spec.md §4.4.1.
func (gr *Grid) connectAxis(a, b dgraph.NodeID, dir int, steps float64) {
	half := gr.numPorts / 2
	pa := gr.g.NodePayload(a).Ports[dir]
	pb := gr.g.NodePayload(b).Ports[(dir+half)%gr.numPorts]

	cost := axisEdgeCost(axisPen(dir, gr.numPorts, gr.p), gr.p.HeurHopCost(), steps)

	fwd, bwd := gr.g.AddTwinEdg(pa, pb,
		EdgePL{Cost: cost, BaseCost: cost, Dir: dir},
		EdgePL{Cost: cost, BaseCost: cost, Dir: (dir + half) % gr.numPorts},
	)

	if isDiagonal(dir, gr.numPorts) {
		gr.registerDiagonal(fwd, bwd)
	}
}

// axisEdgeCost implements spec.md §4.4.1's initial axial-edge cost formula.
func axisEdgeCost(pen, heurHopCost, d float64) float64 {
	return (pen+heurHopCost)*d - heurHopCost
}

// candidatesWithin returns every sink within radius of pos, using the
// rtree spatial index instead of a linear scan over every sink — grounded
// on azybler-map_router's declared (there, unexercised) tidwall/rtree
// dependency, put to direct use here for the router's and the ILP
// encoder's candidate-sink queries (spec.md §4.5 step 2a, §4.6's `cands`).
func (gr *Grid) candidatesWithin(pos geo.Point, radius float64) []dgraph.NodeID {
	var out []dgraph.NodeID
	min := [2]float64{pos.X - radius, pos.Y - radius}
	max := [2]float64{pos.X + radius, pos.Y + radius}
	gr.rt.Search(min, max, func(_, _ [2]float64, sink dgraph.NodeID) bool {
		sp := gr.g.NodePayload(sink).Pos
		if sp.Dist(pos) < radius {
			out = append(out, sink)
		}
		return true
	})
	return out
}

// neigh returns the sink adjacent to (gx,gy) in direction dir, or false if
// there is none in the lattice.
func (gr *Grid) neigh(gx, gy, dir int) (dgraph.NodeID, bool) {
	dx, dy := dirVector(dir, gr.numPorts)
	id, ok := gr.byCoord[[2]int{gx + dx, gy + dy}]
	return id, ok
}

// Neigh implements Graph.
func (gr *Grid) Neigh(sink dgraph.NodeID, dir int) (dgraph.NodeID, bool) {
	c, ok := gr.coordOf[sink]
	if !ok {
		return 0, false
	}
	return gr.neigh(c[0], c[1], dir)
}

// CandidatesWithin implements Graph.
func (gr *Grid) CandidatesWithin(pos geo.Point, radius float64) []dgraph.NodeID {
	return gr.candidatesWithin(pos, radius)
}

// registerDiagonal records the new diagonal edge's crossing partner, if
// any, using geometric segment intersection over the two sinks' Cartesian
// positions (robust to the Hanan grid's irregular spacing, unlike a
// unit-cell lattice rule).
func (gr *Grid) registerDiagonal(fwd, bwd dgraph.EdgeID) {
	_ = bwd
	from, to := gr.g.Endpoints(fwd)
	aParent := gr.portParentPos(from)
	bParent := gr.portParentPos(to)
	seg := geo.Polyline{aParent, bParent}

	for _, other := range gr.diagonals {
		of, ot := gr.g.Endpoints(other)
		oaParent := gr.portParentPos(of)
		obParent := gr.portParentPos(ot)

		if sharesEndpoint(aParent, bParent, oaParent, obParent) {
			continue
		}
		otherSeg := geo.Polyline{oaParent, obParent}
		if x := seg.GetIntersections(otherSeg); len(x) == 1 {
			gr.crossPairs = append(gr.crossPairs, CrossEdgPair{A: fwd, B: other})
		}
	}

	gr.diagonals = append(gr.diagonals, fwd)
}

func sharesEndpoint(a1, a2, b1, b2 geo.Point) bool {
	return a1 == b1 || a1 == b2 || a2 == b1 || a2 == b2
}

func (gr *Grid) portParentPos(port dgraph.NodeID) geo.Point {
	pl := gr.g.NodePayload(port)
	if pl.Kind == KindSink {
		return pl.Pos
	}
	parent := gr.g.NodePayload(pl.Parent)
	return parent.Pos
}
