// Package basegraph builds and mutates the base grid graph: the
// octilinear (or orthogonal, or Hanan-enriched) lattice of sinks and ports
// that the router and ILP encoder place stations and edges onto, per
// spec.md §4.4.
//
// The orthogonal, octilinear, and Hanan variants spec.md §9 calls for as
// "three concrete implementations sharing a common helper type" collapse,
// in Go, into a single Grid type parameterized by port count and sink
// set: Go favors composition over a class hierarchy, and the three
// variants genuinely differ only in those two axes. NewOrthoGraph,
// NewOctiGraph, and NewHananGraph are the three named construction entry
// points spec.md's design note asks for; all three return a *Grid.
package basegraph

import (
	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
)

// Kind distinguishes a sink GridNode from a port GridNode, per spec.md §3.
type Kind int

const (
	KindSink Kind = iota
	KindPort
)

// NodePL ("payload") is the data carried by every GridNode (dgraph node).
type NodePL struct {
	Kind Kind

	// Sink fields.
	GX, GY      int // grid (lattice) coordinates
	Pos         geo.Point
	Settled     bool
	SettledBy   comb.NodeID
	Ports       []dgraph.NodeID // len == numPorts, indexed by direction
	SunkFr      []bool          // per-direction: an entry edge was opened "from" this sink
	SunkTo      []bool          // per-direction: an entry edge was opened "to" this sink

	// Port fields.
	Parent dgraph.NodeID
	Dir    int
}

// EdgePL is the data carried by every GridEdge (dgraph edge).
type EdgePL struct {
	Cost        float64
	BaseCost    float64 // the cost this edge was created with, for Reset/WriteInitialCosts
	Secondary   bool // intra-sink port<->port bend, or sink<->port entry edge
	Closed      bool
	Blocked     bool
	RenderOrder int
	ResEdgs     map[comb.EdgeID]struct{}

	// For axial (non-secondary) edges: the port-direction index this edge
	// runs in, read by the ILP encoder's direction-wiring constraint.
	Dir int
}

// HasRes reports whether any CombEdge currently runs through this edge.
func (e *EdgePL) HasRes() bool { return len(e.ResEdgs) > 0 }

// CrossEdgPair is an unordered pair of diagonal primary grid edges whose
// geometric segments cross; while either is in use (ResEdgs non-empty on
// either direction) the other must be blocked, per spec.md §3.
type CrossEdgPair struct {
	A, B dgraph.EdgeID // one direction of each diagonal; look up twins via the graph
}

// Graph is the polymorphic interface spec.md §9 asks for in place of a
// class hierarchy across grid variants.
type Graph interface {
	MaxDeg() int
	CellSize() float64
	Sinks() []dgraph.NodeID

	GetNEdg(a, b dgraph.NodeID) (dgraph.EdgeID, bool)
	WriteInitialCosts()
	NdMovePen(cbNd comb.NodeID, grNd dgraph.NodeID) float64
	GetCrossEdgPairs() []CrossEdgPair
	Reset()

	OpenTurns(sink dgraph.NodeID)
	CloseTurns(sink dgraph.NodeID)
	OpenSinkFr(sink dgraph.NodeID, pen float64)
	OpenSinkTo(sink dgraph.NodeID, pen float64)
	CloseSinkFr(sink dgraph.NodeID)
	CloseSinkTo(sink dgraph.NodeID)

	SettleEdg(a, b dgraph.NodeID, ce comb.EdgeID, order int)
	UnSettleEdg(ce comb.EdgeID, a, b dgraph.NodeID)

	NodePL(n dgraph.NodeID) *NodePL
	EdgePL(e dgraph.EdgeID) *EdgePL

	// Neigh returns the sink lattice-adjacent to sink in direction dir, if
	// any, used by the router's candidate-degree filter (spec.md §4.5 2a).
	Neigh(sink dgraph.NodeID, dir int) (dgraph.NodeID, bool)

	// CandidatesWithin returns every sink within radius of pos, backed by
	// the rtree spatial index rather than a linear scan (spec.md §4.5 2a,
	// §4.6's `cands`).
	CandidatesWithin(pos geo.Point, radius float64) []dgraph.NodeID

	// Underlying substrate, for pathfind.
	Dgraph() *dgraph.Graph[NodePL, EdgePL]
}
