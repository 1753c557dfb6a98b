// Package drawing holds the result of settling a combinatorial graph onto
// a base grid — the Drawing type spec.md §3 describes — and the aggregator
// that turns a finished Drawing into renderable line geometry, per
// spec.md §4.7.
//
// Grounded on original_source/src/octi/combgraph/Drawing.cpp: that type
// couples score-keeping with the grid mutation calls (draw/erase); here
// the grid mutation stays in octi/basegraph and octi/router, and Drawing
// is the plain result record both the router and the ILP driver populate.
package drawing

import (
	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/comb"
)

// Drawing is the settled placement of every CombNode onto a grid sink and
// every CombEdge onto a chain of primary grid edges, per spec.md §3.
type Drawing struct {
	NodeSink map[comb.NodeID]dgraph.NodeID
	EdgePath map[comb.EdgeID][]dgraph.EdgeID // primary grid edges, in hop order, From -> To
	EdgeCost map[comb.EdgeID]float64         // cost contributed by EdgePath[ce] at settle time
	Cost     float64
	Optimal  bool // set by the ILP phase: true unless its solve hit the time limit; false for a router-only Drawing

	renderSeq int
}

// NextOrder returns a fresh, monotonically increasing render-order value,
// for callers settling primary grid edges one hop at a time (spec.md
// §4.4.2's RenderOrder bookkeeping).
func (d *Drawing) NextOrder() int {
	d.renderSeq++
	return d.renderSeq
}

// New returns an empty Drawing ready for the router to populate.
func New() *Drawing {
	return &Drawing{
		NodeSink: make(map[comb.NodeID]dgraph.NodeID),
		EdgePath: make(map[comb.EdgeID][]dgraph.EdgeID),
		EdgeCost: make(map[comb.EdgeID]float64),
	}
}

// Sink returns the grid sink n was settled onto, or false if n has not
// been settled yet.
func (d *Drawing) Sink(n comb.NodeID) (dgraph.NodeID, bool) {
	s, ok := d.NodeSink[n]
	return s, ok
}

// Path returns the primary grid edge chain ce was settled onto, or false
// if ce has not been settled yet.
func (d *Drawing) Path(ce comb.EdgeID) ([]dgraph.EdgeID, bool) {
	p, ok := d.EdgePath[ce]
	return p, ok
}

// Clone returns a deep copy of d; later changes to either copy do not
// affect the other.
func (d *Drawing) Clone() *Drawing {
	out := &Drawing{
		NodeSink: make(map[comb.NodeID]dgraph.NodeID, len(d.NodeSink)),
		EdgePath: make(map[comb.EdgeID][]dgraph.EdgeID, len(d.EdgePath)),
		EdgeCost: make(map[comb.EdgeID]float64, len(d.EdgeCost)),
		Cost:     d.Cost,
		Optimal:  d.Optimal,
	}
	for k, v := range d.NodeSink {
		out.NodeSink[k] = v
	}
	for k, v := range d.EdgePath {
		cp := make([]dgraph.EdgeID, len(v))
		copy(cp, v)
		out.EdgePath[k] = cp
	}
	for k, v := range d.EdgeCost {
		out.EdgeCost[k] = v
	}
	return out
}
