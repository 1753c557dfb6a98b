package dgraph

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// WeightFunc extracts a gonum edge weight from an edge payload. Weights
// at or above SoftInf are treated as absent per spec.md §4.3.
type WeightFunc[E any] func(E) float64

// View adapts a Graph[N, E] to gonum.org/v1/gonum/graph's Weighted and
// Directed interfaces, so pathfind can drive gonum/graph/path's Dijkstra
// and A* implementations directly over the grid/comb substrate instead of
// a hand-rolled heap.
//
// Grounded on the teacher's (gverger-go-graph-layout) own go.mod
// dependency on gonum.org/v1/gonum, which the captured excerpt of that
// repository never actually imports; View is what exercises it for real.
type View[N, E any] struct {
	g      *Graph[N, E]
	weight WeightFunc[E]
}

// NewView wraps g for gonum traversal using weight to price each edge.
func NewView[N, E any](g *Graph[N, E], weight WeightFunc[E]) *View[N, E] {
	return &View[N, E]{g: g, weight: weight}
}

type gnode NodeID

func (n gnode) ID() int64 { return int64(n) }

type gedge struct {
	id     EdgeID
	from   NodeID
	to     NodeID
	weight float64
}

func (e gedge) From() graph.Node         { return gnode(e.from) }
func (e gedge) To() graph.Node           { return gnode(e.to) }
func (e gedge) ReversedEdge() graph.Edge { return gedge{e.id, e.to, e.from, e.weight} }
func (e gedge) Weight() float64          { return e.weight }

// Node implements graph.Graph.
func (v *View[N, E]) Node(id int64) graph.Node {
	if !v.g.HasNode(NodeID(id)) {
		return nil
	}
	return gnode(id)
}

// Nodes implements graph.Graph.
func (v *View[N, E]) Nodes() graph.Nodes {
	ids := v.g.Nodes()
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = gnode(id)
	}
	return iterator.NewOrderedNodes(nodes)
}

// From implements graph.Graph: the live, non-SoftInf successors of id.
func (v *View[N, E]) From(id int64) graph.Nodes {
	var nodes []graph.Node
	seen := map[NodeID]bool{}
	for _, eid := range v.g.AdjOut(NodeID(id)) {
		ee := v.g.edges[eid]
		if v.weight(ee.payload) >= SoftInf {
			continue
		}
		if !seen[ee.to] {
			seen[ee.to] = true
			nodes = append(nodes, gnode(ee.to))
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween implements graph.Graph.
func (v *View[N, E]) HasEdgeBetween(xid, yid int64) bool {
	return v.hasUsableEdge(NodeID(xid), NodeID(yid)) || v.hasUsableEdge(NodeID(yid), NodeID(xid))
}

// HasEdgeFromTo implements graph.Directed.
func (v *View[N, E]) HasEdgeFromTo(uid, vid int64) bool {
	return v.hasUsableEdge(NodeID(uid), NodeID(vid))
}

func (v *View[N, E]) hasUsableEdge(from, to NodeID) bool {
	id, ok := v.g.GetEdg(from, to)
	if !ok {
		return false
	}
	return v.weight(v.g.edges[id].payload) < SoftInf
}

// To implements graph.Directed.
func (v *View[N, E]) To(id int64) graph.Nodes {
	var nodes []graph.Node
	seen := map[NodeID]bool{}
	for _, eid := range v.g.AdjIn(NodeID(id)) {
		ee := v.g.edges[eid]
		if v.weight(ee.payload) >= SoftInf {
			continue
		}
		if !seen[ee.from] {
			seen[ee.from] = true
			nodes = append(nodes, gnode(ee.from))
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

// Edge implements graph.Graph.
func (v *View[N, E]) Edge(uid, vid int64) graph.Edge {
	return v.WeightedEdge(uid, vid)
}

// WeightedEdge implements graph.Weighted.
func (v *View[N, E]) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	id, ok := v.g.GetEdg(NodeID(uid), NodeID(vid))
	if !ok {
		return nil
	}
	w := v.weight(v.g.edges[id].payload)
	if w >= SoftInf {
		return nil
	}
	return gedge{id: id, from: NodeID(uid), to: NodeID(vid), weight: w}
}

// Weight implements graph.Weighted.
func (v *View[N, E]) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	id, ok := v.g.GetEdg(NodeID(xid), NodeID(yid))
	if !ok {
		return 0, false
	}
	w := v.weight(v.g.edges[id].payload)
	if w >= SoftInf {
		return 0, false
	}
	return w, true
}
