package pathfind

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"

	"github.com/transitschema/octilayout/dgraph"
)

// multiTerminalGraph decorates a dgraph.View with two virtual nodes,
// superSourceID and superSinkID, connected by zero-cost edges to every
// element of s and from every element of t respectively. Running a
// single-source shortest path from superSourceID to superSinkID over this
// view is exactly the multi-source/multi-sink search spec.md §4.3 asks
// for.
type multiTerminalGraph[N, E any] struct {
	view *dgraph.View[N, E]
	s, t map[dgraph.NodeID]bool
}

type vEdge struct {
	from, to dgraph.NodeID
	w        float64
}

func (e vEdge) From() graph.Node         { return simpleNode(e.from) }
func (e vEdge) To() graph.Node           { return simpleNode(e.to) }
func (e vEdge) ReversedEdge() graph.Edge { return vEdge{e.to, e.from, e.w} }
func (e vEdge) Weight() float64          { return e.w }

func (m *multiTerminalGraph[N, E]) Node(id int64) graph.Node {
	nid := dgraph.NodeID(id)
	if nid == superSourceID || nid == superSinkID {
		return simpleNode(nid)
	}
	return m.view.Node(id)
}

func (m *multiTerminalGraph[N, E]) Nodes() graph.Nodes {
	real := nodesOf(m.view.Nodes())
	real = append(real, simpleNode(superSourceID), simpleNode(superSinkID))
	return iterator.NewOrderedNodes(real)
}

func nodesOf(it graph.Nodes) []graph.Node {
	var out []graph.Node
	for it.Next() {
		out = append(out, it.Node())
	}
	return out
}

func (m *multiTerminalGraph[N, E]) From(id int64) graph.Nodes {
	nid := dgraph.NodeID(id)

	if nid == superSourceID {
		nodes := make([]graph.Node, 0, len(m.s))
		for n := range m.s {
			nodes = append(nodes, simpleNode(n))
		}
		return iterator.NewOrderedNodes(nodes)
	}
	if nid == superSinkID {
		return iterator.NewOrderedNodes(nil)
	}

	nodes := nodesOf(m.view.From(id))
	if m.t[nid] {
		nodes = append(nodes, simpleNode(superSinkID))
	}
	return iterator.NewOrderedNodes(nodes)
}

func (m *multiTerminalGraph[N, E]) HasEdgeBetween(xid, yid int64) bool {
	return m.Edge(xid, yid) != nil || m.Edge(yid, xid) != nil
}

func (m *multiTerminalGraph[N, E]) Edge(uid, vid int64) graph.Edge {
	if e := m.WeightedEdge(uid, vid); e != nil {
		return e
	}
	return nil
}

func (m *multiTerminalGraph[N, E]) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	u, v := dgraph.NodeID(uid), dgraph.NodeID(vid)

	if u == superSourceID && m.s[v] {
		return vEdge{u, v, 0}
	}
	if v == superSinkID && m.t[u] {
		return vEdge{u, v, 0}
	}
	if u == superSourceID || u == superSinkID || v == superSourceID || v == superSinkID {
		return nil
	}
	return m.view.WeightedEdge(uid, vid)
}

func (m *multiTerminalGraph[N, E]) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	if e := m.WeightedEdge(xid, yid); e != nil {
		return e.Weight(), true
	}
	return 0, false
}
