// Package pathfind is the shortest-path engine: Dijkstra (optionally
// heuristic-augmented into A*) from a multi-source set to a multi-sink set
// over a non-negative-cost dgraph.Graph, per spec.md §4.3.
//
// It is built directly on gonum.org/v1/gonum/graph/path rather than a
// hand-rolled priority queue, wiring the gonum dependency the teacher
// (gverger-go-graph-layout) already declares in go.mod.
package pathfind

import (
	"errors"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"

	"github.com/transitschema/octilayout/dgraph"
)

// ErrNoPath is returned when no sink in T is reachable from any source in S.
var ErrNoPath = errors.New("pathfind: no path from sources to sinks")

// Heuristic estimates the remaining cost from a node to the nearest sink.
// It must be admissible (never overestimate) for the A* result to be exact.
// A nil Heuristic degrades the search to plain Dijkstra.
type Heuristic func(n dgraph.NodeID) float64

// Result is the outcome of a successful search.
type Result struct {
	Path []dgraph.EdgeID // edges, source -> sink, in traversal order
	Cost float64
}

// superSourceID and superSinkID are virtual node IDs injected for the
// duration of a single search; dgraph.NodeID is never negative in normal
// use, so these can't collide with real graph nodes.
const (
	superSourceID = dgraph.NodeID(-1)
	superSinkID   = dgraph.NodeID(-2)
)

// Search runs Dijkstra/A* from the multi-source set S to the multi-sink
// set T over view, which must have been built with dgraph.NewView on the
// same graph g. heuristic may be nil.
//
// Multi-source/multi-sink is implemented with the standard super-source /
// super-sink reduction: a virtual node is wired to every element of S (and
// from every element of T) with a zero-cost edge, the search runs between
// the two virtual nodes, and the virtual hops are stripped back out of the
// returned edge list. This mirrors the reduction ttpr0-go-routing's
// prepare.go uses for multi-target contraction queries.
func Search[N, E any](
	g *dgraph.Graph[N, E],
	view *dgraph.View[N, E],
	s, t []dgraph.NodeID,
	heuristic Heuristic,
) (Result, error) {
	if len(s) == 0 || len(t) == 0 {
		return Result{}, ErrNoPath
	}

	sSet := make(map[dgraph.NodeID]bool, len(s))
	for _, n := range s {
		sSet[n] = true
	}
	tSet := make(map[dgraph.NodeID]bool, len(t))
	for _, n := range t {
		tSet[n] = true
	}

	wrapped := &multiTerminalGraph[N, E]{
		view: view, s: sSet, t: tSet,
	}

	var pt path.Shortest
	if heuristic != nil {
		h := func(u, v graph.Node) float64 {
			id := u.ID()
			if dgraph.NodeID(id) == superSourceID || dgraph.NodeID(id) == superSinkID {
				return 0
			}
			return heuristic(dgraph.NodeID(id))
		}
		pt, _ = path.AStar(gnodeOf(superSourceID), gnodeOf(superSinkID), wrapped, h)
	} else {
		pt = path.DijkstraFrom(gnodeOf(superSourceID), wrapped)
	}

	nodes, cost := pt.To(int64(superSinkID))
	if len(nodes) == 0 || cost >= dgraph.SoftInf {
		return Result{}, ErrNoPath
	}

	// strip the two virtual hops (super-source -> first real, last real ->
	// super-sink) and translate consecutive real nodes into concrete edges.
	// The two virtual hops carry zero weight, so cost already equals the
	// real path's cost.
	real := nodes[1 : len(nodes)-1]
	edges := make([]dgraph.EdgeID, 0, len(real))
	for i := 1; i < len(real); i++ {
		from := dgraph.NodeID(real[i-1].ID())
		to := dgraph.NodeID(real[i].ID())
		id, ok := g.GetEdg(from, to)
		if !ok {
			return Result{}, ErrNoPath
		}
		edges = append(edges, id)
	}

	return Result{Path: edges, Cost: cost}, nil
}

func gnodeOf(id dgraph.NodeID) graph.Node {
	return simpleNode(id)
}

type simpleNode dgraph.NodeID

func (n simpleNode) ID() int64 { return int64(n) }
