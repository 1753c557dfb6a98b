package comb

import (
	"github.com/transitschema/octilayout/octierr"
)

// Validate checks the structural invariants spec.md §7 requires the engine
// to reject as InvalidInput: every edge must reference endpoints that
// exist, and (since Graph.AddNode/AddEdge only ever take one explicit id)
// no two distinct Add calls may have silently collided on the same id with
// conflicting content is not checkable here — the check that matters in
// practice is dangling edge endpoints, which a decoder can introduce from
// a malformed input file.
func (g *Graph) Validate() error {
	for _, eid := range g.Edges() {
		e := g.edges[eid]
		if _, ok := g.nodes[e.From]; !ok {
			return octierr.InvalidInput("edge %q references unknown endpoint %q", e.ID, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return octierr.InvalidInput("edge %q references unknown endpoint %q", e.ID, e.To)
		}
		if e.From == e.To {
			return octierr.InvalidInput("edge %q is a self-loop at %q", e.ID, e.From)
		}
	}
	return nil
}
