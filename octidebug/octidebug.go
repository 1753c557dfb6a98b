// Package octidebug dumps the base grid graph and a finished drawing as
// JSON-Lines, for external graph-visualization tools rather than for
// anything layout decisions depend on (spec.md §7b): it is a pure
// side-channel and nothing else in this module reads its output back.
//
// RECONSTRUCTION NOTICE: this file's use of
// github.com/nikolaydubina/jsonl-graph and
// github.com/nikolaydubina/multiline-jsonl is a best-effort
// reconstruction of their public API. Both packages are declared in the
// teacher repo's go.mod but never actually imported by any file the
// teacher ships, and no copy of either package's source reached this
// workspace's retrieval pack or any reachable network mirror — so their
// exact type/function names here (jsonlgraph.Node/Edge,
// multilinejsonl.Encoder) are inferred from the conventional Go shape
// such packages take (a plain data-record type per graph element, an
// encoding/json.Encoder-shaped wrapper for the pretty-printing variant),
// not verified against real source. See DESIGN.md for the full caveat.
package octidebug

import (
	"fmt"
	"io"
	"strconv"

	jsonlgraph "github.com/nikolaydubina/jsonl-graph/graph"
	multilinejsonl "github.com/nikolaydubina/multiline-jsonl"

	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
)

// DumpBaseGraph writes every sink/port GridNode and every non-secondary
// GridEdge of gr as one pretty-printed JSON-Lines record each.
func DumpBaseGraph(w io.Writer, gr basegraph.Graph) error {
	enc := multilinejsonl.NewEncoder(w)
	g := gr.Dgraph()

	for _, n := range g.Nodes() {
		pl := gr.NodePL(n)
		node := jsonlgraph.Node{
			ID: formatNodeID(n),
			Attrs: map[string]string{
				"kind":    kindLabel(pl.Kind),
				"settled": boolLabel(pl.Settled),
			},
		}
		if pl.Kind == basegraph.KindSink {
			node.Attrs["settledBy"] = string(pl.SettledBy)
		}
		if err := enc.Encode(node); err != nil {
			return err
		}
	}

	for _, e := range g.Edges() {
		epl := gr.EdgePL(e)
		if epl.Secondary {
			continue
		}
		from, to := g.Endpoints(e)
		edge := jsonlgraph.Edge{
			ID:     formatEdgeID(e),
			Source: formatNodeID(from),
			Target: formatNodeID(to),
			Attrs: map[string]string{
				"cost":   formatFloat(epl.Cost),
				"closed": boolLabel(epl.Closed),
				"inUse":  boolLabel(epl.HasRes()),
			},
		}
		if err := enc.Encode(edge); err != nil {
			return err
		}
	}
	return nil
}

// DumpDrawing writes one record per station (final sink) and one record
// per settled CombEdge's grid-edge chain.
func DumpDrawing(w io.Writer, gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing) error {
	enc := multilinejsonl.NewEncoder(w)

	for _, id := range cg.Nodes() {
		sink, ok := dw.Sink(id)
		if !ok {
			continue
		}
		node := jsonlgraph.Node{
			ID:    string(id),
			Attrs: map[string]string{"sink": formatNodeID(sink)},
		}
		if err := enc.Encode(node); err != nil {
			return err
		}
	}

	for _, ceID := range cg.Edges() {
		chain, ok := dw.Path(ceID)
		if !ok {
			continue
		}
		ce := cg.Edge(ceID)
		edge := jsonlgraph.Edge{
			ID:     string(ceID),
			Source: string(ce.From),
			Target: string(ce.To),
			Attrs: map[string]string{
				"hops": strconv.Itoa(len(chain)),
				"cost": formatFloat(dw.EdgeCost[ceID]),
			},
		}
		if err := enc.Encode(edge); err != nil {
			return err
		}
	}
	return nil
}

func kindLabel(k basegraph.Kind) string {
	if k == basegraph.KindSink {
		return "sink"
	}
	return "port"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatNodeID(n dgraph.NodeID) string { return strconv.FormatInt(int64(n), 10) }
func formatEdgeID(e dgraph.EdgeID) string { return strconv.FormatInt(int64(e), 10) }

func formatFloat(f float64) string {
	return fmt.Sprintf("%.3f", f)
}
