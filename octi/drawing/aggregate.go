package drawing

import (
	"github.com/transitschema/octilayout/dgraph"
	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
)

// LineGraph is the rendered output of a finished layout: per-child
// polylines ready for octiio.EncodeLineGraph, per spec.md §4.7.
type LineGraph struct {
	Nodes map[comb.NodeID]*LGNode
	Edges []*LGEdge
}

// LGNode is one rendered station, carrying through the input's Stops.
type LGNode struct {
	ID    comb.NodeID
	Pos   geo.Point
	Stops []comb.Stop
}

// LGEdge is one rendered child (line) segment of a settled CombEdge.
type LGEdge struct {
	From, To comb.NodeID
	Line     comb.Line
	Geometry geo.Polyline
}

// BuildPolyline walks chain — the primary grid edges settled for one
// CombEdge, in hop order — into a single smoothed polyline running
// through every intermediate sink's center, grounded verbatim on
// Drawing::buildPolylineFromRes in original_source: at every intermediate
// sink the path passes through, whether it turns there or runs straight
// on, a 10-sample cubic Bézier curve (control points: the last drawn
// point, the sink center twice, the new port position) joins the
// incoming port to the outgoing one.
func BuildPolyline(gr basegraph.Graph, chain []dgraph.EdgeID) geo.Polyline {
	var pl geo.Polyline
	for _, ge := range chain {
		a, b := gr.Dgraph().Endpoints(ge)
		aPos := gr.NodePL(a).Pos
		bPos := gr.NodePL(b).Pos
		parentA := sinkPos(gr, a)

		if len(pl) > 0 && pl[len(pl)-1] != aPos {
			bc := geo.CubicBezier{
				P0: pl[len(pl)-1],
				P1: parentA,
				P2: parentA,
				P3: aPos,
			}
			pl = append(pl, bc.Render(10)...)
		} else {
			pl = append(pl, parentA)
		}

		pl = append(pl, aPos, bPos)
	}

	if len(chain) > 0 {
		_, last := gr.Dgraph().Endpoints(chain[len(chain)-1])
		pl = append(pl, sinkPos(gr, last))
	}

	return pl
}

func sinkPos(gr basegraph.Graph, port dgraph.NodeID) geo.Point {
	pl := gr.NodePL(port)
	if pl.Kind == basegraph.KindSink {
		return pl.Pos
	}
	return gr.NodePL(pl.Parent).Pos
}

// Aggregate turns a finished Drawing into a LineGraph: every CombEdge's
// polyline is split into len(Children) equal-arc-length segments, one per
// child (spec.md §4.7), each oriented to match that child's own
// From/To/Reversed direction rather than the grid path's traversal
// direction — grounded on Drawing::getTransitGraph's per-child reversal.
func Aggregate(gr basegraph.Graph, cg *comb.Graph, dw *Drawing) *LineGraph {
	lg := &LineGraph{Nodes: make(map[comb.NodeID]*LGNode)}

	for _, id := range cg.Nodes() {
		nd := cg.Node(id)
		sink, ok := dw.Sink(id)
		pos := nd.Pos
		if ok {
			pos = gr.NodePL(sink).Pos
		}
		lg.Nodes[id] = &LGNode{ID: id, Pos: pos, Stops: nd.Stops}
	}

	for _, ceID := range cg.Edges() {
		ce := cg.Edge(ceID)
		chain, ok := dw.Path(ceID)
		if !ok || len(ce.Children) == 0 {
			continue
		}

		poly := BuildPolyline(gr, chain)
		total := float64(len(ce.Children))
		length := poly.Length()
		step := length / total

		for i, child := range ce.Children {
			seg := poly.Segment(step*float64(i), step*float64(i+1))

			for _, line := range child.Lines {
				geom := seg
				childFrom, childTo := ce.From, ce.To
				if child.Reversed {
					childFrom, childTo = ce.To, ce.From
					geom = reversePolyline(seg)
				}

				lg.Edges = append(lg.Edges, &LGEdge{
					From:     childFrom,
					To:       childTo,
					Line:     line,
					Geometry: geom,
				})
			}
		}
	}

	return lg
}

func reversePolyline(pl geo.Polyline) geo.Polyline {
	out := make(geo.Polyline, len(pl))
	for i, p := range pl {
		out[len(pl)-1-i] = p
	}
	return out
}
