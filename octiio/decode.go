// Package octiio is the external-interface boundary of spec.md §6: GeoJSON
// in, GeoJSON out. It is the only package in this module that knows about
// the wire contract; every other package works in plain comb/drawing
// types.
//
// Grounded on azybler-map_router's paulmach/osm -> paulmach/orb dependency
// chain: that repo pulls in paulmach/orb transitively for its OSM geometry
// conversions, which this package uses directly for its GeoJSON
// FeatureCollection encoder/decoder instead of hand-rolling one over
// encoding/json.
package octiio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octierr"
)

// nodeProps mirrors spec.md §6's Point-feature node contract.
type nodeProps struct {
	ID    string      `json:"id"`
	Stops []stopProps `json:"stops,omitempty"`
	Order []string    `json:"order,omitempty"` // adjacent edge ids, clockwise
}

type stopProps struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Pos  [2]float64 `json:"pos"`
}

// edgeProps mirrors spec.md §6's LineString-feature edge contract.
type edgeProps struct {
	ID    string      `json:"id,omitempty"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Lines []lineProps `json:"lines"`
}

type lineProps struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// DecodeCombGraph reads a GeoJSON FeatureCollection per spec.md §6's input
// contract: Point features are stations (with stops and a clockwise
// incident-edge order), LineString features are combinatorial edges (with
// their line set).
func DecodeCombGraph(r io.Reader) (*comb.Graph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, octierr.InvalidInput("read GeoJSON input: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, octierr.InvalidInput("parse GeoJSON FeatureCollection: %v", err)
	}

	cg := comb.New()
	orders := make(map[comb.NodeID][]string)

	// Nodes first, so AddEdge below can attach to them.
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		var np nodeProps
		if err := decodeProps(f.Properties, &np); err != nil {
			return nil, octierr.InvalidInput("decode node properties: %v", err)
		}
		if np.ID == "" {
			return nil, octierr.InvalidInput("Point feature missing required \"id\" property")
		}

		stops := make([]comb.Stop, len(np.Stops))
		for i, s := range np.Stops {
			stops[i] = comb.Stop{ID: s.ID, Name: s.Name, Pos: geo.Point{X: s.Pos[0], Y: s.Pos[1]}}
		}

		cg.AddNode(comb.NodeID(np.ID), geo.Point{X: pt[0], Y: pt[1]}, stops)
		if len(np.Order) > 0 {
			orders[comb.NodeID(np.ID)] = np.Order
		}
	}

	eSeq := 0
	for _, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			continue
		}
		var ep edgeProps
		if err := decodeProps(f.Properties, &ep); err != nil {
			return nil, octierr.InvalidInput("decode edge properties: %v", err)
		}
		if ep.From == "" || ep.To == "" {
			return nil, octierr.InvalidInput("LineString feature missing required \"from\"/\"to\" properties")
		}

		id := ep.ID
		if id == "" {
			id = fmt.Sprintf("%s-%s-%d", ep.From, ep.To, eSeq)
		}
		eSeq++

		lines := make([]comb.Line, len(ep.Lines))
		for i, l := range ep.Lines {
			lines[i] = comb.Line{ID: l.ID, Label: l.Label, Color: l.Color}
		}
		children := []comb.Child{{Lines: lines}}

		angleFrom, angleTo := angleFromGeometry(ls)
		cg.AddEdge(comb.EdgeID(id), comb.NodeID(ep.From), comb.NodeID(ep.To), children, angleFrom, angleTo)
	}

	// A Point feature's explicit clockwise `order` list, if present,
	// overrides the angle-derived ordering AddEdge built up above —
	// per spec.md §6's "ordered list of adjacent edge ids" contract.
	for id, order := range orders {
		ids := make([]comb.EdgeID, len(order))
		for i, e := range order {
			ids[i] = comb.EdgeID(e)
		}
		cg.SetIncidentOrder(id, ids)
	}

	return cg, nil
}

// angleFromGeometry derives clockwise-from-up departure angles at each
// endpoint from a LineString's first/last segment, used only as a
// fallback ordering when the input has no explicit `order` list.
func angleFromGeometry(ls orb.LineString) (from, to float64) {
	if len(ls) < 2 {
		return 0, 0
	}
	from = vecAngle(ls[0], ls[1])
	to = vecAngle(ls[len(ls)-1], ls[len(ls)-2])
	return from, to
}

// vecAngle is geo.Point.Angle applied to the vector from a to b, matching
// octi/comb's clockwise-from-up incident-angle convention (spec.md §3).
func vecAngle(a, b orb.Point) float64 {
	v := geo.Point{X: b[0] - a[0], Y: b[1] - a[1]}
	return v.Angle()
}

func decodeProps(p geojson.Properties, out any) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
