package octiio

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/transitschema/octilayout/octi/drawing"
)

// EncodeLineGraph writes lg as a GeoJSON FeatureCollection per spec.md
// §6's output contract: one Point feature per station (final sink
// position plus its stops), one LineString feature per rendered child
// segment (its line and geometry).
func EncodeLineGraph(w io.Writer, lg *drawing.LineGraph) error {
	fc := geojson.NewFeatureCollection()

	for _, n := range lg.Nodes {
		f := geojson.NewFeature(orb.Point{n.Pos.X, n.Pos.Y})
		np := nodeProps{ID: string(n.ID)}
		for _, s := range n.Stops {
			np.Stops = append(np.Stops, stopProps{ID: s.ID, Name: s.Name, Pos: [2]float64{s.Pos.X, s.Pos.Y}})
		}
		if err := setProps(f, np); err != nil {
			return err
		}
		fc.Append(f)
	}

	for _, e := range lg.Edges {
		ls := make(orb.LineString, len(e.Geometry))
		for i, p := range e.Geometry {
			ls[i] = orb.Point{p.X, p.Y}
		}
		f := geojson.NewFeature(ls)
		ep := edgeProps{
			From:  string(e.From),
			To:    string(e.To),
			Lines: []lineProps{{ID: e.Line.ID, Label: e.Line.Label, Color: e.Line.Color}},
		}
		if err := setProps(f, ep); err != nil {
			return err
		}
		fc.Append(f)
	}

	raw, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// setProps round-trips v through encoding/json into f.Properties, the
// mirror of decodeProps on the encode side — geojson.Properties is a
// plain map[string]any, so there is no typed setter on Feature itself.
func setProps(f *geojson.Feature, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var props geojson.Properties
	if err := json.Unmarshal(b, &props); err != nil {
		return err
	}
	f.Properties = props
	return nil
}
