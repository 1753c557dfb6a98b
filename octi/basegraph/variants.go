package basegraph

import (
	"math"
	"sort"

	"github.com/transitschema/octilayout/geo"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/params"
)

// NewOrthoGraph builds a dense orthogonal (4-port) base grid covering cg's
// stations, per spec.md §4.4.
func NewOrthoGraph(cg *comb.Graph, p params.Params) *Grid {
	gr := newGrid(4, p)
	gr.cg = cg
	buildFullGrid(gr, inputBounds(cg, p))
	return gr
}

// NewOctiGraph builds a dense octilinear (8-port) base grid covering cg's
// stations, per spec.md §4.4.
func NewOctiGraph(cg *comb.Graph, p params.Params) *Grid {
	gr := newGrid(8, p)
	gr.cg = cg
	buildFullGrid(gr, inputBounds(cg, p))
	return gr
}

// NewHananGraph builds the sparser, octilinear Hanan-grid variant: sinks
// sit only at the stations' own lattice coordinates plus the intersections
// added by up to p.HananIters rounds of four-axis closure (see
// hananEnrichOnce), rather than on every cell of a dense lattice, per
// spec.md §4.4.3.
func NewHananGraph(cg *comb.Graph, p params.Params) *Grid {
	gr := newGrid(8, p)
	gr.cg = cg
	buildHananGrid(gr, cg, p)
	return gr
}

// inputBounds returns cg's station bounding box padded by p.Pad, which is
// what the dense-grid variants cover with sinks.
func inputBounds(cg *comb.Graph, p params.Params) geo.Box {
	b := geo.EmptyBox()
	for _, id := range cg.Nodes() {
		b = b.Extend(cg.Node(id).Pos)
	}
	return b.Pad(p.Pad)
}

// buildFullGrid lays a dense lattice of sinks, spaced p.GridSize apart,
// across bounds, then connects every adjacent pair along each of the
// grid's numPorts/2 primary axes.
func buildFullGrid(gr *Grid, bounds geo.Box) {
	cell := gr.p.GridSize
	nx := int(bounds.Width()/cell) + 1
	ny := int(bounds.Height()/cell) + 1

	for gy := 0; gy <= ny; gy++ {
		for gx := 0; gx <= nx; gx++ {
			pos := geo.Point{
				X: bounds.Min.X + float64(gx)*cell,
				Y: bounds.Min.Y + float64(gy)*cell,
			}
			gr.addSink(gx, gy, pos)
		}
	}

	connectLattice(gr, nx, ny)
}

// connectLattice wires every primary-axis neighbor pair across the sinks
// already placed at integer (gx, gy) coordinates in gr.byCoord.
func connectLattice(gr *Grid, nx, ny int) {
	for gy := 0; gy <= ny; gy++ {
		for gx := 0; gx <= nx; gx++ {
			a, ok := gr.byCoord[[2]int{gx, gy}]
			if !ok {
				continue
			}
			for dir := 0; dir < gr.numPorts/2; dir++ {
				if b, ok := gr.neigh(gx, gy, dir); ok {
					gr.connectAxis(a, b, dir, 1)
				}
			}
		}
	}
}

// buildHananGrid implements spec.md §4.4.1's sparse Hanan-style lattice:
// start with one lattice coordinate per station, enrich it p.HananIters
// rounds by adding every point whose x or y (or whose diagonal-axis sum
// or difference) is shared with two distinct existing points, then
// connect sinks along each of the four axes in sorted order.
//
// Grounded on OctiHananGraph::getIterCoords/init in original_source,
// ported as a fixed-point set-closure over a sparse coordinate map
// instead of the original's dense per-axis arrays (original_source
// indexes by a bounded grid width/height; this has no such bound, so a
// map-based closure is the idiomatic Go rendition of the same
// intersection rule).
func buildHananGrid(gr *Grid, cg *comb.Graph, p params.Params) {
	origin := inputBounds(cg, params.Params{Pad: 0})
	cellOf := func(pt geo.Point) [2]int {
		return [2]int{
			int(math.Round((pt.X - origin.Min.X) / p.GridSize)),
			int(math.Round((pt.Y - origin.Min.Y) / p.GridSize)),
		}
	}

	coords := map[[2]int]bool{}
	for _, id := range cg.Nodes() {
		coords[cellOf(cg.Node(id).Pos)] = true
	}

	for i := 0; i < p.HananIters; i++ {
		next := hananEnrichOnce(coords)
		if len(next) == len(coords) {
			break
		}
		coords = next
	}

	for c := range coords {
		pos := geo.Point{
			X: origin.Min.X + float64(c[0])*p.GridSize,
			Y: origin.Min.Y + float64(c[1])*p.GridSize,
		}
		gr.addSink(c[0], c[1], pos)
	}

	connectHananAxes(gr, coords)
}

// hananEnrichOnce runs one round of spec.md §4.4.1's four-axis
// intersection closure: a candidate point is added when its x and y (or
// its x+y and x-y diagonal-axis coordinates) are each already present,
// independently, among the existing points.
func hananEnrichOnce(coords map[[2]int]bool) map[[2]int]bool {
	xs, ys, d1s, d2s := map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}
	for c := range coords {
		xs[c[0]] = true
		ys[c[1]] = true
		d1s[c[0]+c[1]] = true
		d2s[c[0]-c[1]] = true
	}

	out := make(map[[2]int]bool, len(coords))
	for c := range coords {
		out[c] = true
	}
	for x := range xs {
		for y := range ys {
			out[[2]int{x, y}] = true
		}
	}
	for d1 := range d1s {
		for d2 := range d2s {
			if (d1+d2)%2 != 0 {
				continue
			}
			out[[2]int{(d1 + d2) / 2, (d1 - d2) / 2}] = true
		}
	}
	return out
}

// connectHananAxes wires primary grid edges along each of the four axes
// (horizontal, vertical, and the two diagonals), grouping sinks that
// share an axis coordinate and connecting consecutive sorted members,
// per spec.md §4.4.1's closing sentence.
func connectHananAxes(gr *Grid, coords map[[2]int]bool) {
	type member struct {
		c      [2]int
		orderK int
	}
	connectGroup := func(groups map[int][]member, dir int) {
		for _, members := range groups {
			sort.Slice(members, func(i, j int) bool { return members[i].orderK < members[j].orderK })
			for i := 1; i < len(members); i++ {
				a, aok := gr.byCoord[members[i-1].c]
				b, bok := gr.byCoord[members[i].c]
				if !aok || !bok {
					continue
				}
				steps := float64(members[i].orderK - members[i-1].orderK)
				gr.connectAxis(a, b, dir, steps)
			}
		}
	}

	vertical := map[int][]member{}  // grouped by gx, ordered by gy: dir 0 (up/down)
	horizontal := map[int][]member{} // grouped by gy, ordered by gx: dir 2 (left/right)
	diag1 := map[int][]member{}      // grouped by gx-gy, ordered by gx: dir 1
	diag3 := map[int][]member{}      // grouped by gx+gy, ordered by gx: dir 3

	for c := range coords {
		gx, gy := c[0], c[1]
		vertical[gx] = append(vertical[gx], member{c: c, orderK: gy})
		horizontal[gy] = append(horizontal[gy], member{c: c, orderK: gx})
		diag1[gx-gy] = append(diag1[gx-gy], member{c: c, orderK: gx})
		diag3[gx+gy] = append(diag3[gx+gy], member{c: c, orderK: gx})
	}

	connectGroup(vertical, 0)
	connectGroup(horizontal, axisRight(gr.numPorts))
	connectGroup(diag1, 1%gr.numPorts)
	connectGroup(diag3, 3%gr.numPorts)
}

// axisRight gives the port-direction index of the "+X" primary axis for
// an 8-port octilinear grid, matching dirVector's up=0-clockwise
// convention (port 2 of 8).
func axisRight(numPorts int) int { return numPorts / 4 }
