// Package params holds the layout parameters read once at the start of a
// run, per spec.md §6. Loading these from flags/files/env is explicitly a
// non-core concern (spec.md §1); this package only defines the struct and
// its defaults.
package params

// GridType selects which base-grid variant octi/basegraph constructs.
type GridType int

const (
	Ortho GridType = iota
	Octi
	OctiHanan
)

func (t GridType) String() string {
	switch t {
	case Ortho:
		return "ORTHO"
	case Octi:
		return "OCTI"
	case OctiHanan:
		return "OCTIHANAN"
	default:
		return "UNKNOWN"
	}
}

// Bend indexes the four bend-angle classes spec.md's glossary defines:
// 0 = straight (180°), 1 = 135°, 2 = 90°, 3 = 45° (sharpest).
type Bend [4]float64

// ILP carries the parameters of the ILP encoder/solver driver (spec.md §6).
type ILP struct {
	Enable         bool
	TimeLim        int // seconds; <=0 means no limit
	CacheDir       string
	CacheThreshold float64
	NumThreads     int
	Solver         string
}

// Params is the full set of layout parameters, read once at run start and
// treated as immutable for the duration of a layout run.
type Params struct {
	GridSize float64
	Pad      float64
	GridType GridType

	HananIters int
	MaxGrDist  float64

	HorizontalPen float64
	VerticalPen   float64
	DiagonalPen   float64
	Bend          Bend

	ILP ILP

	// MapConstructorMaxDLiteral selects between the two behaviours spec.md
	// §9's open question describes for the original MapConstructor::maxD:
	// the richer formula it computes but never returns, or the committed
	// "return d" it actually ships. Default false reproduces the shipped
	// behaviour; true is exposed for experimentation only.
	MapConstructorMaxDLiteral bool
}

// Default returns the parameter set spec.md §6 lists as defaults.
func Default() Params {
	return Params{
		GridSize:      250,
		Pad:           100,
		GridType:      Octi,
		HananIters:    1,
		MaxGrDist:     3,
		HorizontalPen: 1,
		VerticalPen:   1,
		DiagonalPen:   1.5,
		Bend:          Bend{0, 3, 6, 9},
		ILP: ILP{
			Enable:         false,
			TimeLim:        -1,
			CacheThreshold: 0,
			NumThreads:     1,
			Solver:         "external",
		},
	}
}

// HeurHopCost is the minimum of the three axis penalties, used both to
// seed initial axial-edge costs and as the per-hop A* heuristic weight
// (spec.md §4.3, §4.4.1).
func (p Params) HeurHopCost() float64 {
	m := p.HorizontalPen
	if p.VerticalPen < m {
		m = p.VerticalPen
	}
	if p.DiagonalPen < m {
		m = p.DiagonalPen
	}
	return m
}
