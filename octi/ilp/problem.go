package ilp

import (
	"fmt"
	"io"
)

type row struct {
	name  string
	sense Sense
	rhs   float64
}

type col struct {
	name    string
	kind    VarKind
	lb, ub  float64
	obj     float64
	starter float64
	hasStart bool
	val     float64
}

// problem holds the shared row/column/coefficient bookkeeping every
// Solver implementation needs, so InMemorySolver and ExternalSolver don't
// each reimplement AddRow/AddCol/AddColToRow/MPS writing.
type problem struct {
	rows  []row
	cols  []col
	coefs map[[2]int]float64 // (row, col) -> coefficient

	timeLimit  int
	numThreads int
}

func newProblem() *problem {
	return &problem{coefs: make(map[[2]int]float64)}
}

func (p *problem) AddRow(name string, sense Sense, rhs float64) int {
	p.rows = append(p.rows, row{name: name, sense: sense, rhs: rhs})
	return len(p.rows) - 1
}

func (p *problem) AddCol(name string, kind VarKind, lb, ub, obj float64) int {
	p.cols = append(p.cols, col{name: name, kind: kind, lb: lb, ub: ub, obj: obj})
	return len(p.cols) - 1
}

func (p *problem) AddColToRow(rowIdx, colIdx int, coeff float64) {
	p.coefs[[2]int{rowIdx, colIdx}] += coeff
}

func (p *problem) SetStarter(colIdx int, val float64) {
	p.cols[colIdx].starter = val
	p.cols[colIdx].hasStart = true
}

func (p *problem) SetTimeLimit(seconds int) { p.timeLimit = seconds }
func (p *problem) SetNumThreads(n int)      { p.numThreads = n }

func (p *problem) VarVal(colIdx int) float64 { return p.cols[colIdx].val }

// WriteMPS emits the problem in free-format MPS, grounded on spec.md
// §4.6's "delegate to any solver supporting MPS input" and on the MPS
// dialect original_source's ILPGridOptimizer writes via writeMps before
// shelling out to an external solver.
func (p *problem) WriteMPS(w io.Writer) error {
	bw := &errWriter{w: w}
	fmt.Fprintln(bw, "NAME          OCTILAYOUT")
	fmt.Fprintln(bw, "ROWS")
	fmt.Fprintln(bw, " N  COST")
	for _, r := range p.rows {
		fmt.Fprintf(bw, " %s  %s\n", senseCode(r.sense), r.name)
	}

	fmt.Fprintln(bw, "COLUMNS")
	var inInteger bool
	for ci, c := range p.cols {
		isInt := c.kind != VarContinuous
		if isInt && !inInteger {
			fmt.Fprintln(bw, "    MARKER                 INTORG")
			inInteger = true
		} else if !isInt && inInteger {
			fmt.Fprintln(bw, "    MARKER                 INTEND")
			inInteger = false
		}
		if c.obj != 0 {
			fmt.Fprintf(bw, "    %-10s COST      %g\n", c.name, c.obj)
		}
		for ri := range p.rows {
			if coeff, ok := p.coefs[[2]int{ri, ci}]; ok && coeff != 0 {
				fmt.Fprintf(bw, "    %-10s %-9s %g\n", c.name, p.rows[ri].name, coeff)
			}
		}
	}
	if inInteger {
		fmt.Fprintln(bw, "    MARKER                 INTEND")
	}

	fmt.Fprintln(bw, "RHS")
	for _, r := range p.rows {
		if r.rhs != 0 {
			fmt.Fprintf(bw, "    RHS       %-9s %g\n", r.name, r.rhs)
		}
	}

	fmt.Fprintln(bw, "BOUNDS")
	for _, c := range p.cols {
		switch {
		case c.kind == VarBinary:
			fmt.Fprintf(bw, " BV BND       %-9s\n", c.name)
		default:
			fmt.Fprintf(bw, " LO BND       %-9s %g\n", c.name, c.lb)
			fmt.Fprintf(bw, " UP BND       %-9s %g\n", c.name, c.ub)
		}
	}

	fmt.Fprintln(bw, "ENDATA")
	return bw.err
}

// WriteMST emits the warm-start in the "Mathematical-programming
// Starter" column-value-pair format spec.md §4.6 names.
func (p *problem) WriteMST(w io.Writer) error {
	bw := &errWriter{w: w}
	fmt.Fprintln(bw, "NAME OCTILAYOUT-WARMSTART")
	for _, c := range p.cols {
		if c.hasStart {
			fmt.Fprintf(bw, "    %-10s %g\n", c.name, c.starter)
		}
	}
	fmt.Fprintln(bw, "ENDATA")
	return bw.err
}

func senseCode(s Sense) string {
	switch s {
	case SenseLE:
		return "L"
	case SenseGE:
		return "G"
	default:
		return "E"
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
	}
	return n, err
}
