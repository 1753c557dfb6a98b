// Package ilp is the ILP encoder/solver driver of spec.md §4.6: it builds
// a single mixed-integer program over the base grid and combinatorial
// graph, warm-starts it from the greedy router's drawing.Drawing, and hands it to a
// Solver — either an in-process brute-force solver for self-tests or an
// external MPS/MST-speaking MIP solver process.
//
// Grounded on original_source/src/octi/ilp/ILPGridOptimizer.cpp's
// createProblem/optimize split: createProblem only ever calls addRow,
// addCol, addColToRow, and setStarter against an abstract ILPSolver
// interface (shared::optim::ILPSolver in the original), never touching a
// concrete solver's API directly; Solver here is that same seam.
package ilp

import (
	"context"
	"io"
)

// Sense is a row's comparison operator.
type Sense int

const (
	SenseLE Sense = iota
	SenseGE
	SenseEQ
)

// VarKind is a column's domain.
type VarKind int

const (
	VarBinary VarKind = iota
	VarInteger
	VarContinuous
)

// Status is the outcome of a Solve call, per spec.md §4.6's "on
// INFEASIBLE fail with NoSolution; on TIME_LIMIT accept with
// optimal=false".
type Status int

const (
	StatusOptimal Status = iota
	StatusTimeLimit
	StatusInfeasible
	StatusUnavailable
)

// Solver is the MIP backend the encoder drives. Rows and columns are
// referenced by the index AddRow/AddCol return, matching the original's
// addRow/addCol return-an-index convention.
type Solver interface {
	AddRow(name string, sense Sense, rhs float64) int
	AddCol(name string, kind VarKind, lb, ub, obj float64) int
	AddColToRow(row, col int, coeff float64)

	// SetStarter records a warm-start value for col, per spec.md §4.6's
	// MST warm-start section. Solvers that don't support warm-starting
	// may ignore it.
	SetStarter(col int, val float64)

	SetTimeLimit(seconds int) // <= 0 means no limit
	SetNumThreads(n int)

	Solve(ctx context.Context) (Status, error)
	VarVal(col int) float64

	WriteMPS(w io.Writer) error
	WriteMST(w io.Writer) error
}
