package ilp

import (
	"context"
)

// InMemorySolver is a brute-force MIP solver for self-tests: it
// enumerates every combination of column values within their domains and
// keeps the cheapest one satisfying every row, per the original's own
// "any solver speaking this interface" contract. It is never meant for
// production-sized problems — only for the handful-of-variables instances
// octi/ilp's own tests build.
type InMemorySolver struct {
	*problem
	status Status
}

// NewInMemorySolver returns an empty in-process solver.
func NewInMemorySolver() *InMemorySolver {
	return &InMemorySolver{problem: newProblem()}
}

// Solve implements Solver.
func (s *InMemorySolver) Solve(ctx context.Context) (Status, error) {
	domains := make([][]float64, len(s.cols))
	for i, c := range s.cols {
		switch c.kind {
		case VarBinary:
			domains[i] = []float64{0, 1}
		default:
			lo, hi := int(c.lb), int(c.ub)
			for v := lo; v <= hi; v++ {
				domains[i] = append(domains[i], float64(v))
			}
		}
	}

	best := make([]float64, len(s.cols))
	bestObj := 0.0
	found := false

	assignment := make([]float64, len(s.cols))
	var recurse func(i int) bool
	recurse = func(i int) bool {
		if ctx.Err() != nil {
			return false
		}
		if i == len(s.cols) {
			if !s.satisfies(assignment) {
				return true
			}
			obj := 0.0
			for j, v := range assignment {
				obj += s.cols[j].obj * v
			}
			if !found || obj < bestObj {
				found = true
				bestObj = obj
				copy(best, assignment)
			}
			return true
		}
		for _, v := range domains[i] {
			assignment[i] = v
			if !recurse(i + 1) {
				return false
			}
		}
		return true
	}
	recurse(0)

	if ctx.Err() != nil {
		return StatusUnavailable, ctx.Err()
	}
	if !found {
		s.status = StatusInfeasible
		return StatusInfeasible, nil
	}

	for i, v := range best {
		s.cols[i].val = v
	}
	s.status = StatusOptimal
	return StatusOptimal, nil
}

func (s *InMemorySolver) satisfies(assignment []float64) bool {
	for ri, r := range s.rows {
		sum := 0.0
		for ci := range s.cols {
			if coeff, ok := s.coefs[[2]int{ri, ci}]; ok {
				sum += coeff * assignment[ci]
			}
		}
		switch r.sense {
		case SenseLE:
			if sum > r.rhs+1e-9 {
				return false
			}
		case SenseGE:
			if sum < r.rhs-1e-9 {
				return false
			}
		default:
			if sum < r.rhs-1e-9 || sum > r.rhs+1e-9 {
				return false
			}
		}
	}
	return true
}
