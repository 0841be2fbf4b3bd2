// Package pigeonhole generates the pigeonhole CNF family PHP_n: n+1 pigeons,
// n holes, unsatisfiable for every n >= 1. It is grounded on
// original_source/pigeon_hole/pigeon.cpp and used as a stress test for
// conflict-driven search, since the shortest resolution proof of PHP_n is
// exponential in n.
package pigeonhole

import (
	"fmt"

	"github.com/GiuMaz/satyricon/internal/sat"
)

// Formula returns the PHP_n formula for the given number of holes: numVars
// is holes*(holes+1), and clauses is in DIMACS literal form (no trailing
// 0, positive/negative ints, 1-based variable numbers).
func Formula(holes int) (numVars int, clauses [][]int, err error) {
	if holes < 1 {
		return 0, nil, fmt.Errorf("pigeonhole: holes must be >= 1, got %d", holes)
	}

	pigeons := holes + 1
	numVars = holes * pigeons
	variable := func(p, h int) int { return (p-1)*holes + h }

	clauses = make([][]int, 0, pigeons+(holes*holes*pigeons)/2)

	// Every pigeon sits in some hole.
	for p := 1; p <= pigeons; p++ {
		clause := make([]int, holes)
		for h := 1; h <= holes; h++ {
			clause[h-1] = variable(p, h)
		}
		clauses = append(clauses, clause)
	}

	// No hole holds two pigeons.
	for j := 1; j <= holes; j++ {
		for i := 1; i <= pigeons-1; i++ {
			for h := i + 1; h <= pigeons; h++ {
				clauses = append(clauses, []int{-variable(i, j), -variable(h, j)})
			}
		}
	}

	return numVars, clauses, nil
}

// AddToSolver builds the PHP_n formula directly into a freshly-numbered
// solver s, returning whether adding the clauses produced a top-level
// conflict. For holes == 1 it does: both pigeon clauses are units, and the
// single "no two pigeons" clause is then falsified at level 0. Larger
// instances are added without conflict; holes < 1 is reported as an error.
func AddToSolver(s *sat.Solver, holes int) (conflict bool, err error) {
	numVars, clauses, err := Formula(holes)
	if err != nil {
		return false, err
	}
	if err := s.SetNumberOfVariables(numVars); err != nil {
		return false, err
	}

	for _, c := range clauses {
		lits := make([]sat.Literal, len(c))
		for i, v := range c {
			if v < 0 {
				lits[i] = s.NegativeLiteral(-v - 1)
			} else {
				lits[i] = s.PositiveLiteral(v - 1)
			}
		}
		if s.AddClause(lits) {
			conflict = true
		}
	}
	return conflict, nil
}
