// Package dimacs loads DIMACS CNF files into a sat.Solver.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/GiuMaz/satyricon/internal/sat"
)

// Load reads a DIMACS CNF file from filename into solver s, transparently
// gzip-decompressing when filename ends in ".gz". It returns whether adding
// the formula's clauses produced a top-level conflict.
func Load(filename string, s *sat.Solver) (conflict bool, err error) {
	r, err := open(filename)
	if err != nil {
		return false, err
	}
	defer r.Close()
	return LoadReader(r, s)
}

func open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{gz, f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if ferr := g.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// LoadReader is like Load but reads an already-open stream, used for stdin
// input (spec.md §6).
func LoadReader(r io.Reader, s *sat.Solver) (bool, error) {
	b := &builder{solver: s}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return false, err
	}
	if !b.sawProblem {
		return false, fmt.Errorf("dimacs: missing problem line")
	}
	return b.conflict, nil
}

// builder wraps a sat.Solver to implement dimacs.Builder, enforcing the
// strict structural rules spec.md §6 requires of an instance loader: a
// single header line seen before any clause, and every literal within
// [1, nVars] in magnitude. The underlying dimacs.ReadBuilder tokenizer only
// handles the DIMACS grammar; these checks are ours.
type builder struct {
	solver     *sat.Solver
	sawProblem bool
	numVars    int
	conflict   bool
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if b.sawProblem {
		return fmt.Errorf("dimacs: multiple problem lines")
	}
	if problem != "cnf" {
		return fmt.Errorf("dimacs: unsupported problem type %q", problem)
	}
	if nVars < 0 || nClauses < 0 {
		return fmt.Errorf("dimacs: negative count in problem line")
	}
	if err := b.solver.SetNumberOfVariables(nVars); err != nil {
		return fmt.Errorf("dimacs: %w", err)
	}
	b.sawProblem = true
	b.numVars = nVars
	return nil
}

func (b *builder) Comment(string) error { return nil }

func (b *builder) Clause(tmp []int) error {
	if !b.sawProblem {
		return fmt.Errorf("dimacs: clause line before problem line")
	}

	lits := make([]sat.Literal, len(tmp))
	for i, v := range tmp {
		if v == 0 || v > b.numVars || v < -b.numVars {
			return fmt.Errorf("dimacs: literal %d out of range for %d variables", v, b.numVars)
		}
		if v < 0 {
			lits[i] = b.solver.NegativeLiteral(-v - 1)
		} else {
			lits[i] = b.solver.PositiveLiteral(v - 1)
		}
	}

	if b.solver.AddClause(lits) {
		b.conflict = true
	}
	return nil
}
