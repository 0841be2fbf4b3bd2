package sat

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
)

// Options configures a Solver. Construct one from DefaultOptions and
// override only the fields that matter; NewSolver validates it and returns
// an error for any out-of-range value (spec.md §7, "configuration error").
type Options struct {
	ClauseDecay        float64 // 0 < x <= 1
	LiteralDecay       float64 // 0 < x <= 1
	RestartMultiplier  uint
	LearningMultiplier float64 // > 0
	LearningIncrease   float64 // >= 0, percent
	Preprocessing      bool
	Restart            bool
	Deletion           bool
	RandomChoice       bool
	ConflictReduction  bool
	LogLevel           int
	Output             io.Writer // defaults to os.Stdout
}

// DefaultOptions mirrors the defaults of the original Satyricon CLI
// (solver/solver.cpp): 0.999/0.95 decay, a restart multiplier of 100, an
// initial learn limit of half the clause count, and a 10% geometric growth
// on every reduction.
var DefaultOptions = Options{
	ClauseDecay:        0.999,
	LiteralDecay:       0.95,
	RestartMultiplier:  100,
	LearningMultiplier: 0.5,
	LearningIncrease:   10.0,
	Preprocessing:      true,
	Restart:            true,
	Deletion:           true,
	RandomChoice:       true,
	ConflictReduction:  true,
	LogLevel:           1,
}

type config struct {
	preprocessing      bool
	restart            bool
	deletion           bool
	randomChoice       bool
	conflictReduction  bool
	restartMultiplier  uint64
	learningMultiplier float64
	learningIncrease   float64
}

// Solver decides the satisfiability of a CNF formula using CDCL with
// watched literals, VSIDS, Luby restarts, activity-based clause deletion,
// and a one-pass subsumption preprocessor.
type Solver struct {
	store *Store
	watch *watchIndex
	vsids *vsids
	rng   *kissRNG

	numVars    int
	value      []Value
	levelOf    []int
	antecedent []ClauseID

	trail      []Literal
	trailLimit []int
	qhead      int

	clauses []ClauseID // original clauses
	learned []ClauseID

	clauseBump        float64
	clauseDecayFactor float64

	unsat bool

	cfg        config
	restarter  *restartScheduler
	learnLimit float64

	TotalConflicts int64
	TotalRestarts  int64

	seen *ResetSet

	model []int

	logLevel int
	out      io.Writer
}

// NewSolver returns a solver configured with opts, or an error if opts
// contains an out-of-range value.
func NewSolver(opts Options) (*Solver, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	s := &Solver{
		store:             NewStore(),
		vsids:             newVSIDS(),
		rng:               newKissRNG(),
		clauseBump:        1,
		clauseDecayFactor: 1 / opts.ClauseDecay,
		out:               out,
		logLevel:          opts.LogLevel,
		cfg: config{
			preprocessing:      opts.Preprocessing,
			restart:            opts.Restart,
			deletion:           opts.Deletion,
			randomChoice:       opts.RandomChoice,
			conflictReduction:  opts.ConflictReduction,
			restartMultiplier:  uint64(opts.RestartMultiplier),
			learningMultiplier: opts.LearningMultiplier,
			learningIncrease:   opts.LearningIncrease,
		},
	}
	s.vsids.setDecay(opts.LiteralDecay)
	return s, nil
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	s, err := NewSolver(DefaultOptions)
	if err != nil {
		panic(fmt.Sprintf("sat: DefaultOptions is invalid: %s", err))
	}
	return s
}

func validateOptions(o Options) error {
	if o.ClauseDecay <= 0 || o.ClauseDecay > 1 {
		return fmt.Errorf("sat: clause decay must be in (0, 1], got %v", o.ClauseDecay)
	}
	if o.LiteralDecay <= 0 || o.LiteralDecay > 1 {
		return fmt.Errorf("sat: literal decay must be in (0, 1], got %v", o.LiteralDecay)
	}
	if o.LearningMultiplier <= 0 {
		return fmt.Errorf("sat: learning multiplier must be > 0, got %v", o.LearningMultiplier)
	}
	if o.LearningIncrease < 0 {
		return fmt.Errorf("sat: learning increase must be >= 0, got %v", o.LearningIncrease)
	}
	if o.RestartMultiplier < 1 {
		return fmt.Errorf("sat: restart multiplier must be >= 1, got %v", o.RestartMultiplier)
	}
	return nil
}

// --- configuration setters (spec.md §6) ---

func (s *Solver) SetPreprocessing(b bool)     { s.cfg.preprocessing = b }
func (s *Solver) SetRestart(b bool)           { s.cfg.restart = b }
func (s *Solver) SetDeletion(b bool)          { s.cfg.deletion = b }
func (s *Solver) SetRandomChoice(b bool)      { s.cfg.randomChoice = b }
func (s *Solver) SetConflictReduction(b bool) { s.cfg.conflictReduction = b }
func (s *Solver) SetLogLevel(level int)       { s.logLevel = level }

func (s *Solver) SetRestartMultiplier(m uint) error {
	if m < 1 {
		return fmt.Errorf("sat: restart multiplier must be >= 1, got %v", m)
	}
	s.cfg.restartMultiplier = uint64(m)
	return nil
}

func (s *Solver) SetClauseDecay(decay float64) error {
	if decay <= 0 || decay > 1 {
		return fmt.Errorf("sat: clause decay must be in (0, 1], got %v", decay)
	}
	s.clauseDecayFactor = 1 / decay
	return nil
}

func (s *Solver) SetLiteralDecay(decay float64) error {
	if decay <= 0 || decay > 1 {
		return fmt.Errorf("sat: literal decay must be in (0, 1], got %v", decay)
	}
	s.vsids.setDecay(decay)
	return nil
}

func (s *Solver) SetLearningMultiplier(mult float64) error {
	if mult <= 0 {
		return fmt.Errorf("sat: learning multiplier must be > 0, got %v", mult)
	}
	s.cfg.learningMultiplier = mult
	return nil
}

func (s *Solver) SetLearningIncrease(percent float64) error {
	if percent < 0 {
		return fmt.Errorf("sat: learning increase must be >= 0, got %v", percent)
	}
	s.cfg.learningIncrease = percent
	return nil
}

// --- introspection ---

func (s *Solver) NumVariables() int { return s.numVars }
func (s *Solver) NumClauses() int   { return len(s.clauses) }
func (s *Solver) NumLearnts() int   { return len(s.learned) }

// --- construction ---

// SetNumberOfVariables declares the problem's variable count. It must be
// called exactly once, before any call to AddClause.
func (s *Solver) SetNumberOfVariables(n int) error {
	if s.numVars != 0 {
		return fmt.Errorf("sat: number of variables already set to %d", s.numVars)
	}
	if n <= 0 {
		return fmt.Errorf("sat: number of variables must be positive, got %d", n)
	}

	s.numVars = n
	s.value = make([]Value, n)
	s.levelOf = make([]int, n)
	s.antecedent = make([]ClauseID, n)
	for v := 0; v < n; v++ {
		s.value[v] = Unassigned
		s.levelOf[v] = -1
		s.antecedent[v] = NoClause
	}

	s.watch = newWatchIndex(2 * n)
	s.vsids.grow(2 * n)

	s.seen = &ResetSet{}
	for i := 0; i < n; i++ {
		s.seen.Expand()
	}

	return nil
}

// PositiveLiteral returns the literal asserting that variable v is true.
func (s *Solver) PositiveLiteral(v int) Literal { return NewLiteral(Var(v), false) }

// NegativeLiteral returns the literal asserting that variable v is false.
func (s *Solver) NegativeLiteral(v int) Literal { return NewLiteral(Var(v), true) }

// --- value helpers ---

func (s *Solver) valueOfVar(v Var) Value { return s.value[v] }

func (s *Solver) valueOfLit(l Literal) Value {
	if l.Sign() {
		return TrueValue - s.value[l.Var()]
	}
	return s.value[l.Var()]
}

func (s *Solver) isAssignedVar(v Var) bool { return s.value[v] != Unassigned }

func (s *Solver) currentLevel() int { return len(s.trailLimit) }

// --- trail & assignment ---

// assign records l as true with the given antecedent (NoClause for
// decisions and top-level units). It returns true on conflict (l's
// negation was already true).
func (s *Solver) assign(l Literal, antecedent ClauseID) bool {
	switch s.valueOfLit(l) {
	case TrueValue:
		return false
	case False:
		return true
	}

	v := l.Var()
	if l.Sign() {
		s.value[v] = False
	} else {
		s.value[v] = TrueValue
	}
	s.levelOf[v] = s.currentLevel()
	s.antecedent[v] = antecedent
	s.trail = append(s.trail, l)
	return false
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.Var()
	s.value[v] = Unassigned
	s.antecedent[v] = NoClause
	s.levelOf[v] = -1
	s.vsids.pushVar(v)
	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) cancel() {
	n := len(s.trail) - s.trailLimit[len(s.trailLimit)-1]
	for ; n != 0; n-- {
		s.undoOne()
	}
	s.trailLimit = s.trailLimit[:len(s.trailLimit)-1]
}

// cancelUntil backtracks to the given decision level.
func (s *Solver) cancelUntil(level int) {
	for s.currentLevel() > level {
		s.cancel()
	}
	s.qhead = len(s.trail)
}

// assume opens a new decision level and decides l.
func (s *Solver) assume(l Literal) bool {
	s.trailLimit = append(s.trailLimit, len(s.trail))
	return s.assign(l, NoClause)
}

// --- clause (un)registration ---

func (s *Solver) unregisterClause(c *Clause, id ClauseID) {
	s.watch.unwatch(c.Lit(0), id)
	s.watch.unwatch(c.Lit(1), id)
}

// --- clause addition (spec.md §4.2) ---

// AddClause normalizes and adds an original clause. It returns true if the
// clause addition produces a conflict (the formula is already
// unsatisfiable at level 0).
func (s *Solver) AddClause(lits []Literal) bool {
	if s.unsat {
		return true
	}

	buf := append([]Literal(nil), lits...)
	seen := make(map[Literal]bool, len(buf))
	out := buf[:0]
	tautology := false

scan:
	for _, l := range buf {
		switch s.valueOfLit(l) {
		case TrueValue:
			return false // already satisfied at level 0: discard
		case False:
			continue scan // drop falsified literal
		}
		if seen[l.Negation()] {
			tautology = true
			break
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	if tautology {
		return false
	}
	lits = out

	switch len(lits) {
	case 0:
		s.unsat = true
		return true
	case 1:
		conflict := s.assign(lits[0], NoClause)
		if conflict {
			s.unsat = true
		}
		return conflict
	}

	id := s.store.NewOriginal(lits)
	c := s.store.Get(id)
	s.watch.watch(c.Lit(0), id)
	s.watch.watch(c.Lit(1), id)
	s.clauses = append(s.clauses, id)
	for i := 0; i < c.Len(); i++ {
		s.vsids.activity[c.Lit(i).Index()]++
	}
	return false
}

// --- propagation (spec.md §4.3) ---

// propagate runs unit propagation to a fixpoint and returns the conflicting
// clause, or NoClause if none was found.
func (s *Solver) propagate() ClauseID {
	for s.qhead < len(s.trail) {
		lit := s.trail[s.qhead]
		s.qhead++
		falseLit := lit.Negation()

		list := s.watch.lists[falseLit.Index()]
		keep := list[:0]

		for i := 0; i < len(list); i++ {
			id := list[i]
			c := s.store.Get(id)

			if c.Lit(0) == falseLit {
				c.Swap(0, 1)
			}

			if s.valueOfLit(c.Lit(0)) == TrueValue {
				keep = append(keep, id)
				continue
			}

			replaced := false
			for p := 2; p < c.Len(); p++ {
				if s.valueOfLit(c.Lit(p)) != False {
					c.SetLit(1, c.Lit(p))
					c.SetLit(p, falseLit)
					s.watch.watch(c.Lit(1), id)
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}

			keep = append(keep, id)
			if s.assign(c.Lit(0), id) {
				keep = append(keep, list[i+1:]...)
				s.watch.lists[falseLit.Index()] = keep
				return id
			}
		}
		s.watch.lists[falseLit.Index()] = keep
	}
	return NoClause
}

// --- conflict analysis (spec.md §4.5) ---

// analyze performs first-UIP clause learning by backward resolution along
// the trail, returning the learned clause's literals (assertion literal
// first) and the backjump level.
func (s *Solver) analyze(conflict ClauseID) ([]Literal, int) {
	s.seen.Clear()
	counter := 0
	backjumpLevel := 0
	p := UndefLit
	out := []Literal{UndefLit} // position 0 reserved for the assertion literal

	for {
		c := s.store.Get(conflict)
		if c.IsLearned() {
			s.bumpClauseActivity(c)
		}

		start := 0
		if p != UndefLit {
			start = 1 // c[0] == p by the antecedent invariant; skip it
		}
		for i := start; i < c.Len(); i++ {
			q := c.Lit(i).Negation()
			v := q.Var()
			if s.seen.Contains(int(v)) {
				continue
			}
			s.seen.Add(int(v))
			s.vsids.bumpLiteral(q)

			lvl := s.levelOf[v]
			switch {
			case lvl == s.currentLevel():
				counter++
			case lvl > 0:
				out = append(out, q.Negation())
				if lvl > backjumpLevel {
					backjumpLevel = lvl
				}
			}
		}

		for {
			p = s.trail[len(s.trail)-1]
			conflict = s.antecedent[p.Var()]
			s.undoOne()
			if s.seen.Contains(int(p.Var())) {
				break
			}
		}
		s.vsids.bumpLiteral(p)
		counter--
		if counter <= 0 {
			break
		}
	}
	out[0] = p.Negation()

	if s.cfg.conflictReduction {
		out = s.minimizeLearned(out)
	}

	return out, backjumpLevel
}

// minimizeLearned drops any non-assertion literal of out whose antecedent's
// other literals are all already seen or fixed at level 0 (a local
// self-subsuming resolution, spec.md §4.5).
func (s *Solver) minimizeLearned(out []Literal) []Literal {
	j := 1
	for i := 1; i < len(out); i++ {
		ante := s.antecedent[out[i].Var()]
		if ante == NoClause {
			out[j] = out[i]
			j++
			continue
		}

		c := s.store.Get(ante)
		redundant := true
		for k := 1; k < c.Len(); k++ {
			v := c.Lit(k).Var()
			if !s.seen.Contains(int(v)) && s.levelOf[v] != 0 {
				redundant = false
				break
			}
		}
		if !redundant {
			out[j] = out[i]
			j++
		}
	}
	return out[:j]
}

// installLearned adds the learned clause to the store and watch lists
// (choosing the second watched literal as the one at the highest decision
// level, per spec.md §4.5) and assigns its assertion literal. A
// single-literal learned clause is not stored: the assertion literal is
// simply assigned at level 0.
func (s *Solver) installLearned(lits []Literal) {
	if len(lits) == 1 {
		s.assign(lits[0], NoClause)
		return
	}

	best := 1
	for i := 2; i < len(lits); i++ {
		if s.levelOf[lits[i].Var()] > s.levelOf[lits[best].Var()] {
			best = i
		}
	}
	lits[1], lits[best] = lits[best], lits[1]

	id := s.store.NewLearned(lits, s.clauseBump)
	c := s.store.Get(id)
	s.watch.watch(c.Lit(0), id)
	s.watch.watch(c.Lit(1), id)
	s.learned = append(s.learned, id)
	s.assign(c.Lit(0), id)
}

// --- activity bumping & decay ---

func (s *Solver) bumpClauseActivity(c *Clause) {
	c.BumpActivity(s.clauseBump)
	if c.Activity() > vsidsRenormalizeThreshold {
		for _, id := range s.learned {
			s.store.Get(id).RenormalizeActivity(s.clauseBump)
		}
		s.clauseBump = 1
	}
}

func (s *Solver) decayClauseBump() { s.clauseBump *= s.clauseDecayFactor }

// --- learned-clause reduction (spec.md §4.8) ---

func (s *Solver) reduceLearned() {
	extraLim := s.clauseBump / float64(len(s.learned))

	sort.Slice(s.learned, func(i, j int) bool {
		return s.store.Get(s.learned[i]).Activity() < s.store.Get(s.learned[j]).Activity()
	})

	locked := func(id ClauseID) bool {
		c := s.store.Get(id)
		return c.Len() == 2 || s.antecedent[c.Lit(0).Var()] == id
	}

	i, j := 0, 0
	half := len(s.learned) / 2
	for ; i < half; i++ {
		id := s.learned[i]
		if locked(id) {
			s.learned[j] = id
			j++
		} else {
			s.unregisterClause(s.store.Get(id), id)
			s.store.Free(id)
		}
	}
	for ; i < len(s.learned); i++ {
		id := s.learned[i]
		if locked(id) || s.store.Get(id).Activity() >= extraLim {
			s.learned[j] = id
			j++
		} else {
			s.unregisterClause(s.store.Get(id), id)
			s.store.Free(id)
		}
	}
	s.learned = s.learned[:j]

	s.learnLimit *= 1 + s.cfg.learningIncrease/100.0
}

// --- preprocessing (spec.md §4.9) ---

func (s *Solver) preprocess() {
	index := make([][]ClauseID, len(s.vsids.activity))
	for _, id := range s.clauses {
		c := s.store.Get(id)
		for i := 0; i < c.Len(); i++ {
			lit := c.Lit(i)
			index[lit.Index()] = append(index[lit.Index()], id)
		}
	}

	removed := make(map[ClauseID]bool)
	for _, id := range s.clauses {
		if removed[id] {
			continue
		}
		c := s.store.Get(id)

		best := c.Lit(0)
		bestLen := len(index[best.Index()])
		for i := 1; i < c.Len(); i++ {
			l := c.Lit(i)
			if n := len(index[l.Index()]); n < bestLen {
				best, bestLen = l, n
			}
		}

		for _, other := range index[best.Index()] {
			if other == id || removed[other] {
				continue
			}
			oc := s.store.Get(other)
			if c.Len() <= oc.Len() && c.subsumes(oc) {
				removed[other] = true
			}
		}
	}

	if len(removed) == 0 {
		return
	}

	kept := s.clauses[:0]
	for _, id := range s.clauses {
		if removed[id] {
			s.unregisterClause(s.store.Get(id), id)
			s.store.Free(id)
		} else {
			kept = append(kept, id)
		}
	}
	s.clauses = kept
}

// --- top-level simplification (Open Question 1, resolved in SPEC_FULL.md §9:
// runs exactly once, right after preprocessing) ---

// simplifyTopLevel drops original clauses already satisfied at level 0.
// Surviving clauses only have literals beyond the two watched positions
// compacted: shifting a watched literal here would desynchronize the watch
// index without a full re-registration, for a purely cosmetic gain, so
// positions 0 and 1 are left untouched.
func (s *Solver) simplifyTopLevel() {
	kept := s.clauses[:0]
	for _, id := range s.clauses {
		c := s.store.Get(id)
		if s.simplifyClause(c) {
			s.unregisterClause(c, id)
			s.store.Free(id)
		} else {
			kept = append(kept, id)
		}
	}
	s.clauses = kept
}

func (s *Solver) simplifyClause(c *Clause) bool {
	for i := 0; i < c.Len(); i++ {
		if s.valueOfLit(c.Lit(i)) == TrueValue {
			return true
		}
	}
	if c.Len() <= 2 {
		return false
	}
	j := 2
	for i := 2; i < c.Len(); i++ {
		if s.valueOfLit(c.Lit(i)) != False {
			c.SetLit(j, c.Lit(i))
			j++
		}
	}
	c.Shrink(j)
	return false
}

// --- decision heuristic ---

// decide returns the next literal to assume: a uniformly random unassigned
// variable and polarity 1% of the time (spec.md §4.4), otherwise the
// highest-activity literal from the VSIDS heap.
func (s *Solver) decide() Literal {
	if s.cfg.randomChoice && s.rng.intn(100) == 0 {
		var v Var
		for {
			v = Var(s.rng.intn(s.numVars))
			if !s.isAssignedVar(v) {
				break
			}
		}
		return NewLiteral(v, s.rng.intn(2) == 1)
	}

	lit, ok := s.vsids.popDecision(s.isAssignedVar)
	if !ok {
		log.Fatalln("sat: decision heap exhausted with unassigned variables remaining")
	}
	return lit
}

// --- search driver (spec.md §4.10) ---

// Solve runs the CDCL search loop and reports satisfiability. Model returns
// the satisfying assignment once Solve has returned true.
func (s *Solver) Solve() bool {
	if s.unsat {
		return false
	}

	s.restarter = newRestartScheduler(s.cfg.restartMultiplier)
	s.learnLimit = float64(len(s.clauses)) * s.cfg.learningMultiplier
	s.vsids.initializeHeap(s.isAssignedVar)

	if s.cfg.preprocessing {
		s.preprocess()
	}
	s.simplifyTopLevel()

	s.printf(1, "c %8s %8s %8s %8s\n", "conflict", "restart", "lim", "learned")

	for {
		conflict := s.propagate()

		if conflict != NoClause {
			s.TotalConflicts++

			if s.currentLevel() == 0 {
				return false
			}

			learnedLits, backjumpLevel := s.analyze(conflict)
			s.cancelUntil(backjumpLevel)
			s.installLearned(learnedLits)

			s.vsids.decayBump(s.isAssignedVar)
			s.decayClauseBump()
			continue
		}

		if len(s.trail) == s.numVars {
			s.buildModel()
			return true
		}

		if s.cfg.deletion && len(s.learned) > 0 && float64(len(s.learned)) >= s.learnLimit {
			s.reduceLearned()
			s.printf(1, "c %8d %8d %8.0f %8d\n", s.TotalConflicts, s.TotalRestarts, s.learnLimit, len(s.learned))
		}

		if s.cfg.restart && s.restarter.due(uint64(s.TotalConflicts)) {
			s.TotalRestarts++
			s.restarter.restart()
			s.cancelUntil(0)
		}

		s.assume(s.decide())
	}
}

func (s *Solver) buildModel() {
	s.model = make([]int, s.numVars)
	for v := 0; v < s.numVars; v++ {
		n := v + 1
		if s.value[v] == False {
			n = -n
		}
		s.model[v] = n
	}
}

// Model returns, for each variable 1..N, a signed integer (positive if
// true), valid only after Solve has returned true.
func (s *Solver) Model() []int { return s.model }

func (s *Solver) printf(level int, format string, args ...any) {
	if s.logLevel >= level {
		fmt.Fprintf(s.out, format, args...)
	}
}
