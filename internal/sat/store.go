package sat

// ClauseID is an opaque, stable handle to a clause held by a Store. Handles
// remain valid (and comparable with ==) for the lifetime of the clause;
// they are never reused while the clause they name is still live, but a
// freed clause's ID may be handed out again by a later allocation.
type ClauseID int32

// NoClause is the "no clause" handle, used as the antecedent of decisions
// and top-level units. It is not ClauseID's zero value (0 names a real
// clause), so antecedent slots are set to NoClause explicitly.
const NoClause ClauseID = -1

// Store owns all clause memory. Clauses are addressed indirectly through a
// ClauseID so that watch lists and antecedent slots can hold non-owning
// references (spec.md §5): freeing a clause invalidates its ID everywhere
// without leaving dangling pointers, since nothing outside the Store ever
// holds a *Clause.
type Store struct {
	clauses []*Clause
	free    []ClauseID
}

// NewStore returns an empty clause store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) alloc(c *Clause) ClauseID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.clauses[id] = c
		return id
	}
	s.clauses = append(s.clauses, c)
	return ClauseID(len(s.clauses) - 1)
}

// NewOriginal allocates a normalized, non-empty, non-unit clause from the
// original problem and returns its handle.
func (s *Store) NewOriginal(lits []Literal) ClauseID {
	buf := allocLiterals(len(lits))
	buf = append(buf, lits...)
	return s.alloc(&Clause{literals: buf, signature: signatureOf(buf)})
}

// NewLearned allocates a learned clause with the given initial activity and
// returns its handle.
func (s *Store) NewLearned(lits []Literal, activity float64) ClauseID {
	buf := allocLiterals(len(lits))
	buf = append(buf, lits...)
	return s.alloc(&Clause{literals: buf, learned: true, activity: activity})
}

// Get returns the clause named by id. The returned pointer must not be
// retained past the next Free call for the same id.
func (s *Store) Get(id ClauseID) *Clause {
	return s.clauses[id]
}

// Free releases the clause named by id back to the store. The caller must
// have already removed id from every watch list before calling Free.
func (s *Store) Free(id ClauseID) {
	c := s.clauses[id]
	freeLiterals(c.literals)
	s.clauses[id] = nil
	s.free = append(s.free, id)
}
