package sat

// watchIndex maps each literal to the clauses currently watching it. Every
// non-unit clause appears in exactly two lists, keyed by its first two
// literals (spec.md §3, the two-watched-literal invariant).
type watchIndex struct {
	lists [][]ClauseID // indexed by Literal.Index()
}

func newWatchIndex(numLiterals int) *watchIndex {
	return &watchIndex{lists: make([][]ClauseID, numLiterals)}
}

func (w *watchIndex) grow(numLiterals int) {
	for len(w.lists) < numLiterals {
		w.lists = append(w.lists, nil)
	}
}

// watch registers c to be revisited whenever lit's negation is assigned.
func (w *watchIndex) watch(lit Literal, c ClauseID) {
	w.lists[lit.Index()] = append(w.lists[lit.Index()], c)
}

// unwatch removes c from lit's watch list. c must currently be present.
func (w *watchIndex) unwatch(lit Literal, c ClauseID) {
	list := w.lists[lit.Index()]
	for i, id := range list {
		if id == c {
			list[i] = list[len(list)-1]
			w.lists[lit.Index()] = list[:len(list)-1]
			return
		}
	}
	panic("sat: unwatch of a clause not present in the watch list")
}
