package sat

import "github.com/rhartert/yagh"

// vsidsRenormalizeThreshold is the point at which the shared bump value is
// folded back into the per-literal activities, per spec.md §3/§9. 1e100
// leaves ample headroom below float64's overflow point while still being
// rare enough not to matter for performance.
const vsidsRenormalizeThreshold = 1e100

// vsids tracks per-literal (not per-variable) activity, as spec.md §3
// requires: both polarities of a variable have independent scores, and the
// decision heap is keyed on literal index directly so that a single pop
// yields both the variable to decide and the polarity to assume.
//
// The heap is implemented on top of yagh.IntMap, a generic indexed heap
// with O(log n) key updates — the "explicit max-heap with a position map"
// spec.md §9 calls for, without hand-rolling one. Since yagh orders by
// ascending key, activities are stored negated so that Pop returns the
// literal with the highest activity.
type vsids struct {
	activity []float64
	bump     float64
	decay    float64 // multiplicative factor applied to bump on every conflict
	heap     *yagh.IntMap[float64]
}

func newVSIDS() *vsids {
	return &vsids{bump: 1, decay: 1 / 0.95}
}

// setDecay sets the decay factor from a user-facing decay in (0, 1].
func (v *vsids) setDecay(decay float64) {
	v.decay = 1 / decay
}

// grow extends the activity table to cover numLiterals entries.
func (v *vsids) grow(numLiterals int) {
	for len(v.activity) < numLiterals {
		v.activity = append(v.activity, 0)
	}
}

// bumpLiteral increases lit's activity by the current bump value and, if
// lit is currently sitting in the heap, restores the heap property.
func (v *vsids) bumpLiteral(lit Literal) {
	i := lit.Index()
	v.activity[i] += v.bump
	if v.heap != nil && v.heap.Contains(i) {
		v.heap.Put(i, -v.activity[i])
	}
}

// decayBump multiplies the shared bump by the decay factor, renormalizing
// (and rebuilding the heap) if it has grown too large.
func (v *vsids) decayBump(isAssigned func(Var) bool) {
	v.bump *= v.decay
	if v.bump > vsidsRenormalizeThreshold {
		for i := range v.activity {
			v.activity[i] /= v.bump
		}
		v.bump = 1
		v.initializeHeap(isAssigned)
	}
}

// initializeHeap (re)builds the heap from scratch, inserting both literals
// of every currently-unassigned variable.
func (v *vsids) initializeHeap(isAssigned func(Var) bool) {
	v.heap = yagh.New[float64](len(v.activity))
	for i := range v.activity {
		lit := Literal(i)
		if !isAssigned(lit.Var()) {
			v.heap.Put(i, -v.activity[i])
		}
	}
}

// pushVar re-inserts both polarities of v into the heap. Called when a
// variable becomes unassigned again on backtrack.
func (v *vsids) pushVar(varID Var) {
	pos := NewLiteral(varID, false).Index()
	neg := NewLiteral(varID, true).Index()
	v.heap.Put(pos, -v.activity[pos])
	v.heap.Put(neg, -v.activity[neg])
}

// popDecision returns the literal with the highest activity among those
// whose variable is still unassigned, discarding stale entries for
// variables that got assigned without an explicit removal.
func (v *vsids) popDecision(isAssigned func(Var) bool) (Literal, bool) {
	for {
		item, ok := v.heap.Pop()
		if !ok {
			return 0, false
		}
		lit := Literal(item.Elem)
		if !isAssigned(lit.Var()) {
			return lit, true
		}
	}
}
