package sat

import "testing"

func newTestClause(lits ...Literal) *Clause {
	return &Clause{literals: append([]Literal(nil), lits...), signature: signatureOf(lits)}
}

func TestClause_LenLitSetLitSwap(t *testing.T) {
	c := newTestClause(NewLiteral(0, false), NewLiteral(1, true), NewLiteral(2, false))

	if got := c.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := c.Lit(1); got != NewLiteral(1, true) {
		t.Fatalf("Lit(1) = %v, want %v", got, NewLiteral(1, true))
	}

	c.SetLit(1, NewLiteral(5, false))
	if got := c.Lit(1); got != NewLiteral(5, false) {
		t.Fatalf("after SetLit, Lit(1) = %v, want %v", got, NewLiteral(5, false))
	}

	before0, before2 := c.Lit(0), c.Lit(2)
	c.Swap(0, 2)
	if c.Lit(0) != before2 || c.Lit(2) != before0 {
		t.Fatalf("Swap(0,2) did not exchange literals")
	}
}

func TestClause_IsLearnedAndActivity(t *testing.T) {
	original := newTestClause(NewLiteral(0, false), NewLiteral(1, false))
	if original.IsLearned() {
		t.Fatalf("fresh original clause reports IsLearned() = true")
	}

	learned := &Clause{
		literals: []Literal{NewLiteral(0, false), NewLiteral(1, false)},
		learned:  true,
		activity: 1.0,
	}
	if !learned.IsLearned() {
		t.Fatalf("learned clause reports IsLearned() = false")
	}
	learned.BumpActivity(2.5)
	if got := learned.Activity(); got != 3.5 {
		t.Fatalf("Activity() after bump = %v, want 3.5", got)
	}
	learned.RenormalizeActivity(3.5)
	if got := learned.Activity(); got != 1.0 {
		t.Fatalf("Activity() after renormalize = %v, want 1.0", got)
	}
}

func TestClause_Signature(t *testing.T) {
	lits := []Literal{NewLiteral(1, false), NewLiteral(2, true)}
	c := newTestClause(lits...)
	want := signatureOf(lits)
	if got := c.Signature(); got != want {
		t.Fatalf("Signature() = %d, want %d", got, want)
	}
}

func TestClause_Shrink(t *testing.T) {
	c := newTestClause(NewLiteral(0, false), NewLiteral(1, false), NewLiteral(2, false))
	c.Shrink(2)
	if got := c.Len(); got != 2 {
		t.Fatalf("Len() after Shrink(2) = %d, want 2", got)
	}
	if got := c.Lit(0); got != NewLiteral(0, false) {
		t.Fatalf("Shrink moved the surviving prefix: Lit(0) = %v", got)
	}
}

func TestClause_ShrinkPanicsOnGrow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Shrink(bigger) did not panic")
		}
	}()
	c := newTestClause(NewLiteral(0, false))
	c.Shrink(5)
}

func TestClause_Subsumes(t *testing.T) {
	sub := newTestClause(NewLiteral(0, false), NewLiteral(1, true))
	superset := newTestClause(NewLiteral(0, false), NewLiteral(1, true), NewLiteral(2, false))
	disjoint := newTestClause(NewLiteral(3, false), NewLiteral(4, false))

	if !sub.subsumes(superset) {
		t.Errorf("sub.subsumes(superset) = false, want true")
	}
	if superset.subsumes(sub) {
		t.Errorf("superset.subsumes(sub) = true, want false (superset is longer)")
	}
	if sub.subsumes(disjoint) {
		t.Errorf("sub.subsumes(disjoint) = true, want false")
	}
	if !sub.subsumes(sub) {
		t.Errorf("sub.subsumes(sub) = false, want true (a clause subsumes itself)")
	}
}

func TestClause_String(t *testing.T) {
	empty := &Clause{}
	if got := empty.String(); got != "()" {
		t.Errorf("empty clause String() = %q, want %q", got, "()")
	}

	c := newTestClause(NewLiteral(0, false), NewLiteral(1, true))
	if got := c.String(); got != "(1 -2)" {
		t.Errorf("String() = %q, want %q", got, "(1 -2)")
	}
}
