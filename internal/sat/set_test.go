package sat

import "testing"

func newTestResetSet(n int) *ResetSet {
	rs := &ResetSet{}
	for i := 0; i < n; i++ {
		rs.Expand()
	}
	return rs
}

func TestResetSet_AddContains(t *testing.T) {
	rs := newTestResetSet(4)
	if rs.Contains(0) {
		t.Fatalf("fresh set contains 0")
	}
	rs.Add(2)
	if !rs.Contains(2) {
		t.Fatalf("set does not contain 2 after Add(2)")
	}
	if rs.Contains(1) {
		t.Fatalf("set contains 1 without it being added")
	}
}

func TestResetSet_Clear(t *testing.T) {
	rs := newTestResetSet(4)
	rs.Add(0)
	rs.Add(3)
	rs.Clear()
	if rs.Contains(0) || rs.Contains(3) {
		t.Fatalf("Clear did not remove previously-added elements")
	}
	rs.Add(1)
	if !rs.Contains(1) {
		t.Fatalf("set does not contain 1 after Add following Clear")
	}
}

func TestResetSet_ClearOverflow(t *testing.T) {
	rs := newTestResetSet(3)
	rs.addedTimestamp = 0xFFFE
	rs.Clear() // addedTimestamp becomes 0xFFFF
	rs.Add(1)
	if !rs.Contains(1) {
		t.Fatalf("set lost element 1 right before overflow")
	}
	rs.Clear() // wraps to 0, forcing the overflow reset branch
	if rs.Contains(1) {
		t.Fatalf("overflow reset should have cleared every element, but Contains(1) = true")
	}
	rs.Add(2)
	if !rs.Contains(2) || rs.Contains(0) {
		t.Fatalf("set behaves incorrectly right after overflow reset")
	}
}

func TestResetSet_Expand(t *testing.T) {
	rs := &ResetSet{}
	rs.Expand()
	rs.Expand()
	if len(rs.addedAt) != 2 {
		t.Fatalf("len(addedAt) = %d after two Expand calls, want 2", len(rs.addedAt))
	}
	if rs.Contains(0) || rs.Contains(1) {
		t.Fatalf("newly expanded slots should not already be contained")
	}
}
