// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/boundary_test.go
// Summary: Boundary crossing shifts, guards and subscription invariants.

package a11y

import "testing"

// scrolledFixture builds a 4-row window over 7 stored lines with the
// view at the live edge (offset 3), rendered once.
func scrolledFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(4)
	f.sim.Write("a\nb\nc\nd\ne\nf\n")
	if got := f.sim.LineCount(); got != 7 {
		t.Fatalf("line count = %d, want 7", got)
	}
	if got := f.sim.ViewOffset(); got != 3 {
		t.Fatalf("view offset = %d, want 3", got)
	}
	f.render()
	return f
}

func TestBoundary_TopCrossingShiftsWindowUp(t *testing.T) {
	f := scrolledFixture(t)
	before := f.surf.Nodes()

	// AT traversal: inner neighbor first, then the top boundary.
	f.surf.FocusNode(before[1])
	consumed := f.surf.FocusNode(before[0])

	if !consumed {
		t.Error("boundary crossing not consumed")
	}
	if got := f.sim.ViewOffset(); got != 2 {
		t.Errorf("view offset = %d, want 2", got)
	}
	after := f.surf.Nodes()
	if len(after) != 4 {
		t.Fatalf("window size changed: %d nodes", len(after))
	}
	// The node the user stepped onto survives the shift, one slot down.
	if after[1] != before[0] {
		t.Error("crossed node did not keep its identity at index 1")
	}
	// A fresh node appears at the top, the old bottom is evicted.
	for _, n := range before {
		if after[0] == n {
			t.Error("top node after shift is not freshly created")
		}
		if n == before[3] {
			for _, kept := range after {
				if kept == n {
					t.Error("evicted bottom node still attached")
				}
			}
		}
	}
	if got := f.surf.FocusedIndex(); got != 1 {
		t.Errorf("focus index = %d, want 1", got)
	}
	if !f.edgeSubscriptionsOK() {
		t.Error("subscription pair invariant broken after shift")
	}
}

func TestBoundary_BottomCrossingShiftsWindowDown(t *testing.T) {
	f := scrolledFixture(t)
	f.sim.ScrollLines(-3)
	f.render()
	before := f.surf.Nodes()

	f.surf.FocusNode(before[2])
	consumed := f.surf.FocusNode(before[3])

	if !consumed {
		t.Error("boundary crossing not consumed")
	}
	if got := f.sim.ViewOffset(); got != 1 {
		t.Errorf("view offset = %d, want 1", got)
	}
	after := f.surf.Nodes()
	if after[2] != before[3] {
		t.Error("crossed node did not keep its identity at index 2")
	}
	if after[3] == before[3] || after[3] == before[2] {
		t.Error("bottom node after shift is not freshly created")
	}
	if got := f.surf.FocusedIndex(); got != 2 {
		t.Errorf("focus index = %d, want 2", got)
	}
	if !f.edgeSubscriptionsOK() {
		t.Error("subscription pair invariant broken after shift")
	}
}

func TestBoundary_GuardAtAbsoluteTop(t *testing.T) {
	f := scrolledFixture(t)
	f.sim.ScrollLines(-3)
	f.render()
	before := f.surf.Nodes()
	if got := before[0].PosInSet(); got != 1 {
		t.Fatalf("top node posinset = %d, want 1", got)
	}

	f.surf.FocusNode(before[1])
	consumed := f.surf.FocusNode(before[0])

	if consumed {
		t.Error("crossing consumed at genuine top of data")
	}
	if got := f.sim.ViewOffset(); got != 0 {
		t.Errorf("view offset moved to %d at top of data", got)
	}
	after := f.surf.Nodes()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("node %d identity changed by guarded crossing", i)
		}
	}
	if got := f.surf.FocusedIndex(); got != 0 {
		t.Errorf("focus index = %d, want 0", got)
	}
}

func TestBoundary_GuardAtAbsoluteBottom(t *testing.T) {
	f := scrolledFixture(t)
	before := f.surf.Nodes()
	if got, want := before[3].PosInSet(), f.sim.LineCount(); got != want {
		t.Fatalf("bottom node posinset = %d, want %d", got, want)
	}

	f.surf.FocusNode(before[2])
	consumed := f.surf.FocusNode(before[3])

	if consumed {
		t.Error("crossing consumed at genuine bottom of data")
	}
	if got := f.sim.ViewOffset(); got != 3 {
		t.Errorf("view offset moved to %d at bottom of data", got)
	}
	if got := f.surf.FocusedIndex(); got != 3 {
		t.Errorf("focus index = %d, want 3", got)
	}
}

func TestBoundary_NonAdjacentFocusDoesNotShift(t *testing.T) {
	f := scrolledFixture(t)
	nodes := f.surf.Nodes()

	// Jumping straight from the middle to the boundary is not a
	// traversal crossing.
	f.surf.FocusNode(nodes[2])
	if consumed := f.surf.FocusNode(nodes[0]); consumed {
		t.Error("non-adjacent focus consumed")
	}
	if got := f.sim.ViewOffset(); got != 3 {
		t.Errorf("view offset = %d, want 3", got)
	}
}

func TestBoundary_FirstFocusOnBoundaryDoesNotShift(t *testing.T) {
	f := scrolledFixture(t)
	nodes := f.surf.Nodes()

	// No previously focused node: nothing to cross from.
	if consumed := f.surf.FocusNode(nodes[0]); consumed {
		t.Error("initial focus consumed")
	}
	if got := f.sim.ViewOffset(); got != 3 {
		t.Errorf("view offset = %d, want 3", got)
	}
}

func TestBoundary_SingleRowWindowNeverShifts(t *testing.T) {
	f := newFixture(1)
	f.sim.Write("x\ny\n")
	f.render()
	node := f.surf.NodeAt(0)

	if consumed := f.surf.FocusNode(node); consumed {
		t.Error("focus consumed in single-row window")
	}
	if got := f.sim.ViewOffset(); got != 2 {
		t.Errorf("view offset = %d, want 2", got)
	}
	if !f.edgeSubscriptionsOK() {
		t.Error("subscription pair invariant broken")
	}
}

func TestBoundary_DetachIsIdempotent(t *testing.T) {
	f := newFixture(3)

	f.bc.DetachTop()
	f.bc.DetachTop()
	f.bc.DetachBottom()
	f.bc.DetachBottom()

	if got := f.surf.ListenerTotal(); got != 0 {
		t.Errorf("listener total after detach = %d, want 0", got)
	}
}
