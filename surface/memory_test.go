// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/memory_test.go
// Summary: In-memory surface ordering, focus and listener tests.

package surface

import "testing"

func TestMemory_InsertBeforeKeepsOrder(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	c := m.CreateNode()
	m.AppendNode(a)
	m.AppendNode(c)

	m.InsertNodeBefore(b, c)

	want := []Node{a, b, c}
	nodes := m.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(nodes))
	}
	for i := range want {
		if Node(nodes[i]) != want[i] {
			t.Errorf("node %d out of order", i)
		}
	}
}

func TestMemory_InsertBeforeNilAppends(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	m.AppendNode(a)
	b := m.CreateNode()

	m.InsertNodeBefore(b, nil)

	if got := m.NodeAt(1); Node(got) != b {
		t.Error("nil-ref insert did not append")
	}
}

func TestMemory_RemoveNodeClearsFocus(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	m.AppendNode(a)
	m.FocusNode(a)
	if got := m.FocusedIndex(); got != 0 {
		t.Fatalf("focused index = %d, want 0", got)
	}

	m.RemoveNode(a)

	if got := m.FocusedIndex(); got != -1 {
		t.Errorf("focused index = %d after removal, want -1", got)
	}
	if got := len(m.Nodes()); got != 0 {
		t.Errorf("node count = %d, want 0", got)
	}
}

func TestMemory_FocusEventCarriesRelatedNode(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	m.AppendNode(a)
	m.AppendNode(b)

	var gotTarget, gotRelated Node
	b.AddFocusListener(func(ev FocusEvent) bool {
		gotTarget, gotRelated = ev.Target, ev.Related
		return false
	})

	m.FocusNode(a)
	m.FocusNode(b)

	if gotTarget != b {
		t.Error("focus event target is not the focused node")
	}
	if gotRelated != a {
		t.Error("focus event related is not the previously focused node")
	}
}

func TestMemory_FirstFocusHasNilRelated(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	m.AppendNode(a)

	var related Node = a // sentinel, must be overwritten with nil
	a.AddFocusListener(func(ev FocusEvent) bool {
		related = ev.Related
		return false
	})
	m.FocusNode(a)

	if related != nil {
		t.Error("first focus carried a related node")
	}
}

func TestMemory_FocusConsumedWhenAnyListenerConsumes(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	m.AppendNode(a)
	a.AddFocusListener(func(FocusEvent) bool { return false })
	a.AddFocusListener(func(FocusEvent) bool { return true })

	if !m.FocusNode(a) {
		t.Error("focus not reported consumed")
	}
}

func TestMemory_ListenerRemovalIsExact(t *testing.T) {
	m := NewMemory()
	n := m.CreateNode().(*MemNode)
	fired := make([]int, 0, 2)
	remove1 := n.AddFocusListener(func(FocusEvent) bool { fired = append(fired, 1); return false })
	n.AddFocusListener(func(FocusEvent) bool { fired = append(fired, 2); return false })
	m.AppendNode(n)

	remove1()
	remove1() // double removal is harmless
	m.FocusNode(n)

	if len(fired) != 1 || fired[0] != 2 {
		t.Errorf("fired listeners = %v, want [2]", fired)
	}
	if got := n.ListenerCount(); got != 1 {
		t.Errorf("listener count = %d, want 1", got)
	}
}

func TestMemory_ListenerSwapDuringEventDoesNotMisfire(t *testing.T) {
	m := NewMemory()
	n := m.CreateNode().(*MemNode)
	m.AppendNode(n)

	lateFired := false
	var removeFirst func()
	removeFirst = n.AddFocusListener(func(FocusEvent) bool {
		// Transition handlers swap subscriptions mid-event; the newly
		// added listener must not see the event that triggered the swap.
		removeFirst()
		n.AddFocusListener(func(FocusEvent) bool {
			lateFired = true
			return false
		})
		return true
	})

	m.FocusNode(n)

	if lateFired {
		t.Error("listener added during dispatch saw the same event")
	}
	if got := n.ListenerCount(); got != 1 {
		t.Errorf("listener count = %d, want 1", got)
	}
}

func TestMemory_NodeFocusRoutesThroughSurface(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	m.AppendNode(a)
	m.AppendNode(b)

	fired := false
	b.AddFocusListener(func(ev FocusEvent) bool {
		fired = ev.Related == a
		return false
	})

	m.FocusNode(a)
	b.Focus()

	if !fired {
		t.Error("programmatic focus did not fire the focus listener")
	}
	if got := m.FocusedIndex(); got != 1 {
		t.Errorf("focused index = %d, want 1", got)
	}
}

func TestMemory_AttachDetach(t *testing.T) {
	m := NewMemory()
	if m.IsAttached() {
		t.Error("new surface reports attached")
	}
	m.Attach()
	if !m.IsAttached() {
		t.Error("surface not attached after Attach")
	}
	m.Detach()
	if m.IsAttached() {
		t.Error("surface attached after Detach")
	}
}

func TestMemLiveRegion_AppendClearAttach(t *testing.T) {
	r := &MemLiveRegion{}

	r.Append("a")
	r.Append("b")
	if got := r.Text(); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}

	r.Attach()
	if !r.Attached() {
		t.Error("region not attached")
	}
	r.Clear()
	if got := r.Text(); got != "" {
		t.Errorf("text = %q after clear, want empty", got)
	}
	r.Detach()
	if r.Attached() {
		t.Error("region attached after detach")
	}
}
