// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/memory.go
// Summary: In-memory accessible surface with simulated AT focus traversal.

package surface

// Memory is an in-memory Surface. It backs headless operation and is
// the test host for the synchronization layer: tests drive AT focus
// with FocusNode and inspect node order, attributes and the live
// region directly. All methods assume the single host thread; there is
// no locking.
type Memory struct {
	nodes    []*MemNode
	live     *MemLiveRegion
	focused  *MemNode
	attached bool
}

// NewMemory creates an empty, detached in-memory surface.
func NewMemory() *Memory {
	return &Memory{live: &MemLiveRegion{}}
}

// MemNode is the in-memory row node.
type MemNode struct {
	owner     *Memory
	text      string
	posInSet  int
	setSize   int
	height    int
	nextLnrID int
	listeners []memListener
}

type memListener struct {
	id int
	fn FocusListener
}

func (m *Memory) CreateNode() Node {
	return &MemNode{owner: m}
}

func (m *Memory) AppendNode(n Node) {
	m.nodes = append(m.nodes, n.(*MemNode))
}

func (m *Memory) InsertNodeBefore(n, ref Node) {
	if ref == nil {
		m.AppendNode(n)
		return
	}
	mn := n.(*MemNode)
	for i, existing := range m.nodes {
		if existing == ref {
			m.nodes = append(m.nodes[:i], append([]*MemNode{mn}, m.nodes[i:]...)...)
			return
		}
	}
	m.AppendNode(n)
}

func (m *Memory) RemoveNode(n Node) {
	mn := n.(*MemNode)
	for i, existing := range m.nodes {
		if existing == mn {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			break
		}
	}
	if m.focused == mn {
		m.focused = nil
	}
}

func (m *Memory) LiveRegion() LiveRegion { return m.live }

func (m *Memory) Attach()        { m.attached = true }
func (m *Memory) Detach()        { m.attached = false }
func (m *Memory) IsAttached() bool { return m.attached }

// FocusNode simulates AT navigation landing on n. Listeners on n fire
// with Related set to the previously focused node. The return value
// reports whether any listener consumed the event (the host's default
// traversal would then be suppressed).
func (m *Memory) FocusNode(n Node) bool {
	mn := n.(*MemNode)
	prev := m.focused
	m.focused = mn
	var related Node
	if prev != nil {
		related = prev
	}
	consumed := false
	// Listener list is copied so a transition that swaps subscriptions
	// mid-event does not disturb iteration.
	fire := make([]memListener, len(mn.listeners))
	copy(fire, mn.listeners)
	for _, l := range fire {
		if l.fn(FocusEvent{Target: mn, Related: related}) {
			consumed = true
		}
	}
	return consumed
}

// Nodes returns the attached nodes in container order.
func (m *Memory) Nodes() []*MemNode {
	out := make([]*MemNode, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// NodeAt returns the node at container index i, or nil.
func (m *Memory) NodeAt(i int) *MemNode {
	if i < 0 || i >= len(m.nodes) {
		return nil
	}
	return m.nodes[i]
}

// FocusedIndex returns the container index of the focused node, or -1.
func (m *Memory) FocusedIndex() int {
	for i, n := range m.nodes {
		if n == m.focused {
			return i
		}
	}
	return -1
}

// ListenerTotal counts focus subscriptions across all attached nodes.
func (m *Memory) ListenerTotal() int {
	total := 0
	for _, n := range m.nodes {
		total += len(n.listeners)
	}
	return total
}

func (n *MemNode) SetText(s string)  { n.text = s }
func (n *MemNode) Text() string      { return n.text }
func (n *MemNode) SetPosInSet(v int) { n.posInSet = v }
func (n *MemNode) PosInSet() int     { return n.posInSet }
func (n *MemNode) SetSetSize(v int)  { n.setSize = v }
func (n *MemNode) SetSize() int      { return n.setSize }
func (n *MemNode) SetHeight(px int)  { n.height = px }
func (n *MemNode) Height() int       { return n.height }

func (n *MemNode) AddFocusListener(l FocusListener) func() {
	n.nextLnrID++
	id := n.nextLnrID
	n.listeners = append(n.listeners, memListener{id: id, fn: l})
	return func() {
		for i, entry := range n.listeners {
			if entry.id == id {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount reports the focus subscriptions held by this node.
func (n *MemNode) ListenerCount() int { return len(n.listeners) }

func (n *MemNode) Focus() {
	// Programmatic focus takes the same path as simulated AT focus;
	// a real surface fires focus events either way.
	n.owner.FocusNode(n)
}

// MemLiveRegion is the in-memory live region.
type MemLiveRegion struct {
	text     string
	attached bool
}

func (r *MemLiveRegion) Append(text string) { r.text += text }
func (r *MemLiveRegion) Text() string       { return r.text }
func (r *MemLiveRegion) Clear()             { r.text = "" }
func (r *MemLiveRegion) Attach()            { r.attached = true }
func (r *MemLiveRegion) Detach()            { r.attached = false }
func (r *MemLiveRegion) Attached() bool     { return r.attached }
