// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/surface.go
// Summary: Capability interfaces for the accessible surface (row nodes + live region).

// Package surface defines the minimal contract the accessibility
// synchronization layer needs from a host accessible surface, and an
// in-memory implementation of it. Production hosts (platform a11y
// trees, the tcell debug surface) implement the same interfaces, so
// the synchronization logic never touches a concrete surface directly.
package surface

// FocusEvent describes assistive-technology focus arriving on a node.
// Related is the node that held focus immediately before, or nil when
// focus came from outside the accessible subtree.
type FocusEvent struct {
	Target  Node
	Related Node
}

// FocusListener receives focus events for one node. Returning true
// consumes the event: the host must not apply its default focus
// traversal behavior afterwards.
type FocusListener func(ev FocusEvent) bool

// Node is one accessible row element.
type Node interface {
	// SetText replaces the node's announced text.
	SetText(s string)

	// SetPosInSet / SetSetSize expose "line X of Y" to AT.
	SetPosInSet(n int)
	SetSetSize(n int)
	PosInSet() int
	SetSize() int

	// SetHeight pins the node's visual height in pixels.
	SetHeight(px int)

	// AddFocusListener registers a focus subscription and returns the
	// function that removes exactly that subscription.
	AddFocusListener(l FocusListener) (remove func())

	// Focus moves AT focus to this node. Focus listeners fire for the
	// node as for any other focus arrival.
	Focus()
}

// LiveRegion is the accessible element whose content changes are
// announced proactively by AT.
type LiveRegion interface {
	Append(text string)
	Text() string
	Clear()

	// Attach/Detach toggle the region's attachment to the accessible
	// root. Detaching does not clear the text.
	Attach()
	Detach()
	Attached() bool
}

// Surface owns the accessible subtree: an ordered row container plus
// one live region.
type Surface interface {
	// CreateNode makes a new row node that is not yet in the container.
	CreateNode() Node

	// AppendNode attaches a node at the end of the row container.
	AppendNode(n Node)

	// InsertNodeBefore attaches a node immediately before ref. A nil
	// ref behaves like AppendNode.
	InsertNodeBefore(n, ref Node)

	// RemoveNode detaches a node from the row container. Its focus
	// listeners stop firing once removed.
	RemoveNode(n Node)

	LiveRegion() LiveRegion

	// Attach/Detach toggle the whole subtree on the terminal's root
	// element (attached as its first child).
	Attach()
	Detach()
}
