// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/window.go
// Summary: Fixed-size window of accessible row nodes mirroring the viewport.

package a11y

import (
	"github.com/framegrace/texelvoice/surface"
	"github.com/framegrace/texelvoice/term"
)

// emptyRowPlaceholder keeps rows with no text reachable: some AT
// navigation skips accessible elements with empty content entirely.
const emptyRowPlaceholder = "\u00a0"

// edgeBinder moves the two boundary focus subscriptions as nodes enter
// and leave the boundary positions. Implemented by
// BoundaryFocusController.
type edgeBinder interface {
	AttachTop(n surface.Node)
	AttachBottom(n surface.Node)
	DetachTop()
	DetachBottom()
}

// RowWindow owns the ordered node sequence mirroring the terminal's
// visible rows. Its length always equals the terminal row count once a
// resize settles. RenderRange is the only mutator of node text.
type RowWindow struct {
	term   term.Terminal
	surf   surface.Surface
	nodes  []surface.Node
	edges  edgeBinder
	resync func()
}

// NewRowWindow creates an empty window over the given surface. Bind
// and Init must be called before use.
func NewRowWindow(t term.Terminal, s surface.Surface) *RowWindow {
	return &RowWindow{term: t, surf: s}
}

// Bind wires the boundary subscription mover and the dimensions resync
// hook. Split from the constructor because the edge controller needs
// the window first.
func (w *RowWindow) Bind(edges edgeBinder, resync func()) {
	w.edges = edges
	w.resync = resync
}

// Init creates rowCount nodes and attaches the boundary subscriptions
// to the first and last of them.
func (w *RowWindow) Init(rowCount int) {
	for i := 0; i < rowCount; i++ {
		n := w.surf.CreateNode()
		w.surf.AppendNode(n)
		w.nodes = append(w.nodes, n)
	}
	if len(w.nodes) > 0 {
		w.edges.AttachTop(w.nodes[0])
		w.edges.AttachBottom(w.nodes[len(w.nodes)-1])
	}
}

// Resize grows or shrinks the window to rowCount nodes. The bottom
// boundary subscription is detached first so no stale transition can
// fire mid-resize, and reattached to whichever node ends up last. A
// same-length resize is a no-op apart from the dimensions resync.
func (w *RowWindow) Resize(rowCount int) {
	if rowCount < 1 || len(w.nodes) == 0 {
		return
	}
	w.edges.DetachBottom()
	for len(w.nodes) < rowCount {
		n := w.surf.CreateNode()
		w.surf.AppendNode(n)
		w.nodes = append(w.nodes, n)
	}
	for len(w.nodes) > rowCount {
		last := w.nodes[len(w.nodes)-1]
		w.nodes = w.nodes[:len(w.nodes)-1]
		w.surf.RemoveNode(last)
	}
	w.edges.AttachBottom(w.nodes[len(w.nodes)-1])
	if w.resync != nil {
		w.resync()
	}
}

// RenderRange re-renders window indices [start, end], clamped to the
// window. Each touched node gets the trimmed line text for its absolute
// row (or the placeholder when empty) and fresh position-in-set /
// set-size attributes.
func (w *RowWindow) RenderRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(w.nodes)-1 {
		end = len(w.nodes) - 1
	}
	offset := w.term.ViewOffset()
	total := w.term.LineCount()
	for i := start; i <= end; i++ {
		text := w.term.Line(offset+i, true)
		if text == "" {
			text = emptyRowPlaceholder
		}
		n := w.nodes[i]
		n.SetText(text)
		n.SetPosInSet(offset + i + 1)
		n.SetSetSize(total)
	}
}

// Len returns the current window length.
func (w *RowWindow) Len() int { return len(w.nodes) }

// Node returns the node at window index i, or nil when out of range.
func (w *RowWindow) Node(i int) surface.Node {
	if i < 0 || i >= len(w.nodes) {
		return nil
	}
	return w.nodes[i]
}

// PopBottom evicts the last node from the window and the surface.
func (w *RowWindow) PopBottom() surface.Node {
	last := w.nodes[len(w.nodes)-1]
	w.nodes = w.nodes[:len(w.nodes)-1]
	w.surf.RemoveNode(last)
	return last
}

// PopTop evicts the first node from the window and the surface.
func (w *RowWindow) PopTop() surface.Node {
	first := w.nodes[0]
	w.nodes = w.nodes[1:]
	w.surf.RemoveNode(first)
	return first
}

// PushTop inserts a node at window index 0.
func (w *RowWindow) PushTop(n surface.Node) {
	var ref surface.Node
	if len(w.nodes) > 0 {
		ref = w.nodes[0]
	}
	w.surf.InsertNodeBefore(n, ref)
	w.nodes = append([]surface.Node{n}, w.nodes...)
}

// PushBottom appends a node at the end of the window.
func (w *RowWindow) PushBottom(n surface.Node) {
	w.surf.AppendNode(n)
	w.nodes = append(w.nodes, n)
}

// Dispose removes every node from the surface and clears the window.
func (w *RowWindow) Dispose() {
	for _, n := range w.nodes {
		w.surf.RemoveNode(n)
	}
	w.nodes = nil
}
