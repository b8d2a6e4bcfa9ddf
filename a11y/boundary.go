// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/boundary.go
// Summary: Boundary focus detection and one-line window shifts over scrollback.

package a11y

import (
	"github.com/framegrace/texelvoice/surface"
	"github.com/framegrace/texelvoice/term"
)

// edgeState tracks where the last AT focus event landed relative to
// the window boundaries.
type edgeState int

const (
	edgeMiddle edgeState = iota
	edgeTop
	edgeBottom
)

// BoundaryFocusController owns the two boundary focus subscriptions.
// When AT navigation reaches a boundary node from its inner neighbor,
// the controller shifts the window by one line in that direction and
// re-homes focus, so an unbounded scrollback reads like one continuous
// document.
type BoundaryFocusController struct {
	term  term.Terminal
	surf  surface.Surface
	win   *RowWindow
	state edgeState

	detachTop    func()
	detachBottom func()
}

// NewBoundaryFocusController creates a controller for the given window.
func NewBoundaryFocusController(t term.Terminal, s surface.Surface, w *RowWindow) *BoundaryFocusController {
	return &BoundaryFocusController{term: t, surf: s, win: w}
}

// AttachTop moves the top boundary subscription onto n. Any previous
// top subscription is removed first, so the pair invariant holds.
func (c *BoundaryFocusController) AttachTop(n surface.Node) {
	c.DetachTop()
	c.detachTop = n.AddFocusListener(c.onTopFocus)
}

// AttachBottom moves the bottom boundary subscription onto n.
func (c *BoundaryFocusController) AttachBottom(n surface.Node) {
	c.DetachBottom()
	c.detachBottom = n.AddFocusListener(c.onBottomFocus)
}

// DetachTop removes the top boundary subscription if present.
func (c *BoundaryFocusController) DetachTop() {
	if c.detachTop != nil {
		c.detachTop()
		c.detachTop = nil
	}
}

// DetachBottom removes the bottom boundary subscription if present.
func (c *BoundaryFocusController) DetachBottom() {
	if c.detachBottom != nil {
		c.detachBottom()
		c.detachBottom = nil
	}
}

func (c *BoundaryFocusController) onTopFocus(ev surface.FocusEvent) bool {
	if c.win.Len() < 2 || ev.Related == nil || ev.Related != c.win.Node(1) {
		// Focus landed on the boundary from elsewhere; not a traversal
		// crossing.
		c.state = edgeMiddle
		return false
	}
	c.state = edgeTop
	if ev.Target.PosInSet() == 1 {
		// Genuine top of all available data, not a virtualization seam.
		return false
	}
	c.shift(edgeTop)
	return true
}

func (c *BoundaryFocusController) onBottomFocus(ev surface.FocusEvent) bool {
	last := c.win.Len() - 1
	if c.win.Len() < 2 || ev.Related == nil || ev.Related != c.win.Node(last-1) {
		c.state = edgeMiddle
		return false
	}
	c.state = edgeBottom
	if ev.Target.PosInSet() == c.term.LineCount() {
		return false
	}
	c.shift(edgeBottom)
	return true
}

// shift performs the one-line window transition: both boundary
// subscriptions come off, one node is evicted at the far end, the
// terminal scrolls a line, one node is inserted at the near end, the
// subscriptions go back on, and focus moves one step in from the new
// boundary. The node the user was traversing keeps focus across the
// shift.
func (c *BoundaryFocusController) shift(dir edgeState) {
	c.DetachTop()
	c.DetachBottom()

	if dir == edgeTop {
		c.win.PopBottom()
		c.term.ScrollLines(-1)
		c.win.PushTop(c.surf.CreateNode())
	} else {
		c.win.PopTop()
		c.term.ScrollLines(1)
		c.win.PushBottom(c.surf.CreateNode())
	}

	c.AttachTop(c.win.Node(0))
	c.AttachBottom(c.win.Node(c.win.Len() - 1))

	c.state = edgeMiddle
	if dir == edgeTop {
		c.win.Node(1).Focus()
	} else {
		c.win.Node(c.win.Len() - 2).Focus()
	}
}
