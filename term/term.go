// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: Read-only terminal contract consumed by the accessibility layer.

// Package term defines the boundary between the accessibility
// synchronization layer and the terminal core it mirrors. The layer
// never parses output or touches grid storage; it reads line text and
// counters through Terminal and reacts to events broadcast by the
// core's dispatcher.
package term

// Terminal is the slice of a terminal core the accessibility layer
// consumes. ScrollLines is the single mutating operation, used when a
// boundary crossing pages the view by one line.
type Terminal interface {
	// Rows and Cols are the current viewport dimensions in cells.
	Rows() int
	Cols() int

	// ViewOffset is the absolute index of the line shown at the top of
	// the viewport. 0 means the view is at the very top of scrollback.
	ViewOffset() int

	// LineCount is the total number of lines held, scrollback included.
	LineCount() int

	// Line materializes the text of the absolute line index. With
	// trimRight set, trailing blank cells are dropped.
	Line(abs int, trimRight bool) string

	// ScrollLines moves the view by delta lines (negative = toward
	// older history). Out-of-range deltas clamp.
	ScrollLines(delta int)

	Subscribe(l Listener)
	Unsubscribe(l Listener)
}

// Renderer exposes the measured cell geometry of whatever is painting
// the terminal. CellHeight returns 0 until a first measurement exists.
type Renderer interface {
	CellHeight() int
	Subscribe(l Listener)
	Unsubscribe(l Listener)
}

// Host is the process-wide event source for window resize and
// device-pixel-ratio changes. Subscriptions here are owned by whoever
// registers them; the accessibility layer releases its own on dispose.
type Host interface {
	Subscribe(l Listener)
	Unsubscribe(l Listener)
}
