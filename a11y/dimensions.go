// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/dimensions.go
// Summary: Keeps row node heights aligned with the renderer's cell height.

package a11y

import "github.com/framegrace/texelvoice/term"

// DimensionsSync pins each row node's visual height to the renderer's
// measured cell height. Re-applied on cell-metric change, DPI change
// and host window resize; the metric-change notification alone is
// unreliable on some platforms.
type DimensionsSync struct {
	rend term.Renderer
	win  *RowWindow
}

// NewDimensionsSync creates a sync over the given window.
func NewDimensionsSync(r term.Renderer, w *RowWindow) *DimensionsSync {
	return &DimensionsSync{rend: r, win: w}
}

// Resync applies the current cell height to every node in the window.
// A renderer that has not measured yet (height 0) is not an error; the
// next resize or metric event retries.
func (d *DimensionsSync) Resync() {
	h := d.rend.CellHeight()
	if h <= 0 {
		return
	}
	for i := 0; i < d.win.Len(); i++ {
		d.win.Node(i).SetHeight(h)
	}
}
