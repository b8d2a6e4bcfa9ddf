// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/debounce.go
// Summary: Coalesces row refresh requests into one render flush per tick.

package a11y

import "sync"

// RenderDebouncer collects inclusive row ranges from Refresh calls and
// invokes the render callback exactly once per scheduling tick with the
// union of everything requested since the last flush.
type RenderDebouncer struct {
	sched  Scheduler
	render func(start, end int)

	mu      sync.Mutex
	pending bool
	start   int
	end     int
	cancel  func()
}

// NewRenderDebouncer creates a debouncer that flushes through sched.
func NewRenderDebouncer(sched Scheduler, render func(start, end int)) *RenderDebouncer {
	return &RenderDebouncer{sched: sched, render: render}
}

// Refresh records an inclusive row range to re-render. When a flush is
// already scheduled for the current tick, the pending range is widened
// to the union instead of scheduling a second flush.
func (d *RenderDebouncer) Refresh(start, end int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		if start < d.start {
			d.start = start
		}
		if end > d.end {
			d.end = end
		}
		return
	}
	d.pending = true
	d.start, d.end = start, end
	d.cancel = d.sched.Defer(d.flush)
}

func (d *RenderDebouncer) flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.cancel = nil
	start, end := d.start, d.end
	d.mu.Unlock()
	d.render(start, end)
}

// Dispose cancels a pending, not-yet-fired flush.
func (d *RenderDebouncer) Dispose() {
	d.mu.Lock()
	cancel := d.cancel
	d.pending = false
	d.cancel = nil
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
