// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/test_helpers_test.go
// Summary: Shared doubles and fixtures for accessibility layer tests.

package a11y

import (
	"github.com/framegrace/texelvoice/surface"
	"github.com/framegrace/texelvoice/term"
)

// manualScheduler queues deferred work until Tick is called, so tests
// control tick boundaries deterministically.
type manualScheduler struct {
	queue []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{}
}

func (s *manualScheduler) Defer(fn func()) func() {
	t := &manualTask{fn: fn}
	s.queue = append(s.queue, t)
	return func() { t.cancelled = true }
}

// Tick runs everything deferred before this call. Work deferred by the
// callbacks themselves lands in the next tick.
func (s *manualScheduler) Tick() {
	pending := s.queue
	s.queue = nil
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

// Pending reports how many uncancelled tasks await the next tick.
func (s *manualScheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// fixture assembles a window, boundary controller and dimensions sync
// over a simulated terminal and an in-memory surface.
type fixture struct {
	sim  *term.Sim
	rend *term.SimRenderer
	surf *surface.Memory
	win  *RowWindow
	bc   *BoundaryFocusController
	dims *DimensionsSync
}

func newFixture(rows int) *fixture {
	f := &fixture{
		sim:  term.NewSim(80, rows),
		rend: term.NewSimRenderer(0),
		surf: surface.NewMemory(),
	}
	f.win = NewRowWindow(f.sim, f.surf)
	f.bc = NewBoundaryFocusController(f.sim, f.surf, f.win)
	f.dims = NewDimensionsSync(f.rend, f.win)
	f.win.Bind(f.bc, f.dims.Resync)
	f.win.Init(rows)
	return f
}

// render refreshes the whole window synchronously.
func (f *fixture) render() {
	f.win.RenderRange(0, f.win.Len()-1)
}

// edgeSubscriptionsOK checks the pair invariant: exactly two focus
// subscriptions, one on the first node and one on the last.
func (f *fixture) edgeSubscriptionsOK() bool {
	nodes := f.surf.Nodes()
	if len(nodes) == 0 {
		return false
	}
	if f.surf.ListenerTotal() != 2 {
		return false
	}
	if len(nodes) == 1 {
		return nodes[0].ListenerCount() == 2
	}
	return nodes[0].ListenerCount() == 1 && nodes[len(nodes)-1].ListenerCount() == 1
}
