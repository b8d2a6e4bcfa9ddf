// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/debounce_test.go
// Summary: Render debouncer coalescing and cancellation tests.

package a11y

import "testing"

type rangeRecorder struct {
	calls [][2]int
}

func (r *rangeRecorder) render(start, end int) {
	r.calls = append(r.calls, [2]int{start, end})
}

func TestRenderDebouncer_OneFlushPerTick(t *testing.T) {
	sched := newManualScheduler()
	rec := &rangeRecorder{}
	d := NewRenderDebouncer(sched, rec.render)

	d.Refresh(1, 2)
	d.Refresh(3, 4)
	d.Refresh(0, 0)

	if len(rec.calls) != 0 {
		t.Fatalf("render fired before tick: %v", rec.calls)
	}
	sched.Tick()
	if len(rec.calls) != 1 {
		t.Fatalf("flush count = %d, want 1", len(rec.calls))
	}
	if rec.calls[0] != [2]int{0, 4} {
		t.Errorf("flushed range = %v, want [0 4]", rec.calls[0])
	}

	// Nothing pending anymore.
	sched.Tick()
	if len(rec.calls) != 1 {
		t.Errorf("extra flush after empty tick: %v", rec.calls)
	}
}

func TestRenderDebouncer_RangeUnionIsMinMax(t *testing.T) {
	sched := newManualScheduler()
	rec := &rangeRecorder{}
	d := NewRenderDebouncer(sched, rec.render)

	d.Refresh(5, 9)
	d.Refresh(7, 8) // contained, no widening
	d.Refresh(2, 3)
	sched.Tick()

	if rec.calls[0] != [2]int{2, 9} {
		t.Errorf("flushed range = %v, want [2 9]", rec.calls[0])
	}
}

func TestRenderDebouncer_SeparateTicksSeparateFlushes(t *testing.T) {
	sched := newManualScheduler()
	rec := &rangeRecorder{}
	d := NewRenderDebouncer(sched, rec.render)

	d.Refresh(0, 1)
	sched.Tick()
	d.Refresh(4, 6)
	sched.Tick()

	if len(rec.calls) != 2 {
		t.Fatalf("flush count = %d, want 2", len(rec.calls))
	}
	if rec.calls[0] != [2]int{0, 1} || rec.calls[1] != [2]int{4, 6} {
		t.Errorf("flushed ranges = %v", rec.calls)
	}
}

func TestRenderDebouncer_DisposeCancelsPendingFlush(t *testing.T) {
	sched := newManualScheduler()
	rec := &rangeRecorder{}
	d := NewRenderDebouncer(sched, rec.render)

	d.Refresh(0, 10)
	d.Dispose()
	sched.Tick()

	if len(rec.calls) != 0 {
		t.Errorf("render fired after dispose: %v", rec.calls)
	}
}

func TestRenderDebouncer_RefreshAfterDisposeStillWorks(t *testing.T) {
	// Dispose only cancels the pending flush; the debouncer itself is
	// reusable until its owner drops it.
	sched := newManualScheduler()
	rec := &rangeRecorder{}
	d := NewRenderDebouncer(sched, rec.render)

	d.Refresh(0, 1)
	d.Dispose()
	d.Refresh(2, 3)
	sched.Tick()

	if len(rec.calls) != 1 || rec.calls[0] != [2]int{2, 3} {
		t.Errorf("flushed calls = %v, want one [2 3]", rec.calls)
	}
}
