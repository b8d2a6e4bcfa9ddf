// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/scheduler.go
// Summary: Deferred-callback primitive used to coalesce work onto a later tick.

package a11y

import "time"

// Scheduler defers a function to a later scheduling tick. The returned
// cancel stops the callback if it has not fired yet; cancelling after
// the fact is a no-op. Injected so tests can drive ticks
// deterministically.
type Scheduler interface {
	Defer(fn func()) (cancel func())
}

// tickScheduler runs deferred work on the next timer tick.
type tickScheduler struct{}

// NewTickScheduler returns the production scheduler.
func NewTickScheduler() Scheduler {
	return tickScheduler{}
}

func (tickScheduler) Defer(fn func()) func() {
	t := time.AfterFunc(0, fn)
	return func() { t.Stop() }
}
