// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/announcer.go
// Summary: Live region announcer with typed-echo suppression and an output cap.

package a11y

import (
	"sync"

	"github.com/framegrace/texelvoice/surface"
)

// DefaultMaxRowsToAnnounce caps how many output lines accumulate in the
// live region before the truncation notice takes over.
const DefaultMaxRowsToAnnounce = 20

// TruncationNotice is appended once when the announce cap is exceeded.
const TruncationNotice = "Too much output to announce, navigate to rows manually to read"

// liveRegionSpace replaces announced spaces; a literal space collapses
// in some AT caption renderings.
const liveRegionSpace = "\u00a0"

// Sink receives each complete line of announced text. Implemented by
// the transcript store.
type Sink interface {
	AnnouncedLine(text string)
}

// AnnouncerConfig configures a LiveRegionAnnouncer. Injected rather
// than read from global config, enabling testability.
type AnnouncerConfig struct {
	// MaxRows is the announced-line cap. Default: DefaultMaxRowsToAnnounce.
	MaxRows int
	// RequiresReattachWorkaround enables the deferred live region
	// reattachment some platforms need before a populated, detached
	// region announces again.
	RequiresReattachWorkaround bool
}

// LiveRegionAnnouncer consumes the terminal's character stream and
// appends freshly written output to the live region, skipping echo of
// characters the user just typed. The typed-character FIFO can
// desynchronize when fast typing races heavy output; that approximation
// is accepted, since the correct pairing is ambiguous without host
// timing guarantees.
type LiveRegionAnnouncer struct {
	live  surface.LiveRegion
	sched Scheduler
	cfg   AnnouncerConfig

	mu              sync.Mutex
	typed           []rune
	lineCount       int
	lineBuf         []rune
	sink            Sink
	reattachPending bool
	reattachCancel  func()
	disposed        bool
}

// NewLiveRegionAnnouncer creates an announcer over the given live
// region. A zero MaxRows takes the default.
func NewLiveRegionAnnouncer(live surface.LiveRegion, sched Scheduler, cfg AnnouncerConfig) *LiveRegionAnnouncer {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRowsToAnnounce
	}
	return &LiveRegionAnnouncer{live: live, sched: sched, cfg: cfg}
}

// SetSink wires an optional transcript sink for announced lines.
func (a *LiveRegionAnnouncer) SetSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sink = s
}

// OnChar handles one character arriving from the terminal data stream.
func (a *LiveRegionAnnouncer) OnChar(ch rune) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lineCount >= a.cfg.MaxRows+1 {
		return
	}
	if len(a.typed) > 0 {
		expected := a.typed[0]
		a.typed = a.typed[1:]
		if expected != ch {
			a.announceLocked(ch)
		}
	} else {
		a.announceLocked(ch)
	}
	if ch == '\n' {
		a.lineCount++
		if a.lineCount == a.cfg.MaxRows+1 {
			a.live.Append(TruncationNotice)
		}
	}
	if a.cfg.RequiresReattachWorkaround && a.live.Text() != "" && !a.live.Attached() {
		a.scheduleReattachLocked()
	}
}

// OnTab announces a tab as its expansion width in spaces.
func (a *LiveRegionAnnouncer) OnTab(spaceCount int) {
	for i := 0; i < spaceCount; i++ {
		a.OnChar(' ')
	}
}

// OnKeyPress clears the live region and queues the typed character so
// its echo from the data stream is not announced twice.
func (a *LiveRegionAnnouncer) OnKeyPress(ch rune) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
	a.typed = append(a.typed, ch)
}

// OnBlur clears the live region when focus leaves the terminal.
func (a *LiveRegionAnnouncer) OnBlur() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
}

// LineCount reports the announced-line counter, including the frozen
// cap+1 state.
func (a *LiveRegionAnnouncer) LineCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lineCount
}

// Dispose cancels any pending deferred reattachment. No callback fires
// after Dispose returns.
func (a *LiveRegionAnnouncer) Dispose() {
	a.mu.Lock()
	a.disposed = true
	cancel := a.reattachCancel
	a.reattachCancel = nil
	a.reattachPending = false
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *LiveRegionAnnouncer) announceLocked(ch rune) {
	if ch == ' ' {
		a.live.Append(liveRegionSpace)
	} else {
		a.live.Append(string(ch))
	}
	if ch == '\n' {
		if a.sink != nil && len(a.lineBuf) > 0 {
			a.sink.AnnouncedLine(string(a.lineBuf))
		}
		a.lineBuf = a.lineBuf[:0]
	} else {
		a.lineBuf = append(a.lineBuf, ch)
	}
}

func (a *LiveRegionAnnouncer) clearLocked() {
	a.live.Clear()
	a.lineCount = 0
	a.lineBuf = a.lineBuf[:0]
	if a.cfg.RequiresReattachWorkaround {
		a.live.Detach()
	}
}

// scheduleReattachLocked defers a live region reattachment to a later
// tick. Platforms behind the workaround flag do not announce a region
// that was populated while detached until it rejoins the accessible
// root.
func (a *LiveRegionAnnouncer) scheduleReattachLocked() {
	if a.reattachPending {
		return
	}
	a.reattachPending = true
	a.reattachCancel = a.sched.Defer(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.reattachPending = false
		a.reattachCancel = nil
		if a.disposed {
			return
		}
		if a.live.Text() != "" && !a.live.Attached() {
			a.live.Attach()
		}
	})
}
