// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: a11y/manager.go
// Summary: Disposable handle wiring the accessibility layer to a terminal core.

// Package a11y maintains a screen-reader-consumable mirror of a
// terminal's visible rows: a virtualized window of accessible row
// nodes over unbounded scrollback, keyboard-driven boundary crossing,
// and a live region announcing fresh output with typed-echo
// suppression.
package a11y

import (
	"log"
	"os"
	"sync"

	"github.com/framegrace/texelvoice/surface"
	"github.com/framegrace/texelvoice/term"
)

// Config configures a Manager.
type Config struct {
	// MaxRowsToAnnounce caps live region accumulation. Zero takes the
	// default.
	MaxRowsToAnnounce int
	// RequiresReattachWorkaround enables the platform-specific live
	// region detach/reattach cycle.
	RequiresReattachWorkaround bool
	// Scheduler overrides the deferred-work primitive. Nil takes the
	// production tick scheduler.
	Scheduler Scheduler
	// Sink optionally receives announced lines (transcript store).
	Sink Sink
}

// Manager is the single handle exposed to the host. Construction
// attaches the accessible subtree to the terminal's root element and
// subscribes to every event source; Dispose reverses all of it. All
// event entry points are serialized on one mutex; hosts deliver
// terminal, renderer, host and AT focus events on the same UI thread.
type Manager struct {
	term term.Terminal
	rend term.Renderer
	host term.Host
	surf surface.Surface

	win   *RowWindow
	edges *BoundaryFocusController
	ann   *LiveRegionAnnouncer
	deb   *RenderDebouncer
	dims  *DimensionsSync

	mu       sync.Mutex // serializes event handling, flushes and dispose
	disposed bool
	debug    bool
}

// New builds the accessibility layer over the given collaborators and
// attaches it. host may be nil when the environment has no global
// resize/DPI source.
func New(t term.Terminal, r term.Renderer, h term.Host, s surface.Surface, cfg Config) *Manager {
	sched := cfg.Scheduler
	if sched == nil {
		sched = NewTickScheduler()
	}

	m := &Manager{
		term:  t,
		rend:  r,
		host:  h,
		surf:  s,
		debug: os.Getenv("TEXELVOICE_DEBUG") != "",
	}

	s.Attach()
	m.win = NewRowWindow(t, s)
	m.edges = NewBoundaryFocusController(t, s, m.win)
	m.dims = NewDimensionsSync(r, m.win)
	m.win.Bind(m.edges, m.dims.Resync)
	m.win.Init(t.Rows())

	m.ann = NewLiveRegionAnnouncer(s.LiveRegion(), sched, AnnouncerConfig{
		MaxRows:                    cfg.MaxRowsToAnnounce,
		RequiresReattachWorkaround: cfg.RequiresReattachWorkaround,
	})
	if cfg.Sink != nil {
		m.ann.SetSink(cfg.Sink)
	}
	m.deb = NewRenderDebouncer(sched, m.renderRange)

	t.Subscribe(m)
	r.Subscribe(m)
	if h != nil {
		h.Subscribe(m)
	}

	m.dims.Resync()
	m.deb.Refresh(0, t.Rows()-1)
	return m
}

// renderRange is the debouncer's flush target.
func (m *Manager) renderRange(start, end int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.debugf("flush rows %d-%d", start, end)
	m.win.RenderRange(start, end)
}

// OnEvent routes one terminal, renderer or host event to the component
// that handles it. Events after Dispose are dropped.
func (m *Manager) OnEvent(ev term.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	switch ev.Type {
	case term.EventResize:
		p := ev.Payload.(term.ResizePayload)
		m.debugf("resize to %dx%d", p.Cols, p.Rows)
		m.win.Resize(p.Rows)
		m.deb.Refresh(0, p.Rows-1)
	case term.EventRefresh:
		p := ev.Payload.(term.RefreshPayload)
		m.deb.Refresh(p.Start, p.End)
	case term.EventScroll:
		m.deb.Refresh(0, m.win.Len()-1)
	case term.EventChar:
		m.ann.OnChar(ev.Payload.(rune))
	case term.EventLineFeed:
		m.ann.OnChar('\n')
	case term.EventTab:
		m.ann.OnTab(ev.Payload.(int))
	case term.EventKeyPress:
		m.ann.OnKeyPress(ev.Payload.(rune))
	case term.EventBlur:
		m.ann.OnBlur()
	case term.EventRendererResize, term.EventDPIChange, term.EventHostResize:
		m.dims.Resync()
	}
}

// Dispose cancels any pending flush, removes every subscription this
// layer registered, detaches the accessible subtree and clears the
// window. No callback fires after Dispose returns; a second Dispose is
// a no-op.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true

	m.term.Unsubscribe(m)
	m.rend.Unsubscribe(m)
	if m.host != nil {
		m.host.Unsubscribe(m)
	}

	m.deb.Dispose()
	m.ann.Dispose()
	m.edges.DetachTop()
	m.edges.DetachBottom()
	m.win.Dispose()
	m.surf.Detach()
}

func (m *Manager) debugf(format string, args ...interface{}) {
	if !m.debug {
		return
	}
	log.Printf("a11y: "+format, args...)
}
