// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/sim.go
// Summary: In-memory simulated terminal core for tests and the demo binary.

package term

import (
	"strings"
	"sync"
)

// defaultMaxScrollback bounds the simulated line store; older lines are
// trimmed from the front past this point.
const defaultMaxScrollback = 1000

const tabStop = 8

// Sim is a minimal in-memory terminal core implementing Terminal. It
// holds plain text lines (no attributes, no VT parsing), a viewport
// offset into them, and broadcasts the same events a real core would.
// The line store never shrinks below the viewport height.
type Sim struct {
	dispatcher *EventDispatcher

	mu            sync.Mutex
	cols, rows    int
	lines         []string
	cur           int // absolute line index the next character lands on
	viewTop       int
	maxScrollback int
}

// NewSim creates a simulated terminal with the given viewport size,
// pre-filled with empty lines.
func NewSim(cols, rows int) *Sim {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &Sim{
		dispatcher:    NewEventDispatcher(),
		cols:          cols,
		rows:          rows,
		maxScrollback: defaultMaxScrollback,
	}
	s.lines = make([]string, rows)
	return s
}

func (s *Sim) Subscribe(l Listener)   { s.dispatcher.Subscribe(l) }
func (s *Sim) Unsubscribe(l Listener) { s.dispatcher.Unsubscribe(l) }

func (s *Sim) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func (s *Sim) Cols() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols
}

func (s *Sim) ViewOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewTop
}

func (s *Sim) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Sim) Line(abs int, trimRight bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if abs < 0 || abs >= len(s.lines) {
		return ""
	}
	text := s.lines[abs]
	if trimRight {
		text = strings.TrimRight(text, " ")
	}
	return text
}

// ScrollLines moves the viewport by delta lines, clamped to the stored
// range, and broadcasts a scroll event when the offset changed.
func (s *Sim) ScrollLines(delta int) {
	s.mu.Lock()
	old := s.viewTop
	s.viewTop = clamp(s.viewTop+delta, 0, len(s.lines)-s.rows)
	moved := s.viewTop != old
	s.mu.Unlock()
	if moved {
		s.dispatcher.Broadcast(Event{Type: EventScroll})
	}
}

// Resize changes the viewport dimensions, pads the line store up to
// the new height, clamps the view offset and broadcasts a resize.
func (s *Sim) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s.mu.Lock()
	s.cols, s.rows = cols, rows
	for len(s.lines) < rows {
		s.lines = append(s.lines, "")
	}
	s.viewTop = clamp(s.viewTop, 0, len(s.lines)-s.rows)
	s.mu.Unlock()
	s.dispatcher.Broadcast(Event{Type: EventResize, Payload: ResizePayload{Cols: cols, Rows: rows}})
	s.dispatcher.Broadcast(Event{Type: EventRefresh, Payload: RefreshPayload{Start: 0, End: rows - 1}})
}

// Write feeds plain output text into the store. Printable runes append
// to the current last line, '\n' opens a new line, '\t' advances to the
// next tab stop, '\r' is swallowed. Character, line-feed and tab events
// broadcast per rune in arrival order, followed by one refresh covering
// the touched viewport rows.
func (s *Sim) Write(text string) {
	var events []Event
	s.mu.Lock()
	scrolled := false
	for _, ch := range text {
		switch ch {
		case '\r':
			// Carriage return carries no text in this model.
		case '\n':
			if s.lineFeedLocked() {
				scrolled = true
			}
			events = append(events, Event{Type: EventLineFeed})
		case '\t':
			width := len([]rune(s.lines[s.cur]))
			spaces := tabStop - width%tabStop
			s.lines[s.cur] += strings.Repeat(" ", spaces)
			events = append(events, Event{Type: EventTab, Payload: spaces})
		default:
			s.lines[s.cur] += string(ch)
			events = append(events, Event{Type: EventChar, Payload: ch})
		}
	}
	rows := s.rows
	s.mu.Unlock()

	for _, ev := range events {
		s.dispatcher.Broadcast(ev)
	}
	if scrolled {
		s.dispatcher.Broadcast(Event{Type: EventScroll})
	}
	s.dispatcher.Broadcast(Event{Type: EventRefresh, Payload: RefreshPayload{Start: 0, End: rows - 1}})
}

// lineFeedLocked advances the cursor line, growing the store when the
// cursor passes its end, follows the live edge when the view was
// already there, and trims scrollback past the cap. Reports whether
// the view offset changed.
func (s *Sim) lineFeedLocked() bool {
	atLiveEdge := s.viewTop == len(s.lines)-s.rows
	s.cur++
	if s.cur == len(s.lines) {
		s.lines = append(s.lines, "")
	}
	if over := len(s.lines) - s.maxScrollback; over > 0 && len(s.lines)-over >= s.rows {
		s.lines = s.lines[over:]
		s.cur = clamp(s.cur-over, 0, len(s.lines)-1)
		s.viewTop = clamp(s.viewTop-over, 0, len(s.lines)-s.rows)
	}
	old := s.viewTop
	if atLiveEdge {
		s.viewTop = len(s.lines) - s.rows
	}
	return s.viewTop != old
}

// KeyPress broadcasts a key-press event for a character the user typed.
func (s *Sim) KeyPress(ch rune) {
	s.dispatcher.Broadcast(Event{Type: EventKeyPress, Payload: ch})
}

// Blur broadcasts focus leaving the terminal.
func (s *Sim) Blur() {
	s.dispatcher.Broadcast(Event{Type: EventBlur})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SimRenderer is a renderer stub with a settable cell height.
type SimRenderer struct {
	dispatcher *EventDispatcher

	mu         sync.Mutex
	cellHeight int
}

// NewSimRenderer creates a renderer stub. Height 0 models "not yet
// measured".
func NewSimRenderer(cellHeight int) *SimRenderer {
	return &SimRenderer{dispatcher: NewEventDispatcher(), cellHeight: cellHeight}
}

func (r *SimRenderer) CellHeight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cellHeight
}

// SetCellHeight updates the measured cell height and broadcasts a
// renderer resize.
func (r *SimRenderer) SetCellHeight(px int) {
	r.mu.Lock()
	r.cellHeight = px
	r.mu.Unlock()
	r.dispatcher.Broadcast(Event{Type: EventRendererResize})
}

func (r *SimRenderer) Subscribe(l Listener)   { r.dispatcher.Subscribe(l) }
func (r *SimRenderer) Unsubscribe(l Listener) { r.dispatcher.Unsubscribe(l) }

// SimHost is a host event source stub for window resize and DPI
// change notifications.
type SimHost struct {
	dispatcher *EventDispatcher
}

// NewSimHost creates a host stub.
func NewSimHost() *SimHost {
	return &SimHost{dispatcher: NewEventDispatcher()}
}

// EmitDPIChange broadcasts a device-pixel-ratio change.
func (h *SimHost) EmitDPIChange() {
	h.dispatcher.Broadcast(Event{Type: EventDPIChange})
}

// EmitWindowResize broadcasts a host window resize.
func (h *SimHost) EmitWindowResize() {
	h.dispatcher.Broadcast(Event{Type: EventHostResize})
}

func (h *SimHost) Subscribe(l Listener)   { h.dispatcher.Subscribe(l) }
func (h *SimHost) Unsubscribe(l Listener) { h.dispatcher.Unsubscribe(l) }
