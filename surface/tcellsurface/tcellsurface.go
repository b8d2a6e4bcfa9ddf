// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/tcellsurface/tcellsurface.go
// Summary: tcell-backed debug surface painting the accessible tree on screen.

// Package tcellsurface renders the accessible row window and live
// region onto a tcell.Screen, so sighted developers can watch what AT
// software would see. Bookkeeping (node order, focus, listeners) is
// delegated to the in-memory surface; this adapter only adds painting.
package tcellsurface

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelvoice/surface"
)

// Surface is a surface.Surface that mirrors its state onto a screen
// region. Paint must be called from the same goroutine that owns the
// screen.
type Surface struct {
	mem    *surface.Memory
	screen tcell.Screen

	x, y, w, h int

	rowStyle   tcell.Style
	focusStyle tcell.Style
	liveStyle  tcell.Style
}

// New creates a debug surface painting into the rectangle (x, y, w, h).
// The bottom row of the rectangle shows the live region; the rows above
// it show the accessible window.
func New(screen tcell.Screen, x, y, w, h int) *Surface {
	return &Surface{
		mem:        surface.NewMemory(),
		screen:     screen,
		x:          x,
		y:          y,
		w:          w,
		h:          h,
		rowStyle:   tcell.StyleDefault,
		focusStyle: tcell.StyleDefault.Reverse(true),
		liveStyle:  tcell.StyleDefault.Bold(true),
	}
}

// SetRect moves the paint rectangle (host window resized).
func (s *Surface) SetRect(x, y, w, h int) {
	s.x, s.y, s.w, s.h = x, y, w, h
}

// Memory exposes the backing surface for focus simulation (the demo
// drives AT navigation from keyboard input).
func (s *Surface) Memory() *surface.Memory { return s.mem }

func (s *Surface) CreateNode() surface.Node           { return s.mem.CreateNode() }
func (s *Surface) AppendNode(n surface.Node)          { s.mem.AppendNode(n) }
func (s *Surface) InsertNodeBefore(n, ref surface.Node) { s.mem.InsertNodeBefore(n, ref) }
func (s *Surface) RemoveNode(n surface.Node)          { s.mem.RemoveNode(n) }
func (s *Surface) LiveRegion() surface.LiveRegion     { return s.mem.LiveRegion() }
func (s *Surface) Attach()                            { s.mem.Attach() }
func (s *Surface) Detach()                            { s.mem.Detach() }

// Paint draws the current accessible state. Rows render as
// "posinset/setsize text", the focused row reversed, and the last
// screen row carries the tail of the live region.
func (s *Surface) Paint() {
	if !s.mem.IsAttached() {
		return
	}
	focused := s.mem.FocusedIndex()
	nodes := s.mem.Nodes()
	for row := 0; row < s.h-1; row++ {
		style := s.rowStyle
		text := ""
		if row < len(nodes) {
			n := nodes[row]
			text = formatRow(n)
			if row == focused {
				style = s.focusStyle
			}
		}
		s.drawLine(s.y+row, text, style)
	}
	live := s.mem.LiveRegion().(*surface.MemLiveRegion)
	s.drawLine(s.y+s.h-1, tailLine(live.Text(), s.w), s.liveStyle)
}

func formatRow(n *surface.MemNode) string {
	return strconv.Itoa(n.PosInSet()) + "/" + strconv.Itoa(n.SetSize()) + " " + n.Text()
}

// drawLine writes text clipped to the rectangle width, blanking the
// remainder of the row.
func (s *Surface) drawLine(y int, text string, style tcell.Style) {
	x := s.x
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if x+cw > s.x+s.w {
			break
		}
		s.screen.SetContent(x, y, ch, nil, style)
		x += cw
	}
	for ; x < s.x+s.w; x++ {
		s.screen.SetContent(x, y, ' ', nil, style)
	}
}

// tailLine returns the last line of text, truncated from the left to
// fit width cells.
func tailLine(text string, width int) string {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	for runewidth.StringWidth(text) > width {
		_, size := utf8.DecodeRuneInString(text)
		text = text[size:]
	}
	return text
}
