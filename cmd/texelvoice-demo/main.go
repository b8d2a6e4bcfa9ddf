// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvoice-demo/main.go
// Summary: Demo shell session mirrored through the accessibility layer.

// Command texelvoice-demo runs a shell under a pty and mirrors its
// output through the accessibility layer onto a tcell screen: the
// accessible row window on top, the live region caption at the bottom.
// Up/Down simulate AT focus navigation (crossing a boundary pages the
// scrollback); other keys go to the shell. Ctrl+C exits.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texelvoice/a11y"
	"github.com/framegrace/texelvoice/config"
	"github.com/framegrace/texelvoice/surface"
	"github.com/framegrace/texelvoice/surface/tcellsurface"
	tv "github.com/framegrace/texelvoice/term"
	"github.com/framegrace/texelvoice/transcript"
)

const (
	demoCols = 80
	demoRows = 12
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("texelvoice-demo: %v", err)
	}
}

func run() error {
	var cfg config.Config
	if path, err := config.DefaultPath(); err == nil {
		cfg = config.Load(path)
	} else {
		cfg = config.Default()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=dumb")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: demoRows, Cols: demoCols})
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}
	defer ptmx.Close()
	// Raw mode disables local echo on the pty side; the shell's own
	// echo still arrives as regular output.
	if _, err := term.MakeRaw(int(ptmx.Fd())); err != nil {
		return fmt.Errorf("make pty raw: %w", err)
	}

	sim := tv.NewSim(demoCols, demoRows)
	rend := tv.NewSimRenderer(16)
	host := tv.NewSimHost()

	sw, sh := screen.Size()
	surf := tcellsurface.New(screen, 0, 0, sw, sh)

	mgrCfg := a11y.Config{
		MaxRowsToAnnounce:          cfg.MaxRowsToAnnounce,
		RequiresReattachWorkaround: cfg.ReattachWorkaround,
	}
	var store *transcript.Store
	if cfg.TranscriptEnabled {
		path := cfg.TranscriptPath
		if path == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}
			path = dir + "/texelvoice/transcript.db"
		}
		store, err = transcript.Open(transcript.DefaultConfig(path))
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer store.Close()
		mgrCfg.Sink = store
	}

	mgr := a11y.New(sim, rend, host, surf, mgrCfg)
	defer mgr.Dispose()

	// Pump shell output into the simulated terminal.
	outputCh := make(chan string, 64)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				outputCh <- stripEscapes(string(buf[:n]))
			}
			if err != nil {
				close(outputCh)
				return
			}
		}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	mem := surf.Memory()
	for {
		surf.Paint()
		screen.Show()

		select {
		case text, ok := <-outputCh:
			if !ok {
				return nil
			}
			sim.Write(text)
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				w, h := e.Size()
				surf.SetRect(0, 0, w, h)
				host.EmitWindowResize()
				screen.Sync()
			case *tcell.EventKey:
				switch e.Key() {
				case tcell.KeyCtrlC:
					return nil
				case tcell.KeyUp:
					moveFocus(mem, -1)
				case tcell.KeyDown:
					moveFocus(mem, 1)
				case tcell.KeyEnter:
					sim.KeyPress('\r')
					ptmx.Write([]byte{'\r'})
				default:
					if ch := e.Rune(); ch != 0 {
						sim.KeyPress(ch)
						ptmx.Write([]byte(string(ch)))
					}
				}
			}
		}
	}
}

// moveFocus simulates AT traversal by one row. Focus events on the
// boundary nodes take the normal boundary-crossing path, so stepping
// past the edge pages the scrollback.
func moveFocus(mem *surface.Memory, delta int) {
	nodes := mem.Nodes()
	if len(nodes) == 0 {
		return
	}
	next := mem.FocusedIndex() + delta
	if mem.FocusedIndex() < 0 {
		next = len(nodes) - 1
	}
	if next < 0 {
		next = 0
	}
	if next >= len(nodes) {
		next = len(nodes) - 1
	}
	mem.FocusNode(nodes[next])
}

// stripEscapes drops ESC-introduced control sequences so the plain
// text model is not polluted. Good enough for a demo; real hosts sit
// behind a full VT parser.
func stripEscapes(s string) string {
	const (
		stText = iota
		stEsc
		stCSI
		stOSC
	)
	state := stText
	out := make([]rune, 0, len(s))
	for _, ch := range s {
		switch state {
		case stText:
			if ch == 0x1b {
				state = stEsc
			} else if ch >= 0x20 || ch == '\n' || ch == '\t' || ch == '\r' {
				out = append(out, ch)
			}
		case stEsc:
			switch ch {
			case '[':
				state = stCSI
			case ']':
				state = stOSC
			default:
				state = stText
			}
		case stCSI:
			if ch >= 0x40 && ch <= 0x7e {
				state = stText
			}
		case stOSC:
			if ch == 0x07 {
				state = stText
			} else if ch == 0x1b {
				state = stEsc
			}
		}
	}
	return string(out)
}
