// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/events.go
// Summary: Event types and listener dispatcher for terminal, renderer and host events.

package term

import "sync"

// EventType identifies an event crossing the terminal boundary.
type EventType int

const (
	// Terminal events.
	EventResize EventType = iota // ResizePayload
	EventRefresh                 // RefreshPayload
	EventScroll
	EventChar     // rune
	EventLineFeed
	EventTab      // int (space count)
	EventKeyPress // rune
	EventBlur
	// Renderer events.
	EventRendererResize
	// Host events.
	EventDPIChange
	EventHostResize
)

// Event is a message broadcast by a dispatcher. Payload shape depends
// on Type.
type Event struct {
	Type    EventType
	Payload interface{}
}

// ResizePayload carries the new viewport dimensions.
type ResizePayload struct {
	Cols int
	Rows int
}

// RefreshPayload carries an inclusive range of changed viewport rows.
type RefreshPayload struct {
	Start int
	End   int
}

// Listener receives broadcast events.
type Listener interface {
	OnEvent(ev Event)
}

// EventDispatcher manages a list of listeners and broadcasts events to
// them in subscription order.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// Subscribe adds a listener.
func (d *EventDispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Unsubscribe removes a listener.
func (d *EventDispatcher) Unsubscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.listeners {
		if existing == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast delivers ev to every subscribed listener.
func (d *EventDispatcher) Broadcast(ev Event) {
	d.mu.RLock()
	fire := make([]Listener, len(d.listeners))
	copy(fire, d.listeners)
	d.mu.RUnlock()
	for _, l := range fire {
		l.OnEvent(ev)
	}
}
