// Package notify holds the transient UI message of the running client.
//
// There is exactly one Notifier per process, constructed in main and passed
// to whoever needs it. Showing a message always replaces the current one and
// re-arms the single auto-hide timer; messages are never queued.
package notify

import (
	"sync"
	"time"
)

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// DefaultDuration is how long a message stays visible when the caller
// does not say otherwise.
const DefaultDuration = 3 * time.Second

type (
	Kind string

	// State is a read-only snapshot of the notification.
	State struct {
		Visible bool   `json:"visible"`
		Message string `json:"message"`
		Kind    Kind   `json:"kind"`
	}

	Notifier struct {
		mu         sync.Mutex
		state      State
		timer      *time.Timer
		seq        uint64
		defaultDur time.Duration
	}
)

func New() *Notifier {
	return NewWithDuration(DefaultDuration)
}

// NewWithDuration sets the hide delay used when Show gets a non-positive
// duration. A non-positive d falls back to DefaultDuration.
func NewWithDuration(d time.Duration) *Notifier {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Notifier{state: State{Kind: Success}, defaultDur: d}
}

// Show makes the message visible and arms the auto-hide timer. A pending
// timer from an earlier Show is cancelled, so the hide fires exactly once,
// duration after the latest call. A non-positive duration means the
// notifier's configured default.
func (n *Notifier) Show(message string, kind Kind, duration time.Duration) {
	if duration <= 0 {
		duration = n.defaultDur
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	seq := n.seq
	n.state = State{Visible: true, Message: message, Kind: kind}

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(duration, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// A newer Show superseded this timer between firing and locking.
		if n.seq != seq {
			return
		}
		n.state.Visible = false
		n.timer = nil
	})
}

// Hide makes the message invisible immediately and cancels the pending timer.
func (n *Notifier) Hide() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	n.state.Visible = false
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// Snapshot returns a copy of the current state.
func (n *Notifier) Snapshot() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}
