// Package delivery tracks the sent/seen state of messages this client originated.
package delivery

import "cosmic/internal/domain"

// State is the delivery state of a tracked message.
type State uint8

const (
	// StateSent means the frame left this client and no ack has arrived yet.
	StateSent State = iota + 1
	// StateSeen means a peer acknowledged the message.
	StateSeen
)

func (s State) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StateSeen:
		return "seen"
	}
	return "unknown"
}

type pending struct {
	state  State
	handle domain.DeliveryHandle
}

// Tracker maps self-sent message ids to their UI handles.
//
// Entries are never pruned; the tracker lives as long as the room connection.
// Tracker is not safe for concurrent use; the session event loop owns it.
type Tracker struct {
	entries map[domain.MessageID]*pending
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[domain.MessageID]*pending)}
}

// Track registers a self-sent message in StateSent. Re-tracking an id that is
// already known is ignored so its state cannot move backwards.
func (t *Tracker) Track(id domain.MessageID, h domain.DeliveryHandle) {
	if _, ok := t.entries[id]; ok {
		return
	}
	t.entries[id] = &pending{state: StateSent, handle: h}
}

// MarkSeen moves id from sent to seen and notifies its handle. It reports
// whether a transition happened; unknown ids and repeated acks are no-ops.
func (t *Tracker) MarkSeen(id domain.MessageID) bool {
	p, ok := t.entries[id]
	if !ok || p.state == StateSeen {
		return false
	}
	p.state = StateSeen
	if p.handle != nil {
		p.handle.MarkSeen()
	}
	return true
}

// State returns the delivery state of id.
func (t *Tracker) State(id domain.MessageID) (State, bool) {
	p, ok := t.entries[id]
	if !ok {
		return 0, false
	}
	return p.state, true
}

// Len returns the number of tracked messages.
func (t *Tracker) Len() int { return len(t.entries) }

// HandleFunc adapts a function to domain.DeliveryHandle.
type HandleFunc func()

// MarkSeen calls f.
func (f HandleFunc) MarkSeen() { f() }
