package session

import "cosmic/internal/domain"

// Effect is one thing the event loop must do in response to an envelope.
type Effect interface{ effect() }

// Render appends an entry to the transcript. Track is set for self-sent
// messages whose delivery badge should follow seen acks.
type Render struct {
	Entry domain.Entry
	Track bool
}

// ShowTyping turns the peer typing line on. Hiding is driven by the debouncer.
type ShowTyping struct{}

// ShowUsers replaces the active user list.
type ShowUsers struct{ Names []string }

// ShowPresence raises the join/leave banner.
type ShowPresence struct{ Presence domain.Presence }

// ShowError surfaces a server error. The connection stays open.
type ShowError struct{ Message string }

// Transmit writes an envelope to the room.
type Transmit struct{ Envelope domain.Envelope }

func (Render) effect()       {}
func (ShowTyping) effect()   {}
func (ShowUsers) effect()    {}
func (ShowPresence) effect() {}
func (ShowError) effect()    {}
func (Transmit) effect()     {}
