package interfaces

import domaintypes "cosmic/internal/domain/types"

// DeliveryHandle is the UI side of one self-sent message's delivery badge.
type DeliveryHandle interface {
	MarkSeen()
}

// Presenter renders what the session decides to show. Implementations are
// called from the session's event loop only, state changes included.
type Presenter interface {
	// ShowEntry appends a transcript line. For self-sent, non-history entries it
	// returns the handle whose badge flips on the seen ack; it may return nil.
	ShowEntry(entry domaintypes.Entry) DeliveryHandle
	SetTyping(visible bool)
	SetUsers(names []string)
	ShowPresence(p domaintypes.Presence)
	ClearPresence()
	ShowError(message string)
	SetState(state domaintypes.ConnState)
}
