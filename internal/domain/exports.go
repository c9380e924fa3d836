package domain

import (
	interfaces "cosmic/internal/domain/interfaces"
	types "cosmic/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	RoomID        = types.RoomID
	MessageID     = types.MessageID
	ConnState     = types.ConnState
	Session       = types.Session
	Kind          = types.Kind
	Envelope      = types.Envelope
	Message       = types.Message
	File          = types.File
	Typing        = types.Typing
	Seen          = types.Seen
	Users         = types.Users
	Presence      = types.Presence
	PresenceEvent = types.PresenceEvent
	ServerError   = types.ServerError
	HistoryRecord = types.HistoryRecord
	Entry         = types.Entry
	EntryKind     = types.EntryKind
	Profile       = types.Profile
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Conn           = interfaces.Conn
	Dialer         = interfaces.Dialer
	HistoryClient  = interfaces.HistoryClient
	Presenter      = interfaces.Presenter
	DeliveryHandle = interfaces.DeliveryHandle
	ProfileStore   = interfaces.ProfileStore
)

// Constants re-exported for callers that only import domain.
const (
	StateDisconnected = types.StateDisconnected
	StateConnecting   = types.StateConnecting
	StateOpen         = types.StateOpen
	StateClosed       = types.StateClosed

	KindMessage  = types.KindMessage
	KindFile     = types.KindFile
	KindTyping   = types.KindTyping
	KindSeen     = types.KindSeen
	KindUsers    = types.KindUsers
	KindPresence = types.KindPresence
	KindError    = types.KindError

	PresenceJoin  = types.PresenceJoin
	PresenceLeave = types.PresenceLeave

	EntryText = types.EntryText
	EntryFile = types.EntryFile
)
