package types

import "time"

// Kind is the discriminant of an envelope on the wire.
type Kind string

const (
	KindMessage  Kind = "message"
	KindFile     Kind = "file"
	KindTyping   Kind = "typing"
	KindSeen     Kind = "seen"
	KindUsers    Kind = "users"
	KindPresence Kind = "presence"
	KindError    Kind = "error"
)

// Envelope is one discrete unit exchanged over the transport.
// It is implemented by pointers to the structs below.
type Envelope interface {
	Kind() Kind
}

// Message carries chat text, sealed when Encrypted is set.
// From is filled in by the server on fan-out.
type Message struct {
	ID        MessageID
	From      string
	Text      string
	Timestamp time.Time
	Encrypted bool
}

// File carries a data URI, sealed when Encrypted is set.
type File struct {
	ID        MessageID
	From      string
	Filename  string
	Data      string
	Timestamp time.Time
	Encrypted bool
}

// Typing is a liveness pulse from someone composing a message.
type Typing struct {
	From string
}

// Seen acknowledges receipt of the message with ID.
type Seen struct {
	ID MessageID
	By string
}

// Users is the server's list of active names in the room.
type Users struct {
	Names []string
}

// PresenceEvent is either join or leave.
type PresenceEvent string

const (
	PresenceJoin  PresenceEvent = "join"
	PresenceLeave PresenceEvent = "leave"
)

// Presence announces a participant joining or leaving.
type Presence struct {
	Name  string
	Event PresenceEvent
}

// ServerError is an error reported by the server.
type ServerError struct {
	Message string
}

func (*Message) Kind() Kind     { return KindMessage }
func (*File) Kind() Kind        { return KindFile }
func (*Typing) Kind() Kind      { return KindTyping }
func (*Seen) Kind() Kind        { return KindSeen }
func (*Users) Kind() Kind       { return KindUsers }
func (*Presence) Kind() Kind    { return KindPresence }
func (*ServerError) Kind() Kind { return KindError }
