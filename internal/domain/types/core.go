package types

// RoomID names a chat room on the server.
type RoomID string

// String returns the string form of the room identifier.
func (r RoomID) String() string { return string(r) }

// MessageID is the client-generated correlation key of a message or file.
type MessageID string

// String returns the string form of the message identifier.
func (id MessageID) String() string { return string(id) }

// ConnState is the lifecycle state of a room connection.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateOpen
	StateClosed
)

// String returns a lower-case name for the state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}
