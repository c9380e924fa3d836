package interfaces

import (
	"context"

	domaintypes "cosmic/internal/domain/types"
)

// Conn is a persistent, ordered, bidirectional frame channel to a room.
// One frame carries exactly one envelope.
type Conn interface {
	// ReadFrame blocks until the next frame arrives or the connection ends.
	ReadFrame() ([]byte, error)
	WriteFrame(ctx context.Context, frame []byte) error
	Close() error
}

// Dialer opens a Conn to a room. name and password travel out of band of the
// frames (in the URL); the server uses password only for room access control.
type Dialer interface {
	Dial(
		ctx context.Context,
		room domaintypes.RoomID,
		name string,
		password string,
	) (Conn, error)
}

// HistoryClient fetches recent room history over request/response.
type HistoryClient interface {
	FetchHistory(
		ctx context.Context,
		room domaintypes.RoomID,
		limit int,
	) ([]domaintypes.HistoryRecord, error)
}
