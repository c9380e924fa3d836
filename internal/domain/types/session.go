package types

import "cosmic/internal/crypto"

// Session holds the parameters a room connection was joined with.
//
// It is built once per join and not modified afterwards. Key is set only in
// E2E mode and is never serialised.
type Session struct {
	RoomID      RoomID
	DisplayName string
	Password    string
	E2E         bool
	Key         *crypto.Key
}
