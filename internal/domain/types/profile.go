package types

// Profile is the locally remembered join defaults. It never holds a password.
type Profile struct {
	ServerURL   string `json:"server_url"`
	RoomID      RoomID `json:"room_id"`
	DisplayName string `json:"display_name"`
	Theme       string `json:"theme,omitempty"`
}
