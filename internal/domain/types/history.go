package types

// HistoryRecord is one stored message as returned by the history endpoint.
type HistoryRecord struct {
	RoomID    RoomID `json:"room_id"`
	Sender    string `json:"sender"`
	Kind      string `json:"mtype"`
	Message   string `json:"message"`
	Filename  string `json:"filename"`
	Encrypted int    `json:"encrypted"`
	Timestamp string `json:"ts"`
}

// IsFile reports whether the record holds a file data URI.
func (r HistoryRecord) IsFile() bool { return r.Kind == "file" }
