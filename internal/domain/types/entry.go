package types

import "time"

// EntryKind distinguishes text and file entries in the transcript.
type EntryKind int

const (
	EntryText EntryKind = iota
	EntryFile
)

// Entry is a transcript line handed to the presenter.
//
// Placeholder is set when the payload could not be decrypted; Text then holds
// the placeholder and Data is empty.
type Entry struct {
	ID          MessageID
	Kind        EntryKind
	From        string
	Text        string
	Filename    string
	Data        string
	Timestamp   time.Time
	Self        bool
	Placeholder bool
	History     bool
}
