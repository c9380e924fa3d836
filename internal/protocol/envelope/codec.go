package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cosmic/internal/crypto"
	"cosmic/internal/domain"
)

// TimeLayout matches JavaScript's Date.toISOString.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// ErrMalformedEnvelope is returned for frames that are not JSON objects with a
// known "type".
var ErrMalformedEnvelope = errors.New("malformed envelope")

// Codec builds outbound envelopes. The zero value is not usable; use New.
type Codec struct {
	newID func() domain.MessageID
	now   func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithIDSource replaces the random UUID message-id source.
func WithIDSource(f func() domain.MessageID) Option {
	return func(c *Codec) { c.newID = f }
}

// WithClock replaces time.Now for envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// New returns a Codec issuing UUIDv4 message ids.
func New(opts ...Option) *Codec {
	c := &Codec{
		newID: func() domain.MessageID { return domain.MessageID(uuid.NewString()) },
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Codec) stamp() time.Time { return c.now().UTC().Truncate(time.Millisecond) }

// seal encrypts payload when the session is in E2E mode.
func seal(sess domain.Session, payload string) (string, bool, error) {
	if !sess.E2E {
		return payload, false, nil
	}
	ct, err := crypto.Encrypt(sess.Key, payload)
	if err != nil {
		return "", false, err
	}
	return ct, true, nil
}

// BuildMessage returns a message envelope with a fresh id and timestamp.
func (c *Codec) BuildMessage(sess domain.Session, text string) (*domain.Message, error) {
	body, encrypted, err := seal(sess, text)
	if err != nil {
		return nil, fmt.Errorf("seal message: %w", err)
	}
	return &domain.Message{
		ID:        c.newID(),
		Text:      body,
		Timestamp: c.stamp(),
		Encrypted: encrypted,
	}, nil
}

// BuildFile returns a file envelope for a data URI. Size limits are the
// caller's concern.
func (c *Codec) BuildFile(sess domain.Session, filename, dataURI string) (*domain.File, error) {
	body, encrypted, err := seal(sess, dataURI)
	if err != nil {
		return nil, fmt.Errorf("seal file %q: %w", filename, err)
	}
	return &domain.File{
		ID:        c.newID(),
		Filename:  filename,
		Data:      body,
		Timestamp: c.stamp(),
		Encrypted: encrypted,
	}, nil
}

// BuildTyping returns a typing pulse.
func (c *Codec) BuildTyping() *domain.Typing { return &domain.Typing{} }

// BuildSeen returns the acknowledgment for id.
func (c *Codec) BuildSeen(id domain.MessageID) *domain.Seen { return &domain.Seen{ID: id} }

// flag is the wire form of "encrypted": written as 0/1, read from numbers or booleans.
type flag bool

func (f flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("encrypted: %w", err)
	}
	*f = n != 0
	return nil
}

func formatTS(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTimestamp reads a wire timestamp. Empty or unparseable input yields the
// zero time rather than an error; the server relays whatever the sender wrote.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Marshal encodes env as one line of JSON without HTML escaping.
func Marshal(env domain.Envelope) ([]byte, error) {
	var v any
	switch e := env.(type) {
	case *domain.Message:
		v = struct {
			Type      domain.Kind `json:"type"`
			Name      string      `json:"name,omitempty"`
			Text      string      `json:"text"`
			TS        string      `json:"ts"`
			Encrypted flag        `json:"encrypted"`
			MessageID string      `json:"messageId"`
		}{domain.KindMessage, e.From, e.Text, formatTS(e.Timestamp), flag(e.Encrypted), e.ID.String()}
	case *domain.File:
		v = struct {
			Type      domain.Kind `json:"type"`
			Name      string      `json:"name,omitempty"`
			Filename  string      `json:"filename"`
			Data      string      `json:"data"`
			TS        string      `json:"ts"`
			Encrypted flag        `json:"encrypted"`
			MessageID string      `json:"messageId"`
		}{domain.KindFile, e.From, e.Filename, e.Data, formatTS(e.Timestamp), flag(e.Encrypted), e.ID.String()}
	case *domain.Typing:
		v = struct {
			Type domain.Kind `json:"type"`
			Name string      `json:"name,omitempty"`
		}{domain.KindTyping, e.From}
	case *domain.Seen:
		v = struct {
			Type      domain.Kind `json:"type"`
			MessageID string      `json:"messageId"`
			By        string      `json:"by,omitempty"`
		}{domain.KindSeen, e.ID.String(), e.By}
	case *domain.Users:
		names := e.Names
		if names == nil {
			names = []string{}
		}
		v = struct {
			Type domain.Kind `json:"type"`
			List []string    `json:"list"`
		}{domain.KindUsers, names}
	case *domain.Presence:
		v = struct {
			Type  domain.Kind          `json:"type"`
			Event domain.PresenceEvent `json:"event"`
			Name  string               `json:"name"`
		}{domain.KindPresence, e.Event, e.Name}
	case *domain.ServerError:
		v = struct {
			Type    domain.Kind `json:"type"`
			Message string      `json:"message"`
		}{domain.KindError, e.Message}
	default:
		return nil, fmt.Errorf("marshal: unsupported envelope %T", env)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder terminates with a newline; frames are newline-free.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// inbound accepts every field any frame kind may carry.
type inbound struct {
	Type      *domain.Kind `json:"type"`
	Name      string       `json:"name"`
	Text      string       `json:"text"`
	Filename  string       `json:"filename"`
	Data      string       `json:"data"`
	TS        string       `json:"ts"`
	Encrypted flag         `json:"encrypted"`
	MessageID string       `json:"messageId"`
	By        string       `json:"by"`
	List      []string     `json:"list"`
	Event     string       `json:"event"`
	Message   string       `json:"message"`
}

// ParseInbound decodes one frame into its envelope variant.
func ParseInbound(raw []byte) (domain.Envelope, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if in.Type == nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEnvelope)
	}

	switch *in.Type {
	case domain.KindMessage:
		return &domain.Message{
			ID:        domain.MessageID(in.MessageID),
			From:      in.Name,
			Text:      in.Text,
			Timestamp: ParseTimestamp(in.TS),
			Encrypted: bool(in.Encrypted),
		}, nil
	case domain.KindFile:
		return &domain.File{
			ID:        domain.MessageID(in.MessageID),
			From:      in.Name,
			Filename:  in.Filename,
			Data:      in.Data,
			Timestamp: ParseTimestamp(in.TS),
			Encrypted: bool(in.Encrypted),
		}, nil
	case domain.KindTyping:
		return &domain.Typing{From: in.Name}, nil
	case domain.KindSeen:
		return &domain.Seen{ID: domain.MessageID(in.MessageID), By: in.By}, nil
	case domain.KindUsers:
		return &domain.Users{Names: in.List}, nil
	case domain.KindPresence:
		return &domain.Presence{Name: in.Name, Event: domain.PresenceEvent(in.Event)}, nil
	case domain.KindError:
		return &domain.ServerError{Message: in.Message}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedEnvelope, *in.Type)
}
