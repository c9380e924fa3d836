package session

import (
	"strings"

	"github.com/rs/zerolog"

	"cosmic/internal/crypto"
	"cosmic/internal/domain"
	"cosmic/internal/protocol/envelope"
	"cosmic/internal/services/delivery"
	"cosmic/internal/services/presence"
)

// Placeholders shown instead of content that could not be decrypted, or of a
// file whose payload is not a data URI.
const (
	PlaceholderMessage     = "[Encrypted message]"
	PlaceholderFile        = "[Encrypted file]"
	PlaceholderInvalidFile = "[Invalid file]"
)

// Engine holds the protocol state of one open room connection. It is not safe
// for concurrent use; the session event loop owns it.
type Engine struct {
	sess    domain.Session
	codec   *envelope.Codec
	tracker *delivery.Tracker
	typing  *presence.Debouncer
	banner  *presence.Debouncer
	log     zerolog.Logger
}

// NewEngine builds an Engine. typing and banner drive the transient
// indicators; their hide callbacks are the caller's business.
func NewEngine(
	sess domain.Session,
	codec *envelope.Codec,
	typing, banner *presence.Debouncer,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		sess:    sess,
		codec:   codec,
		tracker: delivery.NewTracker(),
		typing:  typing,
		banner:  banner,
		log:     log,
	}
}

// Dispatch returns the effects of one inbound envelope.
func (e *Engine) Dispatch(env domain.Envelope) []Effect {
	switch v := env.(type) {
	case *domain.Message:
		entry := e.openText(v.ID, v.From, v.Text, v.Encrypted)
		entry.Timestamp = v.Timestamp
		return []Effect{Render{Entry: entry}, Transmit{Envelope: e.codec.BuildSeen(v.ID)}}

	case *domain.File:
		entry := e.openFile(v.ID, v.From, v.Filename, v.Data, v.Encrypted)
		entry.Timestamp = v.Timestamp
		return []Effect{Render{Entry: entry}, Transmit{Envelope: e.codec.BuildSeen(v.ID)}}

	case *domain.Typing:
		if e.typing.Pulse() {
			return []Effect{ShowTyping{}}
		}
		return nil

	case *domain.Seen:
		if !e.tracker.MarkSeen(v.ID) {
			e.log.Debug().Str("id", v.ID.String()).Msg("ignoring seen for unknown or acked message")
		}
		return nil

	case *domain.Users:
		return []Effect{ShowUsers{Names: v.Names}}

	case *domain.Presence:
		e.banner.Pulse()
		return []Effect{ShowPresence{Presence: *v}}

	case *domain.ServerError:
		return []Effect{ShowError{Message: v.Message}}
	}

	e.log.Warn().Str("type", string(env.Kind())).Msg("no handler for envelope")
	return nil
}

// History returns render effects for stored records, oldest first. Records
// are never acknowledged.
func (e *Engine) History(records []domain.HistoryRecord) []Effect {
	out := make([]Effect, 0, len(records))
	for _, r := range records {
		var entry domain.Entry
		if r.IsFile() {
			entry = e.openFile("", r.Sender, r.Filename, r.Message, r.Encrypted != 0)
		} else {
			entry = e.openText("", r.Sender, r.Message, r.Encrypted != 0)
		}
		entry.Timestamp = envelope.ParseTimestamp(r.Timestamp)
		entry.Self = r.Sender == e.sess.DisplayName
		entry.History = true
		out = append(out, Render{Entry: entry})
	}
	return out
}

// ComposeText builds an outbound message: transmit it, then show it locally as
// plaintext with a delivery badge.
func (e *Engine) ComposeText(text string) ([]Effect, error) {
	msg, err := e.codec.BuildMessage(e.sess, text)
	if err != nil {
		return nil, err
	}
	entry := domain.Entry{
		ID:        msg.ID,
		Kind:      domain.EntryText,
		From:      e.sess.DisplayName,
		Text:      text,
		Timestamp: msg.Timestamp,
		Self:      true,
	}
	return []Effect{Transmit{Envelope: msg}, Render{Entry: entry, Track: true}}, nil
}

// ComposeFile is ComposeText for a data URI.
func (e *Engine) ComposeFile(filename, dataURI string) ([]Effect, error) {
	f, err := e.codec.BuildFile(e.sess, filename, dataURI)
	if err != nil {
		return nil, err
	}
	entry := domain.Entry{
		ID:        f.ID,
		Kind:      domain.EntryFile,
		From:      e.sess.DisplayName,
		Filename:  filename,
		Data:      dataURI,
		Timestamp: f.Timestamp,
		Self:      true,
	}
	return []Effect{Transmit{Envelope: f}, Render{Entry: entry, Track: true}}, nil
}

// ComposeTyping builds a typing pulse.
func (e *Engine) ComposeTyping() []Effect {
	return []Effect{Transmit{Envelope: e.codec.BuildTyping()}}
}

// Track registers the delivery handle of a rendered self-sent message.
func (e *Engine) Track(id domain.MessageID, h domain.DeliveryHandle) { e.tracker.Track(id, h) }

// Delivery reports the delivery state of a self-sent message.
func (e *Engine) Delivery(id domain.MessageID) (delivery.State, bool) { return e.tracker.State(id) }

// Stop disarms both indicators.
func (e *Engine) Stop() {
	e.typing.Stop()
	e.banner.Stop()
}

func (e *Engine) openText(id domain.MessageID, from, text string, encrypted bool) domain.Entry {
	entry := domain.Entry{ID: id, Kind: domain.EntryText, From: from}
	pt, ok := e.open(id, text, encrypted)
	if !ok {
		entry.Text, entry.Placeholder = PlaceholderMessage, true
		return entry
	}
	entry.Text = pt
	return entry
}

func (e *Engine) openFile(id domain.MessageID, from, filename, data string, encrypted bool) domain.Entry {
	entry := domain.Entry{ID: id, Kind: domain.EntryFile, From: from, Filename: filename}
	pt, ok := e.open(id, data, encrypted)
	switch {
	case !ok:
		entry.Text, entry.Placeholder = PlaceholderFile, true
		return entry
	case !strings.HasPrefix(pt, "data:"):
		entry.Text, entry.Placeholder = PlaceholderInvalidFile, true
		return entry
	}
	entry.Data = pt
	return entry
}

// open decrypts payload when it is marked encrypted. Without a key nothing is
// attempted.
func (e *Engine) open(id domain.MessageID, payload string, encrypted bool) (string, bool) {
	if !encrypted {
		return payload, true
	}
	if e.sess.Key == nil {
		return "", false
	}
	pt, err := crypto.Decrypt(e.sess.Key, payload)
	if err != nil {
		e.log.Debug().Err(err).Str("id", id.String()).Msg("decrypt failed")
		return "", false
	}
	return pt, true
}
