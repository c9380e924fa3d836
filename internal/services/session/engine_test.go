package session_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic/internal/crypto"
	"cosmic/internal/domain"
	"cosmic/internal/protocol/envelope"
	"cosmic/internal/services/delivery"
	"cosmic/internal/services/presence"
	"cosmic/internal/services/session"
)

func newEngine(sess domain.Session) (*session.Engine, *presence.ManualClock) {
	clock := presence.NewManualClock(time.Unix(0, 0))
	ids := 0
	codec := envelope.New(envelope.WithIDSource(func() domain.MessageID {
		ids++
		return domain.MessageID("id-" + string(rune('0'+ids)))
	}))
	typing := presence.NewDebouncer(clock, presence.TypingWindow, nil, nil)
	banner := presence.NewDebouncer(clock, presence.BannerWindow, nil, nil)
	return session.NewEngine(sess, codec, typing, banner, zerolog.Nop()), clock
}

func TestEngine_MessageRendersThenAcks(t *testing.T) {
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B"})

	effects := e.Dispatch(&domain.Message{ID: "m1", From: "A", Text: "hi"})
	require.Len(t, effects, 2)

	r, ok := effects[0].(session.Render)
	require.True(t, ok)
	assert.Equal(t, "hi", r.Entry.Text)
	assert.False(t, r.Track)

	tx, ok := effects[1].(session.Transmit)
	require.True(t, ok)
	assert.Equal(t, &domain.Seen{ID: "m1"}, tx.Envelope)
}

func TestEngine_DecryptsWithKey(t *testing.T) {
	key := crypto.DeriveKey("secret42", "orbit")
	blob, err := crypto.Encrypt(key, "data:text/plain;base64,aGk=")
	require.NoError(t, err)

	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B", E2E: true, Key: key})
	effects := e.Dispatch(&domain.File{ID: "f1", From: "A", Filename: "a.txt", Data: blob, Encrypted: true})

	r := effects[0].(session.Render)
	assert.Equal(t, domain.EntryFile, r.Entry.Kind)
	assert.Equal(t, "data:text/plain;base64,aGk=", r.Entry.Data)
	assert.False(t, r.Entry.Placeholder)
}

func TestEngine_PlaceholderOnBadCiphertext(t *testing.T) {
	key := crypto.DeriveKey("wrong", "orbit")
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "C", E2E: true, Key: key})

	other, err := crypto.Encrypt(crypto.DeriveKey("secret42", "orbit"), "hello")
	require.NoError(t, err)

	effects := e.Dispatch(&domain.Message{ID: "m1", From: "A", Text: other, Encrypted: true})
	require.Len(t, effects, 2)
	assert.Equal(t, session.PlaceholderMessage, effects[0].(session.Render).Entry.Text)
	assert.IsType(t, session.Transmit{}, effects[1])
}

func TestEngine_PlaintextInEncryptedRoom(t *testing.T) {
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B", E2E: true, Key: crypto.DeriveKey("p", "orbit")})

	effects := e.Dispatch(&domain.Message{ID: "m1", From: "A", Text: "clear"})
	assert.Equal(t, "clear", effects[0].(session.Render).Entry.Text)
}

func TestEngine_FileNotDataURI(t *testing.T) {
	key := crypto.DeriveKey("secret42", "orbit")
	blob, err := crypto.Encrypt(key, "just text")
	require.NoError(t, err)
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B", E2E: true, Key: key})

	effects := e.Dispatch(&domain.File{ID: "f1", From: "A", Filename: "a.bin", Data: "not a uri"})
	require.Len(t, effects, 2)
	r := effects[0].(session.Render)
	assert.Equal(t, session.PlaceholderInvalidFile, r.Entry.Text)
	assert.True(t, r.Entry.Placeholder)
	assert.Empty(t, r.Entry.Data)
	assert.Equal(t, &domain.Seen{ID: "f1"}, effects[1].(session.Transmit).Envelope)

	effects = e.Dispatch(&domain.File{ID: "f2", From: "A", Filename: "a.bin", Data: blob, Encrypted: true})
	assert.Equal(t, session.PlaceholderInvalidFile, effects[0].(session.Render).Entry.Text)

	effects = e.Dispatch(&domain.File{ID: "f3", From: "A", Filename: "a.bin", Data: "garbage", Encrypted: true})
	assert.Equal(t, session.PlaceholderFile, effects[0].(session.Render).Entry.Text)
}

func TestEngine_TypingShowsOnce(t *testing.T) {
	e, clock := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B"})

	assert.Equal(t, []session.Effect{session.ShowTyping{}}, e.Dispatch(&domain.Typing{From: "A"}))
	clock.Advance(500 * time.Millisecond)
	assert.Empty(t, e.Dispatch(&domain.Typing{From: "A"}))
}

func TestEngine_SeenTracksDelivery(t *testing.T) {
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "A"})

	effects, err := e.ComposeText("hello")
	require.NoError(t, err)
	require.Len(t, effects, 2)
	msg := effects[0].(session.Transmit).Envelope.(*domain.Message)
	r := effects[1].(session.Render)
	assert.True(t, r.Track)
	assert.True(t, r.Entry.Self)
	assert.Equal(t, msg.ID, r.Entry.ID)

	calls := 0
	e.Track(msg.ID, delivery.HandleFunc(func() { calls++ }))
	assert.Empty(t, e.Dispatch(&domain.Seen{ID: msg.ID, By: "B"}))
	assert.Empty(t, e.Dispatch(&domain.Seen{ID: msg.ID, By: "C"}))
	assert.Empty(t, e.Dispatch(&domain.Seen{ID: "other"}))

	st, ok := e.Delivery(msg.ID)
	assert.True(t, ok)
	assert.Equal(t, delivery.StateSeen, st)
	assert.Equal(t, 1, calls)
}

func TestEngine_ComposeEncrypts(t *testing.T) {
	key := crypto.DeriveKey("secret42", "orbit")
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "A", E2E: true, Key: key})

	effects, err := e.ComposeFile("a.txt", "data:text/plain;base64,aGk=")
	require.NoError(t, err)
	f := effects[0].(session.Transmit).Envelope.(*domain.File)
	assert.True(t, f.Encrypted)
	pt, err := crypto.Decrypt(key, f.Data)
	require.NoError(t, err)
	assert.Equal(t, "data:text/plain;base64,aGk=", pt)
	assert.Equal(t, "data:text/plain;base64,aGk=", effects[1].(session.Render).Entry.Data)

	_, err = session.NewEngine(domain.Session{E2E: true}, envelope.New(), nil, nil, zerolog.Nop()).ComposeText("x")
	assert.ErrorIs(t, err, crypto.ErrNoKey)
}

func TestEngine_RoomEvents(t *testing.T) {
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B"})

	assert.Equal(t, []session.Effect{session.ShowUsers{Names: []string{"A", "B"}}},
		e.Dispatch(&domain.Users{Names: []string{"A", "B"}}))
	assert.Equal(t, []session.Effect{session.ShowPresence{Presence: domain.Presence{Name: "A", Event: domain.PresenceLeave}}},
		e.Dispatch(&domain.Presence{Name: "A", Event: domain.PresenceLeave}))
	assert.Equal(t, []session.Effect{session.ShowError{Message: "nope"}},
		e.Dispatch(&domain.ServerError{Message: "nope"}))
}

func TestEngine_History(t *testing.T) {
	key := crypto.DeriveKey("secret42", "orbit")
	blob, err := crypto.Encrypt(key, "secret")
	require.NoError(t, err)
	e, _ := newEngine(domain.Session{RoomID: "orbit", DisplayName: "B", E2E: true, Key: key})

	effects := e.History([]domain.HistoryRecord{
		{Sender: "A", Kind: "message", Message: blob, Encrypted: 1},
		{Sender: "B", Kind: "message", Message: "AAAA", Encrypted: 1},
		{Sender: "A", Kind: "file", Message: "data:image/png;base64,iVBO", Filename: "p.png"},
	})
	require.Len(t, effects, 3)
	for _, eff := range effects {
		assert.IsType(t, session.Render{}, eff)
	}
	assert.Equal(t, "secret", effects[0].(session.Render).Entry.Text)
	assert.Equal(t, session.PlaceholderMessage, effects[1].(session.Render).Entry.Text)
	assert.True(t, effects[1].(session.Render).Entry.Self)
	assert.Equal(t, domain.EntryFile, effects[2].(session.Render).Entry.Kind)
}
