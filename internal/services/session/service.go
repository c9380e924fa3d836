package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"cosmic/internal/attach"
	"cosmic/internal/crypto"
	"cosmic/internal/domain"
	"cosmic/internal/protocol/envelope"
	"cosmic/internal/services/presence"
)

// DefaultHistoryLimit is how many records are requested after joining.
const DefaultHistoryLimit = 60

const eventBuffer = 64

// Config holds the join parameters.
type Config struct {
	Room         domain.RoomID
	Name         string
	Password     string
	E2E          bool
	Suite        crypto.Suite
	HistoryLimit int // 0 means DefaultHistoryLimit; negative disables history
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock driving the typing and presence windows.
func WithClock(c presence.Clock) Option { return func(s *Service) { s.clock = c } }

// WithCodec replaces the envelope codec.
func WithCodec(c *envelope.Codec) Option { return func(s *Service) { s.codec = c } }

// WithHistory sets the client used to fetch room history after joining.
func WithHistory(h domain.HistoryClient) Option { return func(s *Service) { s.history = h } }

// Service is one room connection.
//
// Join, Leave, Send*, State, Done and Err may be called from any goroutine.
// Everything else runs on the event loop.
type Service struct {
	cfg       Config
	dialer    domain.Dialer
	history   domain.HistoryClient
	presenter domain.Presenter
	clock     presence.Clock
	codec     *envelope.Codec
	log       zerolog.Logger

	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
	events chan func()
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error

	// serialises state transitions that notify the presenter
	lifecycle sync.Mutex

	// set by Join before the state becomes Open, read-only afterwards
	sess        domain.Session
	conn        domain.Conn
	fingerprint string

	// owned by the loop
	engine *Engine
}

// New constructs a Session Service. The presenter is only ever called from
// the event loop, which Join starts once the state leaves Disconnected.
func New(
	cfg Config,
	dialer domain.Dialer,
	presenter domain.Presenter,
	log zerolog.Logger,
	opts ...Option,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:       cfg,
		dialer:    dialer,
		presenter: presenter,
		clock:     presence.SystemClock{},
		codec:     envelope.New(),
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan func(), eventBuffer),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg.HistoryLimit == 0 {
		s.cfg.HistoryLimit = DefaultHistoryLimit
	}
	s.log = s.log.With().Str("room", strings.TrimSpace(cfg.Room.String())).Logger()
	return s
}

// State returns the lifecycle state.
func (s *Service) State() domain.ConnState { return domain.ConnState(s.state.Load()) }

// Done is closed once the session reaches Closed.
func (s *Service) Done() <-chan struct{} { return s.done }

// Err returns the error that closed the session, or nil after a clean Leave.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Fingerprint returns the room key fingerprint, or "" outside E2E mode.
// It is valid once Join has returned successfully.
func (s *Service) Fingerprint() string { return s.fingerprint }

// Join validates the parameters, derives the room key in E2E mode and dials.
// On success the session is Open and the event loop is running; ctx only
// bounds the join itself. Leave abandons a join in progress, in which case
// Join returns ErrLeft.
func (s *Service) Join(ctx context.Context) error {
	switch s.State() {
	case domain.StateDisconnected:
	case domain.StateClosed:
		return ErrLeft
	default:
		return ErrAlreadyJoined
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	sess, err := s.prepare(ctx)
	if err != nil {
		if s.State() == domain.StateClosed {
			return ErrLeft
		}
		return err
	}

	s.lifecycle.Lock()
	if !s.state.CompareAndSwap(int32(domain.StateDisconnected), int32(domain.StateConnecting)) {
		s.lifecycle.Unlock()
		destroyKey(sess)
		if s.State() == domain.StateClosed {
			return ErrLeft
		}
		return ErrAlreadyJoined
	}
	go s.loop()
	s.post(func() { s.presenter.SetState(domain.StateConnecting) })
	s.lifecycle.Unlock()
	s.log.Debug().Bool("e2e", sess.E2E).Msg("dialing")

	conn, err := s.dialer.Dial(ctx, sess.RoomID, sess.DisplayName, sess.Password)
	if err != nil {
		destroyKey(sess)
		terr := &TransportError{Op: "dial", Err: err}
		if !s.abandon(terr) {
			return ErrLeft
		}
		<-s.done
		return terr
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.State() != domain.StateConnecting {
		if err := conn.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close socket")
		}
		destroyKey(sess)
		return ErrLeft
	}
	s.sess = sess
	s.conn = conn
	if sess.Key != nil {
		s.fingerprint = crypto.Fingerprint(sess.Key)
	}
	typing := presence.NewDebouncer(s.clock, presence.TypingWindow, s.postFunc,
		func() { s.presenter.SetTyping(false) })
	banner := presence.NewDebouncer(s.clock, presence.BannerWindow, s.postFunc,
		func() { s.presenter.ClearPresence() })
	s.engine = NewEngine(sess, s.codec, typing, banner, s.log)

	s.state.Store(int32(domain.StateOpen))
	s.post(func() { s.presenter.SetState(domain.StateOpen) })
	s.log.Info().Msg("joined")

	go s.readLoop()
	go s.fetchHistory()
	return nil
}

// abandon closes a session that never reached Open. It reports false when
// the state had already left Connecting.
func (s *Service) abandon(cause error) bool {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if !s.state.CompareAndSwap(int32(domain.StateConnecting), int32(domain.StateClosed)) {
		return false
	}
	if cause != nil {
		s.setErr(cause)
	}
	s.post(func() {
		s.presenter.SetState(domain.StateClosed)
		s.log.Info().Msg("left")
		s.cancel()
		s.once.Do(func() { close(s.done) })
	})
	return true
}

func destroyKey(sess domain.Session) {
	if sess.Key != nil {
		sess.Key.Destroy()
	}
}

func (s *Service) prepare(ctx context.Context) (domain.Session, error) {
	room := strings.TrimSpace(s.cfg.Room.String())
	name := strings.TrimSpace(s.cfg.Name)
	if room == "" {
		return domain.Session{}, &ValidationError{Field: "room", Reason: "required"}
	}
	if name == "" {
		return domain.Session{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if s.cfg.E2E && s.cfg.Password == "" {
		return domain.Session{}, &ValidationError{Field: "password", Reason: "required for end-to-end encryption"}
	}

	sess := domain.Session{
		RoomID:      domain.RoomID(room),
		DisplayName: name,
		Password:    s.cfg.Password,
		E2E:         s.cfg.E2E,
	}
	if sess.E2E {
		suite := s.cfg.Suite
		if suite == "" {
			suite = crypto.SuiteAESGCM
		}
		key, err := crypto.DeriveKeyContext(ctx, suite, sess.Password, room)
		if err != nil {
			return domain.Session{}, err
		}
		sess.Key = key
	}
	return sess, nil
}

// Leave closes the session and waits for the loop to finish closing. It is
// safe to call more than once and before Join. A join still deriving or
// dialing is cancelled without waiting for it.
func (s *Service) Leave() {
	if s.state.CompareAndSwap(int32(domain.StateDisconnected), int32(domain.StateClosed)) {
		s.cancel()
		s.once.Do(func() { close(s.done) })
		return
	}
	if !s.abandon(nil) {
		s.post(func() { s.shutdown(nil) })
	}
	<-s.done
}

// SendText sends a chat message. Whitespace-only text is ignored.
func (s *Service) SendText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.action("message", func() ([]Effect, error) { return s.engine.ComposeText(text) })
}

// SendFile sends an attachment. Oversized payloads are rejected before any
// envelope is built.
func (s *Service) SendFile(a attach.Attachment) error {
	if err := attach.CheckSize(int64(len(a.Data))); err != nil {
		return err
	}
	s.action("file", func() ([]Effect, error) { return s.engine.ComposeFile(a.Name, a.DataURI()) })
	return nil
}

// SendTyping emits one typing pulse.
func (s *Service) SendTyping() {
	s.action("typing", func() ([]Effect, error) { return s.engine.ComposeTyping(), nil })
}

// action queues an outbound compose. The Open check is repeated on the loop
// because the state may change while the action waits.
func (s *Service) action(what string, compose func() ([]Effect, error)) {
	if s.State() != domain.StateOpen {
		s.log.Debug().Str("action", what).Msg("dropped: not open")
		return
	}
	s.post(func() {
		if s.State() != domain.StateOpen {
			s.log.Debug().Str("action", what).Msg("dropped: not open")
			return
		}
		effects, err := compose()
		if err != nil {
			s.log.Error().Err(err).Str("action", what).Msg("compose failed")
			s.presenter.ShowError("could not send " + what)
			return
		}
		s.apply(effects)
	})
}

// post hands f to the event loop. It reports false once the session is closing.
func (s *Service) post(f func()) bool {
	select {
	case s.events <- f:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Service) postFunc(f func()) { s.post(f) }

func (s *Service) loop() {
	for {
		select {
		case f := <-s.events:
			f()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) readLoop() {
	for {
		frame, err := s.conn.ReadFrame()
		if err != nil {
			s.post(func() { s.shutdown(&TransportError{Op: "read", Err: err}) })
			return
		}
		if !s.post(func() { s.handleFrame(frame) }) {
			return
		}
	}
}

func (s *Service) fetchHistory() {
	if s.history == nil || s.cfg.HistoryLimit < 0 {
		return
	}
	records, err := s.history.FetchHistory(s.ctx, s.sess.RoomID, s.cfg.HistoryLimit)
	if err != nil {
		if s.ctx.Err() == nil {
			s.log.Warn().Err(err).Msg("history unavailable")
		}
		return
	}
	s.post(func() {
		if s.State() != domain.StateOpen {
			return
		}
		s.apply(s.engine.History(records))
	})
}

func (s *Service) handleFrame(frame []byte) {
	if s.State() != domain.StateOpen {
		return
	}
	env, err := envelope.ParseInbound(frame)
	if err != nil {
		s.log.Warn().Err(err).Int("bytes", len(frame)).Msg("discarding frame")
		return
	}
	s.apply(s.engine.Dispatch(env))
}

// apply runs effects in order, stopping if the session closes midway.
func (s *Service) apply(effects []Effect) {
	for _, eff := range effects {
		if s.State() != domain.StateOpen {
			return
		}
		switch e := eff.(type) {
		case Transmit:
			if err := s.write(e.Envelope); err != nil {
				s.shutdown(err)
				return
			}
		case Render:
			h := s.presenter.ShowEntry(e.Entry)
			if e.Track {
				s.engine.Track(e.Entry.ID, h)
			}
		case ShowTyping:
			s.presenter.SetTyping(true)
		case ShowUsers:
			s.presenter.SetUsers(e.Names)
		case ShowPresence:
			s.presenter.ShowPresence(e.Presence)
		case ShowError:
			s.presenter.ShowError(e.Message)
		}
	}
}

func (s *Service) write(env domain.Envelope) error {
	raw, err := envelope.Marshal(env)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal envelope")
		return nil
	}
	if err := s.conn.WriteFrame(s.ctx, raw); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// shutdown moves to Closed. It runs on the loop; cause is nil for Leave.
func (s *Service) shutdown(cause error) {
	if s.State() == domain.StateClosed {
		return
	}
	if cause != nil {
		var terr *TransportError
		if errors.As(cause, &terr) && s.ctx.Err() == nil {
			s.log.Warn().Err(cause).Msg("connection lost")
		}
		s.setErr(cause)
	}
	s.state.Store(int32(domain.StateClosed))
	s.cancel()
	if err := s.conn.Close(); err != nil {
		s.log.Debug().Err(err).Msg("close socket")
	}
	s.engine.Stop()
	destroyKey(s.sess)
	s.presenter.SetState(domain.StateClosed)
	s.log.Info().Msg("left")
	s.once.Do(func() { close(s.done) })
}

func (s *Service) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
