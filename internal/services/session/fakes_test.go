package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"cosmic/internal/domain"
	"cosmic/internal/services/delivery"
)

var errClosed = errors.New("use of closed connection")

// hub is an in-memory room server: it stamps the sender's name onto each
// frame and fans it out to every other connection, like the real relay.
type hub struct {
	mu     sync.Mutex
	conns  []*pipeConn
	frames []map[string]any // every client frame as the server saw it
	reject error
}

func (h *hub) Dial(_ context.Context, _ domain.RoomID, name, _ string) (domain.Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reject != nil {
		return nil, h.reject
	}
	c := &pipeConn{hub: h, name: name, in: make(chan []byte, 64), closed: make(chan struct{})}
	h.conns = append(h.conns, c)
	return c, nil
}

func (h *hub) relay(from *pipeConn, raw []byte) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, m)

	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if m["type"] == "seen" {
		out["by"] = from.name
	} else {
		out["name"] = from.name
	}
	b, _ := json.Marshal(out)
	for _, c := range h.conns {
		if c != from {
			c.push(b)
		}
	}
}

// sent returns the frames of the given type seen by the server.
func (h *hub) sent(kind string) []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []map[string]any
	for _, f := range h.frames {
		if f["type"] == kind {
			out = append(out, f)
		}
	}
	return out
}

type pipeConn struct {
	hub    *hub
	name   string
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu     sync.Mutex
	writes [][]byte
}

func (c *pipeConn) push(b []byte) {
	select {
	case c.in <- b:
	case <-c.closed:
	}
}

func (c *pipeConn) ReadFrame() ([]byte, error) {
	select {
	case b := <-c.in:
		return b, nil
	case <-c.closed:
		return nil, errClosed
	}
}

func (c *pipeConn) WriteFrame(_ context.Context, b []byte) error {
	select {
	case <-c.closed:
		return errClosed
	default:
	}
	c.mu.Lock()
	c.writes = append(c.writes, append([]byte(nil), b...))
	c.mu.Unlock()
	if c.hub != nil {
		c.hub.relay(c, b)
	}
	return nil
}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// written decodes every frame this client wrote.
func (c *pipeConn) written() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.writes))
	for _, w := range c.writes {
		var m map[string]any
		_ = json.Unmarshal(w, &m)
		out = append(out, m)
	}
	return out
}

// soloDialer hands out one standalone connection the test feeds directly.
type soloDialer struct {
	conn  *pipeConn
	dials int
}

func newSoloDialer() *soloDialer {
	return &soloDialer{conn: &pipeConn{in: make(chan []byte, 64), closed: make(chan struct{})}}
}

func (d *soloDialer) Dial(context.Context, domain.RoomID, string, string) (domain.Conn, error) {
	d.dials++
	return d.conn, nil
}

// stallDialer blocks in Dial until release is closed, ignoring ctx when
// deaf is set. The connection it finally returns is recorded in conn.
type stallDialer struct {
	deaf    bool
	dialing chan struct{}
	release chan struct{}
	dials   atomic.Int32
	conn    *pipeConn
}

func newStallDialer(deaf bool) *stallDialer {
	return &stallDialer{
		deaf:    deaf,
		dialing: make(chan struct{}),
		release: make(chan struct{}),
		conn:    &pipeConn{in: make(chan []byte, 64), closed: make(chan struct{})},
	}
}

func (d *stallDialer) Dial(ctx context.Context, _ domain.RoomID, _, _ string) (domain.Conn, error) {
	d.dials.Add(1)
	close(d.dialing)
	if d.deaf {
		<-d.release
		return d.conn, nil
	}
	select {
	case <-d.release:
		return d.conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakePresenter struct {
	mu       sync.Mutex
	entries  []domain.Entry
	seen     map[domain.MessageID]int
	typing   bool
	users    []string
	presence []domain.Presence
	banner   bool
	errors   []string
	states   []domain.ConnState
}

func newPresenter() *fakePresenter {
	return &fakePresenter{seen: make(map[domain.MessageID]int)}
}

func (p *fakePresenter) ShowEntry(e domain.Entry) domain.DeliveryHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, e)
	if !e.Self || e.History {
		return nil
	}
	id := e.ID
	return delivery.HandleFunc(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.seen[id]++
	})
}

func (p *fakePresenter) SetTyping(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typing = v
}

func (p *fakePresenter) SetUsers(names []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = names
}

func (p *fakePresenter) ShowPresence(pr domain.Presence) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presence = append(p.presence, pr)
	p.banner = true
}

func (p *fakePresenter) ClearPresence() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = false
}

func (p *fakePresenter) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, msg)
}

func (p *fakePresenter) SetState(st domain.ConnState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, st)
}

func (p *fakePresenter) Entries() []domain.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Entry(nil), p.entries...)
}

func (p *fakePresenter) Seen(id domain.MessageID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen[id]
}

func (p *fakePresenter) Typing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typing
}

func (p *fakePresenter) Banner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

func (p *fakePresenter) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errors...)
}

func (p *fakePresenter) Users() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.users...)
}

// blockingHistory returns records only once release is closed.
type blockingHistory struct {
	records  []domain.HistoryRecord
	release  chan struct{}
	returned chan struct{}
}

func (h *blockingHistory) FetchHistory(context.Context, domain.RoomID, int) ([]domain.HistoryRecord, error) {
	if h.release != nil {
		<-h.release
	}
	if h.returned != nil {
		defer close(h.returned)
	}
	return h.records, nil
}

func (p *fakePresenter) States() []domain.ConnState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ConnState(nil), p.states...)
}
