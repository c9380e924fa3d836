package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cosmic/internal/domain"
)

const (
	// MaxFrameBytes bounds a single inbound frame. It fits a 2 MiB file after
	// two rounds of base64.
	MaxFrameBytes = 4 << 20

	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// WSDialer opens room sockets.
type WSDialer struct {
	Endpoints Endpoints
	Dialer    *websocket.Dialer
	Log       zerolog.Logger
}

func NewWSDialer(ep Endpoints, log zerolog.Logger) *WSDialer {
	return &WSDialer{Endpoints: ep, Dialer: websocket.DefaultDialer, Log: log}
}

// Dial connects to room as name. A handshake rejected by the server is
// reported with its HTTP status.
func (d *WSDialer) Dial(ctx context.Context, room domain.RoomID, name, password string) (domain.Conn, error) {
	u := d.Endpoints.WebSocketURL(room, name, password)
	ws, resp, err := d.Dialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay dial %s: %s", room, resp.Status)
		}
		return nil, fmt.Errorf("relay dial %s: %w", room, err)
	}
	d.Log.Debug().Str("room", room.String()).Msg("socket open")
	return newWSConn(ws, d.Log), nil
}

// WSConn is one open room socket. ReadFrame must have a single caller;
// WriteFrame may be called from any goroutine.
type WSConn struct {
	ws  *websocket.Conn
	log zerolog.Logger

	wmu  sync.Mutex
	done chan struct{}
	once sync.Once
}

func newWSConn(ws *websocket.Conn, log zerolog.Logger) *WSConn {
	c := &WSConn{ws: ws, log: log, done: make(chan struct{})}
	ws.SetReadLimit(MaxFrameBytes)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.pingLoop()
	return c
}

// ReadFrame blocks for the next text frame.
func (c *WSConn) ReadFrame() ([]byte, error) {
	for {
		kind, payload, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return payload, nil
		}
		c.log.Debug().Int("kind", kind).Msg("ignoring non-text frame")
	}
}

// WriteFrame sends one text frame.
func (c *WSConn) WriteFrame(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.ws.SetWriteDeadline(deadline)
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

// Close sends a close frame and releases the socket. It is idempotent.
func (c *WSConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.ws.Close()
	})
	return err
}

func (c *WSConn) pingLoop() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Debug().Err(err).Msg("ping")
				return
			}
		}
	}
}

// IsNormalClose reports whether err is the peer closing the socket cleanly.
func IsNormalClose(err error) bool {
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
}

var (
	_ domain.Dialer = (*WSDialer)(nil)
	_ domain.Conn   = (*WSConn)(nil)
)

