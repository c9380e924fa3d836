package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic/internal/domain"
	"cosmic/internal/relay"
)

// newServer mimics the chat server's two routes: an echo socket that refuses
// the wrong password, and a fixed history listing.
func newServer(t *testing.T) (relay.Endpoints, *httptest.Server) {
	t.Helper()
	r := chi.NewRouter()
	upgrader := websocket.Upgrader{}

	r.Get("/ws/{room}", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("password") == "wrong" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		c, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer c.Close()
		hello, _ := json.Marshal(map[string]any{"type": "users", "list": []string{req.URL.Query().Get("name")}})
		_ = c.WriteMessage(websocket.TextMessage, hello)
		for {
			kind, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			_ = c.WriteMessage(kind, msg)
		}
	})
	r.Get("/history/{room}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "room") != "orbit" {
			http.NotFound(w, req)
			return
		}
		assert.Equal(t, "2", req.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"messages":[
			{"room_id":"orbit","sender":"A","mtype":"message","message":"hi","filename":null,"encrypted":0,"ts":"2025-01-01T00:00:00.000Z"},
			{"room_id":"orbit","sender":"B","mtype":"file","message":"data:text/plain;base64,aGk=","filename":"a.txt","encrypted":1,"ts":"2025-01-01T00:00:01.000Z"}
		]}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	ep, err := relay.ParseEndpoints(srv.URL)
	require.NoError(t, err)
	return ep, srv
}

func TestHistoryClient_Fetch(t *testing.T) {
	ep, srv := newServer(t)
	hc := relay.NewHistoryClient(ep, srv.Client())

	recs, err := hc.FetchHistory(context.Background(), "orbit", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Sender)
	assert.False(t, recs[0].IsFile())
	assert.True(t, recs[1].IsFile())
	assert.Equal(t, "a.txt", recs[1].Filename)
	assert.Equal(t, 1, recs[1].Encrypted)
}

func TestHistoryClient_Status(t *testing.T) {
	ep, srv := newServer(t)
	hc := relay.NewHistoryClient(ep, srv.Client())

	_, err := hc.FetchHistory(context.Background(), "nowhere", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestWSDialer_RoundTrip(t *testing.T) {
	ep, _ := newServer(t)
	d := relay.NewWSDialer(ep, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := d.Dial(ctx, "orbit", "A", "secret42")
	require.NoError(t, err)
	defer conn.Close()

	first, err := conn.ReadFrame()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"users","list":["A"]}`, string(first))

	require.NoError(t, conn.WriteFrame(ctx, []byte(`{"type":"typing"}`)))
	echo, err := conn.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"typing"}`, string(echo))

	require.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
	_, err = conn.ReadFrame()
	assert.Error(t, err)
}

func TestWSDialer_Rejected(t *testing.T) {
	ep, _ := newServer(t)
	d := relay.NewWSDialer(ep, zerolog.Nop())

	_, err := d.Dial(context.Background(), "orbit", "A", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

var _ domain.Conn = (*relay.WSConn)(nil)

func TestIsNormalClose(t *testing.T) {
	wrapped := fmt.Errorf("transport read: %w", &websocket.CloseError{Code: websocket.CloseNormalClosure})
	assert.True(t, relay.IsNormalClose(wrapped))
	assert.False(t, relay.IsNormalClose(&websocket.CloseError{Code: websocket.CloseAbnormalClosure}))
	assert.False(t, relay.IsNormalClose(errors.New("eof")))
	assert.False(t, relay.IsNormalClose(nil))
}
