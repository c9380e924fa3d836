package relay

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cosmic/internal/domain"
)

// Endpoints derives server URLs from a base such as "http://127.0.0.1:8000".
type Endpoints struct {
	base *url.URL
}

// ParseEndpoints validates base. Only http and https bases are accepted.
func ParseEndpoints(base string) (Endpoints, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return Endpoints{}, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("server url %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("server url %q: missing host", base)
	}
	u.RawQuery, u.Fragment = "", ""
	return Endpoints{base: u}, nil
}

// Base returns the normalised base URL.
func (e Endpoints) Base() string { return e.base.String() }

func (e Endpoints) join(scheme string, segs ...string) *url.URL {
	u := *e.base
	u.Scheme = scheme
	esc := make([]string, len(segs))
	for i, s := range segs {
		esc[i] = url.PathEscape(s)
	}
	u.Path = e.base.Path + "/" + strings.Join(segs, "/")
	u.RawPath = e.base.EscapedPath() + "/" + strings.Join(esc, "/")
	return &u
}

// WebSocketURL is the room socket. The password travels as a query parameter
// (empty when unset); the server uses it only to gate entry.
func (e Endpoints) WebSocketURL(room domain.RoomID, name, password string) string {
	scheme := "ws"
	if e.base.Scheme == "https" {
		scheme = "wss"
	}
	u := e.join(scheme, "ws", room.String())
	q := url.Values{}
	q.Set("name", name)
	q.Set("password", password)
	u.RawQuery = q.Encode()
	return u.String()
}

// HistoryURL is the recent-records endpoint for room.
func (e Endpoints) HistoryURL(room domain.RoomID, limit int) string {
	u := e.join(e.base.Scheme, "history", room.String())
	if limit > 0 {
		u.RawQuery = "limit=" + strconv.Itoa(limit)
	}
	return u.String()
}

// InviteURL is the shareable room link. It never carries the password.
func (e Endpoints) InviteURL(room domain.RoomID) string {
	u := *e.base
	u.Path = e.base.Path + "/"
	u.RawPath = ""
	u.RawQuery = url.Values{"room": {room.String()}}.Encode()
	return u.String()
}

// RoomFromInvite accepts either a room name or a link printed by InviteURL
// and returns the room. A link without a room parameter yields "".
func RoomFromInvite(s string) domain.RoomID {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.RoomID(s)
	}
	return domain.RoomID(strings.TrimSpace(u.Query().Get("room")))
}
