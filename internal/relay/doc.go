// Package relay talks to the chat server.
//
// The server is a dumb relay: it fans WebSocket frames out to everyone in a
// room and keeps a short history that can be fetched over HTTP. This package
// offers the two clients the session needs:
//   - WSDialer opens the room socket (domain.Dialer / domain.Conn).
//   - HistoryClient fetches recent room records (domain.HistoryClient).
//
// Endpoints derives every server URL from the configured base so the rest of
// the program never builds paths by hand. Non-2xx statuses are returned as
// errors carrying the URL and status text.
package relay
