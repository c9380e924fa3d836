// Package app wires application dependencies for the CLI.
//
// It builds the logger, profile store, server endpoints, WebSocket dialer,
// history client and terminal presenter from Config, exposing them via the
// Wire struct so commands can assemble a room session.
package app
