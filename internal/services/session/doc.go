// Package session runs one room connection.
//
// Engine turns inbound envelopes into effects without touching the network or
// the screen, which keeps the dispatch rules testable on their own. Service
// owns the lifecycle (Disconnected, Connecting, Open, Closed), the transport
// and a single event loop goroutine on which every effect is applied. The
// reader goroutine, timers and the history fetch only post closures into that
// loop, so protocol state needs no locks.
package session
