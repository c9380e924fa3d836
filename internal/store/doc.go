// Package store provides file-based persistence for the client's local state.
//
// Only the last-used profile (server, room, display name, theme) is kept; the
// room password and any derived key are never written. Files live under the
// configured home directory, are written atomically via temp-file-then-rename
// with mode 0600, and all methods are concurrency-safe via internal locking.
package store
