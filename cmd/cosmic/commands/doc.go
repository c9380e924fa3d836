// Package commands defines the cosmic CLI and wires dependencies for subcommands.
//
// Commands
//
//   - join         Join a room and chat from the terminal
//   - invite       Print a shareable room link (never includes the password)
//   - fingerprint  Print the room key fingerprint for a password
//
// # Implementation
//
// The root command loads the saved profile and builds the dependency graph
// (logger, profile store, endpoints, socket dialer, history client) before
// any subcommand runs. Flags left empty fall back to the profile.
package commands
