package app

import (
	"io"
	"net/http"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string       // config directory, e.g. $HOME/.cosmic
	ServerURL string       // chat server base URL; empty means the profile's, then DefaultServerURL
	LogLevel  string       // zerolog level name; empty means "warn"
	Out       io.Writer    // transcript output; defaults to os.Stdout
	LogOut    io.Writer    // log output; defaults to os.Stderr
	HTTP      *http.Client // optional; defaults to http.DefaultClient
}
