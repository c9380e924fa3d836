package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServerURL is used when neither a flag nor the profile names a server.
const DefaultServerURL = "http://127.0.0.1:8000"

// DefaultHome returns $HOME/.cosmic.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".cosmic"), nil
}

// NewLogger returns a console logger at the named level.
func NewLogger(level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.LevelWarnValue
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
