package app

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"cosmic/internal/domain"
	"cosmic/internal/relay"
	"cosmic/internal/services/session"
	"cosmic/internal/store"
	"cosmic/internal/ui/terminal"
)

// Wire bundles the stores, clients and logger for the CLI.
type Wire struct {
	Log       zerolog.Logger
	Profiles  *store.ProfileFileStore
	Profile   domain.Profile // last saved profile, zero if none
	Endpoints relay.Endpoints
	Dialer    *relay.WSDialer
	History   *relay.HistoryClient
	HTTP      *http.Client

	cfg Config
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log, err := NewLogger(cfg.LogLevel, cfg.LogOut)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	// File-based profile store
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	profiles := store.NewProfileFileStore(cfg.Home)
	profile, _, err := profiles.LoadProfile()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable profile")
		profile = domain.Profile{}
	}

	server := cfg.ServerURL
	if server == "" {
		server = profile.ServerURL
	}
	if server == "" {
		server = DefaultServerURL
	}
	ep, err := relay.ParseEndpoints(server)
	if err != nil {
		return nil, err
	}

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	return &Wire{
		Log:       log,
		Profiles:  profiles,
		Profile:   profile,
		Endpoints: ep,
		Dialer:    relay.NewWSDialer(ep, log),
		History:   relay.NewHistoryClient(ep, httpClient),
		HTTP:      httpClient,
		cfg:       cfg,
	}, nil
}

// NewPresenter returns a terminal presenter in the profile's theme.
func (w *Wire) NewPresenter(downloads string) *terminal.Presenter {
	return terminal.NewPresenter(w.cfg.Out, terminal.ThemeByName(w.Profile.Theme), downloads, w.Log)
}

// NewSession assembles a room session rendering to p.
func (w *Wire) NewSession(cfg session.Config, p domain.Presenter) *session.Service {
	return session.New(cfg, w.Dialer, p, w.Log, session.WithHistory(w.History))
}

// Remember saves the join defaults. The password is never stored.
func (w *Wire) Remember(room domain.RoomID, name, theme string) error {
	p := domain.Profile{
		ServerURL:   w.Endpoints.Base(),
		RoomID:      room,
		DisplayName: name,
		Theme:       theme,
	}
	if err := w.Profiles.SaveProfile(p); err != nil {
		return err
	}
	w.Profile = p
	return nil
}
