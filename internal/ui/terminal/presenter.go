package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"cosmic/internal/domain"
	"cosmic/internal/protocol/envelope"
)

const (
	timeLayout   = "15:04:05"
	seenSnippet  = 24
	maxFileNames = 1000
)

// Presenter writes transcript lines to out. It is safe for concurrent use so
// the input loop can print alongside the session.
type Presenter struct {
	mu        sync.Mutex
	out       io.Writer
	theme     Theme
	downloads string
	log       zerolog.Logger

	typing bool
	banner string
}

// NewPresenter returns a Presenter. An empty downloads directory disables
// saving received files.
func NewPresenter(out io.Writer, theme Theme, downloads string, log zerolog.Logger) *Presenter {
	return &Presenter{out: out, theme: theme, downloads: downloads, log: log}
}

// ShowEntry prints one transcript line. Self-sent live messages get a handle
// that prints the seen notice.
func (p *Presenter) ShowEntry(e domain.Entry) domain.DeliveryHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	body := p.body(e)
	p.println(p.header(e) + "  " + body)

	if !e.Self || e.History {
		return nil
	}
	snippet := body
	if e.Kind == domain.EntryFile {
		snippet = e.Filename
	}
	return &seenHandle{p: p, snippet: truncate(snippet, seenSnippet)}
}

func (p *Presenter) header(e domain.Entry) string {
	name := CleanLine(e.From)
	style := p.theme.Peer
	if e.Self {
		name += " (you)"
		style = p.theme.Self
	}
	h := style.Render(name)
	if !e.Timestamp.IsZero() {
		h += p.theme.Meta.Render(" • " + e.Timestamp.Local().Format(timeLayout))
	}
	if e.History {
		h = p.theme.Meta.Render("↺ ") + h
	}
	return h
}

func (p *Presenter) body(e domain.Entry) string {
	if e.Placeholder {
		return p.theme.Meta.Render(e.Text)
	}
	if e.Kind == domain.EntryText {
		return Clean(e.Text)
	}

	name := CleanLine(e.Filename)
	media := envelope.MediaType(e.Data)
	if envelope.IsImage(e.Data) {
		return fmt.Sprintf("[image %s (%s)]", name, media)
	}
	if e.Self || p.downloads == "" {
		return fmt.Sprintf("[file %s (%s)]", name, media)
	}
	path, err := p.save(e.Filename, e.Data)
	if err != nil {
		p.log.Warn().Err(err).Str("file", name).Msg("could not save received file")
		return fmt.Sprintf("[file %s (%s)] not saved", name, media)
	}
	return fmt.Sprintf("[file %s] saved to %s", name, path)
}

// save writes a received data URI under the downloads directory without
// overwriting existing files.
func (p *Presenter) save(filename, dataURI string) (string, error) {
	_, data, err := envelope.ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p.downloads, 0o700); err != nil {
		return "", err
	}
	base := safeName(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 0; i < maxFileNames; i++ {
		name := base
		if i > 0 {
			name = stem + "-" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(p.downloads, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("no free name for %s", base)
}

func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(CleanLine(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "download"
	}
	return name
}

func (p *Presenter) SetTyping(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if visible && !p.typing {
		p.println(p.theme.Meta.Render("… someone is typing"))
	}
	p.typing = visible
}

func (p *Presenter) SetUsers(names []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clean := make([]string, 0, len(names))
	for _, n := range names {
		clean = append(clean, CleanLine(n))
	}
	list := strings.Join(clean, ", ")
	if list == "" {
		list = "—"
	}
	p.println(p.theme.Meta.Render("Active stars: " + list))
}

func (p *Presenter) ShowPresence(pr domain.Presence) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = CleanLine(pr.Name) + " " + CleanLine(string(pr.Event))
	p.println(p.theme.Banner.Render("🌠 " + p.banner))
}

// ClearPresence drops the banner. Printed lines stay in the scrollback.
func (p *Presenter) ClearPresence() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = ""
}

func (p *Presenter) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.theme.Error.Render("error: " + CleanLine(msg)))
}

func (p *Presenter) SetState(st domain.ConnState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.theme.Meta.Render("· " + st.String()))
}

// Info prints a local notice.
func (p *Presenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.theme.Meta.Render(msg))
}

// ToggleTheme switches between dark and light and returns the new name.
func (p *Presenter) ToggleTheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.theme.Name == "light" {
		p.theme = Dark()
	} else {
		p.theme = Light()
	}
	return p.theme.Name
}

// Typing reports whether the typing line is up.
func (p *Presenter) Typing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typing
}

// Banner returns the current presence banner, or "".
func (p *Presenter) Banner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

func (p *Presenter) println(s string) {
	if _, err := fmt.Fprintln(p.out, s); err != nil {
		p.log.Debug().Err(err).Msg("write terminal")
	}
}

type seenHandle struct {
	p       *Presenter
	snippet string
}

func (h *seenHandle) MarkSeen() {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()
	h.p.println(h.p.theme.Seen.Render("✨ seen") + h.p.theme.Meta.Render(" · "+h.snippet))
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

var _ domain.Presenter = (*Presenter)(nil)
