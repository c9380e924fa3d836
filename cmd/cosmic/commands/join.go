package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"cosmic/internal/attach"
	"cosmic/internal/crypto"
	"cosmic/internal/domain"
	"cosmic/internal/relay"
	"cosmic/internal/services/session"
	"cosmic/internal/ui/terminal"
)

var (
	name      string
	e2e       bool
	history   int
	downloads string
)

const joinHelp = "commands: /file <path>, /invite, /theme, /quit"

// join: open the room socket and chat over stdin until /quit, EOF or Ctrl-C.
func joinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a room and chat from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := roomArg()
			n := strings.TrimSpace(name)
			if n == "" {
				n = appCtx.Profile.DisplayName
			}
			s, err := crypto.ParseSuite(suite)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := appCtx.NewPresenter(downloads)
			sess := appCtx.NewSession(session.Config{
				Room:         r,
				Name:         n,
				Password:     password,
				E2E:          e2e,
				Suite:        s,
				HistoryLimit: history,
			}, p)
			if err := sess.Join(ctx); err != nil {
				return err
			}
			defer sess.Leave()

			theme := appCtx.Profile.Theme
			if err := appCtx.Remember(r, n, theme); err != nil {
				appCtx.Log.Warn().Err(err).Msg("could not save profile")
			}
			if fp := sess.Fingerprint(); fp != "" {
				p.Info("key fingerprint: " + fp)
			}
			p.Info(joinHelp)

			return chat(ctx, cmd.InOrStdin(), sess, p, r, n)
		},
	}
	cmd.Flags().StringVar(&room, "room", "", "room name or invite link (default from profile)")
	cmd.Flags().StringVar(&name, "name", "", "display name (default from profile)")
	cmd.Flags().StringVar(&password, "password", "", "room password; required with --e2e")
	cmd.Flags().BoolVar(&e2e, "e2e", false, "encrypt messages and files with a key derived from the password")
	cmd.Flags().StringVar(&suite, "suite", string(crypto.SuiteAESGCM), "cipher suite (aes-gcm, chacha20poly1305)")
	cmd.Flags().IntVar(&history, "history", session.DefaultHistoryLimit, "history records to load on join; negative disables")
	cmd.Flags().StringVar(&downloads, "downloads", "", "directory for received files (default: not saved)")
	return cmd
}

// roomArg resolves --room, a room name or invite link, falling back to the
// profile.
func roomArg() domain.RoomID {
	if r := relay.RoomFromInvite(room); r != "" {
		return r
	}
	return appCtx.Profile.RoomID
}

// chat feeds stdin lines to the session until it closes.
func chat(ctx context.Context, in io.Reader, sess *session.Service, p *terminal.Presenter, r domain.RoomID, n string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-sess.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sess.Done():
			err := sess.Err()
			if relay.IsNormalClose(err) {
				p.Info("the server closed the room connection")
				return nil
			}
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleLine(sess, p, r, n, line); quit {
				return nil
			}
		}
	}
}

func handleLine(sess *session.Service, p *terminal.Presenter, r domain.RoomID, n, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "":
		return false
	case "/quit":
		return true
	case "/invite":
		p.Info(appCtx.Endpoints.InviteURL(r) + "  (share the password separately)")
	case "/theme":
		theme := p.ToggleTheme()
		if err := appCtx.Remember(r, n, theme); err != nil {
			appCtx.Log.Warn().Err(err).Msg("could not save profile")
		}
		p.Info("theme: " + theme)
	case "/file":
		a, err := attach.Load(strings.TrimSpace(arg))
		if err == nil {
			err = sess.SendFile(a)
		}
		if err != nil {
			if errors.Is(err, attach.ErrTooLarge) {
				p.ShowError("file too large; the limit is 2 MiB")
			} else {
				p.ShowError(fmt.Sprintf("file: %v", err))
			}
		}
	default:
		if strings.HasPrefix(cmd, "/") {
			p.Info(joinHelp)
			return false
		}
		sess.SendTyping()
		sess.SendText(line)
	}
	return false
}
