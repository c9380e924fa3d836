package commands

import (
	"github.com/spf13/cobra"

	"cosmic/internal/app"
)

var (
	home      string
	serverURL string
	logLevel  string
	appCtx    *app.Wire

	room     string
	password string
	suite    string
)

func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "cosmic",
		Short:        "Terminal client for cosmic room chat",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			w, err := app.NewWire(app.Config{
				Home:      home,
				ServerURL: serverURL,
				LogLevel:  logLevel,
				Out:       cmd.OutOrStdout(),
				LogOut:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			appCtx = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.cosmic)")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "chat server base URL (default from profile, else "+app.DefaultServerURL+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(joinCmd(), inviteCmd(), fingerprintCmd())
	return root
}
