package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// invite: print the room link. Share the password separately.
func inviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Print a shareable link for a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := roomArg()
			if r == "" {
				return fmt.Errorf("--room required")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, appCtx.Endpoints.InviteURL(r))
			fmt.Fprintln(out, "Share the password separately.")
			return nil
		},
	}
	cmd.Flags().StringVar(&room, "room", "", "room name or invite link (default from profile)")
	return cmd
}
