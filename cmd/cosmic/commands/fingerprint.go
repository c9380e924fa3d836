package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cosmic/internal/crypto"
)

// fingerprint: compare out of band to confirm everyone typed the same password.
func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the room key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := roomArg()
			if r == "" {
				return fmt.Errorf("--room required")
			}
			if password == "" {
				return fmt.Errorf("--password required")
			}
			s, err := crypto.ParseSuite(suite)
			if err != nil {
				return err
			}
			key, err := crypto.DeriveKeyContext(cmd.Context(), s, password, r.String())
			if err != nil {
				return err
			}
			defer key.Destroy()
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", crypto.Fingerprint(key))
			return nil
		},
	}
	cmd.Flags().StringVar(&room, "room", "", "room name or invite link (default from profile)")
	cmd.Flags().StringVar(&password, "password", "", "shared room password")
	cmd.Flags().StringVar(&suite, "suite", string(crypto.SuiteAESGCM), "cipher suite (aes-gcm, chacha20poly1305)")
	return cmd
}
