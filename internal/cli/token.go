package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with local development tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <uid> [email]",
	Short: "Sign a bearer token accepted when AUTH_PROVIDER=jwt",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.Provider != config.AuthProviderJWT {
			logger.Warn("server is not configured for local tokens; the token will be rejected until AUTH_PROVIDER=jwt")
		}
		email := ""
		if len(args) > 1 {
			email = args[1]
		}

		verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
		token, expiresAt, err := verifier.IssueToken(args[0], email)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
}
