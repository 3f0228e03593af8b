package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/bootstrap"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage user roles",
}

var roleSetCmd = &cobra.Command{
	Use:   "set <uid> <role>",
	Short: "Assign a role (Kasubag, Petugas or User) to a user id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(args[1])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		backends, err := bootstrap.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()

		if err := backends.Roles.SetRole(ctx, args[0], role); err != nil {
			return fmt.Errorf("failed to set role: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
		return nil
	},
}

var roleGetCmd = &cobra.Command{
	Use:   "get <uid>",
	Short: "Show the stored role of a user id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backends, err := bootstrap.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()

		role, err := backends.Roles.GetRole(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to read role: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), role)
		return nil
	},
}

func init() {
	roleCmd.AddCommand(roleSetCmd)
	roleCmd.AddCommand(roleGetCmd)
}

func parseRole(raw string) (domain.Role, error) {
	for _, role := range []domain.Role{domain.RoleKasubag, domain.RolePetugas, domain.RoleUser} {
		if strings.EqualFold(raw, string(role)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q: want Kasubag, Petugas or User", raw)
}
