package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/persistence"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to the Postgres report store",
	Long: `Apply every *.sql file in the migrations directory, in name order, to the
database named by POSTGRES_DSN. Migrations are idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != config.StorePostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s (current: %s)", config.StorePostgres, cfg.Store.Driver)
		}
		dir := migrationsDir
		if dir == "" {
			dir = cfg.Postgres.MigrationsDir
		}

		ctx := cmd.Context()
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("failed to connect postgres: %w", err)
		}
		defer pg.Close()

		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrations from %s applied\n", dir)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (default POSTGRES_MIGRATIONS_DIR)")
}
