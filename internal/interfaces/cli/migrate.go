package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres"
)

var migrateSteps int

// NewMigrateCmd creates the migrate command group for managing the cases
// schema.
func NewMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config.Database
			if err := postgres.RunMigrations(postgres.BuildDSN(cfg), cfg.MigrationPath); err != nil {
				return err
			}
			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config.Database
			if err := postgres.RollbackMigration(postgres.BuildDSN(cfg), cfg.MigrationPath, migrateSteps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", migrateSteps))
			return nil
		},
	}
	downCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config.Database
			version, dirty, err := postgres.MigrationStatus(postgres.BuildDSN(cfg), cfg.MigrationPath)
			if err != nil {
				return err
			}
			return PrintResult(cmd, map[string]interface{}{
				"version": version,
				"dirty":   dirty,
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}
