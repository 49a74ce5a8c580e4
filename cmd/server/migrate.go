package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
)

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect the schema migrations embedded in the binary.`,
	}

	cmd.AddCommand(
		newMigrationCmd("up", "Apply all pending migrations", func(cmd *cobra.Command, m *postgres.Migrator) error {
			return m.Up(cmd.Context())
		}),
		newMigrationCmd("down", "Roll back the latest migration", func(cmd *cobra.Command, m *postgres.Migrator) error {
			return m.Down(cmd.Context())
		}),
		newMigrationCmd("status", "Show migration status", func(cmd *cobra.Command, m *postgres.Migrator) error {
			return m.Status(cmd.Context())
		}),
		newMigrationCmd("version", "Print the current schema version", func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, err := m.Version(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("schema version: %d\n", v)
			return nil
		}),
	)

	return cmd
}

func newMigrationCmd(
	use, short string,
	run func(cmd *cobra.Command, m *postgres.Migrator) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}

			// Migration output goes to stderr so "version" stays scriptable.
			level, _ := logger.ParseLevel(cfg.Server.LogLevel)
			log := logger.New(os.Stderr, level)

			m, err := postgres.NewMigrator(cfg.Database.URL, log)
			if err != nil {
				return err
			}

			if err := run(cmd, m); err != nil {
				log.Error("migration command failed",
					slog.String("command", use),
					slog.String("error", err.Error()))
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}
