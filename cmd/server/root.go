package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/accounts-api/internal/config"
)

// configFile is the optional config file path shared by all subcommands.
var configFile string

// NewRootCmd creates the root command. Running it without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "accounts-api",
		Short:         "Account management API",
		Long:          `accounts-api stores user accounts with argon2id credential digests in PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().Bool("migrate", false, "apply pending migrations before serving")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadAppConfig loads configuration from the --config file when given,
// otherwise from the optional ./config.yaml and the environment.
func loadAppConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
