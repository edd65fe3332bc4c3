// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/playbookshq/playbooks/internal/config"
	"github.com/playbookshq/playbooks/internal/logging"
)

// NewRootCmd creates the root command for the Playbooks CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbooks",
		Short: "Playbooks - operational tooling for the Playbooks app",
		Long: `Playbooks bootstraps and administers the Playbooks application
database: schema migration, admin seeding, and user management.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().String("database-path", "", "SQLite database file path")
	cmd.PersistentFlags().String("session-path", "", "persisted session record path")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// loadConfig resolves the effective configuration for a command invocation
// and installs the default logger from it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, explicit, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}

	logging.SetDefault(logging.Options{
		Service: "playbooks",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})
	return cfg, nil
}
