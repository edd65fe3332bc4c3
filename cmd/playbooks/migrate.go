// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/database"
	"github.com/playbookshq/playbooks/pkg/errutil"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and seed admin accounts",
		Long: `Apply the application schema to the SQLite database, then seed the
well-known admin accounts with a freshly computed password hash. The run
aborts at the first failing statement.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, schemaPath)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file path (defaults to the embedded schema)")

	return cmd
}

func runMigrate(cmd *cobra.Command, schemaPath string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	schema := database.DefaultSchema()
	if schemaPath != "" {
		cmd.Println("Reading schema file...")
		schema, err = database.ReadSchemaFile(schemaPath)
		if err != nil {
			errutil.LogError(slog.Default(), "migration failed", err)
			return err
		}
	}

	cmd.Println("Opening database...")
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		errutil.LogError(slog.Default(), "migration failed", err)
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("error closing database", "error", closeErr)
		}
	}()

	cmd.Println("Running migration...")
	runner := database.NewRunner(db, auth.NewArgon2idHasher(), slog.Default())
	if err := runner.Run(cmd.Context(), schema); err != nil {
		errutil.LogError(slog.Default(), "migration failed", err)
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	cmd.Println("Database migration completed successfully")
	return nil
}
