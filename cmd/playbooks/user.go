// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package main

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/auth/sqlite"
	"github.com/playbookshq/playbooks/internal/database"
)

// NewUserCmd creates the user subcommand group.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserAddCmd())

	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add EMAIL",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, args[0], password, role)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&role, "role", "user", "account role (admin or user)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runUserAdd(cmd *cobra.Command, email, password, roleName string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	role, err := auth.ParseRole(roleName)
	if err != nil {
		return oops.Code("USER_ADD_FAILED").With("role", roleName).Wrap(err)
	}

	hash, err := auth.NewArgon2idHasher().Hash(password)
	if err != nil {
		return oops.Code("USER_ADD_FAILED").Wrap(err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	user := &auth.UserRecord{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := sqlite.NewUserRepository(db).Create(cmd.Context(), user); err != nil {
		return err
	}

	cmd.Printf("Created %s account %s (%s)\n", role, email, user.ID)
	return nil
}
