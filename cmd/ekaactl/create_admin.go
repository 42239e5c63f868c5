package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/indexes"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
	adminRole     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back-office admin account",
	Long: `Create an active admin account in the configured database.

Examples:
  ekaactl create-admin --name "Office" --email office@ekaa.co.in --password s3cret
  ekaactl create-admin --email owner@ekaa.co.in --password s3cret --role superadmin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(adminName, adminEmail, adminPassword, adminRole)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client, db, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		// The unique email index must exist before the insert.
		if err := indexes.EnsureAll(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}

		created, err := adminstore.New(db).Create(ctx, a)
		if errors.Is(err, adminstore.ErrDuplicateEmail) {
			return fmt.Errorf("an admin with email %s already exists", a.Email)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", created.Role, created.Email, created.ID.Hex())
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password (required)")
	createAdminCmd.Flags().StringVar(&adminRole, "role", models.RoleAdmin, "admin or superadmin")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

// newAdmin validates the flags and hashes the password.
func newAdmin(name, email, password, role string) (models.Admin, error) {
	email = strings.TrimSpace(email)
	if !inputval.IsValidEmail(email) {
		return models.Admin{}, fmt.Errorf("invalid email %q", email)
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return models.Admin{}, fmt.Errorf("role must be %s or %s", models.RoleAdmin, models.RoleSuperAdmin)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	return models.Admin{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}
