package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bissquit/taskboard/internal/identity"
	"github.com/bissquit/taskboard/internal/identity/jwt"
	identitypostgres "github.com/bissquit/taskboard/internal/identity/postgres"
	"github.com/bissquit/taskboard/internal/pkg/postgres"
	"github.com/spf13/cobra"
)

func newSeedAdminCmd(opts *rootOptions) *cobra.Command {
	var input identity.SeedAdminInput

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account if the email is not registered yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.ConnectTimeout)
			defer cancel()

			db, err := postgres.Connect(ctx, postgres.Config{
				URL:             cfg.Database.URL,
				ConnectAttempts: cfg.Database.ConnectAttempts,
			})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			svc := identity.NewService(
				identitypostgres.NewRepository(db),
				jwt.NewAuthenticator(jwt.Config{SecretKey: cfg.JWT.SecretKey, TokenDuration: cfg.JWT.TokenDuration}),
				cfg.Auth.BcryptCost,
			)

			created, err := svc.SeedAdmin(ctx, input)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if created {
				slog.Info("admin account created", "email", input.Email)
			} else {
				slog.Info("account already exists, nothing to do", "email", input.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "Admin User", "admin display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
