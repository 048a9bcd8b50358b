// Command create-user adds a principal that can log in to the API and,
// optionally, its profile. With --reset-password it changes the password of
// an existing principal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seedtrial/seedtrial/config"
	"github.com/seedtrial/seedtrial/internal/core/auth"
	"github.com/seedtrial/seedtrial/internal/core/profile"
	"github.com/seedtrial/seedtrial/internal/logging"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var (
		req   auth.CreateUserRequest
		role          string
		phone         string
		resetPassword bool
	)

	cmd := &cobra.Command{
		Use:          "create-user",
		Short:        "Create a user account",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("SEEDTRIAL_PASSWORD")
			}
			if req.Username == "" || req.Password == "" {
				return errors.New("--username and a password (--password or SEEDTRIAL_PASSWORD) are required")
			}

			cfg := config.Load()
			logger := logging.New(&cfg.Log)

			db, err := postgres.NewClient(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if _, err := db.Migrate(ctx); err != nil {
				return err
			}

			authService := auth.NewService(auth.NewRepository(db), &cfg.JWT)
			if resetPassword {
				user, err := authService.SetPassword(ctx, req.Username, req.Password)
				if err != nil {
					return fmt.Errorf("reset password of %q: %w", req.Username, err)
				}
				logger.Info("password reset", "username", user.Username, "id", user.ID)
				return nil
			}

			user, err := authService.CreateUser(ctx, &req)
			if err != nil {
				return fmt.Errorf("create user %q: %w", req.Username, err)
			}
			logger.Info("created user", "username", user.Username, "id", user.ID)

			if role == "" {
				return nil
			}
			// Derived views are not needed to create a profile.
			profiles := profile.NewService(profile.NewRepository(db), nil, nil)
			p, err := profiles.Create(ctx, user.ID, &profile.CreateProfileRequest{Role: role, PhoneNumber: phone})
			if err != nil {
				return fmt.Errorf("create profile: %w", err)
			}
			logger.Info("created profile", "profile_id", p.ProfileID, "role", p.Role)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Username, "username", "", "login name")
	flags.StringVar(&req.Password, "password", "", "password (defaults to $SEEDTRIAL_PASSWORD)")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.FirstName, "first-name", "", "first name")
	flags.StringVar(&req.LastName, "last-name", "", "last name")
	flags.StringVar(&role, "role", "", "also create a profile with this role")
	flags.StringVar(&phone, "phone", "", "profile phone number")
	flags.BoolVar(&resetPassword, "reset-password", false, "replace the password of an existing user instead")
	return cmd
}
