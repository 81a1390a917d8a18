package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/picshelf/picshelf"
	"github.com/picshelf/picshelf/config"
	"github.com/picshelf/picshelf/database"
)

var addUserCmd = &cobra.Command{
	Use:   "adduser <username>",
	Short: "Create a gallery user",
	Long: `Create a user that can log in to the gallery.

There is no self-service registration; accounts are seeded with this
command. The password is read from the --password flag, the
PICSHELF_SEED_PASSWORD environment variable, or an interactive prompt,
in that order.

Examples:
  # Prompt for the password
  picshelf adduser alice

  # Non-interactive seeding
  PICSHELF_SEED_PASSWORD=s3cret picshelf adduser alice`,
	Args: cobra.ExactArgs(1),
	RunE: runAddUser,
}

var addUserPassword string

func init() {
	addUserCmd.Flags().StringVarP(&addUserPassword, "password", "p", "", "password for the new user (prompted if empty)")
	rootCmd.AddCommand(addUserCmd)
}

func runAddUser(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	username := args[0]

	password, err := resolvePassword()
	if err != nil {
		return err
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	issuer, err := picshelf.NewTokenIssuer(picshelf.TokenConfig{
		Secret:    cfg.Auth.JWTSecret,
		Algorithm: cfg.Auth.JWTAlgorithm,
	})
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	auth := picshelf.NewAuthService(repo, issuer)

	user, err := auth.Register(ctx, username, password)
	if err != nil {
		if errors.Is(err, picshelf.ErrConflict) {
			return fmt.Errorf("user %s already exists", username)
		}
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("user created", "id", user.ID, "username", user.Username)
	return nil
}

func resolvePassword() (string, error) {
	if addUserPassword != "" {
		return addUserPassword, nil
	}

	if env := os.Getenv("PICSHELF_SEED_PASSWORD"); env != "" {
		return env, nil
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password cannot be empty")
			}
			return nil
		},
	}

	password, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return password, nil
}
