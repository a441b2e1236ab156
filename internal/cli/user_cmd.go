package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the current user",
	}

	cmd.AddCommand(
		newUserRegisterCmd(app),
		newUserWhoamiCmd(app),
	)

	return cmd
}

func newUserRegisterCmd(app *App) *cobra.Command {
	var userID, email string
	var charityOwner bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user with the persistence service",
		RunE: func(cmd *cobra.Command, args []string) error {
			role := domain.RoleUser
			if charityOwner {
				role = domain.RoleCharityOwner
			}

			u, err := app.API.CreateUser(context.Background(), api.CreateUserInput{
				FirebaseID: userID,
				Email:      email,
				Role:       string(role),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Registered %s [%d]\n", u.Email, u.ID)
			if u.StellarWallet.PublicKey != "" {
				fmt.Printf("%s %s\n", formatter.Dim("Wallet:"), u.StellarWallet.PublicKey)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "id", "", "Opaque identity (Firebase ID)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().BoolVar(&charityOwner, "charity-owner", false, "Register as a charity owner")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the configured identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			u := app.User
			fmt.Printf("%s [%d] %s\n", u.Email, u.ID, formatter.Dim(string(u.Role)))
			if u.StellarWallet.PublicKey != "" {
				fmt.Printf("%s %s\n", formatter.Dim("Wallet:"), u.StellarWallet.PublicKey)
			}
			return nil
		},
	}
}
