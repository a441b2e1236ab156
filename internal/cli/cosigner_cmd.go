package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCosignerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosigner",
		Short: "Manage a charity's cosigner registry",
	}

	cmd.AddCommand(
		newCosignerAddCmd(app),
		newCosignerRemoveCmd(app),
		newCosignerMultiSigCmd(app),
	)

	return cmd
}

func newCosignerAddCmd(app *App) *cobra.Command {
	var email, userID string
	var primary bool

	cmd := &cobra.Command{
		Use:   "add CHARITY",
		Short: "Authorize a new cosigner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			cs, err := app.Cosigners.Add(context.Background(), charityID, email, userID, primary)
			if err != nil {
				return err
			}
			fmt.Printf("Added cosigner %s [%d]\n", cs.Email, cs.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Cosigner email")
	cmd.Flags().StringVar(&userID, "user", "", "Cosigner user ID (optional)")
	cmd.Flags().BoolVar(&primary, "primary", false, "Mark as the primary cosigner")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newCosignerRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CHARITY COSIGNER",
		Short: "Revoke a cosigner's authority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			cosignerID, err := parseEntityID(args[1], "cosigner")
			if err != nil {
				return err
			}

			if err := app.Cosigners.Remove(context.Background(), charityID, cosignerID); err != nil {
				return err
			}
			fmt.Printf("Removed cosigner %d\n", cosignerID)
			return nil
		},
	}
}

func newCosignerMultiSigCmd(app *App) *cobra.Command {
	var enable, disable bool
	var required int

	cmd := &cobra.Command{
		Use:   "multisig CHARITY",
		Short: "Configure the multi-signature threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			if enable == disable {
				return fmt.Errorf("pass exactly one of --enable or --disable")
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			updated, err := app.Cosigners.UpdateMultiSig(context.Background(), charityID, enable, required)
			if err != nil {
				return err
			}
			if updated.IsMultiSig {
				fmt.Printf("Multi-sig enabled: %d signatures required\n", updated.RequiredSignatures)
			} else {
				fmt.Println("Multi-sig disabled: owner executes alone")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&enable, "enable", false, "Enable multi-signature approvals")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable multi-signature approvals")
	cmd.Flags().IntVar(&required, "required", 2, "Signatures required to approve a spend")

	return cmd
}
