package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
)

func newCharityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charity",
		Short: "Manage charities",
	}

	cmd.AddCommand(
		newCharityListCmd(app),
		newCharityInspectCmd(app),
		newCharityCreateCmd(app),
		newCharityTransferCmd(app),
	)

	return cmd
}

func newCharityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List charities",
		RunE: func(cmd *cobra.Command, args []string) error {
			charities, err := app.API.ListCharities(context.Background())
			if err != nil {
				return err
			}
			if len(charities) == 0 {
				fmt.Println("No charities found.")
				return nil
			}

			rows := make([][]string, 0, len(charities))
			for _, c := range charities {
				multisig := formatter.Dim("off")
				if c.IsMultiSig {
					multisig = formatter.StyleGreen.Render(fmt.Sprintf("%d-of-%d", c.RequiredSignatures, len(c.Cosigners)+1))
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(c.ID), 10),
					c.Name,
					c.Category,
					formatter.Address(c.WalletAddress),
					multisig,
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "CATEGORY", "WALLET", "MULTISIG"}, rows))
			return nil
		},
	}
}

func newCharityInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show charity details, cosigners, and budget categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			ctx := context.Background()

			c, err := app.API.GetCharity(ctx, charityID)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(c.Name))
			if c.Description != "" {
				fmt.Println(c.Description)
			}
			fmt.Printf("%s %s\n", formatter.Dim("Wallet:"), c.WalletAddress)
			fmt.Printf("%s %s\n", formatter.Dim("Explorer:"), app.Ledger.AccountExplorerURL(c.WalletAddress))
			if bal, err := app.Ledger.NativeBalance(ctx, c.WalletAddress); err == nil {
				fmt.Printf("%s %s\n", formatter.Dim("Balance:"), formatter.Amount(bal))
			}
			if c.IsMultiSig {
				fmt.Printf("%s %d signatures required\n", formatter.Dim("Multi-sig:"), c.RequiredSignatures)
			}

			if len(c.Cosigners) > 0 {
				fmt.Println()
				fmt.Println(formatter.Header("Cosigners"))
				rows := make([][]string, 0, len(c.Cosigners))
				for _, cs := range c.Cosigners {
					primary := ""
					if cs.IsPrimary {
						primary = formatter.StylePurple.Render("primary")
					}
					rows = append(rows, []string{
						strconv.FormatUint(uint64(cs.ID), 10),
						cs.Email,
						primary,
					})
				}
				fmt.Print(formatter.RenderTable([]string{"ID", "EMAIL", ""}, rows))
			}

			if len(c.BudgetCategories) > 0 {
				fmt.Println()
				fmt.Println(formatter.Header("Budget"))
				rows := make([][]string, 0, len(c.BudgetCategories))
				for _, bc := range c.BudgetCategories {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(bc.ID), 10),
						bc.Name,
						fmt.Sprintf("%.0f%%", bc.Allocation),
						fmt.Sprintf("%.2f", bc.Spent),
					})
				}
				fmt.Print(formatter.RenderTable([]string{"ID", "CATEGORY", "ALLOCATION", "SPENT"}, rows))
			}
			return nil
		},
	}
}

func newCharityCreateCmd(app *App) *cobra.Command {
	var name, description, category, website, imageURL string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new charity with a funded ledger wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			ctx := context.Background()

			created, err := app.API.CreateCharity(ctx, api.CreateCharityInput{
				Name:        name,
				Description: description,
				Category:    category,
				Website:     website,
				ImageURL:    imageURL,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created charity %s [%d]\n", created.Name, created.ID)
			if created.WalletAddress != "" {
				fmt.Printf("%s %s\n", formatter.Dim("Wallet:"), created.WalletAddress)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Charity name")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&category, "category", "", "Charity category (e.g. Health, Education)")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")
	cmd.Flags().StringVar(&imageURL, "image", "", "Image URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newCharityTransferCmd(app *App) *cobra.Command {
	var newOwnerEmail string

	cmd := &cobra.Command{
		Use:   "transfer ID",
		Short: "Transfer charity ownership to another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			updated, err := app.API.TransferOwnership(context.Background(), charityID, newOwnerEmail)
			if err != nil {
				return err
			}
			fmt.Printf("Transferred %s to %s\n", updated.Name, newOwnerEmail)
			return nil
		},
	}

	cmd.Flags().StringVar(&newOwnerEmail, "to", "", "Email of the new owner")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
