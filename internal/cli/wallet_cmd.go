package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
)

func newWalletCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage local ledger wallets",
	}

	cmd.AddCommand(
		newWalletCreateCmd(app),
		newWalletListCmd(app),
		newWalletBalanceCmd(app),
		newWalletHistoryCmd(app),
		newWalletForgetCmd(app),
	)

	return cmd
}

func newWalletCreateCmd(app *App) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and fund a new testnet account, storing its key locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			account, err := app.Ledger.CreateAccount(ctx)
			if err != nil {
				return err
			}
			if err := app.Keys.SaveKey(ctx, account.PublicKey, account.SecretKey, label); err != nil {
				return fmt.Errorf("account %s funded but key not saved: %w", account.PublicKey, err)
			}

			fmt.Printf("Created account %s\n", account.PublicKey)
			fmt.Printf("%s %s\n", formatter.Dim("Explorer:"), app.Ledger.AccountExplorerURL(account.PublicKey))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Label for the stored key")

	return cmd
}

func newWalletListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locally stored wallet keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := app.Keys.ListKeys(context.Background())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("No wallet keys stored.")
				return nil
			}

			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{
					formatter.Address(k.Address),
					k.Label,
					k.CreatedAt.Format("2006-01-02"),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ADDRESS", "LABEL", "CREATED"}, rows))
			return nil
		},
	}
}

func newWalletBalanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance ADDRESS",
		Short: "Show an account's native balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := app.Ledger.NativeBalance(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(formatter.Amount(balance))
			return nil
		},
	}
}

func newWalletHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ADDRESS",
		Short: "List an account's recent transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Ledger.Transactions(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No transactions found.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				status := formatter.StyleGreen.Render("ok")
				if !r.Successful {
					status = formatter.StyleRed.Render("failed")
				}
				rows = append(rows, []string{
					r.CreatedAt.Format("2006-01-02 15:04"),
					formatter.ShortHash(r.Hash),
					fmt.Sprintf("%d", r.Ledger),
					r.Memo,
					status,
				})
			}
			fmt.Print(formatter.RenderTable([]string{"DATE", "TX", "LEDGER", "MEMO", "STATUS"}, rows))
			return nil
		},
	}
}

func newWalletForgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget ADDRESS",
		Short: "Delete a stored wallet key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Keys.DeleteKey(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Forgot key for %s\n", args[0])
			return nil
		},
	}
}
