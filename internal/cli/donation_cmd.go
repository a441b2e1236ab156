package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
	"github.com/shivamnarkar47/ClearGive/internal/fund"
)

func newDonationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donation",
		Short: "Make donations and review donation history",
	}

	cmd.AddCommand(
		newDonationSendCmd(app),
		newDonationListCmd(app),
		newDonationHistoryCmd(app),
		newDonationTaxCmd(app),
	)

	return cmd
}

func newDonationSendCmd(app *App) *cobra.Command {
	var amount, message, category string

	cmd := &cobra.Command{
		Use:   "send CHARITY",
		Short: "Donate to a charity from your wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			result, err := app.Donations.Donate(context.Background(), fund.DonateRequest{
				CharityID: charityID,
				Amount:    amount,
				Message:   message,
				Category:  category,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Donated %s\n", formatter.Amount(amount))
			fmt.Printf("%s %s\n", formatter.Dim("Tx:"), app.Ledger.TransactionExplorerURL(result.TxHash))
			if result.Certificate != nil {
				fmt.Printf("%s %s\n", formatter.Dim("Certificate:"), result.Certificate.TokenID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount in XLM")
	cmd.Flags().StringVar(&message, "message", "", "Donation message (becomes the ledger memo)")
	cmd.Flags().StringVar(&category, "category", "", "Budget category to credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDonationListCmd(app *App) *cobra.Command {
	var charityID uint
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded donations, optionally filtered by charity or donor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}

			donations, err := app.Donations.List(context.Background(), fund.DonationFilter{
				CharityID: charityID,
				Mine:      mine,
			})
			if err != nil {
				return err
			}
			if len(donations) == 0 {
				fmt.Println("No donations recorded.")
				return nil
			}

			rows := make([][]string, 0, len(donations))
			for _, d := range donations {
				charity := ""
				if d.Charity != nil {
					charity = d.Charity.Name
				}
				rows = append(rows, []string{
					d.CreatedAt.Format("2006-01-02"),
					charity,
					formatter.Amount(d.Amount),
					string(d.Status),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"DATE", "CHARITY", "AMOUNT", "STATUS"}, rows))
			return nil
		},
	}

	cmd.Flags().UintVar(&charityID, "charity", 0, "Only donations to this charity")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only your own donations")

	return cmd
}

func newDonationHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your recent ledger transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}

			records, err := app.Donations.History(context.Background())
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
					r.Memo,
					status,
				})
			}
			fmt.Print(formatter.RenderTable([]string{"DATE", "TX", "MEMO", "STATUS"}, rows))
			return nil
		},
	}
}

func newDonationTaxCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Summarize your cached donation receipts for a tax year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			if year == 0 {
				year = time.Now().Year()
			}

			summary, err := app.Donations.TaxSummary(context.Background(), year)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Tax year %d", summary.Year)))
			fmt.Printf("%s %d\n", formatter.Dim("Donations:"), summary.DonationCount)
			fmt.Printf("%s %s\n", formatter.Dim("Total:"), formatter.Amount(summary.Total))
			if len(summary.ByCharity) > 0 {
				fmt.Println()
				rows := make([][]string, 0, len(summary.ByCharity))
				for name, total := range summary.ByCharity {
					rows = append(rows, []string{name, formatter.Amount(total)})
				}
				fmt.Print(formatter.RenderTable([]string{"CHARITY", "TOTAL"}, rows))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Tax year (defaults to the current year)")

	return cmd
}
