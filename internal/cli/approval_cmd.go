package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
	"github.com/shivamnarkar47/ClearGive/internal/fund"
)

func newApprovalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approval",
		Short: "Manage spending approvals",
	}

	cmd.AddCommand(
		newApprovalListCmd(app),
		newApprovalCreateCmd(app),
		newApprovalSignCmd(app),
		newApprovalExecuteCmd(app),
		newApprovalRefundCmd(app),
	)

	return cmd
}

func newApprovalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list CHARITY",
		Short: "List a charity's spending approvals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			approvals, err := app.Approvals.ListPending(context.Background(), charityID)
			if err != nil {
				return err
			}
			if len(approvals) == 0 {
				fmt.Println("No approvals found.")
				return nil
			}

			rows := make([][]string, 0, len(approvals))
			for _, a := range approvals {
				rows = append(rows, []string{
					strconv.FormatUint(uint64(a.ID), 10),
					a.Description,
					formatter.Amount(a.Amount),
					a.Category,
					formatter.Signatures(a.CurrentSignatures, a.RequiredSignatures),
					formatter.ApprovalStatus(a.Status),
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"ID", "DESCRIPTION", "AMOUNT", "CATEGORY", "SIGS", "STATUS"}, rows))
			return nil
		},
	}
}

func newApprovalCreateCmd(app *App) *cobra.Command {
	var amount, description, category, destination string

	cmd := &cobra.Command{
		Use:   "create CHARITY",
		Short: "Propose a spend against a charity's pooled balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			a, err := app.Approvals.Create(context.Background(), charityID, fund.CreateApprovalRequest{
				Amount:      amount,
				Description: description,
				Category:    category,
				Destination: destination,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created approval %d: %s for %s (%s required)\n",
				a.ID, a.Description, formatter.Amount(a.Amount),
				formatter.Signatures(a.CurrentSignatures, a.RequiredSignatures))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount in XLM")
	cmd.Flags().StringVar(&description, "description", "", "What the funds are for")
	cmd.Flags().StringVar(&category, "category", "", "Budget category name")
	cmd.Flags().StringVar(&destination, "destination", "", "Destination ledger address (defaults to the requester's wallet)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newApprovalSignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sign CHARITY APPROVAL",
		Short: "Add your signature to a pending approval",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			approvalID, err := parseEntityID(args[1], "approval")
			if err != nil {
				return err
			}

			a, err := app.Approvals.Sign(context.Background(), charityID, approvalID)
			if err != nil {
				return err
			}
			fmt.Printf("Signed approval %d: %s %s\n", a.ID,
				formatter.Signatures(a.CurrentSignatures, a.RequiredSignatures),
				formatter.ApprovalStatus(a.Status))
			return nil
		},
	}
}

func newApprovalExecuteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "execute CHARITY APPROVAL",
		Short: "Execute an approved spend on the ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			approvalID, err := parseEntityID(args[1], "approval")
			if err != nil {
				return err
			}

			result, err := app.Approvals.Execute(context.Background(), charityID, approvalID)
			if err != nil {
				return err
			}
			fmt.Printf("Executed approval %d for %s\n", result.Approval.ID, formatter.Amount(result.Approval.Amount))
			fmt.Printf("%s %s\n", formatter.Dim("Tx:"), app.Ledger.TransactionExplorerURL(result.TxHash))
			return nil
		},
	}
}

func newApprovalRefundCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refund CHARITY APPROVAL",
		Short: "Reclaim the unspent remainder of an executed approval",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			approvalID, err := parseEntityID(args[1], "approval")
			if err != nil {
				return err
			}

			result, err := app.Approvals.Refund(context.Background(), charityID, approvalID)
			if err != nil {
				return err
			}
			fmt.Printf("Refunded %.7f XLM from approval %d\n", result.RefundAmount, approvalID)
			if result.Settled {
				fmt.Printf("%s %s\n", formatter.Dim("Tx:"), app.Ledger.TransactionExplorerURL(result.TxHash))
			} else {
				fmt.Println(formatter.Dim("Recorded only; no escrow key held for on-ledger settlement."))
			}
			return nil
		},
	}
}
