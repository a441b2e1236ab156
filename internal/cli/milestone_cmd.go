package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/fund"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestone-gated disbursements",
	}

	cmd.AddCommand(
		newMilestoneListCmd(app),
		newMilestoneCreateCmd(app),
		newMilestoneCompleteCmd(app),
		newMilestoneVerifyCmd(app),
		newMilestoneReleaseCmd(app),
	)

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list APPROVAL",
		Short: "List an approval's milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			approvalID, err := parseEntityID(args[0], "approval")
			if err != nil {
				return err
			}

			milestones, err := app.Milestones.List(context.Background(), approvalID)
			if err != nil {
				return err
			}
			if len(milestones) == 0 {
				fmt.Println("No milestones found.")
				return nil
			}

			rows := make([][]string, 0, len(milestones))
			for _, m := range milestones {
				due := ""
				if !m.DueDate.IsZero() {
					due = m.DueDate.Format("2006-01-02")
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(m.ID), 10),
					m.Name,
					formatter.Amount(m.Amount),
					due,
					formatter.MilestoneStatus(m.Status),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "AMOUNT", "DUE", "STATUS"}, rows))
			return nil
		},
	}
}

func newMilestoneCreateCmd(app *App) *cobra.Command {
	var name, description, amount, due string

	cmd := &cobra.Command{
		Use:   "create CHARITY APPROVAL",
		Short: "Plan a conditional sub-disbursement",
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

			dueDate, err := time.Parse("2006-01-02", due)
			if err != nil {
				return fmt.Errorf("invalid due date %q: %w", due, err)
			}

			m, err := app.Milestones.Create(context.Background(), charityID, approvalID, fund.CreateMilestoneRequest{
				Name:        name,
				Description: description,
				Amount:      amount,
				DueDate:     dueDate,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created milestone %s [%d] for %s\n", m.Name, m.ID, formatter.Amount(m.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Milestone name")
	cmd.Flags().StringVar(&description, "description", "", "What completing it means")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in XLM")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newMilestoneCompleteCmd(app *App) *cobra.Command {
	var proof string

	cmd := &cobra.Command{
		Use:   "complete CHARITY APPROVAL MILESTONE",
		Short: "Report a milestone as completed with proof",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, approvalID, milestoneID, err := parseMilestoneArgs(args)
			if err != nil {
				return err
			}

			m, err := app.Milestones.Complete(context.Background(), charityID, approvalID, milestoneID, proof)
			if err != nil {
				return err
			}
			fmt.Printf("Completed milestone %s %s\n", m.Name, formatter.MilestoneStatus(m.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&proof, "proof", "", "Completion evidence (document reference, URL)")
	_ = cmd.MarkFlagRequired("proof")

	return cmd
}

func newMilestoneVerifyCmd(app *App) *cobra.Command {
	var comments string
	var approve, reject bool

	cmd := &cobra.Command{
		Use:   "verify CHARITY APPROVAL MILESTONE",
		Short: "Record a verdict on a completed milestone",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			if approve == reject {
				return fmt.Errorf("pass exactly one of --approve or --reject")
			}
			charityID, approvalID, milestoneID, err := parseMilestoneArgs(args)
			if err != nil {
				return err
			}

			verdict := domain.VerificationApproved
			if reject {
				verdict = domain.VerificationRejected
			}
			result, err := app.Milestones.Verify(context.Background(), charityID, approvalID, milestoneID, comments, verdict)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded verdict on %s %s\n",
				result.Milestone.Name, formatter.MilestoneStatus(result.Milestone.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&comments, "comments", "", "Verification comments")
	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the completion")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the completion")

	return cmd
}

func newMilestoneReleaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "release CHARITY APPROVAL MILESTONE",
		Short: "Release a verified milestone's funds on the ledger",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, approvalID, milestoneID, err := parseMilestoneArgs(args)
			if err != nil {
				return err
			}

			result, err := app.Milestones.Release(context.Background(), charityID, approvalID, milestoneID)
			if err != nil {
				return err
			}
			fmt.Printf("Released %s for %s\n", result.Milestone.Name, formatter.Amount(result.Milestone.Amount))
			fmt.Printf("%s %s\n", formatter.Dim("Tx:"), app.Ledger.TransactionExplorerURL(result.TxHash))
			return nil
		},
	}
}

func parseMilestoneArgs(args []string) (charityID, approvalID, milestoneID uint, err error) {
	if charityID, err = parseEntityID(args[0], "charity"); err != nil {
		return
	}
	if approvalID, err = parseEntityID(args[1], "approval"); err != nil {
		return
	}
	milestoneID, err = parseEntityID(args[2], "milestone")
	return
}
