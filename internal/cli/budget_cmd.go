package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage a charity's budget categories",
	}

	cmd.AddCommand(
		newBudgetOverviewCmd(app),
		newBudgetAddCmd(app),
		newBudgetUpdateCmd(app),
		newBudgetRemoveCmd(app),
	)

	return cmd
}

func newBudgetOverviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overview CHARITY",
		Short: "Show allocations against the live ledger balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			overview, err := app.Budgets.Overview(context.Background(), charityID)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n\n", formatter.Dim("Balance:"), formatter.Amount(overview.Balance))

			if len(overview.Categories) == 0 {
				fmt.Println("No budget categories defined.")
				return nil
			}

			rows := make([][]string, 0, len(overview.Categories))
			for _, cv := range overview.Categories {
				rows = append(rows, []string{
					strconv.FormatUint(uint64(cv.Category.ID), 10),
					cv.Category.Name,
					fmt.Sprintf("%.0f%%", cv.Category.Allocation),
					cv.Allocated,
					fmt.Sprintf("%.2f", cv.Category.Spent),
					cv.Remaining,
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"ID", "CATEGORY", "ALLOCATION", "ALLOCATED", "SPENT", "REMAINING"}, rows))

			if overview.OverAllocated {
				fmt.Printf("\n%s allocations total %.0f%% of the balance\n",
					formatter.StyleYellow.Render("over-allocated:"), overview.AllocationTotal)
			}
			return nil
		},
	}
}

func newBudgetAddCmd(app *App) *cobra.Command {
	var name string
	var allocation float64

	cmd := &cobra.Command{
		Use:   "add CHARITY",
		Short: "Add a budget category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}

			bc, err := app.Budgets.Add(context.Background(), charityID, name, allocation)
			if err != nil {
				return err
			}
			fmt.Printf("Added category %s (%.0f%%) [%d]\n", bc.Name, bc.Allocation, bc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().Float64Var(&allocation, "allocation", 0, "Percentage of the balance (0-100)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("allocation")

	return cmd
}

func newBudgetUpdateCmd(app *App) *cobra.Command {
	var name string
	var allocation float64

	cmd := &cobra.Command{
		Use:   "update CHARITY CATEGORY",
		Short: "Update a budget category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			categoryID, err := parseEntityID(args[1], "category")
			if err != nil {
				return err
			}

			bc, err := app.Budgets.Update(context.Background(), charityID, categoryID, name, allocation)
			if err != nil {
				return err
			}
			fmt.Printf("Updated category %s (%.0f%%)\n", bc.Name, bc.Allocation)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().Float64Var(&allocation, "allocation", 0, "Percentage of the balance (0-100)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("allocation")

	return cmd
}

func newBudgetRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CHARITY CATEGORY",
		Short: "Delete a budget category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			charityID, err := parseEntityID(args[0], "charity")
			if err != nil {
				return err
			}
			categoryID, err := parseEntityID(args[1], "category")
			if err != nil {
				return err
			}

			if err := app.Budgets.Delete(context.Background(), charityID, categoryID); err != nil {
				return err
			}
			fmt.Printf("Removed category %d\n", categoryID)
			return nil
		},
	}
}
