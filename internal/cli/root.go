package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/fund"
	"github.com/shivamnarkar47/ClearGive/internal/keystore"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

// App holds references to all service interfaces used by CLI commands.
// User is nil until an identity is configured; commands acting on behalf of
// a caller fail early through requireUser.
type App struct {
	API    *api.Client
	Ledger *ledger.Client
	Keys   *keystore.Store

	Approvals  fund.ApprovalService
	Cosigners  fund.CosignerService
	Budgets    fund.BudgetService
	Milestones fund.MilestoneService
	Donations  fund.DonationService

	User *domain.User
}

func (app *App) requireUser() error {
	if app.User == nil {
		return fmt.Errorf("no identity configured: set CLEARGIVE_USER to your user ID")
	}
	return nil
}

// NewRootCmd creates the top-level "cleargive" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cleargive",
		Short: "Charity fund governance and donation client",
	}

	root.AddCommand(
		newUserCmd(app),
		newCharityCmd(app),
		newCosignerCmd(app),
		newBudgetCmd(app),
		newApprovalCmd(app),
		newMilestoneCmd(app),
		newDonationCmd(app),
		newWalletCmd(app),
		newCertificateCmd(app),
	)

	return root
}

// parseEntityID parses a positional numeric entity ID.
func parseEntityID(arg, what string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, arg)
	}
	return uint(n), nil
}
