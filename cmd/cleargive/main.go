package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/cli"
	"github.com/shivamnarkar47/ClearGive/internal/config"
	"github.com/shivamnarkar47/ClearGive/internal/fund"
	"github.com/shivamnarkar47/ClearGive/internal/keystore"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env in the working directory is a convenience for development;
	// absence is not an error.
	_ = godotenv.Load()

	cfg := config.Load()

	// Strip colors when output is piped.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	database, err := keystore.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening keystore: %w", err)
	}
	defer database.Close()
	keys := keystore.NewStore(database)

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(os.Stderr)
	}
	apiClient := api.NewClient(api.Config{
		BaseURL:   cfg.APIBase,
		Token:     cfg.Token,
		TimeoutMs: cfg.TimeoutMs,
	}, observer)

	ledgerClient := ledger.NewClient(ledger.Config{
		HorizonURL:   cfg.Horizon,
		FriendbotURL: cfg.Friendbot,
		Passphrase:   cfg.Passphrase,
	})

	app := &cli.App{
		API:    apiClient,
		Ledger: ledgerClient,
		Keys:   keys,
	}

	// Resolve the caller identity when one is configured. Identity-free
	// commands (wallet, charity list, certificate verify) work without it.
	if userID := os.Getenv("CLEARGIVE_USER"); userID != "" {
		user, err := apiClient.GetUser(context.Background(), userID)
		if err != nil {
			return fmt.Errorf("resolving user %q: %w", userID, err)
		}
		app.User = user
		app.Approvals = fund.NewApprovalService(apiClient, ledgerClient, keys, user)
		app.Cosigners = fund.NewCosignerService(apiClient, user)
		app.Budgets = fund.NewBudgetService(apiClient, ledgerClient, user)
		app.Milestones = fund.NewMilestoneService(apiClient, ledgerClient, keys, user)
		app.Donations = fund.NewDonationService(apiClient, ledgerClient, keys, keys, user)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
