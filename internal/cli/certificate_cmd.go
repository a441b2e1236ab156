package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivamnarkar47/ClearGive/internal/cli/formatter"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

func newCertificateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificate",
		Short: "Donation certificates",
	}

	cmd.AddCommand(
		newCertificateListCmd(app),
		newCertificateShowCmd(app),
		newCertificateVerifyCmd(app),
	)

	return cmd
}

func newCertificateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your donation certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}

			certs, err := app.API.GetUserCertificates(context.Background(), app.User.FirebaseID)
			if err != nil {
				return err
			}
			if len(certs) == 0 {
				fmt.Println("No certificates found.")
				return nil
			}

			rows := make([][]string, 0, len(certs))
			for _, c := range certs {
				rows = append(rows, []string{
					c.TokenID,
					c.IssueDate.Format("2006-01-02"),
					c.Status,
				})
			}
			fmt.Print(formatter.RenderTable([]string{"TOKEN", "ISSUED", "STATUS"}, rows))
			return nil
		},
	}
}

func newCertificateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TOKEN",
		Short: "Show a certificate by token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := app.API.GetCertificateByToken(context.Background(), args[0])
			if err != nil {
				return err
			}
			printCertificate(cert)
			return nil
		},
	}
}

func newCertificateVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify a certificate's authenticity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := app.API.VerifyCertificate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", formatter.StyleGreen.Render("verified"), cert.TokenID)
			printCertificate(cert)
			return nil
		},
	}
}

func printCertificate(cert *domain.Certificate) {
	fmt.Println(formatter.Header("Certificate " + cert.TokenID))
	fmt.Printf("%s %s\n", formatter.Dim("Issued:"), cert.IssueDate.Format("2006-01-02"))
	fmt.Printf("%s %s\n", formatter.Dim("Status:"), cert.Status)
	if cert.Donation != nil {
		fmt.Printf("%s %s\n", formatter.Dim("Amount:"), formatter.Amount(cert.Donation.Amount))
	}
	if cert.TxHash != "" {
		fmt.Printf("%s %s\n", formatter.Dim("Tx:"), cert.TxHash)
	}
	if cert.MetadataHash != "" {
		fmt.Printf("%s %s\n", formatter.Dim("Metadata:"), cert.MetadataHash)
	}
}
