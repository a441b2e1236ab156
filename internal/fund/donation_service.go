package fund

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/keystore"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

type donationService struct {
	api      *api.Client
	ledger   Ledger
	secrets  SecretSource
	receipts ReceiptSink
	caller   *domain.User
}

// NewDonationService builds the direct-donation service for the given caller
// identity.
func NewDonationService(apiClient *api.Client, l Ledger, secrets SecretSource, receipts ReceiptSink, caller *domain.User) DonationService {
	return &donationService{api: apiClient, ledger: l, secrets: secrets, receipts: receipts, caller: caller}
}

// Donate pays the charity's wallet from the caller's wallet, records the
// donation, and requests certificate issuance. The ledger payment is the
// point of no return: once it lands, recording failures are reported with
// the transaction hash so the donation can be reconciled by hand, and
// certificate issuance failures do not fail the donation.
func (s *donationService) Donate(ctx context.Context, req DonateRequest) (*DonationResult, error) {
	if _, err := domain.ParseAmount(req.Amount); err != nil {
		return nil, err
	}
	if s.caller.StellarWallet.PublicKey == "" {
		return nil, fmt.Errorf("%w: caller has no registered wallet", domain.ErrNoDestination)
	}

	charity, err := s.api.GetCharity(ctx, req.CharityID)
	if err != nil {
		return nil, err
	}
	if req.Category != "" && charity.CategoryByName(req.Category) == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, req.Category)
	}

	seed, err := s.secrets.Seed(ctx, s.caller.StellarWallet.PublicKey)
	if err != nil {
		return nil, err
	}

	memo := req.Message
	if memo == "" {
		memo = "Donation to " + charity.Name
	}
	txHash, err := s.ledger.Pay(ctx, ledger.PaymentParams{
		FromSeed: seed,
		To:       charity.WalletAddress,
		Amount:   req.Amount,
		Memo:     memo,
	})
	if err != nil {
		return nil, err
	}

	donation, err := s.api.CreateDonation(ctx, api.DonationInput{
		Amount:    req.Amount,
		CharityID: req.CharityID,
		DonorID:   s.caller.FirebaseID,
		Message:   req.Message,
		TxHash:    txHash,
		Status:    string(domain.DonationCompleted),
		Category:  req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("donation paid (tx %s) but recording failed: %w", txHash, err)
	}

	result := &DonationResult{TxHash: txHash, Donation: donation}

	// Best-effort on both: the donation stands without them.
	if cert, err := s.api.GenerateCertificate(ctx, donation.ID); err == nil {
		result.Certificate = cert
	}
	_ = s.receipts.SaveReceipt(ctx, keystore.Receipt{
		ID:          uuid.NewString(),
		DonationID:  donation.ID,
		CharityID:   charity.ID,
		CharityName: charity.Name,
		DonorID:     s.caller.FirebaseID,
		Amount:      req.Amount,
		TxHash:      txHash,
		Category:    req.Category,
		DonatedAt:   time.Now().UTC(),
	})

	return result, nil
}

// List fetches the platform donation feed and applies the filter locally.
func (s *donationService) List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error) {
	donations, err := s.api.ListDonations(ctx)
	if err != nil {
		return nil, err
	}
	if filter.CharityID == 0 && !filter.Mine {
		return donations, nil
	}
	kept := donations[:0]
	for _, d := range donations {
		if filter.CharityID != 0 && d.CharityID != filter.CharityID {
			continue
		}
		if filter.Mine && d.DonorID != s.caller.FirebaseID {
			continue
		}
		kept = append(kept, d)
	}
	return kept, nil
}

// History lists the caller's recent ledger transactions, most recent first.
func (s *donationService) History(ctx context.Context) ([]ledger.TxRecord, error) {
	if s.caller.StellarWallet.PublicKey == "" {
		return nil, fmt.Errorf("%w: caller has no registered wallet", domain.ErrNoDestination)
	}
	return s.ledger.Transactions(ctx, s.caller.StellarWallet.PublicKey)
}

// TaxSummary aggregates the caller's locally cached receipts for one year.
func (s *donationService) TaxSummary(ctx context.Context, year int) (*keystore.TaxSummary, error) {
	return s.receipts.Summarize(ctx, s.caller.FirebaseID, year)
}
