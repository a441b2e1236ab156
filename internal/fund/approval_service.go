package fund

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

type approvalService struct {
	api     *api.Client
	ledger  Ledger
	secrets SecretSource
	caller  *domain.User
}

// NewApprovalService builds the transaction-approval workflow service for
// the given caller identity.
func NewApprovalService(apiClient *api.Client, l Ledger, secrets SecretSource, caller *domain.User) ApprovalService {
	return &approvalService{api: apiClient, ledger: l, secrets: secrets, caller: caller}
}

func (s *approvalService) ListPending(ctx context.Context, charityID uint) ([]domain.TransactionApproval, error) {
	return s.api.ListApprovals(ctx, charityID)
}

func (s *approvalService) Create(ctx context.Context, charityID uint, req CreateApprovalRequest) (*domain.TransactionApproval, error) {
	if _, err := domain.ParseAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description", domain.ErrEmptyField)
	}
	if req.Destination != "" && !s.ledger.ValidAddress(req.Destination) {
		return nil, fmt.Errorf("%w: destination %q", ledger.ErrInvalidAddress, req.Destination)
	}

	charity, err := s.api.GetCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if charity.ResolveRole(s.caller.ID, s.caller.Email) == domain.CharityRoleNone {
		return nil, fmt.Errorf("%w: create approval", ErrForbidden)
	}
	if req.Category != "" && charity.CategoryByName(req.Category) == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, req.Category)
	}

	return s.api.CreateApproval(ctx, charityID, api.CreateApprovalInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Destination: req.Destination,
	})
}

func (s *approvalService) Sign(ctx context.Context, charityID, approvalID uint) (*domain.TransactionApproval, error) {
	charity, approval, err := s.load(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}

	if charity.ResolveRole(s.caller.ID, s.caller.Email) == domain.CharityRoleNone {
		return nil, fmt.Errorf("%w: sign approval", ErrForbidden)
	}
	// Signer identity is the email; that is what the signature endpoint
	// records in the signer set.
	if err := approval.CanSign(s.caller.Email); err != nil {
		return nil, err
	}

	return s.api.SignApproval(ctx, approvalID, s.caller.Email)
}

// Execute performs the ledger payment committing the approval's amount from
// the charity's main wallet to the approval destination, then records the
// execution. A ledger failure leaves the approval untouched; the recording
// call carries the real transaction hash.
func (s *approvalService) Execute(ctx context.Context, charityID, approvalID uint) (*ExecuteResult, error) {
	charity, approval, err := s.load(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}

	role := charity.ResolveRole(s.caller.ID, s.caller.Email)
	if role != domain.CharityRoleOwner {
		return nil, fmt.Errorf("%w: only the charity owner can execute", ErrForbidden)
	}
	if err := approval.CanExecute(role); err != nil {
		return nil, err
	}

	destination, err := s.resolveDestination(approval)
	if err != nil {
		return nil, err
	}
	seed, err := s.secrets.Seed(ctx, charity.WalletAddress)
	if err != nil {
		return nil, err
	}

	txHash, err := s.ledger.Pay(ctx, ledger.PaymentParams{
		FromSeed: seed,
		To:       destination,
		Amount:   approval.Amount,
		Memo:     approval.Description,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.api.ExecuteApproval(ctx, approvalID, txHash)
	if err != nil {
		return nil, fmt.Errorf("payment %s submitted but recording failed: %w", txHash, err)
	}
	return &ExecuteResult{Approval: updated, TxHash: txHash}, nil
}

// Refund reclaims the unspent remainder of an executed approval. The amount
// is computed by the persistence service. When the client holds the signing
// key for the approval's destination escrow, the remainder is paid back to
// the charity's main wallet; otherwise the refund stays as bookkeeping and
// Settled is false.
func (s *approvalService) Refund(ctx context.Context, charityID, approvalID uint) (*RefundResult, error) {
	charity, approval, err := s.load(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}

	if charity.ResolveRole(s.caller.ID, s.caller.Email) != domain.CharityRoleOwner {
		return nil, fmt.Errorf("%w: only the charity owner can initiate refunds", ErrForbidden)
	}
	if err := approval.CanRefund(); err != nil {
		return nil, err
	}

	remote, err := s.api.RefundApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	result := &RefundResult{
		RefundAmount: remote.RefundAmount,
		Approval:     &remote.Approval,
	}
	if remote.RefundAmount <= 0 || approval.Destination == "" {
		return result, nil
	}

	seed, err := s.secrets.Seed(ctx, approval.Destination)
	if err != nil {
		return result, nil // escrow not client-controlled; bookkeeping only
	}
	txHash, err := s.ledger.Pay(ctx, ledger.PaymentParams{
		FromSeed: seed,
		To:       charity.WalletAddress,
		Amount:   formatAmount(remote.RefundAmount),
		Memo:     "Refund: " + approval.Description,
	})
	if err != nil {
		return result, fmt.Errorf("refund recorded but settlement failed: %w", err)
	}
	result.TxHash = txHash
	result.Settled = true
	return result, nil
}

// load fetches the charity and locates the approval in its approvals list.
// There is no single-approval endpoint; the list is the authoritative read.
func (s *approvalService) load(ctx context.Context, charityID, approvalID uint) (*domain.Charity, *domain.TransactionApproval, error) {
	charity, err := s.api.GetCharity(ctx, charityID)
	if err != nil {
		return nil, nil, err
	}
	approvals, err := s.api.ListApprovals(ctx, charityID)
	if err != nil {
		return nil, nil, err
	}
	for i := range approvals {
		if approvals[i].ID == approvalID {
			return charity, &approvals[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: approval %d", api.ErrNotFound, approvalID)
}

// resolveDestination applies the destination convention: an explicit
// destination wins; otherwise the payment goes to the requester's registered
// wallet, which is only resolvable when the requester is the caller.
func (s *approvalService) resolveDestination(a *domain.TransactionApproval) (string, error) {
	if a.Destination != "" {
		return a.Destination, nil
	}
	if a.RequestedByID == signerID(s.caller) && s.caller.StellarWallet.PublicKey != "" {
		return s.caller.StellarWallet.PublicKey, nil
	}
	return "", domain.ErrNoDestination
}

func signerID(u *domain.User) string {
	return fmt.Sprintf("%d", u.ID)
}

// formatAmount renders a float refund as a ledger amount string, capped at
// the ledger's seven decimal places.
func formatAmount(f float64) string {
	return decimal.NewFromFloat(f).Round(7).String()
}
