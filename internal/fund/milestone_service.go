package fund

import (
	"context"
	"fmt"
	"strings"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

type milestoneService struct {
	api     *api.Client
	ledger  Ledger
	secrets SecretSource
	caller  *domain.User
}

// NewMilestoneService builds the milestone workflow service for the given
// caller identity.
func NewMilestoneService(apiClient *api.Client, l Ledger, secrets SecretSource, caller *domain.User) MilestoneService {
	return &milestoneService{api: apiClient, ledger: l, secrets: secrets, caller: caller}
}

func (s *milestoneService) List(ctx context.Context, approvalID uint) ([]domain.Milestone, error) {
	return s.api.ListMilestones(ctx, approvalID)
}

func (s *milestoneService) Create(ctx context.Context, charityID, approvalID uint, req CreateMilestoneRequest) (*domain.Milestone, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name", domain.ErrEmptyField)
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	charity, approval, err := s.loadApproval(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}
	if charity.ResolveRole(s.caller.ID, s.caller.Email) != domain.CharityRoleOwner {
		return nil, fmt.Errorf("%w: only the charity owner plans milestones", ErrForbidden)
	}
	if err := approval.CanPlanMilestone(); err != nil {
		return nil, err
	}

	milestones, err := s.api.ListMilestones(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckContainment(approval.Amount, milestones, amount); err != nil {
		return nil, err
	}

	return s.api.CreateMilestone(ctx, approvalID, api.MilestoneInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	})
}

func (s *milestoneService) Complete(ctx context.Context, charityID, approvalID, milestoneID uint, proof string) (*domain.Milestone, error) {
	if strings.TrimSpace(proof) == "" {
		return nil, domain.ErrProofRequired
	}

	charity, _, err := s.loadApproval(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}
	if charity.ResolveRole(s.caller.ID, s.caller.Email) != domain.CharityRoleOwner {
		return nil, fmt.Errorf("%w: only the charity owner reports completion", ErrForbidden)
	}

	milestone, err := s.find(ctx, approvalID, milestoneID)
	if err != nil {
		return nil, err
	}
	if err := milestone.CanComplete(); err != nil {
		return nil, err
	}

	return s.api.CompleteMilestone(ctx, milestoneID, proof)
}

// Verify records a cosigner verdict on a completed milestone. The owner is
// excluded: the party that reported completion cannot also attest to it.
func (s *milestoneService) Verify(ctx context.Context, charityID, approvalID, milestoneID uint, comments string, verdict domain.VerificationStatus) (*api.VerifyResult, error) {
	charity, _, err := s.loadApproval(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}
	switch charity.ResolveRole(s.caller.ID, s.caller.Email) {
	case domain.CharityRoleOwner:
		return nil, fmt.Errorf("%w: the owner cannot verify their own milestone", ErrForbidden)
	case domain.CharityRoleNone:
		return nil, fmt.Errorf("%w: verify milestone", ErrForbidden)
	}

	milestone, err := s.find(ctx, approvalID, milestoneID)
	if err != nil {
		return nil, err
	}
	if err := milestone.CanVerify(); err != nil {
		return nil, err
	}

	return s.api.VerifyMilestone(ctx, milestoneID, comments, verdict)
}

// Release pays the milestone's amount from the approval's escrow back to the
// charity's main wallet and records the release with the real transaction
// hash. A ledger failure leaves the milestone verified for retry.
func (s *milestoneService) Release(ctx context.Context, charityID, approvalID, milestoneID uint) (*ReleaseOutcome, error) {
	charity, approval, err := s.loadApproval(ctx, charityID, approvalID)
	if err != nil {
		return nil, err
	}
	if charity.ResolveRole(s.caller.ID, s.caller.Email) != domain.CharityRoleOwner {
		return nil, fmt.Errorf("%w: only the charity owner releases funds", ErrForbidden)
	}

	milestone, err := s.find(ctx, approvalID, milestoneID)
	if err != nil {
		return nil, err
	}
	if err := milestone.CanRelease(); err != nil {
		return nil, err
	}
	if approval.Destination == "" {
		return nil, domain.ErrNoDestination
	}

	seed, err := s.secrets.Seed(ctx, approval.Destination)
	if err != nil {
		return nil, err
	}
	txHash, err := s.ledger.Pay(ctx, ledger.PaymentParams{
		FromSeed: seed,
		To:       charity.WalletAddress,
		Amount:   milestone.Amount,
		Memo:     "Milestone: " + milestone.Name,
	})
	if err != nil {
		return nil, err
	}

	released, err := s.api.ReleaseMilestone(ctx, milestoneID, txHash)
	if err != nil {
		return nil, fmt.Errorf("payment %s submitted but recording failed: %w", txHash, err)
	}
	return &ReleaseOutcome{Milestone: &released.Milestone, TxHash: txHash}, nil
}

func (s *milestoneService) loadApproval(ctx context.Context, charityID, approvalID uint) (*domain.Charity, *domain.TransactionApproval, error) {
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

func (s *milestoneService) find(ctx context.Context, approvalID, milestoneID uint) (*domain.Milestone, error) {
	milestones, err := s.api.ListMilestones(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	for i := range milestones {
		if milestones[i].ID == milestoneID {
			return &milestones[i], nil
		}
	}
	return nil, fmt.Errorf("%w: milestone %d", api.ErrNotFound, milestoneID)
}
