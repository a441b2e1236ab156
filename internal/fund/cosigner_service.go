package fund

import (
	"context"
	"fmt"
	"strings"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

type cosignerService struct {
	api    *api.Client
	caller *domain.User
}

// NewCosignerService builds the cosigner-registry service for the given
// caller identity. All mutations are owner-only.
func NewCosignerService(apiClient *api.Client, caller *domain.User) CosignerService {
	return &cosignerService{api: apiClient, caller: caller}
}

func (s *cosignerService) Add(ctx context.Context, charityID uint, email, userID string, isPrimary bool) (*domain.Cosigner, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email", domain.ErrEmptyField)
	}

	charity, err := s.ownedCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if isPrimary {
		for _, cs := range charity.Cosigners {
			if cs.IsPrimary {
				return nil, ErrPrimaryCosignerExists
			}
		}
	}

	return s.api.AddCosigner(ctx, charityID, api.CosignerInput{
		Email:     email,
		UserID:    userID,
		IsPrimary: isPrimary,
	})
}

// Remove deletes a cosigner. In-flight approvals keep the threshold they
// snapshotted at creation; only future approvals see the smaller pool.
func (s *cosignerService) Remove(ctx context.Context, charityID, cosignerID uint) error {
	charity, err := s.ownedCharity(ctx, charityID)
	if err != nil {
		return err
	}

	found := false
	for _, cs := range charity.Cosigners {
		if cs.ID == cosignerID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: cosigner %d", api.ErrNotFound, cosignerID)
	}

	return s.api.RemoveCosigner(ctx, charityID, cosignerID)
}

func (s *cosignerService) UpdateMultiSig(ctx context.Context, charityID uint, enabled bool, requiredSignatures int) (*domain.Charity, error) {
	charity, err := s.ownedCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if err := charity.ValidateThreshold(enabled, requiredSignatures); err != nil {
		return nil, err
	}
	return s.api.UpdateMultiSig(ctx, charityID, api.MultiSigInput{
		IsMultiSig:         enabled,
		RequiredSignatures: requiredSignatures,
	})
}

func (s *cosignerService) ownedCharity(ctx context.Context, charityID uint) (*domain.Charity, error) {
	charity, err := s.api.GetCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if charity.OwnerID != s.caller.ID {
		return nil, fmt.Errorf("%w: owner-only operation", ErrForbidden)
	}
	return charity, nil
}
