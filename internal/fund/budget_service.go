package fund

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

type budgetService struct {
	api    *api.Client
	ledger Ledger
	caller *domain.User
}

// NewBudgetService builds the budget-allocation service for the given caller
// identity. Category mutations are owner-only; Overview is open to anyone.
func NewBudgetService(apiClient *api.Client, l Ledger, caller *domain.User) BudgetService {
	return &budgetService{api: apiClient, ledger: l, caller: caller}
}

func (s *budgetService) Add(ctx context.Context, charityID uint, name string, allocation float64) (*domain.BudgetCategory, error) {
	name = strings.TrimSpace(name)
	if err := validateCategory(name, allocation); err != nil {
		return nil, err
	}

	charity, err := s.ownedCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if charity.CategoryByName(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}

	return s.api.AddBudgetCategory(ctx, charityID, api.BudgetCategoryInput{
		Name:       name,
		Allocation: allocation,
	})
}

func (s *budgetService) Update(ctx context.Context, charityID, categoryID uint, name string, allocation float64) (*domain.BudgetCategory, error) {
	name = strings.TrimSpace(name)
	if err := validateCategory(name, allocation); err != nil {
		return nil, err
	}

	charity, err := s.ownedCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if existing := charity.CategoryByName(name); existing != nil && existing.ID != categoryID {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}

	return s.api.UpdateBudgetCategory(ctx, charityID, categoryID, api.BudgetCategoryInput{
		Name:       name,
		Allocation: allocation,
	})
}

func (s *budgetService) Delete(ctx context.Context, charityID, categoryID uint) error {
	if _, err := s.ownedCharity(ctx, charityID); err != nil {
		return err
	}
	return s.api.DeleteBudgetCategory(ctx, charityID, categoryID)
}

// Overview joins the charity's live ledger balance with its category
// allocations. Allocated and Remaining are derived at the current balance
// and never persisted. Overcommitment is reported, not rejected.
func (s *budgetService) Overview(ctx context.Context, charityID uint) (*BudgetOverview, error) {
	charity, err := s.api.GetCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}

	balanceStr, err := s.ledger.NativeBalance(ctx, charity.WalletAddress)
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("ledger returned unparseable balance %q: %w", balanceStr, err)
	}

	out := &BudgetOverview{
		Balance:         balance.String(),
		AllocationTotal: charity.AllocationTotal(),
		OverAllocated:   charity.OverAllocated(),
	}
	for _, bc := range charity.BudgetCategories {
		allocated := bc.Allocated(balance)
		remaining := allocated.Sub(decimal.NewFromFloat(bc.Spent))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		out.Categories = append(out.Categories, CategoryView{
			Category:  bc,
			Allocated: allocated.Round(7).String(),
			Remaining: remaining.Round(7).String(),
		})
	}
	return out, nil
}

func (s *budgetService) ownedCharity(ctx context.Context, charityID uint) (*domain.Charity, error) {
	charity, err := s.api.GetCharity(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if charity.OwnerID != s.caller.ID {
		return nil, fmt.Errorf("%w: owner-only operation", ErrForbidden)
	}
	return charity, nil
}

func validateCategory(name string, allocation float64) error {
	if name == "" {
		return fmt.Errorf("%w: name", domain.ErrEmptyField)
	}
	if allocation < 0 || allocation > 100 {
		return fmt.Errorf("%w: got %v", ErrAllocationRange, allocation)
	}
	return nil
}
