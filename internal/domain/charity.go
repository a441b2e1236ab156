package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrThresholdTooLow  = errors.New("multi-signature requires at least 2 signatures")
	ErrThresholdTooHigh = errors.New("required signatures exceed available signers")
)

// Cosigner is a person authorized to approve spending against a charity's
// pooled funds. Created and deleted by owner action, never mutated.
type Cosigner struct {
	Meta
	CharityID uint   `json:"charityId"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"isPrimary"`
}

// BudgetCategory is a named percentage allocation of a charity's balance.
// Spent accumulates the amounts of executed approvals tagged with this
// category's name.
type BudgetCategory struct {
	Meta
	CharityID  uint    `json:"charityId"`
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"`
	Spent      float64 `json:"spent"`
}

type Charity struct {
	Meta
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	WalletAddress      string           `json:"walletAddress"`
	OwnerID            uint             `json:"ownerId"`
	TotalDonations     float64          `json:"totalDonations"`
	Category           string           `json:"category"`
	Website            string           `json:"website"`
	ImageURL           string           `json:"imageUrl"`
	IsMultiSig         bool             `json:"isMultiSig"`
	RequiredSignatures int              `json:"requiredSignatures"`
	Owner              *User            `json:"owner,omitempty"`
	Cosigners          []Cosigner       `json:"cosigners,omitempty"`
	BudgetCategories   []BudgetCategory `json:"budgetCategories,omitempty"`
}

// EffectiveThreshold is the signature count a new approval snapshots.
// With multi-sig disabled the owner executes alone.
func (c *Charity) EffectiveThreshold() int {
	if !c.IsMultiSig {
		return 1
	}
	return c.RequiredSignatures
}

// ValidateThreshold checks a proposed multi-sig configuration against this
// charity's cosigner set. The owner counts as a signer even though they are
// not stored in the cosigner list.
func (c *Charity) ValidateThreshold(enabled bool, required int) error {
	if !enabled {
		return nil
	}
	if required < 2 {
		return ErrThresholdTooLow
	}
	if max := len(c.Cosigners) + 1; required > max {
		return fmt.Errorf("%w: %d required, %d available", ErrThresholdTooHigh, required, max)
	}
	return nil
}

// ResolveRole maps a caller to their capability on this charity. Owner wins
// over cosigner membership; cosigner matching is by email, case-insensitive.
func (c *Charity) ResolveRole(userID uint, email string) CharityRole {
	if c.OwnerID == userID {
		return CharityRoleOwner
	}
	for _, cs := range c.Cosigners {
		if strings.EqualFold(cs.Email, email) {
			return CharityRoleCosigner
		}
	}
	return CharityRoleNone
}

// CategoryByName returns the budget category with the given name, or nil.
// Names are unique per charity.
func (c *Charity) CategoryByName(name string) *BudgetCategory {
	for i := range c.BudgetCategories {
		if c.BudgetCategories[i].Name == name {
			return &c.BudgetCategories[i]
		}
	}
	return nil
}

// AllocationTotal sums the allocation percentages across all categories.
// Categories need not sum to 100; callers use OverAllocated to surface
// overcommitment without rejecting it.
func (c *Charity) AllocationTotal() float64 {
	var total float64
	for _, bc := range c.BudgetCategories {
		total += bc.Allocation
	}
	return total
}

func (c *Charity) OverAllocated() bool {
	return c.AllocationTotal() > 100
}

// Allocated computes the display amount a category commands at the given
// pooled balance. Derived, never persisted.
func (bc *BudgetCategory) Allocated(balance decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(bc.Allocation).Div(decimal.NewFromInt(100))
	return balance.Mul(pct)
}
