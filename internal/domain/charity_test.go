package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCharity() *Charity {
	return &Charity{
		Meta:               Meta{ID: 1},
		Name:               "Hope Relief",
		OwnerID:            10,
		IsMultiSig:         true,
		RequiredSignatures: 2,
		Cosigners: []Cosigner{
			{Email: "ana@example.org"},
			{Email: "ben@example.org", IsPrimary: true},
		},
		BudgetCategories: []BudgetCategory{
			{Name: "Program Services", Allocation: 60},
			{Name: "Operations", Allocation: 30},
		},
	}
}

func TestCharity_EffectiveThreshold(t *testing.T) {
	c := testCharity()
	assert.Equal(t, 2, c.EffectiveThreshold())

	c.IsMultiSig = false
	assert.Equal(t, 1, c.EffectiveThreshold())
}

func TestCharity_ValidateThreshold(t *testing.T) {
	c := testCharity()

	assert.NoError(t, c.ValidateThreshold(true, 2))
	assert.NoError(t, c.ValidateThreshold(true, 3)) // owner + 2 cosigners
	assert.ErrorIs(t, c.ValidateThreshold(true, 1), ErrThresholdTooLow)
	assert.ErrorIs(t, c.ValidateThreshold(true, 4), ErrThresholdTooHigh)
	assert.NoError(t, c.ValidateThreshold(false, 0))
}

func TestCharity_ResolveRole(t *testing.T) {
	c := testCharity()

	assert.Equal(t, CharityRoleOwner, c.ResolveRole(10, "owner@example.org"))
	assert.Equal(t, CharityRoleCosigner, c.ResolveRole(11, "ana@example.org"))
	assert.Equal(t, CharityRoleCosigner, c.ResolveRole(12, "BEN@example.org"))
	assert.Equal(t, CharityRoleNone, c.ResolveRole(13, "stranger@example.org"))
}

func TestCharity_CategoryByName(t *testing.T) {
	c := testCharity()

	bc := c.CategoryByName("Program Services")
	assert.NotNil(t, bc)
	assert.Equal(t, float64(60), bc.Allocation)
	assert.Nil(t, c.CategoryByName("Fundraising"))
}

func TestCharity_Allocation(t *testing.T) {
	c := testCharity()
	assert.InDelta(t, 90, c.AllocationTotal(), 0.001)
	assert.False(t, c.OverAllocated())

	c.BudgetCategories = append(c.BudgetCategories, BudgetCategory{Name: "Outreach", Allocation: 20})
	assert.True(t, c.OverAllocated())
}

func TestBudgetCategory_Allocated(t *testing.T) {
	bc := BudgetCategory{Allocation: 60}
	got := bc.Allocated(decimal.RequireFromString("1000"))
	assert.True(t, got.Equal(decimal.RequireFromString("600")), "got %s", got)
}
