package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestone_Gates(t *testing.T) {
	m := &Milestone{Status: MilestonePending, Amount: "200"}

	require.NoError(t, m.CanComplete())
	assert.ErrorIs(t, m.CanVerify(), ErrNotCompleted)
	assert.ErrorIs(t, m.CanRelease(), ErrNotVerified)

	m.Status = MilestoneCompleted
	assert.ErrorIs(t, m.CanComplete(), ErrMilestoneTerminal)
	assert.NoError(t, m.CanVerify())
	assert.ErrorIs(t, m.CanRelease(), ErrNotVerified)

	m.Status = MilestoneVerified
	assert.NoError(t, m.CanRelease())

	m.Status = MilestoneReleased
	assert.ErrorIs(t, m.CanRelease(), ErrNotVerified)
}

func TestMilestone_RejectedIsTerminal(t *testing.T) {
	m := &Milestone{Status: MilestoneRejected}
	assert.ErrorIs(t, m.CanComplete(), ErrMilestoneTerminal)
	assert.ErrorIs(t, m.CanVerify(), ErrNotCompleted)
	assert.ErrorIs(t, m.CanRelease(), ErrNotVerified)
}

func TestReleasedTotal(t *testing.T) {
	milestones := []Milestone{
		{Amount: "200", Status: MilestoneReleased},
		{Amount: "100", Status: MilestoneVerified},
		{Amount: "50", Status: MilestoneReleased},
	}
	assert.True(t, ReleasedTotal(milestones).Equal(decimal.RequireFromString("250")))
}

func TestCheckContainment(t *testing.T) {
	existing := []Milestone{
		{Amount: "200", Status: MilestonePending},
		{Amount: "100", Status: MilestoneRejected}, // rejected does not count
	}

	assert.NoError(t, CheckContainment("500", existing, decimal.RequireFromString("300")))
	assert.ErrorIs(t, CheckContainment("500", existing, decimal.RequireFromString("301")), ErrAmountExceedsPlan)
}

func TestCheckContainment_BadParentAmount(t *testing.T) {
	err := CheckContainment("", nil, decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
