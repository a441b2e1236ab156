package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotCompleted      = errors.New("milestone must be completed before verification")
	ErrNotVerified       = errors.New("milestone must be verified before releasing funds")
	ErrMilestoneTerminal = errors.New("milestone is in a terminal state")
	ErrAmountExceedsPlan = errors.New("milestone amounts exceed the approval amount")
	ErrProofRequired     = errors.New("verification proof is required")
)

// Milestone is a conditional sub-disbursement of an approval's committed
// funds. Status only advances pending -> completed -> verified -> released;
// a cosigner rejection from completed is terminal.
type Milestone struct {
	Meta
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	ApprovalID        uint            `json:"approvalId"`
	Amount            string          `json:"amount"`
	DueDate           time.Time       `json:"dueDate"`
	CompletionDate    *time.Time      `json:"completionDate,omitempty"`
	Status            MilestoneStatus `json:"status"`
	VerificationProof string          `json:"verificationProof,omitempty"`
	TxHash            string          `json:"txHash,omitempty"`
}

// MilestoneVerification is an append-only log entry recording a cosigner's
// verdict on a completed milestone.
type MilestoneVerification struct {
	Meta
	MilestoneID uint               `json:"milestoneId"`
	VerifierID  string             `json:"verifierId"`
	Comments    string             `json:"comments"`
	Status      VerificationStatus `json:"status"`
}

// CanComplete gates the owner's completion step.
func (m *Milestone) CanComplete() error {
	if m.Status != MilestonePending {
		return fmt.Errorf("%w: status is %q", ErrMilestoneTerminal, m.Status)
	}
	return nil
}

// CanVerify gates a cosigner verdict: only completed milestones are open for
// verification.
func (m *Milestone) CanVerify() error {
	if m.Status != MilestoneCompleted {
		return fmt.Errorf("%w: status is %q", ErrNotCompleted, m.Status)
	}
	return nil
}

// CanRelease gates the fund release: the status must be exactly verified.
func (m *Milestone) CanRelease() error {
	if m.Status != MilestoneVerified {
		return fmt.Errorf("%w: status is %q", ErrNotVerified, m.Status)
	}
	return nil
}

// ReleasedTotal sums the amounts of released milestones.
func ReleasedTotal(milestones []Milestone) decimal.Decimal {
	var released []string
	for _, m := range milestones {
		if m.Status == MilestoneReleased {
			released = append(released, m.Amount)
		}
	}
	return SumAmounts(released)
}

// CheckContainment verifies that the existing milestone amounts plus a new
// candidate amount stay within the parent approval's amount.
func CheckContainment(approvalAmount string, milestones []Milestone, candidate decimal.Decimal) error {
	parent, err := ParseAmount(approvalAmount)
	if err != nil {
		return err
	}
	var existing []string
	for _, m := range milestones {
		if m.Status != MilestoneRejected {
			existing = append(existing, m.Amount)
		}
	}
	total := SumAmounts(existing).Add(candidate)
	if total.GreaterThan(parent) {
		return fmt.Errorf("%w: %s committed of %s", ErrAmountExceedsPlan, total.String(), parent.String())
	}
	return nil
}
