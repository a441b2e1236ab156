package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotPending      = errors.New("approval is no longer pending")
	ErrAlreadySigned   = errors.New("signer has already signed this approval")
	ErrBelowThreshold  = errors.New("approval has not collected enough signatures")
	ErrNotExecuted     = errors.New("approval has not been executed")
	ErrEmptyField      = errors.New("required field is empty")
	ErrNoDestination   = errors.New("no destination address could be resolved")
	ErrApprovalClosed  = errors.New("approval no longer accepts milestones")
	ErrUnknownCategory = errors.New("budget category does not exist")
)

// TransactionApproval is a proposed spend against a charity's pooled balance.
// RequiredSignatures is snapshotted from the charity's settings at creation
// and is unaffected by later threshold changes. Signers is the identity set
// backing CurrentSignatures; the count is never trusted over the set.
type TransactionApproval struct {
	Meta
	CharityID          uint           `json:"charityId"`
	Amount             string         `json:"amount"`
	Description        string         `json:"description"`
	Category           string         `json:"category"`
	Destination        string         `json:"destination"`
	RequestedByID      string         `json:"requestedById"`
	RequiredSignatures int            `json:"requiredSignatures"`
	CurrentSignatures  int            `json:"currentSignatures"`
	Status             ApprovalStatus `json:"status"`
	TxHash             string         `json:"txHash,omitempty"`
	Signers            []string       `json:"signers,omitempty"`
	Charity            *Charity       `json:"charity,omitempty"`
}

// HasSigned reports whether the given signer identity is already in the
// approval's signer set.
func (a *TransactionApproval) HasSigned(signerID string) bool {
	for _, s := range a.Signers {
		if s == signerID {
			return true
		}
	}
	return false
}

// CanSign gates a signature attempt: the approval must still be pending and
// the signer must not have signed before.
func (a *TransactionApproval) CanSign(signerID string) error {
	if a.Status != ApprovalPending {
		return fmt.Errorf("%w: status is %q", ErrNotPending, a.Status)
	}
	if a.HasSigned(signerID) {
		return ErrAlreadySigned
	}
	return nil
}

// ThresholdMet reports whether the collected signatures satisfy the
// snapshotted requirement.
func (a *TransactionApproval) ThresholdMet() bool {
	return a.CurrentSignatures >= a.RequiredSignatures
}

// CanExecute gates execution. The normal path requires status approved. An
// owner may also execute an approval still marked pending once the threshold
// is met; the persistence service flips pending to approved on the signature
// that meets it, but a stale read can leave the caller holding the older
// status. The relaxed path is owner-only.
func (a *TransactionApproval) CanExecute(role CharityRole) error {
	switch a.Status {
	case ApprovalApproved:
		return nil
	case ApprovalPending:
		if role == CharityRoleOwner && a.ThresholdMet() {
			return nil
		}
		return fmt.Errorf("%w: %d of %d", ErrBelowThreshold, a.CurrentSignatures, a.RequiredSignatures)
	default:
		return fmt.Errorf("%w: status is %q", ErrNotPending, a.Status)
	}
}

// CanRefund gates unspent-fund reclamation: only executed approvals carry
// committed funds to unwind.
func (a *TransactionApproval) CanRefund() error {
	if a.Status != ApprovalExecuted {
		return fmt.Errorf("%w: status is %q", ErrNotExecuted, a.Status)
	}
	return nil
}

// CanPlanMilestone gates milestone creation under this approval. A rejected
// approval never had funds committed and a refunded one has had them unwound;
// neither can back further milestones.
func (a *TransactionApproval) CanPlanMilestone() error {
	switch a.Status {
	case ApprovalRejected, ApprovalRefunded:
		return fmt.Errorf("%w: status is %q", ErrApprovalClosed, a.Status)
	}
	return nil
}
