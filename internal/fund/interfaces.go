package fund

import (
	"context"
	"errors"
	"time"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/keystore"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

var (
	// ErrForbidden is the local pre-gate for operations the caller's
	// resolved role does not permit. The persistence service re-validates;
	// this only saves a doomed round trip.
	ErrForbidden = errors.New("caller lacks the required role for this operation")

	ErrPrimaryCosignerExists = errors.New("charity already has a primary cosigner")
	ErrDuplicateCategory     = errors.New("budget category name already exists")
	ErrAllocationRange       = errors.New("allocation must be between 0 and 100")
)

// Ledger is the value-transfer oracle the governance services submit
// payments through. Implemented by ledger.Client; tests substitute a fake.
type Ledger interface {
	ValidAddress(addr string) bool
	AccountExists(ctx context.Context, addr string) (bool, error)
	NativeBalance(ctx context.Context, addr string) (string, error)
	Pay(ctx context.Context, p ledger.PaymentParams) (string, error)
	Transactions(ctx context.Context, addr string) ([]ledger.TxRecord, error)
}

// SecretSource resolves signing seeds for ledger accounts the caller
// controls. Implemented by keystore.Store.
type SecretSource interface {
	Seed(ctx context.Context, address string) (string, error)
}

// ReceiptSink caches completed donations for offline tax reporting.
// Implemented by keystore.Store.
type ReceiptSink interface {
	SaveReceipt(ctx context.Context, r keystore.Receipt) error
	Summarize(ctx context.Context, donorID string, year int) (*keystore.TaxSummary, error)
}

// CreateApprovalRequest carries the caller's input for a new spending
// request against a charity's pooled balance.
type CreateApprovalRequest struct {
	Amount      string
	Description string
	Category    string
	Destination string
}

// ExecuteResult is the outcome of executing an approval: the authoritative
// post-execution entity and the ledger transaction hash.
type ExecuteResult struct {
	Approval *domain.TransactionApproval
	TxHash   string
}

// RefundResult is the outcome of reclaiming an executed approval's unspent
// remainder. RefundAmount comes from the persistence service. Settled
// reports whether the ledger payment back to the main wallet went through;
// it is false when the client holds no signing key for the escrow account.
type RefundResult struct {
	RefundAmount float64
	Approval     *domain.TransactionApproval
	TxHash       string
	Settled      bool
}

type ApprovalService interface {
	ListPending(ctx context.Context, charityID uint) ([]domain.TransactionApproval, error)
	Create(ctx context.Context, charityID uint, req CreateApprovalRequest) (*domain.TransactionApproval, error)
	Sign(ctx context.Context, charityID, approvalID uint) (*domain.TransactionApproval, error)
	Execute(ctx context.Context, charityID, approvalID uint) (*ExecuteResult, error)
	Refund(ctx context.Context, charityID, approvalID uint) (*RefundResult, error)
}

type CosignerService interface {
	Add(ctx context.Context, charityID uint, email, userID string, isPrimary bool) (*domain.Cosigner, error)
	Remove(ctx context.Context, charityID, cosignerID uint) error
	UpdateMultiSig(ctx context.Context, charityID uint, enabled bool, requiredSignatures int) (*domain.Charity, error)
}

// CategoryView is a derived display row for one budget category at the
// charity's current pooled balance. Never persisted.
type CategoryView struct {
	Category  domain.BudgetCategory
	Allocated string // balance x allocation%
	Remaining string // allocated minus spent, floored at zero display-side
}

// BudgetOverview combines the live ledger balance with the charity's
// category allocations and spend history.
type BudgetOverview struct {
	Balance         string
	Categories      []CategoryView
	AllocationTotal float64
	OverAllocated   bool
}

type BudgetService interface {
	Add(ctx context.Context, charityID uint, name string, allocation float64) (*domain.BudgetCategory, error)
	Update(ctx context.Context, charityID, categoryID uint, name string, allocation float64) (*domain.BudgetCategory, error)
	Delete(ctx context.Context, charityID, categoryID uint) error
	Overview(ctx context.Context, charityID uint) (*BudgetOverview, error)
}

// CreateMilestoneRequest carries the caller's input for a conditional
// sub-disbursement attached to an approval.
type CreateMilestoneRequest struct {
	Name        string
	Description string
	Amount      string
	DueDate     time.Time
}

// ReleaseOutcome is the result of releasing a verified milestone's funds.
type ReleaseOutcome struct {
	Milestone *domain.Milestone
	TxHash    string
}

type MilestoneService interface {
	List(ctx context.Context, approvalID uint) ([]domain.Milestone, error)
	Create(ctx context.Context, charityID, approvalID uint, req CreateMilestoneRequest) (*domain.Milestone, error)
	Complete(ctx context.Context, charityID, approvalID, milestoneID uint, proof string) (*domain.Milestone, error)
	Verify(ctx context.Context, charityID, approvalID, milestoneID uint, comments string, verdict domain.VerificationStatus) (*api.VerifyResult, error)
	Release(ctx context.Context, charityID, approvalID, milestoneID uint) (*ReleaseOutcome, error)
}

// DonateRequest carries the caller's input for a direct donation.
type DonateRequest struct {
	CharityID uint
	Amount    string
	Message   string
	Category  string
}

// DonationResult is the outcome of a direct donation: the ledger hash, the
// persisted record, and the issued certificate when minting succeeded.
type DonationResult struct {
	TxHash      string
	Donation    *domain.Donation
	Certificate *domain.Certificate
}

// DonationFilter narrows a donation listing. The persistence service serves
// one unfiltered list endpoint, so filtering happens client-side. Zero value
// means no filtering.
type DonationFilter struct {
	CharityID uint // keep only donations to this charity
	Mine      bool // keep only the caller's own donations
}

type DonationService interface {
	Donate(ctx context.Context, req DonateRequest) (*DonationResult, error)
	List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error)
	History(ctx context.Context) ([]ledger.TxRecord, error)
	TaxSummary(ctx context.Context, year int) (*keystore.TaxSummary, error)
}
