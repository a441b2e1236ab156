package domain

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalExecuted ApprovalStatus = "executed"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalRefunded ApprovalStatus = "refunded"
)

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneCompleted MilestoneStatus = "completed"
	MilestoneVerified  MilestoneStatus = "verified"
	MilestoneReleased  MilestoneStatus = "released"
	MilestoneRejected  MilestoneStatus = "rejected"
)

type VerificationStatus string

const (
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationPending   DonationStatus = "pending"
	DonationFailed    DonationStatus = "failed"
)

type UserRole string

const (
	RoleUser         UserRole = "USER"
	RoleCharityOwner UserRole = "CHARITY_OWNER"
)

// CharityRole is a caller's capability with respect to a single charity.
// Every governance operation is gated on the resolved role rather than on
// scattered owner-id comparisons.
type CharityRole string

const (
	CharityRoleOwner    CharityRole = "owner"
	CharityRoleCosigner CharityRole = "cosigner"
	CharityRoleNone     CharityRole = "none"
)
