package domain

const (
	RoleSeeker   = "SEEKER"
	RoleProvider = "PROVIDER"
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusInProgress = "IN_PROGRESS"
	BookingStatusCompleted  = "COMPLETED"
	BookingStatusCancelled  = "CANCELLED"
)

const (
	BookingModeIncall  = "INCALL"  // at the provider's place
	BookingModeOutcall = "OUTCALL" // at the seeker's place
)

const (
	OTPPurposeSeeker      = "SEEKER_GENERATED"
	OTPPurposeProviderSMS = "PROVIDER_SMS"
)

const (
	PoolEmployee = "employee"
	PoolManager  = "manager"
)

const (
	WorkItemKindVerification = "VERIFICATION"
	WorkItemKindDispute      = "DISPUTE"
)

const (
	WorkItemStatusUnassigned = "UNASSIGNED"
	WorkItemStatusAssigned   = "ASSIGNED"
	WorkItemStatusResolved   = "RESOLVED"
)

const (
	VerificationTypeIdentity  = "IDENTITY"
	VerificationTypeProfile   = "PROFILE"
	VerificationTypeDocuments = "DOCUMENTS"
)

const (
	VerificationStatusPending  = "PENDING"
	VerificationStatusApproved = "APPROVED"
	VerificationStatusRejected = "REJECTED"
)

const (
	DisputeTypeNoShow         = "NO_SHOW"
	DisputeTypeServiceQuality = "SERVICE_QUALITY"
	DisputeTypePayment        = "PAYMENT"
	DisputeTypeBehavior       = "BEHAVIOR"
)

const (
	DisputeStatusOpen     = "OPEN"
	DisputeStatusResolved = "RESOLVED"
)

const (
	TxTypeEscrowHold    = "ESCROW_HOLD"
	TxTypeEscrowRelease = "ESCROW_RELEASE"
	TxTypeEarning       = "EARNING"
	TxTypeRefund        = "REFUND"
	TxTypePurchase      = "PURCHASE"
	TxTypeWithdrawal    = "WITHDRAWAL"
	TxTypeCompensation  = "COMPENSATION"
)

const (
	WithdrawalStatusPending   = "PENDING"
	WithdrawalStatusCompleted = "COMPLETED"
	WithdrawalStatusFailed    = "FAILED"
)
