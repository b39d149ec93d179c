package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the read-only merchant view the scorer works from. Every
// section is optional; a nil section means the platform has no data for it
// and the corresponding component scores as maximally risky.
type Snapshot struct {
	MerchantID uint

	KYC          *KYCInfo
	RegisteredAt *time.Time
	Activity     *ActivityInfo
	Compliance   *ComplianceInfo

	// Flags are admin-set risk flags. An empty slice is a good sign, not
	// missing data.
	Flags []Flag
}

// KYCInfo summarises a merchant's verification state.
type KYCInfo struct {
	Status            string
	VerifiedDocuments int
	RequiredDocuments int
}

// KYC submission statuses as stored on the review queue.
const (
	KYCStatusPending  = "pending"
	KYCStatusReview   = "under_review"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// ActivityInfo summarises recent processing activity.
type ActivityInfo struct {
	MonthlyVolume decimal.Decimal
	MonthlyCount  int
}

// ComplianceInfo summarises sanctions screening and compliance review state.
type ComplianceInfo struct {
	SanctionsHit     bool
	OpenIssues       int
	LastReviewPassed bool
}

// Flag is an admin-set risk flag with a severity from 1 (note) to 5
// (freeze candidate).
type Flag struct {
	Severity int
	Reason   string
}
