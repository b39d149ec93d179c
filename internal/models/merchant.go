package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Merchant struct {
	ID              uint   `gorm:"primarykey"`
	ExternalID      string `gorm:"uniqueIndex;not null"` // ID in the processing backend
	BusinessName    string `gorm:"not null"`
	BusinessType    string `gorm:"not null"`
	BusinessAddress string
	Country         string `gorm:"size:2"`
	RegisteredAt    *time.Time
	Status          string `gorm:"default:'pending'"`
	KYCStatus       string `gorm:"default:'pending'"`

	// OverrideRiskLevel is the operator-set level shown instead of the
	// computed one. The computed assessment itself is never persisted.
	OverrideRiskLevel string

	MonthlyVolume   decimal.Decimal `gorm:"type:numeric(18,2)"`
	MonthlyTxnCount int             `gorm:"default:0"`
	SettlementCcy   string          `gorm:"size:3;default:'USD'"`
	WebhookURL      string
	Metadata        JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RiskFlag is an admin-set flag against a merchant, severity 1-5.
type RiskFlag struct {
	gorm.Model
	MerchantID uint   `gorm:"index;not null"`
	Severity   int    `gorm:"not null"`
	Reason     string `gorm:"not null"`
	RaisedBy   uint   // AdminUser ID
	Resolved   bool   `gorm:"default:false"`
	ResolvedAt *time.Time
}

// ComplianceStatus tracks a merchant's screening state.
type ComplianceStatus struct {
	gorm.Model
	MerchantID       uint `gorm:"uniqueIndex;not null"`
	SanctionsHit     bool `gorm:"default:false"`
	OpenIssues       int  `gorm:"default:0"`
	LastReviewPassed bool `gorm:"default:false"`
	LastReviewedAt   *time.Time
	LastReviewedBy   uint
}
