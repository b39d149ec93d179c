package models

import (
	"time"

	"gorm.io/gorm"
)

// ComplianceReport is a generated summary for one reporting period.
type ComplianceReport struct {
	gorm.Model
	PeriodStart       time.Time `gorm:"not null"`
	PeriodEnd         time.Time `gorm:"not null"`
	GeneratedBy       uint      `gorm:"not null"`
	TotalMerchants    int
	HighRiskCount     int
	CriticalRiskCount int
	SanctionsHits     int
	OpenKYCCases      int
	Details           JSON `gorm:"type:jsonb"`
}

// AuditEntry records one mutating admin action.
type AuditEntry struct {
	gorm.Model
	ActorID    uint   `gorm:"index;not null"`
	Action     string `gorm:"not null"`
	EntityType string `gorm:"index;not null"`
	EntityID   uint   `gorm:"index"`
	Before     JSON   `gorm:"type:jsonb"`
	After      JSON   `gorm:"type:jsonb"`
	IP         string
}
