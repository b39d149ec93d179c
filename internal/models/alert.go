package models

import (
	"time"

	"gorm.io/gorm"
)

// Alert is an operator-facing notification raised by the platform or by
// the risk/compliance services.
type Alert struct {
	gorm.Model
	Severity       string `gorm:"not null;index"`
	Source         string `gorm:"not null"`
	Message        string `gorm:"not null"`
	MerchantID     *uint  `gorm:"index"`
	Acknowledged   bool   `gorm:"default:false"`
	AcknowledgedBy uint
	AcknowledgedAt *time.Time
	Metadata       JSON `gorm:"type:jsonb"`
}

// Alert severities
const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)
