package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeatureFlag gates platform behaviour per audience with a percentage
// rollout.
type FeatureFlag struct {
	gorm.Model
	Key            string `gorm:"uniqueIndex;not null"`
	Description    string
	Enabled        bool   `gorm:"default:false"`
	RolloutPercent int    `gorm:"default:100"`
	Audience       string `gorm:"default:'all'"`
	UpdatedBy      uint
}

// FeeScheduleModel is the persisted form of a fee schedule, one row per
// corridor. Validation happens at save time through the fees package.
type FeeScheduleModel struct {
	gorm.Model
	Corridor   string          `gorm:"uniqueIndex;not null"` // domestic | international
	Percentage decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	Fixed      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Minimum    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Maximum    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Currency   string          `gorm:"size:3;not null"`
	UpdatedBy  uint
}

// RateLimitRule configures request throttling for one scope, enforced by
// the rate-limit middleware against Redis counters.
type RateLimitRule struct {
	gorm.Model
	Scope         string `gorm:"uniqueIndex;not null"` // e.g. "admin-api", "webhooks"
	MaxRequests   int    `gorm:"not null"`
	WindowSeconds int    `gorm:"not null"`
	Enabled       bool   `gorm:"default:true"`
	UpdatedBy     uint
}
