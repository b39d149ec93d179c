package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is a back-office operator account. End customers never have
// rows here; they live in the payment platform's own stores.
type AdminUser struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Name                string `gorm:"not null"`
	Role                string `gorm:"default:'viewer'"`
	Status              string `gorm:"default:'active'"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
}

// Admin roles, weakest to strongest.
const (
	RoleViewer      = "viewer"
	RoleSupport     = "support"
	RoleRiskAnalyst = "risk_analyst"
	RoleCompliance  = "compliance_officer"
	RoleSuperAdmin  = "super_admin"
)
