package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Currency is a platform-supported settlement currency.
type Currency struct {
	gorm.Model
	Code        string          `gorm:"uniqueIndex;size:3;not null"`
	Name        string          `gorm:"not null"`
	MinorUnits  int             `gorm:"default:2"`
	Enabled     bool            `gorm:"default:true"`
	DisplayRate decimal.Decimal `gorm:"type:numeric(18,8)"` // vs USD, display only
	UpdatedBy   uint
}

// Location is a supported operating country/region.
type Location struct {
	gorm.Model
	Country   string `gorm:"size:2;not null;uniqueIndex:idx_location"`
	Region    string `gorm:"uniqueIndex:idx_location"`
	Timezone  string
	Supported bool `gorm:"default:true"`
	UpdatedBy uint
}

// TaxRule applies a percentage tax in one jurisdiction and category.
type TaxRule struct {
	gorm.Model
	Jurisdiction  string          `gorm:"size:2;not null;index"`
	Category      string          `gorm:"not null"`
	RatePercent   decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	EffectiveFrom time.Time       `gorm:"not null"`
	EffectiveTo   *time.Time
	UpdatedBy     uint
}

// ActiveAt reports whether the rule applies at the given time.
func (r *TaxRule) ActiveAt(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || t.Before(*r.EffectiveTo)
}

// PricingRule overrides the corridor fee schedule for a merchant tier once
// its monthly volume clears the floor. Higher-priority rules win.
type PricingRule struct {
	gorm.Model
	Name        string          `gorm:"not null"`
	Tier        string          `gorm:"not null;index"`
	Corridor    string          `gorm:"not null"`
	VolumeFloor decimal.Decimal `gorm:"type:numeric(18,2)"`
	Priority    int             `gorm:"default:0"`
	Enabled     bool            `gorm:"default:true"`

	Percentage decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	Fixed      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Minimum    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Maximum    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Currency   string          `gorm:"size:3;not null"`
	UpdatedBy  uint
}
