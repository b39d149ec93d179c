// Package settings backs the system configuration screens: feature flags,
// fee schedules, and rate limit rules. Fee schedules are validated with
// the fees package at save time so bad configs never reach the calculator
// at charge time.
package settings

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"corepay/internal/config"
	"corepay/internal/models"
	"corepay/internal/money"
	"corepay/internal/repositories"
	"corepay/internal/services/fees"
)

type Service interface {
	FeeSchedule(corridor fees.Corridor) (fees.Schedule, error)
	SaveFeeSchedule(corridor fees.Corridor, schedule fees.Schedule, adminID uint) error
	PreviewFee(corridor fees.Corridor, amount money.Money) (money.Money, error)
	ResolveSchedule(corridor fees.Corridor, tier string, monthlyVolume decimal.Decimal) (fees.Schedule, error)

	FeatureFlags() ([]models.FeatureFlag, error)
	SaveFeatureFlag(flag *models.FeatureFlag) error
	DeleteFeatureFlag(key string) error

	RateLimitRules() ([]models.RateLimitRule, error)
	SaveRateLimitRule(rule *models.RateLimitRule) error
	DeleteRateLimitRule(scope string) error
}

type service struct {
	repo    repositories.SettingsRepository
	catalog repositories.CatalogRepository
	calc    *fees.Calculator
}

func NewService(repo repositories.SettingsRepository, catalog repositories.CatalogRepository) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		calc:    fees.NewCalculator(),
	}
}

// FeeSchedule returns the stored schedule for a corridor, falling back to
// the platform default when nothing has been saved yet.
func (s *service) FeeSchedule(corridor fees.Corridor) (fees.Schedule, error) {
	row, err := s.repo.GetFeeSchedule(string(corridor))
	if err == gorm.ErrRecordNotFound {
		if def, ok := config.DefaultFeeSchedules[string(corridor)]; ok {
			return defaultSchedule(def), nil
		}
		return fees.Schedule{}, fmt.Errorf("%w: %q", fees.ErrUnknownCorridor, corridor)
	}
	if err != nil {
		return fees.Schedule{}, err
	}
	return scheduleFromModel(row), nil
}

func (s *service) SaveFeeSchedule(corridor fees.Corridor, schedule fees.Schedule, adminID uint) error {
	if corridor != fees.CorridorDomestic && corridor != fees.CorridorInternational {
		return fmt.Errorf("%w: %q", fees.ErrUnknownCorridor, corridor)
	}
	if err := schedule.Validate(); err != nil {
		return err
	}

	return s.repo.SaveFeeSchedule(&models.FeeScheduleModel{
		Corridor:   string(corridor),
		Percentage: schedule.Percentage,
		Fixed:      schedule.Fixed.Amount,
		Minimum:    schedule.Minimum.Amount,
		Maximum:    schedule.Maximum.Amount,
		Currency:   schedule.Fixed.Currency,
		UpdatedBy:  adminID,
	})
}

// PreviewFee powers the example-calculation widget on the fees screen.
func (s *service) PreviewFee(corridor fees.Corridor, amount money.Money) (money.Money, error) {
	schedule, err := s.FeeSchedule(corridor)
	if err != nil {
		return money.Money{}, err
	}
	return s.calc.Compute(amount, schedule)
}

// ResolveSchedule returns the effective schedule for a merchant tier:
// the highest-priority enabled pricing rule whose volume floor the
// merchant clears, otherwise the corridor schedule.
func (s *service) ResolveSchedule(corridor fees.Corridor, tier string, monthlyVolume decimal.Decimal) (fees.Schedule, error) {
	rules, err := s.catalog.PricingRules(string(corridor))
	if err != nil {
		return fees.Schedule{}, err
	}
	for _, rule := range rules {
		if rule.Tier == tier && monthlyVolume.GreaterThanOrEqual(rule.VolumeFloor) {
			return fees.Schedule{
				Percentage: rule.Percentage,
				Fixed:      money.New(rule.Fixed, rule.Currency),
				Minimum:    money.New(rule.Minimum, rule.Currency),
				Maximum:    money.New(rule.Maximum, rule.Currency),
			}, nil
		}
	}
	return s.FeeSchedule(corridor)
}

func (s *service) FeatureFlags() ([]models.FeatureFlag, error) {
	return s.repo.FeatureFlags()
}

func (s *service) SaveFeatureFlag(flag *models.FeatureFlag) error {
	if flag.RolloutPercent < 0 || flag.RolloutPercent > 100 {
		return fmt.Errorf("rollout percent %d out of range", flag.RolloutPercent)
	}
	if existing, err := s.repo.GetFeatureFlag(flag.Key); err == nil {
		flag.ID = existing.ID
	}
	return s.repo.SaveFeatureFlag(flag)
}

func (s *service) DeleteFeatureFlag(key string) error {
	return s.repo.DeleteFeatureFlag(key)
}

func (s *service) RateLimitRules() ([]models.RateLimitRule, error) {
	return s.repo.RateLimitRules()
}

func (s *service) SaveRateLimitRule(rule *models.RateLimitRule) error {
	if rule.MaxRequests < 1 || rule.WindowSeconds < 1 {
		return fmt.Errorf("rate limit rule for %q must have positive limit and window", rule.Scope)
	}
	if existing, err := s.repo.GetRateLimitRule(rule.Scope); err == nil {
		rule.ID = existing.ID
	}
	return s.repo.SaveRateLimitRule(rule)
}

func (s *service) DeleteRateLimitRule(scope string) error {
	return s.repo.DeleteRateLimitRule(scope)
}

// defaultSchedule parses a platform seed schedule. The config literals are
// fixed decimal strings, so parsing cannot fail at runtime.
func defaultSchedule(def config.FeeScheduleDefault) fees.Schedule {
	return fees.Schedule{
		Percentage: decimal.RequireFromString(def.Percentage),
		Fixed:      money.New(decimal.RequireFromString(def.Fixed), def.Currency),
		Minimum:    money.New(decimal.RequireFromString(def.Minimum), def.Currency),
		Maximum:    money.New(decimal.RequireFromString(def.Maximum), def.Currency),
	}
}

func scheduleFromModel(row *models.FeeScheduleModel) fees.Schedule {
	return fees.Schedule{
		Percentage: row.Percentage,
		Fixed:      money.New(row.Fixed, row.Currency),
		Minimum:    money.New(row.Minimum, row.Currency),
		Maximum:    money.New(row.Maximum, row.Currency),
	}
}
