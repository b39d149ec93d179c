// Package analytics aggregates back-office metrics for the dashboard
// screen. Results are cached in Redis for a short window; the numbers
// feed charts, not decisions that need to be current to the second.
package analytics

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"corepay/internal/models"
	"corepay/internal/money"
	"corepay/internal/repositories"
	"corepay/internal/repositories/cache"
	"corepay/internal/services/fees"
	"corepay/internal/services/merchantreview"
	"corepay/internal/services/risk"
	"corepay/internal/services/settings"
)

const (
	cacheKey = "analytics:overview"
	cacheTTL = 10 * time.Minute
)

// Overview is the dashboard aggregate.
type Overview struct {
	MerchantsByStatus map[string]int64 `json:"merchants_by_status"`
	RiskDistribution  map[string]int   `json:"risk_distribution"`
	TicketsByStatus   map[string]int64 `json:"tickets_by_status"`
	OpenAlerts        int64            `json:"open_alerts"`
	KYCQueueDepth     int64            `json:"kyc_queue_depth"`

	// EstimatedMonthlyFees applies the domestic schedule to every
	// merchant's monthly volume. An estimate for trend charts, not a
	// ledger figure.
	EstimatedMonthlyFees string `json:"estimated_monthly_fees"`

	GeneratedAt time.Time `json:"generated_at"`
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	db        *gorm.DB
	merchants repositories.MerchantRepository
	snapshots *merchantreview.SnapshotBuilder
	settings  settings.Service
	scorer    *risk.Scorer
	calc      *fees.Calculator
	cache     *cache.CacheService
}

func NewService(
	db *gorm.DB,
	merchants repositories.MerchantRepository,
	kycRepo repositories.KYCRepository,
	settingsSvc settings.Service,
	cacheSvc *cache.CacheService,
) Service {
	return &service{
		db:        db,
		merchants: merchants,
		snapshots: merchantreview.NewSnapshotBuilder(merchants, kycRepo),
		settings:  settingsSvc,
		scorer:    risk.NewScorer(),
		calc:      fees.NewCalculator(),
		cache:     cacheSvc,
	}
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	overview := &Overview{
		MerchantsByStatus: map[string]int64{},
		RiskDistribution:  map[string]int{},
		TicketsByStatus:   map[string]int64{},
		GeneratedAt:       time.Now().UTC(),
	}

	if err := s.countByColumn(&models.Merchant{}, "status", overview.MerchantsByStatus); err != nil {
		return nil, err
	}
	if err := s.countByColumn(&models.SupportTicket{}, "status", overview.TicketsByStatus); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Alert{}).
		Where("acknowledged = false").Count(&overview.OpenAlerts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.KYCSubmission{}).
		Where("status IN ?", []string{risk.KYCStatusPending, risk.KYCStatusReview}).
		Count(&overview.KYCQueueDepth).Error; err != nil {
		return nil, err
	}

	if err := s.scoreMerchants(overview); err != nil {
		return nil, err
	}

	if err := s.cache.SetWithTTL(ctx, cacheKey, overview, cacheTTL); err != nil {
		log.Printf("analytics: failed to cache overview: %v", err)
	}
	return overview, nil
}

func (s *service) countByColumn(model interface{}, column string, into map[string]int64) error {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := s.db.Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, r := range rows {
		into[r.Key] = r.Count
	}
	return nil
}

// scoreMerchants walks active merchants, bucketing each by computed risk
// level and summing an estimated fee take on their monthly volume. Each
// page loads its snapshot rows in bulk before scoring.
func (s *service) scoreMerchants(overview *Overview) error {
	const pageSize = 500
	schedule, err := s.settings.FeeSchedule(fees.CorridorDomestic)
	if err != nil {
		return err
	}

	totalFees := money.New(decimal.Zero, schedule.Fixed.Currency)
	for offset := 0; ; offset += pageSize {
		merchants, _, err := s.merchants.List(pageSize, offset, "")
		if err != nil {
			return err
		}
		if len(merchants) == 0 {
			break
		}
		snaps, err := s.snapshots.ForPage(merchants)
		if err != nil {
			return err
		}

		for i := range merchants {
			m := &merchants[i]
			assessment := s.scorer.Score(snaps[m.ID])
			overview.RiskDistribution[string(assessment.Level)]++

			if m.SettlementCcy != schedule.Fixed.Currency {
				continue
			}
			fee, err := s.calc.Compute(money.New(m.MonthlyVolume, m.SettlementCcy), schedule)
			if err != nil {
				continue
			}
			if sum, err := totalFees.Add(fee); err == nil {
				totalFees = sum
			}
		}
		if len(merchants) < pageSize {
			break
		}
	}

	overview.EstimatedMonthlyFees = totalFees.String()
	return nil
}
