// Package merchantreview backs the merchant risk screen: it assembles
// snapshots from persisted merchant data, scores them on demand, and
// manages risk flags and level overrides.
package merchantreview

import (
	"errors"
	"fmt"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/risk"
	"corepay/internal/services/webhook"
)

var ErrInvalidSeverity = errors.New("flag severity must be between 1 and 5")

// Detail is the risk view for one merchant: the stored record plus the
// freshly computed assessment. Assessments are never persisted; only the
// operator's override level lives on the merchant row.
type Detail struct {
	Merchant   *models.Merchant  `json:"merchant"`
	Assessment risk.Assessment   `json:"assessment"`
	Flags      []models.RiskFlag `json:"flags"`
}

type Service interface {
	RiskDetail(merchantID uint) (*Detail, error)
	SetOverrideLevel(merchantID uint, level string, adminID uint) error
	AddFlag(merchantID uint, severity int, reason string, adminID uint) (*models.RiskFlag, error)
	ResolveFlag(flagID uint) error
}

type service struct {
	merchants  repositories.MerchantRepository
	snapshots  *SnapshotBuilder
	scorer     *risk.Scorer
	dispatcher *webhook.Dispatcher
}

func NewService(
	merchants repositories.MerchantRepository,
	kyc repositories.KYCRepository,
	scorer *risk.Scorer,
	dispatcher *webhook.Dispatcher,
) Service {
	return &service{
		merchants:  merchants,
		snapshots:  NewSnapshotBuilder(merchants, kyc),
		scorer:     scorer,
		dispatcher: dispatcher,
	}
}

func (s *service) RiskDetail(merchantID uint) (*Detail, error) {
	merchant, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return nil, fmt.Errorf("merchant %d: %w", merchantID, err)
	}

	flags, err := s.merchants.ActiveFlags(merchantID)
	if err != nil {
		return nil, fmt.Errorf("flags for merchant %d: %w", merchantID, err)
	}

	snapshot := s.snapshots.ForMerchant(merchant, flags)
	assessment := s.scorer.Score(snapshot)

	return &Detail{
		Merchant:   merchant,
		Assessment: assessment,
		Flags:      flags,
	}, nil
}

func (s *service) SetOverrideLevel(merchantID uint, level string, adminID uint) error {
	switch risk.Level(level) {
	case risk.LevelLow, risk.LevelMedium, risk.LevelHigh, risk.LevelCritical:
	case "":
		// clearing the override is allowed
	default:
		return fmt.Errorf("unknown risk level %q", level)
	}

	merchant, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return err
	}
	previous := merchant.OverrideRiskLevel
	merchant.OverrideRiskLevel = level
	if err := s.merchants.Update(merchant); err != nil {
		return err
	}

	if level != previous && level != "" {
		// Endpoints filter on a minimum risk score, so the event carries the
		// new level's band floor as its representative score.
		s.dispatcher.DispatchAsync(webhook.EventRiskLevelChanged, risk.Level(level).Floor(), map[string]interface{}{
			"merchant_id":   merchant.ID,
			"business_name": merchant.BusinessName,
			"level":         level,
			"set_by":        adminID,
		})
	}
	return nil
}

func (s *service) AddFlag(merchantID uint, severity int, reason string, adminID uint) (*models.RiskFlag, error) {
	if severity < 1 || severity > 5 {
		return nil, ErrInvalidSeverity
	}
	if _, err := s.merchants.GetByID(merchantID); err != nil {
		return nil, err
	}

	flag := &models.RiskFlag{
		MerchantID: merchantID,
		Severity:   severity,
		Reason:     reason,
		RaisedBy:   adminID,
	}
	if err := s.merchants.CreateFlag(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

func (s *service) ResolveFlag(flagID uint) error {
	return s.merchants.ResolveFlag(flagID)
}
