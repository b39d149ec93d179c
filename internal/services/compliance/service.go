// Package compliance generates periodic compliance reports and exports
// them for regulators. Reports are point-in-time snapshots: the counts
// are computed at generation and persisted, so two reports over the same
// period can legitimately differ.
package compliance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/merchantreview"
	"corepay/internal/services/risk"
)

type Service interface {
	Generate(periodStart, periodEnd time.Time, adminID uint) (*models.ComplianceReport, error)
	Get(id uint) (*models.ComplianceReport, error)
	List(limit, offset int) ([]models.ComplianceReport, int64, error)
	ExportCSV(id uint) ([]byte, string, error)
}

type service struct {
	db        *gorm.DB
	reports   repositories.ComplianceRepository
	merchants repositories.MerchantRepository
	snapshots *merchantreview.SnapshotBuilder
	scorer    *risk.Scorer
}

func NewService(
	db *gorm.DB,
	reports repositories.ComplianceRepository,
	merchants repositories.MerchantRepository,
	kycRepo repositories.KYCRepository,
	scorer *risk.Scorer,
) Service {
	return &service{
		db:        db,
		reports:   reports,
		merchants: merchants,
		snapshots: merchantreview.NewSnapshotBuilder(merchants, kycRepo),
		scorer:    scorer,
	}
}

// Generate scores every merchant registered before the period end and
// persists the aggregate counts.
func (s *service) Generate(periodStart, periodEnd time.Time, adminID uint) (*models.ComplianceReport, error) {
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("period end %s is not after period start %s",
			periodEnd.Format(time.RFC3339), periodStart.Format(time.RFC3339))
	}

	report := &models.ComplianceReport{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedBy: adminID,
	}

	highRiskMerchants := []map[string]interface{}{}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		merchants, _, err := s.merchants.List(pageSize, offset, "")
		if err != nil {
			return nil, err
		}
		if len(merchants) == 0 {
			break
		}
		snaps, err := s.snapshots.ForPage(merchants)
		if err != nil {
			return nil, err
		}

		for i := range merchants {
			m := &merchants[i]
			if m.CreatedAt.After(periodEnd) {
				continue
			}
			report.TotalMerchants++

			snap := snaps[m.ID]
			assessment := s.scorer.Score(snap)

			switch assessment.Level {
			case risk.LevelCritical:
				report.CriticalRiskCount++
			case risk.LevelHigh:
				report.HighRiskCount++
			}
			if snap.Compliance != nil && snap.Compliance.SanctionsHit {
				report.SanctionsHits++
			}

			if assessment.Level == risk.LevelHigh || assessment.Level == risk.LevelCritical {
				highRiskMerchants = append(highRiskMerchants, map[string]interface{}{
					"merchant_id":   m.ID,
					"business_name": m.BusinessName,
					"score":         assessment.TotalScore,
					"level":         string(assessment.Level),
					"factors":       assessment.Factors,
				})
			}
		}
		if len(merchants) < pageSize {
			break
		}
	}

	var openCases int64
	err := s.db.Model(&models.KYCSubmission{}).
		Where("status IN ?", []string{risk.KYCStatusPending, risk.KYCStatusReview}).
		Where("created_at <= ?", periodEnd).
		Count(&openCases).Error
	if err != nil {
		return nil, err
	}
	report.OpenKYCCases = int(openCases)
	report.Details = models.JSON{"high_risk_merchants": highRiskMerchants}

	if err := s.reports.CreateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *service) Get(id uint) (*models.ComplianceReport, error) {
	return s.reports.GetReport(id)
}

func (s *service) List(limit, offset int) ([]models.ComplianceReport, int64, error) {
	return s.reports.ListReports(limit, offset)
}

// ExportCSV renders a stored report as CSV. Returns the file contents
// and a suggested filename.
func (s *service) ExportCSV(id uint) ([]byte, string, error) {
	report, err := s.reports.GetReport(id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric", "value"},
		{"period_start", report.PeriodStart.Format("2006-01-02")},
		{"period_end", report.PeriodEnd.Format("2006-01-02")},
		{"total_merchants", strconv.Itoa(report.TotalMerchants)},
		{"high_risk_count", strconv.Itoa(report.HighRiskCount)},
		{"critical_risk_count", strconv.Itoa(report.CriticalRiskCount)},
		{"sanctions_hits", strconv.Itoa(report.SanctionsHits)},
		{"open_kyc_cases", strconv.Itoa(report.OpenKYCCases)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}

	if raw, ok := report.Details["high_risk_merchants"].([]interface{}); ok && len(raw) > 0 {
		w.Write([]string{})
		w.Write([]string{"merchant_id", "business_name", "score", "level"})
		for _, entry := range raw {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			w.Write([]string{
				fmt.Sprintf("%v", m["merchant_id"]),
				fmt.Sprintf("%v", m["business_name"]),
				fmt.Sprintf("%v", m["score"]),
				fmt.Sprintf("%v", m["level"]),
			})
		}
		w.Flush()
	}
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("compliance-report-%d-%s.csv", report.ID, report.PeriodEnd.Format("20060102"))
	return buf.Bytes(), filename, nil
}
