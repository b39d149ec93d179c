package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type ComplianceRepository interface {
	CreateReport(report *models.ComplianceReport) error
	GetReport(id uint) (*models.ComplianceReport, error)
	ListReports(limit, offset int) ([]models.ComplianceReport, int64, error)
}

type complianceRepository struct {
	db *gorm.DB
}

func NewComplianceRepository(db *gorm.DB) ComplianceRepository {
	return &complianceRepository{db: db}
}

func (r *complianceRepository) CreateReport(report *models.ComplianceReport) error {
	return r.db.Create(report).Error
}

func (r *complianceRepository) GetReport(id uint) (*models.ComplianceReport, error) {
	var report models.ComplianceReport
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *complianceRepository) ListReports(limit, offset int) ([]models.ComplianceReport, int64, error) {
	var reports []models.ComplianceReport
	var total int64

	if err := r.db.Model(&models.ComplianceReport{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&reports).Error
	return reports, total, err
}
