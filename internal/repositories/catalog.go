package repositories

import (
	"time"

	"corepay/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository covers the reference-data screens: currencies,
// locations, tax rules and pricing rules.
type CatalogRepository interface {
	Currencies() ([]models.Currency, error)
	SaveCurrency(currency *models.Currency) error
	DeleteCurrency(code string) error

	Locations(limit, offset int) ([]models.Location, int64, error)
	SaveLocation(location *models.Location) error
	DeleteLocation(id uint) error

	TaxRules(jurisdiction string, at time.Time) ([]models.TaxRule, error)
	SaveTaxRule(rule *models.TaxRule) error
	DeleteTaxRule(id uint) error

	PricingRules(corridor string) ([]models.PricingRule, error)
	SavePricingRule(rule *models.PricingRule) error
	DeletePricingRule(id uint) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Currencies() ([]models.Currency, error) {
	var currencies []models.Currency
	err := r.db.Order("code").Find(&currencies).Error
	return currencies, err
}

func (r *catalogRepository) SaveCurrency(currency *models.Currency) error {
	var existing models.Currency
	err := r.db.Where("code = ?", currency.Code).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(currency).Error
	}
	if err != nil {
		return err
	}
	currency.ID = existing.ID
	return r.db.Save(currency).Error
}

func (r *catalogRepository) DeleteCurrency(code string) error {
	return r.db.Where("code = ?", code).Delete(&models.Currency{}).Error
}

func (r *catalogRepository) Locations(limit, offset int) ([]models.Location, int64, error) {
	var locations []models.Location
	var total int64

	if err := r.db.Model(&models.Location{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Limit(limit).Offset(offset).Order("country, region").Find(&locations).Error
	return locations, total, err
}

func (r *catalogRepository) SaveLocation(location *models.Location) error {
	return r.db.Save(location).Error
}

func (r *catalogRepository) DeleteLocation(id uint) error {
	return r.db.Delete(&models.Location{}, id).Error
}

func (r *catalogRepository) TaxRules(jurisdiction string, at time.Time) ([]models.TaxRule, error) {
	var rules []models.TaxRule
	q := r.db.Model(&models.TaxRule{})
	if jurisdiction != "" {
		q = q.Where("jurisdiction = ?", jurisdiction)
	}
	if !at.IsZero() {
		q = q.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to > ?)", at, at)
	}
	err := q.Order("jurisdiction, category").Find(&rules).Error
	return rules, err
}

func (r *catalogRepository) SaveTaxRule(rule *models.TaxRule) error {
	return r.db.Save(rule).Error
}

func (r *catalogRepository) DeleteTaxRule(id uint) error {
	return r.db.Delete(&models.TaxRule{}, id).Error
}

func (r *catalogRepository) PricingRules(corridor string) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	q := r.db.Where("enabled = true")
	if corridor != "" {
		q = q.Where("corridor = ?", corridor)
	}
	err := q.Order("priority DESC, id").Find(&rules).Error
	return rules, err
}

func (r *catalogRepository) SavePricingRule(rule *models.PricingRule) error {
	return r.db.Save(rule).Error
}

func (r *catalogRepository) DeletePricingRule(id uint) error {
	return r.db.Delete(&models.PricingRule{}, id).Error
}
