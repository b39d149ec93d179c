package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type IntegrationRepository interface {
	Integrations() ([]models.APIIntegration, error)
	GetIntegration(provider, environment string) (*models.APIIntegration, error)
	SaveIntegration(integration *models.APIIntegration) error
	DeleteIntegration(id uint) error

	WebhookEndpoints(activeOnly bool) ([]models.WebhookEndpoint, error)
	GetWebhookEndpoint(id uint) (*models.WebhookEndpoint, error)
	SaveWebhookEndpoint(endpoint *models.WebhookEndpoint) error
	DeleteWebhookEndpoint(id uint) error

	RecordDelivery(delivery *models.WebhookDelivery) error
	Deliveries(endpointID uint, limit, offset int) ([]models.WebhookDelivery, int64, error)
}

type integrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) Integrations() ([]models.APIIntegration, error) {
	var integrations []models.APIIntegration
	err := r.db.Order("provider, environment").Find(&integrations).Error
	return integrations, err
}

func (r *integrationRepository) GetIntegration(provider, environment string) (*models.APIIntegration, error) {
	var integration models.APIIntegration
	err := r.db.Where("provider = ? AND environment = ?", provider, environment).
		First(&integration).Error
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *integrationRepository) SaveIntegration(integration *models.APIIntegration) error {
	return r.db.Save(integration).Error
}

func (r *integrationRepository) DeleteIntegration(id uint) error {
	return r.db.Delete(&models.APIIntegration{}, id).Error
}

func (r *integrationRepository) WebhookEndpoints(activeOnly bool) ([]models.WebhookEndpoint, error) {
	var endpoints []models.WebhookEndpoint
	q := r.db.Order("id")
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Find(&endpoints).Error
	return endpoints, err
}

func (r *integrationRepository) GetWebhookEndpoint(id uint) (*models.WebhookEndpoint, error) {
	var endpoint models.WebhookEndpoint
	if err := r.db.First(&endpoint, id).Error; err != nil {
		return nil, err
	}
	return &endpoint, nil
}

func (r *integrationRepository) SaveWebhookEndpoint(endpoint *models.WebhookEndpoint) error {
	return r.db.Save(endpoint).Error
}

func (r *integrationRepository) DeleteWebhookEndpoint(id uint) error {
	return r.db.Delete(&models.WebhookEndpoint{}, id).Error
}

func (r *integrationRepository) RecordDelivery(delivery *models.WebhookDelivery) error {
	return r.db.Create(delivery).Error
}

func (r *integrationRepository) Deliveries(endpointID uint, limit, offset int) ([]models.WebhookDelivery, int64, error) {
	var deliveries []models.WebhookDelivery
	var total int64

	q := r.db.Model(&models.WebhookDelivery{}).Where("endpoint_id = ?", endpointID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Limit(limit).Offset(offset).Order("created_at DESC").Find(&deliveries).Error
	return deliveries, total, err
}
