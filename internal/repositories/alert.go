package repositories

import (
	"time"

	"corepay/internal/models"

	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(alert *models.Alert) error
	GetByID(id uint) (*models.Alert, error)
	List(limit, offset int, severity string, unacknowledgedOnly bool) ([]models.Alert, int64, error)
	Acknowledge(id, adminID uint) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepository) GetByID(id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) List(limit, offset int, severity string, unacknowledgedOnly bool) ([]models.Alert, int64, error) {
	var alerts []models.Alert
	var total int64

	q := r.db.Model(&models.Alert{})
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}
	if unacknowledgedOnly {
		q = q.Where("acknowledged = false")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Limit(limit).Offset(offset).Order("created_at DESC").Find(&alerts).Error
	return alerts, total, err
}

func (r *alertRepository) Acknowledge(id, adminID uint) error {
	now := time.Now()
	return r.db.Model(&models.Alert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"acknowledged":    true,
			"acknowledged_by": adminID,
			"acknowledged_at": now,
		}).Error
}
