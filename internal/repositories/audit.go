package repositories

import (
	"log"

	"corepay/internal/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(entry *models.AuditEntry)
	List(limit, offset int, entityType string) ([]models.AuditEntry, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Append writes an audit entry. Audit failures are logged, not propagated;
// the admin action itself has already happened.
func (r *auditRepository) Append(entry *models.AuditEntry) {
	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("failed to write audit entry for %s/%d: %v", entry.EntityType, entry.EntityID, err)
	}
}

func (r *auditRepository) List(limit, offset int, entityType string) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry
	var total int64

	q := r.db.Model(&models.AuditEntry{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Limit(limit).Offset(offset).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
