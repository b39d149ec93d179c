package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type KYCRepository interface {
	GetSubmission(id uint) (*models.KYCSubmission, error)
	LatestForMerchant(merchantID uint) (*models.KYCSubmission, error)
	LatestForMerchants(merchantIDs []uint) (map[uint]models.KYCSubmission, error)
	Queue(limit, offset int, status string) ([]models.KYCSubmission, int64, error)
	UpdateSubmission(sub *models.KYCSubmission) error
	UpdateDocument(doc *models.KYCDocument) error
	GetDocument(id uint) (*models.KYCDocument, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) GetSubmission(id uint) (*models.KYCSubmission, error) {
	var sub models.KYCSubmission
	if err := r.db.Preload("Documents").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *kycRepository) LatestForMerchant(merchantID uint) (*models.KYCSubmission, error) {
	var sub models.KYCSubmission
	err := r.db.Preload("Documents").
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// LatestForMerchants loads the newest submission per merchant for a page
// of merchants in one query, keyed by merchant ID.
func (r *kycRepository) LatestForMerchants(merchantIDs []uint) (map[uint]models.KYCSubmission, error) {
	latest := make(map[uint]models.KYCSubmission, len(merchantIDs))
	if len(merchantIDs) == 0 {
		return latest, nil
	}
	var subs []models.KYCSubmission
	err := r.db.Preload("Documents").
		Where("merchant_id IN ?", merchantIDs).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if _, ok := latest[sub.MerchantID]; !ok {
			latest[sub.MerchantID] = sub
		}
	}
	return latest, nil
}

func (r *kycRepository) Queue(limit, offset int, status string) ([]models.KYCSubmission, int64, error) {
	var subs []models.KYCSubmission
	var total int64

	q := r.db.Model(&models.KYCSubmission{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Documents").Limit(limit).Offset(offset).Order("created_at").Find(&subs).Error
	return subs, total, err
}

func (r *kycRepository) UpdateSubmission(sub *models.KYCSubmission) error {
	return r.db.Save(sub).Error
}

func (r *kycRepository) UpdateDocument(doc *models.KYCDocument) error {
	return r.db.Save(doc).Error
}

func (r *kycRepository) GetDocument(id uint) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
