package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository interface {
	GetByID(id uint) (*models.Merchant, error)
	Update(merchant *models.Merchant) error
	List(limit, offset int, status string) ([]models.Merchant, int64, error)

	ActiveFlags(merchantID uint) ([]models.RiskFlag, error)
	ActiveFlagsForMerchants(merchantIDs []uint) (map[uint][]models.RiskFlag, error)
	CreateFlag(flag *models.RiskFlag) error
	ResolveFlag(flagID uint) error

	ComplianceStatus(merchantID uint) (*models.ComplianceStatus, error)
	ComplianceStatuses(merchantIDs []uint) (map[uint]models.ComplianceStatus, error)
	UpsertComplianceStatus(status *models.ComplianceStatus) error
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.First(&merchant, id).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) Update(merchant *models.Merchant) error {
	return r.db.Save(merchant).Error
}

func (r *merchantRepository) List(limit, offset int, status string) ([]models.Merchant, int64, error) {
	var merchants []models.Merchant
	var total int64

	q := r.db.Model(&models.Merchant{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Limit(limit).Offset(offset).Order("id").Find(&merchants).Error
	return merchants, total, err
}

func (r *merchantRepository) ActiveFlags(merchantID uint) ([]models.RiskFlag, error) {
	var flags []models.RiskFlag
	err := r.db.Where("merchant_id = ? AND resolved = false", merchantID).
		Order("severity DESC").Find(&flags).Error
	return flags, err
}

// ActiveFlagsForMerchants loads unresolved flags for a whole page of
// merchants in one query, keyed by merchant ID.
func (r *merchantRepository) ActiveFlagsForMerchants(merchantIDs []uint) (map[uint][]models.RiskFlag, error) {
	byMerchant := make(map[uint][]models.RiskFlag, len(merchantIDs))
	if len(merchantIDs) == 0 {
		return byMerchant, nil
	}
	var flags []models.RiskFlag
	err := r.db.Where("merchant_id IN ? AND resolved = false", merchantIDs).
		Order("severity DESC").Find(&flags).Error
	if err != nil {
		return nil, err
	}
	for _, f := range flags {
		byMerchant[f.MerchantID] = append(byMerchant[f.MerchantID], f)
	}
	return byMerchant, nil
}

func (r *merchantRepository) CreateFlag(flag *models.RiskFlag) error {
	return r.db.Create(flag).Error
}

func (r *merchantRepository) ResolveFlag(flagID uint) error {
	return r.db.Model(&models.RiskFlag{}).
		Where("id = ?", flagID).
		Updates(map[string]interface{}{"resolved": true, "resolved_at": gorm.Expr("NOW()")}).Error
}

func (r *merchantRepository) ComplianceStatus(merchantID uint) (*models.ComplianceStatus, error) {
	var status models.ComplianceStatus
	if err := r.db.Where("merchant_id = ?", merchantID).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *merchantRepository) ComplianceStatuses(merchantIDs []uint) (map[uint]models.ComplianceStatus, error) {
	byMerchant := make(map[uint]models.ComplianceStatus, len(merchantIDs))
	if len(merchantIDs) == 0 {
		return byMerchant, nil
	}
	var statuses []models.ComplianceStatus
	if err := r.db.Where("merchant_id IN ?", merchantIDs).Find(&statuses).Error; err != nil {
		return nil, err
	}
	for _, s := range statuses {
		byMerchant[s.MerchantID] = s
	}
	return byMerchant, nil
}

func (r *merchantRepository) UpsertComplianceStatus(status *models.ComplianceStatus) error {
	var existing models.ComplianceStatus
	err := r.db.Where("merchant_id = ?", status.MerchantID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(status).Error
	}
	if err != nil {
		return err
	}
	status.ID = existing.ID
	return r.db.Save(status).Error
}
