package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type AdminUserRepository interface {
	GetByID(id uint) (*models.AdminUser, error)
	GetByEmail(email string) (*models.AdminUser, error)
	Create(admin *models.AdminUser) error
	Update(admin *models.AdminUser) error
	Delete(id uint) error
	List(limit, offset int) ([]models.AdminUser, int64, error)
	IncrementTokenVersion(id uint) error
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) GetByID(id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminUserRepository) Create(admin *models.AdminUser) error {
	return r.db.Create(admin).Error
}

func (r *adminUserRepository) Update(admin *models.AdminUser) error {
	return r.db.Save(admin).Error
}

func (r *adminUserRepository) Delete(id uint) error {
	return r.db.Delete(&models.AdminUser{}, id).Error
}

func (r *adminUserRepository) List(limit, offset int) ([]models.AdminUser, int64, error) {
	var admins []models.AdminUser
	var total int64

	if err := r.db.Model(&models.AdminUser{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&admins).Error
	return admins, total, err
}

func (r *adminUserRepository) IncrementTokenVersion(id uint) error {
	return r.db.Model(&models.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}
