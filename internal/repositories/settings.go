package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	FeatureFlags() ([]models.FeatureFlag, error)
	GetFeatureFlag(key string) (*models.FeatureFlag, error)
	SaveFeatureFlag(flag *models.FeatureFlag) error
	DeleteFeatureFlag(key string) error

	FeeSchedules() ([]models.FeeScheduleModel, error)
	GetFeeSchedule(corridor string) (*models.FeeScheduleModel, error)
	SaveFeeSchedule(schedule *models.FeeScheduleModel) error

	RateLimitRules() ([]models.RateLimitRule, error)
	GetRateLimitRule(scope string) (*models.RateLimitRule, error)
	SaveRateLimitRule(rule *models.RateLimitRule) error
	DeleteRateLimitRule(scope string) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FeatureFlags() ([]models.FeatureFlag, error) {
	var flags []models.FeatureFlag
	err := r.db.Order("key").Find(&flags).Error
	return flags, err
}

func (r *settingsRepository) GetFeatureFlag(key string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	if err := r.db.Where("key = ?", key).First(&flag).Error; err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *settingsRepository) SaveFeatureFlag(flag *models.FeatureFlag) error {
	return r.db.Save(flag).Error
}

func (r *settingsRepository) DeleteFeatureFlag(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.FeatureFlag{}).Error
}

func (r *settingsRepository) FeeSchedules() ([]models.FeeScheduleModel, error) {
	var schedules []models.FeeScheduleModel
	err := r.db.Order("corridor").Find(&schedules).Error
	return schedules, err
}

func (r *settingsRepository) GetFeeSchedule(corridor string) (*models.FeeScheduleModel, error) {
	var schedule models.FeeScheduleModel
	if err := r.db.Where("corridor = ?", corridor).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *settingsRepository) SaveFeeSchedule(schedule *models.FeeScheduleModel) error {
	var existing models.FeeScheduleModel
	err := r.db.Where("corridor = ?", schedule.Corridor).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(schedule).Error
	}
	if err != nil {
		return err
	}
	schedule.ID = existing.ID
	return r.db.Save(schedule).Error
}

func (r *settingsRepository) RateLimitRules() ([]models.RateLimitRule, error) {
	var rules []models.RateLimitRule
	err := r.db.Order("scope").Find(&rules).Error
	return rules, err
}

func (r *settingsRepository) GetRateLimitRule(scope string) (*models.RateLimitRule, error) {
	var rule models.RateLimitRule
	if err := r.db.Where("scope = ?", scope).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *settingsRepository) SaveRateLimitRule(rule *models.RateLimitRule) error {
	return r.db.Save(rule).Error
}

func (r *settingsRepository) DeleteRateLimitRule(scope string) error {
	return r.db.Where("scope = ?", scope).Delete(&models.RateLimitRule{}).Error
}
