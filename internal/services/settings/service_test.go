package settings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"corepay/internal/config"
	"corepay/internal/models"
	"corepay/internal/money"
	"corepay/internal/services/fees"
)

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) FeatureFlags() ([]models.FeatureFlag, error) {
	args := m.Called()
	return args.Get(0).([]models.FeatureFlag), args.Error(1)
}

func (m *MockSettingsRepo) GetFeatureFlag(key string) (*models.FeatureFlag, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeatureFlag), args.Error(1)
}

func (m *MockSettingsRepo) SaveFeatureFlag(flag *models.FeatureFlag) error {
	return m.Called(flag).Error(0)
}

func (m *MockSettingsRepo) DeleteFeatureFlag(key string) error {
	return m.Called(key).Error(0)
}

func (m *MockSettingsRepo) FeeSchedules() ([]models.FeeScheduleModel, error) {
	args := m.Called()
	return args.Get(0).([]models.FeeScheduleModel), args.Error(1)
}

func (m *MockSettingsRepo) GetFeeSchedule(corridor string) (*models.FeeScheduleModel, error) {
	args := m.Called(corridor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeScheduleModel), args.Error(1)
}

func (m *MockSettingsRepo) SaveFeeSchedule(schedule *models.FeeScheduleModel) error {
	return m.Called(schedule).Error(0)
}

func (m *MockSettingsRepo) RateLimitRules() ([]models.RateLimitRule, error) {
	args := m.Called()
	return args.Get(0).([]models.RateLimitRule), args.Error(1)
}

func (m *MockSettingsRepo) GetRateLimitRule(scope string) (*models.RateLimitRule, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateLimitRule), args.Error(1)
}

func (m *MockSettingsRepo) SaveRateLimitRule(rule *models.RateLimitRule) error {
	return m.Called(rule).Error(0)
}

func (m *MockSettingsRepo) DeleteRateLimitRule(scope string) error {
	return m.Called(scope).Error(0)
}

type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) Currencies() ([]models.Currency, error) {
	args := m.Called()
	return args.Get(0).([]models.Currency), args.Error(1)
}

func (m *MockCatalogRepo) SaveCurrency(currency *models.Currency) error {
	return m.Called(currency).Error(0)
}

func (m *MockCatalogRepo) DeleteCurrency(code string) error {
	return m.Called(code).Error(0)
}

func (m *MockCatalogRepo) Locations(limit, offset int) ([]models.Location, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Location), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepo) SaveLocation(location *models.Location) error {
	return m.Called(location).Error(0)
}

func (m *MockCatalogRepo) DeleteLocation(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockCatalogRepo) TaxRules(jurisdiction string, at time.Time) ([]models.TaxRule, error) {
	args := m.Called(jurisdiction, at)
	return args.Get(0).([]models.TaxRule), args.Error(1)
}

func (m *MockCatalogRepo) SaveTaxRule(rule *models.TaxRule) error {
	return m.Called(rule).Error(0)
}

func (m *MockCatalogRepo) DeleteTaxRule(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockCatalogRepo) PricingRules(corridor string) ([]models.PricingRule, error) {
	args := m.Called(corridor)
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

func (m *MockCatalogRepo) SavePricingRule(rule *models.PricingRule) error {
	return m.Called(rule).Error(0)
}

func (m *MockCatalogRepo) DeletePricingRule(id uint) error {
	return m.Called(id).Error(0)
}

func validSchedule() fees.Schedule {
	return fees.Schedule{
		Percentage: decimal.NewFromFloat(2.5),
		Fixed:      money.FromFloat(0.30, "USD"),
		Minimum:    money.FromFloat(0.10, "USD"),
		Maximum:    money.FromFloat(50.00, "USD"),
	}
}

func TestDefaultFeeSchedulesParseAndValidate(t *testing.T) {
	assert.Contains(t, config.DefaultFeeSchedules, string(fees.CorridorDomestic))
	assert.Contains(t, config.DefaultFeeSchedules, string(fees.CorridorInternational))
	for corridor, def := range config.DefaultFeeSchedules {
		schedule := defaultSchedule(def)
		assert.NoError(t, schedule.Validate(), "corridor %s", corridor)
	}
}

func TestFeeSchedule_FallsBackToDefault(t *testing.T) {
	repo := new(MockSettingsRepo)
	catalog := new(MockCatalogRepo)
	repo.On("GetFeeSchedule", "domestic").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, catalog)
	schedule, err := svc.FeeSchedule(fees.CorridorDomestic)

	assert.NoError(t, err)
	assert.True(t, schedule.Percentage.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, "USD", schedule.Fixed.Currency)
	repo.AssertExpectations(t)
}

func TestFeeSchedule_ReturnsStoredRow(t *testing.T) {
	repo := new(MockSettingsRepo)
	catalog := new(MockCatalogRepo)
	repo.On("GetFeeSchedule", "international").Return(&models.FeeScheduleModel{
		Corridor:   "international",
		Percentage: decimal.NewFromFloat(4.2),
		Fixed:      decimal.NewFromFloat(0.50),
		Minimum:    decimal.NewFromFloat(1.00),
		Maximum:    decimal.NewFromFloat(90.00),
		Currency:   "EUR",
	}, nil)

	svc := NewService(repo, catalog)
	schedule, err := svc.FeeSchedule(fees.CorridorInternational)

	assert.NoError(t, err)
	assert.True(t, schedule.Percentage.Equal(decimal.NewFromFloat(4.2)))
	assert.Equal(t, "EUR", schedule.Minimum.Currency)
}

func TestSaveFeeSchedule(t *testing.T) {
	tests := []struct {
		name     string
		corridor fees.Corridor
		mutate   func(*fees.Schedule)
		wantErr  error
	}{
		{
			name:     "valid schedule persists",
			corridor: fees.CorridorDomestic,
		},
		{
			name:     "unknown corridor rejected",
			corridor: fees.Corridor("intergalactic"),
			wantErr:  fees.ErrUnknownCorridor,
		},
		{
			name:     "negative percentage rejected",
			corridor: fees.CorridorDomestic,
			mutate: func(s *fees.Schedule) {
				s.Percentage = decimal.NewFromFloat(-1)
			},
			wantErr: fees.ErrInvalidArgument,
		},
		{
			name:     "inverted bounds rejected",
			corridor: fees.CorridorDomestic,
			mutate: func(s *fees.Schedule) {
				s.Minimum = money.FromFloat(60, "USD")
			},
			wantErr: fees.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSettingsRepo)
			catalog := new(MockCatalogRepo)
			if tt.wantErr == nil {
				repo.On("SaveFeeSchedule", mock.MatchedBy(func(row *models.FeeScheduleModel) bool {
					return row.Corridor == string(tt.corridor) && row.UpdatedBy == uint(7)
				})).Return(nil)
			}

			schedule := validSchedule()
			if tt.mutate != nil {
				tt.mutate(&schedule)
			}

			svc := NewService(repo, catalog)
			err := svc.SaveFeeSchedule(tt.corridor, schedule, 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPreviewFee(t *testing.T) {
	repo := new(MockSettingsRepo)
	catalog := new(MockCatalogRepo)
	repo.On("GetFeeSchedule", "domestic").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, catalog)
	fee, err := svc.PreviewFee(fees.CorridorDomestic, money.FromFloat(1000, "USD"))

	// 2.5% of 1000 = 25.00, plus 0.30 fixed.
	assert.NoError(t, err)
	assert.Equal(t, "25.30 USD", fee.String())
}

func TestResolveSchedule(t *testing.T) {
	enterpriseRule := models.PricingRule{
		Name:        "enterprise domestic",
		Tier:        "enterprise",
		Corridor:    "domestic",
		VolumeFloor: decimal.NewFromInt(100_000),
		Priority:    10,
		Percentage:  decimal.NewFromFloat(1.8),
		Fixed:       decimal.NewFromFloat(0.20),
		Minimum:     decimal.NewFromFloat(0.10),
		Maximum:     decimal.NewFromFloat(40.00),
		Currency:    "USD",
	}

	t.Run("matching rule wins", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		catalog := new(MockCatalogRepo)
		catalog.On("PricingRules", "domestic").Return([]models.PricingRule{enterpriseRule}, nil)

		svc := NewService(repo, catalog)
		schedule, err := svc.ResolveSchedule(fees.CorridorDomestic, "enterprise", decimal.NewFromInt(250_000))

		assert.NoError(t, err)
		assert.True(t, schedule.Percentage.Equal(decimal.NewFromFloat(1.8)))
	})

	t.Run("volume below floor falls through to corridor schedule", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		catalog := new(MockCatalogRepo)
		catalog.On("PricingRules", "domestic").Return([]models.PricingRule{enterpriseRule}, nil)
		repo.On("GetFeeSchedule", "domestic").Return(nil, gorm.ErrRecordNotFound)

		svc := NewService(repo, catalog)
		schedule, err := svc.ResolveSchedule(fees.CorridorDomestic, "enterprise", decimal.NewFromInt(5_000))

		assert.NoError(t, err)
		assert.True(t, schedule.Percentage.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("tier mismatch falls through", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		catalog := new(MockCatalogRepo)
		catalog.On("PricingRules", "domestic").Return([]models.PricingRule{enterpriseRule}, nil)
		repo.On("GetFeeSchedule", "domestic").Return(nil, gorm.ErrRecordNotFound)

		svc := NewService(repo, catalog)
		schedule, err := svc.ResolveSchedule(fees.CorridorDomestic, "startup", decimal.NewFromInt(250_000))

		assert.NoError(t, err)
		assert.True(t, schedule.Percentage.Equal(decimal.NewFromFloat(2.5)))
	})
}

func TestSaveFeatureFlag_RolloutBounds(t *testing.T) {
	repo := new(MockSettingsRepo)
	catalog := new(MockCatalogRepo)

	svc := NewService(repo, catalog)
	err := svc.SaveFeatureFlag(&models.FeatureFlag{Key: "new-dashboard", RolloutPercent: 150})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "SaveFeatureFlag", mock.Anything)
}

func TestSaveRateLimitRule_RequiresPositiveWindow(t *testing.T) {
	repo := new(MockSettingsRepo)
	catalog := new(MockCatalogRepo)

	svc := NewService(repo, catalog)
	err := svc.SaveRateLimitRule(&models.RateLimitRule{Scope: "admin-api", MaxRequests: 100, WindowSeconds: 0})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "SaveRateLimitRule", mock.Anything)
}
