package merchantreview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"corepay/internal/models"
	"corepay/internal/services/risk"
	"corepay/internal/services/webhook"
)

type MockMerchantRepo struct {
	mock.Mock
}

func (m *MockMerchantRepo) GetByID(id uint) (*models.Merchant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) Update(merchant *models.Merchant) error {
	return m.Called(merchant).Error(0)
}

func (m *MockMerchantRepo) List(limit, offset int, status string) ([]models.Merchant, int64, error) {
	args := m.Called(limit, offset, status)
	return args.Get(0).([]models.Merchant), args.Get(1).(int64), args.Error(2)
}

func (m *MockMerchantRepo) ActiveFlags(merchantID uint) ([]models.RiskFlag, error) {
	args := m.Called(merchantID)
	return args.Get(0).([]models.RiskFlag), args.Error(1)
}

func (m *MockMerchantRepo) ActiveFlagsForMerchants(merchantIDs []uint) (map[uint][]models.RiskFlag, error) {
	args := m.Called(merchantIDs)
	return args.Get(0).(map[uint][]models.RiskFlag), args.Error(1)
}

func (m *MockMerchantRepo) CreateFlag(flag *models.RiskFlag) error {
	return m.Called(flag).Error(0)
}

func (m *MockMerchantRepo) ResolveFlag(flagID uint) error {
	return m.Called(flagID).Error(0)
}

func (m *MockMerchantRepo) ComplianceStatus(merchantID uint) (*models.ComplianceStatus, error) {
	args := m.Called(merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplianceStatus), args.Error(1)
}

func (m *MockMerchantRepo) ComplianceStatuses(merchantIDs []uint) (map[uint]models.ComplianceStatus, error) {
	args := m.Called(merchantIDs)
	return args.Get(0).(map[uint]models.ComplianceStatus), args.Error(1)
}

func (m *MockMerchantRepo) UpsertComplianceStatus(status *models.ComplianceStatus) error {
	return m.Called(status).Error(0)
}

type MockKYCRepo struct {
	mock.Mock
}

func (m *MockKYCRepo) GetSubmission(id uint) (*models.KYCSubmission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCSubmission), args.Error(1)
}

func (m *MockKYCRepo) LatestForMerchant(merchantID uint) (*models.KYCSubmission, error) {
	args := m.Called(merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCSubmission), args.Error(1)
}

func (m *MockKYCRepo) LatestForMerchants(merchantIDs []uint) (map[uint]models.KYCSubmission, error) {
	args := m.Called(merchantIDs)
	return args.Get(0).(map[uint]models.KYCSubmission), args.Error(1)
}

func (m *MockKYCRepo) Queue(limit, offset int, status string) ([]models.KYCSubmission, int64, error) {
	args := m.Called(limit, offset, status)
	return args.Get(0).([]models.KYCSubmission), args.Get(1).(int64), args.Error(2)
}

func (m *MockKYCRepo) UpdateSubmission(sub *models.KYCSubmission) error {
	return m.Called(sub).Error(0)
}

func (m *MockKYCRepo) UpdateDocument(doc *models.KYCDocument) error {
	return m.Called(doc).Error(0)
}

func (m *MockKYCRepo) GetDocument(id uint) (*models.KYCDocument, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCDocument), args.Error(1)
}

type MockIntegrationRepo struct {
	mock.Mock
}

func (m *MockIntegrationRepo) Integrations() ([]models.APIIntegration, error) {
	args := m.Called()
	return args.Get(0).([]models.APIIntegration), args.Error(1)
}

func (m *MockIntegrationRepo) GetIntegration(provider, environment string) (*models.APIIntegration, error) {
	args := m.Called(provider, environment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIIntegration), args.Error(1)
}

func (m *MockIntegrationRepo) SaveIntegration(integration *models.APIIntegration) error {
	return m.Called(integration).Error(0)
}

func (m *MockIntegrationRepo) DeleteIntegration(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockIntegrationRepo) WebhookEndpoints(activeOnly bool) ([]models.WebhookEndpoint, error) {
	args := m.Called(activeOnly)
	return args.Get(0).([]models.WebhookEndpoint), args.Error(1)
}

func (m *MockIntegrationRepo) GetWebhookEndpoint(id uint) (*models.WebhookEndpoint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebhookEndpoint), args.Error(1)
}

func (m *MockIntegrationRepo) SaveWebhookEndpoint(endpoint *models.WebhookEndpoint) error {
	return m.Called(endpoint).Error(0)
}

func (m *MockIntegrationRepo) DeleteWebhookEndpoint(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockIntegrationRepo) RecordDelivery(delivery *models.WebhookDelivery) error {
	return m.Called(delivery).Error(0)
}

func (m *MockIntegrationRepo) Deliveries(endpointID uint, limit, offset int) ([]models.WebhookDelivery, int64, error) {
	args := m.Called(endpointID, limit, offset)
	return args.Get(0).([]models.WebhookDelivery), args.Get(1).(int64), args.Error(2)
}

func TestSetOverrideLevel_NotifiesThresholdedEndpoints(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Event string                 `json:"event"`
			Data  map[string]interface{} `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, webhook.EventRiskLevelChanged, body.Event)
		received <- body.Data
	}))
	defer server.Close()

	merchants := new(MockMerchantRepo)
	integrations := new(MockIntegrationRepo)

	merchant := &models.Merchant{ID: 11, BusinessName: "Acme Imports"}
	merchants.On("GetByID", uint(11)).Return(merchant, nil)
	merchants.On("Update", merchant).Return(nil)

	// The endpoint only wants escalations at or above the high band.
	integrations.On("WebhookEndpoints", true).Return([]models.WebhookEndpoint{
		{Model: gorm.Model{ID: 1}, URL: server.URL, Events: "*", MinRiskScore: 50, Active: true},
	}, nil)
	integrations.On("RecordDelivery", mock.Anything).Return(nil).Maybe()

	svc := NewService(merchants, new(MockKYCRepo), risk.NewScorer(), webhook.NewDispatcher(integrations))
	err := svc.SetOverrideLevel(11, string(risk.LevelCritical), 9)
	assert.NoError(t, err)

	select {
	case data := <-received:
		assert.Equal(t, "critical", data["level"])
		assert.Equal(t, "Acme Imports", data["business_name"])
	case <-time.After(2 * time.Second):
		t.Fatal("endpoint never received the risk level change")
	}
	assert.Equal(t, string(risk.LevelCritical), merchant.OverrideRiskLevel)
}

func TestSetOverrideLevel_SkipsEndpointsAboveTheBand(t *testing.T) {
	delivered := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- struct{}{}
	}))
	defer server.Close()

	merchants := new(MockMerchantRepo)
	integrations := new(MockIntegrationRepo)

	merchant := &models.Merchant{ID: 12, BusinessName: "Beta Retail"}
	merchants.On("GetByID", uint(12)).Return(merchant, nil)
	merchants.On("Update", merchant).Return(nil)

	integrations.On("WebhookEndpoints", true).Return([]models.WebhookEndpoint{
		{Model: gorm.Model{ID: 2}, URL: server.URL, Events: "*", MinRiskScore: 50, Active: true},
	}, nil)

	svc := NewService(merchants, new(MockKYCRepo), risk.NewScorer(), webhook.NewDispatcher(integrations))
	err := svc.SetOverrideLevel(12, string(risk.LevelMedium), 9)
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("medium override should not clear a high-band threshold")
	case <-time.After(200 * time.Millisecond):
	}
	integrations.AssertNotCalled(t, "RecordDelivery", mock.Anything)
}

func TestSnapshotBuilderBatchesPageLookups(t *testing.T) {
	merchants := new(MockMerchantRepo)
	kycRepo := new(MockKYCRepo)

	registered := time.Now().AddDate(-3, 0, 0)
	page := []models.Merchant{
		{ID: 1, RegisteredAt: &registered, MonthlyVolume: decimal.NewFromInt(5_000), MonthlyTxnCount: 100},
		{ID: 2},
		{ID: 3},
	}
	ids := []uint{1, 2, 3}

	kycRepo.On("LatestForMerchants", ids).Return(map[uint]models.KYCSubmission{
		1: {MerchantID: 1, Status: risk.KYCStatusApproved, RequiredDocuments: 4},
	}, nil).Once()
	merchants.On("ComplianceStatuses", ids).Return(map[uint]models.ComplianceStatus{
		1: {MerchantID: 1, LastReviewPassed: true},
		3: {MerchantID: 3, SanctionsHit: true},
	}, nil).Once()
	merchants.On("ActiveFlagsForMerchants", ids).Return(map[uint][]models.RiskFlag{
		3: {{MerchantID: 3, Severity: 5, Reason: "sanctions review"}},
	}, nil).Once()

	builder := NewSnapshotBuilder(merchants, kycRepo)
	snaps, err := builder.ForPage(page)

	assert.NoError(t, err)
	assert.Len(t, snaps, 3)
	assert.NotNil(t, snaps[1].KYC)
	assert.NotNil(t, snaps[1].Activity)
	assert.True(t, snaps[1].Compliance.LastReviewPassed)
	assert.Nil(t, snaps[2].KYC)
	assert.Nil(t, snaps[2].Compliance)
	assert.True(t, snaps[3].Compliance.SanctionsHit)
	assert.Len(t, snaps[3].Flags, 1)

	// Page scoring must stay off the per-merchant lookup path.
	kycRepo.AssertNotCalled(t, "LatestForMerchant", mock.Anything)
	merchants.AssertNotCalled(t, "ComplianceStatus", mock.Anything)
	merchants.AssertNotCalled(t, "ActiveFlags", mock.Anything)
	merchants.AssertExpectations(t)
	kycRepo.AssertExpectations(t)
}

func TestSetOverrideLevel_RejectsUnknownLevel(t *testing.T) {
	merchants := new(MockMerchantRepo)
	svc := NewService(merchants, new(MockKYCRepo), risk.NewScorer(), webhook.NewDispatcher(new(MockIntegrationRepo)))

	err := svc.SetOverrideLevel(1, "severe", 9)

	assert.Error(t, err)
	merchants.AssertNotCalled(t, "GetByID", mock.Anything)
}
