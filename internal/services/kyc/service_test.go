package kyc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"corepay/internal/models"
	"corepay/internal/services/risk"
	"corepay/internal/services/webhook"
)

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

func newTestService(repo *MockKYCRepo, merchants *MockMerchantRepo, integrations *MockIntegrationRepo) Service {
	return NewService(repo, merchants, webhook.NewDispatcher(integrations))
}

func TestDecide_ApprovesAndMirrorsMerchantStatus(t *testing.T) {
	repo := new(MockKYCRepo)
	merchants := new(MockMerchantRepo)
	integrations := new(MockIntegrationRepo)

	sub := &models.KYCSubmission{MerchantID: 42, Status: risk.KYCStatusReview}
	merchant := &models.Merchant{ID: 42, KYCStatus: risk.KYCStatusReview}

	repo.On("GetSubmission", uint(1)).Return(sub, nil)
	repo.On("UpdateSubmission", sub).Return(nil)
	merchants.On("GetByID", uint(42)).Return(merchant, nil)
	merchants.On("Update", merchant).Return(nil)
	integrations.On("WebhookEndpoints", true).Return([]models.WebhookEndpoint{}, nil).Maybe()

	svc := newTestService(repo, merchants, integrations)
	decided, err := svc.Decide(1, true, "all documents check out", 9)

	assert.NoError(t, err)
	assert.Equal(t, risk.KYCStatusApproved, decided.Status)
	assert.Equal(t, uint(9), decided.ReviewedBy)
	assert.NotNil(t, decided.ReviewedAt)
	assert.Equal(t, risk.KYCStatusApproved, merchant.KYCStatus)
	repo.AssertExpectations(t)
	merchants.AssertExpectations(t)
}

func TestDecide_RejectsOnceOnly(t *testing.T) {
	repo := new(MockKYCRepo)
	merchants := new(MockMerchantRepo)
	integrations := new(MockIntegrationRepo)

	repo.On("GetSubmission", uint(2)).Return(&models.KYCSubmission{
		MerchantID: 7,
		Status:     risk.KYCStatusApproved,
	}, nil)

	svc := newTestService(repo, merchants, integrations)
	_, err := svc.Decide(2, false, "", 9)

	assert.ErrorIs(t, err, ErrAlreadyDecided)
	repo.AssertNotCalled(t, "UpdateSubmission", mock.Anything)
}

func TestReviewDocument(t *testing.T) {
	t.Run("rejection keeps the reason", func(t *testing.T) {
		repo := new(MockKYCRepo)
		merchants := new(MockMerchantRepo)
		integrations := new(MockIntegrationRepo)

		doc := &models.KYCDocument{SubmissionID: 1, DocumentType: models.DocumentTypeOwnerID, Status: models.DocumentStatusPending}
		repo.On("GetDocument", uint(5)).Return(doc, nil)
		repo.On("UpdateDocument", doc).Return(nil)

		svc := newTestService(repo, merchants, integrations)
		reviewed, err := svc.ReviewDocument(5, models.DocumentStatusRejected, "scan unreadable")

		assert.NoError(t, err)
		assert.Equal(t, models.DocumentStatusRejected, reviewed.Status)
		assert.Equal(t, "scan unreadable", reviewed.RejectReason)
	})

	t.Run("verification clears any previous reason", func(t *testing.T) {
		repo := new(MockKYCRepo)
		merchants := new(MockMerchantRepo)
		integrations := new(MockIntegrationRepo)

		doc := &models.KYCDocument{Status: models.DocumentStatusRejected, RejectReason: "scan unreadable"}
		repo.On("GetDocument", uint(5)).Return(doc, nil)
		repo.On("UpdateDocument", doc).Return(nil)

		svc := newTestService(repo, merchants, integrations)
		reviewed, err := svc.ReviewDocument(5, models.DocumentStatusVerified, "")

		assert.NoError(t, err)
		assert.Equal(t, models.DocumentStatusVerified, reviewed.Status)
		assert.Empty(t, reviewed.RejectReason)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		repo := new(MockKYCRepo)
		merchants := new(MockMerchantRepo)
		integrations := new(MockIntegrationRepo)

		svc := newTestService(repo, merchants, integrations)
		_, err := svc.ReviewDocument(5, "maybe", "")

		assert.ErrorIs(t, err, ErrUnknownStatus)
		repo.AssertNotCalled(t, "GetDocument", mock.Anything)
	})
}

func TestRequestMore(t *testing.T) {
	repo := new(MockKYCRepo)
	merchants := new(MockMerchantRepo)
	integrations := new(MockIntegrationRepo)

	sub := &models.KYCSubmission{MerchantID: 3, Status: risk.KYCStatusReview}
	repo.On("GetSubmission", uint(4)).Return(sub, nil)
	repo.On("UpdateSubmission", sub).Return(nil)

	svc := newTestService(repo, merchants, integrations)
	updated, err := svc.RequestMore(4, "need a recent bank statement", 9)

	assert.NoError(t, err)
	assert.Equal(t, risk.KYCStatusPending, updated.Status)
	assert.Equal(t, "need a recent bank statement", updated.ReviewNote)
}
