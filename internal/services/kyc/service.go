package kyc

import (
	"errors"
	"fmt"
	"time"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/risk"
	"corepay/internal/services/webhook"
)

var (
	ErrAlreadyDecided = errors.New("submission already decided")
	ErrUnknownStatus  = errors.New("unknown document status")
)

// Service drives the KYC review queue: operators verify or reject
// individual documents and then decide the submission.
type Service interface {
	Queue(limit, offset int, status string) ([]models.KYCSubmission, int64, error)
	Get(submissionID uint) (*models.KYCSubmission, error)
	ReviewDocument(documentID uint, status, reason string) (*models.KYCDocument, error)
	Decide(submissionID uint, approve bool, note string, adminID uint) (*models.KYCSubmission, error)
	RequestMore(submissionID uint, note string, adminID uint) (*models.KYCSubmission, error)
}

type service struct {
	repo       repositories.KYCRepository
	merchants  repositories.MerchantRepository
	dispatcher *webhook.Dispatcher
}

func NewService(repo repositories.KYCRepository, merchants repositories.MerchantRepository, dispatcher *webhook.Dispatcher) Service {
	return &service{repo: repo, merchants: merchants, dispatcher: dispatcher}
}

func (s *service) Queue(limit, offset int, status string) ([]models.KYCSubmission, int64, error) {
	return s.repo.Queue(limit, offset, status)
}

func (s *service) Get(submissionID uint) (*models.KYCSubmission, error) {
	return s.repo.GetSubmission(submissionID)
}

func (s *service) ReviewDocument(documentID uint, status, reason string) (*models.KYCDocument, error) {
	if status != models.DocumentStatusVerified && status != models.DocumentStatusRejected {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	doc, err := s.repo.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	doc.Status = status
	doc.RejectReason = ""
	if status == models.DocumentStatusRejected {
		doc.RejectReason = reason
	}
	if err := s.repo.UpdateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *service) Decide(submissionID uint, approve bool, note string, adminID uint) (*models.KYCSubmission, error) {
	sub, err := s.repo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == risk.KYCStatusApproved || sub.Status == risk.KYCStatusRejected {
		return nil, ErrAlreadyDecided
	}

	now := time.Now()
	sub.Status = risk.KYCStatusRejected
	if approve {
		sub.Status = risk.KYCStatusApproved
	}
	sub.ReviewedBy = adminID
	sub.ReviewedAt = &now
	sub.ReviewNote = note

	if err := s.repo.UpdateSubmission(sub); err != nil {
		return nil, err
	}

	// Mirror the decision onto the merchant so list screens don't need a join.
	if merchant, err := s.merchants.GetByID(sub.MerchantID); err == nil {
		merchant.KYCStatus = sub.Status
		if err := s.merchants.Update(merchant); err != nil {
			return nil, fmt.Errorf("update merchant kyc status: %w", err)
		}
	}

	s.dispatcher.DispatchAsync(webhook.EventKYCDecision, 0, map[string]interface{}{
		"submission_id": sub.ID,
		"merchant_id":   sub.MerchantID,
		"status":        sub.Status,
		"decided_by":    adminID,
	})

	return sub, nil
}

func (s *service) RequestMore(submissionID uint, note string, adminID uint) (*models.KYCSubmission, error) {
	sub, err := s.repo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == risk.KYCStatusApproved || sub.Status == risk.KYCStatusRejected {
		return nil, ErrAlreadyDecided
	}

	sub.Status = risk.KYCStatusPending
	sub.ReviewedBy = adminID
	sub.ReviewNote = note
	if err := s.repo.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
