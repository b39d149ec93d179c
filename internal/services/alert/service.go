package alert

import (
	"errors"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/webhook"
)

var ErrUnknownSeverity = errors.New("unknown alert severity")

type Service interface {
	Raise(severity, source, message string, merchantID *uint, metadata models.JSON) (*models.Alert, error)
	List(limit, offset int, severity string, unacknowledgedOnly bool) ([]models.Alert, int64, error)
	Acknowledge(id, adminID uint) error
}

type service struct {
	repo       repositories.AlertRepository
	dispatcher *webhook.Dispatcher
}

func NewService(repo repositories.AlertRepository, dispatcher *webhook.Dispatcher) Service {
	return &service{repo: repo, dispatcher: dispatcher}
}

func (s *service) Raise(severity, source, message string, merchantID *uint, metadata models.JSON) (*models.Alert, error) {
	switch severity {
	case models.AlertSeverityInfo, models.AlertSeverityWarning, models.AlertSeverityCritical:
	default:
		return nil, ErrUnknownSeverity
	}

	a := &models.Alert{
		Severity:   severity,
		Source:     source,
		Message:    message,
		MerchantID: merchantID,
		Metadata:   metadata,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, err
	}

	// Critical alerts fan out to registered webhooks immediately.
	if severity == models.AlertSeverityCritical {
		s.dispatcher.DispatchAsync(webhook.EventAlertRaised, 100, map[string]interface{}{
			"alert_id": a.ID,
			"severity": a.Severity,
			"source":   a.Source,
			"message":  a.Message,
		})
	}
	return a, nil
}

func (s *service) List(limit, offset int, severity string, unacknowledgedOnly bool) ([]models.Alert, int64, error) {
	return s.repo.List(limit, offset, severity, unacknowledgedOnly)
}

func (s *service) Acknowledge(id, adminID uint) error {
	return s.repo.Acknowledge(id, adminID)
}
