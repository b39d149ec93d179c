package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// APIIntegration is a configured payment-provider integration. Secrets are
// stored as references into the secret manager, never raw.
type APIIntegration struct {
	gorm.Model
	Provider       string `gorm:"not null;uniqueIndex:idx_provider_env"`
	Environment    string `gorm:"not null;uniqueIndex:idx_provider_env"` // test | live
	PublishableKey string
	SecretKeyRef   string
	WebhookSecret  string
	Status         string `gorm:"default:'inactive'"`
	LastCheckedAt  *time.Time
	UpdatedBy      uint
}

// WebhookEndpoint is an outbound endpoint registered by an operator.
// Events whose risk score clears MinRiskScore are delivered to it.
type WebhookEndpoint struct {
	gorm.Model
	URL          string `gorm:"not null"`
	Secret       string `gorm:"not null"`
	Events       string `gorm:"not null"` // comma-separated event types
	Active       bool   `gorm:"default:true"`
	MinRiskScore int    `gorm:"default:0"`
	CreatedBy    uint
}

// SubscribedTo reports whether the endpoint wants the given event type.
func (w *WebhookEndpoint) SubscribedTo(event string) bool {
	if w.Events == "*" {
		return true
	}
	for _, e := range strings.Split(w.Events, ",") {
		if strings.TrimSpace(e) == event {
			return true
		}
	}
	return false
}

// WebhookDelivery records one delivery attempt for audit and debugging.
type WebhookDelivery struct {
	gorm.Model
	EndpointID uint   `gorm:"index;not null"`
	Event      string `gorm:"not null"`
	StatusCode int
	Error      string
	Payload    JSON `gorm:"type:jsonb"`
}
