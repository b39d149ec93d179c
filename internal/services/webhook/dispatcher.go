// Package webhook delivers back-office events to registered endpoints and
// verifies inbound provider webhooks.
//
// Outbound deliveries run in goroutines so they never block the request
// that triggered them. Failures are recorded on the delivery log but not
// retried.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"corepay/internal/models"
	"corepay/internal/repositories"
)

// Event types delivered to registered endpoints.
const (
	EventRiskLevelChanged = "merchant.risk_level_changed"
	EventAlertRaised      = "alert.raised"
	EventKYCDecision      = "kyc.decision"
)

type payload struct {
	Event       string      `json:"event"`
	TriggeredAt time.Time   `json:"triggered_at"`
	Data        interface{} `json:"data"`
}

// Dispatcher fans events out to all registered, active endpoints.
type Dispatcher struct {
	repo   repositories.IntegrationRepository
	client *http.Client
}

// NewDispatcher creates a Dispatcher with a default HTTP client timeout.
func NewDispatcher(repo repositories.IntegrationRepository) *Dispatcher {
	return &Dispatcher{
		repo: repo,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// DispatchAsync fires webhook calls in the background. Endpoints receive
// the event when they subscribe to its type and the event's risk score
// clears their threshold.
func (d *Dispatcher) DispatchAsync(event string, riskScore int, data interface{}) {
	endpoints, err := d.repo.WebhookEndpoints(true)
	if err != nil {
		log.Printf("webhook: failed to load endpoints: %v", err)
		return
	}
	for _, ep := range endpoints {
		if !ep.SubscribedTo(event) || riskScore < ep.MinRiskScore {
			continue
		}
		go d.send(ep, event, data)
	}
}

func (d *Dispatcher) send(ep models.WebhookEndpoint, event string, data interface{}) {
	body, err := json.Marshal(payload{
		Event:       event,
		TriggeredAt: time.Now().UTC(),
		Data:        data,
	})
	if err != nil {
		log.Printf("webhook: failed to marshal payload for endpoint %d: %v", ep.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		log.Printf("webhook: failed to build request for endpoint %d: %v", ep.ID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CorePay-Event", event)
	req.Header.Set("X-CorePay-Signature", Sign(body, ep.Secret))

	delivery := &models.WebhookDelivery{EndpointID: ep.ID, Event: event}

	resp, err := d.client.Do(req)
	if err != nil {
		delivery.Error = err.Error()
		d.repo.RecordDelivery(delivery)
		log.Printf("webhook: delivery to endpoint %d failed: %v", ep.ID, err)
		return
	}
	defer resp.Body.Close()

	delivery.StatusCode = resp.StatusCode
	if err := d.repo.RecordDelivery(delivery); err != nil {
		log.Printf("webhook: failed to record delivery for endpoint %d: %v", ep.ID, err)
	}
}

// Sign computes the hex HMAC-SHA256 signature receivers use to verify
// payload integrity.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
