package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/alert"
	"corepay/internal/services/webhook"
	"corepay/internal/utils"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type IntegrationHandler struct {
	integrations repositories.IntegrationRepository
	alertService alert.Service
	audit        repositories.AuditRepository
}

func NewIntegrationHandler(
	integrations repositories.IntegrationRepository,
	alertService alert.Service,
	audit repositories.AuditRepository,
) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations, alertService: alertService, audit: audit}
}

func (h *IntegrationHandler) List(c *fiber.Ctx) error {
	integrations, err := h.integrations.Integrations()
	if err != nil {
		log.Printf("Error fetching integrations: %v", err)
		return response.ServerError(c, "Failed to fetch integrations")
	}
	// Webhook secrets never leave the server.
	for i := range integrations {
		integrations[i].WebhookSecret = ""
	}
	return c.JSON(fiber.Map{"integrations": integrations})
}

func (h *IntegrationHandler) Save(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Provider       string `json:"provider" validate:"required"`
		Environment    string `json:"environment" validate:"required,oneof=test live"`
		PublishableKey string `json:"publishable_key"`
		SecretKeyRef   string `json:"secret_key_ref"`
		WebhookSecret  string `json:"webhook_secret"`
		Status         string `json:"status" validate:"omitempty,oneof=active inactive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	integration := &models.APIIntegration{
		Provider:       input.Provider,
		Environment:    input.Environment,
		PublishableKey: input.PublishableKey,
		SecretKeyRef:   input.SecretKeyRef,
		WebhookSecret:  input.WebhookSecret,
		Status:         input.Status,
		UpdatedBy:      claims.AdminID,
	}
	if err := h.integrations.SaveIntegration(integration); err != nil {
		return response.ServerError(c, "Failed to save integration")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "integration.save",
		EntityType: "api_integration",
		EntityID:   integration.ID,
		After:      models.JSON{"provider": input.Provider, "environment": input.Environment, "status": input.Status},
		IP:         c.IP(),
	})

	integration.WebhookSecret = ""
	return response.Success(c, "Integration saved", integration)
}

func (h *IntegrationHandler) Delete(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid integration ID")
	}

	if err := h.integrations.DeleteIntegration(uint(id)); err != nil {
		return response.NotFound(c, "Integration not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "integration.delete",
		EntityType: "api_integration",
		EntityID:   uint(id),
		IP:         c.IP(),
	})

	return response.Success(c, "Integration deleted", nil)
}

func (h *IntegrationHandler) WebhookEndpoints(c *fiber.Ctx) error {
	endpoints, err := h.integrations.WebhookEndpoints(false)
	if err != nil {
		log.Printf("Error fetching webhook endpoints: %v", err)
		return response.ServerError(c, "Failed to fetch webhook endpoints")
	}
	for i := range endpoints {
		endpoints[i].Secret = ""
	}
	return c.JSON(fiber.Map{"endpoints": endpoints})
}

// CreateWebhookEndpoint registers an outbound endpoint. The signing secret
// is generated server-side and returned exactly once.
func (h *IntegrationHandler) CreateWebhookEndpoint(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		URL          string `json:"url" validate:"required,url"`
		Events       string `json:"events" validate:"required"`
		MinRiskScore int    `json:"min_risk_score" validate:"min=0,max=100"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	secret, err := utils.GenerateWebhookSecret()
	if err != nil {
		return response.ServerError(c, "Failed to create endpoint")
	}

	endpoint := &models.WebhookEndpoint{
		URL:          input.URL,
		Secret:       secret,
		Events:       input.Events,
		Active:       true,
		MinRiskScore: input.MinRiskScore,
		CreatedBy:    claims.AdminID,
	}
	if err := h.integrations.SaveWebhookEndpoint(endpoint); err != nil {
		return response.ServerError(c, "Failed to create endpoint")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "integration.create_webhook_endpoint",
		EntityType: "webhook_endpoint",
		EntityID:   endpoint.ID,
		After:      models.JSON{"url": input.URL, "events": input.Events},
		IP:         c.IP(),
	})

	return response.Success(c, "Endpoint created", fiber.Map{
		"endpoint": endpoint,
		"secret":   secret,
	})
}

func (h *IntegrationHandler) UpdateWebhookEndpoint(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid endpoint ID")
	}

	endpoint, err := h.integrations.GetWebhookEndpoint(uint(id))
	if err != nil {
		return response.NotFound(c, "Endpoint not found")
	}

	var input struct {
		URL          string `json:"url" validate:"omitempty,url"`
		Events       string `json:"events"`
		Active       *bool  `json:"active"`
		MinRiskScore *int   `json:"min_risk_score" validate:"omitempty,min=0,max=100"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	if input.URL != "" {
		endpoint.URL = input.URL
	}
	if input.Events != "" {
		endpoint.Events = input.Events
	}
	if input.Active != nil {
		endpoint.Active = *input.Active
	}
	if input.MinRiskScore != nil {
		endpoint.MinRiskScore = *input.MinRiskScore
	}

	if err := h.integrations.SaveWebhookEndpoint(endpoint); err != nil {
		return response.ServerError(c, "Failed to update endpoint")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "integration.update_webhook_endpoint",
		EntityType: "webhook_endpoint",
		EntityID:   endpoint.ID,
		After:      models.JSON{"url": endpoint.URL, "active": endpoint.Active},
		IP:         c.IP(),
	})

	endpoint.Secret = ""
	return response.Success(c, "Endpoint updated", endpoint)
}

func (h *IntegrationHandler) DeleteWebhookEndpoint(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid endpoint ID")
	}

	if err := h.integrations.DeleteWebhookEndpoint(uint(id)); err != nil {
		return response.NotFound(c, "Endpoint not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "integration.delete_webhook_endpoint",
		EntityType: "webhook_endpoint",
		EntityID:   uint(id),
		IP:         c.IP(),
	})

	return response.Success(c, "Endpoint deleted", nil)
}

func (h *IntegrationHandler) Deliveries(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid endpoint ID")
	}

	p := pagination.ParseFromRequest(c)
	deliveries, total, err := h.integrations.Deliveries(uint(id), p.Limit, p.Offset)
	if err != nil {
		log.Printf("Error fetching deliveries: %v", err)
		return response.ServerError(c, "Failed to fetch deliveries")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, deliveries))
}

// StripeWebhook receives Stripe's event notifications. The signature is
// verified against the stored webhook secret before anything is trusted.
// This route is unauthenticated; the signature is the authentication.
func (h *IntegrationHandler) StripeWebhook(c *fiber.Ctx) error {
	environment := c.Params("environment", "live")

	event, err := webhook.VerifyStripeEvent(
		h.integrations,
		environment,
		c.Body(),
		c.Get("Stripe-Signature"),
	)
	if err != nil {
		log.Printf("Stripe webhook rejected: %v", err)
		return response.BadRequest(c, "Invalid webhook signature")
	}

	switch event.Type {
	case "charge.dispute.created", "radar.early_fraud_warning.created":
		_, err = h.alertService.Raise(
			models.AlertSeverityCritical,
			"stripe",
			"Stripe raised "+event.Type,
			nil,
			models.JSON{"stripe_event_id": event.ID, "type": event.Type},
		)
	case "account.updated", "payout.failed":
		_, err = h.alertService.Raise(
			models.AlertSeverityWarning,
			"stripe",
			"Stripe reported "+event.Type,
			nil,
			models.JSON{"stripe_event_id": event.ID, "type": event.Type},
		)
	default:
		// Acknowledge everything else so Stripe stops retrying.
	}
	if err != nil {
		log.Printf("Error recording alert for stripe event %s: %v", event.ID, err)
	}

	return c.JSON(fiber.Map{"received": true, "at": time.Now().UTC()})
}
