package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/merchantreview"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type MerchantHandler struct {
	merchants repositories.MerchantRepository
	review    merchantreview.Service
	audit     repositories.AuditRepository
}

func NewMerchantHandler(
	merchants repositories.MerchantRepository,
	review merchantreview.Service,
	audit repositories.AuditRepository,
) *MerchantHandler {
	return &MerchantHandler{merchants: merchants, review: review, audit: audit}
}

func (h *MerchantHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := c.Query("status")

	merchants, total, err := h.merchants.List(p.Limit, p.Offset, status)
	if err != nil {
		log.Printf("Error fetching merchants: %v", err)
		return response.ServerError(c, "Failed to fetch merchants")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, merchants))
}

func (h *MerchantHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid merchant ID")
	}
	merchant, err := h.merchants.GetByID(uint(id))
	if err != nil {
		return response.NotFound(c, "Merchant not found")
	}
	return c.JSON(merchant)
}

// RiskDetail returns the merchant together with a freshly computed risk
// assessment. Nothing is persisted by this call.
func (h *MerchantHandler) RiskDetail(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid merchant ID")
	}

	detail, err := h.review.RiskDetail(uint(id))
	if err != nil {
		return response.NotFound(c, "Merchant not found")
	}
	return c.JSON(detail)
}

func (h *MerchantHandler) SetOverrideLevel(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid merchant ID")
	}

	var input struct {
		Level string `json:"level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.review.SetOverrideLevel(uint(id), input.Level, claims.AdminID); err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "merchant.override_risk_level",
		EntityType: "merchant",
		EntityID:   uint(id),
		After:      models.JSON{"level": input.Level},
		IP:         c.IP(),
	})

	return response.Success(c, "Override level updated", nil)
}

func (h *MerchantHandler) AddFlag(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid merchant ID")
	}

	var input struct {
		Severity int    `json:"severity" validate:"required,min=1,max=5"`
		Reason   string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	flag, err := h.review.AddFlag(uint(id), input.Severity, input.Reason, claims.AdminID)
	if err != nil {
		if errors.Is(err, merchantreview.ErrInvalidSeverity) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to add flag")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "merchant.add_flag",
		EntityType: "merchant",
		EntityID:   uint(id),
		After:      models.JSON{"severity": input.Severity, "reason": input.Reason},
		IP:         c.IP(),
	})

	return response.Success(c, "Flag added", flag)
}

func (h *MerchantHandler) ResolveFlag(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	flagID, err := strconv.ParseUint(c.Params("flagId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid flag ID")
	}

	if err := h.review.ResolveFlag(uint(flagID)); err != nil {
		return response.NotFound(c, "Flag not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "merchant.resolve_flag",
		EntityType: "risk_flag",
		EntityID:   uint(flagID),
		IP:         c.IP(),
	})

	return response.Success(c, "Flag resolved", nil)
}
