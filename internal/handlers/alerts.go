package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/services/alert"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type AlertHandler struct {
	alertService alert.Service
}

func NewAlertHandler(alertService alert.Service) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	unackedOnly := c.Query("unacknowledged") == "true"

	alerts, total, err := h.alertService.List(p.Limit, p.Offset, c.Query("severity"), unackedOnly)
	if err != nil {
		log.Printf("Error fetching alerts: %v", err)
		return response.ServerError(c, "Failed to fetch alerts")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, alerts))
}

func (h *AlertHandler) Raise(c *fiber.Ctx) error {
	var input struct {
		Severity   string      `json:"severity" validate:"required"`
		Source     string      `json:"source" validate:"required"`
		Message    string      `json:"message" validate:"required"`
		MerchantID *uint       `json:"merchant_id"`
		Metadata   models.JSON `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	raised, err := h.alertService.Raise(input.Severity, input.Source, input.Message, input.MerchantID, input.Metadata)
	if err != nil {
		if errors.Is(err, alert.ErrUnknownSeverity) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to raise alert")
	}
	return response.Success(c, "Alert raised", raised)
}

func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid alert ID")
	}

	if err := h.alertService.Acknowledge(uint(id), claims.AdminID); err != nil {
		return response.NotFound(c, "Alert not found")
	}
	return response.Success(c, "Alert acknowledged", nil)
}
