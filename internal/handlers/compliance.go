package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/compliance"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type ComplianceHandler struct {
	complianceService compliance.Service
	audit             repositories.AuditRepository
}

func NewComplianceHandler(complianceService compliance.Service, audit repositories.AuditRepository) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService, audit: audit}
}

func (h *ComplianceHandler) Generate(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		PeriodStart string `json:"period_start" validate:"required"`
		PeriodEnd   string `json:"period_end" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	start, err := time.Parse("2006-01-02", input.PeriodStart)
	if err != nil {
		return response.BadRequest(c, "Invalid period_start, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", input.PeriodEnd)
	if err != nil {
		return response.BadRequest(c, "Invalid period_end, expected YYYY-MM-DD")
	}

	report, err := h.complianceService.Generate(start, end, claims.AdminID)
	if err != nil {
		log.Printf("Error generating compliance report: %v", err)
		return response.BadRequest(c, err.Error())
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "compliance.generate_report",
		EntityType: "compliance_report",
		EntityID:   report.ID,
		After:      models.JSON{"period_start": input.PeriodStart, "period_end": input.PeriodEnd},
		IP:         c.IP(),
	})

	return response.Success(c, "Report generated", report)
}

func (h *ComplianceHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	reports, total, err := h.complianceService.List(p.Limit, p.Offset)
	if err != nil {
		log.Printf("Error fetching compliance reports: %v", err)
		return response.ServerError(c, "Failed to fetch reports")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, reports))
}

func (h *ComplianceHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}
	report, err := h.complianceService.Get(uint(id))
	if err != nil {
		return response.NotFound(c, "Report not found")
	}
	return c.JSON(report)
}

func (h *ComplianceHandler) ExportCSV(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	data, filename, err := h.complianceService.ExportCSV(uint(id))
	if err != nil {
		return response.NotFound(c, "Report not found")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
