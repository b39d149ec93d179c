package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/repositories"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type AuditHandler struct {
	audit repositories.AuditRepository
}

func NewAuditHandler(audit repositories.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	entries, total, err := h.audit.List(p.Limit, p.Offset, c.Query("entity_type"))
	if err != nil {
		log.Printf("Error fetching audit log: %v", err)
		return response.ServerError(c, "Failed to fetch audit log")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}
