package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/services/analytics"
	"corepay/internal/utils/response"
)

type AnalyticsHandler struct {
	analyticsService analytics.Service
}

func NewAnalyticsHandler(analyticsService analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.analyticsService.Overview(c.Context())
	if err != nil {
		log.Printf("Error building analytics overview: %v", err)
		return response.ServerError(c, "Failed to build overview")
	}
	return c.JSON(overview)
}
