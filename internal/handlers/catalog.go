package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

// CatalogHandler covers the reference-data screens: currencies, locations,
// tax rules and pricing rules.
type CatalogHandler struct {
	catalog repositories.CatalogRepository
	audit   repositories.AuditRepository
}

func NewCatalogHandler(catalog repositories.CatalogRepository, audit repositories.AuditRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, audit: audit}
}

func (h *CatalogHandler) Currencies(c *fiber.Ctx) error {
	currencies, err := h.catalog.Currencies()
	if err != nil {
		log.Printf("Error fetching currencies: %v", err)
		return response.ServerError(c, "Failed to fetch currencies")
	}
	return c.JSON(fiber.Map{"currencies": currencies})
}

func (h *CatalogHandler) SaveCurrency(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Code        string `json:"code" validate:"required,len=3"`
		Name        string `json:"name" validate:"required"`
		MinorUnits  int    `json:"minor_units" validate:"min=0,max=4"`
		Enabled     bool   `json:"enabled"`
		DisplayRate string `json:"display_rate"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	currency := &models.Currency{
		Code:       input.Code,
		Name:       input.Name,
		MinorUnits: input.MinorUnits,
		Enabled:    input.Enabled,
		UpdatedBy:  claims.AdminID,
	}
	if input.DisplayRate != "" {
		rate, err := decimal.NewFromString(input.DisplayRate)
		if err != nil {
			return response.BadRequest(c, "Invalid display rate")
		}
		currency.DisplayRate = rate
	}

	if err := h.catalog.SaveCurrency(currency); err != nil {
		return response.ServerError(c, "Failed to save currency")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.save_currency",
		EntityType: "currency",
		After:      models.JSON{"code": input.Code, "enabled": input.Enabled},
		IP:         c.IP(),
	})

	return response.Success(c, "Currency saved", currency)
}

func (h *CatalogHandler) DeleteCurrency(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	code := c.Params("code")

	if err := h.catalog.DeleteCurrency(code); err != nil {
		return response.NotFound(c, "Currency not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.delete_currency",
		EntityType: "currency",
		Before:     models.JSON{"code": code},
		IP:         c.IP(),
	})

	return response.Success(c, "Currency deleted", nil)
}

func (h *CatalogHandler) Locations(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	locations, total, err := h.catalog.Locations(p.Limit, p.Offset)
	if err != nil {
		log.Printf("Error fetching locations: %v", err)
		return response.ServerError(c, "Failed to fetch locations")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, locations))
}

func (h *CatalogHandler) SaveLocation(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Country   string `json:"country" validate:"required,len=2"`
		Region    string `json:"region"`
		Timezone  string `json:"timezone"`
		Supported bool   `json:"supported"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	location := &models.Location{
		Country:   input.Country,
		Region:    input.Region,
		Timezone:  input.Timezone,
		Supported: input.Supported,
		UpdatedBy: claims.AdminID,
	}
	if err := h.catalog.SaveLocation(location); err != nil {
		return response.ServerError(c, "Failed to save location")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.save_location",
		EntityType: "location",
		EntityID:   location.ID,
		After:      models.JSON{"country": input.Country, "region": input.Region, "supported": input.Supported},
		IP:         c.IP(),
	})

	return response.Success(c, "Location saved", location)
}

func (h *CatalogHandler) DeleteLocation(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid location ID")
	}

	if err := h.catalog.DeleteLocation(uint(id)); err != nil {
		return response.NotFound(c, "Location not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.delete_location",
		EntityType: "location",
		EntityID:   uint(id),
		IP:         c.IP(),
	})

	return response.Success(c, "Location deleted", nil)
}

// TaxRules returns rules for a jurisdiction effective at the given time
// (default now). Operators can pass at=2026-01-01 to inspect upcoming
// rule changes.
func (h *CatalogHandler) TaxRules(c *fiber.Ctx) error {
	jurisdiction := c.Query("jurisdiction")
	at := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'at' date, expected YYYY-MM-DD")
		}
		at = parsed
	}

	rules, err := h.catalog.TaxRules(jurisdiction, at)
	if err != nil {
		log.Printf("Error fetching tax rules: %v", err)
		return response.ServerError(c, "Failed to fetch tax rules")
	}
	return c.JSON(fiber.Map{"rules": rules, "at": at.Format("2006-01-02")})
}

func (h *CatalogHandler) SaveTaxRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Jurisdiction  string `json:"jurisdiction" validate:"required,len=2"`
		Category      string `json:"category" validate:"required"`
		RatePercent   string `json:"rate_percent" validate:"required"`
		EffectiveFrom string `json:"effective_from" validate:"required"`
		EffectiveTo   string `json:"effective_to"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	rate, err := decimal.NewFromString(input.RatePercent)
	if err != nil || rate.IsNegative() {
		return response.BadRequest(c, "Invalid tax rate")
	}
	from, err := time.Parse("2006-01-02", input.EffectiveFrom)
	if err != nil {
		return response.BadRequest(c, "Invalid effective_from date, expected YYYY-MM-DD")
	}

	rule := &models.TaxRule{
		Jurisdiction:  input.Jurisdiction,
		Category:      input.Category,
		RatePercent:   rate,
		EffectiveFrom: from,
		UpdatedBy:     claims.AdminID,
	}
	if input.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", input.EffectiveTo)
		if err != nil {
			return response.BadRequest(c, "Invalid effective_to date, expected YYYY-MM-DD")
		}
		if !to.After(from) {
			return response.BadRequest(c, "effective_to must be after effective_from")
		}
		rule.EffectiveTo = &to
	}

	if err := h.catalog.SaveTaxRule(rule); err != nil {
		return response.ServerError(c, "Failed to save tax rule")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.save_tax_rule",
		EntityType: "tax_rule",
		EntityID:   rule.ID,
		After:      models.JSON{"jurisdiction": input.Jurisdiction, "category": input.Category, "rate_percent": input.RatePercent},
		IP:         c.IP(),
	})

	return response.Success(c, "Tax rule saved", rule)
}

func (h *CatalogHandler) DeleteTaxRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tax rule ID")
	}

	if err := h.catalog.DeleteTaxRule(uint(id)); err != nil {
		return response.NotFound(c, "Tax rule not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.delete_tax_rule",
		EntityType: "tax_rule",
		EntityID:   uint(id),
		IP:         c.IP(),
	})

	return response.Success(c, "Tax rule deleted", nil)
}

func (h *CatalogHandler) PricingRules(c *fiber.Ctx) error {
	rules, err := h.catalog.PricingRules(c.Query("corridor"))
	if err != nil {
		log.Printf("Error fetching pricing rules: %v", err)
		return response.ServerError(c, "Failed to fetch pricing rules")
	}
	return c.JSON(fiber.Map{"rules": rules})
}

func (h *CatalogHandler) SavePricingRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Name        string           `json:"name" validate:"required"`
		Tier        string           `json:"tier" validate:"required"`
		Corridor    string           `json:"corridor" validate:"required,oneof=domestic international"`
		VolumeFloor string           `json:"volume_floor"`
		Priority    int              `json:"priority"`
		Enabled     bool             `json:"enabled"`
		Schedule    feeScheduleInput `json:"schedule" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	schedule, err := input.Schedule.toSchedule()
	if err != nil {
		return response.BadRequest(c, "Invalid decimal amount")
	}
	if err := schedule.Validate(); err != nil {
		return response.BadRequest(c, err.Error())
	}

	rule := &models.PricingRule{
		Name:       input.Name,
		Tier:       input.Tier,
		Corridor:   input.Corridor,
		Priority:   input.Priority,
		Enabled:    input.Enabled,
		Percentage: schedule.Percentage,
		Fixed:      schedule.Fixed.Amount,
		Minimum:    schedule.Minimum.Amount,
		Maximum:    schedule.Maximum.Amount,
		Currency:   schedule.Fixed.Currency,
		UpdatedBy:  claims.AdminID,
	}
	if input.VolumeFloor != "" {
		floor, err := decimal.NewFromString(input.VolumeFloor)
		if err != nil || floor.IsNegative() {
			return response.BadRequest(c, "Invalid volume floor")
		}
		rule.VolumeFloor = floor
	}

	if err := h.catalog.SavePricingRule(rule); err != nil {
		return response.ServerError(c, "Failed to save pricing rule")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.save_pricing_rule",
		EntityType: "pricing_rule",
		EntityID:   rule.ID,
		After:      models.JSON{"name": input.Name, "tier": input.Tier, "corridor": input.Corridor, "priority": input.Priority},
		IP:         c.IP(),
	})

	return response.Success(c, "Pricing rule saved", rule)
}

func (h *CatalogHandler) DeletePricingRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pricing rule ID")
	}

	if err := h.catalog.DeletePricingRule(uint(id)); err != nil {
		return response.NotFound(c, "Pricing rule not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "catalog.delete_pricing_rule",
		EntityType: "pricing_rule",
		EntityID:   uint(id),
		IP:         c.IP(),
	})

	return response.Success(c, "Pricing rule deleted", nil)
}
