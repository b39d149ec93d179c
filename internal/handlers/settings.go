package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"corepay/internal/config"
	"corepay/internal/models"
	"corepay/internal/money"
	"corepay/internal/repositories"
	"corepay/internal/services/fees"
	"corepay/internal/services/settings"
	"corepay/internal/utils/response"
)

type SettingsHandler struct {
	settingsService settings.Service
	audit           repositories.AuditRepository
}

func NewSettingsHandler(settingsService settings.Service, audit repositories.AuditRepository) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, audit: audit}
}

// feeScheduleInput carries all amounts as strings so no precision is lost
// in transit. Parsing failures surface as 400s.
type feeScheduleInput struct {
	Percentage string `json:"percentage" validate:"required"`
	Fixed      string `json:"fixed" validate:"required"`
	Minimum    string `json:"minimum" validate:"required"`
	Maximum    string `json:"maximum" validate:"required"`
	Currency   string `json:"currency" validate:"required,len=3"`
}

func (in feeScheduleInput) toSchedule() (fees.Schedule, error) {
	pct, err := decimal.NewFromString(in.Percentage)
	if err != nil {
		return fees.Schedule{}, err
	}
	fixed, err := decimal.NewFromString(in.Fixed)
	if err != nil {
		return fees.Schedule{}, err
	}
	min, err := decimal.NewFromString(in.Minimum)
	if err != nil {
		return fees.Schedule{}, err
	}
	max, err := decimal.NewFromString(in.Maximum)
	if err != nil {
		return fees.Schedule{}, err
	}
	return fees.Schedule{
		Percentage: pct,
		Fixed:      money.New(fixed, in.Currency),
		Minimum:    money.New(min, in.Currency),
		Maximum:    money.New(max, in.Currency),
	}, nil
}

func parseCorridor(raw string) (fees.Corridor, error) {
	switch raw {
	case string(fees.CorridorDomestic):
		return fees.CorridorDomestic, nil
	case string(fees.CorridorInternational):
		return fees.CorridorInternational, nil
	default:
		return "", fees.ErrUnknownCorridor
	}
}

func (h *SettingsHandler) GetFeeSchedule(c *fiber.Ctx) error {
	corridor, err := parseCorridor(c.Params("corridor"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	schedule, err := h.settingsService.FeeSchedule(corridor)
	if err != nil {
		log.Printf("Error fetching fee schedule for %s: %v", corridor, err)
		return response.ServerError(c, "Failed to fetch fee schedule")
	}
	return c.JSON(fiber.Map{"corridor": corridor, "schedule": schedule})
}

func (h *SettingsHandler) SaveFeeSchedule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	corridor, err := parseCorridor(c.Params("corridor"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var input feeScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	schedule, err := input.toSchedule()
	if err != nil {
		return response.BadRequest(c, "Invalid decimal amount")
	}
	if err := h.settingsService.SaveFeeSchedule(corridor, schedule, claims.AdminID); err != nil {
		if errors.Is(err, fees.ErrInvalidArgument) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to save fee schedule")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "settings.save_fee_schedule",
		EntityType: "fee_schedule",
		After: models.JSON{
			"corridor":   string(corridor),
			"percentage": input.Percentage,
			"fixed":      input.Fixed,
			"minimum":    input.Minimum,
			"maximum":    input.Maximum,
			"currency":   input.Currency,
		},
		IP: c.IP(),
	})

	return response.Success(c, "Fee schedule saved", nil)
}

// PreviewFee lets operators check what a transaction would cost under the
// current schedule before publishing changes.
func (h *SettingsHandler) PreviewFee(c *fiber.Ctx) error {
	var input struct {
		Corridor string `json:"corridor" validate:"required"`
		Amount   string `json:"amount" validate:"required"`
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	corridor, err := parseCorridor(input.Corridor)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}
	currency := input.Currency
	if currency == "" {
		currency = config.DefaultFeeCurrency
	}

	fee, err := h.settingsService.PreviewFee(corridor, money.New(amount, currency))
	if err != nil {
		if errors.Is(err, fees.ErrInvalidArgument) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to compute fee")
	}

	return c.JSON(fiber.Map{
		"corridor": corridor,
		"amount":   money.New(amount, currency).String(),
		"fee":      fee.String(),
	})
}

func (h *SettingsHandler) FeatureFlags(c *fiber.Ctx) error {
	flags, err := h.settingsService.FeatureFlags()
	if err != nil {
		return response.ServerError(c, "Failed to fetch feature flags")
	}
	return c.JSON(fiber.Map{"flags": flags})
}

func (h *SettingsHandler) SaveFeatureFlag(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Key            string `json:"key" validate:"required"`
		Description    string `json:"description"`
		Enabled        bool   `json:"enabled"`
		RolloutPercent int    `json:"rollout_percent" validate:"min=0,max=100"`
		Audience       string `json:"audience"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	flag := &models.FeatureFlag{
		Key:            input.Key,
		Description:    input.Description,
		Enabled:        input.Enabled,
		RolloutPercent: input.RolloutPercent,
		Audience:       input.Audience,
		UpdatedBy:      claims.AdminID,
	}
	if err := h.settingsService.SaveFeatureFlag(flag); err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "settings.save_feature_flag",
		EntityType: "feature_flag",
		After:      models.JSON{"key": input.Key, "enabled": input.Enabled, "rollout_percent": input.RolloutPercent},
		IP:         c.IP(),
	})

	return response.Success(c, "Feature flag saved", flag)
}

func (h *SettingsHandler) DeleteFeatureFlag(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	key := c.Params("key")

	if err := h.settingsService.DeleteFeatureFlag(key); err != nil {
		return response.NotFound(c, "Feature flag not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "settings.delete_feature_flag",
		EntityType: "feature_flag",
		Before:     models.JSON{"key": key},
		IP:         c.IP(),
	})

	return response.Success(c, "Feature flag deleted", nil)
}

func (h *SettingsHandler) RateLimitRules(c *fiber.Ctx) error {
	rules, err := h.settingsService.RateLimitRules()
	if err != nil {
		return response.ServerError(c, "Failed to fetch rate limit rules")
	}
	return c.JSON(fiber.Map{"rules": rules})
}

func (h *SettingsHandler) SaveRateLimitRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Scope         string `json:"scope" validate:"required"`
		MaxRequests   int    `json:"max_requests" validate:"required,min=1"`
		WindowSeconds int    `json:"window_seconds" validate:"required,min=1"`
		Enabled       bool   `json:"enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	rule := &models.RateLimitRule{
		Scope:         input.Scope,
		MaxRequests:   input.MaxRequests,
		WindowSeconds: input.WindowSeconds,
		Enabled:       input.Enabled,
		UpdatedBy:     claims.AdminID,
	}
	if err := h.settingsService.SaveRateLimitRule(rule); err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "settings.save_rate_limit_rule",
		EntityType: "rate_limit_rule",
		After:      models.JSON{"scope": input.Scope, "max_requests": input.MaxRequests, "window_seconds": input.WindowSeconds},
		IP:         c.IP(),
	})

	return response.Success(c, "Rate limit rule saved", rule)
}

func (h *SettingsHandler) DeleteRateLimitRule(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	scope := c.Params("scope")

	if err := h.settingsService.DeleteRateLimitRule(scope); err != nil {
		return response.NotFound(c, "Rate limit rule not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "settings.delete_rate_limit_rule",
		EntityType: "rate_limit_rule",
		Before:     models.JSON{"scope": scope},
		IP:         c.IP(),
	})

	return response.Success(c, "Rate limit rule deleted", nil)
}
