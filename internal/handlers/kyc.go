package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/kyc"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type KYCHandler struct {
	kycService kyc.Service
	audit      repositories.AuditRepository
}

func NewKYCHandler(kycService kyc.Service, audit repositories.AuditRepository) *KYCHandler {
	return &KYCHandler{kycService: kycService, audit: audit}
}

func (h *KYCHandler) Queue(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := c.Query("status")

	submissions, total, err := h.kycService.Queue(p.Limit, p.Offset, status)
	if err != nil {
		log.Printf("Error fetching KYC queue: %v", err)
		return response.ServerError(c, "Failed to fetch KYC queue")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, submissions))
}

func (h *KYCHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID")
	}
	sub, err := h.kycService.Get(uint(id))
	if err != nil {
		return response.NotFound(c, "Submission not found")
	}
	return c.JSON(sub)
}

func (h *KYCHandler) ReviewDocument(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	docID, err := strconv.ParseUint(c.Params("docId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var input struct {
		Status string `json:"status" validate:"required,oneof=verified rejected"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	doc, err := h.kycService.ReviewDocument(uint(docID), input.Status, input.Reason)
	if err != nil {
		if errors.Is(err, kyc.ErrUnknownStatus) {
			return response.BadRequest(c, err.Error())
		}
		return response.NotFound(c, "Document not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "kyc.review_document",
		EntityType: "kyc_document",
		EntityID:   uint(docID),
		After:      models.JSON{"status": input.Status, "reason": input.Reason},
		IP:         c.IP(),
	})

	return response.Success(c, "Document reviewed", doc)
}

func (h *KYCHandler) Decide(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID")
	}

	var input struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	sub, err := h.kycService.Decide(uint(id), input.Approve, input.Note, claims.AdminID)
	if err != nil {
		if errors.Is(err, kyc.ErrAlreadyDecided) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.NotFound(c, "Submission not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "kyc.decide",
		EntityType: "kyc_submission",
		EntityID:   uint(id),
		After:      models.JSON{"approve": input.Approve, "note": input.Note},
		IP:         c.IP(),
	})

	return response.Success(c, "Decision recorded", sub)
}

func (h *KYCHandler) RequestMore(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID")
	}

	var input struct {
		Note string `json:"note" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	sub, err := h.kycService.RequestMore(uint(id), input.Note, claims.AdminID)
	if err != nil {
		return response.NotFound(c, "Submission not found")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    claims.AdminID,
		Action:     "kyc.request_more",
		EntityType: "kyc_submission",
		EntityID:   uint(id),
		After:      models.JSON{"note": input.Note},
		IP:         c.IP(),
	})

	return response.Success(c, "More information requested", sub)
}
