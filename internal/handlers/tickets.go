package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/services/ticket"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

type TicketHandler struct {
	ticketService ticket.Service
}

func NewTicketHandler(ticketService ticket.Service) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	tickets, total, err := h.ticketService.List(p.Limit, p.Offset, c.Query("status"), c.Query("priority"))
	if err != nil {
		log.Printf("Error fetching tickets: %v", err)
		return response.ServerError(c, "Failed to fetch tickets")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, tickets))
}

func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var input ticket.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	t, err := h.ticketService.Create(input)
	if err != nil {
		if errors.Is(err, ticket.ErrUnknownPriority) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to create ticket")
	}
	return response.Success(c, "Ticket created", t)
}

func (h *TicketHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}
	t, err := h.ticketService.Get(uint(id))
	if err != nil {
		return response.NotFound(c, "Ticket not found")
	}
	return c.JSON(t)
}

func (h *TicketHandler) Assign(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		AdminID uint `json:"admin_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	if err := h.ticketService.Assign(uint(id), input.AdminID); err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Ticket assigned", nil)
}

func (h *TicketHandler) Transition(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	if err := h.ticketService.Transition(uint(id), input.Status); err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Ticket updated", nil)
}

func (h *TicketHandler) SetPriority(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		Priority string `json:"priority" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	if err := h.ticketService.SetPriority(uint(id), input.Priority); err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Priority updated", nil)
}

func (h *TicketHandler) Comment(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		Body     string `json:"body" validate:"required"`
		Internal bool   `json:"internal"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	comment, err := h.ticketService.Comment(uint(id), claims.AdminID, input.Body, input.Internal)
	if err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Comment added", comment)
}

func (h *TicketHandler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ticket.ErrUnknownStatus), errors.Is(err, ticket.ErrUnknownPriority):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, ticket.ErrClosed):
		return response.Error(c, fiber.StatusConflict, err.Error())
	default:
		return response.NotFound(c, "Ticket not found")
	}
}
