package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/utils/pagination"
	"corepay/internal/utils/response"
)

// AdminUserHandler manages operator accounts. All routes behind it require
// the super_admin role.
type AdminUserHandler struct {
	repo  repositories.AdminUserRepository
	audit repositories.AuditRepository
}

func NewAdminUserHandler(repo repositories.AdminUserRepository, audit repositories.AuditRepository) *AdminUserHandler {
	return &AdminUserHandler{repo: repo, audit: audit}
}

func (h *AdminUserHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	admins, total, err := h.repo.List(p.Limit, p.Offset)
	if err != nil {
		log.Printf("Error fetching admins: %v", err)
		return response.ServerError(c, "Failed to fetch admins")
	}
	for i := range admins {
		admins[i].Password = ""
	}
	p.Total = total
	return c.JSON(pagination.Response(p, admins))
}

func (h *AdminUserHandler) Create(c *fiber.Ctx) error {
	actor := c.Locals("claims").(*models.AdminClaims)

	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required,min=12"`
		Role     string `json:"role" validate:"required,oneof=viewer support risk_analyst compliance_officer super_admin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.ServerError(c, "Failed to create admin")
	}

	admin := &models.AdminUser{
		Email:    input.Email,
		Name:     input.Name,
		Password: string(hashed),
		Role:     input.Role,
		Status:   "active",
	}
	if err := h.repo.Create(admin); err != nil {
		log.Printf("Error creating admin %s: %v", input.Email, err)
		return response.ServerError(c, "Failed to create admin")
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    actor.AdminID,
		Action:     "admin.create",
		EntityType: "admin_user",
		EntityID:   admin.ID,
		After:      models.JSON{"email": admin.Email, "role": admin.Role},
		IP:         c.IP(),
	})

	admin.Password = ""
	return response.Success(c, "Admin created", admin)
}

func (h *AdminUserHandler) UpdateRole(c *fiber.Ctx) error {
	actor := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID")
	}

	var input struct {
		Role string `json:"role" validate:"required,oneof=viewer support risk_analyst compliance_officer super_admin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	admin, err := h.repo.GetByID(uint(id))
	if err != nil {
		return response.NotFound(c, "Admin not found")
	}
	previous := admin.Role
	admin.Role = input.Role
	if err := h.repo.Update(admin); err != nil {
		return response.ServerError(c, "Failed to update admin")
	}
	// Old tokens still carry the previous role's permissions.
	if err := h.repo.IncrementTokenVersion(admin.ID); err != nil {
		log.Printf("Error bumping token version for admin %d: %v", admin.ID, err)
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    actor.AdminID,
		Action:     "admin.update_role",
		EntityType: "admin_user",
		EntityID:   admin.ID,
		Before:     models.JSON{"role": previous},
		After:      models.JSON{"role": admin.Role},
		IP:         c.IP(),
	})

	return response.Success(c, "Role updated", nil)
}

func (h *AdminUserHandler) Deactivate(c *fiber.Ctx) error {
	actor := c.Locals("claims").(*models.AdminClaims)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID")
	}
	if uint(id) == actor.AdminID {
		return response.BadRequest(c, "Cannot deactivate your own account")
	}

	admin, err := h.repo.GetByID(uint(id))
	if err != nil {
		return response.NotFound(c, "Admin not found")
	}
	admin.Status = "disabled"
	if err := h.repo.Update(admin); err != nil {
		return response.ServerError(c, "Failed to deactivate admin")
	}
	if err := h.repo.IncrementTokenVersion(admin.ID); err != nil {
		log.Printf("Error bumping token version for admin %d: %v", admin.ID, err)
	}

	h.audit.Append(&models.AuditEntry{
		ActorID:    actor.AdminID,
		Action:     "admin.deactivate",
		EntityType: "admin_user",
		EntityID:   admin.ID,
		IP:         c.IP(),
	})

	return response.Success(c, "Admin deactivated", nil)
}
