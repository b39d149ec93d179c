package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"corepay/internal/models"
	"corepay/internal/services/auth"
	"corepay/internal/utils/response"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	admin, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password, c.IP())
	if err != nil {
		log.Printf("Login failed for %s: %v", input.Email, err)
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"admin": fiber.Map{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
			"role":  admin.Role,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	return response.Success(c, "Tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	if err := h.authService.Logout(adminID); err != nil {
		return response.ServerError(c, "Failed to log out")
	}
	return response.Success(c, "Logged out", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)

	var input struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, validationMessage(err))
	}

	if err := h.authService.ChangePassword(adminID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "Password changed; please log in again", nil)
}

// Me returns the authenticated operator's own profile and permissions.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.AdminClaims)
	if !ok {
		return response.Unauthorized(c)
	}
	admin, err := h.authService.GetAdminByID(claims.AdminID)
	if err != nil {
		return response.NotFound(c, "Admin not found")
	}
	return c.JSON(fiber.Map{
		"id":          admin.ID,
		"email":       admin.Email,
		"name":        admin.Name,
		"role":        admin.Role,
		"status":      admin.Status,
		"permissions": claims.Permissions,
	})
}
