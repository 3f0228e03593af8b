package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/dto"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

// UsersHandler exposes the caller's own identity.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Me handles GET /api/user.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.UserResponse{
		Email: identity.Email,
		Role:  string(identity.Role),
		UID:   identity.UID,
	})
}
