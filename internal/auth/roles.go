package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

// Require ensures the authenticated caller's role grants permission.
// It must run after Gate.Handle.
func Require(permission domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.Role.Can(permission) {
			return apperrors.NewForbidden(forbiddenMessage(permission))
		}
		return c.Next()
	}
}

func forbiddenMessage(permission domain.Permission) string {
	switch permission {
	case domain.PermissionExportReports:
		return "only Kasubag may export reports"
	case domain.PermissionUpdateReports:
		return "action not allowed for your role"
	default:
		return "insufficient role"
	}
}
