package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/repository"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

const identityKey = "auth_identity"

// Gate validates bearer tokens and resolves the caller's role on every request.
type Gate struct {
	verifier IdentityVerifier
	roles    repository.RoleRepository
	logger   *zap.Logger
}

// NewGate constructs the middleware.
func NewGate(verifier IdentityVerifier, roles repository.RoleRepository, logger *zap.Logger) *Gate {
	return &Gate{verifier: verifier, roles: roles, logger: logger}
}

// Handle enforces authentication for protected routes.
func (g *Gate) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("no token provided")
	}

	subject, err := g.verifier.Verify(c.UserContext(), token)
	if err != nil {
		g.logger.Warn("token verification failed",
			zap.String("code", FailureCode(err)),
			zap.String("path", c.Path()),
			zap.Error(err))
		return apperrors.NewForbidden("unauthorized")
	}

	role, err := g.roles.GetRole(c.UserContext(), subject.UID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		role = domain.DefaultRole
	case err != nil:
		return apperrors.NewInternalError(err)
	}

	c.Locals(identityKey, &domain.Identity{UID: subject.UID, Email: subject.Email, Role: role})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
