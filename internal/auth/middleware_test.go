package auth_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/testutil"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

func newGateApp(gate *auth.Gate, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	handlers := append([]fiber.Handler{gate.Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(identity.UID + "|" + identity.Email + "|" + string(identity.Role))
	})
	app.Get("/me", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGate(t *testing.T) {
	verifier := testutil.NewVerifier(map[string]auth.Subject{
		"tok-kasubag": {UID: "u1", Email: "kasubag@mij.id"},
		"tok-nobody":  {UID: "u2", Email: "warga@mij.id"},
	})
	roles := testutil.NewRoleStore(map[string]domain.Role{"u1": domain.RoleKasubag})
	app := newGateApp(auth.NewGate(verifier, roles, testutil.NewLogger()))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", "Bearer forged", http.StatusForbidden, "FORBIDDEN"},
		{"role from store", "Bearer tok-kasubag", http.StatusOK, "u1|kasubag@mij.id|Kasubag"},
		{"default role", "Bearer tok-nobody", http.StatusOK, "u2|warga@mij.id|User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doGet(t, app, tt.header)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestGateReverifiesEveryRequest(t *testing.T) {
	verifier := testutil.NewVerifier(map[string]auth.Subject{"tok": {UID: "u1"}})
	roles := testutil.NewRoleStore(nil)
	app := newGateApp(auth.NewGate(verifier, roles, testutil.NewLogger()))

	doGet(t, app, "Bearer tok")
	doGet(t, app, "Bearer tok")

	assert.Equal(t, 2, verifier.Calls)
	assert.Equal(t, 2, roles.Reads)
}

func TestGateRoleStoreFailureIsInternal(t *testing.T) {
	verifier := testutil.NewVerifier(map[string]auth.Subject{"tok": {UID: "u1"}})
	roles := testutil.NewRoleStore(nil)
	roles.Err = errors.New("firestore unavailable")
	app := newGateApp(auth.NewGate(verifier, roles, testutil.NewLogger()))

	status, body := doGet(t, app, "Bearer tok")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body)
}

func TestRequire(t *testing.T) {
	verifier := testutil.NewVerifier(map[string]auth.Subject{
		"tok-kasubag": {UID: "k"},
		"tok-petugas": {UID: "p"},
		"tok-user":    {UID: "u"},
	})
	roles := testutil.NewRoleStore(map[string]domain.Role{
		"k": domain.RoleKasubag,
		"p": domain.RolePetugas,
	})
	gate := auth.NewGate(verifier, roles, testutil.NewLogger())

	exportApp := newGateApp(gate, auth.Require(domain.PermissionExportReports))
	updateApp := newGateApp(gate, auth.Require(domain.PermissionUpdateReports))

	status, _ := doGet(t, exportApp, "Bearer tok-kasubag")
	assert.Equal(t, http.StatusOK, status)
	status, _ = doGet(t, exportApp, "Bearer tok-petugas")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doGet(t, updateApp, "Bearer tok-petugas")
	assert.Equal(t, http.StatusOK, status)
	status, _ = doGet(t, updateApp, "Bearer tok-user")
	assert.Equal(t, http.StatusForbidden, status)
}
