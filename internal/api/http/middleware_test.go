package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

func TestErrorMiddlewareRendersDomainErrors(t *testing.T) {
	app := NewApp(AppOptions{Name: "test"}, zap.NewNop())
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("invalid month", map[string]any{"month": "must be formatted as YYYY-MM"})
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("connection reset by peer")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.ErrTooManyRequests
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/validation", http.StatusBadRequest, `{"error":{"code":"VALIDATION_FAILED","message":"invalid month","details":{"month":"must be formatted as YYYY-MM"}}}`},
		{"/internal", http.StatusInternalServerError, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`},
		{"/panic", http.StatusInternalServerError, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`},
		{"/fiber", http.StatusTooManyRequests, `{"error":{"code":"RATE_LIMITED","message":"Too Many Requests"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.body, string(body))
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	app := NewApp(AppOptions{Name: "test"}, zap.NewNop())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}
