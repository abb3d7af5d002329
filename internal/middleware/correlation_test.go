package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func correlationApp() *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(GetCorrelationID(c))
	})
	return app
}

func TestCorrelationIDHonoursValidHeader(t *testing.T) {
	app := correlationApp()
	incoming := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", incoming)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, incoming, resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDReplacesInvalidHeader(t *testing.T) {
	app := correlationApp()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "not-a-uuid")

	resp, err := app.Test(req)
	require.NoError(t, err)

	echoed := resp.Header.Get("X-Correlation-ID")
	require.NotEqual(t, "not-a-uuid", echoed)
	_, err = uuid.Parse(echoed)
	require.NoError(t, err)
}
