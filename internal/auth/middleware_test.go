package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-dashboard/internal/config"
)

func testApp() *fiber.App {
	app := fiber.New()
	app.Use(Identity(&config.Config{AdminUserID: "boss"}))
	app.Get("/reader", RequireUser(), func(c *fiber.Ctx) error { return c.SendString(UserID(c)) })
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func status(t *testing.T, app *fiber.App, path, user string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if user != "" {
		req.Header.Set(HeaderUserID, user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireUser(t *testing.T) {
	app := testApp()
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "/reader", ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "/reader", "alice"))
}

func TestRequireAdmin(t *testing.T) {
	app := testApp()
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "/admin", ""))
	assert.Equal(t, fiber.StatusForbidden, status(t, app, "/admin", "alice"))
	assert.Equal(t, fiber.StatusOK, status(t, app, "/admin", "boss"))
	assert.Equal(t, fiber.StatusOK, status(t, app, "/admin", "  boss "))
}
