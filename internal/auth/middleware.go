// Package auth identifies the caller of a request. It does not
// authenticate: the user id arrives in a header set by the hosting UI and
// the admin is whoever matches the configured admin id.
package auth

import (
	"strings"

	"sku-dashboard/internal/config"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID = "X-User-ID"

	CtxUserIDKey  = "user_id"
	CtxIsAdminKey = "is_admin"
)

// Identity stores the caller's user id and admin flag in Locals. Requests
// without the header pass through anonymous.
func Identity(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(HeaderUserID))
		c.Locals(CtxUserIDKey, userID)
		c.Locals(CtxIsAdminKey, userID != "" && userID == cfg.AdminUserID)
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxUserIDKey).(string)
	return id
}

func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals(CtxIsAdminKey).(bool)
	return admin
}

func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, HeaderUserID+" header missing")
		}
		return c.Next()
	}
}

// RequireAdmin rejects everyone except the configured admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, HeaderUserID+" header missing")
		}
		if !IsAdmin(c) {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}
