package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lmsku_backend/internals/constants"
	helper "lmsku_backend/internals/helpers"
)

// RequireRoles: lolos kalau salah satu roles_global ada di allowedRoles.
func RequireRoles(feature string, allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(helper.LocRolesGlobal).([]string)
		for _, r := range roles {
			if _, ok := allowed[r]; ok {
				return c.Next()
			}
		}
		log.Printf("[AUTH] akses ditolak user=%v roles=%v feature=%s", c.Locals(helper.LocUserID), roles, feature)
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
	}
}

// IsLMSAdmin: admin atau owner.
func IsLMSAdmin() fiber.Handler {
	return RequireRoles("admin LMS", constants.AdminAndAbove...)
}
