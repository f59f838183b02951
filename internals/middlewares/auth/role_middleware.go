package auth

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/access"
	helper "schoolku_backend/internals/helpers"
)

// Guard runs a policy check before the handler; the check happens after
// authentication and before any side effect.
func Guard(check func(access.Identity, *fiber.Ctx) access.Decision) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := GetIdentity(c)
		if err != nil {
			return err
		}
		if d := check(id, c); !d.Allowed {
			return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
		}
		return c.Next()
	}
}

// RequireSuperAdmin — software-level operations only.
func RequireSuperAdmin(message string) fiber.Handler {
	return Guard(func(id access.Identity, _ *fiber.Ctx) access.Decision {
		if id.IsSuperAdmin() {
			return access.Allow()
		}
		return access.Deny(message)
	})
}

// RequireAdminLevel — super_admin, school_admin, principal or director.
func RequireAdminLevel(message string) fiber.Handler {
	return Guard(func(id access.Identity, _ *fiber.Ctx) access.Decision {
		if access.IsAdminLevel(id.Role) {
			return access.Allow()
		}
		return access.Deny(message)
	})
}

// RequireTeacherLevel — teacher or any admin-level role.
func RequireTeacherLevel(message string) fiber.Handler {
	return Guard(func(id access.Identity, _ *fiber.Ctx) access.Decision {
		if access.IsTeacherLevel(id.Role) {
			return access.Allow()
		}
		return access.Deny(message)
	})
}
