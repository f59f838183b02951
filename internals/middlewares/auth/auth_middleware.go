// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/configs"
	userModel "schoolku_backend/internals/features/users/user/model"
)

// Locals keys set by AuthMiddleware; every handler reads them via GetIdentity.
const (
	LocUserID   = "user_id"
	LocUserRole = "user_role"
	LocSchoolID = "school_id"
)

// AuthMiddleware verifies the bearer token and resolves the caller into an
// access.Identity stored in Locals. It also rejects deactivated accounts on
// every request, matching the login-time check.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if configs.JWTSecret == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(configs.JWTSecret), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
		}

		sub, _ := claims["sub"].(string)
		userID64, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		userID := uint(userID64)

		var user userModel.UserModel
		if err := db.Select("id", "role", "school_id", "is_active").
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "Account is deactivated")
		}

		c.Locals(LocUserID, user.ID)
		c.Locals(LocUserRole, user.Role)
		if user.SchoolID != nil {
			c.Locals(LocSchoolID, *user.SchoolID)
		}

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return strings.TrimSpace(parts[1]), nil
		}
		return "", errors.New("Unauthorized - Malformed Authorization header")
	}
	if cookie := strings.TrimSpace(c.Cookies("access_token")); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Unauthorized - Missing token")
}

// GetIdentity rebuilds the actor from Locals. Handlers call this first; a
// missing identity is always Unauthenticated, before any policy evaluation.
func GetIdentity(c *fiber.Ctx) (access.Identity, error) {
	userID, ok := c.Locals(LocUserID).(uint)
	if !ok {
		return access.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	role, _ := c.Locals(LocUserRole).(string)

	id := access.Identity{UserID: userID, Role: role}
	if schoolID, ok := c.Locals(LocSchoolID).(uint); ok {
		id.SchoolID = &schoolID
	}
	return id, nil
}
