package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "schoolku_backend/internals/features/users/auth/controller"
	"schoolku_backend/internals/middlewares"
	"schoolku_backend/internals/middlewares/auth"
)

// AuthRoutes — public endpoints carry their own tighter rate limits; the
// profile group sits behind the auth middleware.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	authGroup.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	authGroup.Post("/refresh", ctl.Refresh)

	protected := authGroup.Group("", auth.AuthMiddleware(db))
	protected.Post("/logout", ctl.Logout)
	protected.Get("/profile", ctl.GetProfile)
	protected.Put("/profile", ctl.UpdateProfile)
	protected.Post("/change-password", ctl.ChangePassword)
}
