// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"schoolku_backend/internals/configs"
)

// CorsMiddleware builds the CORS layer; origins come from ALLOWED_ORIGINS
// (comma separated) with a localhost default for dev.
func CorsMiddleware() fiber.Handler {
	origins := configs.GetEnv("ALLOWED_ORIGINS", strings.Join([]string{
		"http://localhost:5173",
		"http://localhost:3000",
	}, ","))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
