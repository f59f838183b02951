package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// SetupMiddlewares wires the base chain: recovery first, then CORS, request
// logging and the global limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.New(logger.Config{
		Format: "[REQ] ${time} ${ip} ${method} ${path} status=${status} dur=${latency}\n",
	}))
	app.Use(GlobalRateLimiter())
}
