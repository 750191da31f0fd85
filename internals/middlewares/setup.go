package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/middlewares/logger"
)

// SetupMiddlewares applies the base middleware chain.
func SetupMiddlewares(app *fiber.App, corsOrigins string) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware(corsOrigins))
	app.Use(logger.LoggerMiddleware())
}
