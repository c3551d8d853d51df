package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoute exposes a liveness endpoint reporting backend
// reachability.
func RegisterHealthRoute(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if d.DB != nil {
			if err := d.DB.Ping(c.UserContext()); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
			} else {
				status["database"] = "ok"
			}
		} else {
			status["database"] = "in-memory"
		}

		if d.Cache != nil {
			if err := d.Cache.Ping(c.UserContext()).Err(); err != nil {
				status["status"] = "degraded"
				status["redis"] = "unreachable"
			} else {
				status["redis"] = "ok"
			}
		}

		code := http.StatusOK
		if status["status"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})
}
