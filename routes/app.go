package routes

import (
	"errors"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

// New builds the fiber app with the full middleware chain and every route.
func New(cfg *config.Config, h *handlers.Handler, th *middleware.Throttles, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		CaseSensitive:         true,
		StrictRouting:         true,
		DisableStartupMessage: cfg.App.Env == "test",
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		BodyLimit:             10 * 1024 * 1024,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Retry-After",
		MaxAge:        86400,
	}))

	PublicRoutes(app)

	api := app.Group("/api/v1", middleware.Identify(cfg.Auth), th.Anon, th.User)
	AuthRoutes(api, h, th)
	HotelRoutes(api, h)
	RoomRoutes(api, h)
	ReservationRoutes(api, h)

	return app
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		msg := err.Error()
		if code == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("unhandled error")
			msg = "Internal server error"
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
