package middleware

import (
	"strconv"
	"time"

	"github.com/anjiri1684/hotel_reservation/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request and records it in the HTTP metrics.
// It expects the requestid middleware to run first.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	base := log.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the final status before logging it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		dur := time.Since(start)

		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.ObserveHTTP(c.Method(), route, strconv.Itoa(status), dur.Seconds())

		requestID, _ := c.Locals("requestid").(string)
		ev := base.Info()
		if status >= fiber.StatusInternalServerError {
			ev = base.Error().Err(err)
		}
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Str("ip", c.IP()).
			Dur("duration", dur).
			Msg("request")
		return nil
	}
}
