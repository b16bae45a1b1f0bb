package routes

import (
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReservationRoutes(api fiber.Router, h *handlers.Handler) {
	reservations := api.Group("/reservations", middleware.Protected())
	reservations.Get("", h.ListReservations)
	reservations.Post("", h.CreateReservation)
}
