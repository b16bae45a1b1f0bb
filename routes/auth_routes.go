package routes

import (
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handler, th *middleware.Throttles) {
	auth := api.Group("/auth")
	auth.Post("/register", th.Auth, h.Register)
	auth.Post("/login", th.Auth, h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middleware.Protected(), h.Me)
}
