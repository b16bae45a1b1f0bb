package routes

import (
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/gofiber/fiber/v2"
)

func HotelRoutes(api fiber.Router, h *handlers.Handler) {
	hotels := api.Group("/hotels")
	hotels.Get("", h.ListHotels)
	hotels.Post("", h.CreateHotel)
	hotels.Get("/:slug", h.GetHotel)
	hotels.Put("/:slug", h.UpdateHotel)
	hotels.Patch("/:slug", h.UpdateHotel)
	hotels.Delete("/:slug", h.DeleteHotel)

	hotels.Get("/:hotel_slug/rooms", h.ListHotelRooms)
	hotels.Post("/:hotel_id/gallery", h.AddHotelImage)
}
