package routes

import (
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/gofiber/fiber/v2"
)

func RoomRoutes(api fiber.Router, h *handlers.Handler) {
	rooms := api.Group("/rooms")
	rooms.Get("", h.ListRooms)
	rooms.Post("", h.CreateRoom)
	rooms.Get("/:uuid", h.GetRoom)
	rooms.Put("/:uuid", h.UpdateRoom)
	rooms.Patch("/:uuid", h.UpdateRoom)
	rooms.Delete("/:uuid", h.DeleteRoom)

	rooms.Post("/:room_uuid/gallery", h.AddRoomImage)
}
