package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/anjiri1684/hotel_reservation/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddHotelImage uploads the multipart "image" into the gallery of the hotel
// in the path. Any hotel or room named in the form is ignored.
func (h *Handler) AddHotelImage(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if !principal.Authenticated() {
		return policyError(c, policy.ErrUnauthenticated)
	}

	id, err := c.ParamsInt("hotel_id")
	if err != nil || id < 1 {
		return notFound(c, "Hotel")
	}
	var hotel models.Hotel
	err = h.DB.WithContext(c.UserContext()).First(&hotel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Hotel")
	}
	if err != nil {
		return err
	}
	if err := policy.Check(principal, policy.Create, policy.Object(policy.Gallery, hotel.HostID)); err != nil {
		return policyError(c, err)
	}

	hotelID := hotel.ID
	image, err := h.saveImage(c, "hotels/"+hotel.Slug)
	if image == nil {
		return err
	}
	image.HotelID = &hotelID
	if err := h.DB.WithContext(c.UserContext()).Create(image).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(GalleryCreatedView{
		ID:        image.ID,
		Image:     image.Image,
		Hotel:     &hotel.Slug,
		CreatedAt: image.CreatedAt,
	})
}

// AddRoomImage is AddHotelImage for the room in the path; the owner check
// goes through the room's hotel.
func (h *Handler) AddRoomImage(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if !principal.Authenticated() {
		return policyError(c, policy.ErrUnauthenticated)
	}

	roomUUID, err := uuid.Parse(c.Params("room_uuid"))
	if err != nil {
		return notFound(c, "Room")
	}
	var room models.Room
	err = h.DB.WithContext(c.UserContext()).Joins("Hotel").Where("rooms.uuid = ?", roomUUID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Room")
	}
	if err != nil {
		return err
	}
	if err := policy.Check(principal, policy.Create, policy.Object(policy.Gallery, room.Hotel.HostID)); err != nil {
		return policyError(c, err)
	}

	roomID := room.ID
	image, err := h.saveImage(c, "rooms/"+room.UUID.String())
	if image == nil {
		return err
	}
	image.RoomID = &roomID
	if err := h.DB.WithContext(c.UserContext()).Create(image).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(GalleryCreatedView{
		ID:        image.ID,
		Image:     image.Image,
		Room:      &room.UUID,
		CreatedAt: image.CreatedAt,
	})
}

// saveImage pushes the "image" form file to the image store. A nil gallery
// means the response has been written.
func (h *Handler) saveImage(c *fiber.Ctx, folder string) (*models.Gallery, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, fieldErrors(c, map[string]string{"image": "required"})
	}
	if !strings.HasPrefix(file.Header.Get(fiber.HeaderContentType), "image/") {
		return nil, fieldErrors(c, map[string]string{"image": "image"})
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	imageURL, err := h.Images.Save(c.UserContext(), folder, name, f)
	if errors.Is(err, storage.ErrImageStoreDisabled) {
		return nil, c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		h.Log.Error().Err(err).Str("folder", folder).Msg("image upload failed")
		return nil, c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload image"})
	}
	return &models.Gallery{Image: imageURL}, nil
}
