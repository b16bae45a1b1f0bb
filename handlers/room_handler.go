package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomRequest is the write shape: the hotel is referenced by id only.
type RoomRequest struct {
	Hotel       uint    `json:"hotel" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	RoomType    string  `json:"room_type" validate:"omitempty,max=50"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Capacity    int     `json:"capacity" validate:"required,min=1"`
	Description string  `json:"description"`
}

type RoomPatch struct {
	Hotel       *uint    `json:"hotel" validate:"omitempty,min=1"`
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	RoomType    *string  `json:"room_type" validate:"omitempty,min=1,max=50"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Capacity    *int     `json:"capacity" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
}

func loadRoomRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Hotel.Location").Preload("Hotel.Host")
}

// roomFilters applies ?hotel (slug), ?room_type, ?min_price, ?max_price and
// ?capacity (minimum guests).
func roomFilters(c *fiber.Ctx, db *gorm.DB) (func(*gorm.DB) *gorm.DB, map[string]string) {
	bad := map[string]string{}
	hotelSlug := strings.TrimSpace(c.Query("hotel"))
	roomType := strings.TrimSpace(c.Query("room_type"))

	parseFloat := func(name string) *float64 {
		raw := c.Query(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			bad[name] = "number"
			return nil
		}
		return &v
	}
	minPrice, maxPrice := parseFloat("min_price"), parseFloat("max_price")

	var capacity int
	if raw := c.Query("capacity"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			bad["capacity"] = "number"
		}
		capacity = v
	}

	return func(q *gorm.DB) *gorm.DB {
		if hotelSlug != "" {
			q = q.Where("rooms.hotel_id IN (?)", db.Model(&models.Hotel{}).Select("id").Where("slug = ?", hotelSlug))
		}
		if roomType != "" {
			q = q.Where("rooms.room_type = ?", roomType)
		}
		if minPrice != nil {
			q = q.Where("rooms.price >= ?", *minPrice)
		}
		if maxPrice != nil {
			q = q.Where("rooms.price <= ?", *maxPrice)
		}
		if capacity > 0 {
			q = q.Where("rooms.capacity >= ?", capacity)
		}
		return q
	}, bad
}

func (h *Handler) ListRooms(c *fiber.Ctx) error {
	scope, bad := roomFilters(c, h.DB)
	if len(bad) > 0 {
		return fieldErrors(c, bad)
	}

	var rooms []models.Room
	total, pr, err := h.fetchPage(c, &models.Room{}, scope, func(q *gorm.DB) *gorm.DB {
		return loadRoomRelations(q).Order("rooms.id DESC")
	}, &rooms)
	if err != nil {
		return pageError(c, err)
	}
	return sendPage(c, total, pr, toRoomViews(rooms))
}

// ListHotelRooms is public and scoped to the hotel in the path.
func (h *Handler) ListHotelRooms(c *fiber.Ctx) error {
	var hotel models.Hotel
	err := h.DB.WithContext(c.UserContext()).Select("id").Where("slug = ?", c.Params("hotel_slug")).First(&hotel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Hotel")
	}
	if err != nil {
		return err
	}

	var rooms []models.Room
	total, pr, err := h.fetchPage(c, &models.Room{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("rooms.hotel_id = ?", hotel.ID)
	}, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Hotel.Location").Order("rooms.id DESC")
	}, &rooms)
	if err != nil {
		return pageError(c, err)
	}
	return sendPage(c, total, pr, toRoomViews(rooms))
}

// targetHotel loads the hotel a room is being written into and checks the
// caller hosts it. A nil hotel means the response has been written.
func (h *Handler) targetHotel(c *fiber.Ctx, id uint, verb policy.Verb) (*models.Hotel, error) {
	var hotel models.Hotel
	err := h.DB.WithContext(c.UserContext()).First(&hotel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fieldErrors(c, map[string]string{"hotel": "does_not_exist"})
	}
	if err != nil {
		return nil, err
	}
	if err := policy.Check(middleware.Principal(c), verb, policy.Object(policy.Room, hotel.HostID)); err != nil {
		return nil, policyError(c, err)
	}
	return &hotel, nil
}

func (h *Handler) CreateRoom(c *fiber.Ctx) error {
	if !middleware.Principal(c).Authenticated() {
		return policyError(c, policy.ErrUnauthenticated)
	}

	var req RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	hotel, err := h.targetHotel(c, req.Hotel, policy.Create)
	if hotel == nil {
		return err
	}

	room := models.Room{
		HotelID:     hotel.ID,
		Name:        req.Name,
		RoomType:    roomTypeOrDefault(req.RoomType),
		Price:       req.Price,
		Capacity:    req.Capacity,
		Description: req.Description,
	}
	if err := h.DB.WithContext(c.UserContext()).Omit(clause.Associations).Create(&room).Error; err != nil {
		return err
	}

	h.Log.Info().Str("room", room.UUID.String()).Str("hotel", hotel.Slug).Msg("room created")
	return c.Status(fiber.StatusCreated).JSON(toRoomWrittenView(room))
}

func roomTypeOrDefault(t string) string {
	if t == "" {
		return "standard"
	}
	return t
}

func (h *Handler) findRoom(c *fiber.Ctx, rawUUID string, withGallery bool) (*models.Room, error) {
	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	q := loadRoomRelations(h.DB.WithContext(c.UserContext()))
	if withGallery {
		q = q.Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	var room models.Room
	if err := q.Where("uuid = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (h *Handler) GetRoom(c *fiber.Ctx) error {
	room, err := h.findRoom(c, c.Params("uuid"), true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Room")
	}
	if err != nil {
		return err
	}
	return c.JSON(RoomDetailView{RoomView: toRoomView(*room), Gallery: toGalleryViews(room.Gallery)})
}

// loadOwnedRoom fetches the room named by :uuid and checks the caller hosts
// its hotel. A nil room means the response has been written.
func (h *Handler) loadOwnedRoom(c *fiber.Ctx, verb policy.Verb) (*models.Room, error) {
	principal := middleware.Principal(c)
	if !principal.Authenticated() {
		return nil, policyError(c, policy.ErrUnauthenticated)
	}

	room, err := h.findRoom(c, c.Params("uuid"), false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(c, "Room")
	}
	if err != nil {
		return nil, err
	}
	if err := policy.Check(principal, verb, policy.Object(policy.Room, room.Hotel.HostID)); err != nil {
		return nil, policyError(c, err)
	}
	return room, nil
}

func (h *Handler) UpdateRoom(c *fiber.Ctx) error {
	room, err := h.loadOwnedRoom(c, policy.Update)
	if room == nil {
		return err
	}

	hotelID := room.HotelID
	if c.Method() == fiber.MethodPatch {
		var req RoomPatch
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return validationError(c, err)
		}
		applyRoomPatch(room, req)
		if req.Hotel != nil {
			hotelID = *req.Hotel
		}
	} else {
		var req RoomRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return validationError(c, err)
		}
		room.Name = req.Name
		room.RoomType = roomTypeOrDefault(req.RoomType)
		room.Price = req.Price
		room.Capacity = req.Capacity
		room.Description = req.Description
		hotelID = req.Hotel
	}

	// moving a room needs ownership of the destination hotel as well
	if hotelID != room.HotelID {
		hotel, err := h.targetHotel(c, hotelID, policy.Update)
		if hotel == nil {
			return err
		}
		room.HotelID = hotel.ID
	}

	if err := h.DB.WithContext(c.UserContext()).Omit(clause.Associations).Save(room).Error; err != nil {
		return err
	}
	return c.JSON(toRoomWrittenView(*room))
}

func applyRoomPatch(room *models.Room, req RoomPatch) {
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
}

// DeleteRoom removes the room with its gallery images and reservations.
func (h *Handler) DeleteRoom(c *fiber.Ctx) error {
	room, err := h.loadOwnedRoom(c, policy.Delete)
	if room == nil {
		return err
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Gallery{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, room.ID).Error
	})
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
