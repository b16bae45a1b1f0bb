package handlers

import (
	"errors"
	"strings"

	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/anjiri1684/hotel_reservation/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LocationRequest struct {
	Country string `json:"country" validate:"required,max=100"`
	City    string `json:"city" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=255"`
}

type HotelRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"omitempty,max=120,slug"`
	Description string          `json:"description"`
	Location    LocationRequest `json:"location" validate:"required"`
}

type LocationPatch struct {
	Country *string `json:"country" validate:"omitempty,min=1,max=100"`
	City    *string `json:"city" validate:"omitempty,min=1,max=100"`
	Address *string `json:"address" validate:"omitempty,min=1,max=255"`
}

type HotelPatch struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string        `json:"slug" validate:"omitempty,max=120,slug"`
	Description *string        `json:"description"`
	Location    *LocationPatch `json:"location"`
}

var errSlugTaken = errors.New("slug taken")

// hotelFilters applies ?city, ?country and ?search.
func hotelFilters(c *fiber.Ctx, db *gorm.DB) func(*gorm.DB) *gorm.DB {
	city, country := strings.TrimSpace(c.Query("city")), strings.TrimSpace(c.Query("country"))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	return func(q *gorm.DB) *gorm.DB {
		if city != "" || country != "" {
			locs := db.Model(&models.Location{}).Select("id")
			if city != "" {
				locs = locs.Where("LOWER(city) = ?", strings.ToLower(city))
			}
			if country != "" {
				locs = locs.Where("LOWER(country) = ?", strings.ToLower(country))
			}
			q = q.Where("hotels.location_id IN (?)", locs)
		}
		if search != "" {
			q = q.Where("LOWER(hotels.name) LIKE ?", "%"+search+"%")
		}
		return q
	}
}

func (h *Handler) ListHotels(c *fiber.Ctx) error {
	var hotels []models.Hotel
	total, pr, err := h.fetchPage(c, &models.Hotel{}, hotelFilters(c, h.DB), func(q *gorm.DB) *gorm.DB {
		return q.Joins("Location").Order("hotels.id DESC")
	}, &hotels)
	if err != nil {
		return pageError(c, err)
	}

	results := make([]HotelView, 0, len(hotels))
	for _, hotel := range hotels {
		results = append(results, toHotelView(hotel))
	}
	return sendPage(c, total, pr, results)
}

func (h *Handler) CreateHotel(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if err := policy.Check(principal, policy.Create, policy.Collection(policy.Hotel)); err != nil {
		return policyError(c, err)
	}

	var req HotelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	hotel := models.Hotel{
		Name:        req.Name,
		Description: req.Description,
		HostID:      principal.ID,
		Location: models.Location{
			Country: req.Location.Country,
			City:    req.Location.City,
			Address: req.Location.Address,
		},
	}

	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		slug, err := resolveSlug(tx, req.Slug, req.Name, 0)
		if err != nil {
			return err
		}
		hotel.Slug = slug
		if err := tx.Create(&hotel.Location).Error; err != nil {
			return err
		}
		hotel.LocationID = hotel.Location.ID
		return tx.Omit(clause.Associations).Create(&hotel).Error
	})
	if errors.Is(err, errSlugTaken) {
		return fieldErrors(c, map[string]string{"slug": "unique"})
	}
	if err != nil {
		return err
	}

	h.Log.Info().Str("slug", hotel.Slug).Str("host", principal.ID.String()).Msg("hotel created")
	return c.Status(fiber.StatusCreated).JSON(toHotelView(hotel))
}

// resolveSlug returns wanted if no other hotel uses it, or a slug generated
// from name when wanted is empty.
func resolveSlug(tx *gorm.DB, wanted, name string, selfID uint) (string, error) {
	if wanted == "" {
		return utils.GenerateUniqueSlug(tx, name)
	}
	var count int64
	if err := tx.Model(&models.Hotel{}).Where("slug = ? AND id <> ?", wanted, selfID).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", errSlugTaken
	}
	return wanted, nil
}

func (h *Handler) findHotel(c *fiber.Ctx, slug string, withGallery bool) (*models.Hotel, error) {
	q := h.DB.WithContext(c.UserContext()).Joins("Location")
	if withGallery {
		q = q.Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	var hotel models.Hotel
	if err := q.Where("hotels.slug = ?", slug).First(&hotel).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (h *Handler) GetHotel(c *fiber.Ctx) error {
	hotel, err := h.findHotel(c, c.Params("slug"), true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Hotel")
	}
	if err != nil {
		return err
	}
	return c.JSON(toHotelDetailView(*hotel))
}

// loadOwnedHotel fetches the hotel named by :slug and runs the object check.
// A nil hotel means the response has been written.
func (h *Handler) loadOwnedHotel(c *fiber.Ctx, verb policy.Verb) (*models.Hotel, error) {
	principal := middleware.Principal(c)
	if !principal.Authenticated() {
		return nil, policyError(c, policy.ErrUnauthenticated)
	}

	hotel, err := h.findHotel(c, c.Params("slug"), false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(c, "Hotel")
	}
	if err != nil {
		return nil, err
	}
	if err := policy.Check(principal, verb, policy.Object(policy.Hotel, hotel.HostID)); err != nil {
		return nil, policyError(c, err)
	}
	return hotel, nil
}

// UpdateHotel serves PUT (every writable field required) and PATCH (only the
// fields sent are changed).
func (h *Handler) UpdateHotel(c *fiber.Ctx) error {
	hotel, err := h.loadOwnedHotel(c, policy.Update)
	if hotel == nil {
		return err
	}

	var wantSlug string
	if c.Method() == fiber.MethodPatch {
		var req HotelPatch
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return validationError(c, err)
		}
		applyHotelPatch(hotel, req)
		if req.Slug != nil {
			wantSlug = *req.Slug
		}
	} else {
		var req HotelRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return validationError(c, err)
		}
		hotel.Name = req.Name
		hotel.Description = req.Description
		hotel.Location.Country = req.Location.Country
		hotel.Location.City = req.Location.City
		hotel.Location.Address = req.Location.Address
		wantSlug = req.Slug
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if wantSlug != "" && wantSlug != hotel.Slug {
			slug, err := resolveSlug(tx, wantSlug, hotel.Name, hotel.ID)
			if err != nil {
				return err
			}
			hotel.Slug = slug
		}
		if err := tx.Save(&hotel.Location).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(hotel).Error
	})
	if errors.Is(err, errSlugTaken) {
		return fieldErrors(c, map[string]string{"slug": "unique"})
	}
	if err != nil {
		return err
	}
	return c.JSON(toHotelView(*hotel))
}

func applyHotelPatch(hotel *models.Hotel, req HotelPatch) {
	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.Description != nil {
		hotel.Description = *req.Description
	}
	if loc := req.Location; loc != nil {
		if loc.Country != nil {
			hotel.Location.Country = *loc.Country
		}
		if loc.City != nil {
			hotel.Location.City = *loc.City
		}
		if loc.Address != nil {
			hotel.Location.Address = *loc.Address
		}
	}
}

// DeleteHotel removes the hotel with its location, rooms, gallery images and
// the reservations held on its rooms.
func (h *Handler) DeleteHotel(c *fiber.Ctx) error {
	hotel, err := h.loadOwnedHotel(c, policy.Delete)
	if hotel == nil {
		return err
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		rooms := tx.Model(&models.Room{}).Select("id").Where("hotel_id = ?", hotel.ID)
		if err := tx.Where("room_id IN (?)", rooms).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ? OR room_id IN (?)", hotel.ID, rooms).Delete(&models.Gallery{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", hotel.ID).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Hotel{}, hotel.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, hotel.LocationID).Error
	})
	if err != nil {
		return err
	}

	h.Log.Info().Str("slug", hotel.Slug).Msg("hotel deleted")
	return c.SendStatus(fiber.StatusNoContent)
}
