package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/hotel_reservation/metrics"
	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/anjiri1684/hotel_reservation/notifications"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRequest has no guest field; the guest is always the caller.
type ReservationRequest struct {
	Room      string `json:"room" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

var errRoomBooked = errors.New("room is already reserved for these dates")

// lockRoom holds the room row until the transaction ends, so concurrent
// bookings of one room check for overlaps one at a time.
func lockRoom(tx *gorm.DB, roomID uint, dest *models.Room) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(dest, roomID)
}

func (h *Handler) ListReservations(c *fiber.Ctx) error {
	guestID, err := policy.ScopeGuest(middleware.Principal(c))
	if err != nil {
		return policyError(c, err)
	}

	var reservations []models.Reservation
	total, pr, err := h.fetchPage(c, &models.Reservation{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("reservations.guest_id = ?", guestID)
	}, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Room.Hotel").Order("reservations.id DESC")
	}, &reservations)
	if err != nil {
		return pageError(c, err)
	}

	results := make([]ReservationView, 0, len(reservations))
	for _, r := range reservations {
		results = append(results, toReservationView(r))
	}
	return sendPage(c, total, pr, results)
}

func (h *Handler) CreateReservation(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if err := policy.Check(principal, policy.Create, policy.Collection(policy.Reservation)); err != nil {
		return policyError(c, err)
	}
	guestID, err := policy.ScopeGuest(principal)
	if err != nil {
		return policyError(c, err)
	}

	var req ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	start, _ := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	end, _ := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if !end.After(start) {
		return fieldErrors(c, map[string]string{"end_date": "gtfield"})
	}

	var room models.Room
	err = h.DB.WithContext(c.UserContext()).Joins("Hotel").Where("rooms.uuid = ?", uuid.MustParse(req.Room)).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fieldErrors(c, map[string]string{"room": "does_not_exist"})
	}
	if err != nil {
		return err
	}

	reservation := models.Reservation{
		GuestID:   guestID,
		RoomID:    room.ID,
		StartDate: start,
		EndDate:   end,
	}
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var locked models.Room
		if err := lockRoom(tx, room.ID, &locked).Error; err != nil {
			return err
		}
		var overlapping int64
		err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND start_date < ? AND end_date > ?", room.ID, end, start).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return errRoomBooked
		}
		return tx.Omit(clause.Associations).Create(&reservation).Error
	})
	if errors.Is(err, errRoomBooked) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return err
	}

	metrics.IncReservationsCreated()
	h.Log.Info().Uint("reservation", reservation.ID).Str("room", room.UUID.String()).Str("guest", guestID.String()).Msg("reservation created")

	var guest models.User
	if err := h.DB.WithContext(c.UserContext()).Select("full_name", "email").First(&guest, "id = ?", guestID).Error; err == nil {
		subject, body := notifications.ReservationEmail(room.Hotel.Name, room.Name, start, end)
		notifications.SendAsync(h.Mailer, h.Log, guest.FullName, guest.Email, subject, body)
	}

	reservation.Room = room
	return c.Status(fiber.StatusCreated).JSON(toReservationView(reservation))
}
