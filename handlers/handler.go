package handlers

import (
	"errors"
	"reflect"
	"strings"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/anjiri1684/hotel_reservation/notifications"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/anjiri1684/hotel_reservation/storage"
	"github.com/anjiri1684/hotel_reservation/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return utils.IsSlug(fl.Field().String())
	})
	return v
}

// Handler carries the dependencies every endpoint shares.
type Handler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Images storage.ImageStore
	Mailer notifications.Mailer
	Log    zerolog.Logger
	Now    func() time.Time
}

func New(db *gorm.DB, cfg *config.Config, images storage.ImageStore, mailer notifications.Mailer, log zerolog.Logger) *Handler {
	if images == nil {
		images = storage.DisabledStore{}
	}
	return &Handler{
		DB:     db,
		Cfg:    cfg,
		Images: images,
		Mailer: mailer,
		Log:    log,
		Now:    time.Now,
	}
}

func validationError(c *fiber.Ctx, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return fieldErrors(c, fields)
}

// fieldPath turns "HotelRequest.location.city" into "location.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldErrors(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

func policyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return err
	}
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}
