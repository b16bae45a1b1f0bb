package middleware

import (
	"errors"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Identify authenticates the request from the bearer header or the access
// cookie. Requests carrying neither continue as anonymous; a bad token is
// rejected outright.
func Identify(cfg config.AuthConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(cfg.SecretKey),
		SigningMethod: "HS256",
		TokenLookup:   "header:" + fiber.HeaderAuthorization + ",cookie:" + cfg.CookieName,
		// only defaulted by jwtware when TokenLookup is left empty
		AuthScheme:    "Bearer",
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == "" && c.Cookies(cfg.CookieName) == ""
		},
		SuccessHandler: attachPrincipal,
		ErrorHandler:   jwtError,
	})
}

func attachPrincipal(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.Next()
	}
	p, err := principalFromClaims(token)
	if err != nil {
		return jwtError(c, err)
	}
	c.Locals(principalKey, p)
	return c.Next()
}

func principalFromClaims(token *jwt.Token) (policy.Principal, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Anonymous, errors.New("unexpected claims")
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return policy.Anonymous, errors.New("token has no user")
	}
	isHost, _ := claims["is_host"].(bool)
	return policy.Principal{ID: id, IsHost: isHost}, nil
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

// Principal returns the caller resolved by Identify, or policy.Anonymous.
func Principal(c *fiber.Ctx) policy.Principal {
	if p, ok := c.Locals(principalKey).(policy.Principal); ok {
		return p
	}
	return policy.Anonymous
}

// Protected rejects anonymous callers with 401.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Principal(c).Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": policy.ErrUnauthenticated.Error()})
		}
		return c.Next()
	}
}

// NewAccessToken signs the HS256 access token Identify accepts.
func NewAccessToken(cfg config.AuthConfig, userID uuid.UUID, isHost bool, now time.Time) (string, time.Time, error) {
	exp := now.Add(cfg.AccessTokenLifetime)
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"is_host": isHost,
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
