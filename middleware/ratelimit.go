package middleware

import (
	"fmt"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Throttles holds one handler per rate class. Anon and User are mounted
// together: each skips the requests the other one counts.
type Throttles struct {
	Auth fiber.Handler
	Anon fiber.Handler
	User fiber.Handler
}

// NewThrottles builds the auth/anon/user limiters. A nil storage keeps the
// counters in process memory.
func NewThrottles(cfg config.RateLimitConfig, storage fiber.Storage) (*Throttles, error) {
	if !cfg.Enabled {
		pass := func(c *fiber.Ctx) error { return c.Next() }
		return &Throttles{Auth: pass, Anon: pass, User: pass}, nil
	}

	authRate, err := config.ParseRate(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth rate: %w", err)
	}
	anonRate, err := config.ParseRate(cfg.Anon)
	if err != nil {
		return nil, fmt.Errorf("anon rate: %w", err)
	}
	userRate, err := config.ParseRate(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("user rate: %w", err)
	}

	return &Throttles{
		Auth: newLimiter(authRate, storage, nil, func(c *fiber.Ctx) string {
			return "auth:" + c.IP()
		}),
		Anon: newLimiter(anonRate, storage, func(c *fiber.Ctx) bool {
			return Principal(c).Authenticated()
		}, func(c *fiber.Ctx) string {
			return "anon:" + c.IP()
		}),
		User: newLimiter(userRate, storage, func(c *fiber.Ctx) bool {
			return !Principal(c).Authenticated()
		}, func(c *fiber.Ctx) string {
			return "user:" + Principal(c).ID.String()
		}),
	}, nil
}

func newLimiter(rate config.Rate, storage fiber.Storage, skip func(*fiber.Ctx) bool, key func(*fiber.Ctx) string) fiber.Handler {
	cfg := limiter.Config{
		Next:         skip,
		Max:          rate.Max,
		Expiration:   rate.Per,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Request was throttled.",
				"retry_after": c.GetRespHeader(fiber.HeaderRetryAfter),
			})
		},
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return limiter.New(cfg)
}
