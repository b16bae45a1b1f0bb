package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/anjiri1684/hotel_reservation/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = config.AuthConfig{SecretKey: "test-secret", AccessTokenLifetime: time.Hour, CookieName: "acc_token"}

func whoAmIApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(Identify(testAuth))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		p := Principal(c)
		return c.JSON(fiber.Map{"id": p.ID.String(), "is_host": p.IsHost, "auth": p.Authenticated()})
	})
	app.Get("/private", Protected(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Post("/private", Protected(), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": Principal(c).ID.String()})
	})
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestIdentifyAnonymous(t *testing.T) {
	app := whoAmIApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["auth"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIdentifyBearerAndCookie(t *testing.T) {
	app := whoAmIApp(t)
	id := uuid.New()
	token, exp, err := NewAccessToken(testAuth, id, true, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, true, body["is_host"])

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "acc_token", Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestBearerTokenAuthorizesWrites(t *testing.T) {
	app := whoAmIApp(t)
	id := uuid.New()
	token, _, err := NewAccessToken(testAuth, id, false, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, id.String(), decode(t, resp)["id"])

	// the scheme is required; a bare token in the header is not accepted
	req = httptest.NewRequest(http.MethodPost, "/private", nil)
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, http.StatusCreated, resp.StatusCode)
}

func TestIdentifyRejectsBadTokens(t *testing.T) {
	app := whoAmIApp(t)

	expired, _, err := NewAccessToken(testAuth, uuid.New(), false, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	other := testAuth
	other.SecretKey = "another-secret"
	foreign, _, err := NewAccessToken(other, uuid.New(), false, time.Now())
	require.NoError(t, err)

	for _, tok := range []string{expired, foreign, "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestThrottleClasses(t *testing.T) {
	th, err := NewThrottles(config.RateLimitConfig{Enabled: true, Auth: "2/min", Anon: "4/day", User: "4/day"}, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Identify(testAuth), th.Anon, th.User)
	app.Post("/auth/login", th.Auth, func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/hotels", func(c *fiber.Ctx) error { return c.SendString("ok") })

	hit := func(method, path, token string) *http.Response {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	// auth class: 2 per minute, counted on top of anon
	assert.Equal(t, http.StatusOK, hit(http.MethodPost, "/auth/login", "").StatusCode)
	assert.Equal(t, http.StatusOK, hit(http.MethodPost, "/auth/login", "").StatusCode)
	resp := hit(http.MethodPost, "/auth/login", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// the three logins already used three of the four anon requests
	assert.Equal(t, http.StatusOK, hit(http.MethodGet, "/hotels", "").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, hit(http.MethodGet, "/hotels", "").StatusCode)

	// an authenticated caller is counted separately
	token, _, err := NewAccessToken(testAuth, uuid.New(), false, time.Now())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, hit(http.MethodGet, "/hotels", token).StatusCode, i)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(http.MethodGet, "/hotels", token).StatusCode)
}

func TestThrottlesDisabled(t *testing.T) {
	th, err := NewThrottles(config.RateLimitConfig{Enabled: false, Auth: "bad"}, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(th.Auth)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	_, err = NewThrottles(config.RateLimitConfig{Enabled: true, Auth: "bad", Anon: "1/day", User: "1/day"}, nil)
	assert.Error(t, err)
}

func TestPrincipalDefaultsToAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Equal(t, policy.Anonymous, Principal(c))
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}
