package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmunetiko/Carteira/internal/middleware"
)

func newRateLimitedApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Post("/login", middleware.LoginRateLimit(cache, 5), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app, mr
}

func loginAs(t *testing.T, app *fiber.App, username string) int {
	t.Helper()
	body := strings.NewReader(`{"username": "` + username + `", "password": "pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestLoginRateLimitBlocksAfterLimit(t *testing.T) {
	app, _ := newRateLimitedApp(t)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, loginAs(t, app, "alice"))
	}
	assert.Equal(t, http.StatusTooManyRequests, loginAs(t, app, "alice"))
}

func TestLoginRateLimitIsPerUsername(t *testing.T) {
	app, _ := newRateLimitedApp(t)

	for i := 0; i < 6; i++ {
		loginAs(t, app, "alice")
	}
	assert.Equal(t, http.StatusOK, loginAs(t, app, "bob"))
}

func TestLoginRateLimitResetsAfterWindow(t *testing.T) {
	app, mr := newRateLimitedApp(t)

	for i := 0; i < 6; i++ {
		loginAs(t, app, "alice")
	}
	mr.FastForward(61 * time.Second)

	assert.Equal(t, http.StatusOK, loginAs(t, app, "alice"))
}

func TestLoginRateLimitWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Post("/login", middleware.LoginRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, loginAs(t, app, "alice"))
	}
}
