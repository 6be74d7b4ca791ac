package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(Email(c))
	})
	app.Get("/admin", RequireAuth(testSecret), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := protectedApp()

	valid, err := GenerateToken(testSecret, "Member@Example.com", "", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(testSecret, "member@example.com", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := GenerateToken("other-secret", "member@example.com", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid", valid, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"expired", expired, fiber.StatusUnauthorized},
		{"wrong secret", foreign, fiber.StatusUnauthorized},
		{"garbage", "not.a.jwt", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(t, app, "/me", tt.token))
		})
	}
}

func TestRequireAuthLowercasesEmail(t *testing.T) {
	app := protectedApp()
	token, err := GenerateToken(testSecret, "Member@Example.com", "", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "member@example.com", string(buf[:n]))
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "x@example.com"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	app := protectedApp()
	member, _ := GenerateToken(testSecret, "m@example.com", "member", time.Hour)
	admin, _ := GenerateToken(testSecret, "a@example.com", "admin", time.Hour)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", member))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", admin))
}

func TestRateLimiterPerIP(t *testing.T) {
	limited := 0
	rl := NewRateLimiter(0.001, 2)
	rl.OnLimit(func() { limited++ })

	app := fiber.New()
	app.Post("/submit", rl.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	post := func() int {
		resp, err := app.Test(httptest.NewRequest("POST", "/submit", nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusCreated, post())
	assert.Equal(t, fiber.StatusCreated, post())
	assert.Equal(t, fiber.StatusTooManyRequests, post())
	assert.Equal(t, 1, limited)
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.limiter("10.0.0.1")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.limiter("10.0.0.2")

	rl.evict(10 * time.Minute)

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestMetricsRecordsRouteTemplates(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Gauge("test_viewers", "Connected viewers", func() float64 { return 3 })

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/secret", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	for _, path := range []string{"/items/1", "/items/2", "/secret"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/items/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRejections.WithLabelValues("401_unauthorized")))

	count, err := testutil.GatherAndCount(reg, "test_viewers")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
