package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleMap map[string]models.Role

func (m roleMap) RoleOf(_ context.Context, email string) (models.Role, error) {
	if r, ok := m[email]; ok {
		return r, nil
	}
	return "", errors.New("user not found")
}

func newAuthApp(t *testing.T, extra ...fiber.Handler) (*fiber.App, *testutil.IdentityProvider) {
	idp := testutil.NewIdentityProvider(t)
	verifier := services.NewIdentityVerifier(idp.JWKSURL(), testutil.ProjectID, testutil.Issuer)

	app := fiber.New()
	handlers := append([]fiber.Handler{Authenticate(verifier)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(PrincipalEmail(c))
	})
	app.Get("/me", handlers...)
	return app, idp
}

func get(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthenticate(t *testing.T) {
	app, idp := newAuthApp(t)

	status, body := get(t, app, "Bearer "+idp.Token(t, "Ada@x.com"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ada@x.com", body)

	status, _ = get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "Bearer not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	claims := idp.Claims("a@x.com")
	claims["aud"] = "someone-else"
	status, _ = get(t, app, "Bearer "+idp.Sign(t, claims, testutil.KeyID))
	assert.Equal(t, fiber.StatusForbidden, status)

	claims = idp.Claims("a@x.com")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	status, _ = get(t, app, "Bearer "+idp.Sign(t, claims, testutil.KeyID))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRequireRole(t *testing.T) {
	lookup := roleMap{"mod@x.com": models.RoleModerator, "u@x.com": models.RoleUser}
	app, idp := newAuthApp(t, RequireRole(lookup, models.RoleModerator, models.RoleAdmin))

	status, _ := get(t, app, "Bearer "+idp.Token(t, "mod@x.com"))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = get(t, app, "Bearer "+idp.Token(t, "u@x.com"))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = get(t, app, "Bearer "+idp.Token(t, "ghost@x.com"))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	app := fiber.New()
	app.Get("/me", RequireRole(roleMap{}, models.RoleAdmin), func(c *fiber.Ctx) error { return nil })

	status, _ := get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestWriteLimiter(t *testing.T) {
	wl := NewWriteLimiter(2)
	defer wl.Stop()
	app, idp := newAuthApp(t, wl.Handler())

	alice := "Bearer " + idp.Token(t, "alice@x.com")
	bob := "Bearer " + idp.Token(t, "bob@x.com")

	for i := 0; i < 2; i++ {
		status, _ := get(t, app, alice)
		assert.Equal(t, fiber.StatusOK, status)
	}
	status, _ := get(t, app, alice)
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	status, _ = get(t, app, bob)
	assert.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, 2, wl.count())
	wl.cleanup(time.Now().Add(time.Hour))
	assert.Equal(t, 0, wl.count())
}

type statusCounter struct{ codes []int }

func (s *statusCounter) RecordVote(string)         {}
func (s *statusCounter) RecordVoteRejected(string) {}
func (s *statusCounter) RecordReportFiled()        {}
func (s *statusCounter) RecordUpload(int64)        {}
func (s *statusCounter) RecordHTTPStatus(code int) { s.codes = append(s.codes, code) }

func TestRecordStatus(t *testing.T) {
	rec := &statusCounter{}
	app := fiber.New()
	app.Use(RecordStatus(rec))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	for _, path := range []string{"/ok", "/missing"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, []int{fiber.StatusNoContent, fiber.StatusNotFound}, rec.codes)
}

func TestCORS_ExposesRequestHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "*"}))
	app.Get("/apps", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/apps", nil)
	req.Header.Set("Origin", "https://apporbit.example")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "Retry-After")
}
