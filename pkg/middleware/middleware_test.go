package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(t *testing.T) *fiber.App {
	t.Helper()
	prev := config.Cfg
	config.Cfg = &config.Config{JWTSecret: "mw-secret"}
	t.Cleanup(func() { config.Cfg = prev })

	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/me", JWTProtected(), func(c *fiber.Ctx) error {
		id, err := utils.CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	return app
}

func TestJWTProtected(t *testing.T) {
	app := protectedApp(t)
	id := uuid.New()
	good, err := utils.GenerateAccessToken("mw-secret", id, "a@b.c", time.Hour, time.Now())
	require.NoError(t, err)
	forged, err := utils.GenerateAccessToken("other-secret", id, "a@b.c", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestJWTProtectedWithoutSecret(t *testing.T) {
	app := protectedApp(t)
	config.Cfg = &config.Config{}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
