// Package testutil arma el entorno común de los tests de handlers:
// base sqlite en memoria, config de prueba y usuarios con token.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

var dbCounter atomic.Int64

// SetupDB apunta database.DB a una sqlite en memoria recién migrada.
func SetupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbCounter.Add(1))
	require.NoError(t, database.Connect(sqlite.Open(dsn)))
	require.NoError(t, database.Migrate())
}

func NewConfig() *config.Config {
	return &config.Config{
		HTTPPort:          "0",
		JWTSecret:         "clave-de-prueba-solo-para-tests-0123456789",
		FeedRetention:     24 * time.Hour,
		FeedPruneInterval: time.Minute,
	}
}

// NewApp crea una app fiber con el mismo ErrorHandler que producción.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error inesperado del servidor"})
		},
	})
}

func CreateUser(t *testing.T, username, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func Token(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)
	return token
}

// DoJSON ejecuta una petición JSON contra la app y devuelve la respuesta.
func DoJSON(t *testing.T, app *fiber.App, method, url string, body any, token string) *http.Response {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	return res
}

// DecodeJSON lee el cuerpo de la respuesta en out.
func DecodeJSON(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}
