package calendario_test

import (
	"net/http"
	"testing"
	"time"

	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/calendario"
	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	protected := app.Group("/api")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Get("/calendario/events", calendario.ListHandler())
	protected.Post("/calendario/events", calendario.CreateHandler())
	protected.Put("/calendario/events/:id", calendario.UpdateHandler())
	protected.Delete("/calendario/events/:id", calendario.DeleteHandler())
	return app
}

func setup(t *testing.T) (*fiber.App, string) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	user := testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador)
	return newApp(cfg), testutil.Token(t, cfg, user)
}

func TestCreateYList(t *testing.T) {
	app, token := setup(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/calendario/events", fiber.Map{
		"title": "Inventario general",
		"start": "2026-09-05 09:00:00",
		"end":   "2026-09-05 13:00:00",
	}, token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = testutil.DoJSON(t, app, http.MethodGet, "/api/calendario/events", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var lista []calendario.EventoResponse
	testutil.DecodeJSON(t, res, &lista)
	require.Len(t, lista, 1)
	assert.Equal(t, "Inventario general", lista[0].Title)
	assert.Equal(t, "2026-09-05 09:00:00", lista[0].Start)
}

func TestCreateRechazaFinAntesDelInicio(t *testing.T) {
	app, token := setup(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/calendario/events", fiber.Map{
		"title": "Evento imposible",
		"start": "2026-09-05 13:00:00",
		"end":   "2026-09-05 09:00:00",
	}, token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var count int64
	database.DB.Model(&models.Evento{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateYDelete(t *testing.T) {
	app, token := setup(t)

	evento := models.Evento{
		Title: "Reunión de turno",
		Start: time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, database.DB.Create(&evento).Error)

	res := testutil.DoJSON(t, app, http.MethodPut, "/api/calendario/events/1", fiber.Map{
		"title":  "Reunión reprogramada",
		"start":  "2026-09-06 09:00:00",
		"end":    "2026-09-06 10:00:00",
		"allDay": false,
	}, token)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var editado calendario.EventoResponse
	testutil.DecodeJSON(t, res, &editado)
	assert.Equal(t, "Reunión reprogramada", editado.Title)

	res = testutil.DoJSON(t, app, http.MethodDelete, "/api/calendario/events/1", nil, token)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	var count int64
	database.DB.Model(&models.Evento{}).Count(&count)
	assert.Zero(t, count)
}
