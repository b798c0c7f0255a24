package actividades_test

import (
	"net/http"
	"testing"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
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
	protected.Get("/activities", actividades.ListHandler())
	return app
}

func TestRecordYFiltros(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	actividades.Record("agenda", "creación", "Evento agregado", "ana")
	actividades.Record("tareas", "edición", "Tarea actualizada", "bruno")

	res := testutil.DoJSON(t, app, http.MethodGet, "/api/activities", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var todas []actividades.ActividadResponse
	testutil.DecodeJSON(t, res, &todas)
	assert.Len(t, todas, 2)

	// Filtro por subcadena del usuario, insensible a mayúsculas.
	res = testutil.DoJSON(t, app, http.MethodGet, "/api/activities?usuario=BRU", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var deBruno []actividades.ActividadResponse
	testutil.DecodeJSON(t, res, &deBruno)
	require.Len(t, deBruno, 1)
	assert.Equal(t, "bruno", deBruno[0].Usuario)
}

func TestFiltroPorFecha(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	require.NoError(t, database.DB.Create(&models.Actividad{
		Origen: "agenda", Actividad: "creación", Usuario: "ana",
		FechaHora: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, database.DB.Create(&models.Actividad{
		Origen: "agenda", Actividad: "edición", Usuario: "ana",
		FechaHora: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}).Error)

	res := testutil.DoJSON(t, app, http.MethodGet, "/api/activities?fecha=2026-08-31", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var delDia []actividades.ActividadResponse
	testutil.DecodeJSON(t, res, &delDia)
	require.Len(t, delDia, 1)
	assert.Equal(t, "edición", delDia[0].Actividad)

	res = testutil.DoJSON(t, app, http.MethodGet, "/api/activities?fecha=31-08-2026", nil, token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
