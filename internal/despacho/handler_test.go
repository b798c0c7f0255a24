package despacho_test

import (
	"net/http"
	"testing"
	"time"

	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/despacho"
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
	protected.Get("/despacho", despacho.ListHandler())
	protected.Post("/despacho", despacho.CreateHandler())
	protected.Put("/despacho/:id", despacho.UpdateHandler())
	return app
}

func setup(t *testing.T) (*fiber.App, string) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	user := testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador)
	return newApp(cfg), testutil.Token(t, cfg, user)
}

func crearAgenda(t *testing.T) models.Agenda {
	t.Helper()
	entrada := models.Agenda{
		Fecha:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Hora:     "08:30",
		Detalles: "Carga frigorífico puerta 4",
	}
	require.NoError(t, database.DB.Create(&entrada).Error)
	return entrada
}

func cuerpoCompleto(agendaID uint) fiber.Map {
	return fiber.Map{
		"cantidad":         24,
		"nombreChofer":     "Pedro Soto",
		"rutChofer":        "12.345.678-9",
		"patenteCamion":    "ABCD12",
		"patenteRampla":    "EFGH34",
		"numeroSellos":     "S-9912",
		"agenda_diaria_id": agendaID,
	}
}

// El estado se deriva: con todos los campos operativos y la agenda vinculada
// el despacho sale "Completado" sin que nadie lo haya guardado así.
func TestEstadoDerivadoCompletado(t *testing.T) {
	app, token := setup(t)
	entrada := crearAgenda(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpoCompleto(entrada.ID), token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var creado despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &creado)
	assert.Equal(t, despacho.EstadoCompletado, creado.Estado)
	assert.Equal(t, "ana", creado.Responsable)
	assert.Equal(t, "Carga frigorífico puerta 4", creado.Detalles)
}

// Un solo campo vacío (numeroSellos) basta para que siga "En Progreso".
func TestEstadoDerivadoEnProgreso(t *testing.T) {
	app, token := setup(t)
	entrada := crearAgenda(t)

	cuerpo := cuerpoCompleto(entrada.ID)
	cuerpo["numeroSellos"] = ""
	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpo, token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var creado despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &creado)
	assert.Equal(t, despacho.EstadoEnProgreso, creado.Estado)
}

// Sin agenda vinculada nunca hay "Completado", por llenos que estén los demás campos.
func TestEstadoSinAgendaEnProgreso(t *testing.T) {
	app, token := setup(t)

	cuerpo := cuerpoCompleto(0)
	delete(cuerpo, "agenda_diaria_id")
	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpo, token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var creado despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &creado)
	assert.Equal(t, despacho.EstadoEnProgreso, creado.Estado)
}

func TestListFiltraPorEstado(t *testing.T) {
	app, token := setup(t)
	entrada := crearAgenda(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpoCompleto(entrada.ID), token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	incompleto := cuerpoCompleto(entrada.ID)
	incompleto["numeroSellos"] = ""
	res = testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", incompleto, token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Sin filtro solo se ven los "En Progreso".
	res = testutil.DoJSON(t, app, http.MethodGet, "/api/despacho", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var enProgreso []despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &enProgreso)
	require.Len(t, enProgreso, 1)
	assert.Equal(t, despacho.EstadoEnProgreso, enProgreso[0].Estado)

	res = testutil.DoJSON(t, app, http.MethodGet, "/api/despacho?estado=Completados", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var completados []despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &completados)
	require.Len(t, completados, 1)
	assert.Equal(t, despacho.EstadoCompletado, completados[0].Estado)

	res = testutil.DoJSON(t, app, http.MethodGet, "/api/despacho?estado=Todos", nil, token)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var todos []despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &todos)
	assert.Len(t, todos, 2)

	res = testutil.DoJSON(t, app, http.MethodGet, "/api/despacho?estado=Pendientes", nil, token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUpdateRechazadoSiCompletado(t *testing.T) {
	app, token := setup(t)
	entrada := crearAgenda(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpoCompleto(entrada.ID), token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var creado despacho.DespachoResponse
	testutil.DecodeJSON(t, res, &creado)
	require.Equal(t, despacho.EstadoCompletado, creado.Estado)

	res = testutil.DoJSON(t, app, http.MethodPut, "/api/despacho/1", cuerpoCompleto(entrada.ID), token)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestCreateRechazaAgendaInexistente(t *testing.T) {
	app, token := setup(t)

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/despacho", cuerpoCompleto(999), token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var count int64
	database.DB.Model(&models.Despacho{}).Count(&count)
	assert.Zero(t, count)
}
