package tareas_test

import (
	"net/http"
	"testing"

	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/tareas"
	"opsmerge-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	protected := app.Group("/api")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Get("/tareas", tareas.ListHandler())
	protected.Post("/tareas", tareas.CreateHandler())
	protected.Put("/tareas/:id/estado", tareas.EstadoHandler())
	protected.Put("/tareas/:id", tareas.UpdateHandler())
	protected.Delete("/tareas/:id", tareas.DeleteHandler())
	return app
}

func cuerpoTarea(responsable string) fiber.Map {
	return fiber.Map{
		"nombre_tarea":  "Revisar sellos",
		"descripcion":   "Revisar numeración de sellos del turno",
		"responsable":   responsable,
		"fecha_inicio":  "2026-09-01",
		"fecha_termino": "2026-09-02",
	}
}

// La tarea nueva siempre entra "Pendiente" y vuelve con id asignado,
// aunque el cliente intente mandar otro estado.
func TestCreateFuerzaPendiente(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	cuerpo := cuerpoTarea("ana")
	cuerpo["estado_tarea"] = models.TareaCompletado
	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpo, token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var creada tareas.TareaResponse
	testutil.DecodeJSON(t, res, &creada)
	assert.NotZero(t, creada.ID)
	assert.Equal(t, models.TareaPendiente, creada.EstadoTarea)
}

func TestCreateResponsableDebeExistir(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpoTarea("fantasma"), token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var count int64
	database.DB.Model(&models.Tarea{}).Count(&count)
	assert.Zero(t, count)
}

func TestCompletarSoloElResponsable(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)

	ana := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))
	bruno := testutil.Token(t, cfg, testutil.CreateUser(t, "bruno", "bruno@opsmerge.cl", models.RoleOperador))

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpoTarea("ana"), ana)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cuerpo := fiber.Map{"estado_tarea": models.TareaCompletado}

	res = testutil.DoJSON(t, app, http.MethodPut, "/api/tareas/1/estado", cuerpo, bruno)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = testutil.DoJSON(t, app, http.MethodPut, "/api/tareas/1/estado", cuerpo, ana)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var completada tareas.TareaResponse
	testutil.DecodeJSON(t, res, &completada)
	assert.Equal(t, models.TareaCompletado, completada.EstadoTarea)

	// Completar dos veces no tiene sentido: 409.
	res = testutil.DoJSON(t, app, http.MethodPut, "/api/tareas/1/estado", cuerpo, ana)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestEstadoSoloAceptaCompletado(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpoTarea("ana"), token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = testutil.DoJSON(t, app, http.MethodPut, "/api/tareas/1/estado", fiber.Map{
		"estado_tarea": "En Revisión",
	}, token)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// La edición normal no toca el estado de la tarea.
func TestUpdateNoCambiaEstado(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpoTarea("ana"), token)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cuerpo := cuerpoTarea("ana")
	cuerpo["descripcion"] = "Descripción corregida"
	cuerpo["estado_tarea"] = models.TareaCompletado
	res = testutil.DoJSON(t, app, http.MethodPut, "/api/tareas/1", cuerpo, token)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var editada tareas.TareaResponse
	testutil.DecodeJSON(t, res, &editada)
	assert.Equal(t, "Descripción corregida", editada.Descripcion)
	assert.Equal(t, models.TareaPendiente, editada.EstadoTarea)
}

func TestDeleteGatedPorResponsable(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testutil.NewConfig()
	app := newApp(cfg)

	ana := testutil.Token(t, cfg, testutil.CreateUser(t, "ana", "ana@opsmerge.cl", models.RoleOperador))
	bruno := testutil.Token(t, cfg, testutil.CreateUser(t, "bruno", "bruno@opsmerge.cl", models.RoleOperador))

	res := testutil.DoJSON(t, app, http.MethodPost, "/api/tareas", cuerpoTarea("ana"), ana)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = testutil.DoJSON(t, app, http.MethodDelete, "/api/tareas/1", nil, bruno)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = testutil.DoJSON(t, app, http.MethodDelete, "/api/tareas/1", nil, ana)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
