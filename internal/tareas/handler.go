package tareas

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TareaRequest struct {
	NombreTarea  string `json:"nombre_tarea"`
	Descripcion  string `json:"descripcion"`
	Responsable  string `json:"responsable"`
	FechaInicio  string `json:"fecha_inicio"`  // YYYY-MM-DD
	FechaTermino string `json:"fecha_termino"` // YYYY-MM-DD
	Comentarios  string `json:"comentarios"`
}

type TareaResponse struct {
	ID           uint   `json:"id"`
	NombreTarea  string `json:"nombre_tarea"`
	Descripcion  string `json:"descripcion"`
	Responsable  string `json:"responsable"`
	EstadoTarea  string `json:"estado_tarea"`
	FechaInicio  string `json:"fecha_inicio"`
	FechaTermino string `json:"fecha_termino"`
	Comentarios  string `json:"comentarios"`
}

type EstadoRequest struct {
	EstadoTarea string `json:"estado_tarea"`
}

func toResponse(t *models.Tarea) TareaResponse {
	return TareaResponse{
		ID:           t.ID,
		NombreTarea:  t.NombreTarea,
		Descripcion:  t.Descripcion,
		Responsable:  t.Responsable,
		EstadoTarea:  t.EstadoTarea,
		FechaInicio:  t.FechaInicio.Format("2006-01-02"),
		FechaTermino: t.FechaTermino.Format("2006-01-02"),
		Comentarios:  t.Comentarios,
	}
}

func parseBody(c *fiber.Ctx) (*models.Tarea, error) {
	var body TareaRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	body.NombreTarea = strings.TrimSpace(body.NombreTarea)
	body.Descripcion = strings.TrimSpace(body.Descripcion)
	body.Responsable = strings.TrimSpace(body.Responsable)

	if body.NombreTarea == "" || body.Descripcion == "" || body.Responsable == "" ||
		body.FechaInicio == "" || body.FechaTermino == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Por favor completa todos los campos requeridos")
	}

	// El responsable debe existir en el directorio de usuarios.
	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", body.Responsable).Count(&count)
	if count == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El responsable no existe en el directorio de usuarios")
	}

	inicio, err := time.Parse("2006-01-02", body.FechaInicio)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha de inicio debe tener formato YYYY-MM-DD")
	}
	termino, err := time.Parse("2006-01-02", body.FechaTermino)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha de término debe tener formato YYYY-MM-DD")
	}

	return &models.Tarea{
		NombreTarea:  body.NombreTarea,
		Descripcion:  body.Descripcion,
		Responsable:  body.Responsable,
		FechaInicio:  inicio,
		FechaTermino: termino,
		Comentarios:  strings.TrimSpace(body.Comentarios),
	}, nil
}

func requireResponsable(c *fiber.Ctx, responsable string) error {
	username, err := auth.CurrentUsername(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) != strings.TrimSpace(responsable) {
		return fiber.NewError(fiber.StatusForbidden, "No tienes permiso para modificar esta tarea")
	}
	return nil
}

// GET /api/tareas?q=&estado=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tareas []models.Tarea
		if err := database.DB.Order("fecha_inicio ASC").Find(&tareas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron cargar las tareas")
		}

		q := strings.ToLower(strings.TrimSpace(c.Query("q")))
		estado := strings.TrimSpace(c.Query("estado"))

		res := make([]TareaResponse, 0, len(tareas))
		for i := range tareas {
			t := &tareas[i]
			if estado != "" && t.EstadoTarea != estado {
				continue
			}
			if q != "" &&
				!strings.Contains(strings.ToLower(t.NombreTarea), q) &&
				!strings.Contains(strings.ToLower(t.Descripcion), q) &&
				!strings.Contains(strings.ToLower(t.Responsable), q) {
				continue
			}
			res = append(res, toResponse(t))
		}

		return c.JSON(res)
	}
}

// POST /api/tareas
// Toda tarea nueva entra como "Pendiente", sin importar lo que mande el cliente.
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tarea, err := parseBody(c)
		if err != nil {
			return err
		}
		tarea.EstadoTarea = models.TareaPendiente

		if err := database.DB.Create(tarea).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ocurrió un error al guardar la tarea")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("tareas", "creación", "Tarea creada: "+tarea.NombreTarea, username)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(tarea))
	}
}

// PUT /api/tareas/:id
// La edición no toca el estado; eso es asunto del endpoint de estado.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var tarea models.Tarea
		if err := database.DB.First(&tarea, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tarea no encontrada")
		}

		if err := requireResponsable(c, tarea.Responsable); err != nil {
			return err
		}

		nueva, err := parseBody(c)
		if err != nil {
			return err
		}

		tarea.NombreTarea = nueva.NombreTarea
		tarea.Descripcion = nueva.Descripcion
		tarea.Responsable = nueva.Responsable
		tarea.FechaInicio = nueva.FechaInicio
		tarea.FechaTermino = nueva.FechaTermino
		tarea.Comentarios = nueva.Comentarios

		if err := database.DB.Save(&tarea).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ocurrió un error al actualizar la tarea")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("tareas", "edición", "Tarea actualizada: "+tarea.NombreTarea, username)
		}

		return c.JSON(toResponse(&tarea))
	}
}

// PUT /api/tareas/:id/estado
// Único camino hacia "Completado".
func EstadoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var tarea models.Tarea
		if err := database.DB.First(&tarea, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tarea no encontrada")
		}

		if err := requireResponsable(c, tarea.Responsable); err != nil {
			return err
		}

		var body EstadoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if strings.TrimSpace(body.EstadoTarea) != models.TareaCompletado {
			return fiber.NewError(fiber.StatusBadRequest, "El único estado permitido es 'Completado'")
		}
		if tarea.EstadoTarea == models.TareaCompletado {
			return fiber.NewError(fiber.StatusConflict, "La tarea ya está completada")
		}

		tarea.EstadoTarea = models.TareaCompletado
		if err := database.DB.Save(&tarea).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ocurrió un error al actualizar la tarea")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("tareas", "edición", "Tarea completada: "+tarea.NombreTarea, username)
		}

		return c.JSON(toResponse(&tarea))
	}
}

// DELETE /api/tareas/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var tarea models.Tarea
		if err := database.DB.First(&tarea, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tarea no encontrada")
		}

		if err := requireResponsable(c, tarea.Responsable); err != nil {
			return err
		}

		if err := database.DB.Delete(&tarea).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar la tarea")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("tareas", "eliminación", "Tarea eliminada: "+tarea.NombreTarea, username)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
