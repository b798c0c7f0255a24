package anuncios

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

type AnuncioRequest struct {
	Mensaje string `json:"mensaje"`
}

type AnuncioResponse struct {
	ID        uint   `json:"id"`
	Mensaje   string `json:"mensaje"`
	Usuario   string `json:"usuario"`
	Timestamp string `json:"timestamp"`
}

func toResponse(a *models.Anuncio) AnuncioResponse {
	return AnuncioResponse{
		ID:        a.ID,
		Mensaje:   a.Mensaje,
		Usuario:   a.Usuario,
		Timestamp: a.Timestamp.Format(time.RFC3339),
	}
}

// GET /api/anuncios
// Solo devuelve anuncios dentro de la ventana de retención; el borrado
// definitivo lo hace el pruner, nunca la lectura.
func ListHandler(retention time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cutoff := time.Now().Add(-retention)

		var anuncios []models.Anuncio
		if err := database.DB.Where("timestamp > ?", cutoff).Order("timestamp DESC").Find(&anuncios).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los anuncios")
		}

		res := make([]AnuncioResponse, 0, len(anuncios))
		for i := range anuncios {
			res = append(res, toResponse(&anuncios[i]))
		}

		return c.JSON(res)
	}
}

// POST /api/anuncios  (solo Líder de Equipo, reforzado en el router)
func CreateHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AnuncioRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Mensaje = strings.TrimSpace(body.Mensaje)
		if body.Mensaje == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El anuncio no puede estar vacío")
		}

		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}

		anuncio := models.Anuncio{
			Mensaje:   body.Mensaje,
			Usuario:   username,
			Timestamp: time.Now(), // asignado por el servidor
		}

		if err := database.DB.Create(&anuncio).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al agregar el anuncio")
		}

		actividades.Record("anuncios", "creación", "Anuncio publicado", username)
		hub.Broadcast(realtime.Event{Tipo: "anuncio", Accion: "creado", ID: anuncio.ID})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&anuncio))
	}
}

// PUT /api/anuncios/:id
func UpdateHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var anuncio models.Anuncio
		if err := database.DB.First(&anuncio, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Anuncio no encontrado")
		}

		var body AnuncioRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Mensaje = strings.TrimSpace(body.Mensaje)
		if body.Mensaje == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El anuncio no puede estar vacío")
		}

		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}

		anuncio.Mensaje = body.Mensaje
		anuncio.Usuario = username
		anuncio.Timestamp = time.Now()

		if err := database.DB.Save(&anuncio).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el anuncio")
		}

		actividades.Record("anuncios", "edición", "Anuncio actualizado", username)
		hub.Broadcast(realtime.Event{Tipo: "anuncio", Accion: "editado", ID: anuncio.ID})

		return c.JSON(toResponse(&anuncio))
	}
}

// DELETE /api/anuncios/:id
func DeleteHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var anuncio models.Anuncio
		if err := database.DB.First(&anuncio, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Anuncio no encontrado")
		}

		if err := database.DB.Delete(&anuncio).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar el anuncio")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("anuncios", "eliminación", "Anuncio eliminado", username)
		}
		hub.Broadcast(realtime.Event{Tipo: "anuncio", Accion: "eliminado", ID: anuncio.ID})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
