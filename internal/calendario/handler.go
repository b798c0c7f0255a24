package calendario

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const fechaHoraLayout = "2006-01-02 15:04:05"

type EventoRequest struct {
	Title  string `json:"title"`
	Start  string `json:"start"` // YYYY-MM-DD HH:mm:ss
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
}

type EventoResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
}

func toResponse(e *models.Evento) EventoResponse {
	return EventoResponse{
		ID:     e.ID,
		Title:  e.Title,
		Start:  e.Start.Format(fechaHoraLayout),
		End:    e.End.Format(fechaHoraLayout),
		AllDay: e.AllDay,
	}
}

func parseBody(c *fiber.Ctx) (*models.Evento, error) {
	var body EventoRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El título del evento no puede estar vacío")
	}

	start, err := time.Parse(fechaHoraLayout, body.Start)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha de inicio debe tener formato YYYY-MM-DD HH:mm:ss")
	}
	end, err := time.Parse(fechaHoraLayout, body.End)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha de término debe tener formato YYYY-MM-DD HH:mm:ss")
	}
	if end.Before(start) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El evento no puede terminar antes de empezar")
	}

	return &models.Evento{
		Title:  body.Title,
		Start:  start,
		End:    end,
		AllDay: body.AllDay,
	}, nil
}

// GET /api/calendario/events
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var eventos []models.Evento
		if err := database.DB.Order("start ASC").Find(&eventos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los eventos")
		}

		res := make([]EventoResponse, 0, len(eventos))
		for i := range eventos {
			res = append(res, toResponse(&eventos[i]))
		}

		return c.JSON(res)
	}
}

// POST /api/calendario/events
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		evento, err := parseBody(c)
		if err != nil {
			return err
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			evento.UserID = userID
		}

		if err := database.DB.Create(evento).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al guardar el evento")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("calendario", "creación", "Evento creado: "+evento.Title, username)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(evento))
	}
}

// PUT /api/calendario/events/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var evento models.Evento
		if err := database.DB.First(&evento, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Evento no encontrado")
		}

		nuevo, err := parseBody(c)
		if err != nil {
			return err
		}

		evento.Title = nuevo.Title
		evento.Start = nuevo.Start
		evento.End = nuevo.End
		evento.AllDay = nuevo.AllDay

		if err := database.DB.Save(&evento).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el evento")
		}

		return c.JSON(toResponse(&evento))
	}
}

// DELETE /api/calendario/events/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Evento{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar el evento")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
