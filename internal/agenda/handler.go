package agenda

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AgendaRequest struct {
	Fecha    string `json:"fecha"` // YYYY-MM-DD
	Hora     string `json:"hora"`  // HH:mm
	Detalles string `json:"detalles"`
}

type AgendaResponse struct {
	ID       uint   `json:"id"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Detalles string `json:"detalles"`
}

func toResponse(a *models.Agenda) AgendaResponse {
	return AgendaResponse{
		ID:       a.ID,
		Fecha:    a.Fecha.Format("2006-01-02"),
		Hora:     a.Hora,
		Detalles: a.Detalles,
	}
}

func parseBody(c *fiber.Ctx) (*models.Agenda, error) {
	var body AgendaRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	body.Hora = strings.TrimSpace(body.Hora)
	body.Detalles = strings.TrimSpace(body.Detalles)

	if body.Fecha == "" || body.Hora == "" || body.Detalles == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Por favor, completa todos los campos")
	}

	fecha, err := time.Parse("2006-01-02", body.Fecha)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", body.Hora); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La hora debe tener formato HH:mm")
	}

	return &models.Agenda{
		Fecha:    fecha,
		Hora:     body.Hora,
		Detalles: body.Detalles,
	}, nil
}

// GET /api/agenda
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entradas []models.Agenda
		if err := database.DB.Order("fecha ASC, hora ASC").Find(&entradas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener las agendas")
		}

		res := make([]AgendaResponse, 0, len(entradas))
		for i := range entradas {
			res = append(res, toResponse(&entradas[i]))
		}

		// El frontend histórico leía response.data.data, se conserva la envoltura.
		return c.JSON(fiber.Map{"data": res})
	}
}

// POST /api/agenda
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entrada, err := parseBody(c)
		if err != nil {
			return err
		}

		if err := database.DB.Create(entrada).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al agregar el evento")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("agenda", "creación", "Evento agregado a la agenda diaria", username)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(entrada))
	}
}

// PUT /api/agenda/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entrada models.Agenda
		if err := database.DB.First(&entrada, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agenda no encontrada")
		}

		nueva, err := parseBody(c)
		if err != nil {
			return err
		}

		entrada.Fecha = nueva.Fecha
		entrada.Hora = nueva.Hora
		entrada.Detalles = nueva.Detalles

		if err := database.DB.Save(&entrada).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el evento")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("agenda", "edición", "Agenda editada", username)
		}

		return c.JSON(toResponse(&entrada))
	}
}

// DELETE /api/agenda/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entrada models.Agenda
		if err := database.DB.First(&entrada, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agenda no encontrada")
		}

		// Una agenda con despachos asociados no puede eliminarse.
		var vinculados int64
		database.DB.Model(&models.Despacho{}).Where("agenda_id = ?", entrada.ID).Count(&vinculados)
		if vinculados > 0 {
			return fiber.NewError(fiber.StatusConflict, "No puedes eliminar esta agenda porque está relacionada con despachos")
		}

		if err := database.DB.Delete(&entrada).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar la agenda")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("agenda", "eliminación", "Agenda eliminada", username)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
