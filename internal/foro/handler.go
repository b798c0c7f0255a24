package foro

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DiscusionRequest struct {
	Mensaje      string `json:"mensaje"`
	Destinatario string `json:"destinatario"`
}

type RespuestaRequest struct {
	Mensaje string `json:"mensaje"`
}

type RespuestaResponse struct {
	ID        uint   `json:"id"`
	Mensaje   string `json:"mensaje"`
	Usuario   string `json:"usuario"`
	Timestamp string `json:"timestamp"`
}

type DiscusionResponse struct {
	ID           uint                `json:"id"`
	Mensaje      string              `json:"mensaje"`
	Usuario      string              `json:"usuario"`
	Destinatario string              `json:"destinatario"`
	Timestamp    string              `json:"timestamp"`
	Respuestas   []RespuestaResponse `json:"respuestas"`
}

func toResponse(d *models.Discusion) DiscusionResponse {
	res := DiscusionResponse{
		ID:           d.ID,
		Mensaje:      d.Mensaje,
		Usuario:      d.Usuario,
		Destinatario: d.Destinatario,
		Timestamp:    d.Timestamp.Format(time.RFC3339),
		Respuestas:   make([]RespuestaResponse, 0, len(d.Respuestas)),
	}
	for _, r := range d.Respuestas {
		res.Respuestas = append(res.Respuestas, RespuestaResponse{
			ID:        r.ID,
			Mensaje:   r.Mensaje,
			Usuario:   r.Usuario,
			Timestamp: r.Timestamp.Format(time.RFC3339),
		})
	}
	return res
}

// GET /api/foro
// Devuelve solo hilos vigentes en los que el usuario participa
// (como autor o como destinatario), con respuestas en orden de llegada.
func ListHandler(retention time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}

		cutoff := time.Now().Add(-retention)

		var discusiones []models.Discusion
		if err := database.DB.
			Preload("Respuestas", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
			Where("timestamp > ?", cutoff).
			Where("usuario = ? OR destinatario = ?", username, username).
			Order("timestamp DESC").
			Find(&discusiones).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener las discusiones")
		}

		res := make([]DiscusionResponse, 0, len(discusiones))
		for i := range discusiones {
			res = append(res, toResponse(&discusiones[i]))
		}

		return c.JSON(res)
	}
}

// POST /api/foro
func CreateHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DiscusionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Mensaje = strings.TrimSpace(body.Mensaje)
		body.Destinatario = strings.TrimSpace(body.Destinatario)
		if body.Mensaje == "" || body.Destinatario == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mensaje y destinatario son obligatorios")
		}

		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}
		if body.Destinatario == username {
			return fiber.NewError(fiber.StatusBadRequest, "No puedes iniciar una discusión contigo mismo")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Destinatario).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El destinatario no existe")
		}

		discusion := models.Discusion{
			Mensaje:      body.Mensaje,
			Usuario:      username,
			Destinatario: body.Destinatario,
			Timestamp:    time.Now(),
		}

		if err := database.DB.Create(&discusion).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error iniciando la discusión")
		}

		actividades.Record("foro", "creación", "Discusión iniciada con "+discusion.Destinatario, username)
		hub.Broadcast(realtime.Event{Tipo: "discusion", Accion: "creado", ID: discusion.ID})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&discusion))
	}
}

// POST /api/foro/:id/respuestas
// Las respuestas se insertan en su propia tabla (append-only): dos personas
// respondiendo a la vez nunca se pisan el hilo.
func ReplyHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var discusion models.Discusion
		if err := database.DB.First(&discusion, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Discusión no encontrada")
		}

		var body RespuestaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Mensaje = strings.TrimSpace(body.Mensaje)
		if body.Mensaje == "" {
			return fiber.NewError(fiber.StatusBadRequest, "La respuesta no puede estar vacía")
		}

		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}

		respuesta := models.Respuesta{
			DiscusionID: discusion.ID,
			Mensaje:     body.Mensaje,
			Usuario:     username,
			Timestamp:   time.Now(),
		}

		if err := database.DB.Create(&respuesta).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error respondiendo a la discusión")
		}

		actividades.Record("foro", "creación", "Respuesta agregada a una discusión", username)
		hub.Broadcast(realtime.Event{Tipo: "discusion", Accion: "editado", ID: discusion.ID})

		return c.Status(fiber.StatusCreated).JSON(RespuestaResponse{
			ID:        respuesta.ID,
			Mensaje:   respuesta.Mensaje,
			Usuario:   respuesta.Usuario,
			Timestamp: respuesta.Timestamp.Format(time.RFC3339),
		})
	}
}
