package actividades

import (
	"strings"
	"time"

	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActividadResponse struct {
	ID          uint   `json:"id"`
	Origen      string `json:"origen"`
	Actividad   string `json:"actividad"`
	FechaHora   string `json:"fecha_hora"`
	Descripcion string `json:"descripcion"`
	Usuario     string `json:"responsable"`
}

// GET /api/activities?usuario=&fecha=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		usuario := strings.TrimSpace(c.Query("usuario"))
		fecha := strings.TrimSpace(c.Query("fecha")) // YYYY-MM-DD

		dbq := database.DB.Model(&models.Actividad{})
		if fecha != "" {
			dia, err := time.Parse("2006-01-02", fecha)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato YYYY-MM-DD")
			}
			dbq = dbq.Where("fecha_hora >= ? AND fecha_hora < ?", dia, dia.AddDate(0, 0, 1))
		}

		var actividades []models.Actividad
		if err := dbq.Order("fecha_hora DESC").Find(&actividades).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al cargar las actividades")
		}

		res := make([]ActividadResponse, 0, len(actividades))
		for _, a := range actividades {
			// Filtro de usuario por subcadena, insensible a mayúsculas.
			if usuario != "" && !strings.Contains(strings.ToLower(a.Usuario), strings.ToLower(usuario)) {
				continue
			}
			res = append(res, ActividadResponse{
				ID:          a.ID,
				Origen:      a.Origen,
				Actividad:   a.Actividad,
				FechaHora:   a.FechaHora.Format("2006-01-02 15:04:05"),
				Descripcion: a.Descripcion,
				Usuario:     a.Usuario,
			})
		}

		return c.JSON(res)
	}
}
