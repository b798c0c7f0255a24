package dashboard

import (
	"time"

	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ResumenResponse struct {
	AgendasHoy             int64 `json:"agendas_hoy"`
	TareasPendientes       int64 `json:"tareas_pendientes"`
	ExportacionesEnEspera  int64 `json:"exportaciones_en_espera"`
	ExportacionesCancelado int64 `json:"exportaciones_canceladas"`
	ExportacionesDespacho  int64 `json:"exportaciones_despachadas"`
	AnunciosVigentes       int64 `json:"anuncios_vigentes"`
	DespachosTotales       int64 `json:"despachos_totales"`
}

// GET /api/dashboard/resumen
// Contadores de la pantalla de inicio. Todo sale de consultas de conteo,
// nada se precalcula ni se cachea.
func ResumenHandler(retention time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res ResumenResponse

		contar := func(q *gorm.DB, dst *int64) error {
			if err := q.Count(dst).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Error al calcular el resumen")
			}
			return nil
		}

		// Las fechas de agenda se guardan como medianoche UTC del día literal;
		// el "hoy" sale del reloj local y se compara en esos mismos términos.
		ahora := time.Now()
		hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, time.UTC)

		if err := contar(database.DB.Model(&models.Agenda{}).
			Where("fecha >= ? AND fecha < ?", hoy, hoy.AddDate(0, 0, 1)), &res.AgendasHoy); err != nil {
			return err
		}

		if err := contar(database.DB.Model(&models.Tarea{}).
			Where("estado_tarea = ?", models.TareaPendiente), &res.TareasPendientes); err != nil {
			return err
		}

		if err := contar(database.DB.Model(&models.Exportacion{}).
			Where("status = ?", models.ExportacionEnEspera), &res.ExportacionesEnEspera); err != nil {
			return err
		}
		if err := contar(database.DB.Model(&models.Exportacion{}).
			Where("status = ?", models.ExportacionCancelado), &res.ExportacionesCancelado); err != nil {
			return err
		}
		if err := contar(database.DB.Model(&models.Exportacion{}).
			Where("status = ?", models.ExportacionDespachado), &res.ExportacionesDespacho); err != nil {
			return err
		}

		cutoff := time.Now().Add(-retention)
		if err := contar(database.DB.Model(&models.Anuncio{}).
			Where("timestamp > ?", cutoff), &res.AnunciosVigentes); err != nil {
			return err
		}

		if err := contar(database.DB.Model(&models.Despacho{}), &res.DespachosTotales); err != nil {
			return err
		}

		return c.JSON(res)
	}
}
