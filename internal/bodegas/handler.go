package bodegas

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BodegaRequest struct {
	NombreBodega      string `json:"nombre_bodega"`
	FechaInventario   string `json:"fecha_inventario"` // YYYY-MM-DD
	DetalleInventario string `json:"detalle_inventario"`
	Responsable       string `json:"responsable"`
}

type BodegaResponse struct {
	ID                uint   `json:"id"`
	NombreBodega      string `json:"nombre_bodega"`
	FechaInventario   string `json:"fecha_inventario"`
	DetalleInventario string `json:"detalle_inventario"`
	Responsable       string `json:"responsable"`
}

func toResponse(b *models.Bodega) BodegaResponse {
	return BodegaResponse{
		ID:                b.ID,
		NombreBodega:      b.NombreBodega,
		FechaInventario:   b.FechaInventario.Format("2006-01-02"),
		DetalleInventario: b.DetalleInventario,
		Responsable:       b.Responsable,
	}
}

func parseBody(c *fiber.Ctx) (*models.Bodega, error) {
	var body BodegaRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	body.NombreBodega = strings.TrimSpace(body.NombreBodega)
	body.DetalleInventario = strings.TrimSpace(body.DetalleInventario)
	body.Responsable = strings.TrimSpace(body.Responsable)

	if body.NombreBodega == "" || body.FechaInventario == "" || body.DetalleInventario == "" || body.Responsable == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Por favor, complete todos los campos")
	}
	if body.NombreBodega != models.BodegaBPT && body.NombreBodega != models.BodegaBMP {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La bodega debe ser BPT o BMP")
	}

	fecha, err := time.Parse("2006-01-02", body.FechaInventario)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato YYYY-MM-DD")
	}

	return &models.Bodega{
		NombreBodega:      body.NombreBodega,
		FechaInventario:   fecha,
		DetalleInventario: body.DetalleInventario,
		Responsable:       body.Responsable,
	}, nil
}

// Solo el responsable del registro puede editarlo o eliminarlo.
func requireResponsable(c *fiber.Ctx, responsable string) error {
	username, err := auth.CurrentUsername(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) != strings.TrimSpace(responsable) {
		return fiber.NewError(fiber.StatusForbidden, "No tienes permiso para modificar este inventario")
	}
	return nil
}

// GET /api/bodegas
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var registros []models.Bodega
		if err := database.DB.Order("fecha_inventario DESC").Find(&registros).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el inventario")
		}

		res := make([]BodegaResponse, 0, len(registros))
		for i := range registros {
			res = append(res, toResponse(&registros[i]))
		}

		return c.JSON(res)
	}
}

// POST /api/bodegas
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		registro, err := parseBody(c)
		if err != nil {
			return err
		}

		if err := database.DB.Create(registro).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al agregar el inventario")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("bodegas", "creación", "Detalle inventario agregado: "+registro.NombreBodega, username)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(registro))
	}
}

// PUT /api/bodegas/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var registro models.Bodega
		if err := database.DB.First(&registro, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventario no encontrado")
		}

		if err := requireResponsable(c, registro.Responsable); err != nil {
			return err
		}

		nuevo, err := parseBody(c)
		if err != nil {
			return err
		}

		registro.NombreBodega = nuevo.NombreBodega
		registro.FechaInventario = nuevo.FechaInventario
		registro.DetalleInventario = nuevo.DetalleInventario
		registro.Responsable = nuevo.Responsable

		if err := database.DB.Save(&registro).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el inventario")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("bodegas", "edición", "Detalle inventario actualizado: "+registro.NombreBodega, username)
		}

		return c.JSON(toResponse(&registro))
	}
}

// DELETE /api/bodegas/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var registro models.Bodega
		if err := database.DB.First(&registro, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventario no encontrado")
		}

		if err := requireResponsable(c, registro.Responsable); err != nil {
			return err
		}

		if err := database.DB.Delete(&registro).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar el inventario")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("bodegas", "eliminación", "Detalle inventario eliminado: "+registro.NombreBodega, username)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
