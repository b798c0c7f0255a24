package exportaciones

import (
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ExportacionRequest struct {
	Mercado        string `json:"mercado"`
	Material       string `json:"material"`
	Descripcion    string `json:"descripcion"`
	FechaCarga     string `json:"fechaCarga"` // YYYY-MM-DD
	Observacion    string `json:"observacion"`
	Pallet         int    `json:"pallet"`
	Cajas          int    `json:"cajas"`
	PoExportacion  string `json:"poExportacion"`
	Conductor      string `json:"conductor"`
	Rut            string `json:"rut"`
	Telefono       string `json:"telefono"`
	Contenedor     string `json:"contenedor"`
	SelloNaviero   string `json:"selloNaviero"`
	Status         string `json:"status"`
	Transporte     string `json:"transporte"`
	TipoContenedor string `json:"tipoContenedor"`
	CentroCarga    string `json:"centroCarga"`
	Nave           string `json:"nave"`
	Pol            string `json:"pol"`
	Naviera        string `json:"naviera"`
	Operador       string `json:"operador"`
	Turno          string `json:"turno"`
	PatenteRampla  string `json:"patenteRampla"`
	PatenteCamion  string `json:"patenteCamion"`
	Destino        string `json:"destino"`
	SelloEmpresa   string `json:"selloEmpresa"`
	Delivery       string `json:"delivery"`
	PoLocal        string `json:"poLocal"`
	FacturaCPW     string `json:"facturaCPW"`
	NumeroInterno  string `json:"numeroInterno"`
}

type ExportacionResponse struct {
	ID             uint   `json:"id"`
	Mercado        string `json:"mercado"`
	Material       string `json:"material"`
	Descripcion    string `json:"descripcion"`
	FechaCarga     string `json:"fechaCarga"`
	Observacion    string `json:"observacion"`
	Pallet         int    `json:"pallet"`
	Cajas          int    `json:"cajas"`
	PoExportacion  string `json:"poExportacion"`
	Conductor      string `json:"conductor"`
	Rut            string `json:"rut"`
	Telefono       string `json:"telefono"`
	Contenedor     string `json:"contenedor"`
	SelloNaviero   string `json:"selloNaviero"`
	Status         string `json:"status"`
	Transporte     string `json:"transporte"`
	TipoContenedor string `json:"tipoContenedor"`
	CentroCarga    string `json:"centroCarga"`
	Nave           string `json:"nave"`
	Pol            string `json:"pol"`
	Naviera        string `json:"naviera"`
	Operador       string `json:"operador"`
	Turno          string `json:"turno"`
	PatenteRampla  string `json:"patenteRampla"`
	PatenteCamion  string `json:"patenteCamion"`
	Destino        string `json:"destino"`
	SelloEmpresa   string `json:"selloEmpresa"`
	Delivery       string `json:"delivery"`
	PoLocal        string `json:"poLocal"`
	FacturaCPW     string `json:"facturaCPW"`
	NumeroInterno  string `json:"numeroInterno"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

func toResponse(e *models.Exportacion) ExportacionResponse {
	return ExportacionResponse{
		ID:             e.ID,
		Mercado:        e.Mercado,
		Material:       e.Material,
		Descripcion:    e.Descripcion,
		FechaCarga:     e.FechaCarga.Format("2006-01-02"),
		Observacion:    e.Observacion,
		Pallet:         e.Pallet,
		Cajas:          e.Cajas,
		PoExportacion:  e.PoExportacion,
		Conductor:      e.Conductor,
		Rut:            e.Rut,
		Telefono:       e.Telefono,
		Contenedor:     e.Contenedor,
		SelloNaviero:   e.SelloNaviero,
		Status:         e.Status,
		Transporte:     e.Transporte,
		TipoContenedor: e.TipoContenedor,
		CentroCarga:    e.CentroCarga,
		Nave:           e.Nave,
		Pol:            e.Pol,
		Naviera:        e.Naviera,
		Operador:       e.Operador,
		Turno:          e.Turno,
		PatenteRampla:  e.PatenteRampla,
		PatenteCamion:  e.PatenteCamion,
		Destino:        e.Destino,
		SelloEmpresa:   e.SelloEmpresa,
		Delivery:       e.Delivery,
		PoLocal:        e.PoLocal,
		FacturaCPW:     e.FacturaCPW,
		NumeroInterno:  e.NumeroInterno,
	}
}

func parseBody(c *fiber.Ctx) (*models.Exportacion, error) {
	var body ExportacionRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	// Campos obligatorios del formulario de exportaciones.
	requeridos := map[string]string{
		"mercado":        body.Mercado,
		"material":       body.Material,
		"descripcion":    body.Descripcion,
		"fechaCarga":     body.FechaCarga,
		"poExportacion":  body.PoExportacion,
		"conductor":      body.Conductor,
		"contenedor":     body.Contenedor,
		"selloNaviero":   body.SelloNaviero,
		"transporte":     body.Transporte,
		"tipoContenedor": body.TipoContenedor,
		"centroCarga":    body.CentroCarga,
		"nave":           body.Nave,
		"pol":            body.Pol,
		"naviera":        body.Naviera,
		"operador":       body.Operador,
		"destino":        body.Destino,
	}
	for campo, valor := range requeridos {
		if strings.TrimSpace(valor) == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest, "El campo "+campo+" es obligatorio")
		}
	}
	if body.Pallet <= 0 || body.Cajas <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Pallet y cajas deben ser mayores a cero")
	}

	fecha, err := time.Parse("2006-01-02", body.FechaCarga)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La fecha de carga debe tener formato YYYY-MM-DD")
	}

	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = models.ExportacionEnEspera
	}
	// "Despachado" solo se alcanza por el endpoint de status.
	if status != models.ExportacionEnEspera && status != models.ExportacionCancelado {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Status inválido")
	}

	return &models.Exportacion{
		Mercado:        strings.TrimSpace(body.Mercado),
		Material:       strings.TrimSpace(body.Material),
		Descripcion:    strings.TrimSpace(body.Descripcion),
		FechaCarga:     fecha,
		Observacion:    strings.TrimSpace(body.Observacion),
		Pallet:         body.Pallet,
		Cajas:          body.Cajas,
		PoExportacion:  strings.TrimSpace(body.PoExportacion),
		Conductor:      strings.TrimSpace(body.Conductor),
		Rut:            strings.TrimSpace(body.Rut),
		Telefono:       strings.TrimSpace(body.Telefono),
		Contenedor:     strings.TrimSpace(body.Contenedor),
		SelloNaviero:   strings.TrimSpace(body.SelloNaviero),
		Status:         status,
		Transporte:     strings.TrimSpace(body.Transporte),
		TipoContenedor: strings.TrimSpace(body.TipoContenedor),
		CentroCarga:    strings.TrimSpace(body.CentroCarga),
		Nave:           strings.TrimSpace(body.Nave),
		Pol:            strings.TrimSpace(body.Pol),
		Naviera:        strings.TrimSpace(body.Naviera),
		Operador:       strings.TrimSpace(body.Operador),
		Turno:          strings.TrimSpace(body.Turno),
		PatenteRampla:  strings.TrimSpace(body.PatenteRampla),
		PatenteCamion:  strings.TrimSpace(body.PatenteCamion),
		Destino:        strings.TrimSpace(body.Destino),
		SelloEmpresa:   strings.TrimSpace(body.SelloEmpresa),
		Delivery:       strings.TrimSpace(body.Delivery),
		PoLocal:        strings.TrimSpace(body.PoLocal),
		FacturaCPW:     strings.TrimSpace(body.FacturaCPW),
		NumeroInterno:  strings.TrimSpace(body.NumeroInterno),
	}, nil
}

// GET /api/exportaciones?q=
// q busca por destino, conductor y patente del camión.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exportaciones []models.Exportacion
		if err := database.DB.Order("fecha_carga DESC").Find(&exportaciones).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los datos de exportaciones")
		}

		q := strings.ToLower(strings.TrimSpace(c.Query("q")))
		res := make([]ExportacionResponse, 0, len(exportaciones))
		for i := range exportaciones {
			e := &exportaciones[i]
			if q != "" &&
				!strings.Contains(strings.ToLower(e.Destino), q) &&
				!strings.Contains(strings.ToLower(e.Conductor), q) &&
				!strings.Contains(strings.ToLower(e.PatenteCamion), q) {
				continue
			}
			res = append(res, toResponse(e))
		}

		return c.JSON(res)
	}
}

// POST /api/exportaciones
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		exportacion, err := parseBody(c)
		if err != nil {
			return err
		}

		if err := database.DB.Create(exportacion).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al registrar la exportación")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("exportaciones", "creación", "Exportación registrada: "+exportacion.Contenedor, username)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(exportacion))
	}
}

// PUT /api/exportaciones/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exportacion models.Exportacion
		if err := database.DB.First(&exportacion, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Exportación no encontrada")
		}

		// Una vez despachada, la exportación es de solo lectura.
		if exportacion.Status == models.ExportacionDespachado {
			return fiber.NewError(fiber.StatusConflict, "La exportación ya fue despachada y no puede editarse")
		}

		nueva, err := parseBody(c)
		if err != nil {
			return err
		}

		nueva.ID = exportacion.ID
		nueva.CreatedAt = exportacion.CreatedAt
		if err := database.DB.Save(nueva).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar la exportación")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("exportaciones", "edición", "Exportación actualizada: "+nueva.Contenedor, username)
		}

		return c.JSON(toResponse(nueva))
	}
}

// PUT /api/exportaciones/status/:id
// Endpoint estrecho de transición de estado, separado de la edición completa.
func StatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exportacion models.Exportacion
		if err := database.DB.First(&exportacion, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Exportación no encontrada")
		}

		if exportacion.Status == models.ExportacionDespachado {
			return fiber.NewError(fiber.StatusConflict, "La exportación ya fue despachada")
		}

		var body StatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		status := strings.TrimSpace(body.Status)
		switch status {
		case models.ExportacionEnEspera, models.ExportacionCancelado, models.ExportacionDespachado:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Status inválido")
		}

		exportacion.Status = status
		if err := database.DB.Save(&exportacion).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el status")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("exportaciones", "edición", "Status de exportación cambiado a "+status, username)
		}

		return c.JSON(toResponse(&exportacion))
	}
}
