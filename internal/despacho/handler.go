package despacho

import (
	"strings"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Estados derivados de un despacho; nunca se persisten.
const (
	EstadoEnProgreso = "En Progreso"
	EstadoCompletado = "Completado"
)

type DespachoRequest struct {
	Cantidad      int    `json:"cantidad"`
	NombreChofer  string `json:"nombreChofer"`
	RutChofer     string `json:"rutChofer"`
	PatenteCamion string `json:"patenteCamion"`
	PatenteRampla string `json:"patenteRampla"`
	NumeroSellos  string `json:"numeroSellos"`
	AgendaID      *uint  `json:"agenda_diaria_id"`
}

type DespachoResponse struct {
	ID            uint   `json:"id"`
	Detalles      string `json:"detalles"`
	Cantidad      int    `json:"cantidad"`
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	NombreChofer  string `json:"nombreChofer"`
	RutChofer     string `json:"rutChofer"`
	PatenteCamion string `json:"patenteCamion"`
	PatenteRampla string `json:"patenteRampla"`
	NumeroSellos  string `json:"numeroSellos"`
	Responsable   string `json:"responsable"`
	AgendaID      *uint  `json:"agenda_diaria_id"`
	Estado        string `json:"estado"`
}

// Completado es un derivado: todos los campos operativos (incluidos los de la
// agenda vinculada) deben estar presentes. No importa el orden en que se llenen.
func isComplete(d *models.Despacho) bool {
	if d.Agenda == nil || d.Agenda.Detalles == "" || d.Agenda.Fecha.IsZero() || d.Agenda.Hora == "" {
		return false
	}
	return d.Cantidad > 0 &&
		d.NombreChofer != "" &&
		d.RutChofer != "" &&
		d.PatenteCamion != "" &&
		d.PatenteRampla != "" &&
		d.NumeroSellos != ""
}

func toResponse(d *models.Despacho) DespachoResponse {
	res := DespachoResponse{
		ID:            d.ID,
		Cantidad:      d.Cantidad,
		NombreChofer:  d.NombreChofer,
		RutChofer:     d.RutChofer,
		PatenteCamion: d.PatenteCamion,
		PatenteRampla: d.PatenteRampla,
		NumeroSellos:  d.NumeroSellos,
		Responsable:   d.Responsable,
		AgendaID:      d.AgendaID,
		Estado:        EstadoEnProgreso,
	}
	if d.Agenda != nil {
		res.Detalles = d.Agenda.Detalles
		res.Fecha = d.Agenda.Fecha.Format("2006-01-02")
		res.Hora = d.Agenda.Hora
	}
	if isComplete(d) {
		res.Estado = EstadoCompletado
	}
	return res
}

func matchesSearch(res *DespachoResponse, q string) bool {
	campos := []string{
		res.NombreChofer,
		res.RutChofer,
		res.PatenteCamion,
		res.PatenteRampla,
		res.NumeroSellos,
		res.Detalles,
		res.Fecha,
		res.Hora,
		res.Responsable,
	}
	for _, campo := range campos {
		if strings.Contains(strings.ToLower(campo), q) {
			return true
		}
	}
	return false
}

// GET /api/despacho?q=&estado=
// estado: "En Progreso" (por defecto), "Completados" o "Todos".
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var despachos []models.Despacho
		if err := database.DB.Preload("Agenda").Order("created_at DESC").Find(&despachos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los datos de despachos")
		}

		q := strings.ToLower(strings.TrimSpace(c.Query("q")))
		estado := strings.TrimSpace(c.Query("estado"))
		if estado == "" {
			estado = EstadoEnProgreso
		}

		res := make([]DespachoResponse, 0, len(despachos))
		for i := range despachos {
			item := toResponse(&despachos[i])

			switch estado {
			case "Todos":
			case "Completados":
				if item.Estado != EstadoCompletado {
					continue
				}
			case EstadoEnProgreso:
				if item.Estado != EstadoEnProgreso {
					continue
				}
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Filtro de estado inválido")
			}

			if q != "" && !matchesSearch(&item, q) {
				continue
			}
			res = append(res, item)
		}

		return c.JSON(res)
	}
}

func parseBody(c *fiber.Ctx) (*DespachoRequest, error) {
	var body DespachoRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}
	if body.Cantidad <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La cantidad es obligatoria")
	}
	if body.AgendaID != nil {
		var agenda models.Agenda
		if err := database.DB.First(&agenda, "id = ?", *body.AgendaID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "La agenda indicada no existe")
		}
	}
	return &body, nil
}

// POST /api/despacho
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c)
		if err != nil {
			return err
		}

		// El responsable sale de la sesión, no del cuerpo de la petición.
		username, err := auth.CurrentUsername(c)
		if err != nil {
			return err
		}

		despacho := models.Despacho{
			AgendaID:      body.AgendaID,
			Cantidad:      body.Cantidad,
			NombreChofer:  strings.TrimSpace(body.NombreChofer),
			RutChofer:     strings.TrimSpace(body.RutChofer),
			PatenteCamion: strings.TrimSpace(body.PatenteCamion),
			PatenteRampla: strings.TrimSpace(body.PatenteRampla),
			NumeroSellos:  strings.TrimSpace(body.NumeroSellos),
			Responsable:   username,
		}

		if err := database.DB.Create(&despacho).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al guardar el despacho")
		}

		actividades.Record("despacho", "creación", "Despacho nacional registrado", username)

		database.DB.Preload("Agenda").First(&despacho, despacho.ID)
		return c.Status(fiber.StatusCreated).JSON(toResponse(&despacho))
	}
}

// PUT /api/despacho/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var despacho models.Despacho
		if err := database.DB.Preload("Agenda").First(&despacho, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despacho no encontrado")
		}

		// Un despacho completado ya no se edita.
		if isComplete(&despacho) {
			return fiber.NewError(fiber.StatusConflict, "El despacho ya está completado y no puede editarse")
		}

		body, err := parseBody(c)
		if err != nil {
			return err
		}

		despacho.AgendaID = body.AgendaID
		despacho.Cantidad = body.Cantidad
		despacho.NombreChofer = strings.TrimSpace(body.NombreChofer)
		despacho.RutChofer = strings.TrimSpace(body.RutChofer)
		despacho.PatenteCamion = strings.TrimSpace(body.PatenteCamion)
		despacho.PatenteRampla = strings.TrimSpace(body.PatenteRampla)
		despacho.NumeroSellos = strings.TrimSpace(body.NumeroSellos)

		if err := database.DB.Save(&despacho).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el despacho")
		}

		if username, err := auth.CurrentUsername(c); err == nil {
			actividades.Record("despacho", "edición", "Despacho nacional actualizado", username)
		}

		database.DB.Preload("Agenda").First(&despacho, despacho.ID)
		return c.JSON(toResponse(&despacho))
	}
}
