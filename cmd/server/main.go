package main

import (
	"log"
	"strings"
	"time"

	"opsmerge-backend/internal/actividades"
	"opsmerge-backend/internal/agenda"
	"opsmerge-backend/internal/anuncios"
	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/bodegas"
	"opsmerge-backend/internal/calendario"
	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/dashboard"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/despacho"
	"opsmerge-backend/internal/exportaciones"
	"opsmerge-backend/internal/foro"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/realtime"
	"opsmerge-backend/internal/tareas"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Error inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	hub := realtime.NewHub()

	// Feed en tiempo real (anuncios y foro)
	app.Use("/ws", realtime.UpgradeMiddleware(cfg))
	app.Get("/ws/feed", hub.FeedHandler())

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/users", auth.ListUsersHandler())

	// Agenda diaria de despachos
	protected.Get("/agenda", agenda.ListHandler())
	protected.Post("/agenda", agenda.CreateHandler())
	protected.Put("/agenda/:id", agenda.UpdateHandler())
	protected.Delete("/agenda/:id", agenda.DeleteHandler())

	// Inventario de bodegas
	protected.Get("/bodegas", bodegas.ListHandler())
	protected.Post("/bodegas", bodegas.CreateHandler())
	protected.Put("/bodegas/:id", bodegas.UpdateHandler())
	protected.Delete("/bodegas/:id", bodegas.DeleteHandler())

	// Exportaciones
	protected.Get("/exportaciones", exportaciones.ListHandler())
	protected.Post("/exportaciones", exportaciones.CreateHandler())
	protected.Put("/exportaciones/status/:id", exportaciones.StatusHandler())
	protected.Put("/exportaciones/:id", exportaciones.UpdateHandler())

	// Despacho nacional
	protected.Get("/despacho", despacho.ListHandler())
	protected.Post("/despacho", despacho.CreateHandler())
	protected.Put("/despacho/:id", despacho.UpdateHandler())

	// Tareas diarias
	protected.Get("/tareas", tareas.ListHandler())
	protected.Post("/tareas", tareas.CreateHandler())
	protected.Put("/tareas/:id/estado", tareas.EstadoHandler())
	protected.Put("/tareas/:id", tareas.UpdateHandler())
	protected.Delete("/tareas/:id", tareas.DeleteHandler())

	// Anuncios: todos leen, solo el líder de equipo publica
	protected.Get("/anuncios", anuncios.ListHandler(cfg.FeedRetention))
	liderOnly := protected.Group("/anuncios")
	liderOnly.Use(auth.RequireRole(models.RoleLider))
	liderOnly.Post("/", anuncios.CreateHandler(hub))
	liderOnly.Put("/:id", anuncios.UpdateHandler(hub))
	liderOnly.Delete("/:id", anuncios.DeleteHandler(hub))

	// Foro de discusión
	protected.Get("/foro", foro.ListHandler(cfg.FeedRetention))
	protected.Post("/foro", foro.CreateHandler(hub))
	protected.Post("/foro/:id/respuestas", foro.ReplyHandler(hub))

	// Historial de actividades
	protected.Get("/activities", actividades.ListHandler())

	// Contadores de la pantalla de inicio
	protected.Get("/dashboard/resumen", dashboard.ResumenHandler(cfg.FeedRetention))

	// Calendario
	protected.Get("/calendario/events", calendario.ListHandler())
	protected.Post("/calendario/events", calendario.CreateHandler())
	protected.Put("/calendario/events/:id", calendario.UpdateHandler())
	protected.Delete("/calendario/events/:id", calendario.DeleteHandler())

	// Retención de anuncios y discusiones como trabajo periódico independiente
	pruner := realtime.NewPruner(cfg.FeedRetention, cfg.FeedPruneInterval, hub)
	pruner.Start()
	defer pruner.Stop()

	log.Println("Servidor escuchando en el puerto:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
