package database

import (
	"log"

	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	if err := Connect(postgres.Open(cfg.DatabaseDSN)); err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}
	if err := Migrate(); err != nil {
		log.Fatalf("Error en AutoMigrate: %v", err)
	}
	log.Println("Conexión a la base de datos exitosa. Migración completada.")
}

// Connect deja el dialector abierto para que los tests usen sqlite en memoria.
func Connect(dialector gorm.Dialector) error {
	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	return err
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Agenda{},
		&models.Bodega{},
		&models.Exportacion{},
		&models.Despacho{},
		&models.Tarea{},
		&models.Anuncio{},
		&models.Discusion{},
		&models.Respuesta{},
		&models.Actividad{},
		&models.Evento{},
	)
}
