package actividades

import (
	"log"
	"time"

	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
)

// Record escribe una fila en el historial de actividades. Es best-effort:
// un fallo aquí se registra en el log y no afecta la operación que lo originó.
func Record(origen, actividad, descripcion, usuario string) {
	entry := models.Actividad{
		Origen:      origen,
		Actividad:   actividad,
		FechaHora:   time.Now(),
		Descripcion: descripcion,
		Usuario:     usuario,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("No se pudo registrar la actividad (%s/%s): %v", origen, actividad, err)
	}
}
