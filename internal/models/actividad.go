package models

import "time"

// Actividad: fila del historial de actividades. Se escribe de forma
// best-effort después de cada mutación; nunca bloquea la operación original.
type Actividad struct {
	ID          uint      `gorm:"primaryKey"`
	Origen      string    `gorm:"size:50;not null"` // recurso que generó la actividad
	Actividad   string    `gorm:"size:50;not null"` // creación / edición / eliminación
	FechaHora   time.Time `gorm:"index;not null"`
	Descripcion string    `gorm:"size:255"`
	Usuario     string    `gorm:"size:100;not null"`
	CreatedAt   time.Time
}
