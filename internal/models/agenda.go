package models

import "time"

// Agenda: entrada de la agenda diaria de despachos (fecha + hora + detalles).
type Agenda struct {
	ID        uint      `gorm:"primaryKey"`
	Fecha     time.Time `gorm:"index;not null"`  // solo la parte de fecha es relevante
	Hora      string    `gorm:"size:5;not null"` // formato HH:mm
	Detalles  string    `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
