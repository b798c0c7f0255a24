package models

import "time"

// Anuncio: aviso del dashboard, visible solo dentro de la ventana de retención.
type Anuncio struct {
	ID        uint      `gorm:"primaryKey"`
	Mensaje   string    `gorm:"size:500;not null"`
	Usuario   string    `gorm:"size:100;not null"`
	Timestamp time.Time `gorm:"index;not null"` // asignado por el servidor
	CreatedAt time.Time
	UpdatedAt time.Time
}
