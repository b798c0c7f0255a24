package models

import "time"

// Bodegas conocidas; el inventario solo acepta estos dos códigos.
const (
	BodegaBPT = "BPT"
	BodegaBMP = "BMP"
)

// Bodega: registro de inventario semanal de una bodega.
type Bodega struct {
	ID                uint      `gorm:"primaryKey"`
	NombreBodega      string    `gorm:"size:10;not null"`
	FechaInventario   time.Time `gorm:"index;not null"`
	DetalleInventario string    `gorm:"size:500;not null"`
	Responsable       string    `gorm:"size:100;not null"` // debe coincidir con el username para editar/eliminar
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
