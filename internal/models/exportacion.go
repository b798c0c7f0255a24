package models

import "time"

// Estados de una exportación. "Despachado" es terminal: el registro queda de solo lectura.
const (
	ExportacionEnEspera   = "En Espera"
	ExportacionCancelado  = "Cancelado"
	ExportacionDespachado = "Despachado"
)

// Exportacion: embarque de exportación con todos los datos operativos del envío.
type Exportacion struct {
	ID             uint      `gorm:"primaryKey"`
	Mercado        string    `gorm:"size:100;not null"`
	Material       string    `gorm:"size:100;not null"`
	Descripcion    string    `gorm:"size:255;not null"`
	FechaCarga     time.Time `gorm:"index;not null"`
	Observacion    string    `gorm:"size:255"`
	Pallet         int       `gorm:"not null"`
	Cajas          int       `gorm:"not null"`
	PoExportacion  string    `gorm:"size:50;not null"`
	Conductor      string    `gorm:"size:100;not null"`
	Rut            string    `gorm:"size:20"`
	Telefono       string    `gorm:"size:20"`
	Contenedor     string    `gorm:"size:50;not null"` // ej: GAOU711741-1
	SelloNaviero   string    `gorm:"size:50;not null"` // ej: ML-CL03524
	Status         string    `gorm:"size:20;not null;default:'En Espera'"`
	Transporte     string    `gorm:"size:100;not null"`
	TipoContenedor string    `gorm:"size:20;not null"` // ej: HC40
	CentroCarga    string    `gorm:"size:100;not null"`
	Nave           string    `gorm:"size:50;not null"`
	Pol            string    `gorm:"size:100;not null"`
	Naviera        string    `gorm:"size:100;not null"`
	Operador       string    `gorm:"size:100;not null"`
	Turno          string    `gorm:"size:50"`
	PatenteRampla  string    `gorm:"size:20"`
	PatenteCamion  string    `gorm:"size:20"`
	Destino        string    `gorm:"size:100;not null"`
	SelloEmpresa   string    `gorm:"size:50"`
	Delivery       string    `gorm:"size:100"`
	PoLocal        string    `gorm:"size:50"`
	FacturaCPW     string    `gorm:"size:50"`
	NumeroInterno  string    `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
