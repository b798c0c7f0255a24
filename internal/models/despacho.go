package models

import "time"

// Despacho: despacho nacional ligado a una entrada de la agenda diaria.
// El estado ("En Progreso" / "Completado") se deriva de los campos, nunca se guarda.
type Despacho struct {
	ID            uint   `gorm:"primaryKey"`
	AgendaID      *uint  `gorm:"index"`
	Agenda        *Agenda
	Cantidad      int    `gorm:"not null"`
	NombreChofer  string `gorm:"size:100"`
	RutChofer     string `gorm:"size:20"`
	PatenteCamion string `gorm:"size:20"`
	PatenteRampla string `gorm:"size:20"`
	NumeroSellos  string `gorm:"size:50"`
	Responsable   string `gorm:"size:100;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
