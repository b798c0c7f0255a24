package models

import "time"

// Estados de una tarea. Toda tarea nace "Pendiente"; pasar a "Completado"
// solo es posible por el endpoint de estado.
const (
	TareaPendiente  = "Pendiente"
	TareaCompletado = "Completado"
)

type Tarea struct {
	ID           uint      `gorm:"primaryKey"`
	NombreTarea  string    `gorm:"size:100;not null"`
	Descripcion  string    `gorm:"size:500;not null"`
	Responsable  string    `gorm:"size:100;not null"`
	EstadoTarea  string    `gorm:"size:20;not null;default:'Pendiente'"`
	FechaInicio  time.Time `gorm:"not null"`
	FechaTermino time.Time `gorm:"not null"`
	Comentarios  string    `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
