package models

import "time"

// Discusion: hilo del foro entre un autor y un destinatario.
// Las respuestas viven en su propia tabla (append-only) para evitar
// sobrescrituras concurrentes del hilo completo.
type Discusion struct {
	ID           uint      `gorm:"primaryKey"`
	Mensaje      string    `gorm:"size:500;not null"`
	Usuario      string    `gorm:"size:100;not null"`
	Destinatario string    `gorm:"size:100;not null"`
	Timestamp    time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Respuestas []Respuesta `gorm:"foreignKey:DiscusionID;constraint:OnDelete:CASCADE"`
}

type Respuesta struct {
	ID          uint      `gorm:"primaryKey"`
	DiscusionID uint      `gorm:"index;not null"`
	Mensaje     string    `gorm:"size:500;not null"`
	Usuario     string    `gorm:"size:100;not null"`
	Timestamp   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}
