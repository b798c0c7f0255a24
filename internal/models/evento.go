package models

import "time"

// Evento: evento del calendario compartido.
type Evento struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:100;not null"`
	Start     time.Time `gorm:"index;not null"`
	End       time.Time `gorm:"not null"`
	AllDay    bool      `gorm:"default:false"`
	UserID    uint      `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
