package models

import "time"

type UserRole string

const (
	RoleOperador UserRole = "Operador"
	RoleLider    UserRole = "Líder de Equipo"
)

// ValidRole: el perfil se asigna una sola vez al registrarse, nunca se autoedita.
func ValidRole(r UserRole) bool {
	return r == RoleOperador || r == RoleLider
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:30;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
