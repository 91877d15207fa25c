package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles — declared per-route via middleware.RequireRole.
const (
	RolManager  = "manager"
	RolVendedor = "vendedor"
	RolCliente  = "cliente"
)

// Usuario is an account that can authenticate against the API.
// Rol: "manager" | "vendedor" | "cliente"
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	NombreCompleto string    `gorm:"not null"`
	PasswordHash   string    `gorm:"not null"`
	Telefono       *string
	Rol            string `gorm:"type:varchar(20);not null;default:'cliente'"`
	Activo         bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Usuario) TableName() string { return "usuarios" }
