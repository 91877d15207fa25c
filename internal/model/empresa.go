package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is a client company placing exam orders for its employees.
type Empresa struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"index;not null"`
	RUC         *string   `gorm:"type:varchar(11);column:ruc"`
	Contacto    *string
	Email       *string
	Telefono    *string
	Direccion   *string
	Activa      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Empresa) TableName() string { return "empresas" }

// UsuarioEmpresa links client users to the companies they can act for.
type UsuarioEmpresa struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_empresa"`
	EmpresaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_empresa"`
	EsPrincipal bool      `gorm:"not null;default:false"`

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (UsuarioEmpresa) TableName() string { return "usuario_empresa" }

// Sede is a physical service location with its own exam pricing.
type Sede struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
	Activa    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Sede) TableName() string { return "sedes" }
