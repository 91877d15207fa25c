package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Examen is a billable medical test service.
type Examen struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    *string   `gorm:"type:varchar(20);index"`
	Nombre    string    `gorm:"index;not null"`
	Categoria string    `gorm:"not null;default:'OTROS'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Examen) TableName() string { return "examenes" }

// ExamenPrecio is a price-list entry. SedeID nil means the site-independent
// fallback price; a row for a concrete sede overrides it. VigenteHasta nil
// means no expiry.
type ExamenPrecio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExamenID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	SedeID       *uuid.UUID      `gorm:"type:uuid;index"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VigenteHasta *time.Time
	CreatedAt    time.Time

	Examen *Examen `gorm:"foreignKey:ExamenID"`
}

func (ExamenPrecio) TableName() string { return "examen_precio" }
