package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type SedeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sede, error)
	ListActivas(ctx context.Context) ([]model.Sede, error)
}

type sedeRepo struct{ db *gorm.DB }

func NewSedeRepository(db *gorm.DB) SedeRepository { return &sedeRepo{db: db} }

func (r *sedeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sede, error) {
	var s model.Sede
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sedeRepo) ListActivas(ctx context.Context) ([]model.Sede, error) {
	var sedes []model.Sede
	err := r.db.WithContext(ctx).
		Where("activa = TRUE").
		Order("nombre ASC").
		Find(&sedes).Error
	return sedes, err
}
