package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/model"
)

// ArticuloPrecioRow is one exam joined with its applicable price for a sede:
// the sede-specific row wins, the general (sede_id IS NULL) row is the
// fallback. Exams with no price row at all are excluded.
type ArticuloPrecioRow struct {
	ExamenID  uuid.UUID
	Nombre    string
	Categoria string
	Codigo    *string
	Precio    decimal.Decimal
}

const precioAplicableSelect = `
	SELECT e.id AS examen_id, e.nombre, e.categoria, e.codigo,
	       COALESCE(ep.precio, ep_general.precio) AS precio
	FROM examenes e
	LEFT JOIN examen_precio ep ON ep.examen_id = e.id AND ep.sede_id = ?
	  AND (ep.vigente_hasta IS NULL OR ep.vigente_hasta >= CURRENT_DATE)
	LEFT JOIN examen_precio ep_general ON ep_general.examen_id = e.id AND ep_general.sede_id IS NULL
	  AND (ep_general.vigente_hasta IS NULL OR ep_general.vigente_hasta >= CURRENT_DATE)
	WHERE e.activo = TRUE
	  AND (ep.id IS NOT NULL OR ep_general.id IS NOT NULL)`

type ExamenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Examen, error)
	PrecioVigente(ctx context.Context, examenID, sedeID uuid.UUID) (decimal.Decimal, error)
	Matriz(ctx context.Context, sedeID uuid.UUID) ([]ArticuloPrecioRow, error)
	Buscar(ctx context.Context, sedeID uuid.UUID, term string, limit int) ([]ArticuloPrecioRow, error)
	DB() *gorm.DB
}

type examenRepo struct{ db *gorm.DB }

func NewExamenRepository(db *gorm.DB) ExamenRepository { return &examenRepo{db: db} }

func (r *examenRepo) DB() *gorm.DB { return r.db }

func (r *examenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Examen, error) {
	var e model.Examen
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

// PrecioVigente returns the price an order snapshot should use for an exam at
// a sede. gorm.ErrRecordNotFound when the exam has no price listed.
func (r *examenRepo) PrecioVigente(ctx context.Context, examenID, sedeID uuid.UUID) (decimal.Decimal, error) {
	var row ArticuloPrecioRow
	res := r.db.WithContext(ctx).
		Raw(precioAplicableSelect+" AND e.id = ?", sedeID, examenID).
		Scan(&row)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	return row.Precio, nil
}

func (r *examenRepo) Matriz(ctx context.Context, sedeID uuid.UUID) ([]ArticuloPrecioRow, error) {
	var rows []ArticuloPrecioRow
	err := r.db.WithContext(ctx).
		Raw(precioAplicableSelect+" ORDER BY e.categoria, e.nombre", sedeID).
		Scan(&rows).Error
	return rows, err
}

func (r *examenRepo) Buscar(ctx context.Context, sedeID uuid.UUID, term string, limit int) ([]ArticuloPrecioRow, error) {
	var rows []ArticuloPrecioRow
	like := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Raw(precioAplicableSelect+" AND (e.nombre ILIKE ? OR e.codigo ILIKE ?) ORDER BY e.nombre LIMIT ?",
			sedeID, like, like, limit).
		Scan(&rows).Error
	return rows, err
}
