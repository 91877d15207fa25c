package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type PacienteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.PedidoPaciente) error
	UpsertTx(ctx context.Context, tx *gorm.DB, p *model.PedidoPaciente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PedidoPaciente, error)
	FindByPedidoDNITx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID, dni string) (*model.PedidoPaciente, error)
	List(ctx context.Context, filter dto.PacienteFilter) ([]model.PedidoPaciente, error)
	ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoPaciente, error)
	UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	AsignarExamenesTx(ctx context.Context, tx *gorm.DB, pacienteID uuid.UUID, examenIDs []uuid.UUID) error
	ReplaceAsignados(ctx context.Context, pacienteID uuid.UUID, examenIDs []uuid.UUID) error
	MarcarCompletado(ctx context.Context, pacienteID, examenID uuid.UUID) error
	DesmarcarCompletado(ctx context.Context, pacienteID, examenID uuid.UUID) error
	CountByPedidoTx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) DB() *gorm.DB { return r.db }

func (r *pacienteRepo) Create(ctx context.Context, tx *gorm.DB, p *model.PedidoPaciente) error {
	return tx.WithContext(ctx).Create(p).Error
}

// UpsertTx inserts a roster entry or refreshes name/cargo/area when the DNI is
// already on the order.
func (r *pacienteRepo) UpsertTx(ctx context.Context, tx *gorm.DB, p *model.PedidoPaciente) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pedido_id"}, {Name: "dni"}},
		DoUpdates: clause.AssignmentColumns([]string{"nombre_completo", "cargo", "area", "updated_at"}),
	}).Create(p).Error
}

func (r *pacienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PedidoPaciente, error) {
	var p model.PedidoPaciente
	err := r.db.WithContext(ctx).
		Preload("Asignados").Preload("Completados").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pacienteRepo) FindByPedidoDNITx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID, dni string) (*model.PedidoPaciente, error) {
	var p model.PedidoPaciente
	err := tx.WithContext(ctx).
		Where("pedido_id = ? AND dni = ?", pedidoID, dni).
		First(&p).Error
	return &p, err
}

func (r *pacienteRepo) List(ctx context.Context, filter dto.PacienteFilter) ([]model.PedidoPaciente, error) {
	var pacientes []model.PedidoPaciente

	q := r.db.WithContext(ctx).Model(&model.PedidoPaciente{})
	if filter.PedidoID != "" {
		q = q.Where("pedido_id = ?", filter.PedidoID)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("dni ILIKE ? OR nombre_completo ILIKE ?", term, term)
	}

	err := q.Preload("Asignados").Preload("Completados").
		Order("nombre_completo ASC").
		Find(&pacientes).Error
	return pacientes, err
}

func (r *pacienteRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoPaciente, error) {
	var pacientes []model.PedidoPaciente
	err := r.db.WithContext(ctx).
		Where("pedido_id = ?", pedidoID).
		Preload("Asignados").Preload("Completados").
		Order("nombre_completo ASC").
		Find(&pacientes).Error
	return pacientes, err
}

func (r *pacienteRepo) UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.PedidoPaciente{}).Where("id = ?", id).Updates(campos).Error
}

func (r *pacienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PedidoPaciente{}, "id = ?", id).Error
}

func (r *pacienteRepo) AsignarExamenesTx(ctx context.Context, tx *gorm.DB, pacienteID uuid.UUID, examenIDs []uuid.UUID) error {
	if len(examenIDs) == 0 {
		return nil
	}
	rows := make([]model.PacienteExamenAsignado, 0, len(examenIDs))
	for _, examenID := range examenIDs {
		rows = append(rows, model.PacienteExamenAsignado{PacienteID: pacienteID, ExamenID: examenID})
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *pacienteRepo) ReplaceAsignados(ctx context.Context, pacienteID uuid.UUID, examenIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paciente_id = ?", pacienteID).
			Delete(&model.PacienteExamenAsignado{}).Error; err != nil {
			return err
		}
		return r.AsignarExamenesTx(ctx, tx, pacienteID, examenIDs)
	})
}

func (r *pacienteRepo) MarcarCompletado(ctx context.Context, pacienteID, examenID uuid.UUID) error {
	row := model.PacienteExamenCompletado{PacienteID: pacienteID, ExamenID: examenID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *pacienteRepo) DesmarcarCompletado(ctx context.Context, pacienteID, examenID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("paciente_id = ? AND examen_id = ?", pacienteID, examenID).
		Delete(&model.PacienteExamenCompletado{}).Error
}

func (r *pacienteRepo) CountByPedidoTx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.PedidoPaciente{}).
		Where("pedido_id = ?", pedidoID).Count(&count).Error
	return count, err
}
