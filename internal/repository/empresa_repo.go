package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type EmpresaRepository interface {
	Create(ctx context.Context, e *model.Empresa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	List(ctx context.Context, filter dto.EmpresaFilter) ([]model.Empresa, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Empresa, error)
	EmpresaIDsDeUsuario(ctx context.Context, usuarioID uuid.UUID) ([]uuid.UUID, error)
	ExistsRazonSocial(ctx context.Context, razonSocial string) (bool, error)
	ExistsRUC(ctx context.Context, ruc string, excludeID *uuid.UUID) (bool, error)
	HasPedidos(ctx context.Context, empresaID uuid.UUID) (bool, error)
	UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	VincularUsuario(ctx context.Context, usuarioID, empresaID uuid.UUID, esPrincipal bool) error
	DB() *gorm.DB
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) DB() *gorm.DB { return r.db }

func (r *empresaRepo) Create(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empresaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *empresaRepo) List(ctx context.Context, filter dto.EmpresaFilter) ([]model.Empresa, error) {
	var empresas []model.Empresa

	q := r.db.WithContext(ctx).Model(&model.Empresa{})
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("razon_social ILIKE ? OR ruc ILIKE ?", term, term)
	}
	switch filter.Activa {
	case "true":
		q = q.Where("activa = TRUE")
	case "false":
		q = q.Where("activa = FALSE")
	}

	err := q.Order("razon_social ASC").Find(&empresas).Error
	return empresas, err
}

func (r *empresaRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Empresa, error) {
	var empresas []model.Empresa
	err := r.db.WithContext(ctx).
		Joins("JOIN usuario_empresa ON usuario_empresa.empresa_id = empresas.id").
		Where("usuario_empresa.usuario_id = ?", usuarioID).
		Order("usuario_empresa.es_principal DESC, empresas.razon_social ASC").
		Find(&empresas).Error
	return empresas, err
}

func (r *empresaRepo) EmpresaIDsDeUsuario(ctx context.Context, usuarioID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.UsuarioEmpresa{}).
		Where("usuario_id = ?", usuarioID).
		Pluck("empresa_id", &ids).Error
	return ids, err
}

func (r *empresaRepo) ExistsRazonSocial(ctx context.Context, razonSocial string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Empresa{}).
		Where("LOWER(razon_social) = LOWER(?)", razonSocial).Count(&count).Error
	return count > 0, err
}

func (r *empresaRepo) ExistsRUC(ctx context.Context, ruc string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Empresa{}).Where("ruc = ?", ruc)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *empresaRepo) HasPedidos(ctx context.Context, empresaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("empresa_id = ?", empresaID).Count(&count).Error
	return count > 0, err
}

func (r *empresaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Empresa{}, "id = ?", id).Error
}

func (r *empresaRepo) UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Empresa{}).Where("id = ?", id).Updates(campos).Error
}

func (r *empresaRepo) VincularUsuario(ctx context.Context, usuarioID, empresaID uuid.UUID, esPrincipal bool) error {
	link := model.UsuarioEmpresa{UsuarioID: usuarioID, EmpresaID: empresaID, EsPrincipal: esPrincipal}
	return r.db.WithContext(ctx).Create(&link).Error
}
