package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type FacturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, error)
	AddCotizacionTx(ctx context.Context, tx *gorm.DB, fc *model.FacturaCotizacion) error
	AddDetalleTx(ctx context.Context, tx *gorm.DB, fd *model.FacturaDetalle) error
	UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	DeleteCascadeTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return tx.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Pedido.Empresa").
		Preload("Cotizaciones.Cotizacion").
		Preload("Detalles").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, error) {
	var facturas []model.Factura

	q := r.db.WithContext(ctx).Model(&model.Factura{}).
		Joins("JOIN pedidos ON pedidos.id = facturas.pedido_id")

	if filter.PedidoID != "" {
		q = q.Where("facturas.pedido_id = ?", filter.PedidoID)
	}
	if filter.Estado != "" {
		q = q.Where("facturas.estado = ?", filter.Estado)
	}
	if filter.EmpresaID != "" {
		q = q.Where("pedidos.empresa_id = ?", filter.EmpresaID)
	}

	err := q.Preload("Pedido.Empresa").
		Order("facturas.fecha_emision DESC").
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) AddCotizacionTx(ctx context.Context, tx *gorm.DB, fc *model.FacturaCotizacion) error {
	return tx.WithContext(ctx).Create(fc).Error
}

func (r *facturaRepo) AddDetalleTx(ctx context.Context, tx *gorm.DB, fd *model.FacturaDetalle) error {
	return tx.WithContext(ctx).Create(fd).Error
}

func (r *facturaRepo) UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Factura{}).Where("id = ?", id).Updates(campos).Error
}

func (r *facturaRepo) DeleteCascadeTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := tx.WithContext(ctx)
	if err := db.Model(&model.Pedido{}).Where("factura_id = ?", id).
		Update("factura_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("factura_id = ?", id).Delete(&model.FacturaCotizacion{}).Error; err != nil {
		return err
	}
	if err := db.Where("factura_id = ?", id).Delete(&model.FacturaDetalle{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Factura{}, "id = ?", id).Error
}

func (r *facturaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('facturas_numero_seq')").Scan(&num).Error
	return num, err
}
