package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindDetalle(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter, scope dto.PedidoScope) ([]model.Pedido, int64, error)
	ListConCotizacionAprobada(ctx context.Context, filter dto.PedidoFilter, scope dto.PedidoScope) ([]model.Pedido, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error
	UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error
	SetCotizacionPrincipalTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cotizacionID *uuid.UUID) error
	SetFacturaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, facturaID *uuid.UUID) error
	SetTotalEmpleadosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, total int) error
	UpsertExamenTx(ctx context.Context, tx *gorm.DB, pe *model.PedidoExamen) error
	Examenes(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoExamen, error)
	HasExamenes(ctx context.Context, pedidoID uuid.UUID) (bool, error)
	AppendHistorialTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPedido) error
	ListHistorial(ctx context.Context, pedidoID uuid.UUID) ([]model.HistorialPedido, error)
	DeleteCascadeTx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Empresa").Preload("Sede").Preload("Vendedor").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) FindDetalle(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Empresa").Preload("Sede").Preload("Vendedor").
		Preload("Examenes.Examen").
		Preload("Pacientes.Asignados").Preload("Pacientes.Completados").
		First(&p, "id = ?", id).Error
	return &p, err
}

// applyPedidoScope narrows a pedido query to what the caller's role may see.
// Managers see everything; vendedores their own plus unassigned orders;
// clientes only orders of companies they are linked to.
func applyPedidoScope(q *gorm.DB, scope dto.PedidoScope) *gorm.DB {
	switch scope.Rol {
	case model.RolVendedor:
		return q.Where("vendedor_id = ? OR vendedor_id IS NULL", scope.UsuarioID)
	case model.RolCliente:
		if len(scope.EmpresaIDs) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("empresa_id IN ?", scope.EmpresaIDs)
	}
	return q
}

func applyPedidoFilter(q *gorm.DB, filter dto.PedidoFilter) *gorm.DB {
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.EmpresaID != "" {
		q = q.Where("empresa_id = ?", filter.EmpresaID)
	}
	if filter.VendedorID != "" {
		q = q.Where("vendedor_id = ?", filter.VendedorID)
	}
	if filter.UserID != "" {
		q = q.Where("cliente_usuario_id = ?", filter.UserID)
	}
	return q
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter, scope dto.PedidoScope) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("estado != ?", model.PedidoCancelado)
	q = applyPedidoFilter(q, filter)
	q = applyPedidoScope(q, scope)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Empresa").Preload("Sede").Preload("Vendedor").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

func (r *pedidoRepo) ListConCotizacionAprobada(ctx context.Context, filter dto.PedidoFilter, scope dto.PedidoScope) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("estado != ?", model.PedidoCancelado).
		Where("EXISTS (SELECT 1 FROM cotizaciones c WHERE c.pedido_id = pedidos.id AND c.estado = ?)",
			model.CotizacionAprobada)
	q = applyPedidoFilter(q, filter)
	q = applyPedidoScope(q, scope)

	err := q.Preload("Empresa").Preload("Sede").Preload("Vendedor").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, err
}

func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// Uses a PostgreSQL sequence for atomic order number generation
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error {
	return tx.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) SetCotizacionPrincipalTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cotizacionID *uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).
		Update("cotizacion_principal_id", cotizacionID).Error
}

func (r *pedidoRepo) SetFacturaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, facturaID *uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).
		Update("factura_id", facturaID).Error
}

func (r *pedidoRepo) SetTotalEmpleadosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, total int) error {
	return tx.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).
		Update("total_empleados", total).Error
}

func (r *pedidoRepo) UpsertExamenTx(ctx context.Context, tx *gorm.DB, pe *model.PedidoExamen) error {
	// Re-adding an existing exam accumulates its quantity.
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pedido_id"}, {Name: "examen_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cantidad": gorm.Expr("pedido_examenes.cantidad + EXCLUDED.cantidad"),
		}),
	}).Create(pe).Error
}

func (r *pedidoRepo) Examenes(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoExamen, error) {
	var examenes []model.PedidoExamen
	err := r.db.WithContext(ctx).Preload("Examen").
		Where("pedido_id = ?", pedidoID).
		Order("created_at ASC").
		Find(&examenes).Error
	return examenes, err
}

func (r *pedidoRepo) HasExamenes(ctx context.Context, pedidoID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PedidoExamen{}).
		Where("pedido_id = ?", pedidoID).Count(&count).Error
	return count > 0, err
}

func (r *pedidoRepo) AppendHistorialTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPedido) error {
	return tx.WithContext(ctx).Create(h).Error
}

func (r *pedidoRepo) ListHistorial(ctx context.Context, pedidoID uuid.UUID) ([]model.HistorialPedido, error) {
	var eventos []model.HistorialPedido
	err := r.db.WithContext(ctx).
		Where("pedido_id = ?", pedidoID).
		Order("created_at DESC").
		Find(&eventos).Error
	return eventos, err
}

// DeleteCascadeTx removes an order and everything hanging off it. Invoice rows
// carry no ON DELETE action, so they go first; quotation base references are
// nulled before the quotations themselves so the self-FK never blocks the
// delete. Roster and exam lines fall through the pedido FK cascade.
func (r *pedidoRepo) DeleteCascadeTx(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID) error {
	db := tx.WithContext(ctx)

	if err := db.Model(&model.Pedido{}).Where("id = ?", pedidoID).
		Updates(map[string]interface{}{"cotizacion_principal_id": nil, "factura_id": nil}).Error; err != nil {
		return err
	}

	sub := db.Session(&gorm.Session{NewDB: true}).Model(&model.Factura{}).
		Select("id").Where("pedido_id = ?", pedidoID)
	if err := db.Where("factura_id IN (?)", sub).Delete(&model.FacturaDetalle{}).Error; err != nil {
		return err
	}
	if err := db.Where("factura_id IN (?)", sub).Delete(&model.FacturaCotizacion{}).Error; err != nil {
		return err
	}
	if err := db.Where("pedido_id = ?", pedidoID).Delete(&model.Factura{}).Error; err != nil {
		return err
	}

	if err := db.Where("pedido_id = ?", pedidoID).Delete(&model.HistorialPedido{}).Error; err != nil {
		return err
	}

	if err := db.Model(&model.Cotizacion{}).Where("pedido_id = ?", pedidoID).
		Update("cotizacion_base_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("pedido_id = ?", pedidoID).Delete(&model.Cotizacion{}).Error; err != nil {
		return err
	}

	return db.Delete(&model.Pedido{}, "id = ?", pedidoID).Error
}
