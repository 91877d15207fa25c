package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

type CotizacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	Items(ctx context.Context, cotizacionID uuid.UUID) ([]model.CotizacionItem, error)
	List(ctx context.Context, filter dto.CotizacionFilter, scope dto.CotizacionScope) ([]model.Cotizacion, error)
	ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Cotizacion, error)
	ListByPedidos(ctx context.Context, pedidoIDs []uuid.UUID) ([]model.Cotizacion, error)
	ListEnviadasAlManager(ctx context.Context) ([]model.Cotizacion, error)
	ListParaFacturar(ctx context.Context, tx *gorm.DB, pedidoID, principalID uuid.UUID) ([]model.Cotizacion, error)
	UpdateCamposTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	ReplaceItemsTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID, items []model.CotizacionItem) error
	DeleteCascadeTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	DB() *gorm.DB
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) DB() *gorm.DB { return r.db }

func (r *cotizacionRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).
		Preload("Pedido.Empresa").
		Preload("Items.Examen").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cotizacionRepo) Items(ctx context.Context, cotizacionID uuid.UUID) ([]model.CotizacionItem, error) {
	var items []model.CotizacionItem
	err := r.db.WithContext(ctx).Preload("Examen").
		Where("cotizacion_id = ?", cotizacionID).
		Find(&items).Error
	return items, err
}

// applyCotizacionScope narrows visibility per role: vendedores see everything
// except client-authored drafts, managers only quotations awaiting their
// approval, clientes their own plus non-draft seller quotations on their
// companies' orders. Unknown roles see nothing.
func applyCotizacionScope(q *gorm.DB, scope dto.CotizacionScope) *gorm.DB {
	switch scope.Rol {
	case model.RolVendedor:
		return q.Where("NOT (cotizaciones.creador_tipo = ? AND cotizaciones.estado = ?)",
			model.CreadorCliente, model.CotizacionBorrador)
	case model.RolManager:
		return q.Where("cotizaciones.estado = ?", model.CotizacionEnviadaAlManager)
	case model.RolCliente:
		q = q.Where("pedidos.cliente_usuario_id = ? OR pedidos.empresa_id IN (?)",
			scope.UsuarioID, emptyUUIDGuard(scope.EmpresaIDs))
		return q.Where("(cotizaciones.creador_tipo = ? AND cotizaciones.creador_id = ?) OR (cotizaciones.creador_tipo = ? AND cotizaciones.estado != ?)",
			model.CreadorCliente, scope.UsuarioID, model.CreadorVendedor, model.CotizacionBorrador)
	}
	return q.Where("1 = 0")
}

// emptyUUIDGuard keeps an IN clause valid when the id list is empty.
func emptyUUIDGuard(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}

func (r *cotizacionRepo) List(ctx context.Context, filter dto.CotizacionFilter, scope dto.CotizacionScope) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion

	q := r.db.WithContext(ctx).Model(&model.Cotizacion{}).
		Joins("JOIN pedidos ON pedidos.id = cotizaciones.pedido_id")
	q = applyCotizacionScope(q, scope)

	if filter.PedidoID != "" {
		q = q.Where("cotizaciones.pedido_id = ?", filter.PedidoID)
	}
	if filter.UserID != "" {
		q = q.Where("cotizaciones.creador_id = ?", filter.UserID)
	}
	if filter.Estado != "" {
		q = q.Where("cotizaciones.estado = ?", filter.Estado)
	}
	if filter.EmpresaID != "" {
		q = q.Where("pedidos.empresa_id = ?", filter.EmpresaID)
	}

	err := q.Preload("Pedido.Empresa").
		Order("cotizaciones.created_at DESC").
		Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *cotizacionRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion
	err := r.db.WithContext(ctx).
		Where("pedido_id = ?", pedidoID).
		Order("es_complementaria ASC, created_at ASC").
		Find(&cotizaciones).Error
	return cotizaciones, err
}

// ListByPedidos trae en una sola consulta las cotizaciones de un lote de
// pedidos, para anotar listados sin una consulta por fila.
func (r *cotizacionRepo) ListByPedidos(ctx context.Context, pedidoIDs []uuid.UUID) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion
	err := r.db.WithContext(ctx).
		Where("pedido_id IN ?", pedidoIDs).
		Order("es_complementaria ASC, created_at ASC").
		Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *cotizacionRepo) ListEnviadasAlManager(ctx context.Context) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion
	err := r.db.WithContext(ctx).
		Where("estado IN ?", []model.EstadoCotizacion{
			model.CotizacionEnviadaAlManager, model.CotizacionAprobadaPorManager,
		}).
		Preload("Pedido.Empresa").
		Order("created_at DESC").
		Find(&cotizaciones).Error
	return cotizaciones, err
}

// ListParaFacturar returns the approved quotations of a pedido that an invoice
// must aggregate: the principal itself plus approved complementarias based on
// it, skipping any already linked to an invoice.
func (r *cotizacionRepo) ListParaFacturar(ctx context.Context, tx *gorm.DB, pedidoID, principalID uuid.UUID) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion
	sub := tx.Session(&gorm.Session{NewDB: true}).
		Model(&model.FacturaCotizacion{}).Select("cotizacion_id")
	err := tx.WithContext(ctx).
		Where("pedido_id = ? AND estado = ?", pedidoID, model.CotizacionAprobada).
		Where("(id = ? OR cotizacion_base_id = ?)", principalID, principalID).
		Where("id NOT IN (?)", sub).
		Preload("Items").
		Order("es_complementaria ASC, created_at ASC").
		Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *cotizacionRepo) UpdateCamposTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.WithContext(ctx).Model(&model.Cotizacion{}).Where("id = ?", id).Updates(campos).Error
}

func (r *cotizacionRepo) ReplaceItemsTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID, items []model.CotizacionItem) error {
	if err := tx.WithContext(ctx).Where("cotizacion_id = ?", cotizacionID).
		Delete(&model.CotizacionItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *cotizacionRepo) DeleteCascadeTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := tx.WithContext(ctx)
	// Detach complementarias and order references before the row goes away.
	if err := db.Model(&model.Cotizacion{}).Where("cotizacion_base_id = ?", id).
		Update("cotizacion_base_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("cotizacion_id = ?", id).Delete(&model.FacturaCotizacion{}).Error; err != nil {
		return err
	}
	if err := db.Model(&model.Pedido{}).Where("cotizacion_principal_id = ?", id).
		Update("cotizacion_principal_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("cotizacion_id = ?", id).Delete(&model.CotizacionItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Cotizacion{}, "id = ?", id).Error
}

func (r *cotizacionRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('cotizaciones_numero_seq')").Scan(&num).Error
	return num, err
}
