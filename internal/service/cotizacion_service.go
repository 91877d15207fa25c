package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
	"github.com/rsg28/TuSalud-Backend/internal/repository"
	"github.com/rsg28/TuSalud-Backend/internal/worker"
)

var ErrCotizacionNoEncontrada = errors.New("cotización no encontrada")

type CotizacionService interface {
	Crear(ctx context.Context, actor dto.Actor, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionDetalleResponse, error)
	Items(ctx context.Context, id uuid.UUID) ([]dto.CotizacionItemResponse, error)
	Listar(ctx context.Context, actor dto.Actor, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error)
	ListarEnviadasAlManager(ctx context.Context) (*dto.CotizacionListResponse, error)
	Actualizar(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarCotizacionRequest) (*dto.CotizacionResponse, error)
	ActualizarEstado(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarEstadoCotizacionRequest) (*dto.CotizacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type cotizacionService struct {
	repo       repository.CotizacionRepository
	pedidos    repository.PedidoRepository
	empresas   repository.EmpresaRepository
	dispatcher *worker.Dispatcher
}

func NewCotizacionService(
	repo repository.CotizacionRepository,
	pedidos repository.PedidoRepository,
	empresas repository.EmpresaRepository,
	dispatcher *worker.Dispatcher,
) CotizacionService {
	return &cotizacionService{repo: repo, pedidos: pedidos, empresas: empresas, dispatcher: dispatcher}
}

func (s *cotizacionService) scope(ctx context.Context, actor dto.Actor) (dto.CotizacionScope, error) {
	scope := dto.CotizacionScope{Rol: actor.Rol, UsuarioID: actor.ID}
	if actor.Rol == model.RolCliente {
		ids, err := s.empresas.EmpresaIDsDeUsuario(ctx, actor.ID)
		if err != nil {
			return scope, err
		}
		scope.EmpresaIDs = ids
	}
	return scope, nil
}

// buildItems applies the line math to the request items: precio_base defaults
// to precio_final, variación is the percentage delta against the base (zero
// when the base is zero) and subtotal is precio_final × cantidad. Returns the
// rows plus the quotation total.
func buildItems(reqs []dto.CotizacionItemRequest) ([]model.CotizacionItem, decimal.Decimal, error) {
	cien := decimal.NewFromInt(100)
	items := make([]model.CotizacionItem, 0, len(reqs))
	total := decimal.Zero

	for _, it := range reqs {
		cantidad := it.Cantidad
		if cantidad < 1 {
			cantidad = 1
		}
		precioFinal := it.PrecioFinal
		precioBase := precioFinal
		if it.PrecioBase != nil {
			precioBase = *it.PrecioBase
		}
		variacion := decimal.Zero
		if !precioBase.IsZero() {
			variacion = precioFinal.Sub(precioBase).Div(precioBase).Mul(cien).Round(2)
		}
		subtotal := precioFinal.Mul(decimal.NewFromInt(int64(cantidad)))
		total = total.Add(subtotal)

		nombre := it.Nombre
		if nombre == "" {
			nombre = "Examen"
		}
		var examenID *uuid.UUID
		if it.ExamenID != nil {
			eid, err := uuid.Parse(*it.ExamenID)
			if err != nil {
				return nil, decimal.Zero, reglaf("examen_id inválido: %v", err)
			}
			examenID = &eid
		}

		items = append(items, model.CotizacionItem{
			ExamenID:     examenID,
			Nombre:       nombre,
			Cantidad:     cantidad,
			PrecioBase:   precioBase,
			PrecioFinal:  precioFinal,
			VariacionPct: variacion,
			Subtotal:     subtotal,
		})
	}
	return items, total, nil
}

func (s *cotizacionService) Crear(ctx context.Context, actor dto.Actor, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error) {
	pedidoID, err := uuid.Parse(req.PedidoID)
	if err != nil {
		return nil, reglaf("pedido_id inválido: %v", err)
	}
	if _, err := s.pedidos.FindByID(ctx, pedidoID); err != nil {
		return nil, ErrPedidoNoEncontrado
	}

	var baseID *uuid.UUID
	if req.CotizacionBaseID != nil {
		bid, err := uuid.Parse(*req.CotizacionBaseID)
		if err != nil {
			return nil, reglaf("cotizacion_base_id inválido: %v", err)
		}
		baseID = &bid
	}

	items, total, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	creadorTipo := req.CreadorTipo
	if creadorTipo == "" {
		creadorTipo = model.CreadorVendedor
	}
	creadorID := actor.ID

	var cotizacion model.Cotizacion
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		cotizacion = model.Cotizacion{
			NumeroCotizacion: fmt.Sprintf("COT-%d-%06d", time.Now().Year(), num),
			PedidoID:         pedidoID,
			CotizacionBaseID: baseID,
			EsComplementaria: req.EsComplementaria,
			Estado:           model.CotizacionBorrador,
			CreadorTipo:      creadorTipo,
			CreadorID:        &creadorID,
			Total:            total,
			Items:            items,
		}
		return s.repo.Create(ctx, tx, &cotizacion)
	})
	if txErr != nil {
		return nil, txErr
	}
	return cotizacionToResponse(&cotizacion), nil
}

func (s *cotizacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionDetalleResponse, error) {
	cotizacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCotizacionNoEncontrada
	}
	resp := dto.CotizacionDetalleResponse{
		Cotizacion: *cotizacionToResponse(cotizacion),
		Items:      itemsToResponse(cotizacion.Items),
	}
	return &resp, nil
}

func (s *cotizacionService) Items(ctx context.Context, id uuid.UUID) ([]dto.CotizacionItemResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrCotizacionNoEncontrada
	}
	items, err := s.repo.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

func (s *cotizacionService) Listar(ctx context.Context, actor dto.Actor, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error) {
	scope, err := s.scope(ctx, actor)
	if err != nil {
		return nil, err
	}
	cotizaciones, err := s.repo.List(ctx, filter, scope)
	if err != nil {
		return nil, err
	}
	return listToResponse(cotizaciones), nil
}

func (s *cotizacionService) ListarEnviadasAlManager(ctx context.Context) (*dto.CotizacionListResponse, error) {
	cotizaciones, err := s.repo.ListEnviadasAlManager(ctx)
	if err != nil {
		return nil, err
	}
	return listToResponse(cotizaciones), nil
}

// aplicarTransicion runs the declared side effects of the new state inside
// the caller's transaction.
func (s *cotizacionService) aplicarTransicion(ctx context.Context, tx *gorm.DB, actor dto.Actor, cot *model.Cotizacion, nuevo model.EstadoCotizacion) error {
	tr, ok := cotizacionTransitions[nuevo]
	if !ok {
		return nil
	}
	if tr.soloPrincipal && cot.EsComplementaria {
		return nil
	}

	if tr.estadoPedido != "" {
		if err := s.pedidos.UpdateEstadoTx(ctx, tx, cot.PedidoID, tr.estadoPedido); err != nil {
			return err
		}
	}
	if tr.vinculaPrincipal {
		cid := cot.ID
		if err := s.pedidos.SetCotizacionPrincipalTx(ctx, tx, cot.PedidoID, &cid); err != nil {
			return err
		}
	}
	if tr.eventoHistorial != "" {
		cid := cot.ID
		actorID := actor.ID
		nombre := actor.Nombre
		if err := s.pedidos.AppendHistorialTx(ctx, tx, &model.HistorialPedido{
			PedidoID:      cot.PedidoID,
			CotizacionID:  &cid,
			TipoEvento:    "COTIZACION_APROBADA",
			Descripcion:   tr.eventoHistorial,
			UsuarioID:     &actorID,
			UsuarioNombre: &nombre,
		}); err != nil {
			return err
		}
	}
	return nil
}

// notificar emails the quotation outcome to the company, fire and forget,
// after the transaction has committed.
func (s *cotizacionService) notificar(ctx context.Context, cot *model.Cotizacion, nuevo model.EstadoCotizacion) {
	tr, ok := cotizacionTransitions[nuevo]
	if !ok || !tr.notificar || s.dispatcher == nil {
		return
	}
	pedido, err := s.pedidos.FindByID(ctx, cot.PedidoID)
	if err != nil || pedido.Empresa == nil || pedido.Empresa.Email == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionPayload{
		ToEmail:          *pedido.Empresa.Email,
		NumeroCotizacion: cot.NumeroCotizacion,
		NumeroPedido:     pedido.NumeroPedido,
		Estado:           string(nuevo),
	})
}

func (s *cotizacionService) Actualizar(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarCotizacionRequest) (*dto.CotizacionResponse, error) {
	existente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCotizacionNoEncontrada
	}

	var nuevoEstado *model.EstadoCotizacion
	if req.Estado != nil {
		e := model.EstadoCotizacion(*req.Estado)
		if !e.Valido() {
			return nil, reglaf("estado debe ser uno de: %v", model.EstadosCotizacion())
		}
		nuevoEstado = &e
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		campos := map[string]interface{}{}
		if nuevoEstado != nil {
			campos["estado"] = *nuevoEstado
			tr := cotizacionTransitions[*nuevoEstado]
			if tr.setFechaEnvio {
				campos["fecha_envio"] = time.Now()
			}
			if tr.setFechaAprobacion {
				campos["fecha_aprobacion"] = time.Now()
			}
		}
		if req.SolicitudManagerPendiente != nil {
			campos["solicitud_manager_pendiente"] = *req.SolicitudManagerPendiente
		}
		if req.MensajeRechazo != nil {
			campos["mensaje_rechazo"] = *req.MensajeRechazo
		}

		// Items are only editable while the quotation is still a draft.
		if len(req.Items) > 0 && existente.Estado == model.CotizacionBorrador {
			items, total, err := buildItems(req.Items)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].CotizacionID = id
			}
			if err := s.repo.ReplaceItemsTx(ctx, tx, id, items); err != nil {
				return err
			}
			campos["total"] = total
		}

		if len(campos) > 0 {
			if err := s.repo.UpdateCamposTx(ctx, tx, id, campos); err != nil {
				return err
			}
		}
		if nuevoEstado != nil {
			return s.aplicarTransicion(ctx, tx, actor, existente, *nuevoEstado)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if nuevoEstado != nil {
		s.notificar(ctx, existente, *nuevoEstado)
	}

	actualizada, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cotizacionToResponse(actualizada), nil
}

func (s *cotizacionService) ActualizarEstado(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarEstadoCotizacionRequest) (*dto.CotizacionResponse, error) {
	return s.Actualizar(ctx, actor, id, dto.ActualizarCotizacionRequest{
		Estado:         &req.Estado,
		MensajeRechazo: req.MensajeRechazo,
	})
}

func (s *cotizacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCotizacionNoEncontrada
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteCascadeTx(ctx, tx, id)
	})
}

// ── Mapeo a DTOs ──────────────────────────────────────────────────────────────

func cotizacionToResponse(c *model.Cotizacion) *dto.CotizacionResponse {
	resp := dto.CotizacionResponse{
		ID:                        c.ID.String(),
		NumeroCotizacion:          c.NumeroCotizacion,
		PedidoID:                  c.PedidoID.String(),
		EsComplementaria:          c.EsComplementaria,
		Estado:                    string(c.Estado),
		CreadorTipo:               c.CreadorTipo,
		Total:                     c.Total,
		SolicitudManagerPendiente: c.SolicitudManagerPendiente,
		MensajeRechazo:            c.MensajeRechazo,
		CreatedAt:                 c.CreatedAt.Format(time.RFC3339),
	}
	if c.CotizacionBaseID != nil {
		bid := c.CotizacionBaseID.String()
		resp.CotizacionBaseID = &bid
	}
	if c.CreadorID != nil {
		cid := c.CreadorID.String()
		resp.CreadorID = &cid
	}
	if c.FechaEnvio != nil {
		fe := c.FechaEnvio.Format(time.RFC3339)
		resp.FechaEnvio = &fe
	}
	if c.FechaAprobacion != nil {
		fa := c.FechaAprobacion.Format(time.RFC3339)
		resp.FechaAprobacion = &fa
	}
	if c.Pedido != nil {
		resp.NumeroPedido = c.Pedido.NumeroPedido
		resp.EmpresaID = c.Pedido.EmpresaID.String()
		if c.Pedido.Empresa != nil {
			resp.EmpresaNombre = c.Pedido.Empresa.RazonSocial
		}
	}
	return &resp
}

func itemsToResponse(items []model.CotizacionItem) []dto.CotizacionItemResponse {
	out := make([]dto.CotizacionItemResponse, 0, len(items))
	for _, it := range items {
		item := dto.CotizacionItemResponse{
			ID:           it.ID.String(),
			Nombre:       it.Nombre,
			Cantidad:     it.Cantidad,
			PrecioBase:   it.PrecioBase,
			PrecioFinal:  it.PrecioFinal,
			VariacionPct: it.VariacionPct,
			Subtotal:     it.Subtotal,
		}
		if it.ExamenID != nil {
			eid := it.ExamenID.String()
			item.ExamenID = &eid
		}
		if it.Examen != nil {
			item.ExamenNombre = &it.Examen.Nombre
		}
		out = append(out, item)
	}
	return out
}

func listToResponse(cotizaciones []model.Cotizacion) *dto.CotizacionListResponse {
	out := make([]dto.CotizacionResponse, 0, len(cotizaciones))
	for i := range cotizaciones {
		out = append(out, *cotizacionToResponse(&cotizaciones[i]))
	}
	return &dto.CotizacionListResponse{Cotizaciones: out}
}
