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
)

var ErrFacturaNoEncontrada = errors.New("factura no encontrada")

// igvRate is the Peruvian sales tax applied over the invoice subtotal.
var igvRate = decimal.NewFromFloat(0.18)

type FacturaService interface {
	Crear(ctx context.Context, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaCompletaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	ListarPorPedido(ctx context.Context, pedidoID uuid.UUID) (*dto.FacturaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type facturaService struct {
	repo         repository.FacturaRepository
	pedidos      repository.PedidoRepository
	cotizaciones repository.CotizacionRepository
}

func NewFacturaService(
	repo repository.FacturaRepository,
	pedidos repository.PedidoRepository,
	cotizaciones repository.CotizacionRepository,
) FacturaService {
	return &facturaService{repo: repo, pedidos: pedidos, cotizaciones: cotizaciones}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Aggregates the order's approved principal quotation plus any approved
// complementarias not yet billed into one invoice: subtotal is the sum of
// their totals, IGV 18% on top, line detail copied from the quotation items.
// The order flips to FACTURADO inside the same transaction.

func (s *facturaService) Crear(ctx context.Context, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	pedidoID, err := uuid.Parse(req.PedidoID)
	if err != nil {
		return nil, reglaf("pedido_id inválido: %v", err)
	}
	pedido, err := s.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if pedido.CotizacionPrincipalID == nil {
		return nil, reglaf("el pedido no tiene una cotización principal aprobada")
	}
	principalID := *pedido.CotizacionPrincipalID

	var factura model.Factura
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		paraFacturar, err := s.cotizaciones.ListParaFacturar(ctx, tx, pedidoID, principalID)
		if err != nil {
			return err
		}
		if len(paraFacturar) == 0 {
			return reglaf("no hay cotizaciones aprobadas pendientes de facturar")
		}

		subtotal := decimal.Zero
		for _, c := range paraFacturar {
			subtotal = subtotal.Add(c.Total)
		}
		igv := subtotal.Mul(igvRate).Round(2)
		total := subtotal.Add(igv)

		num, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		factura = model.Factura{
			NumeroFactura: fmt.Sprintf("FAC-%d-%06d", time.Now().Year(), num),
			PedidoID:      pedidoID,
			Subtotal:      subtotal,
			IGV:           igv,
			Total:         total,
			Estado:        model.FacturaPendiente,
			FechaEmision:  time.Now(),
		}
		if err := s.repo.Create(ctx, tx, &factura); err != nil {
			return err
		}

		for _, c := range paraFacturar {
			if err := s.repo.AddCotizacionTx(ctx, tx, &model.FacturaCotizacion{
				FacturaID:    factura.ID,
				CotizacionID: c.ID,
				Monto:        c.Total,
				EsPrincipal:  c.ID == principalID,
			}); err != nil {
				return err
			}
			for _, it := range c.Items {
				if err := s.repo.AddDetalleTx(ctx, tx, &model.FacturaDetalle{
					FacturaID:      factura.ID,
					ExamenID:       it.ExamenID,
					Descripcion:    it.Nombre,
					Cantidad:       it.Cantidad,
					PrecioUnitario: it.PrecioFinal,
					Subtotal:       it.Subtotal,
				}); err != nil {
					return err
				}
			}
		}

		fid := factura.ID
		if err := s.pedidos.SetFacturaTx(ctx, tx, pedidoID, &fid); err != nil {
			return err
		}
		return s.pedidos.UpdateEstadoTx(ctx, tx, pedidoID, model.PedidoFacturado)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := facturaToResponse(&factura)
	resp.NumeroPedido = pedido.NumeroPedido
	if pedido.Empresa != nil {
		resp.EmpresaNombre = pedido.Empresa.RazonSocial
	}
	return resp, nil
}

func (s *facturaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaCompletaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFacturaNoEncontrada
	}

	resp := dto.FacturaCompletaResponse{Factura: *facturaToResponse(factura)}

	resp.Cotizaciones = make([]dto.FacturaCotizacionResponse, 0, len(factura.Cotizaciones))
	for _, fc := range factura.Cotizaciones {
		numero := ""
		if fc.Cotizacion != nil {
			numero = fc.Cotizacion.NumeroCotizacion
		}
		resp.Cotizaciones = append(resp.Cotizaciones, dto.FacturaCotizacionResponse{
			CotizacionID:     fc.CotizacionID.String(),
			NumeroCotizacion: numero,
			Monto:            fc.Monto,
			EsPrincipal:      fc.EsPrincipal,
		})
	}

	resp.Detalles = make([]dto.FacturaDetalleResponse, 0, len(factura.Detalles))
	for _, fd := range factura.Detalles {
		det := dto.FacturaDetalleResponse{
			Descripcion:    fd.Descripcion,
			Cantidad:       fd.Cantidad,
			PrecioUnitario: fd.PrecioUnitario,
			Subtotal:       fd.Subtotal,
		}
		if fd.ExamenID != nil {
			eid := fd.ExamenID.String()
			det.ExamenID = &eid
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	return &resp, nil
}

func (s *facturaService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	facturas, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return facturasToList(facturas), nil
}

func (s *facturaService) ListarPorPedido(ctx context.Context, pedidoID uuid.UUID) (*dto.FacturaListResponse, error) {
	if _, err := s.pedidos.FindByID(ctx, pedidoID); err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	facturas, err := s.repo.List(ctx, dto.FacturaFilter{PedidoID: pedidoID.String()})
	if err != nil {
		return nil, err
	}
	return facturasToList(facturas), nil
}

func (s *facturaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrFacturaNoEncontrada
	}

	campos := map[string]interface{}{}
	if req.Estado != nil {
		campos["estado"] = model.EstadoFactura(*req.Estado)
	}
	if req.FechaPago != nil {
		fp, err := time.Parse("2006-01-02", *req.FechaPago)
		if err != nil {
			return nil, reglaf("fecha_pago inválida, formato YYYY-MM-DD")
		}
		campos["fecha_pago"] = fp
	}
	if len(campos) > 0 {
		if err := s.repo.UpdateCampos(ctx, id, campos); err != nil {
			return nil, err
		}
	}

	actualizada, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return facturaToResponse(actualizada), nil
}

func (s *facturaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrFacturaNoEncontrada
	}
	if factura.Estado == model.FacturaPagada {
		return reglaf("no se puede eliminar una factura pagada")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteCascadeTx(ctx, tx, id)
	})
}

// ── Mapeo a DTOs ──────────────────────────────────────────────────────────────

func facturaToResponse(f *model.Factura) *dto.FacturaResponse {
	resp := dto.FacturaResponse{
		ID:            f.ID.String(),
		NumeroFactura: f.NumeroFactura,
		PedidoID:      f.PedidoID.String(),
		Subtotal:      f.Subtotal,
		IGV:           f.IGV,
		Total:         f.Total,
		Estado:        string(f.Estado),
		FechaEmision:  f.FechaEmision.Format(time.RFC3339),
	}
	if f.FechaPago != nil {
		fp := f.FechaPago.Format("2006-01-02")
		resp.FechaPago = &fp
	}
	if f.Pedido != nil {
		resp.NumeroPedido = f.Pedido.NumeroPedido
		if f.Pedido.Empresa != nil {
			resp.EmpresaNombre = f.Pedido.Empresa.RazonSocial
		}
	}
	return &resp
}

func facturasToList(facturas []model.Factura) *dto.FacturaListResponse {
	out := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		out = append(out, *facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{Facturas: out}
}
