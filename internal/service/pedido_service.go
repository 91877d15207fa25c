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

// Sentinel errors the handlers translate into 404/403 responses.
var (
	ErrPedidoNoEncontrado = errors.New("pedido no encontrado")
	ErrNoAutorizado       = errors.New("no autorizado para esta operación")
)

type PedidoService interface {
	Crear(ctx context.Context, actor dto.Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, actor dto.Actor, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	ListarConCotizacionAprobada(ctx context.Context, actor dto.Actor, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoDetalleResponse, error)
	ObtenerEstado(ctx context.Context, id uuid.UUID) (string, error)
	PacientesExamenes(ctx context.Context, id uuid.UUID) (*dto.PacientesExamenesResponse, error)
	PacientesCompletados(ctx context.Context, id uuid.UUID) (*dto.PacientesCompletadosResponse, error)
	AgregarExamen(ctx context.Context, id uuid.UUID, req dto.AgregarExamenRequest) error
	MarcarListo(ctx context.Context, actor dto.Actor, id uuid.UUID) (*dto.PedidoResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error)
	MarcarCompletado(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	CargarEmpleados(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.CargarEmpleadosRequest) (int, error)
	Cancelar(ctx context.Context, actor dto.Actor, id uuid.UUID) error
	Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialEventoResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	cotizaciones repository.CotizacionRepository
	facturas     repository.FacturaRepository
	pacientes    repository.PacienteRepository
	empresas     repository.EmpresaRepository
	sedes        repository.SedeRepository
	examenes     repository.ExamenRepository
}

func NewPedidoService(
	repo repository.PedidoRepository,
	cotizaciones repository.CotizacionRepository,
	facturas repository.FacturaRepository,
	pacientes repository.PacienteRepository,
	empresas repository.EmpresaRepository,
	sedes repository.SedeRepository,
	examenes repository.ExamenRepository,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		cotizaciones: cotizaciones,
		facturas:     facturas,
		pacientes:    pacientes,
		empresas:     empresas,
		sedes:        sedes,
		examenes:     examenes,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// scopePedidos resolves the visibility predicate for the caller once per
// request. Clientes need their company links looked up.
func (s *pedidoService) scopePedidos(ctx context.Context, actor dto.Actor) (dto.PedidoScope, error) {
	scope := dto.PedidoScope{Rol: actor.Rol, UsuarioID: actor.ID}
	if actor.Rol == model.RolCliente {
		ids, err := s.empresas.EmpresaIDsDeUsuario(ctx, actor.ID)
		if err != nil {
			return scope, err
		}
		scope.EmpresaIDs = ids
	}
	return scope, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One ACID transaction: nextval numero, insert pedido, snapshot exam prices
// into pedido_examenes, insert the roster with its assignments, fix the
// headcount, append the CREACION event.

func (s *pedidoService) Crear(ctx context.Context, actor dto.Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	empresaID, err := uuid.Parse(req.EmpresaID)
	if err != nil {
		return nil, reglaf("empresa_id inválido: %v", err)
	}
	sedeID, err := uuid.Parse(req.SedeID)
	if err != nil {
		return nil, reglaf("sede_id inválido: %v", err)
	}
	if _, err := s.empresas.FindByID(ctx, empresaID); err != nil {
		return nil, reglaf("empresa no encontrada")
	}
	if _, err := s.sedes.FindByID(ctx, sedeID); err != nil {
		return nil, reglaf("sede no encontrada")
	}

	var vendedorID, clienteID *uuid.UUID
	switch actor.Rol {
	case model.RolVendedor, model.RolManager:
		id := actor.ID
		vendedorID = &id
		if req.ClienteUsuarioID != nil {
			if cid, err := uuid.Parse(*req.ClienteUsuarioID); err == nil {
				clienteID = &cid
			}
		}
	case model.RolCliente:
		id := actor.ID
		clienteID = &id
	}

	var fechaVencimiento *time.Time
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, reglaf("fecha_vencimiento inválida, formato YYYY-MM-DD")
		}
		fechaVencimiento = &fv
	}

	// Pre-flight: resolve exam lines and their price snapshot outside the TX.
	type lineaExamen struct {
		examenID uuid.UUID
		cantidad int
		precio   decimal.Decimal
	}
	var lineas []lineaExamen
	examenIDs := make(map[uuid.UUID]bool)
	for _, item := range req.Examenes {
		eid, err := uuid.Parse(item.ExamenID)
		if err != nil {
			return nil, reglaf("examen_id inválido: %v", err)
		}
		cantidad := item.Cantidad
		if cantidad < 1 {
			cantidad = 1
		}
		precio, err := s.examenes.PrecioVigente(ctx, eid, sedeID)
		if err != nil {
			precio = decimal.Zero
		}
		examenIDs[eid] = true
		lineas = append(lineas, lineaExamen{examenID: eid, cantidad: cantidad, precio: precio})
	}

	totalEmpleados := len(req.Empleados)
	if totalEmpleados == 0 && req.TotalEmpleados != nil && *req.TotalEmpleados > 0 {
		totalEmpleados = *req.TotalEmpleados
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		pedido = model.Pedido{
			NumeroPedido:     fmt.Sprintf("PED-%d-%06d", time.Now().Year(), num),
			EmpresaID:        empresaID,
			SedeID:           sedeID,
			VendedorID:       vendedorID,
			ClienteUsuarioID: clienteID,
			Estado:           model.PedidoEsperaCotizacion,
			TotalEmpleados:   totalEmpleados,
			Observaciones:    req.Observaciones,
			CondicionesPago:  req.CondicionesPago,
			FechaVencimiento: fechaVencimiento,
		}
		for _, l := range lineas {
			pedido.Examenes = append(pedido.Examenes, model.PedidoExamen{
				ExamenID:   l.examenID,
				Cantidad:   l.cantidad,
				PrecioBase: l.precio,
			})
		}
		if err := s.repo.Create(ctx, tx, &pedido); err != nil {
			return err
		}

		for _, emp := range req.Empleados {
			paciente := model.PedidoPaciente{
				PedidoID:       pedido.ID,
				DNI:            emp.DNI,
				NombreCompleto: emp.NombreCompleto,
				Cargo:          emp.Cargo,
				Area:           emp.Area,
			}
			if err := s.pacientes.Create(ctx, tx, &paciente); err != nil {
				return err
			}
			// Only exams actually on the order can be assigned.
			var asignar []uuid.UUID
			for _, raw := range emp.Examenes {
				if eid, err := uuid.Parse(raw); err == nil && examenIDs[eid] {
					asignar = append(asignar, eid)
				}
			}
			if err := s.pacientes.AsignarExamenesTx(ctx, tx, paciente.ID, asignar); err != nil {
				return err
			}
		}

		actorID := actor.ID
		nombre := actor.Nombre
		return s.repo.AppendHistorialTx(ctx, tx, &model.HistorialPedido{
			PedidoID:      pedido.ID,
			TipoEvento:    "CREACION",
			Descripcion:   fmt.Sprintf("Pedido %s creado", pedido.NumeroPedido),
			UsuarioID:     &actorID,
			UsuarioNombre: &nombre,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	creado, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return pedidoToResponse(&pedido, nil), nil
	}
	return pedidoToResponse(creado, nil), nil
}

// ── Listados ──────────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, actor dto.Actor, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	// Un cliente solo puede filtrar por su propio usuario.
	if filter.UserID != "" && actor.Rol == model.RolCliente && filter.UserID != actor.ID.String() {
		return nil, ErrNoAutorizado
	}
	scope, err := s.scopePedidos(ctx, actor)
	if err != nil {
		return nil, err
	}

	pedidos, total, err := s.repo.List(ctx, filter, scope)
	if err != nil {
		return nil, err
	}
	return &dto.PedidoListResponse{
		Pedidos: s.conEstadosCotizacion(ctx, pedidos),
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}

func (s *pedidoService) ListarConCotizacionAprobada(ctx context.Context, actor dto.Actor, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	scope, err := s.scopePedidos(ctx, actor)
	if err != nil {
		return nil, err
	}

	pedidos, err := s.repo.ListConCotizacionAprobada(ctx, filter, scope)
	if err != nil {
		return nil, err
	}
	return &dto.PedidoListResponse{
		Pedidos: s.conEstadosCotizacion(ctx, pedidos),
		Total:   int64(len(pedidos)),
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}

func (s *pedidoService) conEstadosCotizacion(ctx context.Context, pedidos []model.Pedido) []dto.PedidoResponse {
	ids := make([]uuid.UUID, 0, len(pedidos))
	for i := range pedidos {
		ids = append(ids, pedidos[i].ID)
	}
	porPedido := map[uuid.UUID][]string{}
	if len(ids) > 0 {
		cotizaciones, _ := s.cotizaciones.ListByPedidos(ctx, ids)
		for _, c := range cotizaciones {
			porPedido[c.PedidoID] = append(porPedido[c.PedidoID], string(c.Estado))
		}
	}

	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *pedidoToResponse(&pedidos[i], porPedido[pedidos[i].ID]))
	}
	return out
}

// ── Detalle ───────────────────────────────────────────────────────────────────

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoDetalleResponse, error) {
	pedido, err := s.repo.FindDetalle(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}

	resp := dto.PedidoDetalleResponse{PedidoResponse: *pedidoToResponse(pedido, nil)}

	resp.Examenes = make([]dto.PedidoExamenResponse, 0, len(pedido.Examenes))
	for _, pe := range pedido.Examenes {
		nombre := ""
		if pe.Examen != nil {
			nombre = pe.Examen.Nombre
		}
		resp.Examenes = append(resp.Examenes, dto.PedidoExamenResponse{
			ExamenID:     pe.ExamenID.String(),
			ExamenNombre: nombre,
			Cantidad:     pe.Cantidad,
			PrecioBase:   pe.PrecioBase,
		})
	}

	cotizaciones, err := s.cotizaciones.ListByPedido(ctx, id)
	if err == nil {
		resp.Detalle = make([]dto.CotizacionResumen, 0, len(cotizaciones))
		estados := make([]string, 0, len(cotizaciones))
		for _, c := range cotizaciones {
			estados = append(estados, string(c.Estado))
			resp.Detalle = append(resp.Detalle, dto.CotizacionResumen{
				ID:               c.ID.String(),
				NumeroCotizacion: c.NumeroCotizacion,
				Estado:           string(c.Estado),
				EsComplementaria: c.EsComplementaria,
				Total:            c.Total,
				MensajeRechazo:   c.MensajeRechazo,
			})
		}
		resp.Cotizaciones = estados
	}

	if pedido.FacturaID != nil {
		if factura, err := s.facturas.FindByID(ctx, *pedido.FacturaID); err == nil {
			resp.Factura = facturaToResponse(factura)
		}
	}

	resp.Pacientes = make([]dto.PacienteResumen, 0, len(pedido.Pacientes))
	for _, p := range pedido.Pacientes {
		resp.Pacientes = append(resp.Pacientes, dto.PacienteResumen{
			ID:                  p.ID.String(),
			DNI:                 p.DNI,
			NombreCompleto:      p.NombreCompleto,
			Cargo:               p.Cargo,
			Area:                p.Area,
			TotalExamenes:       len(p.Asignados),
			ExamenesCompletados: len(p.Completados),
		})
	}

	if historial, err := s.Historial(ctx, id); err == nil {
		resp.Historial = historial
	}
	return &resp, nil
}

func (s *pedidoService) ObtenerEstado(ctx context.Context, id uuid.UUID) (string, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrPedidoNoEncontrado
	}
	return string(pedido.Estado), nil
}

// ── Seguimiento de exámenes por paciente ──────────────────────────────────────

func (s *pedidoService) PacientesExamenes(ctx context.Context, id uuid.UUID) (*dto.PacientesExamenesResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	pacientes, err := s.pacientes.ListByPedido(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.PacientesExamenesResponse{
		NumeroPedido: pedido.NumeroPedido,
		Pacientes:    make([]dto.PacienteExamenesDetalle, 0, len(pacientes)),
	}
	for _, p := range pacientes {
		completadoEn := make(map[uuid.UUID]time.Time, len(p.Completados))
		for _, c := range p.Completados {
			completadoEn[c.ExamenID] = c.FechaCompletado
		}

		det := dto.PacienteExamenesDetalle{
			ID:             p.ID.String(),
			DNI:            p.DNI,
			NombreCompleto: p.NombreCompleto,
			Cargo:          p.Cargo,
			Area:           p.Area,
			Examenes:       make([]dto.ExamenPacienteDetalle, 0, len(p.Asignados)),
			ExamenesTotal:  len(p.Asignados),
		}
		for _, a := range p.Asignados {
			nombre := fmt.Sprintf("Examen %s", a.ExamenID)
			if examen, err := s.examenes.FindByID(ctx, a.ExamenID); err == nil {
				nombre = examen.Nombre
			}
			ed := dto.ExamenPacienteDetalle{ExamenID: a.ExamenID.String(), Nombre: nombre}
			if fecha, ok := completadoEn[a.ExamenID]; ok {
				ed.Completado = true
				iso := fecha.Format(time.RFC3339)
				ed.FechaCompletado = &iso
				det.ExamenesCompletados++
			}
			det.Examenes = append(det.Examenes, ed)
		}

		resp.Resumen.TotalExamenesAsignados += det.ExamenesTotal
		resp.Resumen.TotalExamenesCompletados += det.ExamenesCompletados
		resp.Pacientes = append(resp.Pacientes, det)
	}
	resp.Resumen.TotalPacientes = len(resp.Pacientes)
	return &resp, nil
}

func (s *pedidoService) PacientesCompletados(ctx context.Context, id uuid.UUID) (*dto.PacientesCompletadosResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	pacientes, err := s.pacientes.ListByPedido(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.PacientesCompletadosResponse{
		NumeroPedido:         pedido.NumeroPedido,
		PacientesCompletados: []dto.PacienteCompletadoResponse{},
	}
	for _, p := range pacientes {
		// Complete means every assigned exam has a completion mark.
		if len(p.Asignados) == 0 || len(p.Completados) != len(p.Asignados) {
			continue
		}
		resp.PacientesCompletados = append(resp.PacientesCompletados, dto.PacienteCompletadoResponse{
			ID:                  p.ID.String(),
			DNI:                 p.DNI,
			NombreCompleto:      p.NombreCompleto,
			Cargo:               p.Cargo,
			Area:                p.Area,
			ExamenesAsignados:   len(p.Asignados),
			ExamenesCompletados: len(p.Completados),
		})
	}
	resp.Total = len(resp.PacientesCompletados)
	return &resp, nil
}

// ── Mutaciones de estado ──────────────────────────────────────────────────────

func (s *pedidoService) AgregarExamen(ctx context.Context, id uuid.UUID, req dto.AgregarExamenRequest) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrPedidoNoEncontrado
	}
	if pedido.Estado != model.PedidoPendiente && pedido.Estado != model.PedidoEsperaCotizacion {
		return reglaf("solo se pueden agregar exámenes a pedidos en espera de cotización")
	}

	examenID, err := uuid.Parse(req.ExamenID)
	if err != nil {
		return reglaf("examen_id inválido: %v", err)
	}
	cantidad := req.Cantidad
	if cantidad < 1 {
		cantidad = 1
	}
	precio, err := s.examenes.PrecioVigente(ctx, examenID, pedido.SedeID)
	if err != nil {
		precio = decimal.Zero
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpsertExamenTx(ctx, tx, &model.PedidoExamen{
			PedidoID:   id,
			ExamenID:   examenID,
			Cantidad:   cantidad,
			PrecioBase: precio,
		})
	})
}

func (s *pedidoService) MarcarListo(ctx context.Context, actor dto.Actor, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if pedido.Estado != model.PedidoPendiente && pedido.Estado != model.PedidoEsperaCotizacion {
		return nil, reglaf("solo pedidos a la espera de cotización pueden marcarse listos")
	}
	tiene, err := s.repo.HasExamenes(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tiene {
		return nil, reglaf("el pedido debe tener al menos un examen")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(ctx, tx, id, model.PedidoListoParaCotizacion); err != nil {
			return err
		}
		actorID := actor.ID
		return s.repo.AppendHistorialTx(ctx, tx, &model.HistorialPedido{
			PedidoID:    id,
			TipoEvento:  "CREACION",
			Descripcion: "Marcado listo para cotización",
			UsuarioID:   &actorID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	pedido.Estado = model.PedidoListoParaCotizacion
	return pedidoToResponse(pedido, nil), nil
}

// ActualizarEstado is the manual override: any valid state is accepted.
func (s *pedidoService) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error) {
	nuevo := model.EstadoPedido(estado)
	if !nuevo.Valido() {
		return nil, reglaf("estado debe ser uno de: %v", model.EstadosPedido())
	}
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if err := s.repo.UpdateEstado(ctx, id, nuevo); err != nil {
		return nil, err
	}
	pedido.Estado = nuevo
	return pedidoToResponse(pedido, nil), nil
}

func (s *pedidoService) MarcarCompletado(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if err := s.repo.UpdateEstado(ctx, id, model.PedidoCompletado); err != nil {
		return nil, err
	}
	pedido.Estado = model.PedidoCompletado
	return pedidoToResponse(pedido, nil), nil
}

// ── CargarEmpleados ───────────────────────────────────────────────────────────
// Bulk roster upload once the quotation is approved. Entries missing a DNI or
// name are skipped; an entry without an exam list gets every exam on the
// order; exam ids not on the order are silently dropped.

func (s *pedidoService) CargarEmpleados(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.CargarEmpleadosRequest) (int, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, ErrPedidoNoEncontrado
	}
	if pedido.Estado != model.PedidoCotizacionAprobada {
		return 0, reglaf("el pedido debe tener cotización aprobada para cargar empleados")
	}

	lineas, err := s.repo.Examenes(ctx, id)
	if err != nil {
		return 0, err
	}
	delPedido := make(map[uuid.UUID]bool, len(lineas))
	todos := make([]uuid.UUID, 0, len(lineas))
	for _, l := range lineas {
		delPedido[l.ExamenID] = true
		todos = append(todos, l.ExamenID)
	}

	agregados := 0
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, emp := range req.Empleados {
			if emp.DNI == "" || emp.NombreCompleto == "" {
				continue
			}
			paciente := model.PedidoPaciente{
				PedidoID:       id,
				DNI:            emp.DNI,
				NombreCompleto: emp.NombreCompleto,
				Cargo:          emp.Cargo,
				Area:           emp.Area,
			}
			if err := s.pacientes.UpsertTx(ctx, tx, &paciente); err != nil {
				return err
			}
			existente, err := s.pacientes.FindByPedidoDNITx(ctx, tx, id, emp.DNI)
			if err != nil {
				return err
			}

			asignar := todos
			if len(emp.Examenes) > 0 {
				asignar = nil
				for _, raw := range emp.Examenes {
					if eid, err := uuid.Parse(raw); err == nil && delPedido[eid] {
						asignar = append(asignar, eid)
					}
				}
			}
			if err := s.pacientes.AsignarExamenesTx(ctx, tx, existente.ID, asignar); err != nil {
				return err
			}
			agregados++
		}

		count, err := s.pacientes.CountByPedidoTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.repo.SetTotalEmpleadosTx(ctx, tx, id, int(count)); err != nil {
			return err
		}

		actorID := actor.ID
		atendidos := agregados
		return s.repo.AppendHistorialTx(ctx, tx, &model.HistorialPedido{
			PedidoID:    id,
			TipoEvento:  "CREACION",
			Descripcion: fmt.Sprintf("%d empleado(s) cargados", agregados),
			UsuarioID:   &actorID,
			Atendidos:   &atendidos,
		})
	})
	if txErr != nil {
		return 0, txErr
	}
	return agregados, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func (s *pedidoService) Cancelar(ctx context.Context, actor dto.Actor, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrPedidoNoEncontrado
	}
	if actor.Rol == model.RolCliente {
		ids, err := s.empresas.EmpresaIDsDeUsuario(ctx, actor.ID)
		if err != nil {
			return err
		}
		autorizado := false
		for _, eid := range ids {
			if eid == pedido.EmpresaID {
				autorizado = true
				break
			}
		}
		if !autorizado {
			return ErrNoAutorizado
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteCascadeTx(ctx, tx, id)
	})
}

func (s *pedidoService) Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialEventoResponse, error) {
	eventos, err := s.repo.ListHistorial(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialEventoResponse, 0, len(eventos))
	for _, e := range eventos {
		var cotizacionID *string
		if e.CotizacionID != nil {
			cid := e.CotizacionID.String()
			cotizacionID = &cid
		}
		out = append(out, dto.HistorialEventoResponse{
			ID:            e.ID.String(),
			CotizacionID:  cotizacionID,
			TipoEvento:    e.TipoEvento,
			Descripcion:   e.Descripcion,
			UsuarioNombre: e.UsuarioNombre,
			ValorAnterior: e.ValorAnterior,
			ValorNuevo:    e.ValorNuevo,
			Atendidos:     e.Atendidos,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ── Mapeo a DTOs ──────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido, estadosCotizacion []string) *dto.PedidoResponse {
	resp := dto.PedidoResponse{
		ID:              p.ID.String(),
		NumeroPedido:    p.NumeroPedido,
		EmpresaID:       p.EmpresaID.String(),
		SedeID:          p.SedeID.String(),
		Estado:          string(p.Estado),
		TotalEmpleados:  p.TotalEmpleados,
		Observaciones:   p.Observaciones,
		CondicionesPago: p.CondicionesPago,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		Cotizaciones:    estadosCotizacion,
	}
	if p.Empresa != nil {
		resp.EmpresaNombre = p.Empresa.RazonSocial
		resp.EmpresaRUC = p.Empresa.RUC
	}
	if p.Sede != nil {
		resp.SedeNombre = p.Sede.Nombre
	}
	if p.VendedorID != nil {
		vid := p.VendedorID.String()
		resp.VendedorID = &vid
	}
	if p.Vendedor != nil {
		resp.VendedorNombre = &p.Vendedor.NombreCompleto
	}
	if p.ClienteUsuarioID != nil {
		cid := p.ClienteUsuarioID.String()
		resp.ClienteUsuarioID = &cid
	}
	if p.CotizacionPrincipalID != nil {
		cpid := p.CotizacionPrincipalID.String()
		resp.CotizacionPrincipalID = &cpid
	}
	if p.FacturaID != nil {
		fid := p.FacturaID.String()
		resp.FacturaID = &fid
	}
	if p.FechaVencimiento != nil {
		fv := p.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &fv
	}
	return &resp
}
