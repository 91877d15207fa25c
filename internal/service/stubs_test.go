package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
	"github.com/rsg28/TuSalud-Backend/internal/repository"
)

var errStubNotFound = errors.New("not found")

// ── stubPedidoRepo ────────────────────────────────────────────────────────────

// stubPedidoRepo is an in-memory PedidoRepository for testing. DB() returns
// nil so runTx executes the callback directly, outside any transaction.
type stubPedidoRepo struct {
	pedidos    map[uuid.UUID]*model.Pedido
	examenes   map[uuid.UUID][]model.PedidoExamen
	historial  []model.HistorialPedido
	numeroSeq  int
	eliminados []uuid.UUID
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos:  make(map[uuid.UUID]*model.Pedido),
		examenes: make(map[uuid.UUID][]model.PedidoExamen),
	}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Examenes {
		if p.Examenes[i].ID == uuid.Nil {
			p.Examenes[i].ID = uuid.New()
		}
		p.Examenes[i].PedidoID = p.ID
	}
	r.examenes[p.ID] = append(r.examenes[p.ID], p.Examenes...)
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errStubNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) FindDetalle(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(ctx, id)
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter, _ dto.PedidoScope) ([]model.Pedido, int64, error) {
	out := make([]model.Pedido, 0, len(r.pedidos))
	for _, p := range r.pedidos {
		if filter.Estado != "" && filter.Estado != "all" && string(p.Estado) != filter.Estado {
			continue
		}
		if filter.UserID != "" && (p.ClienteUsuarioID == nil || p.ClienteUsuarioID.String() != filter.UserID) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) ListConCotizacionAprobada(_ context.Context, _ dto.PedidoFilter, _ dto.PedidoScope) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Estado == model.PedidoCotizacionAprobada {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errStubNotFound
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(ctx context.Context, _ *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error {
	return r.UpdateEstado(ctx, id, estado)
}

func (r *stubPedidoRepo) SetCotizacionPrincipalTx(_ context.Context, _ *gorm.DB, id uuid.UUID, cotizacionID *uuid.UUID) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errStubNotFound
	}
	p.CotizacionPrincipalID = cotizacionID
	return nil
}

func (r *stubPedidoRepo) SetFacturaTx(_ context.Context, _ *gorm.DB, id uuid.UUID, facturaID *uuid.UUID) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errStubNotFound
	}
	p.FacturaID = facturaID
	return nil
}

func (r *stubPedidoRepo) SetTotalEmpleadosTx(_ context.Context, _ *gorm.DB, id uuid.UUID, total int) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errStubNotFound
	}
	p.TotalEmpleados = total
	return nil
}

func (r *stubPedidoRepo) UpsertExamenTx(_ context.Context, _ *gorm.DB, pe *model.PedidoExamen) error {
	lineas := r.examenes[pe.PedidoID]
	for i := range lineas {
		if lineas[i].ExamenID == pe.ExamenID {
			lineas[i].Cantidad += pe.Cantidad
			return nil
		}
	}
	pe.ID = uuid.New()
	r.examenes[pe.PedidoID] = append(lineas, *pe)
	return nil
}

func (r *stubPedidoRepo) Examenes(_ context.Context, pedidoID uuid.UUID) ([]model.PedidoExamen, error) {
	return r.examenes[pedidoID], nil
}

func (r *stubPedidoRepo) HasExamenes(_ context.Context, pedidoID uuid.UUID) (bool, error) {
	return len(r.examenes[pedidoID]) > 0, nil
}

func (r *stubPedidoRepo) AppendHistorialTx(_ context.Context, _ *gorm.DB, h *model.HistorialPedido) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubPedidoRepo) ListHistorial(_ context.Context, pedidoID uuid.UUID) ([]model.HistorialPedido, error) {
	var out []model.HistorialPedido
	for _, h := range r.historial {
		if h.PedidoID == pedidoID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) DeleteCascadeTx(_ context.Context, _ *gorm.DB, pedidoID uuid.UUID) error {
	if _, ok := r.pedidos[pedidoID]; !ok {
		return errStubNotFound
	}
	delete(r.pedidos, pedidoID)
	delete(r.examenes, pedidoID)
	r.eliminados = append(r.eliminados, pedidoID)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── stubCotizacionRepo ────────────────────────────────────────────────────────

type stubCotizacionRepo struct {
	cotizaciones map[uuid.UUID]*model.Cotizacion
	items        map[uuid.UUID][]model.CotizacionItem
	facturadas   map[uuid.UUID]bool
	numeroSeq    int
	eliminadas   []uuid.UUID
}

func newStubCotizacionRepo() *stubCotizacionRepo {
	return &stubCotizacionRepo{
		cotizaciones: make(map[uuid.UUID]*model.Cotizacion),
		items:        make(map[uuid.UUID][]model.CotizacionItem),
		facturadas:   make(map[uuid.UUID]bool),
	}
}

func (r *stubCotizacionRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cotizacion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Items {
		if c.Items[i].ID == uuid.Nil {
			c.Items[i].ID = uuid.New()
		}
		c.Items[i].CotizacionID = c.ID
	}
	r.items[c.ID] = c.Items
	r.cotizaciones[c.ID] = c
	return nil
}

func (r *stubCotizacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	c, ok := r.cotizaciones[id]
	if !ok {
		return nil, errStubNotFound
	}
	c.Items = r.items[id]
	return c, nil
}

func (r *stubCotizacionRepo) Items(_ context.Context, cotizacionID uuid.UUID) ([]model.CotizacionItem, error) {
	return r.items[cotizacionID], nil
}

func (r *stubCotizacionRepo) List(_ context.Context, _ dto.CotizacionFilter, _ dto.CotizacionScope) ([]model.Cotizacion, error) {
	out := make([]model.Cotizacion, 0, len(r.cotizaciones))
	for _, c := range r.cotizaciones {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCotizacionRepo) ListByPedido(_ context.Context, pedidoID uuid.UUID) ([]model.Cotizacion, error) {
	var out []model.Cotizacion
	for _, c := range r.cotizaciones {
		if c.PedidoID == pedidoID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCotizacionRepo) ListByPedidos(_ context.Context, pedidoIDs []uuid.UUID) ([]model.Cotizacion, error) {
	var out []model.Cotizacion
	for _, id := range pedidoIDs {
		for _, c := range r.cotizaciones {
			if c.PedidoID == id {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (r *stubCotizacionRepo) ListEnviadasAlManager(_ context.Context) ([]model.Cotizacion, error) {
	var out []model.Cotizacion
	for _, c := range r.cotizaciones {
		if c.Estado == model.CotizacionEnviadaAlManager || c.Estado == model.CotizacionAprobadaPorManager {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCotizacionRepo) ListParaFacturar(_ context.Context, _ *gorm.DB, pedidoID, principalID uuid.UUID) ([]model.Cotizacion, error) {
	var out []model.Cotizacion
	for _, c := range r.cotizaciones {
		if c.PedidoID != pedidoID || c.Estado != model.CotizacionAprobada || r.facturadas[c.ID] {
			continue
		}
		if c.ID != principalID && (c.CotizacionBaseID == nil || *c.CotizacionBaseID != principalID) {
			continue
		}
		copia := *c
		copia.Items = r.items[c.ID]
		out = append(out, copia)
	}
	return out, nil
}

func (r *stubCotizacionRepo) UpdateCamposTx(_ context.Context, _ *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	c, ok := r.cotizaciones[id]
	if !ok {
		return errStubNotFound
	}
	for k, v := range campos {
		switch k {
		case "estado":
			c.Estado = v.(model.EstadoCotizacion)
		case "total":
			c.Total = v.(decimal.Decimal)
		case "fecha_envio":
			fe := v.(time.Time)
			c.FechaEnvio = &fe
		case "fecha_aprobacion":
			fa := v.(time.Time)
			c.FechaAprobacion = &fa
		case "mensaje_rechazo":
			mr := v.(string)
			c.MensajeRechazo = &mr
		case "solicitud_manager_pendiente":
			c.SolicitudManagerPendiente = v.(bool)
		}
	}
	return nil
}

func (r *stubCotizacionRepo) ReplaceItemsTx(_ context.Context, _ *gorm.DB, cotizacionID uuid.UUID, items []model.CotizacionItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	r.items[cotizacionID] = items
	return nil
}

func (r *stubCotizacionRepo) DeleteCascadeTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.cotizaciones[id]; !ok {
		return errStubNotFound
	}
	delete(r.cotizaciones, id)
	delete(r.items, id)
	r.eliminadas = append(r.eliminadas, id)
	return nil
}

func (r *stubCotizacionRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubCotizacionRepo) DB() *gorm.DB { return nil }

var _ repository.CotizacionRepository = (*stubCotizacionRepo)(nil)

// ── stubFacturaRepo ───────────────────────────────────────────────────────────

type stubFacturaRepo struct {
	facturas   map[uuid.UUID]*model.Factura
	vinculos   []model.FacturaCotizacion
	detalles   []model.FacturaDetalle
	numeroSeq  int
	eliminadas []uuid.UUID
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{facturas: make(map[uuid.UUID]*model.Factura)}
}

func (r *stubFacturaRepo) Create(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.facturas[f.ID] = f
	return nil
}

func (r *stubFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, errStubNotFound
	}
	f.Cotizaciones = nil
	f.Detalles = nil
	for _, fc := range r.vinculos {
		if fc.FacturaID == id {
			f.Cotizaciones = append(f.Cotizaciones, fc)
		}
	}
	for _, fd := range r.detalles {
		if fd.FacturaID == id {
			f.Detalles = append(f.Detalles, fd)
		}
	}
	return f, nil
}

func (r *stubFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if filter.PedidoID != "" && f.PedidoID.String() != filter.PedidoID {
			continue
		}
		if filter.Estado != "" && string(f.Estado) != filter.Estado {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *stubFacturaRepo) AddCotizacionTx(_ context.Context, _ *gorm.DB, fc *model.FacturaCotizacion) error {
	if fc.ID == uuid.Nil {
		fc.ID = uuid.New()
	}
	r.vinculos = append(r.vinculos, *fc)
	return nil
}

func (r *stubFacturaRepo) AddDetalleTx(_ context.Context, _ *gorm.DB, fd *model.FacturaDetalle) error {
	if fd.ID == uuid.Nil {
		fd.ID = uuid.New()
	}
	r.detalles = append(r.detalles, *fd)
	return nil
}

func (r *stubFacturaRepo) UpdateCampos(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	f, ok := r.facturas[id]
	if !ok {
		return errStubNotFound
	}
	for k, v := range campos {
		switch k {
		case "estado":
			f.Estado = v.(model.EstadoFactura)
		case "fecha_pago":
			fp := v.(time.Time)
			f.FechaPago = &fp
		}
	}
	return nil
}

func (r *stubFacturaRepo) DeleteCascadeTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.facturas[id]; !ok {
		return errStubNotFound
	}
	delete(r.facturas, id)
	r.eliminadas = append(r.eliminadas, id)
	return nil
}

func (r *stubFacturaRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// ── stubPacienteRepo ──────────────────────────────────────────────────────────

type stubPacienteRepo struct {
	pacientes   map[uuid.UUID]*model.PedidoPaciente
	porDNI      map[string]uuid.UUID
	asignados   map[uuid.UUID][]model.PacienteExamenAsignado
	completados map[uuid.UUID][]model.PacienteExamenCompletado
}

func newStubPacienteRepo() *stubPacienteRepo {
	return &stubPacienteRepo{
		pacientes:   make(map[uuid.UUID]*model.PedidoPaciente),
		porDNI:      make(map[string]uuid.UUID),
		asignados:   make(map[uuid.UUID][]model.PacienteExamenAsignado),
		completados: make(map[uuid.UUID][]model.PacienteExamenCompletado),
	}
}

func dniKey(pedidoID uuid.UUID, dni string) string {
	return pedidoID.String() + "/" + dni
}

func (r *stubPacienteRepo) Create(_ context.Context, _ *gorm.DB, p *model.PedidoPaciente) error {
	if _, ok := r.porDNI[dniKey(p.PedidoID, p.DNI)]; ok {
		return gorm.ErrDuplicatedKey
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pacientes[p.ID] = p
	r.porDNI[dniKey(p.PedidoID, p.DNI)] = p.ID
	return nil
}

func (r *stubPacienteRepo) UpsertTx(ctx context.Context, tx *gorm.DB, p *model.PedidoPaciente) error {
	if id, ok := r.porDNI[dniKey(p.PedidoID, p.DNI)]; ok {
		existente := r.pacientes[id]
		existente.NombreCompleto = p.NombreCompleto
		existente.Cargo = p.Cargo
		existente.Area = p.Area
		p.ID = id
		return nil
	}
	return r.Create(ctx, tx, p)
}

func (r *stubPacienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PedidoPaciente, error) {
	p, ok := r.pacientes[id]
	if !ok {
		return nil, errStubNotFound
	}
	copia := *p
	copia.Asignados = r.asignados[id]
	copia.Completados = r.completados[id]
	return &copia, nil
}

func (r *stubPacienteRepo) FindByPedidoDNITx(ctx context.Context, _ *gorm.DB, pedidoID uuid.UUID, dni string) (*model.PedidoPaciente, error) {
	id, ok := r.porDNI[dniKey(pedidoID, dni)]
	if !ok {
		return nil, errStubNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *stubPacienteRepo) List(ctx context.Context, filter dto.PacienteFilter) ([]model.PedidoPaciente, error) {
	var out []model.PedidoPaciente
	for id, p := range r.pacientes {
		if filter.PedidoID != "" && p.PedidoID.String() != filter.PedidoID {
			continue
		}
		copia, _ := r.FindByID(ctx, id)
		out = append(out, *copia)
	}
	return out, nil
}

func (r *stubPacienteRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoPaciente, error) {
	return r.List(ctx, dto.PacienteFilter{PedidoID: pedidoID.String()})
}

func (r *stubPacienteRepo) UpdateCampos(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	p, ok := r.pacientes[id]
	if !ok {
		return errStubNotFound
	}
	for k, v := range campos {
		switch k {
		case "dni":
			delete(r.porDNI, dniKey(p.PedidoID, p.DNI))
			p.DNI = v.(string)
			r.porDNI[dniKey(p.PedidoID, p.DNI)] = id
		case "nombre_completo":
			p.NombreCompleto = v.(string)
		case "cargo":
			c := v.(string)
			p.Cargo = &c
		case "area":
			a := v.(string)
			p.Area = &a
		}
	}
	return nil
}

func (r *stubPacienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	p, ok := r.pacientes[id]
	if !ok {
		return errStubNotFound
	}
	delete(r.porDNI, dniKey(p.PedidoID, p.DNI))
	delete(r.pacientes, id)
	delete(r.asignados, id)
	delete(r.completados, id)
	return nil
}

func (r *stubPacienteRepo) AsignarExamenesTx(_ context.Context, _ *gorm.DB, pacienteID uuid.UUID, examenIDs []uuid.UUID) error {
	existentes := make(map[uuid.UUID]bool)
	for _, a := range r.asignados[pacienteID] {
		existentes[a.ExamenID] = true
	}
	for _, eid := range examenIDs {
		if existentes[eid] {
			continue
		}
		r.asignados[pacienteID] = append(r.asignados[pacienteID], model.PacienteExamenAsignado{
			ID: uuid.New(), PacienteID: pacienteID, ExamenID: eid,
		})
		existentes[eid] = true
	}
	return nil
}

func (r *stubPacienteRepo) ReplaceAsignados(ctx context.Context, pacienteID uuid.UUID, examenIDs []uuid.UUID) error {
	r.asignados[pacienteID] = nil
	return r.AsignarExamenesTx(ctx, nil, pacienteID, examenIDs)
}

func (r *stubPacienteRepo) MarcarCompletado(_ context.Context, pacienteID, examenID uuid.UUID) error {
	for _, c := range r.completados[pacienteID] {
		if c.ExamenID == examenID {
			return nil
		}
	}
	r.completados[pacienteID] = append(r.completados[pacienteID], model.PacienteExamenCompletado{
		ID: uuid.New(), PacienteID: pacienteID, ExamenID: examenID, FechaCompletado: time.Now(),
	})
	return nil
}

func (r *stubPacienteRepo) DesmarcarCompletado(_ context.Context, pacienteID, examenID uuid.UUID) error {
	marcas := r.completados[pacienteID]
	for i, c := range marcas {
		if c.ExamenID == examenID {
			r.completados[pacienteID] = append(marcas[:i], marcas[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubPacienteRepo) CountByPedidoTx(_ context.Context, _ *gorm.DB, pedidoID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.pacientes {
		if p.PedidoID == pedidoID {
			count++
		}
	}
	return count, nil
}

func (r *stubPacienteRepo) DB() *gorm.DB { return nil }

var _ repository.PacienteRepository = (*stubPacienteRepo)(nil)

// ── stubEmpresaRepo ───────────────────────────────────────────────────────────

type stubEmpresaRepo struct {
	empresas   map[uuid.UUID]*model.Empresa
	vinculos   map[uuid.UUID][]uuid.UUID // usuario -> empresas
	conPedidos map[uuid.UUID]bool
}

func newStubEmpresaRepo() *stubEmpresaRepo {
	return &stubEmpresaRepo{
		empresas:   make(map[uuid.UUID]*model.Empresa),
		vinculos:   make(map[uuid.UUID][]uuid.UUID),
		conPedidos: make(map[uuid.UUID]bool),
	}
}

func (r *stubEmpresaRepo) Create(_ context.Context, e *model.Empresa) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empresas[e.ID] = e
	return nil
}

func (r *stubEmpresaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	e, ok := r.empresas[id]
	if !ok {
		return nil, errStubNotFound
	}
	return e, nil
}

func (r *stubEmpresaRepo) List(_ context.Context, _ dto.EmpresaFilter) ([]model.Empresa, error) {
	out := make([]model.Empresa, 0, len(r.empresas))
	for _, e := range r.empresas {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEmpresaRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.Empresa, error) {
	var out []model.Empresa
	for _, eid := range r.vinculos[usuarioID] {
		if e, ok := r.empresas[eid]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubEmpresaRepo) EmpresaIDsDeUsuario(_ context.Context, usuarioID uuid.UUID) ([]uuid.UUID, error) {
	return r.vinculos[usuarioID], nil
}

func (r *stubEmpresaRepo) ExistsRazonSocial(_ context.Context, razonSocial string) (bool, error) {
	for _, e := range r.empresas {
		if strings.EqualFold(e.RazonSocial, razonSocial) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmpresaRepo) ExistsRUC(_ context.Context, ruc string, excludeID *uuid.UUID) (bool, error) {
	for _, e := range r.empresas {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.RUC != nil && *e.RUC == ruc {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmpresaRepo) HasPedidos(_ context.Context, empresaID uuid.UUID) (bool, error) {
	return r.conPedidos[empresaID], nil
}

func (r *stubEmpresaRepo) UpdateCampos(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	e, ok := r.empresas[id]
	if !ok {
		return errStubNotFound
	}
	for k, v := range campos {
		switch k {
		case "razon_social":
			e.RazonSocial = v.(string)
		case "ruc":
			ruc := v.(string)
			e.RUC = &ruc
		case "contacto":
			c := v.(string)
			e.Contacto = &c
		case "email":
			em := v.(string)
			e.Email = &em
		case "telefono":
			t := v.(string)
			e.Telefono = &t
		case "direccion":
			d := v.(string)
			e.Direccion = &d
		case "activa":
			e.Activa = v.(bool)
		}
	}
	return nil
}

func (r *stubEmpresaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.empresas[id]; !ok {
		return errStubNotFound
	}
	delete(r.empresas, id)
	return nil
}

func (r *stubEmpresaRepo) VincularUsuario(_ context.Context, usuarioID, empresaID uuid.UUID, _ bool) error {
	r.vinculos[usuarioID] = append(r.vinculos[usuarioID], empresaID)
	return nil
}

func (r *stubEmpresaRepo) DB() *gorm.DB { return nil }

var _ repository.EmpresaRepository = (*stubEmpresaRepo)(nil)

// ── stubSedeRepo ──────────────────────────────────────────────────────────────

type stubSedeRepo struct {
	sedes map[uuid.UUID]*model.Sede
}

func newStubSedeRepo() *stubSedeRepo {
	return &stubSedeRepo{sedes: make(map[uuid.UUID]*model.Sede)}
}

func (r *stubSedeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sede, error) {
	s, ok := r.sedes[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSedeRepo) ListActivas(_ context.Context) ([]model.Sede, error) {
	var out []model.Sede
	for _, s := range r.sedes {
		if s.Activa {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.SedeRepository = (*stubSedeRepo)(nil)

// ── stubExamenRepo ────────────────────────────────────────────────────────────

type stubExamenRepo struct {
	examenes map[uuid.UUID]*model.Examen
	precios  map[uuid.UUID]decimal.Decimal
}

func newStubExamenRepo() *stubExamenRepo {
	return &stubExamenRepo{
		examenes: make(map[uuid.UUID]*model.Examen),
		precios:  make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubExamenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Examen, error) {
	e, ok := r.examenes[id]
	if !ok {
		return nil, errStubNotFound
	}
	return e, nil
}

func (r *stubExamenRepo) PrecioVigente(_ context.Context, examenID, _ uuid.UUID) (decimal.Decimal, error) {
	precio, ok := r.precios[examenID]
	if !ok {
		return decimal.Zero, errStubNotFound
	}
	return precio, nil
}

func (r *stubExamenRepo) Matriz(_ context.Context, _ uuid.UUID) ([]repository.ArticuloPrecioRow, error) {
	return nil, nil
}

func (r *stubExamenRepo) Buscar(_ context.Context, _ uuid.UUID, _ string, _ int) ([]repository.ArticuloPrecioRow, error) {
	return nil, nil
}

func (r *stubExamenRepo) DB() *gorm.DB { return nil }

var _ repository.ExamenRepository = (*stubExamenRepo)(nil)

// ── stubUsuarioRepo ───────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existente := range r.usuarios {
		if existente.Username == u.Username || strings.EqualFold(existente.Email, u.Email) {
			return errors.New("duplicate key")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Activo && (u.Username == username || strings.EqualFold(u.Email, username)) {
			return u, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errStubNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return errStubNotFound
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errStubNotFound
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errStubNotFound
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Fixture helpers ───────────────────────────────────────────────────────────

// repos bundles the full in-memory repository set a service test wires up.
type repos struct {
	pedidos      *stubPedidoRepo
	cotizaciones *stubCotizacionRepo
	facturas     *stubFacturaRepo
	pacientes    *stubPacienteRepo
	empresas     *stubEmpresaRepo
	sedes        *stubSedeRepo
	examenes     *stubExamenRepo
}

func newRepos() *repos {
	return &repos{
		pedidos:      newStubPedidoRepo(),
		cotizaciones: newStubCotizacionRepo(),
		facturas:     newStubFacturaRepo(),
		pacientes:    newStubPacienteRepo(),
		empresas:     newStubEmpresaRepo(),
		sedes:        newStubSedeRepo(),
		examenes:     newStubExamenRepo(),
	}
}

func (r *repos) pedidoService() PedidoService {
	return NewPedidoService(r.pedidos, r.cotizaciones, r.facturas, r.pacientes, r.empresas, r.sedes, r.examenes)
}

func (r *repos) cotizacionService() CotizacionService {
	return NewCotizacionService(r.cotizaciones, r.pedidos, r.empresas, nil)
}

func (r *repos) facturaService() FacturaService {
	return NewFacturaService(r.facturas, r.pedidos, r.cotizaciones)
}

func (r *repos) pacienteService() PacienteService {
	return NewPacienteService(r.pacientes, r.pedidos)
}

func (r *repos) seedEmpresa(razonSocial string) *model.Empresa {
	e := &model.Empresa{ID: uuid.New(), RazonSocial: razonSocial, Activa: true}
	r.empresas.empresas[e.ID] = e
	return e
}

func (r *repos) seedSede(nombre string) *model.Sede {
	s := &model.Sede{ID: uuid.New(), Nombre: nombre, Activa: true}
	r.sedes.sedes[s.ID] = s
	return s
}

func (r *repos) seedExamen(nombre string, precio decimal.Decimal) *model.Examen {
	e := &model.Examen{ID: uuid.New(), Nombre: nombre, Categoria: "LABORATORIO", Activo: true}
	r.examenes.examenes[e.ID] = e
	r.examenes.precios[e.ID] = precio
	return e
}

func (r *repos) seedPedido(empresaID, sedeID uuid.UUID, estado model.EstadoPedido) *model.Pedido {
	r.pedidos.numeroSeq++
	p := &model.Pedido{
		ID:           uuid.New(),
		NumeroPedido: "PED-TEST-" + uuid.NewString()[:8],
		EmpresaID:    empresaID,
		SedeID:       sedeID,
		Estado:       estado,
	}
	r.pedidos.pedidos[p.ID] = p
	return p
}

func (r *repos) seedCotizacion(pedidoID uuid.UUID, estado model.EstadoCotizacion, total decimal.Decimal, complementaria bool, baseID *uuid.UUID) *model.Cotizacion {
	r.cotizaciones.numeroSeq++
	c := &model.Cotizacion{
		ID:               uuid.New(),
		NumeroCotizacion: "COT-TEST-" + uuid.NewString()[:8],
		PedidoID:         pedidoID,
		CotizacionBaseID: baseID,
		EsComplementaria: complementaria,
		Estado:           estado,
		CreadorTipo:      model.CreadorVendedor,
		Total:            total,
	}
	r.cotizaciones.cotizaciones[c.ID] = c
	return c
}

func vendedorActor() dto.Actor {
	return dto.Actor{ID: uuid.New(), Rol: model.RolVendedor, Nombre: "Vendedor Test"}
}

func managerActor() dto.Actor {
	return dto.Actor{ID: uuid.New(), Rol: model.RolManager, Nombre: "Manager Test"}
}

func clienteActor() dto.Actor {
	return dto.Actor{ID: uuid.New(), Rol: model.RolCliente, Nombre: "Cliente Test"}
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
