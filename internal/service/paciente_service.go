package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
	"github.com/rsg28/TuSalud-Backend/internal/repository"
)

var ErrPacienteNoEncontrado = errors.New("paciente no encontrado")

type PacienteService interface {
	Listar(ctx context.Context, filter dto.PacienteFilter) (*dto.PacienteListResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error)
	Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error)
	MarcarExamen(ctx context.Context, id uuid.UUID, req dto.MarcarExamenRequest) (*dto.PacienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pacienteService struct {
	repo    repository.PacienteRepository
	pedidos repository.PedidoRepository
}

func NewPacienteService(repo repository.PacienteRepository, pedidos repository.PedidoRepository) PacienteService {
	return &pacienteService{repo: repo, pedidos: pedidos}
}

func (s *pacienteService) Listar(ctx context.Context, filter dto.PacienteFilter) (*dto.PacienteListResponse, error) {
	pacientes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PacienteResponse, 0, len(pacientes))
	for i := range pacientes {
		out = append(out, *pacienteToResponse(&pacientes[i]))
	}
	return &dto.PacienteListResponse{Pacientes: out}, nil
}

func (s *pacienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error) {
	paciente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPacienteNoEncontrado
	}
	return pacienteToResponse(paciente), nil
}

func (s *pacienteService) Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error) {
	pedidoID, err := uuid.Parse(req.PedidoID)
	if err != nil {
		return nil, reglaf("pedido_id inválido: %v", err)
	}
	if _, err := s.pedidos.FindByID(ctx, pedidoID); err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	examenIDs, err := parseExamenIDs(req.Examenes)
	if err != nil {
		return nil, err
	}

	paciente := model.PedidoPaciente{
		PedidoID:       pedidoID,
		DNI:            req.DNI,
		NombreCompleto: req.NombreCompleto,
		Cargo:          req.Cargo,
		Area:           req.Area,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &paciente); err != nil {
			return err
		}
		return s.repo.AsignarExamenesTx(ctx, tx, paciente.ID, examenIDs)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, reglaf("ya existe un paciente con ese DNI en este pedido")
		}
		return nil, txErr
	}
	return s.Obtener(ctx, paciente.ID)
}

func (s *pacienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrPacienteNoEncontrado
	}

	campos := map[string]interface{}{}
	if req.DNI != nil {
		campos["dni"] = *req.DNI
	}
	if req.NombreCompleto != nil {
		campos["nombre_completo"] = *req.NombreCompleto
	}
	if req.Cargo != nil {
		campos["cargo"] = *req.Cargo
	}
	if req.Area != nil {
		campos["area"] = *req.Area
	}
	if len(campos) > 0 {
		if err := s.repo.UpdateCampos(ctx, id, campos); err != nil {
			return nil, err
		}
	}

	if req.Examenes != nil {
		examenIDs, err := parseExamenIDs(req.Examenes)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceAsignados(ctx, id, examenIDs); err != nil {
			return nil, err
		}
	}
	return s.Obtener(ctx, id)
}

func (s *pacienteService) MarcarExamen(ctx context.Context, id uuid.UUID, req dto.MarcarExamenRequest) (*dto.PacienteResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrPacienteNoEncontrado
	}
	examenID, err := uuid.Parse(req.ExamenID)
	if err != nil {
		return nil, reglaf("examen_id inválido: %v", err)
	}

	completado := true
	if req.Completado != nil {
		completado = *req.Completado
	}
	if completado {
		err = s.repo.MarcarCompletado(ctx, id, examenID)
	} else {
		err = s.repo.DesmarcarCompletado(ctx, id, examenID)
	}
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

func (s *pacienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrPacienteNoEncontrado
	}
	return s.repo.Delete(ctx, id)
}

func parseExamenIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, reglaf("examen_id inválido: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pacienteToResponse(p *model.PedidoPaciente) *dto.PacienteResponse {
	asignados := make([]string, 0, len(p.Asignados))
	for _, a := range p.Asignados {
		asignados = append(asignados, a.ExamenID.String())
	}
	completados := make([]string, 0, len(p.Completados))
	for _, c := range p.Completados {
		completados = append(completados, c.ExamenID.String())
	}
	return &dto.PacienteResponse{
		ID:                  p.ID.String(),
		PedidoID:            p.PedidoID.String(),
		DNI:                 p.DNI,
		NombreCompleto:      p.NombreCompleto,
		Cargo:               p.Cargo,
		Area:                p.Area,
		ExamenesAsignados:   asignados,
		ExamenesCompletados: completados,
	}
}
