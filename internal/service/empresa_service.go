package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
	"github.com/rsg28/TuSalud-Backend/internal/repository"
)

var ErrEmpresaNoEncontrada = errors.New("empresa no encontrada")

type EmpresaService interface {
	Listar(ctx context.Context, filter dto.EmpresaFilter) ([]dto.EmpresaResponse, error)
	Mias(ctx context.Context, usuarioID uuid.UUID) ([]dto.EmpresaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error)
	Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type empresaService struct {
	repo repository.EmpresaRepository
}

func NewEmpresaService(repo repository.EmpresaRepository) EmpresaService {
	return &empresaService{repo: repo}
}

func (s *empresaService) Listar(ctx context.Context, filter dto.EmpresaFilter) ([]dto.EmpresaResponse, error) {
	empresas, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return empresasToResponse(empresas), nil
}

// Mias lists the companies linked to the authenticated client user.
func (s *empresaService) Mias(ctx context.Context, usuarioID uuid.UUID) ([]dto.EmpresaResponse, error) {
	empresas, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return empresasToResponse(empresas), nil
}

func (s *empresaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error) {
	empresa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEmpresaNoEncontrada
	}
	return empresaToResponse(empresa), nil
}

func (s *empresaService) Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error) {
	existe, err := s.repo.ExistsRazonSocial(ctx, req.RazonSocial)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, reglaf("ya existe una empresa con esa razón social")
	}
	if req.RUC != nil {
		dup, err := s.repo.ExistsRUC(ctx, *req.RUC, nil)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, reglaf("el RUC ya está registrado")
		}
	}

	empresa := model.Empresa{
		RazonSocial: req.RazonSocial,
		RUC:         req.RUC,
		Contacto:    req.Contacto,
		Email:       req.Email,
		Telefono:    req.Telefono,
		Direccion:   req.Direccion,
		Activa:      true,
	}
	if err := s.repo.Create(ctx, &empresa); err != nil {
		return nil, err
	}
	return empresaToResponse(&empresa), nil
}

func (s *empresaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrEmpresaNoEncontrada
	}
	if req.RUC != nil {
		dup, err := s.repo.ExistsRUC(ctx, *req.RUC, &id)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, reglaf("el RUC ya está registrado en otra empresa")
		}
	}

	campos := map[string]interface{}{}
	if req.RazonSocial != nil {
		campos["razon_social"] = *req.RazonSocial
	}
	if req.RUC != nil {
		campos["ruc"] = *req.RUC
	}
	if req.Contacto != nil {
		campos["contacto"] = *req.Contacto
	}
	if req.Email != nil {
		campos["email"] = *req.Email
	}
	if req.Telefono != nil {
		campos["telefono"] = *req.Telefono
	}
	if req.Direccion != nil {
		campos["direccion"] = *req.Direccion
	}
	if req.Activa != nil {
		campos["activa"] = *req.Activa
	}
	if len(campos) > 0 {
		if err := s.repo.UpdateCampos(ctx, id, campos); err != nil {
			return nil, err
		}
	}

	empresa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return empresaToResponse(empresa), nil
}

func (s *empresaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrEmpresaNoEncontrada
	}
	tiene, err := s.repo.HasPedidos(ctx, id)
	if err != nil {
		return err
	}
	if tiene {
		return reglaf("no se puede eliminar la empresa porque tiene pedidos asociados")
	}
	return s.repo.Delete(ctx, id)
}

func empresaToResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:          e.ID.String(),
		RazonSocial: e.RazonSocial,
		RUC:         e.RUC,
		Contacto:    e.Contacto,
		Email:       e.Email,
		Telefono:    e.Telefono,
		Direccion:   e.Direccion,
		Activa:      e.Activa,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func empresasToResponse(empresas []model.Empresa) []dto.EmpresaResponse {
	out := make([]dto.EmpresaResponse, 0, len(empresas))
	for i := range empresas {
		out = append(out, *empresaToResponse(&empresas[i]))
	}
	return out
}
