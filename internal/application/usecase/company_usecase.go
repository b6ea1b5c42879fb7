package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
	"github.com/jhoicas/litethinking-inventario/internal/domain/validation"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el NIT ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := validation.NIT(in.NIT); err != nil {
		return nil, err
	}
	if err := validation.Text("nombre", in.Name, 1, 200); err != nil {
		return nil, err
	}
	if err := validation.Phone(in.Phone); err != nil {
		return nil, err
	}
	if err := validation.Email(in.Email); err != nil {
		return nil, err
	}
	nit := validation.NormalizeNIT(in.NIT)
	existing, err := uc.repo.GetByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("NIT %s: %w", nit, domain.ErrDuplicate)
	}
	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		NIT:       nit,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Activate reactiva una empresa.
func (uc *CompanyUseCase) Activate(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	return uc.setStatus(ctx, id, (*entity.Company).Activate)
}

// Deactivate da de baja lógica a una empresa: no admite productos nuevos.
func (uc *CompanyUseCase) Deactivate(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	return uc.setStatus(ctx, id, (*entity.Company).Deactivate)
}

func (uc *CompanyUseCase) setStatus(ctx context.Context, id string, apply func(*entity.Company, time.Time)) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(company, uc.now())
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func (uc *CompanyUseCase) get(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
