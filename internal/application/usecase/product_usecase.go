package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
	"github.com/jhoicas/litethinking-inventario/internal/domain/validation"
)

// LedgerProvisioner crea el libro de existencias de un producto recién creado,
// dentro de la transacción del catálogo. Lo implementa inventory.LedgerUseCase.
type LedgerProvisioner interface {
	ProvisionInTx(ctx context.Context, ledgerRepo repository.StockLedgerRepository, productID, location string) (*inv.Ledger, error)
}

// ProductUseCase casos de uso del catálogo. El stock no se toca aquí: se maneja vía movimientos.
type ProductUseCase struct {
	txRunner    inventory.TxRunner
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
	provisioner LedgerProvisioner
	rates       ExchangeRates
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	provisioner LedgerProvisioner,
	rates ExchangeRates,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:    txRunner,
		repo:        repo,
		companyRepo: companyRepo,
		provisioner: provisioner,
		rates:       rates,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto y su libro de existencias (cantidad 0) en una sola
// transacción. Si Code llega vacío se genera XX-NNN con las dos primeras letras del nombre.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Text("nombre", in.Name, 1, validation.MaxProductNameLen); err != nil {
		return nil, err
	}
	if err := validation.Text("descripcion", in.Description, 1, 0); err != nil {
		return nil, err
	}
	if err := validation.Price(in.PriceUSD); err != nil {
		return nil, err
	}
	if in.MinimumStock < 0 {
		return nil, domain.NewValidationError("stock_minimo", "no puede ser negativo")
	}
	if err := validation.Location(in.Location); err != nil {
		return nil, err
	}
	productType := in.Type
	if productType == "" {
		productType = entity.ProductTypePhysical
	}
	if !entity.IsValidProductType(productType) {
		return nil, domain.NewValidationError("tipo", fmt.Sprintf("tipo de producto desconocido %q", productType))
	}

	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if !company.Status.IsActive() {
		return nil, fmt.Errorf("empresa %s: %w", company.NIT, domain.ErrInactive)
	}

	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Code:         entity.NormalizeProductCode(in.Code),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		PriceUSD:     in.PriceUSD,
		Type:         productType,
		Status:       entity.StatusActive,
		MinimumStock: in.MinimumStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if product.Code == "" {
			prefix := entity.ProductCodePrefix(product.Name)
			last, err := productRepo.MaxCodeWithPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			product.Code = entity.NextProductCode(prefix, last)
		}
		if err := validation.ProductCode(product.Code); err != nil {
			return err
		}
		existing, err := productRepo.GetByCode(ctx, product.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("código %s: %w", product.Code, domain.ErrDuplicate)
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		_, err = uc.provisioner.ProvisionInTx(ctx, ledgerRepo, product.ID, in.Location)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos editables del producto (el código no cambia).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := validation.Text("nombre", *in.Name, 1, validation.MaxProductNameLen); err != nil {
			return nil, err
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		if err := validation.Text("descripcion", *in.Description, 1, 0); err != nil {
			return nil, err
		}
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.PriceUSD != nil {
		if err := validation.Price(*in.PriceUSD); err != nil {
			return nil, err
		}
		product.PriceUSD = *in.PriceUSD
	}
	if in.Type != nil {
		if !entity.IsValidProductType(*in.Type) {
			return nil, domain.NewValidationError("tipo", fmt.Sprintf("tipo de producto desconocido %q", *in.Type))
		}
		product.Type = *in.Type
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, domain.NewValidationError("stock_minimo", "no puede ser negativo")
		}
		product.MinimumStock = *in.MinimumStock
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		CompanyID: in.CompanyID,
		Search:    in.Search,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Status != "" {
		status, err := entity.ParseStatus(in.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
		filter.Status = status
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Activate vuelve a habilitar un producto dado de baja.
func (uc *ProductUseCase) Activate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return uc.setStatus(ctx, id, (*entity.Product).Activate)
}

// Deactivate da de baja lógica al producto; su historial se conserva.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return uc.setStatus(ctx, id, (*entity.Product).Deactivate)
}

func (uc *ProductUseCase) setStatus(ctx context.Context, id string, apply func(*entity.Product, time.Time)) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(product, uc.now())
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto y su libro. Se rechaza si queda existencia
// (ErrStockNotEmpty) o si el libro ya tiene movimientos (ErrConflict): en ese
// caso el producto debe desactivarse.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		ledger, err := ledgerRepo.GetByProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ledger != nil {
			if ledger.Quantity() > 0 {
				return fmt.Errorf("%w: %s tiene %d unidades", domain.ErrStockNotEmpty, product.Code, ledger.Quantity())
			}
			n, err := movRepo.CountByLedger(ctx, ledger.ID())
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%s tiene %d movimientos registrados, desactívelo en su lugar: %w", product.Code, n, domain.ErrConflict)
			}
			if err := ledgerRepo.Delete(ctx, ledger.ID()); err != nil {
				return err
			}
		}
		return productRepo.Delete(ctx, id)
	})
}

// Prices devuelve el precio del producto en USD, COP y EUR con formato local.
func (uc *ProductUseCase) Prices(ctx context.Context, id string) (*dto.ProductPricesResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	prices, err := uc.rates.Convert(product)
	if err != nil {
		return nil, err
	}
	return &dto.ProductPricesResponse{ProductID: product.ID, Code: product.Code, Prices: prices}, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		PriceUSD:     p.PriceUSD,
		Type:         p.Type,
		Status:       string(p.Status),
		MinimumStock: p.MinimumStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
