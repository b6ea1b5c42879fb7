package repository

import (
	"context"

	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// MaxCodeWithPrefix devuelve el mayor código "PREFIX-NNN" existente o "" si no hay.
	MaxCodeWithPrefix(ctx context.Context, prefix string) (string, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Count cuenta los productos del filtro sin paginar.
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Delete(ctx context.Context, id string) error
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CompanyID string
	Status    entity.Status // vacío: todos
	Search    string        // coincidencia parcial en código o nombre
	Limit     int
	Offset    int
}
