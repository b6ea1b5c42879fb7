package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s session
}

// Create inserta un producto; el código es único.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[p.CompanyID]; !ok {
			return fmt.Errorf("insert product: empresa %s: %w", p.CompanyID, domain.ErrNotFound)
		}
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

// GetByID obtiene un producto; nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetByCode obtiene un producto por código; nil si no existe.
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// MaxCodeWithPrefix mayor código con el prefijo dado según su número.
func (r *ProductRepo) MaxCodeWithPrefix(_ context.Context, prefix string) (string, error) {
	var (
		best    string
		bestNum = -1
	)
	err := r.s.read(func(st *state) error {
		for _, p := range st.products {
			num, ok := strings.CutPrefix(p.Code, prefix+"-")
			if !ok {
				continue
			}
			n := 0
			valid := num != ""
			for _, c := range num {
				if c < '0' || c > '9' {
					valid = false
					break
				}
				n = n*10 + int(c-'0')
			}
			if valid && n > bestNum {
				best, bestNum = p.Code, n
			}
		}
		return nil
	})
	return best, err
}

// Update reemplaza los datos editables del producto.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = p.Name
		cur.Description = p.Description
		cur.PriceUSD = p.PriceUSD
		cur.Type = p.Type
		cur.Status = p.Status
		cur.MinimumStock = p.MinimumStock
		cur.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = cur
		return nil
	})
}

// List filtra y pagina productos ordenados por código.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	out, err := r.filter(f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	out, err := r.filter(f)
	return len(out), err
}

func (r *ProductRepo) filter(f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.read(func(st *state) error {
		for _, p := range st.products {
			if f.CompanyID != "" && p.CompanyID != f.CompanyID {
				continue
			}
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Code), search) &&
				!strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// Delete elimina un producto sin libro de existencias.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, l := range st.ledgers {
			if l.productID == id {
				return fmt.Errorf("delete product: tiene inventario: %w", domain.ErrConflict)
			}
		}
		delete(st.products, id)
		return nil
	})
}
