package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación en memoria de CompanyRepository.
type CompanyRepo struct {
	s session
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.companies {
			if other.NIT == c.NIT {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.read(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.read(func(st *state) error {
		for _, c := range st.companies {
			if c.NIT == nit {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.s.read(func(st *state) error {
		for _, c := range st.companies {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *CompanyRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.s.read(func(st *state) error {
		n = len(st.companies)
		return nil
	})
	return n, err
}
