package inventory

import (
	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

func toLedgerResponse(l *inv.Ledger, p *entity.Product) dto.LedgerResponse {
	state := l.StockState(p.MinimumStock)
	return dto.LedgerResponse{
		ID:             l.ID(),
		ProductID:      p.ID,
		ProductCode:    p.Code,
		ProductName:    p.Name,
		Quantity:       l.Quantity(),
		MinimumStock:   p.MinimumStock,
		Location:       l.Location(),
		State:          string(state),
		StateLabel:     state.Label(),
		NeedsRestock:   l.NeedsRestock(p.MinimumStock),
		IdealStock:     inv.IdealStock(p.MinimumStock),
		SuggestedOrder: l.SuggestedOrder(p.MinimumStock),
		CreatedAt:      l.CreatedAt(),
		UpdatedAt:      l.UpdatedAt(),
	}
}

func toLedgerViewResponse(v repository.LedgerView) dto.LedgerResponse {
	return toLedgerResponse(v.Ledger, &entity.Product{
		ID:           v.Ledger.ProductID(),
		Code:         v.ProductCode,
		Name:         v.ProductName,
		MinimumStock: v.MinimumStock,
	})
}

func toMovementResponse(m *inv.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID(),
		LedgerID:  m.LedgerID(),
		Kind:      string(m.Kind()),
		Quantity:  m.Quantity(),
		Signed:    m.SignedQuantity(),
		Reason:    m.Reason(),
		ActorID:   m.ActorID(),
		Timestamp: m.Timestamp(),
	}
}
