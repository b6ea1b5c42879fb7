package dto

import "time"

// MovementRequest body para POST /api/inventory/:product_id/entries y /exits.
type MovementRequest struct {
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"notblank,max=500"`
}

// AdjustmentRequest body para POST /api/inventory/:product_id/adjustments.
// Target es la cantidad final deseada (puede ser 0).
type AdjustmentRequest struct {
	Target *int64 `json:"target" validate:"required"`
	Reason string `json:"reason" validate:"notblank,max=500"`
}

// LocationRequest body para PATCH /api/inventory/:product_id/location.
type LocationRequest struct {
	Location string `json:"location" validate:"max=100"`
}

// LedgerResponse existencia actual de un producto.
type LedgerResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	ProductCode    string    `json:"product_code"`
	ProductName    string    `json:"product_name"`
	Quantity       int64     `json:"quantity"`
	MinimumStock   int64     `json:"minimum_stock"`
	Location       string    `json:"location"`
	State          string    `json:"state"`
	StateLabel     string    `json:"state_label"`
	NeedsRestock   bool      `json:"needs_restock"`
	IdealStock     int64     `json:"ideal_stock"`
	SuggestedOrder int64     `json:"suggested_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LedgerListResponse lista paginada de inventario.
type LedgerListResponse struct {
	Items []LedgerResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// MovementResponse movimiento de inventario (inmutable).
type MovementResponse struct {
	ID        string    `json:"id"`
	LedgerID  string    `json:"ledger_id"`
	Kind      string    `json:"kind"`
	Quantity  int64     `json:"quantity"`
	Signed    int64     `json:"signed_quantity"`
	Reason    string    `json:"reason"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MovementResultResponse resultado de una entrada, salida o ajuste. Movement es
// nil cuando un ajuste no cambia la cantidad.
type MovementResultResponse struct {
	Ledger   LedgerResponse    `json:"ledger"`
	Movement *MovementResponse `json:"movement"`
}

// MovementHistoryResponse historial cronológico de un producto.
type MovementHistoryResponse struct {
	Ledger LedgerResponse     `json:"ledger"`
	Items  []MovementResponse `json:"items"`
	Page   PageResponse       `json:"page"`
}

// ReportEmailRequest body para POST /api/inventory/report/email.
type ReportEmailRequest struct {
	To        string `json:"to" validate:"required,email"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

// ReportEmailResponse confirmación del envío.
type ReportEmailResponse struct {
	To       string `json:"to"`
	Filename string `json:"filename"`
	Products int    `json:"products"`
}
