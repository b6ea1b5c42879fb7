package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movimientoRequest struct {
	Quantity int64  `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason" validate:"notblank,max=500"`
	ActorID  string `json:"actor_id" validate:"omitempty,uuid_required"`
}

func TestValidateStruct_OK(t *testing.T) {
	errs := ValidateStruct(movimientoRequest{Quantity: 3, Reason: "compra", ActorID: "7c9e6679-7425-40de-944b-e07fc1f90ae7"})
	assert.Empty(t, errs)
}

func TestValidateStruct_ReportaNombreJSON(t *testing.T) {
	errs := ValidateStruct(movimientoRequest{Quantity: 0, Reason: "   "})
	require.Len(t, errs, 2)
	assert.Equal(t, "quantity", errs[0].Field)
	assert.Equal(t, "gt", errs[0].Tag)
	assert.Equal(t, "0", errs[0].Param)
	assert.Equal(t, "reason", errs[1].Field)
	assert.Equal(t, "notblank", errs[1].Tag)
	assert.Contains(t, errs[0].String(), "quantity")
}

func TestValidateStruct_UUIDNulo(t *testing.T) {
	errs := ValidateStruct(movimientoRequest{Quantity: 1, Reason: "x", ActorID: "00000000-0000-0000-0000-000000000000"})
	require.Len(t, errs, 1)
	assert.Equal(t, "actor_id", errs[0].Field)
}
