package inventory

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
)

const actor = "00000000-0000-0000-0000-0000000000aa"

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger("producto-1", "A-12-3", t0)
	require.NoError(t, err)
	require.EqualValues(t, 0, l.Quantity())
	return l
}

// Escenarios A→D encadenados con stock mínimo 10.
func TestLedger_EscenariosEncadenados(t *testing.T) {
	const minimo = 10
	l := newTestLedger(t)
	var log []*Movement

	// A: entrada inicial de 50
	mov, err := l.RegisterEntry(50, "initial stock", actor, t0.Add(time.Minute))
	require.NoError(t, err)
	log = append(log, mov)
	assert.EqualValues(t, 50, l.Quantity())
	assert.Equal(t, StockSufficient, l.StockState(minimo))
	assert.True(t, mov.IsEntry())
	assert.EqualValues(t, 50, mov.Quantity())
	assert.Equal(t, t0.Add(time.Minute), l.UpdatedAt())

	// B: salida de 45
	mov, err = l.RegisterExit(45, "sale", actor, t0.Add(2*time.Minute))
	require.NoError(t, err)
	log = append(log, mov)
	assert.EqualValues(t, 5, l.Quantity())
	assert.Equal(t, StockLow, l.StockState(minimo))
	assert.True(t, l.NeedsRestock(minimo))
	assert.Len(t, log, 2)

	// C: salida mayor a la existencia
	mov, err = l.RegisterExit(10, "over-sale", actor, t0.Add(3*time.Minute))
	assert.Nil(t, mov)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.EqualValues(t, 10, ise.Requested)
	assert.EqualValues(t, 5, ise.Available)
	assert.Contains(t, err.Error(), "solicitado 10, disponible 5")
	assert.EqualValues(t, 5, l.Quantity())
	assert.Equal(t, t0.Add(2*time.Minute), l.UpdatedAt())

	// D: ajuste a 0
	mov, err = l.AdjustTo(0, "write-off", actor, t0.Add(4*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, mov)
	log = append(log, mov)
	assert.True(t, mov.IsExit())
	assert.EqualValues(t, 5, mov.Quantity())
	assert.Equal(t, "Ajuste: write-off (de 5 a 0)", mov.Reason())
	assert.EqualValues(t, 0, l.Quantity())
	assert.Equal(t, StockNone, l.StockState(minimo))

	assert.Equal(t, l.Quantity(), Balance(log))
}

func TestLedger_EntradaCantidadInvalida(t *testing.T) {
	l := newTestLedger(t)
	for _, q := range []int64{0, -1, -100} {
		mov, err := l.RegisterEntry(q, "compra", actor, t0)
		assert.Nil(t, mov)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuantity), "q=%d", q)
	}
	assert.EqualValues(t, 0, l.Quantity())
}

func TestLedger_SalidaCantidadInvalida(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.RegisterEntry(3, "compra", actor, t0)
	require.NoError(t, err)

	_, err = l.RegisterExit(0, "venta", actor, t0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	assert.EqualValues(t, 3, l.Quantity())
}

func TestLedger_MotivoVacio(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.RegisterEntry(5, "   ", actor, t0)
	assert.True(t, errors.Is(err, domain.ErrInvalidReason))

	_, err = l.AdjustTo(3, "", actor, t0)
	assert.True(t, errors.Is(err, domain.ErrInvalidReason))
	assert.EqualValues(t, 0, l.Quantity())
}

func TestLedger_AjusteSinCambios(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.RegisterEntry(7, "compra", actor, t0)
	require.NoError(t, err)

	mov, err := l.AdjustTo(7, "conteo físico", actor, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, mov)
	assert.EqualValues(t, 7, l.Quantity())
	assert.Equal(t, t0, l.UpdatedAt())
}

func TestLedger_AjusteHaciaArriba(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.RegisterEntry(7, "compra", actor, t0)
	require.NoError(t, err)

	mov, err := l.AdjustTo(12, "conteo físico", actor, t0)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, MovementEntry, mov.Kind())
	assert.EqualValues(t, 5, mov.Quantity())
	assert.EqualValues(t, 12, l.Quantity())
}

func TestLedger_AjusteConMotivoLargo(t *testing.T) {
	l := newTestLedger(t)
	reason := strings.Repeat("á", 495)
	_, err := l.RegisterEntry(7, reason, actor, t0)
	require.NoError(t, err)

	mov, err := l.AdjustTo(1200, reason, actor, t0)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.LessOrEqual(t, utf8.RuneCountInString(mov.Reason()), 500)
	assert.True(t, strings.HasPrefix(mov.Reason(), "Ajuste: ááá"))
	assert.True(t, strings.HasSuffix(mov.Reason(), "… (de 7 a 1200)"))

	mov, err = l.AdjustTo(1000, "conteo físico", actor, t0)
	require.NoError(t, err)
	assert.Equal(t, "Ajuste: conteo físico (de 1200 a 1000)", mov.Reason())

	_, err = l.AdjustTo(0, strings.Repeat("x", 501), actor, t0)
	assert.True(t, errors.Is(err, domain.ErrInvalidReason))
}

func TestLedger_PedidoSugerido(t *testing.T) {
	cases := []struct {
		quantity, minimum, ideal, suggested int64
	}{
		{0, 10, 15, 15},
		{4, 10, 15, 11},
		{10, 10, 15, 5},
		{11, 10, 15, 0},
		{0, 3, 5, 5},
		{0, 0, 0, 0},
	}
	for _, tc := range cases {
		l := RestoreLedger("l-1", "p-1", tc.quantity, "", t0, t0)
		assert.Equal(t, tc.ideal, IdealStock(tc.minimum), "mínimo %d", tc.minimum)
		assert.Equal(t, tc.suggested, l.SuggestedOrder(tc.minimum), "existencia %d mínimo %d", tc.quantity, tc.minimum)
	}
}

func TestLedger_AjusteNegativo(t *testing.T) {
	l := newTestLedger(t)
	mov, err := l.AdjustTo(-1, "conteo", actor, t0)
	assert.Nil(t, mov)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
}

func TestLedger_MovimientoSinActor(t *testing.T) {
	l := newTestLedger(t)
	mov, err := l.RegisterEntry(1, "importación", "", t0)
	require.NoError(t, err)
	assert.False(t, mov.HasActor())
	assert.Equal(t, l.ID(), mov.LedgerID())
}

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		qty, min int64
		want     StockState
	}{
		{0, 10, StockNone},
		{1, 10, StockLow},
		{10, 10, StockLow},
		{11, 10, StockMedium},
		{20, 10, StockMedium},
		{21, 10, StockSufficient},
		{0, 0, StockNone},
		{1, 0, StockSufficient},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyStock(c.qty, c.min), "qty=%d min=%d", c.qty, c.min)
		// función pura: misma entrada, misma salida
		assert.Equal(t, ClassifyStock(c.qty, c.min), ClassifyStock(c.qty, c.min))
	}
	assert.Equal(t, "SIN STOCK", StockNone.Label())
	assert.Equal(t, "SUFICIENTE", StockSufficient.Label())
}

func TestLedger_Reconcile(t *testing.T) {
	l := newTestLedger(t)
	in1, _ := l.RegisterEntry(10, "compra", actor, t0)
	in2, _ := l.RegisterEntry(4, "compra", actor, t0)
	out, _ := l.RegisterExit(8, "venta", actor, t0)
	require.EqualValues(t, 6, l.Quantity())

	// quitar la segunda entrada deja 10 - 8 = 2
	require.NoError(t, l.Reconcile([]*Movement{in1, out}, t0.Add(time.Hour)))
	assert.EqualValues(t, 2, l.Quantity())

	// quitar la primera entrada dejaría 4 - 8 = -4
	err := l.Reconcile([]*Movement{in2, out}, t0)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.EqualValues(t, 2, l.Quantity())
}

func TestLedger_SetLocation(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.SetLocation(" B-01 ", t0.Add(time.Hour)))
	assert.Equal(t, "B-01", l.Location())
	assert.Error(t, l.SetLocation(string(make([]byte, 101)), t0))
}

// Para cualquier secuencia de operaciones la existencia coincide con la suma
// con signo de los movimientos y nunca es negativa.
func TestLedger_InvarianteSecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		l := newTestLedger(t)
		var log []*Movement
		for step := 0; step < 50; step++ {
			q := rng.Int63n(40) - 5
			var (
				mov *Movement
				err error
			)
			before := l.Quantity()
			switch rng.Intn(3) {
			case 0:
				mov, err = l.RegisterEntry(q, "entrada", actor, t0)
			case 1:
				mov, err = l.RegisterExit(q, "salida", actor, t0)
			default:
				mov, err = l.AdjustTo(q, "ajuste", actor, t0)
			}
			if err != nil {
				assert.Nil(t, mov)
				assert.Equal(t, before, l.Quantity(), "un error no debe alterar la existencia")
			}
			if mov != nil {
				assert.Greater(t, mov.Quantity(), int64(0))
				log = append(log, mov)
			}
			require.GreaterOrEqual(t, l.Quantity(), int64(0))
			require.Equal(t, Balance(log), l.Quantity())
		}
	}
}

func TestRestoreYParseKind(t *testing.T) {
	k, err := ParseMovementKind("exit")
	require.NoError(t, err)
	assert.Equal(t, MovementExit, k)
	_, err = ParseMovementKind("TRANSFER")
	assert.Error(t, err)

	m := RestoreMovement("m1", "l1", MovementExit, 3, "venta", "", t0)
	assert.EqualValues(t, -3, m.SignedQuantity())
	assert.Equal(t, "SALIDA", m.Kind().Label())

	l := RestoreLedger("l1", "p1", 9, "A-1", t0, t0)
	assert.EqualValues(t, 9, l.Quantity())
	assert.Equal(t, "p1", l.ProductID())
}
