package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
}

func (f *fakeClient) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func (f *fakeClient) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(logger.Nop())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func TestHub_Difusion(t *testing.T) {
	h, _ := startHub(t)
	a, b := &fakeClient{}, &fakeClient{}
	h.Register(a)
	h.Register(b)
	require.Equal(t, 2, h.Clients())

	h.PublishStockUpdate(inventory.StockEvent{
		Type: "stock_update", Cause: inventory.CauseExit, ProductID: "p-1", ProductCode: "LA-001",
		Quantity: 8, State: "LOW", Delta: -2, At: time.Now(),
	})

	require.Eventually(t, func() bool { return len(a.received()) == 1 && len(b.received()) == 1 }, time.Second, 5*time.Millisecond)

	var got map[string]any
	require.NoError(t, json.Unmarshal(a.received()[0], &got))
	assert.Equal(t, "stock_update", got["type"])
	assert.Equal(t, "p-1", got["product_id"])
	assert.EqualValues(t, 8, got["quantity"])
	assert.EqualValues(t, -2, got["delta"])
}

func TestHub_ClienteRotoSeDescarta(t *testing.T) {
	h, _ := startHub(t)
	ok, broken := &fakeClient{}, &fakeClient{failing: true}
	h.Register(ok)
	h.Register(broken)
	require.Equal(t, 2, h.Clients())

	h.PublishStockUpdate(inventory.StockEvent{Type: "stock_update", ProductID: "p-1"})

	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
	assert.False(t, ok.isClosed())

	h.Unregister(ok)
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, ok.isClosed())
}

func TestHub_Detenido(t *testing.T) {
	h, cancel := startHub(t)
	a := &fakeClient{}
	h.Register(a)
	cancel()

	require.Eventually(t, a.isClosed, time.Second, 5*time.Millisecond)

	late := &fakeClient{}
	h.Register(late)
	assert.True(t, late.isClosed())
	h.Unregister(late)
}

func TestHub_RegistroVisibleAlRetornar(t *testing.T) {
	h, _ := startHub(t)
	for i := 1; i <= 50; i++ {
		h.Register(&fakeClient{})
		require.Equal(t, i, h.Clients())
	}
}
