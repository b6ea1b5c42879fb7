// Package ws difunde por websocket los cambios de existencia confirmados.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

const broadcastBuffer = 256

// Client conexión suscrita al hub. *websocket.Conn la satisface.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// registration alta pendiente; ack se cierra cuando el cliente ya está en el mapa.
type registration struct {
	client Client
	ack    chan struct{}
}

// Hub mantiene los clientes conectados y reenvía cada StockEvent a todos.
// Implementa inventory.StockNotifier.
type Hub struct {
	clients    map[Client]bool
	register   chan registration
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub. Run debe ejecutarse en su propia goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan registration),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run atiende registros, bajas y difusiones hasta que ctx termina.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case r := <-h.register:
			h.mutex.Lock()
			h.clients[r.client] = true
			n := len(h.clients)
			h.mutex.Unlock()
			close(r.ack)
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					c.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register suscribe un cliente y retorna cuando ya recibe difusiones.
// Con el hub detenido la conexión se cierra.
func (h *Hub) Register(c Client) {
	r := registration{client: c, ack: make(chan struct{})}
	select {
	case h.register <- r:
		<-r.ack
	case <-h.done:
		c.Close()
	}
}

// Unregister da de baja un cliente y cierra su conexión.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// PublishStockUpdate serializa el evento y lo encola sin bloquear al caso de uso.
// Con el buffer lleno el evento se descarta.
func (h *Hub) PublishStockUpdate(event inventory.StockEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento de stock")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("product_id", event.ProductID).Msg("buffer ws lleno, evento descartado")
	}
}

// Handler devuelve el endpoint websocket. Cada conexión queda registrada hasta
// que el cliente cierra o falla una lectura.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}

// UpgradeOnly rechaza con 426 las peticiones que no son upgrade a websocket.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

var _ inventory.StockNotifier = (*Hub)(nil)
