package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/todolap-api/internal/application/inventory"
)

var _ inventory.StockNotifier = (*Hub)(nil)

// Client conexión suscrita al hub (*websocket.Conn en producción).
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// StockEvent mensaje enviado a los terminales tras una venta o reposición.
type StockEvent struct {
	Type  string                 `json:"type"`
	Items []inventory.StockLevel `json:"items"`
}

// Hub mantiene los clientes conectados y les difunde los eventos de stock.
type Hub struct {
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	log        zerolog.Logger

	mu      sync.Mutex
	clients map[Client]struct{}
}

// NewHub crea el hub. Llamar a Run en una goroutine.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
		clients:    make(map[Client]struct{}),
	}
}

// Run procesa altas, bajas y difusiones hasta que ctx se cancela; al salir cierra los clientes.
// Llamar una sola vez.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Msg("ws: cliente conectado")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register suscribe un cliente. Con el hub detenido el cliente se cierra de inmediato.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Unregister da de baja y cierra un cliente. No bloquea si el hub ya se detuvo.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Clients cantidad de clientes conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// NotifyStock encola un evento stock_update. Si la cola está llena el evento se descarta.
func (h *Hub) NotifyStock(_ context.Context, levels []inventory.StockLevel) {
	msg, err := json.Marshal(StockEvent{Type: "stock_update", Items: levels})
	if err != nil {
		h.log.Error().Err(err).Msg("ws: serializar evento")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Int("items", len(levels)).Msg("ws: cola llena, evento descartado")
	}
}

// Handler endpoint WebSocket: registra la conexión y la mantiene hasta que el cliente cierre.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}
