package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"likedao_wallet/internal/app/port"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed to clients.
const (
	TypeError   = "error"
	TypeInfo    = "info"
	TypePairing = "pairing"
)

const (
	writeWait    = 10 * time.Second
	clientBuffer = 16
)

// Event is one message on the notification stream.
type Event struct {
	Type    string    `json:"type"`
	Message string    `json:"message,omitempty"`
	URI     string    `json:"uri,omitempty"`
	Time    time.Time `json:"time"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes user-facing notifications to every connected websocket client.
// It implements port.Notifier and the pairing URI presenter of remote wallets.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    *Event
	logger  *zap.Logger
}

var _ port.Notifier = (*Hub)(nil)

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates a hub without clients.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger.Named("NotifyHub")}
}

func (h *Hub) Error(_ context.Context, message string) {
	h.logger.Warn("Notifying user of error", zap.String("message", message))
	h.broadcast(Event{Type: TypeError, Message: message, Time: time.Now()})
}

func (h *Hub) Info(_ context.Context, message string) {
	h.logger.Info("Notifying user", zap.String("message", message))
	h.broadcast(Event{Type: TypeInfo, Message: message, Time: time.Now()})
}

// ShowPairingURI publishes the URI a remote wallet must scan. Clients joining
// later receive the most recent URI on connect.
func (h *Hub) ShowPairingURI(_ context.Context, uri string) {
	h.logger.Info("Pairing URI ready", zap.String("uri", uri))
	ev := Event{Type: TypePairing, URI: uri, Time: time.Now()}
	h.mu.Lock()
	h.last = &ev
	h.mu.Unlock()
	h.broadcast(ev)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	last := h.last
	h.mu.Unlock()
	if last != nil && time.Since(last.Time) < 5*time.Minute {
		c.send <- *last
	}

	go h.writePump(c)

	// reads only detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) writePump(c *client) {
	defer func() { _ = c.conn.Close() }()
	for ev := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			h.logger.Debug("Failed to write event", zap.Error(err))
			h.remove(c)
			return
		}
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.logger.Warn("Client send buffer full, dropping event", zap.String("type", ev.Type))
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
