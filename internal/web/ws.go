package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard and API share an origin; the socket carries no commands.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the envelope every broadcast uses.
type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans scan results and progress updates out to connected dashboards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	closed  bool
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool), log: log}
}

// Broadcast sends one typed message to every connected client. Clients
// that fail to accept the write are dropped.
func (h *Hub) Broadcast(msgType string, data any) {
	msg := wsMessage{Type: msgType, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects all clients and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[conn] = true
	return true
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// handleWebSocket upgrades the connection and parks it in the hub. The
// read loop exists only to notice disconnects; inbound messages are
// ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	if !s.hub.add(conn) {
		conn.Close()
		return
	}
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	phase, pct := s.runner.Progress()
	conn.WriteJSON(wsMessage{Type: "progress", Data: map[string]any{"phase": phase, "percent": pct}})

	defer func() {
		s.hub.remove(conn)
		conn.Close()
		s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
