package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (CORS handled by main server)
		return true
	},
}

const wsWriteTimeout = 10 * time.Second

// Hub tracks active WebSocket connections so shutdown can close them.
// There is no broadcast: report data is pulled per client request.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{clients: make(map[*wsClient]bool), log: log}
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("ws_client_connected", "id", c.id, "total", n)
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("ws_client_disconnected", "id", c.id, "total", n)
}

// CloseAll disconnects every client; used on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
	h.clients = make(map[*wsClient]bool)
}

type wsClient struct {
	id   string
	conn *websocket.Conn
}

// handleWebSocket upgrades the connection and serves refresh requests:
// each inbound {"type":"refresh"} is answered with a freshly computed
// report snapshot. Pull semantics over a held connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("ws_upgrade_failed", "err", err)
		return
	}

	c := &wsClient{id: uuid.NewString()[:8], conn: conn}
	s.hub.add(c)
	defer func() {
		s.hub.remove(c)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req WSRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.Type != "refresh" {
			continue
		}

		msg := WSReports{Type: "reports", Data: s.app.RefreshReports()}
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Warnw("ws_write_failed", "id", c.id, "err", err)
			return
		}
	}
}
