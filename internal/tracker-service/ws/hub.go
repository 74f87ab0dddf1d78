package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client serializa as escritas numa conexão (gorilla aceita um único writer)
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub mantém as conexões do dashboard e faz broadcast do resumo do ledger
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}

	// Snapshot, se definido, gera a primeira mensagem enviada a cada nova conexão
	Snapshot func() (ServerMsg, bool)
}

// NewHub cria o hub com política de origem customizada (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		clients:  make(map[*client]struct{}),
	}
}

// HandleWS registra a conexão e responde a pings até o cliente desconectar
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	if h.Snapshot != nil {
		if msg, ok := h.Snapshot(); ok {
			if b, err := json.Marshal(msg); err == nil {
				_ = c.write(b)
			}
		}
	}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "ping" {
			b, _ := json.Marshal(ServerMsg{Type: "pong"})
			_ = c.write(b)
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Broadcast envia a mensagem para todas as conexões abertas
func (h *Hub) Broadcast(msg ServerMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("ws marshal", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(b); err != nil {
			h.log.Debug("ws write", zap.Error(err))
		}
	}
}

// Clients devolve o número de conexões abertas
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
