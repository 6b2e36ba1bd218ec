package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

const sendBuffer = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub fans completed alerts out to connected websocket clients. It
// implements the coordinator's Subscriber contract; a slow client drops
// messages rather than blocking the broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*client)}
}

// Handle upgrades the request and serves the client until it disconnects.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

type envelope struct {
	Event string          `json:"event"`
	Alert contracts.Alert `json:"alert"`
}

// Publish queues the alert to every connected client. Never blocks.
func (h *Hub) Publish(alert contracts.Alert) {
	body, err := json.Marshal(envelope{Event: "alert.completed", Alert: alert})
	if err != nil {
		log.Printf("ws marshal alert %s: %v", alert.ID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- body:
		default:
			log.Printf("ws client %s send buffer full, dropping alert %s", c.id, alert.ID)
		}
	}
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// detect disconnects promptly.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.done)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.done)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// ClientCount reports the connected subscriber count.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
