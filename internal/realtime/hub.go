// Package realtime broadcasts row-level change events to connected clients
// over websockets. Delivery is fire-and-forget: there is no replay, and a
// slow subscriber misses events rather than blocking a mutation.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is the wire format for a change notification. Payload is omitted for
// coalesced topics such as sale:changed.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The desktop client connects from a local webview origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub owns the registry of connected subscribers. Connections register on
// upgrade and are removed on disconnect or write failure.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *logrus.Logger
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{clients: make(map[string]*client), log: log}
}

// Publish fans an event out to every connected subscriber. It never blocks:
// a subscriber whose buffer is full misses the event. Errors are logged and
// never surfaced to the mutating caller.
func (h *Hub) Publish(event string, payload any) {
	msg, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Warn("realtime: failed to encode event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.WithFields(logrus.Fields{"conn": c.id, "event": event}).
				Warn("realtime: subscriber buffer full, event dropped")
		}
	}
}

// ClientCount reports the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handle upgrades the request to a websocket connection and registers it.
// There is no event replay: a client must re-list the collections it cares
// about right after connecting.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("realtime: websocket upgrade failed")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.WithField("conn", c.id).Info("realtime: client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
	if ok {
		h.log.WithField("conn", c.id).Info("realtime: client disconnected")
	}
}

// writeLoop is the single writer for a connection, so events stay FIFO.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains the connection to process control frames and detect
// disconnects. Clients never send application data.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
