// Package events fans CheckedIn payloads out to connected label/print
// clients over websockets. Delivery is best-effort: the check-in path never
// blocks on a slow printer and never retries.
package events

import (
	"log"
	"sync"
	"time"

	"checkin-backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	clientBuffer   = 16
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

type client struct {
	conn  *websocket.Conn
	orgID int
	send  chan models.CheckedInEvent
	done  chan struct{}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish delivers an event to every client subscribed to the event's
// organization. Clients that cannot keep up have the event dropped.
func (h *Hub) Publish(event models.CheckedInEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.orgID != event.OrgID {
			continue
		}
		select {
		case c.send <- event:
		default:
			log.Printf("[Events] Dropping event %s for slow client", event.EventID)
		}
	}
}

// Serve takes over an upgraded websocket connection for one org's event
// stream and blocks until the client disconnects.
func (h *Hub) Serve(conn *websocket.Conn, orgID int) {
	c := &client{
		conn:  conn,
		orgID: orgID,
		send:  make(chan models.CheckedInEvent, clientBuffer),
		done:  make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	go c.readLoop()
	c.writeLoop()
}

// ClientCount reports connected clients, used by the health endpoint
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readLoop drains control frames; label clients never send data
func (c *client) readLoop() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			close(c.done)
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
