// Package ws streams order events to connected admin dashboards over
// gorilla/websocket.
//
//	hub := ws.NewHub()
//	go hub.Run()
//
//	// In the route file:
//	r.Get("/api/admin/ws/orders", "admin.orders.feed", func(w http.ResponseWriter, r *http.Request) {
//	    ws.Upgrade(w, r, hub)
//	})
//
//	// Broadcast from an event listener:
//	hub.BroadcastJSON(map[string]any{"event": "order.created", "order_id": id})
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campuseats/canteen/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows all origins by default; restrict via SetCheckOrigin in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Hub fans broadcast messages out to every connected dashboard. The feed
// is one-way; client input beyond control frames is discarded.
type Hub struct {
	clients   map[*client]struct{}
	broadcast chan []byte
	join      chan *client
	leave     chan *client
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan []byte, sendBuffer),
		join:      make(chan *client),
		leave:     make(chan *client),
	}
}

// Run owns the client set; it must run in its own goroutine before the
// first Upgrade.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.join:
			h.clients[c] = struct{}{}
			logger.Info("ws: client connected", "total", len(h.clients))

		case c := <-h.leave:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logger.Info("ws: client disconnected", "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it instead of stalling the feed.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// BroadcastJSON marshals v and queues it for every connected client. When
// the queue is full the message is dropped so event listeners never block.
func (h *Hub) BroadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("ws: marshal broadcast", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Upgrade switches the HTTP connection to a WebSocket and attaches it to
// the hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	c := &client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
	hub.join <- c
	go c.writeLoop()
	go c.readLoop()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readLoop answers pings and watches for the peer going away.
func (c *client) readLoop() {
	defer func() {
		c.hub.leave <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, open := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
