// Package ws maintains spectator WebSocket connections and streams season
// events to them.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

type CloseReason string

const (
	ReasonWriteError CloseReason = "write_error"
	ReasonPingError  CloseReason = "ping_error"
	ReasonReadError  CloseReason = "read_error"
	ReasonShutdown   CloseReason = "server_shutdown"
	ReasonBufferFull CloseReason = "buffer_full"
)

// Connection is one spectator subscribed to a single season's feed
type Connection struct {
	SeasonID  string
	Conn      *websocket.Conn
	Send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

// Hub manages spectator connections grouped by season
type Hub struct {
	seasons    map[string]map[*Connection]struct{}
	register   chan *Connection
	unregister chan *Connection
	mu         sync.RWMutex
}

// NewHub creates a new spectator hub
func NewHub() *Hub {
	return &Hub{
		seasons:    make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
	}
}

// Register attaches a new spectator to a season feed
func (h *Hub) Register(conn *websocket.Conn, seasonID string) *Connection {
	c := &Connection{
		SeasonID: seasonID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		hub:      h,
	}
	h.register <- c
	return c
}

// Run starts the hub loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.seasons[client.SeasonID] == nil {
				h.seasons[client.SeasonID] = make(map[*Connection]struct{})
			}
			h.seasons[client.SeasonID][client] = struct{}{}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.seasons[client.SeasonID]; ok {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.seasons, client.SeasonID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to every spectator of the season
func (h *Hub) Broadcast(seasonID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.seasons[seasonID] {
		select {
		case client.Send <- message:
		default:
			// Buffer full, drop client; the unregister channel handles
			// cleanup once its pumps exit.
			client.CloseWithReason(ReasonBufferFull, nil)
		}
	}
}

// Shutdown closes all connections
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.seasons {
		for client := range conns {
			client.CloseWithReason(ReasonShutdown, nil)
		}
	}
}

// CloseWithReason closes the connection with a reason
func (c *Connection) CloseWithReason(r CloseReason, err error) {
	c.closeOnce.Do(func() {
		logger.Warn(context.Background()).
			Str("season_id", c.SeasonID).
			Str("reason", string(r)).
			Err(err).
			Msg("ws connection closed")
		c.Conn.Close()
	})
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Connection) WritePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping period
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				c.CloseWithReason(ReasonWriteError, err)
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				c.CloseWithReason(ReasonWriteError, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.CloseWithReason(ReasonPingError, err)
				return
			}
		}
	}
}

// ReadPump drains the connection so control frames are processed; spectators
// never send application messages.
func (c *Connection) ReadPump() {
	var readErr error
	defer func() {
		c.hub.unregister <- c
		c.CloseWithReason(ReasonReadError, readErr)
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second)) // Pong wait
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				readErr = err
			}
			break
		}
	}
}
