package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/notify/ws"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectator feed is read-only and unauthenticated.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades spectator connections onto the season event feed
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes registers the websocket route
func (h *WSHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws", h.Serve)
}

// Serve attaches one spectator to a season's event stream
func (h *WSHandler) Serve(c *gin.Context) {
	seasonID := c.Query("season_id")
	if seasonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("WS upgrade failed")
		return
	}

	client := h.hub.Register(conn, seasonID)
	go client.WritePump()
	go client.ReadPump()
}
