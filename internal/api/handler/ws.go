package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"voxpop/backend/internal/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeEventFeed upgrades the connection and subscribes it to the petition
// lifecycle feed. The feed carries no per-user data, so no auth is required.
func (h *Handler) ServeEventFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}
	sub := events.NewWebSocketSubscriber(uuid.New().String(), conn, h.Hub)
	h.Hub.RegisterCh <- sub
}
