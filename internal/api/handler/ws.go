package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"samadhan/backend/internal/feed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The portal frontend is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed upgrades the connection and attaches the caller to the live
// complaint-event feed. The auth middleware already resolved the user.
func (h *Handler) ServeFeed(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := feed.NewWebSocketClient(actor.ID, conn, h.Hub)
	h.Hub.RegisterCh <- client
	client.Run()
}
