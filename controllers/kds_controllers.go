package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin is enforced by the CORS and auth middlewares in front of this handler
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KDSHandler -> WebSocket feed of floor and kitchen events
func KDSHandler(hub *kds.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
			return
		}

		hub.Register(ws, role)
		utils.InfoLogger.Printf("KDS client connected (role=%s, clients=%d)", role, hub.ClientCount())

		// clients only listen; reading detects the disconnect
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(ws)
	}
}
