package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Rakshaharsha/transport-management-system/internal/services"
)

// HandleWebSocketConnection upgrades an authenticated request to a
// WebSocket connection registered with the hub
func HandleWebSocketConnection(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
