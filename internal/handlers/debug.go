package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photo-service/internal/telemetry"
	"photo-service/internal/ws"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, hub *ws.Hub, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "INFO", "audit test", requestIDFromContext(c), auditUserID(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/debug/ws-connections", func(c *gin.Context) {
		userID := c.GetInt("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "connections": hub.ClientCount(userID)})
	})
}
