package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"photo-service/internal/auth"
	"photo-service/internal/observability"
)

// NotificationWSHandler owns the per-connection lifecycle of the push
// channel: authenticate, join the recipient group, relay, tear down.
type NotificationWSHandler struct {
	hub      *Hub
	verifier *auth.Verifier
}

// NewNotificationWSHandler constructs a NotificationWSHandler.
func NewNotificationWSHandler(hub *Hub, verifier *auth.Verifier) *NotificationWSHandler {
	return &NotificationWSHandler{hub: hub, verifier: verifier}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and joins the caller's notification group.
// An unauthenticated caller is rejected before the upgrade, so no frames are
// ever written on a rejected connection.
func (h *NotificationWSHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("photo-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	identity := h.verifier.Verify(tokenFromRequest(c))
	if !identity.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	userID := identity.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(userID, conn, info)

	observability.IncWSActive("notification")
	observability.IncWSEvent("notification", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.notifications", observability.EventEnvelope{
		EventType: observability.EventTypeWS,
		EventName: "ws_connect",
		Payload:   wsEventPayload(userID, info, "ws_connect", 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	// The channel is push-only: the read pump exists to notice the close.
	// Teardown always deregisters, whatever ended the connection.
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(userID, conn)
			observability.DecWSActive("notification")
			observability.IncWSEvent("notification", "ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.notifications", observability.EventEnvelope{
				EventType: observability.EventTypeWS,
				EventName: "ws_disconnect",
				Payload:   wsEventPayload(userID, info, "ws_disconnect", time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("notification", "ws_error")
					_ = observability.PublishEvent(ctx, "ws_events.notifications", observability.EventEnvelope{
						EventType: observability.EventTypeWS,
						EventName: "ws_error",
						Payload:   wsEventPayload(userID, info, "ws_error", time.Since(info.ConnectedAt).Milliseconds(), closeReason),
					}, observability.BuildHeaders(requestID, traceID))
				}
				return
			}
		}
	}()
}

// tokenFromRequest pulls the bearer credential from the token or
// access_token query parameter, falling back to the Authorization header.
func tokenFromRequest(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	if token := c.Query("access_token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return ""
}

func wsEventPayload(userID int, info ConnInfo, event string, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":         "notification",
			"recipient_id": userID,
			"event":        event,
			"conn_id":      info.ConnID,
			"duration_ms":  durationMS,
			"reason":       reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
