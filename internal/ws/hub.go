package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"photo-service/internal/models"
	"photo-service/internal/observability"
)

// writeTimeout bounds a single notification write. A connection whose peer
// stopped reading fails the write instead of wedging the fan-out loop.
const writeTimeout = 5 * time.Second

// Hub is the group membership registry for notification delivery. Each user
// id names one group; every live connection for that user belongs to it.
type Hub struct {
	userRooms map[int]map[*websocket.Conn]ConnInfo
	mu        sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		userRooms: make(map[int]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient joins a connection to the user's notification group.
func (h *Hub) AddClient(userID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userRooms[userID]; !ok {
		h.userRooms[userID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.userRooms[userID][conn] = info
}

// RemoveClient removes a connection from the user's group. Removing a
// connection that was never joined is a no-op.
func (h *Hub) RemoveClient(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.userRooms[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userRooms, userID)
		}
	}
}

// ClientCount reports the number of live connections for a user.
func (h *Hub) ClientCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userRooms[userID])
}

// BroadcastNotification pushes a notification frame to every connection in
// the recipient's group. A failing connection is closed and evicted without
// affecting delivery to the rest; a recipient with no connections is a no-op.
func (h *Hub) BroadcastNotification(userID int, payload models.NotificationPayload) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.userRooms[userID]))
	for conn := range h.userRooms[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := models.NotificationEvent{Type: "notification", Notification: &payload}
	frame, _ := json.Marshal(event)
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(userID, conn, err)
			h.RemoveClient(userID, conn)
		}
	}
}

func (h *Hub) publishWSError(userID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(userID, conn)
	if !ok {
		return
	}

	payload := wsEventPayload(userID, info, "ws_error", time.Since(info.ConnectedAt).Milliseconds(), err.Error())
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.notifications", observability.EventEnvelope{
		EventType: observability.EventTypeWS,
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("notification", "ws_error")
}

func (h *Hub) getConnInfo(userID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.userRooms[userID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
