package ws

import "time"

// ConnInfo is the metadata attached to one live notification connection.
// It exists for the lifecycle events published about the connection; the
// delivery path only needs the user id.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
