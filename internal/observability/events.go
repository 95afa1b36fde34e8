package observability

// EventTypeWS groups the websocket lifecycle events of the notification
// channel (ws_connect, ws_disconnect, ws_error).
const EventTypeWS = "ws_events"

// EventEnvelope wraps an operational event published to the events exchange.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// BuildHeaders assembles AMQP headers that carry correlation ids across
// process boundaries. Empty ids are left out.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
