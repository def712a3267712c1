package observability

import "time"

const serviceName = "devshare"

// EventEnvelope wraps every event published to the exchange.
type EventEnvelope struct {
	Service   string      `json:"service"`
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	EmittedAt string      `json:"emitted_at"`
	Payload   interface{} `json:"payload"`
}

// NewEnvelope stamps an event with the service name and emission time.
func NewEnvelope(eventType, eventName string, payload interface{}) EventEnvelope {
	return EventEnvelope{
		Service:   serviceName,
		EventType: eventType,
		EventName: eventName,
		EmittedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   payload,
	}
}

// BuildHeaders assembles AMQP headers from request correlation ids.
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
