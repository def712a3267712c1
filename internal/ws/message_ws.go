package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"devshare/internal/auth"
	"devshare/internal/observability"
)

// MessageSocketHandler upgrades authenticated clients to a websocket
// receiving their direct-message events.
type MessageSocketHandler struct {
	hub      *Hub
	sessions *auth.SessionManager
}

// NewMessageSocketHandler constructs a MessageSocketHandler.
func NewMessageSocketHandler(hub *Hub, sessions *auth.SessionManager) *MessageSocketHandler {
	return &MessageSocketHandler{hub: hub, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates via the session cookie, upgrades the connection
// and registers it under the user's inbox.
func (h *MessageSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("devshare/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	session, ok := h.sessions.CurrentSession(c.Request)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      session.ID,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(session.ID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.messages", observability.NewEnvelope("ws_events", "ws_connect", map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_connect",
			"conn_id":     info.ConnID,
			"duration_ms": 0,
			"reason":      "",
		},
		"identity": map[string]interface{}{
			"user_id": info.UserID,
			"ip":      info.IP,
		},
	}), observability.BuildHeaders(requestID, traceID))

	// Keep connection alive and clean up on close.
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(session.ID, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.messages", observability.NewEnvelope("ws_events", "ws_disconnect", map[string]interface{}{
				"ws": map[string]interface{}{
					"event":       "ws_disconnect",
					"conn_id":     info.ConnID,
					"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
					"reason":      closeReason,
				},
				"identity": map[string]interface{}{
					"user_id": info.UserID,
					"ip":      info.IP,
				},
			}), observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}
