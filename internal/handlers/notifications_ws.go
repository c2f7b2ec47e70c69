package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pawhaven/pawhaven-backend/internal/services"
)

var notifyUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// notifyClientMessage is the small set of frames clients may send upstream.
type notifyClientMessage struct {
	Type           string `json:"type"` // "read", "ping"
	NotificationID string `json:"notification_id,omitempty"`
}

// NotificationsWebSocket streams notification events to the authenticated
// user in real time. Authentication uses the session token, with a query
// parameter fallback for browser WebSocket clients.
func NotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := notifyUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Greet before registering; once registered, fan-out goroutines own
	// all writes to this connection.
	_ = conn.WriteJSON(services.NotificationEvent{
		Type:      "connected",
		UserID:    userID.Hex(),
		Timestamp: time.Now().UTC(),
	})

	services.RegisterNotifyConnection(userID, conn)
	defer services.UnregisterNotifyConnection(userID)

	conn.SetReadLimit(16 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg notifyClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "read":
			if msg.NotificationID != "" {
				if notificationID, err := objectIDFromParam(msg.NotificationID); err == nil {
					_ = services.MarkNotificationRead(r.Context(), notificationID)
				}
			}
		case "ping":
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		default:
			// Ignore unknown types
		}
	}
}
