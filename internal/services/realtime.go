package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// NotificationEvent is the payload broadcast over Redis and WebSocket.
type NotificationEvent struct {
	Type         string               `json:"type"`
	UserID       string               `json:"user_id,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp,omitempty"`
}

// NotifyConn is the minimal interface our WebSocket implementation must satisfy.
type NotifyConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// notifyClient wraps a connection with a write lock. Gorilla connections
// support at most one concurrent writer, so every outbound message must go
// through send.
type notifyClient struct {
	mu   sync.Mutex
	conn NotifyConn
}

func (c *notifyClient) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// notifyHub is a registry of per-user WebSocket connections on this instance.
type notifyHub struct {
	mu          sync.RWMutex
	connections map[primitive.ObjectID]*notifyClient
}

var (
	hub          = &notifyHub{connections: make(map[primitive.ObjectID]*notifyClient)}
	redisStarted sync.Once
)

// RegisterNotifyConnection registers or replaces a user's connection.
func RegisterNotifyConnection(userID primitive.ObjectID, conn NotifyConn) {
	hub.mu.Lock()
	hub.connections[userID] = &notifyClient{conn: conn}
	hub.mu.Unlock()
}

// UnregisterNotifyConnection removes a user's connection.
func UnregisterNotifyConnection(userID primitive.ObjectID) {
	hub.mu.Lock()
	delete(hub.connections, userID)
	hub.mu.Unlock()
}

// fanOutNotification delivers an event to the recipient's local connection,
// if any. Best-effort send.
func fanOutNotification(event NotificationEvent) {
	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return
	}

	hub.mu.RLock()
	client, ok := hub.connections[userID]
	hub.mu.RUnlock()
	if !ok {
		return
	}

	go func(c *notifyClient) {
		if err := c.send(event); err != nil {
			log.Printf("error writing notification event to websocket: %v", err)
		}
	}(client)
}

// StartRedisNotifySubscriber ensures a single shared Redis listener per instance.
func StartRedisNotifySubscriber(ctx context.Context) {
	redisStarted.Do(func() {
		go runRedisSubscriber(ctx)
	})
}

func runRedisSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; notification subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, NotifyChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Notification Redis subscriber started (pattern: notify:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event NotificationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal notification event: %v", err)
					continue
				}
				if event.UserID == "" {
					// Fall back to the channel suffix
					event.UserID = strings.TrimPrefix(msg.Channel, NotifyChannelPrefix)
				}

				fanOutNotification(event)
			}
		}()
	}
}
