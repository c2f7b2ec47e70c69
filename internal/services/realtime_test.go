package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// slowConn stands in for a WebSocket connection that tolerates only one
// writer at a time, like gorilla's. It records any overlapping WriteJSON
// entry and sleeps long enough for concurrent sends to collide if the hub
// ever let them through together.
type slowConn struct {
	writing  int32
	overlaps int32
	writes   int32
}

func (c *slowConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.writing, 0)
	return nil
}

func (c *slowConn) Close() error { return nil }

func TestFanOutSerializesWritesPerConnection(t *testing.T) {
	userID := primitive.NewObjectID()
	conn := &slowConn{}
	RegisterNotifyConnection(userID, conn)
	defer UnregisterNotifyConnection(userID)

	event := NotificationEvent{
		Type:      "notification",
		UserID:    userID.Hex(),
		Timestamp: time.Now().UTC(),
	}
	fanOutNotification(event)
	fanOutNotification(event)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&conn.writes) == 2
	}, time.Second, 5*time.Millisecond, "both events should reach the connection")
	assert.Zero(t, atomic.LoadInt32(&conn.overlaps), "writes to a single connection must not overlap")
}

func TestFanOutIgnoresUnknownRecipients(t *testing.T) {
	conn := &slowConn{}
	userID := primitive.NewObjectID()
	RegisterNotifyConnection(userID, conn)
	defer UnregisterNotifyConnection(userID)

	fanOutNotification(NotificationEvent{Type: "notification", UserID: primitive.NewObjectID().Hex()})
	fanOutNotification(NotificationEvent{Type: "notification", UserID: "not-a-hex-id"})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&conn.writes))
}
