package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// NotifyChannelPrefix is the Redis pub/sub channel prefix for per-user
// notification events.
const NotifyChannelPrefix = "notify:user:"

// Dispatch persists notices and pushes them to connected clients.
// Fire-and-forget: failures are logged, never returned, so a delivery
// problem cannot roll back the state transition that produced the notice.
func Dispatch(ctx context.Context, notices []adoption.Notice) {
	for _, n := range notices {
		notification := models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    n.RecipientID,
			PetID:     n.PetID,
			Message:   n.Message,
			Type:      n.Type,
			Read:      false,
			CreatedAt: time.Now().UTC(),
		}

		if _, err := database.DB.Collection(database.ColNotifications).InsertOne(ctx, notification); err != nil {
			log.Printf("failed to store notification for %s: %v", n.RecipientID.Hex(), err)
			continue
		}

		if err := PublishNotification(ctx, notification); err != nil {
			log.Printf("failed to publish notification for %s: %v", n.RecipientID.Hex(), err)
		}
	}
}

// PublishNotification pushes one stored notification onto the user's Redis
// channel for WebSocket fan-out.
func PublishNotification(ctx context.Context, notification models.Notification) error {
	data, err := json.Marshal(NotificationEvent{
		Type:         "notification",
		UserID:       notification.UserID.Hex(),
		Notification: &notification,
		Timestamp:    notification.CreatedAt,
	})
	if err != nil {
		return err
	}

	channel := NotifyChannelPrefix + notification.UserID.Hex()
	return database.RedisClient.Publish(ctx, channel, data).Err()
}

// ListNotifications returns a user's notifications, newest first.
func ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := database.DB.Collection(database.ColNotifications).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(ctx context.Context, notificationID primitive.ObjectID) error {
	_, err := database.DB.Collection(database.ColNotifications).UpdateOne(ctx,
		bson.M{"_id": notificationID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
