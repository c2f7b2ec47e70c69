package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType tags why a notification was sent.
type NotificationType string

const (
	NotificationAdoptionRequest  NotificationType = "adoption_request"
	NotificationAdoptionAccepted NotificationType = "adoption_accepted"
	NotificationAdoptionRejected NotificationType = "adoption_rejected"
	NotificationMeetingScheduled NotificationType = "meeting_scheduled"
	NotificationPostLiked        NotificationType = "post_liked"
	NotificationGeneral          NotificationType = "general"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	PetID     primitive.ObjectID `bson:"pet_id" json:"pet_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Message string           `bson:"message" json:"message"`
	Type    NotificationType `bson:"type" json:"type"`
	Read    bool             `bson:"read" json:"read"`
}
