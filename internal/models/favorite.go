package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite bookmarks an adoption post for a user. A unique compound index on
// (user_id, post_id) keeps a user from favoriting the same post twice.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	PostID    primitive.ObjectID `bson:"post_id" json:"post_id"`
	PostType  string             `bson:"post_type" json:"post_type"` // currently always "adoption"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
