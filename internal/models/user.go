package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name     string `bson:"name" json:"name"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON

	Role         string `bson:"role" json:"role"` // "user" or "admin"
	Location     string `bson:"location,omitempty" json:"location,omitempty"`
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePhoto string `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`
}
