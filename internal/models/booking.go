package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a lightweight service booking made through the care page
// (dog walking, pet sitting, ...). Kept separate from Appointment, which
// models provider time slots.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID primitive.ObjectID `bson:"service_id" json:"service_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Services []string `bson:"services,omitempty" json:"services,omitempty"` // selected options

	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	PetName string `bson:"pet_name" json:"pet_name"`
	PetType string `bson:"pet_type" json:"pet_type"`

	Address1 string `bson:"address1,omitempty" json:"address1,omitempty"`
	Address2 string `bson:"address2,omitempty" json:"address2,omitempty"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	State    string `bson:"state,omitempty" json:"state,omitempty"`
	Zip      string `bson:"zip,omitempty" json:"zip,omitempty"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status string `bson:"status" json:"status"` // pending | confirmed | done
}
