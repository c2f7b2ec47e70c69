package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// PetAvailable means the pet is listed for adoption.
	PetAvailable = "Available"
	// PetAdopted means the pet has an owner and is not listed.
	PetAdopted = "Adopted"
)

type Pet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Name        string    `bson:"name" json:"name"`
	Species     string    `bson:"species" json:"species"`
	DateOfBirth time.Time `bson:"date_of_birth" json:"date_of_birth"`
	Breed       string    `bson:"breed" json:"breed"`
	Color       string    `bson:"color" json:"color"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Status      string    `bson:"status" json:"status"` // PetAvailable or PetAdopted

	ProfilePhoto  string   `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`
	Photos        []string `bson:"photos,omitempty" json:"photos,omitempty"`
	HealthRecords []string `bson:"health_records,omitempty" json:"health_records,omitempty"`
	Traits        []string `bson:"traits,omitempty" json:"traits,omitempty"`
}
