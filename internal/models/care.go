package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeSlot is a bookable window within a day, "09:00"–"10:00" style.
type TimeSlot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DayAvailability lists the slots a provider offers on one weekday.
type DayAvailability struct {
	Day       string     `bson:"day" json:"day"` // "monday" .. "sunday", lowercase
	TimeSlots []TimeSlot `bson:"time_slots" json:"time_slots"`
}

// CareService is a pet-care offering (grooming, vet visit, boarding, ...)
// published by a provider user.
type CareService struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProviderID primitive.ObjectID `bson:"provider_id" json:"provider_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Category    string  `bson:"category" json:"category"` // veterinary, grooming, boarding, training, emergency, wellness
	Price       float64 `bson:"price" json:"price"`
	Duration    int     `bson:"duration" json:"duration"` // minutes
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
	City        string  `bson:"city,omitempty" json:"city,omitempty"`

	IsActive     bool              `bson:"is_active" json:"is_active"`
	Rating       float64           `bson:"rating" json:"rating"`
	ReviewCount  int               `bson:"review_count" json:"review_count"`
	Tags         []string          `bson:"tags,omitempty" json:"tags,omitempty"`
	Features     []string          `bson:"features,omitempty" json:"features,omitempty"`
	Availability []DayAvailability `bson:"availability,omitempty" json:"availability,omitempty"`
}

// AppointmentStatus values mirror the booking flow; "scheduled" is initial.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in-progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no-show"
)

type Appointment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ServiceID  primitive.ObjectID  `bson:"service_id" json:"service_id"`
	CustomerID primitive.ObjectID  `bson:"customer_id" json:"customer_id"`
	ProviderID primitive.ObjectID  `bson:"provider_id" json:"provider_id"`
	PetID      *primitive.ObjectID `bson:"pet_id,omitempty" json:"pet_id,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`

	AppointmentDate time.Time `bson:"appointment_date" json:"appointment_date"`
	TimeSlot        TimeSlot  `bson:"time_slot" json:"time_slot"`
	Status          string    `bson:"status" json:"status"`
	Price           float64   `bson:"price" json:"price"`
	Location        string    `bson:"location" json:"location"` // clinic, home, online
	PaymentStatus   string    `bson:"payment_status" json:"payment_status"`

	CustomerNotes string `bson:"customer_notes,omitempty" json:"customer_notes,omitempty"`
	ProviderNotes string `bson:"provider_notes,omitempty" json:"provider_notes,omitempty"`
}
