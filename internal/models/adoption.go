package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AdoptionPermanent = "permanent"
	AdoptionTemporary = "temporary"
)

// Comment is a single discussion entry embedded in an AdoptionPost.
// ParentID is nil for top-level comments.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Text      string              `bson:"comment" json:"comment"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// AdoptionPost is a listing offering one pet for adoption. Comments and likes
// are embedded in the post document.
type AdoptionPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PetID     primitive.ObjectID `bson:"pet_id" json:"pet_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Description string     `bson:"description" json:"description"`
	Type        string     `bson:"adoption_type" json:"adoption_type"` // AdoptionPermanent or AdoptionTemporary
	ReturnDate  *time.Time `bson:"return_date,omitempty" json:"return_date,omitempty"`

	Likes    []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments []Comment            `bson:"comments,omitempty" json:"comments,omitempty"`
}

// RequestStatus is the lifecycle state of an adoption request.
type RequestStatus string

const (
	RequestUnderReview      RequestStatus = "under review"
	RequestMeetingScheduled RequestStatus = "meet scheduled"
	RequestAdopted          RequestStatus = "adopted"
)

// AdoptionRequest is one user's application against one adoption post.
// At most one request may exist per (adoption_id, requester_id) pair; the
// uniqueness is enforced by a compound index created at startup.
type AdoptionRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdoptionID  primitive.ObjectID `bson:"adoption_id" json:"adoption_id"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	Status      RequestStatus `bson:"status" json:"status"`
	MeetingDate *time.Time    `bson:"meeting_date,omitempty" json:"meeting_date,omitempty"`
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
}
