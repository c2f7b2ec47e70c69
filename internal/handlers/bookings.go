package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// Create Booking Request
type CreateBookingRequest struct {
	ServiceID string   `json:"service_id,omitempty"`
	Services  []string `json:"services,omitempty"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	PetName   string   `json:"pet_name"`
	PetType   string   `json:"pet_type"`
	Address1  string   `json:"address1,omitempty"`
	Address2  string   `json:"address2,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Zip       string   `json:"zip,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// CreateBooking records a walk-in style service booking from the care page.
func CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.PetName == "" || req.PetType == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email, phone, pet name, and pet type are required")
		return
	}

	var serviceID primitive.ObjectID
	if req.ServiceID != "" {
		id, err := objectIDFromParam(req.ServiceID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid service id")
			return
		}
		serviceID = id
	}

	now := time.Now().UTC()
	booking := models.Booking{
		ID:        primitive.NewObjectID(),
		ServiceID: serviceID,
		CreatedAt: now,
		UpdatedAt: now,
		Services:  req.Services,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PetName:   req.PetName,
		PetType:   req.PetType,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Notes:     req.Notes,
		Status:    "pending",
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection(database.ColBookings).InsertOne(ctx, booking); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Booking received", Data: booking})
}

// ListBookings returns bookings matching the caller's email, newest first.
func ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var user models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := database.DB.Collection(database.ColBookings).Find(ctx, bson.M{"email": user.Email}, findOptions)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: bookings})
}
