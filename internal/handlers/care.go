package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// ListCareServices returns active services, filterable by category, city,
// text search, price range, and minimum rating.
func ListCareServices(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"is_active": true}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = strings.ToLower(category)
	}
	if city := r.URL.Query().Get("city"); city != "" {
		filter["city"] = city
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
			{"tags": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	price := bson.M{}
	if min, err := strconv.ParseFloat(r.URL.Query().Get("min_price"), 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(r.URL.Query().Get("max_price"), 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if minRating, err := strconv.ParseFloat(r.URL.Query().Get("min_rating"), 64); err == nil {
		filter["rating"] = bson.M{"$gte": minRating}
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.M{"rating": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	services := database.DB.Collection(database.ColServices)

	cursor, err := services.Find(ctx, filter, findOptions)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	results := []models.CareService{}
	if err := cursor.All(ctx, &results); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	total, err := services.CountDocuments(ctx, filter)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"services": results,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}})
}

// GetCareService returns one service by id.
func GetCareService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid service id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var service models.CareService
	err = database.DB.Collection(database.ColServices).FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Service not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: service})
}

// Create Care Service Request
type CreateCareServiceRequest struct {
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	Category     string                   `json:"category"`
	Price        float64                  `json:"price"`
	Duration     int                      `json:"duration"`
	Image        string                   `json:"image,omitempty"`
	City         string                   `json:"city,omitempty"`
	Tags         []string                 `json:"tags,omitempty"`
	Features     []string                 `json:"features,omitempty"`
	Availability []models.DayAvailability `json:"availability,omitempty"`
}

var careCategories = map[string]bool{
	"veterinary": true,
	"grooming":   true,
	"boarding":   true,
	"training":   true,
	"emergency":  true,
	"wellness":   true,
}

// CreateCareService publishes a service offered by the caller.
func CreateCareService(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CreateCareServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Category = strings.ToLower(req.Category)
	if req.Name == "" || req.Description == "" || !careCategories[req.Category] {
		writeMessage(w, http.StatusBadRequest, "Name, description, and a valid category are required")
		return
	}
	if req.Price < 0 || req.Duration <= 0 {
		writeMessage(w, http.StatusBadRequest, "Price must be non-negative and duration positive")
		return
	}

	now := time.Now().UTC()
	service := models.CareService{
		ID:           primitive.NewObjectID(),
		ProviderID:   userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Duration:     req.Duration,
		Image:        req.Image,
		City:         req.City,
		IsActive:     true,
		Tags:         req.Tags,
		Features:     req.Features,
		Availability: req.Availability,
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection(database.ColServices).InsertOne(ctx, service); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create service")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Service created", Data: service})
}

// Book Appointment Request
type BookAppointmentRequest struct {
	ServiceID       string          `json:"service_id"`
	PetID           string          `json:"pet_id,omitempty"`
	AppointmentDate string          `json:"appointment_date"` // YYYY-MM-DD
	TimeSlot        models.TimeSlot `json:"time_slot"`
	Location        string          `json:"location,omitempty"`
	CustomerNotes   string          `json:"customer_notes,omitempty"`
}

// BookAppointment books a slot on a care service. The slot must be offered on
// that weekday and still free on that date.
func BookAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	serviceID, err := objectIDFromParam(req.ServiceID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid service id")
		return
	}
	appointmentDate, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "appointment_date must be YYYY-MM-DD")
		return
	}
	if req.TimeSlot.Start == "" || req.TimeSlot.End == "" {
		writeMessage(w, http.StatusBadRequest, "time_slot start and end are required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var service models.CareService
	err = database.DB.Collection(database.ColServices).FindOne(ctx, bson.M{"_id": serviceID, "is_active": true}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Service not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// The provider must offer this slot on that weekday
	weekday := strings.ToLower(appointmentDate.Weekday().String())
	offered := false
	for _, day := range service.Availability {
		if day.Day != weekday {
			continue
		}
		for _, slot := range day.TimeSlots {
			if slot.Start == req.TimeSlot.Start && slot.End == req.TimeSlot.End {
				offered = true
				break
			}
		}
	}
	if !offered {
		writeMessage(w, http.StatusBadRequest, "This time slot is not offered on that day")
		return
	}

	appointments := database.DB.Collection(database.ColAppointments)

	// Reject double bookings for the same date and slot
	conflict, err := appointments.CountDocuments(ctx, bson.M{
		"service_id":       serviceID,
		"appointment_date": appointmentDate,
		"time_slot.start":  req.TimeSlot.Start,
		"status":           bson.M{"$nin": []string{models.AppointmentCancelled, models.AppointmentNoShow}},
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if conflict > 0 {
		writeMessage(w, http.StatusConflict, "This time slot is already booked")
		return
	}

	var petID *primitive.ObjectID
	if req.PetID != "" {
		id, err := objectIDFromParam(req.PetID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid pet id")
			return
		}
		petID = &id
	}

	location := req.Location
	if location == "" {
		location = "clinic"
	}

	now := time.Now().UTC()
	appointment := models.Appointment{
		ID:              primitive.NewObjectID(),
		ServiceID:       serviceID,
		CustomerID:      userID,
		ProviderID:      service.ProviderID,
		PetID:           petID,
		CreatedAt:       now,
		UpdatedAt:       now,
		AppointmentDate: appointmentDate,
		TimeSlot:        req.TimeSlot,
		Status:          models.AppointmentScheduled,
		Price:           service.Price,
		Location:        location,
		PaymentStatus:   "pending",
		CustomerNotes:   req.CustomerNotes,
	}

	if _, err := appointments.InsertOne(ctx, appointment); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to book appointment")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Appointment booked", Data: appointment})
}

// MyAppointments lists appointments where the caller is customer or provider,
// filterable by status or restricted to upcoming dates.
func MyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"customer_id": userID},
		{"provider_id": userID},
	}}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if r.URL.Query().Get("upcoming") == "true" {
		filter["appointment_date"] = bson.M{"$gte": time.Now().UTC().Truncate(24 * time.Hour)}
		filter["status"] = bson.M{"$nin": []string{models.AppointmentCancelled, models.AppointmentNoShow}}
	}
	findOptions := options.Find().SetSort(bson.M{"appointment_date": -1})

	cursor, err := database.DB.Collection(database.ColAppointments).Find(ctx, filter, findOptions)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: appointments})
}

// Update Appointment Status Request
type UpdateAppointmentStatusRequest struct {
	Status        string `json:"status"`
	ProviderNotes string `json:"provider_notes,omitempty"`
}

var appointmentStatuses = map[string]bool{
	models.AppointmentConfirmed:  true,
	models.AppointmentInProgress: true,
	models.AppointmentCompleted:  true,
	models.AppointmentCancelled:  true,
	models.AppointmentNoShow:     true,
}

// UpdateAppointmentStatus advances an appointment. Providers can set any
// status; customers may only cancel.
func UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	appointmentID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !appointmentStatuses[req.Status] {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var appointment models.Appointment
	err = database.DB.Collection(database.ColAppointments).FindOne(ctx, bson.M{"_id": appointmentID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Appointment not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	isProvider := appointment.ProviderID == userID
	isCustomer := appointment.CustomerID == userID
	if !isProvider && !isCustomer {
		writeMessage(w, http.StatusForbidden, "Not your appointment")
		return
	}
	if isCustomer && !isProvider && req.Status != models.AppointmentCancelled {
		writeMessage(w, http.StatusForbidden, "Customers can only cancel appointments")
		return
	}

	update := bson.M{"status": req.Status, "updated_at": time.Now().UTC()}
	if isProvider && req.ProviderNotes != "" {
		update["provider_notes"] = req.ProviderNotes
	}

	_, err = database.DB.Collection(database.ColAppointments).UpdateOne(ctx,
		bson.M{"_id": appointmentID},
		bson.M{"$set": update},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	writeMessage(w, http.StatusOK, "Appointment updated")
}
