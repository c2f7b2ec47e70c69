package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// Create Pet Request
type CreatePetRequest struct {
	Name         string   `json:"name"`
	Species      string   `json:"species"`
	DateOfBirth  string   `json:"date_of_birth"` // YYYY-MM-DD
	Breed        string   `json:"breed,omitempty"`
	Color        string   `json:"color,omitempty"`
	Description  string   `json:"description,omitempty"`
	ProfilePhoto string   `json:"profile_photo,omitempty"`
	Traits       []string `json:"traits,omitempty"`
}

// CreatePet registers a pet owned by the caller
func CreatePet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CreatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Species == "" {
		writeMessage(w, http.StatusBadRequest, "Name and species are required")
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		dob = parsed
	}

	pet := models.Pet{
		ID:           primitive.NewObjectID(),
		OwnerID:      userID,
		CreatedAt:    time.Now().UTC(),
		Name:         req.Name,
		Species:      req.Species,
		DateOfBirth:  dob,
		Breed:        req.Breed,
		Color:        req.Color,
		Description:  req.Description,
		Status:       models.PetAdopted,
		ProfilePhoto: req.ProfilePhoto,
		Traits:       req.Traits,
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection(database.ColPets).InsertOne(ctx, pet); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create pet")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Pet created", Data: pet})
}

// GetPet returns one pet's profile
func GetPet(w http.ResponseWriter, r *http.Request) {
	petID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var pet models.Pet
	err = database.DB.Collection(database.ColPets).FindOne(ctx, bson.M{"_id": petID}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Pet not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: pet})
}

// MyPets lists all pets owned by the caller
func MyPets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cursor, err := database.DB.Collection(database.ColPets).Find(ctx, bson.M{"owner_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	pets := []models.Pet{}
	if err := cursor.All(ctx, &pets); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: pets})
}

// UpdatePetRequest carries optional pet fields; empty values are ignored.
type UpdatePetRequest struct {
	Name         string   `json:"name,omitempty"`
	Breed        string   `json:"breed,omitempty"`
	Color        string   `json:"color,omitempty"`
	Description  string   `json:"description,omitempty"`
	ProfilePhoto string   `json:"profile_photo,omitempty"`
	Traits       []string `json:"traits,omitempty"`
}

// UpdatePet edits a pet's profile. Owner only.
func UpdatePet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	petID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}

	var req UpdatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Breed != "" {
		update["breed"] = req.Breed
	}
	if req.Color != "" {
		update["color"] = req.Color
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.ProfilePhoto != "" {
		update["profile_photo"] = req.ProfilePhoto
	}
	if req.Traits != nil {
		update["traits"] = req.Traits
	}
	if len(update) == 0 {
		writeMessage(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": petID, "owner_id": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update pet")
		return
	}
	if result.MatchedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Pet not found or not owned by you")
		return
	}

	writeMessage(w, http.StatusOK, "Pet updated")
}

// DeletePet removes a pet and its adoption listing, if any. Owner only.
func DeletePet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	petID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := database.DB.Collection(database.ColPets).DeleteOne(ctx, bson.M{"_id": petID, "owner_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete pet")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Pet not found or not owned by you")
		return
	}

	// Cascade: drop the listing and its requests
	var post models.AdoptionPost
	err = database.DB.Collection(database.ColAdoptions).FindOneAndDelete(ctx, bson.M{"pet_id": petID}).Decode(&post)
	if err == nil {
		database.DB.Collection(database.ColRequests).DeleteMany(ctx, bson.M{"adoption_id": post.ID})
		database.DB.Collection(database.ColFavorites).DeleteMany(ctx, bson.M{"post_id": post.ID})
	}

	writeMessage(w, http.StatusOK, "Pet deleted")
}

// AddPetPhotoRequest attaches an already-uploaded photo URL to a pet.
type AddPetPhotoRequest struct {
	URL          string `json:"url"`
	HealthRecord bool   `json:"health_record,omitempty"`
}

// AddPetPhoto appends a photo or health record URL to a pet. Owner only.
func AddPetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	petID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}

	var req AddPetPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeMessage(w, http.StatusBadRequest, "Photo url is required")
		return
	}

	field := "photos"
	if req.HealthRecord {
		field = "health_records"
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": petID, "owner_id": userID},
		bson.M{"$addToSet": bson.M{field: req.URL}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to add photo")
		return
	}
	if result.MatchedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Pet not found or not owned by you")
		return
	}

	writeMessage(w, http.StatusOK, "Photo added")
}

// RemovePetPhoto detaches a photo URL from a pet. Owner only.
func RemovePetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	petID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}

	var req AddPetPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeMessage(w, http.StatusBadRequest, "Photo url is required")
		return
	}

	field := "photos"
	if req.HealthRecord {
		field = "health_records"
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": petID, "owner_id": userID},
		bson.M{"$pull": bson.M{field: req.URL}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove photo")
		return
	}
	if result.MatchedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Pet not found or not owned by you")
		return
	}

	writeMessage(w, http.StatusOK, "Photo removed")
}
