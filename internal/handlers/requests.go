package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// RequestAdoption opens an adoption request against a listing.
func RequestAdoption(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	post, pet, err := loadPostAndPet(ctx, postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	requests := database.DB.Collection(database.ColRequests)

	existing, err := requests.CountDocuments(ctx, bson.M{"adoption_id": post.ID, "requester_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	request, notices, err := adoption.CreateRequest(adoption.CreateRequestInput{
		Post:          post,
		Pet:           pet,
		RequesterID:   userID,
		RequesterName: services.GetUserName(ctx, userID),
		HasExisting:   existing > 0,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	request.ID = primitive.NewObjectID()
	if _, err := requests.InsertOne(ctx, request); err != nil {
		// The unique (adoption_id, requester_id) index is the authoritative
		// duplicate guard under concurrent creates
		if mongo.IsDuplicateKeyError(err) {
			writeMessage(w, http.StatusConflict, "Adoption request already sent for this pet")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to create request")
		return
	}

	services.Dispatch(ctx, notices)

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Adoption request sent", Data: request})
}

// RequestView is a request joined with its requester's public details.
type RequestView struct {
	Request       models.AdoptionRequest `json:"request"`
	RequesterName string                 `json:"requester_name"`
}

// ViewRequests lists all requests against one listing. Listing owner only.
func ViewRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	post, pet, err := loadPostAndPet(ctx, postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if pet.OwnerID != userID {
		writeMessage(w, http.StatusForbidden, "Only the listing owner can view requests")
		return
	}

	cursor, err := database.DB.Collection(database.ColRequests).Find(ctx, bson.M{"adoption_id": post.ID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var reqs []models.AdoptionRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	requesterIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, req := range reqs {
		requesterIDs = append(requesterIDs, req.RequesterID)
	}
	names, err := services.GetUserNames(ctx, requesterIDs)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	views := []RequestView{}
	for _, req := range reqs {
		name, ok := names[req.RequesterID]
		if !ok {
			name = "Unknown User"
		}
		views = append(views, RequestView{Request: req, RequesterName: name})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: views})
}

// MyRequests lists the caller's outgoing adoption requests.
func MyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cursor, err := database.DB.Collection(database.ColRequests).Find(ctx, bson.M{"requester_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	reqs := []models.AdoptionRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: reqs})
}

// Schedule Meeting Request
type ScheduleMeetingRequest struct {
	MeetingDate time.Time `json:"meeting_date"`
	Notes       string    `json:"notes,omitempty"`
}

// ScheduleMeeting moves a request to meet-scheduled, or edits an existing
// meeting. Listing owner only.
func ScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	requestID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req ScheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	request, _, pet, err := loadRequestWithListing(ctx, requestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ownerPhone := ""
	if owner, err := services.GetUserByID(ctx, pet.OwnerID); err == nil && owner != nil {
		ownerPhone = owner.Phone
	}

	updated, notices, err := adoption.ScheduleMeeting(adoption.ScheduleMeetingInput{
		Request:     request,
		Pet:         pet,
		ActorID:     userID,
		OwnerPhone:  ownerPhone,
		MeetingDate: req.MeetingDate,
		Notes:       req.Notes,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, err = database.DB.Collection(database.ColRequests).UpdateOne(ctx,
		bson.M{"_id": updated.ID},
		bson.M{"$set": bson.M{
			"status":       updated.Status,
			"meeting_date": updated.MeetingDate,
			"notes":        updated.Notes,
			"updated_at":   updated.UpdatedAt,
		}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to schedule meeting")
		return
	}

	services.Dispatch(ctx, notices)

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Meeting scheduled", Data: updated})
}

// ConfirmAdoption completes a request: ownership transfers to the requester
// and the pet leaves the available feed. Listing owner only.
func ConfirmAdoption(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	requestID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	request, _, pet, err := loadRequestWithListing(ctx, requestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, notices, err := adoption.ConfirmAdoption(adoption.ConfirmAdoptionInput{
		Request: request,
		Pet:     pet,
		ActorID: userID,
		Now:     time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, err = database.DB.Collection(database.ColRequests).UpdateOne(ctx,
		bson.M{"_id": result.Request.ID},
		bson.M{"$set": bson.M{"status": result.Request.Status, "updated_at": result.Request.UpdatedAt}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update request")
		return
	}

	_, err = database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": result.Pet.ID},
		bson.M{"$set": bson.M{"owner_id": result.Pet.OwnerID, "status": result.Pet.Status}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to transfer ownership")
		return
	}

	// The adopted pet drops out of the feed via its status; the listing and
	// any sibling requests stay as the owner left them
	services.Dispatch(ctx, notices)
	services.Cache.InvalidateFeed()

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Adoption confirmed", Data: result.Request})
}

// RejectRequest deletes a request and notifies the requester. Listing owner
// only. Rejection leaves no tombstone; the requester may apply again.
func RejectRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	requestID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	request, _, pet, err := loadRequestWithListing(ctx, requestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	notices, err := adoption.RejectRequest(adoption.RejectRequestInput{
		Request: request,
		Pet:     pet,
		ActorID: userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if _, err := database.DB.Collection(database.ColRequests).DeleteOne(ctx, bson.M{"_id": request.ID}); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete request")
		return
	}

	services.Dispatch(ctx, notices)

	writeMessage(w, http.StatusOK, "Adoption request rejected")
}
