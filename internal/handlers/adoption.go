package handlers

import (
	"encoding/json"
	"log"
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

// Create Adoption Post Request
type CreateAdoptionPostRequest struct {
	PetID       string `json:"pet_id"`
	Description string `json:"description"`
	Type        string `json:"adoption_type"`
	ReturnDate  string `json:"return_date,omitempty"` // YYYY-MM-DD, temporary listings only
}

// FeedItem is one entry of the available-pets feed.
type FeedItem struct {
	Post          models.AdoptionPost `json:"post"`
	Pet           models.Pet          `json:"pet"`
	OwnerName     string              `json:"owner_name"`
	OwnerLocation string              `json:"owner_location,omitempty"`
	LikeCount     int                 `json:"like_count"`
	CommentCount  int                 `json:"comment_count"`
}

// CreateAdoptionPost lists one of the caller's pets for adoption. A pet can
// carry at most one listing; the unique pet_id index is the guard.
func CreateAdoptionPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CreateAdoptionPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	petID, err := objectIDFromParam(req.PetID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid pet id")
		return
	}
	if req.Type != models.AdoptionPermanent && req.Type != models.AdoptionTemporary {
		writeMessage(w, http.StatusBadRequest, "adoption_type must be permanent or temporary")
		return
	}

	var returnDate *time.Time
	if req.Type == models.AdoptionTemporary {
		if req.ReturnDate == "" {
			writeMessage(w, http.StatusBadRequest, "return_date is required for temporary adoption")
			return
		}
		parsed, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "return_date must be YYYY-MM-DD")
			return
		}
		returnDate = &parsed
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
	if pet.OwnerID != userID {
		writeMessage(w, http.StatusForbidden, "You can only list your own pets")
		return
	}

	now := time.Now().UTC()
	post := models.AdoptionPost{
		ID:          primitive.NewObjectID(),
		PetID:       petID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Description: req.Description,
		Type:        req.Type,
		ReturnDate:  returnDate,
	}

	if _, err := database.DB.Collection(database.ColAdoptions).InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeMessage(w, http.StatusConflict, "This pet already has an adoption listing")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to create listing")
		return
	}

	// A listed pet becomes visible in the available feed
	database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": petID},
		bson.M{"$set": bson.M{"status": models.PetAvailable}},
	)

	services.Cache.InvalidateFeed()

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Adoption listing created", Data: post})
}

// GetAvailablePets returns the feed of listed pets, served from Redis when
// fresh.
func GetAvailablePets(w http.ResponseWriter, r *http.Request) {
	var cached []FeedItem
	if hit, _ := services.Cache.Get(services.FeedCacheKey, &cached); hit {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cursor, err := database.DB.Collection(database.ColAdoptions).Find(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var posts []models.AdoptionPost
	if err := cursor.All(ctx, &posts); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	feed := []FeedItem{}
	for _, post := range posts {
		var pet models.Pet
		if err := database.DB.Collection(database.ColPets).FindOne(ctx, bson.M{"_id": post.PetID}).Decode(&pet); err != nil {
			continue // listing without a pet is skipped, not fatal
		}
		if pet.Status != models.PetAvailable {
			continue
		}

		item := FeedItem{
			Post:         post,
			Pet:          pet,
			OwnerName:    "Unknown User",
			LikeCount:    len(post.Likes),
			CommentCount: len(post.Comments),
		}
		if owner, err := services.GetUserByID(ctx, pet.OwnerID); err == nil && owner != nil {
			item.OwnerName = owner.Name
			item.OwnerLocation = owner.Location
		}
		feed = append(feed, item)
	}

	if err := services.Cache.Set(services.FeedCacheKey, feed, services.FeedCacheTTL); err != nil {
		log.Printf("failed to cache adoption feed: %v", err)
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: feed})
}

// GetAdoptionPost returns one listing with its pet and owner details.
func GetAdoptionPost(w http.ResponseWriter, r *http.Request) {
	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var post models.AdoptionPost
	err = database.DB.Collection(database.ColAdoptions).FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Adoption post not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	item := FeedItem{
		Post:         post,
		OwnerName:    "Unknown User",
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
	}
	if err := database.DB.Collection(database.ColPets).FindOne(ctx, bson.M{"_id": post.PetID}).Decode(&item.Pet); err == nil {
		if owner, err := services.GetUserByID(ctx, item.Pet.OwnerID); err == nil && owner != nil {
			item.OwnerName = owner.Name
			item.OwnerLocation = owner.Location
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: item})
}

// MyAdoptionPosts lists the caller's own listings.
func MyAdoptionPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	// Listings are keyed by pet, so resolve the caller's pets first
	petCursor, err := database.DB.Collection(database.ColPets).Find(ctx, bson.M{"owner_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer petCursor.Close(ctx)

	var pets []models.Pet
	if err := petCursor.All(ctx, &pets); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	petIDs := make([]primitive.ObjectID, 0, len(pets))
	petsByID := make(map[primitive.ObjectID]models.Pet, len(pets))
	for _, p := range pets {
		petIDs = append(petIDs, p.ID)
		petsByID[p.ID] = p
	}

	feed := []FeedItem{}
	if len(petIDs) > 0 {
		cursor, err := database.DB.Collection(database.ColAdoptions).Find(ctx, bson.M{"pet_id": bson.M{"$in": petIDs}})
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		defer cursor.Close(ctx)

		var posts []models.AdoptionPost
		if err := cursor.All(ctx, &posts); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		for _, post := range posts {
			feed = append(feed, FeedItem{
				Post:         post,
				Pet:          petsByID[post.PetID],
				LikeCount:    len(post.Likes),
				CommentCount: len(post.Comments),
			})
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: feed})
}

// UpdateAdoptionPostRequest edits a listing's description or return date.
type UpdateAdoptionPostRequest struct {
	Description string `json:"description,omitempty"`
	ReturnDate  string `json:"return_date,omitempty"`
}

// UpdateAdoptionPost edits a listing. Owner only.
func UpdateAdoptionPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req UpdateAdoptionPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
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
		writeMessage(w, http.StatusForbidden, "Only the listing owner can edit this post")
		return
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.ReturnDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "return_date must be YYYY-MM-DD")
			return
		}
		update["return_date"] = parsed
	}

	_, err = database.DB.Collection(database.ColAdoptions).UpdateOne(ctx,
		bson.M{"_id": post.ID},
		bson.M{"$set": update},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}

	services.Cache.InvalidateFeed()
	writeMessage(w, http.StatusOK, "Listing updated")
}

// DeleteAdoptionPost removes a listing, its requests and favorites, and takes
// the pet out of the available feed. Owner only.
func DeleteAdoptionPost(w http.ResponseWriter, r *http.Request) {
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
		writeMessage(w, http.StatusForbidden, "Only the listing owner can delete this post")
		return
	}

	if _, err := database.DB.Collection(database.ColAdoptions).DeleteOne(ctx, bson.M{"_id": post.ID}); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete listing")
		return
	}

	database.DB.Collection(database.ColRequests).DeleteMany(ctx, bson.M{"adoption_id": post.ID})
	database.DB.Collection(database.ColFavorites).DeleteMany(ctx, bson.M{"post_id": post.ID})
	database.DB.Collection(database.ColPets).UpdateOne(ctx,
		bson.M{"_id": pet.ID},
		bson.M{"$set": bson.M{"status": models.PetAdopted}},
	)

	services.Cache.InvalidateFeed()
	writeMessage(w, http.StatusOK, "Listing deleted")
}

// ToggleLike adds or removes the caller's like on a listing. Returns the new
// state and notifies the owner on a fresh like.
func ToggleLike(w http.ResponseWriter, r *http.Request) {
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

	liked := false
	for _, id := range post.Likes {
		if id == userID {
			liked = true
			break
		}
	}

	adoptions := database.DB.Collection(database.ColAdoptions)
	if liked {
		_, err = adoptions.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$pull": bson.M{"likes": userID}})
	} else {
		_, err = adoptions.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update like")
		return
	}

	nowLiked := !liked
	totalLikes := len(post.Likes)
	if nowLiked {
		totalLikes++
	} else {
		totalLikes--
	}

	if nowLiked {
		likerName := services.GetUserName(ctx, userID)
		if notice, notify := adoption.LikeNotice(pet, userID, likerName, totalLikes); notify {
			services.Dispatch(ctx, []adoption.Notice{notice})
		}
	}

	services.Cache.InvalidateFeed()

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"liked":      nowLiked,
		"like_count": totalLikes,
	}})
}

// LikeStatus reports whether the caller has liked a listing.
func LikeStatus(w http.ResponseWriter, r *http.Request) {
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

	var post models.AdoptionPost
	err = database.DB.Collection(database.ColAdoptions).FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Adoption post not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	liked := false
	for _, id := range post.Likes {
		if id == userID {
			liked = true
			break
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"liked":      liked,
		"like_count": len(post.Likes),
	}})
}
