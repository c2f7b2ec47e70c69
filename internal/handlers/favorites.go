package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// AddFavorite bookmarks a listing for the caller. Idempotent via the unique
// (user_id, post_id) index.
func AddFavorite(w http.ResponseWriter, r *http.Request) {
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

	if _, _, err := loadPostAndPet(ctx, postID); err != nil {
		writeDomainError(w, err)
		return
	}

	favorite := models.Favorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		PostType:  "adoption",
		CreatedAt: time.Now().UTC(),
	}

	if _, err := database.DB.Collection(database.ColFavorites).InsertOne(ctx, favorite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeMessage(w, http.StatusOK, "Already in favorites")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to add favorite")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Added to favorites", Data: favorite})
}

// RemoveFavorite drops a bookmark.
func RemoveFavorite(w http.ResponseWriter, r *http.Request) {
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

	result, err := database.DB.Collection(database.ColFavorites).DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Favorite not found")
		return
	}

	writeMessage(w, http.StatusOK, "Removed from favorites")
}

// MyFavorites returns the caller's bookmarked listings, enriched with pet
// details.
func MyFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cursor, err := database.DB.Collection(database.ColFavorites).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := []FeedItem{}
	for _, fav := range favorites {
		post, pet, err := loadPostAndPet(ctx, fav.PostID)
		if err != nil {
			continue // stale favorite: the listing is gone
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
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

// FavoriteCount reports how many users bookmarked a listing.
func FavoriteCount(w http.ResponseWriter, r *http.Request) {
	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	count, err := database.DB.Collection(database.ColFavorites).CountDocuments(ctx, bson.M{"post_id": postID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]int64{"count": count}})
}

// FavoriteStatus reports whether the caller bookmarked a listing.
func FavoriteStatus(w http.ResponseWriter, r *http.Request) {
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

	count, err := database.DB.Collection(database.ColFavorites).CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]bool{"favorited": count > 0}})
}
