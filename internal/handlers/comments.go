package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// Create Comment Request
type CreateCommentRequest struct {
	Text     string `json:"comment"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateComment appends a comment (or reply) to a listing's discussion.
func CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeMessage(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	post, _, err := loadPostAndPet(ctx, postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}

	// A reply must point at a comment that exists on this post
	if req.ParentID != "" {
		parentID, err := objectIDFromParam(req.ParentID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid parent comment id")
			return
		}
		found := false
		for _, c := range post.Comments {
			if c.ID == parentID {
				found = true
				break
			}
		}
		if !found {
			writeMessage(w, http.StatusNotFound, "Parent comment not found")
			return
		}
		comment.ParentID = &parentID
	}

	_, err = database.DB.Collection(database.ColAdoptions).UpdateOne(ctx,
		bson.M{"_id": post.ID},
		bson.M{"$push": bson.M{"comments": comment}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	services.Cache.InvalidateFeed()

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Comment added", Data: comment})
}

// GetComments returns a listing's discussion as a nested reply tree.
func GetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	post, _, err := loadPostAndPet(ctx, postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(post.Comments))
	seen := make(map[primitive.ObjectID]bool, len(post.Comments))
	for _, c := range post.Comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}

	names, err := services.GetUserNames(ctx, userIDs)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	tree := adoption.BuildCommentTree(post.Comments, names)

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"comments": tree,
		"count":    adoption.CountNodes(tree),
	}})
}
