package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	notifications, err := services.ListNotifications(ctx, userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: notifications})
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	notificationID, err := objectIDFromParam(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	// Scope to the caller so nobody marks someone else's notification
	count, err := database.DB.Collection(database.ColNotifications).CountDocuments(ctx,
		bson.M{"_id": notificationID, "user_id": userID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	if err := services.MarkNotificationRead(ctx, notificationID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	writeMessage(w, http.StatusOK, "Notification marked as read")
}
