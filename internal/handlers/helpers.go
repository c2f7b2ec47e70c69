package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

const requestTimeout = 5 * time.Second

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// APIResponse is the common response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: status < 400, Message: message})
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adoption.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, adoption.ErrNotAuthorized):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, adoption.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, adoption.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// extractBearerToken pulls the session token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth validates the bearer token and returns the caller's user ID.
// Writes a 401 response and returns ok=false when the session is missing
// or expired.
func requireAuth(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	token := extractBearerToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "Authorization token required")
		return primitive.NilObjectID, false
	}

	userID, valid, err := services.ValidateSession(token)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Session validation failed")
		return primitive.NilObjectID, false
	}
	if !valid {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired session")
		return primitive.NilObjectID, false
	}

	// Sliding expiry: active sessions stay alive
	services.RefreshSession(token)

	return userID, true
}

// objectIDFromParam parses a hex ObjectID path or query parameter.
func objectIDFromParam(value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, adoption.ErrValidation
	}
	return id, nil
}
