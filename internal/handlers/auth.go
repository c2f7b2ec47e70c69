package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
	"github.com/pawhaven/pawhaven-backend/internal/services"
	"github.com/pawhaven/pawhaven-backend/pkg/utils"
)

// Signup Request
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	Location string `json:"location,omitempty"`
}

// Login Request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auth Response
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Signup handles user registration
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	// Validate required fields
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, username, email, and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	users := database.DB.Collection(database.ColUsers)

	// Check if user already exists
	uniqueness := []bson.M{
		{"email": req.Email},
		{"username": req.Username},
	}
	if req.Phone != "" {
		uniqueness = append(uniqueness, bson.M{"phone": req.Phone})
	}
	count, err := users.CountDocuments(ctx, bson.M{"$or": uniqueness})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusConflict, "A user with this email, username, or phone already exists")
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  hashedPassword,
		Role:      role,
		Location:  req.Location,
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		log.Printf("failed to create user: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User created successfully",
		User:    &user,
		Token:   token,
	})
}

// Login handles user login
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var user models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !valid {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    &user,
		Token:   token,
	})
}

// Logout invalidates the caller's session
func Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeMessage(w, http.StatusBadRequest, "Authorization token required")
		return
	}

	if err := services.InvalidateSession(token); err != nil {
		log.Printf("failed to invalidate session: %v", err)
	}

	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the authenticated user's profile
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := services.GetUserByID(ctx, userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: user})
}

// UpdateProfileRequest carries optional profile fields; empty values are ignored.
type UpdateProfileRequest struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// UpdateProfile updates the authenticated user's profile
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Bio != "" {
		update["bio"] = req.Bio
	}
	if req.ProfilePhoto != "" {
		update["profile_photo"] = req.ProfilePhoto
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := database.DB.Collection(database.ColUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if result.MatchedCount == 0 {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := services.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to load updated profile")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Profile updated", Data: user})
}

// ChangePasswordRequest for password rotation
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password, stores the new hash and
// invalidates the active session.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "Current and new passwords are required")
		return
	}
	if len(req.NewPassword) < 8 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := services.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	valid, err := utils.VerifyPassword(req.CurrentPassword, user.Password)
	if err != nil || !valid {
		writeMessage(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = database.DB.Collection(database.ColUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": hashed, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	services.InvalidateUserSessions(userID)

	writeMessage(w, http.StatusOK, "Password changed successfully. Please log in again.")
}
