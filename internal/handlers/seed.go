package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// SeedCareServices inserts a starter catalog of care services when the
// collection is empty. Development convenience; a second call is a no-op.
func SeedCareServices(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	services := database.DB.Collection(database.ColServices)

	count, err := services.CountDocuments(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusOK, "Care services already seeded")
		return
	}

	weekdays := []models.DayAvailability{
		{Day: "monday", TimeSlots: []models.TimeSlot{{Start: "09:00", End: "10:00"}, {Start: "10:00", End: "11:00"}, {Start: "14:00", End: "15:00"}}},
		{Day: "wednesday", TimeSlots: []models.TimeSlot{{Start: "09:00", End: "10:00"}, {Start: "15:00", End: "16:00"}}},
		{Day: "friday", TimeSlots: []models.TimeSlot{{Start: "11:00", End: "12:00"}, {Start: "16:00", End: "17:00"}}},
	}

	now := time.Now().UTC()
	seed := []interface{}{
		models.CareService{
			ID: primitive.NewObjectID(), ProviderID: userID, CreatedAt: now, UpdatedAt: now,
			Name: "General Veterinary Checkup", Description: "Full physical exam, vaccination review, and health advice.",
			Category: "veterinary", Price: 45, Duration: 30, City: "Springfield",
			IsActive: true, Rating: 4.8, ReviewCount: 120,
			Tags: []string{"checkup", "vaccination"}, Features: []string{"Certified vet", "Same-day reports"},
			Availability: weekdays,
		},
		models.CareService{
			ID: primitive.NewObjectID(), ProviderID: userID, CreatedAt: now, UpdatedAt: now,
			Name: "Full Grooming Package", Description: "Bath, haircut, nail trim, and ear cleaning.",
			Category: "grooming", Price: 35, Duration: 60, City: "Springfield",
			IsActive: true, Rating: 4.6, ReviewCount: 85,
			Tags: []string{"bath", "haircut", "nails"}, Features: []string{"Breed-specific cuts"},
			Availability: weekdays,
		},
		models.CareService{
			ID: primitive.NewObjectID(), ProviderID: userID, CreatedAt: now, UpdatedAt: now,
			Name: "Overnight Boarding", Description: "Comfortable overnight stay with play time and feeding.",
			Category: "boarding", Price: 25, Duration: 720, City: "Shelbyville",
			IsActive: true, Rating: 4.4, ReviewCount: 42,
			Tags: []string{"overnight", "boarding"}, Features: []string{"24/7 supervision", "Daily photo updates"},
			Availability: weekdays,
		},
		models.CareService{
			ID: primitive.NewObjectID(), ProviderID: userID, CreatedAt: now, UpdatedAt: now,
			Name: "Basic Obedience Training", Description: "Six-session course covering sit, stay, recall, and leash manners.",
			Category: "training", Price: 60, Duration: 45, City: "Springfield",
			IsActive: true, Rating: 4.9, ReviewCount: 64,
			Tags: []string{"obedience", "puppy"}, Features: []string{"Positive reinforcement only"},
			Availability: weekdays,
		},
	}

	if _, err := services.InsertMany(ctx, seed); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to seed care services")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Care services seeded"})
}

// SeedProducts inserts a starter shop catalog when the products table is
// empty. Development convenience; a second call is a no-op.
func SeedProducts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(w, r); !ok {
		return
	}

	var count int
	if err := database.PostgresDB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusOK, "Products already seeded")
		return
	}

	now := time.Now().UTC()
	seed := []models.Product{
		{Name: "Premium Dry Dog Food 10kg", Description: "Chicken and rice formula for adult dogs.", Price: 39.99, Category: "food", Brand: "PawFuel", Stock: 50},
		{Name: "Cat Scratching Post", Description: "Sisal-wrapped post with a platform perch.", Price: 24.50, Category: "toys", Brand: "WhiskerWorks", Stock: 30},
		{Name: "Adjustable Dog Harness", Description: "No-pull harness, sizes S to XL.", Price: 18.00, Category: "accessories", Brand: "TrailTail", Stock: 75},
		{Name: "Clumping Cat Litter 5kg", Description: "Low-dust, unscented clumping litter.", Price: 12.99, Category: "hygiene", Brand: "CleanPaws", Stock: 100},
		{Name: "Interactive Treat Ball", Description: "Dispenses kibble as your pet plays.", Price: 9.99, Category: "toys", Brand: "PawFuel", Stock: 60},
	}

	for _, p := range seed {
		if _, err := database.PostgresDB.Exec(`
			INSERT INTO products (name, description, price, image, category, brand, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.Name, p.Description, p.Price, p.Image, p.Category, p.Brand, p.Stock, now, now); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to seed products")
			return
		}
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Products seeded"})
}
