package handlers

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// loadPostAndPet resolves a listing together with the pet it offers.
func loadPostAndPet(ctx context.Context, postID primitive.ObjectID) (models.AdoptionPost, models.Pet, error) {
	var post models.AdoptionPost
	err := database.DB.Collection(database.ColAdoptions).FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return post, models.Pet{}, fmt.Errorf("%w: adoption post not found", adoption.ErrNotFound)
		}
		return post, models.Pet{}, err
	}

	var pet models.Pet
	err = database.DB.Collection(database.ColPets).FindOne(ctx, bson.M{"_id": post.PetID}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return post, pet, fmt.Errorf("%w: pet for this listing no longer exists", adoption.ErrNotFound)
		}
		return post, pet, err
	}

	return post, pet, nil
}

// loadRequestWithListing resolves a request plus the listing and pet it
// targets.
func loadRequestWithListing(ctx context.Context, requestID primitive.ObjectID) (models.AdoptionRequest, models.AdoptionPost, models.Pet, error) {
	var request models.AdoptionRequest
	err := database.DB.Collection(database.ColRequests).FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return request, models.AdoptionPost{}, models.Pet{}, fmt.Errorf("%w: adoption request not found", adoption.ErrNotFound)
		}
		return request, models.AdoptionPost{}, models.Pet{}, err
	}

	post, pet, err := loadPostAndPet(ctx, request.AdoptionID)
	return request, post, pet, err
}
