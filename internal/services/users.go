package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// GetUserByID loads one user document. Returns (nil, nil) when not found.
func GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserName returns the display name for a user, "Unknown User" when the
// account no longer exists.
func GetUserName(ctx context.Context, userID primitive.ObjectID) string {
	user, err := GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return "Unknown User"
	}
	return user.Name
}

// GetUserNames resolves display names for a set of user ids in one query.
func GetUserNames(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	cursor, err := database.DB.Collection(database.ColUsers).Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
