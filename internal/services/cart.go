package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

const (
	// CartKeyPrefix is the Redis key prefix for per-user carts
	CartKeyPrefix = "cart:"
	// CartTTL keeps abandoned carts for 30 days
	CartTTL = 30 * 24 * time.Hour
)

// GetCart loads a user's cart from Redis, returning an empty cart when none
// exists.
func GetCart(ctx context.Context, userID string) (models.Cart, error) {
	cart := models.Cart{UserID: userID, Items: []models.CartItem{}}

	val, err := database.RedisClient.Get(ctx, CartKeyPrefix+userID).Result()
	if err != nil {
		return cart, nil // no cart yet
	}
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// SaveCart writes a user's cart back to Redis.
func SaveCart(ctx context.Context, cart models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, CartKeyPrefix+cart.UserID, data, CartTTL).Err()
}

// ClearCart drops a user's cart.
func ClearCart(ctx context.Context, userID string) error {
	return database.RedisClient.Del(ctx, CartKeyPrefix+userID).Err()
}

// AddCartItem merges quantity into an existing line or appends a new one.
func AddCartItem(cart models.Cart, productID string, quantity int) models.Cart {
	if quantity < 1 {
		quantity = 1
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity += quantity
			return cart
		}
	}
	cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	return cart
}

// SetCartItemQuantity updates one line; quantity <= 0 removes it. The second
// return reports whether the product was in the cart.
func SetCartItemQuantity(cart models.Cart, productID string, quantity int) (models.Cart, bool) {
	for i, item := range cart.Items {
		if item.ProductID != productID {
			continue
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = quantity
		}
		return cart, true
	}
	return cart, false
}
