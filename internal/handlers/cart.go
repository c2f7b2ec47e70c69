package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// GetCart returns the caller's cart.
func GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cart, err := services.GetCart(ctx, userID.Hex())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cart})
}

// Cart Item Request
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart merges a product into the caller's cart.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "product_id is required")
		return
	}

	// The product must exist in the catalog
	var exists bool
	err := database.PostgresDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, req.ProductID).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cart, err := services.GetCart(ctx, userID.Hex())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	cart = services.AddCartItem(cart, req.ProductID, req.Quantity)

	if err := services.SaveCart(ctx, cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Added to cart", Data: cart})
}

// UpdateCartItem sets one line's quantity; zero removes the line.
func UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "product_id is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cart, err := services.GetCart(ctx, userID.Hex())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	cart, found := services.SetCartItemQuantity(cart, req.ProductID, req.Quantity)
	if !found {
		writeMessage(w, http.StatusNotFound, "Product not in cart")
		return
	}

	if err := services.SaveCart(ctx, cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Cart updated", Data: cart})
}

// ClearCart empties the caller's cart.
func ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := services.ClearCart(ctx, userID.Hex()); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	writeMessage(w, http.StatusOK, "Cart cleared")
}
