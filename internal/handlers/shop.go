package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
	"github.com/pawhaven/pawhaven-backend/internal/services"
)

// ListProducts returns the catalog, filterable by category and brand.
func ListProducts(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, name, description, price, image, category, brand, stock, created_at, updated_at
		FROM products WHERE 1=1`
	args := []interface{}{}

	if category := r.URL.Query().Get("category"); category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if brand := r.URL.Query().Get("brand"); brand != "" {
		args = append(args, brand)
		query += fmt.Sprintf(" AND brand = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := database.PostgresDB.Query(query, args...)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Brand, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		products = append(products, p)
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: products})
}

// GetProduct returns one product.
func GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var p models.Product
	err := database.PostgresDB.QueryRow(`
		SELECT id, name, description, price, image, category, brand, stock, created_at, updated_at
		FROM products WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Brand, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			writeMessage(w, http.StatusNotFound, "Product not found")
		} else {
			writeMessage(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: p})
}

// Add Product Request
type AddProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand,omitempty"`
	Stock       int     `json:"stock"`
}

// AddProduct inserts a catalog entry.
func AddProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(w, r); !ok {
		return
	}

	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Category == "" || req.Price < 0 || req.Stock < 0 {
		writeMessage(w, http.StatusBadRequest, "Name, category, and non-negative price and stock are required")
		return
	}

	now := time.Now().UTC()
	var id string
	err := database.PostgresDB.QueryRow(`
		INSERT INTO products (name, description, price, image, category, brand, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, req.Name, req.Description, req.Price, req.Image, req.Category, req.Brand, req.Stock, now, now).Scan(&id)
	if err != nil {
		log.Printf("failed to insert product: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to add product")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Product added", Data: map[string]string{"id": id}})
}

// Checkout turns the caller's cart into a pending order. Stock is checked and
// reserved inside one transaction; payment settles separately through the
// mock gateway callbacks.
func Checkout(w http.ResponseWriter, r *http.Request) {
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
	if len(cart.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	orderItems := []models.OrderItem{}
	total := 0.0

	for _, item := range cart.Items {
		var p models.Product
		err := tx.QueryRow(`
			SELECT id, name, price, image, stock FROM products WHERE id = $1 FOR UPDATE
		`, item.ProductID).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Stock)
		if err != nil {
			if err == sql.ErrNoRows {
				writeMessage(w, http.StatusNotFound, fmt.Sprintf("Product %s no longer exists", item.ProductID))
			} else {
				writeMessage(w, http.StatusInternalServerError, "Database error")
			}
			return
		}
		if p.Stock < item.Quantity {
			writeMessage(w, http.StatusConflict, fmt.Sprintf("Not enough stock for %s (%d left)", p.Name, p.Stock))
			return
		}

		if _, err := tx.Exec(`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3`,
			item.Quantity, time.Now().UTC(), p.ID); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to reserve stock")
			return
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
			Image:     p.Image,
		})
		total += p.Price * float64(item.Quantity)
	}

	orderID := uuid.New().String()
	transactionID := "MOCK-" + uuid.New().String()
	now := time.Now().UTC()

	if _, err := tx.Exec(`
		INSERT INTO orders (id, user_id, total, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, orderID, userID.Hex(), total, models.OrderPending, transactionID, now); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	for _, item := range orderItems {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, name, price, quantity, image)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Image); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to record order items")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to commit order")
		return
	}

	if err := services.ClearCart(ctx, userID.Hex()); err != nil {
		log.Printf("failed to clear cart for %s: %v", userID.Hex(), err)
	}

	order := models.Order{
		ID:            orderID,
		UserID:        userID.Hex(),
		Items:         orderItems,
		Total:         total,
		Status:        models.OrderPending,
		TransactionID: transactionID,
		CreatedAt:     now,
	}

	// Mock gateway: the client follows payment_url, then calls the success or
	// failure callback
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "Order placed", Data: map[string]interface{}{
		"order":       order,
		"payment_url": fmt.Sprintf("/api/shop/orders/%s/success", orderID),
	}})
}

// settlePendingOrder flips one pending order to its final status and, on
// failure, releases the reserved stock. The pending check is part of the
// UPDATE itself, so two concurrent settlements cannot both pass it: the loser
// matches zero rows and gets a conflict, and the restock runs at most once.
func settlePendingOrder(ctx context.Context, orderID, userID, status string) error {
	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE orders SET status = $1 WHERE id = $2 AND user_id = $3 AND status = 'pending'
	`, status, orderID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND user_id = $2)
		`, orderID, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: order not found", adoption.ErrNotFound)
		}
		return fmt.Errorf("%w: order is already settled", adoption.ErrConflict)
	}

	// A failed payment releases the reserved stock
	if status == models.OrderFailed {
		rows, err := tx.Query(`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, orderID)
		if err != nil {
			return err
		}
		type restock struct {
			productID string
			quantity  int
		}
		restocks := []restock{}
		for rows.Next() {
			var rs restock
			if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
				rows.Close()
				return err
			}
			restocks = append(restocks, rs)
		}
		rows.Close()

		for _, rs := range restocks {
			if _, err := tx.Exec(`UPDATE products SET stock = stock + $1 WHERE id = $2`, rs.quantity, rs.productID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// settleOrder is shared by the mock payment callbacks.
func settleOrder(w http.ResponseWriter, r *http.Request, status string) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	orderID := chi.URLParam(r, "id")

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := settlePendingOrder(ctx, orderID, userID.Hex(), status); err != nil {
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("Order marked %s", status))
}

// PaymentSuccess marks a pending order paid.
func PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	settleOrder(w, r, models.OrderPaid)
}

// PaymentFailure marks a pending order failed and restores stock.
func PaymentFailure(w http.ResponseWriter, r *http.Request) {
	settleOrder(w, r, models.OrderFailed)
}

// PurchaseHistory lists the caller's orders with their items, newest first.
func PurchaseHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, user_id, total, status, transaction_id, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID.Hex())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var transactionID sql.NullString
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &transactionID, &o.CreatedAt); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		o.TransactionID = transactionID.String
		o.Items = []models.OrderItem{}
		orders = append(orders, o)
	}

	for i := range orders {
		itemRows, err := database.PostgresDB.Query(`
			SELECT product_id, name, price, quantity, image FROM order_items WHERE order_id = $1
		`, orders[i].ID)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		for itemRows.Next() {
			var item models.OrderItem
			if err := itemRows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
				itemRows.Close()
				writeMessage(w, http.StatusInternalServerError, "Database error")
				return
			}
			orders[i].Items = append(orders[i].Items, item)
		}
		itemRows.Close()
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: orders})
}
